package buf

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddOverflowSafe(t *testing.T) {
	sum, ok := AddOverflowSafe(10, 5)
	require.True(t, ok)
	require.Equal(t, 15, sum)

	_, ok = AddOverflowSafe(math.MaxInt, 1)
	require.False(t, ok, "adding to MaxInt must overflow")

	_, ok = AddOverflowSafe(math.MinInt, -1)
	require.False(t, ok, "subtracting from MinInt must underflow")
}

func TestMulOverflowSafe(t *testing.T) {
	got, ok := MulOverflowSafe(4, 0x5B)
	require.True(t, ok)
	require.Equal(t, 0x16C, got)

	got, ok = MulOverflowSafe(0, math.MaxInt)
	require.True(t, ok)
	require.Zero(t, got)

	_, ok = MulOverflowSafe(math.MaxInt/2, 3)
	require.False(t, ok)

	_, ok = MulOverflowSafe(-1, 3)
	require.False(t, ok)
}

func TestCheckSpan(t *testing.T) {
	cases := []struct {
		name    string
		lo, hi  int
		off, n  int
		wantEnd int
		wantErr bool
	}{
		{"exact fit", 0x10, 0x20, 0x10, 0x10, 0x20, false},
		{"empty span at end", 0x10, 0x20, 0x20, 0, 0x20, false},
		{"one past end", 0x10, 0x20, 0x11, 0x10, 0, true},
		{"below start", 0x10, 0x20, 0x0F, 1, 0, true},
		{"negative length", 0, 0x20, 0, -1, 0, true},
		{"overflowing length", 0, math.MaxInt, 1, math.MaxInt, 0, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			end, err := CheckSpan(tc.lo, tc.hi, tc.off, tc.n)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.wantEnd, end)
		})
	}
}

func TestCheckColumns(t *testing.T) {
	end, err := CheckColumns(0, 16, 0, 4, 4)
	require.NoError(t, err)
	require.Equal(t, 16, end)

	_, err = CheckColumns(0, 15, 0, 4, 4)
	require.Error(t, err)

	_, err = CheckColumns(0, 16, 0, -1, 4)
	require.Error(t, err)
}

func TestSlice(t *testing.T) {
	data := []byte{0, 1, 2, 3, 4}

	got, ok := Slice(data, 1, 3)
	require.True(t, ok)
	require.Equal(t, []byte{1, 2, 3}, got)

	_, ok = Slice(data, 4, 2)
	require.False(t, ok, "slice past len")

	_, ok = Slice(data, -1, 1)
	require.False(t, ok, "negative offset")

	_, ok = Slice(data, 1, -1)
	require.False(t, ok, "negative length")
}
