package diag

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReport_Summary(t *testing.T) {
	r := NewReport()
	r.Report(SlotSlack("treasures", 3))
	r.Report(Truncated("computers", 2, ""))
	r.Report(Overflow("event_tiles", 0x1DCBF, 5))
	r.Report(Released("event_tiles", 1, "map 0x04"))

	require.Equal(t, Summary{Errors: 2, Warnings: 1, Info: 1}, r.Summary)
	require.True(t, r.HasErrors())
	require.Equal(t, []string{"computers", "event_tiles", "treasures"}, r.Resources())
	require.Len(t, r.ByKind[KindAddressOverflow], 1)
	require.Equal(t, 5, r.ByKind[KindAddressOverflow][0].Count)
}

func TestReport_WriteJSON(t *testing.T) {
	r := NewReport()
	r.Report(ByteSlack("event_tiles", 0x10, 7))

	var out bytes.Buffer
	require.NoError(t, r.WriteJSON(&out))

	var decoded struct {
		Events []struct {
			Kind     string `json:"kind"`
			Severity string `json:"severity"`
			Count    int    `json:"count"`
			Unit     string `json:"unit"`
		} `json:"events"`
		Summary Summary `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	require.Len(t, decoded.Events, 1)
	require.Equal(t, "SLACK", decoded.Events[0].Kind)
	require.Equal(t, "INFO", decoded.Events[0].Severity)
	require.Equal(t, 7, decoded.Events[0].Count)
	require.Equal(t, "bytes", decoded.Events[0].Unit)
	require.Equal(t, 1, decoded.Summary.Info)
}

func TestEventString(t *testing.T) {
	require.Equal(t, "ERROR event_tiles ADDRESS_OVERFLOW: 5 bytes @0x1DCBF",
		Overflow("event_tiles", 0x1DCBF, 5).String())
	require.Equal(t, "INFO treasures DUPLICATE_RECORD: 1 records @0x3 (same as slot 1)",
		Duplicate("treasures", 3, "same as slot 1").String())
}

func TestSinks(t *testing.T) {
	var got []Event
	collect := SinkFunc(func(e Event) { got = append(got, e) })
	r := NewReport()

	Tee(collect, r, Discard).Report(SlotSlack("t", 1))
	require.Len(t, got, 1)
	require.Len(t, r.Events, 1)

	require.NotNil(t, OrDiscard(nil))
	OrDiscard(nil).Report(SlotSlack("t", 1))
}

func TestSlogSink(t *testing.T) {
	var out bytes.Buffer
	sink := SlogSink{Logger: slog.New(slog.NewJSONHandler(&out, nil))}

	sink.Report(Overflow("event_tiles", 0x20, 5))

	var line map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &line))
	require.Equal(t, "ERROR", line["level"])
	require.Equal(t, "event_tiles", line["resource"])
	require.Equal(t, "ADDRESS_OVERFLOW", line["kind"])
	require.EqualValues(t, 5, line["count"])
	require.EqualValues(t, 0x20, line["offset"])
}
