package rom

import (
	"bytes"
	"fmt"

	"github.com/joshuapare/romkit/internal/buf"
	"github.com/joshuapare/romkit/internal/mmfile"
)

// inesMagic is the signature at the start of every iNES file.
var inesMagic = []byte{'N', 'E', 'S', 0x1A}

// DirtyTracker receives the buffer spans written through an Image.
type DirtyTracker interface {
	// Add marks length bytes starting at buffer offset off as modified.
	Add(off, length int)
}

// Image is the PRG/CHR data of a cartridge plus a read/write cursor.
type Image struct {
	header []byte
	data   []byte
	pos    int
	dt     DirtyTracker
}

// New wraps data as an image without an iNES header. The slice is used
// directly, not copied.
func New(data []byte) *Image {
	return &Image{data: data}
}

// Parse splits an iNES file into header and data. The input is copied so the
// image stays writable even when file is a read-only mapping.
func Parse(file []byte) (*Image, error) {
	if len(file) < HeaderBias || !bytes.Equal(file[:len(inesMagic)], inesMagic) {
		return nil, ErrNotCartridge
	}
	header := make([]byte, HeaderBias)
	copy(header, file[:HeaderBias])
	data := make([]byte, len(file)-HeaderBias)
	copy(data, file[HeaderBias:])
	return &Image{header: header, data: data}, nil
}

// Open reads the cartridge at path.
func Open(path string) (*Image, error) {
	file, cleanup, err := mmfile.Map(path)
	if err != nil {
		return nil, fmt.Errorf("rom: open %s: %w", path, err)
	}
	defer cleanup()

	img, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("rom: open %s: %w", path, err)
	}
	return img, nil
}

// Clone returns a deep copy without the tracker.
func (img *Image) Clone() *Image {
	c := &Image{pos: img.pos}
	if img.header != nil {
		c.header = append([]byte(nil), img.header...)
	}
	c.data = append([]byte(nil), img.data...)
	return c
}

// Track attaches dt; every subsequent write is reported to it.
func (img *Image) Track(dt DirtyTracker) { img.dt = dt }

// Bytes returns the underlying buffer.
func (img *Image) Bytes() []byte { return img.data }

// Header returns the iNES header, or nil for headerless images.
func (img *Image) Header() []byte { return img.header }

// Len returns the buffer length.
func (img *Image) Len() int { return len(img.data) }

// Position returns the cursor.
func (img *Image) Position() int { return img.pos }

// Seek moves the cursor to off. Seeking to Len() is allowed.
func (img *Image) Seek(off int) error {
	if off < 0 || off > len(img.data) {
		return fmt.Errorf("%w: seek 0x%X (len 0x%X)", ErrOutOfBounds, off, len(img.data))
	}
	img.pos = off
	return nil
}

// Get reads one byte at the cursor and advances it.
func (img *Image) Get() (byte, error) {
	b, err := img.GetAt(img.pos)
	if err != nil {
		return 0, err
	}
	img.pos++
	return b, nil
}

// GetN fills p from the cursor and advances it.
func (img *Image) GetN(p []byte) error {
	src, ok := buf.Slice(img.data, img.pos, len(p))
	if !ok {
		return fmt.Errorf("%w: read %d bytes at 0x%X", ErrOutOfBounds, len(p), img.pos)
	}
	copy(p, src)
	img.pos += len(p)
	return nil
}

// Put writes p at the cursor and advances it.
func (img *Image) Put(p ...byte) error {
	if err := img.WriteAt(img.pos, p); err != nil {
		return err
	}
	img.pos += len(p)
	return nil
}

// GetAt reads the byte at off without moving the cursor.
func (img *Image) GetAt(off int) (byte, error) {
	if off < 0 || off >= len(img.data) {
		return 0, fmt.Errorf("%w: read at 0x%X (len 0x%X)", ErrOutOfBounds, off, len(img.data))
	}
	return img.data[off], nil
}

// PutAt writes b at off without moving the cursor.
func (img *Image) PutAt(off int, b byte) error {
	return img.WriteAt(off, []byte{b})
}

// ReadAt copies len(p) bytes from off into p.
func (img *Image) ReadAt(off int, p []byte) error {
	src, ok := buf.Slice(img.data, off, len(p))
	if !ok {
		return fmt.Errorf("%w: read %d bytes at 0x%X", ErrOutOfBounds, len(p), off)
	}
	copy(p, src)
	return nil
}

// WriteAt copies p into the buffer at off.
func (img *Image) WriteAt(off int, p []byte) error {
	dst, ok := buf.Slice(img.data, off, len(p))
	if !ok {
		return fmt.Errorf("%w: write %d bytes at 0x%X", ErrOutOfBounds, len(p), off)
	}
	copy(dst, p)
	img.markDirty(off, len(p))
	return nil
}

// GetColumns reads len(cols) parallel arrays of length bytes each, stored
// back to back from off, into cols[i][:length].
func (img *Image) GetColumns(off, length int, cols ...[]byte) error {
	if _, err := img.checkColumns(off, length, cols); err != nil {
		return err
	}
	for i, col := range cols {
		start := off + i*length
		copy(col[:length], img.data[start:start+length])
	}
	return nil
}

// PutColumns writes cols[i][:length] back to back from off.
func (img *Image) PutColumns(off, length int, cols ...[]byte) error {
	end, err := img.checkColumns(off, length, cols)
	if err != nil {
		return err
	}
	for i, col := range cols {
		start := off + i*length
		copy(img.data[start:start+length], col[:length])
	}
	img.markDirty(off, end-off)
	return nil
}

func (img *Image) checkColumns(off, length int, cols [][]byte) (int, error) {
	for i, col := range cols {
		if len(col) < length {
			return 0, fmt.Errorf("%w: column %d holds %d bytes, need %d", ErrOutOfBounds, i, len(col), length)
		}
	}
	end, err := buf.CheckColumns(0, len(img.data), off, len(cols), length)
	if err != nil {
		return 0, fmt.Errorf("%w: %d columns x %d at 0x%X: %v", ErrOutOfBounds, len(cols), length, off, err)
	}
	return end, nil
}

func (img *Image) markDirty(off, n int) {
	if img.dt != nil && n > 0 {
		img.dt.Add(off, n)
	}
}
