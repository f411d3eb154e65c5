// Package bytestream provides a bounds-checked little-endian cursor reader
// and the two LZSS ring-buffer decompressors the RealLive and Siglus
// archive formats build on.
package bytestream

import (
	"fmt"

	"github.com/rlvm/rlvm/rlerr"
)

// Reader is a cursor over an immutable byte slice. All Pop* methods advance
// the cursor and fail with rlerr.ErrOutOfRange when the request would read
// past the end of the slice, mirroring the bounds checks the teacher
// performs before every Memory.ReadByte/ReadWord.
type Reader struct {
	data []byte
	pos  int
}

// NewReader wraps b for sequential little-endian reads starting at offset 0.
func NewReader(b []byte) *Reader {
	return &Reader{data: b}
}

// Len returns the number of bytes remaining.
func (r *Reader) Len() int { return len(r.data) - r.pos }

// Pos returns the current cursor offset.
func (r *Reader) Pos() int { return r.pos }

// Seek moves the cursor to an absolute offset.
func (r *Reader) Seek(pos int) error {
	if pos < 0 || pos > len(r.data) {
		return rlerr.Wrap(rlerr.ErrOutOfRange, "seek past end of buffer", "offset", pos)
	}
	r.pos = pos
	return nil
}

// Pop returns the next n bytes and advances the cursor.
func (r *Reader) Pop(n int) ([]byte, error) {
	if n < 0 || r.pos+n > len(r.data) {
		return nil, rlerr.Wrap(rlerr.ErrOutOfRange, fmt.Sprintf("pop(%d) past end of buffer", n), "offset", r.pos)
	}
	out := r.data[r.pos : r.pos+n]
	r.pos += n
	return out, nil
}

// PopUint8 reads one unsigned byte.
func (r *Reader) PopUint8() (uint8, error) {
	b, err := r.Pop(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// PopUint16 reads a little-endian u16.
func (r *Reader) PopUint16() (uint16, error) {
	b, err := r.Pop(2)
	if err != nil {
		return 0, err
	}
	return uint16(b[0]) | uint16(b[1])<<8, nil
}

// PopUint32 reads a little-endian u32.
func (r *Reader) PopUint32() (uint32, error) {
	b, err := r.Pop(4)
	if err != nil {
		return 0, err
	}
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24, nil
}

// PopInt32 reads a little-endian, sign-interpreted i32.
func (r *Reader) PopInt32() (int32, error) {
	v, err := r.PopUint32()
	if err != nil {
		return 0, err
	}
	return int32(v), nil
}

// Remaining returns every byte from the cursor to the end, without
// advancing the cursor.
func (r *Reader) Remaining() []byte {
	return r.data[r.pos:]
}
