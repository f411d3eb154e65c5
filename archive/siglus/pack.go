// Package siglus implements the Siglus archive container: the outer
// Pack_hdr locating four sub-tables (properties, commands, scene names,
// scene data), UTF-16LE name decoding, and the per-scene
// xor(exekey) -> LZSS -> xor(easy key) pipeline spec.md §4.5 describes.
package siglus

import (
	"unicode/utf16"

	"github.com/rlvm/rlvm/bytestream"
	"github.com/rlvm/rlvm/rlerr"
)

// HeaderFieldCount is the number of i32 fields in Pack_hdr, spec.md §6:
// "Outer Pack_hdr with 23 x i32 fields naming offsets and counts for four
// tables."
const HeaderFieldCount = 23

// Pack_hdr field indices for the four tables this core resolves. spec.md
// names the table set but not the real field layout (proprietary compiler
// output, not reproduced in this core's reference material); this core
// assigns the first 8 of the 23 fields to (offset, count) pairs for the
// four tables in the order spec.md lists them, and keeps the remaining 15
// fields available verbatim via Header.Fields for tooling that knows the
// real layout.
const (
	fieldPropertiesOffset = iota
	fieldPropertiesCount
	fieldCommandsOffset
	fieldCommandsCount
	fieldSceneNamesOffset
	fieldSceneNamesCount
	fieldSceneDataOffset
	fieldSceneDataCount
)

// Header is the parsed Pack_hdr.
type Header struct {
	Fields [HeaderFieldCount]int32
}

// ParseHeader reads a HeaderFieldCount*4-byte Pack_hdr from raw.
func ParseHeader(raw []byte) (Header, error) {
	r := bytestream.NewReader(raw)
	var h Header
	for i := range h.Fields {
		v, err := r.PopInt32()
		if err != nil {
			return Header{}, rlerr.Wrap(rlerr.ErrInvalidArchive, "siglus: pack header shorter than 23 i32 fields")
		}
		h.Fields[i] = v
	}
	return h, nil
}

func (h Header) sceneDataOffset() int { return int(h.Fields[fieldSceneDataOffset]) }
func (h Header) sceneDataCount() int  { return int(h.Fields[fieldSceneDataCount]) }
func (h Header) sceneNamesOffset() int { return int(h.Fields[fieldSceneNamesOffset]) }
func (h Header) sceneNamesCount() int  { return int(h.Fields[fieldSceneNamesCount]) }

// TableEntry is one (offset, length) slot, the shape both the scene-data
// and scene-name tables use.
type TableEntry struct {
	Offset uint32
	Length uint32
}

// readTable reads count (offset,length) pairs starting at byte offset off.
func readTable(raw []byte, off, count int) ([]TableEntry, error) {
	if off < 0 || count < 0 {
		return nil, rlerr.Wrap(rlerr.ErrInvalidArchive, "siglus: negative table offset or count")
	}
	r := bytestream.NewReader(raw)
	if err := r.Seek(off); err != nil {
		return nil, err
	}
	out := make([]TableEntry, count)
	for i := range out {
		offset, err := r.PopUint32()
		if err != nil {
			return nil, err
		}
		length, err := r.PopUint32()
		if err != nil {
			return nil, err
		}
		out[i] = TableEntry{Offset: offset, Length: length}
	}
	return out, nil
}

// decodeUTF16LE decodes a UTF-16LE byte slice (no BOM) to a Go string,
// spec.md §4.5/§6: "Strings in UTF-16LE."
func decodeUTF16LE(b []byte) string {
	u := make([]uint16, len(b)/2)
	for i := range u {
		u[i] = uint16(b[2*i]) | uint16(b[2*i+1])<<8
	}
	return string(utf16.Decode(u))
}
