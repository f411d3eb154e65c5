// Package reallive implements the RealLive archive container: the
// table-of-contents + SEEN####.TXT override scan, the 0x1D0-byte scene
// header, the fixed 256-byte first-level XOR mask plus optional per-title
// second-level XOR, and the LZSS-compressed bytecode payload, producing a
// bytecode.Scene via a minimal opcode walk.
package reallive

import (
	"github.com/rlvm/rlvm/bytestream"
	"github.com/rlvm/rlvm/rlerr"
)

// HeaderSize is the fixed size of a RealLive scene header, spec.md §6.
const HeaderSize = 0x1d0

// Supported compiler magic values, spec.md §4.5.
const (
	Compiler10002   = 10002
	Compiler110002  = 110002
	Compiler1110002 = 1110002
)

// compressedOffsetField/compressedSizeField are the header's byte offsets
// for the compressed bytecode's start and declared length, spec.md §6.
const (
	compressedOffsetField = 0x20
	compressedSizeField   = 0x28
)

// Header is the parsed form of a scene's 0x1D0-byte header.
type Header struct {
	CompilerVersion int32
	CompressedOffset uint32
	CompressedSize   uint32

	// SavepointFlags/DebugEntrypoints/Dramatis are declared for tooling, but
	// ParseHeader does not read them from the header bytes: they are left at
	// their zero values.
	SavepointFlags   uint32
	DebugEntrypoints []int32
	Dramatis         []string
}

// ParseHeader reads a fixed HeaderSize-byte header from raw.
func ParseHeader(raw []byte) (Header, error) {
	if len(raw) < HeaderSize {
		return Header{}, rlerr.Wrap(rlerr.ErrInvalidArchive, "scene header shorter than 0x1d0 bytes")
	}
	r := bytestream.NewReader(raw)

	compilerVersion, err := r.PopInt32()
	if err != nil {
		return Header{}, err
	}
	switch compilerVersion {
	case Compiler10002, Compiler110002, Compiler1110002:
	default:
		return Header{}, rlerr.Wrap(rlerr.ErrInvalidCompiler, "unsupported compiler version", "version", compilerVersion)
	}

	if err := r.Seek(compressedOffsetField); err != nil {
		return Header{}, err
	}
	compressedOffset, err := r.PopUint32()
	if err != nil {
		return Header{}, err
	}

	if err := r.Seek(compressedSizeField); err != nil {
		return Header{}, err
	}
	compressedSize, err := r.PopUint32()
	if err != nil {
		return Header{}, err
	}

	return Header{
		CompilerVersion:  compilerVersion,
		CompressedOffset: compressedOffset,
		CompressedSize:   compressedSize,
	}, nil
}

// NeedsSecondLevelXor reports whether this header's compiler version is
// recent enough to require the per-title second-level XOR pass, spec.md
// §4.5: "if compiler_version >= 110002".
func (h Header) NeedsSecondLevelXor() bool {
	return h.CompilerVersion >= Compiler110002
}
