package siglus

import (
	"os"

	"github.com/rlvm/rlvm/archive"
	"github.com/rlvm/rlvm/bytestream"
	"github.com/rlvm/rlvm/rlerr"
)

// EasyKey is the fixed 256-byte mask every Siglus scene is always xored
// with, spec.md §6: "always with a 256-byte 'easy' key." Like RealLive's
// FirstLevelXorMask, the real byte table is proprietary compiler output;
// this core exposes the mask as an overridable package variable.
var EasyKey = defaultEasyKey()

func defaultEasyKey() []byte {
	mask := make([]byte, 256)
	for i := range mask {
		mask[i] = byte(i ^ 0x5a)
	}
	return mask
}

// stringXorMultiplier is spec.md §4.5's "28807*i" per-entry string-table
// mask constant.
const stringXorMultiplier = 28807

// Pack is a parsed Siglus archive: the outer header plus the raw bytes
// backing its four tables.
type Pack struct {
	raw        []byte
	header     Header
	sceneData  []TableEntry
	sceneNames []TableEntry
	exekey     []byte
	flagged    bool
}

// Open reads path, parses its Pack_hdr, and resolves the scene-data and
// scene-names tables. exekey is the per-title key spec.md's "xor(with
// exekey if flagged)" step applies; pass nil if flagged is false.
func Open(path string, exekey []byte, flagged bool) (*Pack, error) {
	raw, err := os.ReadFile(path) // #nosec G304 -- caller-provided archive path
	if err != nil {
		return nil, rlerr.WithCause(rlerr.ErrNotFound, "siglus: cannot read archive", err)
	}
	header, err := ParseHeader(raw)
	if err != nil {
		return nil, err
	}
	sceneData, err := readTable(raw, header.sceneDataOffset(), header.sceneDataCount())
	if err != nil {
		return nil, err
	}
	sceneNames, err := readTable(raw, header.sceneNamesOffset(), header.sceneNamesCount())
	if err != nil {
		return nil, err
	}
	return &Pack{raw: raw, header: header, sceneData: sceneData, sceneNames: sceneNames, exekey: exekey, flagged: flagged}, nil
}

// SceneCount returns how many scenes the scene-data table lists.
func (p *Pack) SceneCount() int { return len(p.sceneData) }

// SceneName decodes the UTF-16LE name of scene index.
func (p *Pack) SceneName(index int) (string, error) {
	if index < 0 || index >= len(p.sceneNames) {
		return "", rlerr.Wrap(rlerr.ErrOutOfRange, "siglus: scene name index out of range", "index", index)
	}
	e := p.sceneNames[index]
	end := uint64(e.Offset) + uint64(e.Length)
	if end > uint64(len(p.raw)) {
		return "", rlerr.Wrap(rlerr.ErrInvalidArchive, "siglus: scene name entry runs past end of archive")
	}
	return decodeUTF16LE(p.raw[e.Offset:end]), nil
}

// SceneBytecode decrypts, un-flags, and decompresses scene index, returning
// the raw decoded bytes. spec.md §4.5: "xor(with exekey if flagged) . LZSS
// . xor(with 256-byte easy key)" describes the encoding direction, so
// decoding reverses it: un-exekey, LZSS-decompress, then un-easy-key.
func (p *Pack) SceneBytecode(index int) ([]byte, error) {
	if index < 0 || index >= len(p.sceneData) {
		return nil, rlerr.Wrap(rlerr.ErrOutOfRange, "siglus: scene data index out of range", "index", index)
	}
	e := p.sceneData[index]
	end := uint64(e.Offset) + uint64(e.Length)
	if end > uint64(len(p.raw)) {
		return nil, rlerr.Wrap(rlerr.ErrInvalidArchive, "siglus: scene data entry runs past end of archive")
	}
	frame := append([]byte{}, p.raw[e.Offset:end]...)

	if p.flagged {
		if len(p.exekey) == 0 {
			return nil, rlerr.New(rlerr.ErrUnknownKey, "siglus: exekey required but not configured")
		}
		archive.ApplyXor(frame, p.exekey)
	}

	decompressed, err := bytestream.DecompressLZSS(frame)
	if err != nil {
		return nil, err
	}

	archive.ApplyXor(decompressed, EasyKey)
	return decompressed, nil
}

// DecodeStringTable un-xors every entry of a Siglus scene's string table:
// entry i is xored with byte(28807*i), spec.md §4.5.
func DecodeStringTable(entries [][]byte) []string {
	out := make([]string, len(entries))
	for i, raw := range entries {
		b := append([]byte{}, raw...)
		mask := byte((stringXorMultiplier * i) & 0xff)
		for j := range b {
			b[j] ^= mask
		}
		out[i] = string(b)
	}
	return out
}
