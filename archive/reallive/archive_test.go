package reallive

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rlvm/rlvm/archive"
	"github.com/rlvm/rlvm/bytecode"
	"github.com/stretchr/testify/require"
)

// encodeLZSSFrame builds an all-literal LZSS frame (spec.md §4.1's
// 8-byte header followed by control-word-selected literal bytes) for data
// of any length, splitting it into groups of up to 8 literal bytes per
// control byte.
func encodeLZSSFrame(data []byte) []byte {
	var body []byte
	for i := 0; i < len(data); i += 8 {
		end := i + 8
		if end > len(data) {
			end = len(data)
		}
		chunk := data[i:end]
		body = append(body, 0xff)
		body = append(body, chunk...)
	}
	archiveSize := 8 + len(body)
	frame := make([]byte, 0, archiveSize)
	frame = append(frame, le32(uint32(archiveSize))...)
	frame = append(frame, le32(uint32(len(data)))...)
	frame = append(frame, body...)
	return frame
}

func le32(v uint32) []byte {
	return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
}

func buildTextElement(s string) []byte {
	out := []byte{elemText}
	n := uint16(len(s))
	out = append(out, byte(n), byte(n>>8))
	out = append(out, []byte(s)...)
	return out
}

func buildEntrypointElement(id int32, metaTag byte, value int32) []byte {
	out := []byte{elemEntrypoint}
	out = append(out, le32(uint32(id))...)
	out = append(out, elemMeta, metaTag)
	out = append(out, le32(uint32(value))...)
	return out
}

// buildArchiveFile assembles a full RealLive-shaped archive file containing
// one scene at index, and returns its path.
func buildArchiveFile(t *testing.T, index int, bc []byte) string {
	t.Helper()

	compressedFrame := encodeLZSSFrame(bc)
	encrypted := append([]byte{}, compressedFrame...)
	archive.ApplyXor(encrypted, FirstLevelXorMask)

	header := make([]byte, HeaderSize)
	copy(header[0:4], le32(uint32(Compiler10002)))
	copy(header[compressedOffsetField:compressedOffsetField+4], le32(uint32(HeaderSize)))
	copy(header[compressedSizeField:compressedSizeField+4], le32(uint32(len(encrypted))))

	payload := append(header, encrypted...)

	toc := make([]byte, TocSize)
	payloadOffset := TocSize
	copy(toc[index*8:index*8+4], le32(uint32(payloadOffset)))
	copy(toc[index*8+4:index*8+8], le32(uint32(len(payload))))

	full := append(toc, payload...)

	dir := t.TempDir()
	path := filepath.Join(dir, "SEEN.TXT")
	require.NoError(t, os.WriteFile(path, full, 0o644))
	return path
}

func TestArchiveRoundTripsTextAndEntrypoint(t *testing.T) {
	bc := append(buildTextElement("Hi"), buildEntrypointElement(0, byte(bytecode.MetaLine), 5)...)
	path := buildArchiveFile(t, 3, bc)

	overrideDir := t.TempDir()
	arc, err := Open(path, overrideDir, nil, "")
	require.NoError(t, err)

	scene, err := arc.Scene(3)
	require.NoError(t, err)
	require.Len(t, scene.Order, 2)

	first, ok := scene.At(scene.Order[0])
	require.True(t, ok)
	require.Equal(t, bytecode.KindText, first.Kind)
	require.Equal(t, "Hi", first.Text)

	second, ok := scene.At(scene.Order[1])
	require.True(t, ok)
	require.Equal(t, bytecode.KindMeta, second.Kind)
	require.NotNil(t, second.EntrypointID)
	require.EqualValues(t, 0, *second.EntrypointID)
	require.Equal(t, 5, second.MetaValue)

	offset, ok := scene.EntrypointOffset(0)
	require.True(t, ok)
	require.Equal(t, scene.Order[1], offset)
}

func TestArchiveAbsentSceneIsNotFound(t *testing.T) {
	bc := buildTextElement("x")
	path := buildArchiveFile(t, 0, bc)

	arc, err := Open(path, t.TempDir(), nil, "")
	require.NoError(t, err)

	_, err = arc.Scene(1)
	require.Error(t, err)
}

func TestSeenOverrideReplacesTocEntry(t *testing.T) {
	bc := buildTextElement("original")
	path := buildArchiveFile(t, 7, bc)
	dir := filepath.Dir(path)

	overrideBC := buildTextElement("overridden")
	overrideFrame := encodeLZSSFrame(overrideBC)
	encrypted := append([]byte{}, overrideFrame...)
	archive.ApplyXor(encrypted, FirstLevelXorMask)

	header := make([]byte, HeaderSize)
	copy(header[0:4], le32(uint32(Compiler10002)))
	copy(header[compressedOffsetField:compressedOffsetField+4], le32(uint32(HeaderSize)))
	copy(header[compressedSizeField:compressedSizeField+4], le32(uint32(len(encrypted))))
	overridePayload := append(header, encrypted...)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "SEEN0007.TXT"), overridePayload, 0o644))

	arc, err := Open(path, dir, nil, "")
	require.NoError(t, err)

	scene, err := arc.Scene(7)
	require.NoError(t, err)
	first, ok := scene.At(scene.Order[0])
	require.True(t, ok)
	require.Equal(t, "overridden", first.Text)
}

func TestUnsupportedCompilerVersionIsInvalidCompiler(t *testing.T) {
	header := make([]byte, HeaderSize)
	copy(header[0:4], le32(999))
	_, err := ParseHeader(header)
	require.Error(t, err)
}
