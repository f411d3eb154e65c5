package siglus

import (
	"testing"

	"github.com/rlvm/rlvm/bytecode"
	"github.com/stretchr/testify/require"
)

func buildSiglusTextElement(s string) []byte {
	out := []byte{elemText}
	n := uint16(len(s))
	out = append(out, byte(n), byte(n>>8))
	out = append(out, []byte(s)...)
	return out
}

func buildSiglusEntrypointElement(id int32, metaTag byte, value int32) []byte {
	out := []byte{elemEntrypoint}
	out = append(out, le32(uint32(id))...)
	out = append(out, elemMeta, metaTag)
	out = append(out, le32(uint32(value))...)
	return out
}

func buildSiglusGotoElement(target uint32) []byte {
	return append([]byte{elemGoto}, le32(target)...)
}

func TestParseSceneDecodesTextAndEntrypoint(t *testing.T) {
	bc := append(buildSiglusTextElement("Hi"), buildSiglusEntrypointElement(0, byte(bytecode.MetaLine), 5)...)

	scene, err := ParseScene(7, bc)
	require.NoError(t, err)
	require.Equal(t, 7, scene.ID)
	require.Len(t, scene.Order, 2)

	text, ok := scene.At(0)
	require.True(t, ok)
	require.Equal(t, bytecode.KindText, text.Kind)
	require.Equal(t, "Hi", text.Text)

	off, ok := scene.EntrypointOffset(0)
	require.True(t, ok)
	entry, ok := scene.At(off)
	require.True(t, ok)
	require.Equal(t, bytecode.KindMeta, entry.Kind)
	require.Equal(t, 5, entry.MetaValue)
}

func TestParseSceneDecodesGotoTarget(t *testing.T) {
	bc := buildSiglusGotoElement(0x1234)

	scene, err := ParseScene(1, bc)
	require.NoError(t, err)

	el, ok := scene.At(0)
	require.True(t, ok)
	require.Equal(t, bytecode.KindGoto, el.Kind)
	require.Equal(t, uint32(0x1234), el.Target)
}

func TestParseSceneRejectsUnknownTag(t *testing.T) {
	_, err := ParseScene(1, []byte{0xff})
	require.Error(t, err)
}

func TestParseSceneRejectsEntrypointNotWrappingMeta(t *testing.T) {
	bc := append([]byte{elemEntrypoint}, le32(0)...)
	bc = append(bc, elemGoto)
	bc = append(bc, le32(0)...)

	_, err := ParseScene(1, bc)
	require.Error(t, err)
}

func TestPackSceneParsesDecodedBytecode(t *testing.T) {
	bc := buildSiglusTextElement("hello siglus")
	path := buildPackFile(t, bc, "Scene1", false, nil)

	pack, err := Open(path, nil, false)
	require.NoError(t, err)

	scene, err := pack.Scene(0)
	require.NoError(t, err)
	require.Len(t, scene.Order, 1)

	el, ok := scene.At(0)
	require.True(t, ok)
	require.Equal(t, bytecode.KindText, el.Kind)
	require.Equal(t, "hello siglus", el.Text)
}
