package bytecode

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBytecodeLengthFallback(t *testing.T) {
	e := Element{Kind: KindText, Length: 0}
	require.EqualValues(t, 1, e.BytecodeLength())

	e.Length = 9
	require.EqualValues(t, 9, e.BytecodeLength())
}

func TestSceneAddTracksOrderAndEntrypoints(t *testing.T) {
	s := NewScene(1, "SEEN0001")

	s.Add(Element{Offset: 0, Kind: KindMeta, MetaTag: MetaLine, MetaValue: 1})

	epID := int32(3)
	s.Add(Element{Offset: 10, Kind: KindCommand, EntrypointID: &epID})

	require.Equal(t, []uint32{0, 10}, s.Order)

	off, ok := s.EntrypointOffset(3)
	require.True(t, ok)
	require.EqualValues(t, 10, off)

	_, ok = s.EntrypointOffset(99)
	require.False(t, ok)

	e, ok := s.At(10)
	require.True(t, ok)
	require.Equal(t, KindCommand, e.Kind)
}

func TestSceneArenaIsShared(t *testing.T) {
	s := NewScene(2, "SEEN0002")
	id := s.Arena.IntConstant(42)
	s.Add(Element{Offset: 0, Kind: KindExpression, Expr: id})

	e, ok := s.At(0)
	require.True(t, ok)
	require.Equal(t, int32(42), s.Arena.Get(e.Expr).IntVal)
}
