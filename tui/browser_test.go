package tui

import (
	"testing"

	"github.com/rlvm/rlvm/bytecode"
	"github.com/rlvm/rlvm/memory"
	"github.com/rlvm/rlvm/object"
	"github.com/stretchr/testify/require"
)

func TestRenderSceneNilReportsNotLoaded(t *testing.T) {
	require.Contains(t, renderScene(nil, 0), "No scene loaded")
}

func TestRenderSceneMarksCursor(t *testing.T) {
	scene := bytecode.NewScene(1, "test")
	scene.Add(bytecode.Element{Offset: 0, Kind: bytecode.KindText, Text: "hello"})
	scene.Add(bytecode.Element{Offset: 4, Kind: bytecode.KindGoto, Target: 0})

	out := renderScene(scene, 4)
	require.Contains(t, out, "-> 0x000004: goto 0x000000")
	require.Contains(t, out, `   0x000000: text "hello"`)
}

func TestDescribeElementKinds(t *testing.T) {
	entry := int32(3)
	cases := []struct {
		el   bytecode.Element
		want string
	}{
		{bytecode.Element{Kind: bytecode.KindText, Text: "hi"}, `text "hi"`},
		{bytecode.Element{Kind: bytecode.KindExpression}, "expr"},
		{bytecode.Element{Kind: bytecode.KindGoto, Target: 10}, "goto 0x00000A"},
		{bytecode.Element{Kind: bytecode.KindMeta, MetaTag: 1, MetaValue: 2, EntrypointID: &entry}, "meta tag=1 value=2 entrypoint=3"},
		{bytecode.Element{Kind: bytecode.KindMeta, MetaTag: 1, MetaValue: 2}, "meta tag=1 value=2"},
	}
	for _, c := range cases {
		require.Equal(t, c.want, describeElement(c.el))
	}
}

func TestRenderMemoryNilReportsNotLoaded(t *testing.T) {
	require.Contains(t, renderMemory(nil, memory.BankA), "No memory loaded")
}

func TestRenderMemoryShowsBankRuns(t *testing.T) {
	mem := memory.New()
	require.NoError(t, mem.WriteInt(memory.IntLoc{Bank: memory.BankA, Index: 0, Width: 32}, 7))

	out := renderMemory(mem, memory.BankA)
	require.Contains(t, out, "Bank A")
	require.Contains(t, out, "7")
}

func TestRenderObjectsNilReportsNotLoaded(t *testing.T) {
	require.Contains(t, renderObjects(nil), "No objects loaded")
}

func TestRenderObjectsEmptyTableReportsNone(t *testing.T) {
	require.Contains(t, renderObjects(object.NewTable()), "No live objects")
}

func TestRenderObjectsListsAnimFrames(t *testing.T) {
	tbl := object.NewTable()
	obj := object.New()
	obj.Data = &object.ObjectData{Kind: object.ObjectAnim, FrameCount: 4, FrameIndex: 1}
	tbl.Set(9, obj)

	out := renderObjects(tbl)
	require.Contains(t, out, "#9 anim frame=1/4")
}

func TestKindNameCoversAllKinds(t *testing.T) {
	require.Equal(t, "file", kindName(object.ObjectFile))
	require.Equal(t, "text", kindName(object.ObjectText))
	require.Equal(t, "anim", kindName(object.ObjectAnim))
	require.Equal(t, "parent", kindName(object.ObjectParent))
	require.Equal(t, "none", kindName(object.ObjectNone))
}

func TestNewBrowserHandlesNilState(t *testing.T) {
	b := NewBrowser(nil, nil, nil)
	require.NotNil(t, b.App)
	require.NotPanics(t, func() {
		b.updateSceneView()
		b.updateMemoryView()
		b.updateObjectView()
		b.updateStatusView()
	})
}

func TestMoveCursorClampsToSceneBounds(t *testing.T) {
	scene := bytecode.NewScene(1, "test")
	scene.Add(bytecode.Element{Offset: 0, Kind: bytecode.KindText, Text: "a"})
	scene.Add(bytecode.Element{Offset: 1, Kind: bytecode.KindText, Text: "b"})

	b := NewBrowser(scene, nil, nil)
	b.moveCursor(-5)
	require.EqualValues(t, 0, b.cursor)

	b.moveCursor(5)
	require.EqualValues(t, 1, b.cursor)
}

func TestCycleBankWrapsAround(t *testing.T) {
	b := NewBrowser(nil, nil, nil)
	require.Equal(t, 0, b.bankIndex)

	b.cycleBank(-1)
	require.Equal(t, len(bankCycle)-1, b.bankIndex)

	b.cycleBank(1)
	require.Equal(t, 0, b.bankIndex)
}
