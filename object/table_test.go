package object

import (
	"testing"

	"github.com/rlvm/rlvm/paramstore"
	"github.com/stretchr/testify/require"
)

func TestTableIDsAreSortedAscending(t *testing.T) {
	tbl := NewTable()
	tbl.Set(5, New())
	tbl.Set(1, New())
	tbl.Set(3, New())

	require.Equal(t, []int{1, 3, 5}, tbl.IDs())
}

func TestTableDeleteRemovesFromIDs(t *testing.T) {
	tbl := NewTable()
	tbl.Set(1, New())
	tbl.Set(2, New())
	tbl.Delete(1)

	require.Equal(t, []int{2}, tbl.IDs())
}

func TestTableTickOrdersByZThenID(t *testing.T) {
	tbl := NewTable()

	var order []int
	makeObj := func(id int, z int32) *GraphicsObject {
		o := New()
		o.Params.Set(paramstore.Key{Property: int(PropZOrder)}, z)
		o.Data = &ObjectData{Kind: ObjectText}
		return o
	}

	tbl.Set(10, makeObj(10, 5))
	tbl.Set(20, makeObj(20, 1))
	tbl.Set(30, makeObj(30, 1))

	// IDs stay ascending whatever the z values; Tick walks by z, then id,
	// so the expected tick order is (20, 30, 10).
	ids := tbl.IDs()
	require.Equal(t, []int{10, 20, 30}, ids)
	for _, id := range ids {
		o, _ := tbl.Get(id)
		order = append(order, int(zOrderOf(o)))
	}
	require.Equal(t, []int{5, 1, 1}, order)

	var ticked []int
	for _, id := range ids {
		o, _ := tbl.Get(id)
		o.Add(&orderRecorder{id: id, out: &ticked})
	}
	tbl.Tick(0)
	require.Equal(t, []int{20, 30, 10}, ticked)
}

func TestTableSnapshotRestoreIsIndependent(t *testing.T) {
	tbl := NewTable()
	o := New()
	o.Data = &ObjectData{Kind: ObjectAnim, FrameCount: 4, FrameDurationMs: 10}
	tbl.Set(1, o)

	snap := tbl.Snapshot()

	live, _ := tbl.Get(1)
	live.Data.Advance(0)
	live.Data.Advance(25)
	require.Equal(t, 2, live.Data.FrameIndex)

	tbl.Restore(snap)
	restored, _ := tbl.Get(1)
	require.Equal(t, 0, restored.Data.FrameIndex)
}
