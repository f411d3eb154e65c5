package object

import (
	"testing"

	"github.com/rlvm/rlvm/paramstore"
	"github.com/stretchr/testify/require"
)

// Mutator bounds (spec §8): before t0+delay, unchanged; at/after
// t0+delay+duration, equals end; in between, monotone for Linear mode.
func TestOneIntMutatorBounds(t *testing.T) {
	store := paramstore.New()
	key := paramstore.Key{Property: int(PropAlpha)}
	store.Set(key, int32(0))

	m := &OneInt{
		Timing: Timing{T0: 0, DelayMs: 10, DurationMs: 20, Mode: Linear},
		Store:  store,
		Key:    key,
		Start:  0,
		End:    100,
	}

	wrote, finished := m.Tick(5) // before delay elapses
	require.False(t, wrote)
	require.False(t, finished)
	v, _ := store.Get(key)
	require.Equal(t, int32(0), v)

	var last int32 = -1
	for now := int64(10); now < 30; now += 2 {
		wrote, finished = m.Tick(now)
		require.True(t, wrote)
		require.False(t, finished)
		v, _ = store.Get(key)
		cur := v.(int32)
		require.GreaterOrEqual(t, cur, last)
		last = cur
	}

	wrote, finished = m.Tick(30) // t0+delay+duration
	require.True(t, wrote)
	require.True(t, finished)
	v, _ = store.Get(key)
	require.Equal(t, int32(100), v)
}

// Mutator dedup (spec §8 scenario 8): adding a second OneInt("alpha", ...)
// with a matching identity while one is active is a no-op; after
// duration, alpha equals the first mutator's end.
func TestMutatorDedupScenario(t *testing.T) {
	obj := New()
	key := paramstore.Key{Property: int(PropAlpha)}
	obj.Params.Set(key, int32(0))

	first := &OneInt{
		Timing: Timing{ReprVal: 0, NameVal: "alpha", T0: 0, DelayMs: 0, DurationMs: 10, Mode: Linear},
		Store:  obj.Params,
		Key:    key,
		Start:  0,
		End:    50,
	}
	second := &OneInt{
		Timing: Timing{ReprVal: 0, NameVal: "alpha", T0: 0, DelayMs: 0, DurationMs: 10, Mode: Linear},
		Store:  obj.Params,
		Key:    key,
		Start:  0,
		End:    200,
	}

	obj.Add(first)
	obj.Add(second) // must be dropped: same (repr, name) identity

	obj.Execute(10) // t0 + duration
	v, _ := obj.Params.Get(key)
	require.Equal(t, int32(50), v, "alpha must equal the first mutator's end, not the second's")
}

func TestMutatorFinishedIsPrunedFromObject(t *testing.T) {
	obj := New()
	key := paramstore.Key{Property: int(PropX)}
	obj.Params.Set(key, int32(0))
	obj.Add(&OneInt{Timing: Timing{NameVal: "x", DurationMs: 5}, Store: obj.Params, Key: key, Start: 0, End: 1})

	obj.Execute(5)
	require.True(t, obj.Dirty)

	obj.Dirty = false
	obj.Execute(6) // no mutators remain; Execute must be a no-op
	require.False(t, obj.Dirty)
}

func TestEndMatchingSpeedupZeroSetsToEndAndRemoves(t *testing.T) {
	obj := New()
	key := paramstore.Key{Property: int(PropAlpha)}
	m := &OneInt{Timing: Timing{ReprVal: 1, NameVal: "alpha", DelayMs: 0, DurationMs: 100}, Store: obj.Params, Key: key, Start: 0, End: 255}
	obj.Add(m)

	obj.EndMatching(1, "alpha", 0)
	v, ok := obj.Params.Get(key)
	require.True(t, ok)
	require.Equal(t, int32(255), v)

	obj.Dirty = false
	obj.Execute(1000)
	require.False(t, obj.Dirty, "the matched mutator must already have been removed")
}

func TestEndMatchingSpeedupOneIsNoop(t *testing.T) {
	obj := New()
	key := paramstore.Key{Property: int(PropAlpha)}
	m := &OneInt{Timing: Timing{NameVal: "alpha", DurationMs: 100}, Store: obj.Params, Key: key, Start: 0, End: 255}
	obj.Add(m)

	obj.EndMatching(0, "alpha", 1)
	_, ok := obj.Params.Get(key)
	require.False(t, ok, "speedup==1 must be a no-op")
}

func TestObjectDataAnimAdvanceLoops(t *testing.T) {
	d := &ObjectData{Kind: ObjectAnim, FrameCount: 3, FrameDurationMs: 10, Loop: true}
	d.Advance(0)
	require.Equal(t, 0, d.FrameIndex)
	d.Advance(10)
	require.Equal(t, 1, d.FrameIndex)
	d.Advance(35)
	require.Equal(t, 0, d.FrameIndex) // 2 more periods elapsed since last advance: 1->2->0
}

func TestTableTicksInZOrder(t *testing.T) {
	table := NewTable()
	var order []int

	makeObj := func(id int, z int32) *GraphicsObject {
		o := New()
		o.Params.Set(paramstore.Key{Property: int(PropZOrder)}, z)
		o.Add(&orderRecorder{id: id, out: &order})
		return o
	}
	table.Set(1, makeObj(1, 5))
	table.Set(2, makeObj(2, 1))
	table.Set(3, makeObj(3, 3))

	table.Tick(0)
	require.Equal(t, []int{2, 3, 1}, order)
}

// orderRecorder is a test-only Mutator that records Table.Tick's object
// visitation order instead of writing any parameter.
type orderRecorder struct {
	id  int
	out *[]int
}

func (r *orderRecorder) Repr() int32 { return 0 }
func (r *orderRecorder) Name() string { return "order-recorder" }
func (r *orderRecorder) Tick(now int64) (wrote, finished bool) {
	*r.out = append(*r.out, r.id)
	return false, true
}
func (r *orderRecorder) SetToEnd() {}

func TestTableSnapshotRestore(t *testing.T) {
	table := NewTable()
	key := paramstore.Key{Property: int(PropX)}
	obj := New()
	obj.Params.Set(key, int32(1))
	table.Set(1, obj)

	snap := table.Snapshot()

	obj.Params.Set(key, int32(99))
	v, _ := table.Get(1)
	got, _ := v.Params.Get(key)
	require.Equal(t, int32(99), got)

	table.Restore(snap)
	v, _ = table.Get(1)
	got, _ = v.Params.Get(key)
	require.Equal(t, int32(1), got, "restore must bring back the snapshotted value")
}
