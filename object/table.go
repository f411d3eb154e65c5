package object

import (
	"sort"

	"github.com/rlvm/rlvm/paramstore"
)

// Table owns every live GraphicsObject, keyed by object id, and drives
// their per-tick execution in z-order (spec §2: "mutators across objects
// are processed in the z-order walk").
type Table struct {
	objects map[int]*GraphicsObject
}

// NewTable returns an empty Table.
func NewTable() *Table {
	return &Table{objects: make(map[int]*GraphicsObject)}
}

// Set installs obj under id, replacing whatever was there.
func (t *Table) Set(id int, obj *GraphicsObject) {
	t.objects[id] = obj
}

// Get returns the object at id, if any.
func (t *Table) Get(id int) (*GraphicsObject, bool) {
	o, ok := t.objects[id]
	return o, ok
}

// Delete removes the object at id.
func (t *Table) Delete(id int) {
	delete(t.objects, id)
}

// IDs returns every live object id in ascending order.
func (t *Table) IDs() []int {
	ids := make([]int, 0, len(t.objects))
	for id := range t.objects {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func zOrderOf(o *GraphicsObject) int32 {
	v, ok := o.Params.Get(paramstore.Key{Property: int(PropZOrder)})
	if !ok {
		return 0
	}
	z, _ := v.(int32)
	return z
}

// Tick executes every object in ascending z-order (ties broken by object
// id for determinism).
func (t *Table) Tick(now int64) {
	ids := make([]int, 0, len(t.objects))
	for id := range t.objects {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		zi, zj := zOrderOf(t.objects[ids[i]]), zOrderOf(t.objects[ids[j]])
		if zi != zj {
			return zi < zj
		}
		return ids[i] < ids[j]
	})
	for _, id := range ids {
		t.objects[id].Execute(now)
	}
}

// Snapshot is a structural copy of every object in the table, suitable
// for save/restore round-tripping.
type Snapshot struct {
	objects map[int]*GraphicsObject
}

// Snapshot captures the table's current state.
func (t *Table) Snapshot() Snapshot {
	out := make(map[int]*GraphicsObject, len(t.objects))
	for id, o := range t.objects {
		out[id] = o.clone()
	}
	return Snapshot{objects: out}
}

// Restore replaces the table's contents with a previously taken Snapshot.
func (t *Table) Restore(s Snapshot) {
	objects := make(map[int]*GraphicsObject, len(s.objects))
	for id, o := range s.objects {
		objects[id] = o.clone()
	}
	t.objects = objects
}
