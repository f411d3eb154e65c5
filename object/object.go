package object

import "github.com/rlvm/rlvm/paramstore"

// ObjectKind closes the polymorphic ObjectData base spec §9 REDESIGN FLAGS
// calls out into a tagged union (spec §3 [EXPANSION]).
type ObjectKind int

const (
	ObjectNone ObjectKind = iota
	ObjectFile
	ObjectText
	ObjectAnim
	ObjectParent
)

// ObjectData carries just the fields execute(now) needs for each kind:
// current frame index / loop flag for animated surfaces, child object ids
// for composite ("Parent") objects.
type ObjectData struct {
	Kind ObjectKind

	Path string // ObjectFile
	Text string // ObjectText

	FrameCount      int   // ObjectAnim
	FrameIndex      int   // ObjectAnim, current
	FrameDurationMs int64 // ObjectAnim
	Loop            bool  // ObjectAnim
	lastAdvance     int64 // ObjectAnim, internal
	started         bool  // ObjectAnim, internal: distinguishes "never ticked" from lastAdvance==0

	Children []int // ObjectParent
}

// Advance steps an animated object's frame index by however many whole
// frame periods have elapsed since the last Advance call.
func (d *ObjectData) Advance(now int64) {
	if d == nil || d.Kind != ObjectAnim || d.FrameCount <= 0 || d.FrameDurationMs <= 0 {
		return
	}
	if !d.started {
		d.started = true
		d.lastAdvance = now
	}
	for now-d.lastAdvance >= d.FrameDurationMs {
		d.lastAdvance += d.FrameDurationMs
		d.FrameIndex++
		if d.FrameIndex >= d.FrameCount {
			if d.Loop {
				d.FrameIndex = 0
			} else {
				d.FrameIndex = d.FrameCount - 1
				return
			}
		}
	}
}

func (d *ObjectData) clone() *ObjectData {
	if d == nil {
		return nil
	}
	c := *d
	c.Children = append([]int{}, d.Children...)
	return &c
}

// GraphicsObject bundles a persistent ParameterStore, an optional
// ObjectData, and the mutators currently driving it.
type GraphicsObject struct {
	Params   *paramstore.Store
	Data     *ObjectData
	mutators []Mutator
	Dirty    bool
}

// New returns an empty GraphicsObject with no data and no active
// mutators.
func New() *GraphicsObject {
	return &GraphicsObject{Params: paramstore.New()}
}

// Add appends m unless a mutator with the same (repr, name) identity is
// already running, in which case it is silently dropped (spec §8 "Mutator
// dedup").
func (o *GraphicsObject) Add(m Mutator) {
	for _, existing := range o.mutators {
		if existing.Repr() == m.Repr() && existing.Name() == m.Name() {
			return
		}
	}
	o.mutators = append(o.mutators, m)
}

// EndMatching applies end_matching(repr, name, speedup) (spec §4.6).
func (o *GraphicsObject) EndMatching(repr int32, name string, speedup int) {
	if speedup == 1 {
		return
	}
	if speedup != 0 {
		warnSpeedup(speedup)
		return
	}
	live := o.mutators[:0:0]
	for _, m := range o.mutators {
		if m.Repr() == repr && m.Name() == name {
			m.SetToEnd()
			o.Dirty = true
			continue
		}
		live = append(live, m)
	}
	o.mutators = live
}

// Execute advances ObjectData, then ticks every active mutator in
// insertion order, dropping any that report finished (spec §4.6
// execute(now)).
func (o *GraphicsObject) Execute(now int64) {
	o.Data.Advance(now)
	live := o.mutators[:0:0]
	for _, m := range o.mutators {
		wrote, finished := m.Tick(now)
		if wrote {
			o.Dirty = true
		}
		if !finished {
			live = append(live, m)
		}
	}
	o.mutators = live
}

func (o *GraphicsObject) clone() *GraphicsObject {
	return &GraphicsObject{
		Params:   o.Params.Clone(),
		Data:     o.Data.clone(),
		mutators: append([]Mutator{}, o.mutators...),
		Dirty:    o.Dirty,
	}
}
