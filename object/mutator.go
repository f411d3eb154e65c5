// Package object implements the graphics object and mutator model spec
// §4.6 describes: a persistent ParameterStore owner plus an optional
// tagged-union ObjectData and a per-tick mutator list, and the z-order
// walk a Table drives ticks through.
//
// The snapshot-and-diff shape Table.Snapshot/Restore uses is grounded in
// vm/state.go's RegisterSnapshot.Capture/ChangedRegisters; the
// insertion-ordered-list-with-a-prune-finished-pass idiom Table.Tick and
// GraphicsObject.Execute use is grounded in debugger/history.go.
package object

import (
	"log"
	"math"

	"github.com/rlvm/rlvm/paramstore"
)

// Interp selects the easing function a Mutator's interpolate step uses.
type Interp int

const (
	Linear Interp = iota
	EaseIn
	EaseOut
	EaseInOut
)

func ease(mode Interp, p float64) float64 {
	switch mode {
	case EaseIn:
		return p * p
	case EaseOut:
		return 1 - (1-p)*(1-p)
	case EaseInOut:
		if p < 0.5 {
			return 4 * p * p * p
		}
		f := -2*p + 2
		return 1 - f*f*f/2
	default:
		return p
	}
}

func interpolate(a, b float64, frac float64, mode Interp) float64 {
	return a + (b-a)*ease(mode, frac)
}

// Mutator is the tick contract spec §4.6 defines: Tick reports whether it
// wrote a value this call (for dirty-tracking) and whether it has
// finished (for pruning); SetToEnd is the synchronous "jump to end" hook
// end_matching(speedup=0) drives.
type Mutator interface {
	Repr() int32
	Name() string
	Tick(now int64) (wrote, finished bool)
	SetToEnd()
}

// Timing is the shared t0/delay/duration/mode envelope every concrete
// mutator shape embeds.
type Timing struct {
	ReprVal    int32
	NameVal    string
	T0         int64
	DelayMs    int64
	DurationMs int64
	Mode       Interp
}

// Repr returns the mutator's identity repr, half of (repr, name).
func (t Timing) Repr() int32 { return t.ReprVal }

// Name returns the mutator's identity name, half of (repr, name).
func (t Timing) Name() string { return t.NameVal }

// phase classifies now against the envelope: before is true while waiting
// out the delay (no effect yet); finished is true once the full
// delay+duration has elapsed; frac is the eased-input progress fraction
// in [0,1], meaningful only when neither before nor finished.
func (t Timing) phase(now int64) (before, finished bool, frac float64) {
	start := t.T0 + t.DelayMs
	end := start + t.DurationMs
	switch {
	case now < start:
		return true, false, 0
	case now >= end:
		return false, true, 1
	default:
		return false, false, float64(now-start) / float64(t.DurationMs)
	}
}

// OneInt drives a single integer property.
type OneInt struct {
	Timing
	Store      *paramstore.Store
	Key        paramstore.Key
	Start, End int32
}

func (m *OneInt) Tick(now int64) (wrote, finished bool) {
	before, finished, frac := m.phase(now)
	if before {
		return false, false
	}
	if finished {
		m.Store.Set(m.Key, m.End)
		return true, true
	}
	v := interpolate(float64(m.Start), float64(m.End), frac, m.Mode)
	m.Store.Set(m.Key, int32(math.Round(v)))
	return true, false
}

func (m *OneInt) SetToEnd() { m.Store.Set(m.Key, m.End) }

// RepnoInt drives the repr-th slot of an array-valued property (e.g. a
// per-slot adjustment offset or alpha). Identity is (repr, name), as for
// every mutator, but here Repr additionally selects which array slot is
// written.
type RepnoInt struct {
	Timing
	Store      *paramstore.Store
	Property   PropertyID
	Start, End int32
}

func (m *RepnoInt) key() paramstore.Key {
	return paramstore.Key{Property: int(m.Property), SubName: reprSubName(m.ReprVal)}
}

func (m *RepnoInt) Tick(now int64) (wrote, finished bool) {
	before, finished, frac := m.phase(now)
	if before {
		return false, false
	}
	if finished {
		m.Store.Set(m.key(), m.End)
		return true, true
	}
	v := interpolate(float64(m.Start), float64(m.End), frac, m.Mode)
	m.Store.Set(m.key(), int32(math.Round(v)))
	return true, false
}

func (m *RepnoInt) SetToEnd() { m.Store.Set(m.key(), m.End) }

// TwoInt drives two properties under one timing envelope.
type TwoInt struct {
	Timing
	Store          *paramstore.Store
	KeyA, KeyB     paramstore.Key
	StartA, EndA   int32
	StartB, EndB   int32
}

func (m *TwoInt) Tick(now int64) (wrote, finished bool) {
	before, finished, frac := m.phase(now)
	if before {
		return false, false
	}
	if finished {
		m.Store.Set(m.KeyA, m.EndA)
		m.Store.Set(m.KeyB, m.EndB)
		return true, true
	}
	a := interpolate(float64(m.StartA), float64(m.EndA), frac, m.Mode)
	b := interpolate(float64(m.StartB), float64(m.EndB), frac, m.Mode)
	m.Store.Set(m.KeyA, int32(math.Round(a)))
	m.Store.Set(m.KeyB, int32(math.Round(b)))
	return true, false
}

func (m *TwoInt) SetToEnd() {
	m.Store.Set(m.KeyA, m.EndA)
	m.Store.Set(m.KeyB, m.EndB)
}

// Adjust drives the x/y adjustment pair at a given slot; it is TwoInt
// specialised to PropAdjustX/PropAdjustY keyed by repno.
func NewAdjust(repno int32, name string, store *paramstore.Store, t0, delay, duration int64, mode Interp, startX, endX, startY, endY int32) *TwoInt {
	sub := reprSubName(repno)
	return &TwoInt{
		Timing: Timing{ReprVal: repno, NameVal: name, T0: t0, DelayMs: delay, DurationMs: duration, Mode: mode},
		Store:  store,
		KeyA:   paramstore.Key{Property: int(PropAdjustX), SubName: sub},
		KeyB:   paramstore.Key{Property: int(PropAdjustY), SubName: sub},
		StartA: startX, EndA: endX,
		StartB: startY, EndB: endY,
	}
}

// Display is a composite "appear/disappear" envelope: an alpha fade plus
// an optional position motion, sharing one identity and one timing
// envelope. Start and end values are the ones passed to NewDisplay;
// construction does not read the object's current parameter state.
type Display struct {
	Timing
	alpha *OneInt
	pos   *TwoInt // nil when no motion component
}

// NewDisplay builds a Display mutator. startAlpha/startX/startY are the
// start point and endAlpha/endX/endY the target point; store is the
// parameter store the mutator writes into as it ticks. If hasMotion is
// false, only the alpha component runs.
func NewDisplay(repr int32, name string, store *paramstore.Store, t0, delay, duration int64, mode Interp, startAlpha, endAlpha int32, hasMotion bool, startX, endX, startY, endY int32) *Display {
	timing := Timing{ReprVal: repr, NameVal: name, T0: t0, DelayMs: delay, DurationMs: duration, Mode: mode}
	d := &Display{
		Timing: timing,
		alpha: &OneInt{
			Timing: timing,
			Store:  store,
			Key:    paramstore.Key{Property: int(PropAlpha)},
			Start:  startAlpha, End: endAlpha,
		},
	}
	if hasMotion {
		d.pos = &TwoInt{
			Timing: timing,
			Store:  store,
			KeyA:   paramstore.Key{Property: int(PropX)},
			KeyB:   paramstore.Key{Property: int(PropY)},
			StartA: startX, EndA: endX,
			StartB: startY, EndB: endY,
		}
	}
	return d
}

func (m *Display) Tick(now int64) (wrote, finished bool) {
	aw, af := m.alpha.Tick(now)
	if m.pos == nil {
		return aw, af
	}
	pw, pf := m.pos.Tick(now)
	return aw || pw, af && pf
}

func (m *Display) SetToEnd() {
	m.alpha.SetToEnd()
	if m.pos != nil {
		m.pos.SetToEnd()
	}
}

func reprSubName(repno int32) string {
	const digits = "0123456789"
	if repno == 0 {
		return "0"
	}
	neg := repno < 0
	n := repno
	if neg {
		n = -n
	}
	var buf []byte
	for n > 0 {
		buf = append([]byte{digits[n%10]}, buf...)
		n /= 10
	}
	if neg {
		buf = append([]byte{'-'}, buf...)
	}
	return string(buf)
}

// warnSpeedup logs a non-fatal warning for end_matching's undefined
// speedup values, spec §4.6: "otherwise: warn and behave like 1".
func warnSpeedup(speedup int) {
	log.Printf("object: end_matching speedup %d is undefined, treating as 1 (no-op)", speedup)
}
