package clock

import "time"

// Fake is a Source under direct test control. Exported from a regular
// file (rather than clock_test.go) so other packages' tests can drive
// deterministic ticks too, e.g. machine and object.
type Fake struct {
	now time.Time
}

// NewFake returns a Fake initialised to t.
func NewFake(t time.Time) *Fake {
	return &Fake{now: t}
}

// Now returns the fake's current time.
func (f *Fake) Now() time.Time { return f.now }

// Advance moves the fake clock forward by d. Negative d is rejected by
// callers that care (Stopwatch); Fake itself allows it since tests may
// legitimately want to construct a backwards-moving source to exercise
// ErrNonMonotonicClock.
func (f *Fake) Advance(d time.Duration) { f.now = f.now.Add(d) }

// Set moves the fake clock directly to t.
func (f *Fake) Set(t time.Time) { f.now = t }
