package clock

import (
	"time"

	"github.com/rlvm/rlvm/rlerr"
)

type state int

const (
	stateStopped state = iota
	stateRunning
	statePaused
)

// Stopwatch accumulates running time between Run/Pause calls, driven by
// an injected Source rather than the wall clock directly (spec.md §5:
// "Clock is an injected trait"). Any call that observes the source moving
// backwards relative to the last observed tick returns
// rlerr.ErrNonMonotonicClock instead of silently accepting it.
type Stopwatch struct {
	clock     Source
	state     state
	timeAccum time.Duration // total running time accumulated across run/pause cycles
	lapAccum  time.Duration // running time accumulated since the last Lap
	lastTick  time.Time
}

// New returns a stopped Stopwatch driven by clock.
func New(clock Source) *Stopwatch {
	return &Stopwatch{clock: clock}
}

func (s *Stopwatch) observe() (time.Time, error) {
	now := s.clock.Now()
	if !s.lastTick.IsZero() && now.Before(s.lastTick) {
		return now, rlerr.New(rlerr.ErrNonMonotonicClock, "stopwatch observed time moving backwards")
	}
	return now, nil
}

// Run starts or resumes the stopwatch.
func (s *Stopwatch) Run() error {
	now, err := s.observe()
	if err != nil {
		return err
	}
	s.lastTick = now
	s.state = stateRunning
	return nil
}

// Pause freezes accumulation, folding the time elapsed since the last
// tick into both accumulators.
func (s *Stopwatch) Pause() error {
	now, err := s.observe()
	if err != nil {
		return err
	}
	if s.state == stateRunning {
		elapsed := now.Sub(s.lastTick)
		s.timeAccum += elapsed
		s.lapAccum += elapsed
	}
	s.lastTick = now
	s.state = statePaused
	return nil
}

// Reset stops the stopwatch and clears both accumulators.
func (s *Stopwatch) Reset() {
	s.state = stateStopped
	s.timeAccum = 0
	s.lapAccum = 0
	s.lastTick = time.Time{}
}

// Read returns the total accumulated running time, including time
// elapsed since the last tick if the stopwatch is currently running.
func (s *Stopwatch) Read() (time.Duration, error) {
	now, err := s.observe()
	if err != nil {
		return 0, err
	}
	total := s.timeAccum
	if s.state == stateRunning {
		total += now.Sub(s.lastTick)
	}
	return total, nil
}

// Lap returns the running time accumulated since the last Lap call (or
// since Run, if Lap has never been called), then resets that sub-total.
func (s *Stopwatch) Lap() (time.Duration, error) {
	now, err := s.observe()
	if err != nil {
		return 0, err
	}
	lap := s.lapAccum
	if s.state == stateRunning {
		lap += now.Sub(s.lastTick)
		s.lastTick = now
		s.timeAccum += lap - s.lapAccum
	}
	s.lapAccum = 0
	return lap, nil
}
