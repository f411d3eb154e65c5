// Package machine implements the minimal concrete "external machine" the
// core ships so the library is exercisable end-to-end without a full
// bytecode dispatcher: a cooperative step stack, a tick loop driving the
// object table and the active effect composer, grounded in the teacher's
// vm.VM execution loop (vm/executor.go) generalised from "decode and run one
// ARM instruction" to "advance the top of a step stack."
package machine

import (
	"context"
	"time"

	"github.com/rlvm/rlvm/effect"
	"github.com/rlvm/rlvm/memory"
	"github.com/rlvm/rlvm/object"
	"github.com/rlvm/rlvm/rlerr"
)

// StepResult reports whether a Step has more work to do.
type StepResult int

const (
	// StepContinue means the step remains on top of the stack and will be
	// driven again on the next Tick.
	StepContinue StepResult = iota
	// StepDone means the step is finished and should be popped.
	StepDone
)

// Step is the generalised form of the teacher's blocking-call abstraction
// (REDESIGN FLAGS §9: LongOperation -> Step), one unit of cooperatively
// scheduled work that may span multiple ticks (a pause, a wait-for-click,
// an effect that must finish before the next instruction runs).
type Step interface {
	step(ctx context.Context, now time.Time) (StepResult, error)
}

// StepFunc adapts a plain function to the Step interface.
type StepFunc func(ctx context.Context, now time.Time) (StepResult, error)

func (f StepFunc) step(ctx context.Context, now time.Time) (StepResult, error) {
	return f(ctx, now)
}

// ActiveEffect tracks one in-flight effect.Composer transition: the pair of
// strategies it is compositing between, when it started, and how long it
// runs before the incoming layer is considered fully revealed.
type ActiveEffect struct {
	Composer *effect.Composer
	On, Off  effect.Strategy
	Size     effect.Size
	Started  time.Time
	Duration time.Duration
}

// progressAt resolves the Progress for elapsed wall-clock time, clamped to
// the primary reveal axis so a Tick after Duration has passed always reads
// as fully revealed rather than overshooting.
func (a *ActiveEffect) progressAt(now time.Time) effect.Progress {
	if a.Duration <= 0 {
		return effect.Fraction(1)
	}
	elapsed := now.Sub(a.Started)
	if elapsed <= 0 {
		return effect.Fraction(0)
	}
	if elapsed >= a.Duration {
		return effect.Fraction(1)
	}
	return effect.Fraction(float64(elapsed) / float64(a.Duration))
}

func (a *ActiveEffect) finished(now time.Time) bool {
	return a.Duration <= 0 || !now.Before(a.Started.Add(a.Duration))
}

// Scheduler is the cooperative driver spec.md §5 describes holding one
// memory.Facade, one object.Table, and a stack of Step, ticked forward in
// wall-clock time. It implements exactly the per-tick driving loop; it does
// not decode or dispatch RealLive/Siglus opcodes itself.
type Scheduler struct {
	Memory  *memory.Facade
	Objects *object.Table

	steps    []Step
	effect   *ActiveEffect
	lastDraw *effect.DrawInstruction

	ticks    uint64
	maxTicks uint64 // 0 means unlimited

	lastTick time.Time
	started  bool
}

// New returns a Scheduler with a fresh memory facade and object table.
// maxTicks caps the number of Tick calls accepted in this session (spec.md
// §5/§7's execution limits section, config.Config.Execution.MaxTicksPerSession);
// 0 means unlimited.
func New(maxTicks uint64) *Scheduler {
	return &Scheduler{
		Memory:   memory.New(),
		Objects:  object.NewTable(),
		maxTicks: maxTicks,
	}
}

// Push places step on top of the stack; it becomes the next step driven by
// Tick.
func (s *Scheduler) Push(step Step) {
	s.steps = append(s.steps, step)
}

// Top returns the step currently on top of the stack, if any.
func (s *Scheduler) Top() (Step, bool) {
	if len(s.steps) == 0 {
		return nil, false
	}
	return s.steps[len(s.steps)-1], true
}

// Depth returns the number of steps currently on the stack.
func (s *Scheduler) Depth() int { return len(s.steps) }

// StartEffect installs a.Composer's in-flight transition as the active
// effect; only one effect composer runs at a time (spec.md §5: sequential
// evaluation), so a new call replaces whatever was running.
func (s *Scheduler) StartEffect(a *ActiveEffect) {
	s.effect = a
}

// ActiveEffect returns the in-flight effect transition, if any.
func (s *Scheduler) ActiveEffect() (*ActiveEffect, bool) {
	if s.effect == nil {
		return nil, false
	}
	return s.effect, true
}

// Tick drives the scheduler forward to now: it advances the top of the step
// stack, ticks every object in the object table, and advances the active
// effect composer, clearing it once its duration has elapsed. now must not
// move backwards between calls (spec.md §5: clock injected, backward motion
// fatal), mirroring clock.Stopwatch's monotonicity guard.
func (s *Scheduler) Tick(ctx context.Context, now time.Time) error {
	if s.started && now.Before(s.lastTick) {
		return rlerr.New(rlerr.ErrNonMonotonicClock, "machine: tick time moved backwards")
	}
	s.lastTick = now
	s.started = true

	if s.maxTicks != 0 && s.ticks >= s.maxTicks {
		return rlerr.New(rlerr.ErrOutOfRange, "machine: max ticks per session exceeded")
	}
	s.ticks++

	if top, ok := s.Top(); ok {
		result, err := top.step(ctx, now)
		if err != nil {
			return err
		}
		if result == StepDone {
			s.steps = s.steps[:len(s.steps)-1]
		}
	}

	s.Objects.Tick(now.UnixMilli())

	if s.effect != nil {
		draw := s.effect.Composer.Compose(s.effect.On, s.effect.Off, s.effect.progressAt(now))
		s.lastDraw = &draw
		if s.effect.finished(now) {
			s.effect = nil
		}
	}

	return nil
}

// Ticks returns how many Tick calls have been accepted so far.
func (s *Scheduler) Ticks() uint64 { return s.ticks }

// LastDraw returns the most recent active-effect DrawInstruction, if any
// effect has run since the scheduler was created.
func (s *Scheduler) LastDraw() (effect.DrawInstruction, bool) {
	if s.lastDraw == nil {
		return effect.DrawInstruction{}, false
	}
	return *s.lastDraw, true
}
