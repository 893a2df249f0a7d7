package game

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	ErrWrongPhase = errors.New("action not allowed in this phase")
	ErrClosed     = errors.New("game closed")
)

type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseWaiting  Phase = "waiting"
	PhaseRevealed Phase = "revealed"
	PhaseScored   Phase = "scored"
)

// Labels renames phases for display, e.g. scored -> "pressed".
type Labels map[Phase]string

func (l Labels) label(phase Phase) string {
	if name, ok := l[phase]; ok {
		return name
	}
	return string(phase)
}

// Scorer turns the action taken after the reveal into a result. elapsed is
// measured from the reveal instant to the moment Act was called.
type Scorer[A, R any] func(ctx context.Context, elapsed time.Duration, action A) (R, error)

type RevealConfig[A, R any] struct {
	Clock Clock
	// Delay returns the wait before the reveal. Nil reveals on Start.
	Delay func() time.Duration
	// Tick is the display sampler period while revealed. Zero disables it.
	Tick   time.Duration
	Score  Scorer[A, R]
	Labels Labels
}

// RevealState is a point-in-time copy of a Reveal.
type RevealState[R any] struct {
	Phase      Phase
	Label      string
	RevealedAt time.Time
	Sample     time.Duration
	Result     *R
}

// Reveal is the idle -> waiting -> revealed -> scored machine shared by the
// timed and the voting games. Pending timers belong to the current round and
// are stopped on every transition out of it; callbacks of an older round are
// ignored even if they already fired.
type Reveal[A, R any] struct {
	mu         sync.Mutex
	cfg        RevealConfig[A, R]
	phase      Phase
	round      uint64
	revealedAt time.Time
	sample     time.Duration
	result     *R
	pending    Timer
	sampler    Timer
	closed     bool
}

func NewReveal[A, R any](cfg RevealConfig[A, R]) *Reveal[A, R] {
	if cfg.Clock == nil {
		cfg.Clock = SystemClock()
	}
	return &Reveal[A, R]{cfg: cfg, phase: PhaseIdle}
}

// Start begins a round from idle or after a scored round.
func (r *Reveal[A, R]) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	if r.phase != PhaseIdle && r.phase != PhaseScored {
		return ErrWrongPhase
	}
	r.stopTimersLocked()
	r.round++
	r.result = nil
	r.sample = 0
	r.revealedAt = time.Time{}
	if r.cfg.Delay == nil {
		r.revealLocked()
		return nil
	}
	r.phase = PhaseWaiting
	round := r.round
	r.pending = r.cfg.Clock.AfterFunc(r.cfg.Delay(), func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if r.closed || r.round != round || r.phase != PhaseWaiting {
			return
		}
		r.pending = nil
		r.revealLocked()
	})
	return nil
}

func (r *Reveal[A, R]) revealLocked() {
	r.phase = PhaseRevealed
	r.revealedAt = r.cfg.Clock.Now()
	if r.cfg.Tick <= 0 {
		return
	}
	round := r.round
	r.sampler = r.cfg.Clock.Every(r.cfg.Tick, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if r.closed || r.round != round || r.phase != PhaseRevealed {
			return
		}
		r.sample = r.cfg.Clock.Now().Sub(r.revealedAt)
	})
}

// Cancel aborts a round that is still waiting for its reveal.
func (r *Reveal[A, R]) Cancel() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	if r.phase != PhaseWaiting {
		return ErrWrongPhase
	}
	r.stopTimersLocked()
	r.round++
	r.phase = PhaseIdle
	return nil
}

// Act scores the revealed round. A failed score leaves the round revealed.
func (r *Reveal[A, R]) Act(ctx context.Context, action A) (R, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var zero R
	if r.closed {
		return zero, ErrClosed
	}
	if r.phase != PhaseRevealed {
		return zero, ErrWrongPhase
	}
	elapsed := r.cfg.Clock.Now().Sub(r.revealedAt)
	if elapsed < 0 {
		elapsed = 0
	}
	result, err := r.cfg.Score(ctx, elapsed, action)
	if err != nil {
		return zero, err
	}
	r.stopTimersLocked()
	r.phase = PhaseScored
	r.sample = elapsed
	r.result = &result
	return result, nil
}

// Reset returns to idle from any phase, dropping the result.
func (r *Reveal[A, R]) Reset() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	r.stopTimersLocked()
	r.round++
	r.phase = PhaseIdle
	r.result = nil
	r.sample = 0
	r.revealedAt = time.Time{}
	return nil
}

// Close stops all timers for good. Every later call fails with ErrClosed.
func (r *Reveal[A, R]) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopTimersLocked()
	r.round++
	r.closed = true
}

func (r *Reveal[A, R]) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

func (r *Reveal[A, R]) Phase() Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.phase
}

func (r *Reveal[A, R]) State() RevealState[R] {
	r.mu.Lock()
	defer r.mu.Unlock()
	state := RevealState[R]{
		Phase:      r.phase,
		Label:      r.cfg.Labels.label(r.phase),
		RevealedAt: r.revealedAt,
		Sample:     r.sample,
	}
	if r.result != nil {
		result := *r.result
		state.Result = &result
	}
	return state
}

func (r *Reveal[A, R]) stopTimersLocked() {
	if r.pending != nil {
		r.pending.Stop()
		r.pending = nil
	}
	if r.sampler != nil {
		r.sampler.Stop()
		r.sampler = nil
	}
}
