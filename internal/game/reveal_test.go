package game

import (
	"context"
	"errors"
	"testing"
	"time"
)

var testStart = time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)

func newTestBuzzer(t *testing.T, cards int, delay time.Duration) (*Buzzer, *ManualClock) {
	t.Helper()
	clock := NewManualClock(testStart)
	buzzer := NewBuzzer(newOrderedDeck(testCards(cards)), clock, func() time.Duration { return delay })
	t.Cleanup(buzzer.Close)
	return buzzer, clock
}

func TestBuzzerRevealsAfterDelay(t *testing.T) {
	buzzer, clock := newTestBuzzer(t, 3, 2*time.Second)
	if err := buzzer.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if got := buzzer.State().Phase; got != "waiting" {
		t.Fatalf("expected waiting, got %s", got)
	}
	if _, err := buzzer.Buzz(context.Background()); !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("expected early buzz to be rejected, got %v", err)
	}
	clock.Advance(1999 * time.Millisecond)
	if got := buzzer.State().Phase; got != "waiting" {
		t.Fatalf("expected still waiting, got %s", got)
	}
	clock.Advance(time.Millisecond)
	if got := buzzer.State().Phase; got != "revealed" {
		t.Fatalf("expected revealed, got %s", got)
	}
}

func TestBuzzerScoresFromRevealInstant(t *testing.T) {
	buzzer, clock := newTestBuzzer(t, 1, 1500*time.Millisecond)
	if err := buzzer.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	clock.Advance(1500 * time.Millisecond)
	clock.Advance(270 * time.Millisecond)
	if sample := buzzer.State().ElapsedMs; sample != 250 {
		t.Fatalf("expected sampler at 250ms, got %d", sample)
	}
	reaction, err := buzzer.Buzz(context.Background())
	if err != nil {
		t.Fatalf("buzz: %v", err)
	}
	if reaction.Millis != 270 {
		t.Fatalf("expected 270ms from reveal, got %d", reaction.Millis)
	}
	if reaction.Tier != TierExcellent {
		t.Fatalf("expected excellent tier, got %s", reaction.Tier)
	}
	state := buzzer.State()
	if state.Phase != "pressed" || state.Reaction == nil {
		t.Fatalf("expected pressed with reaction, got %+v", state)
	}
	if clock.Pending() != 0 {
		t.Fatalf("expected sampler stopped after buzz, %d timers pending", clock.Pending())
	}
}

func TestBuzzerImmediateBuzzIsZero(t *testing.T) {
	buzzer, clock := newTestBuzzer(t, 1, 1500*time.Millisecond)
	_ = buzzer.Start()
	clock.Advance(1500 * time.Millisecond)
	reaction, err := buzzer.Buzz(context.Background())
	if err != nil {
		t.Fatalf("buzz: %v", err)
	}
	if reaction.Millis < 0 {
		t.Fatalf("expected non-negative reaction, got %d", reaction.Millis)
	}
}

func TestBuzzerCancelSuppressesReveal(t *testing.T) {
	buzzer, clock := newTestBuzzer(t, 2, 3*time.Second)
	if err := buzzer.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	clock.Advance(time.Second)
	if err := buzzer.Cancel(); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	clock.Advance(10 * time.Second)
	state := buzzer.State()
	if state.Phase != "idle" {
		t.Fatalf("expected idle after cancel, got %s", state.Phase)
	}
	if state.Reaction != nil {
		t.Fatalf("expected no reaction after cancel, got %+v", state.Reaction)
	}
	if clock.Pending() != 0 {
		t.Fatalf("expected no pending timers, got %d", clock.Pending())
	}
}

func TestBuzzerCloseStopsEverything(t *testing.T) {
	buzzer, clock := newTestBuzzer(t, 1, 2*time.Second)
	_ = buzzer.Start()
	buzzer.Close()
	clock.Advance(5 * time.Second)
	if got := buzzer.State().Phase; got != "waiting" {
		t.Fatalf("expected state frozen after close, got %s", got)
	}
	if clock.Pending() != 0 {
		t.Fatalf("expected no timers after close, got %d", clock.Pending())
	}
	if err := buzzer.Start(); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected closed error, got %v", err)
	}

	revealed, clock := newTestBuzzer(t, 1, time.Second)
	_ = revealed.Start()
	clock.Advance(time.Second)
	revealed.Close()
	clock.Advance(time.Second)
	if sample := revealed.State().ElapsedMs; sample != 0 {
		t.Fatalf("expected sampler silent after close, got %d", sample)
	}
	if clock.Pending() != 0 {
		t.Fatalf("expected sampler stopped, got %d timers", clock.Pending())
	}
}

func TestClosedBuzzerRejectsEveryAction(t *testing.T) {
	waiting, _ := newTestBuzzer(t, 2, time.Second)
	_ = waiting.Start()
	waiting.Close()
	actions := map[string]func() error{
		"start":  waiting.Start,
		"cancel": waiting.Cancel,
		"again":  waiting.PlayAgain,
		"next":   waiting.Next,
	}
	for name, action := range actions {
		if err := action(); !errors.Is(err, ErrClosed) {
			t.Fatalf("%s: expected closed error, got %v", name, err)
		}
	}

	pressed, clock := newTestBuzzer(t, 2, time.Second)
	_ = pressed.Start()
	clock.Advance(time.Second)
	if _, err := pressed.Buzz(context.Background()); err != nil {
		t.Fatalf("buzz: %v", err)
	}
	before := pressed.State()
	pressed.Close()
	if err := pressed.Next(); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected next rejected after close, got %v", err)
	}
	if _, err := pressed.Buzz(context.Background()); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected buzz rejected after close, got %v", err)
	}
	after := pressed.State()
	if after.Phase != before.Phase || after.Counter != before.Counter {
		t.Fatalf("expected state frozen after close, got %+v then %+v", before, after)
	}
}

func TestBuzzerPlayAgainAndNext(t *testing.T) {
	buzzer, clock := newTestBuzzer(t, 3, time.Second)
	if err := buzzer.PlayAgain(); !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("expected play again rejected from idle, got %v", err)
	}
	_ = buzzer.Start()
	if err := buzzer.Next(); !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("expected next rejected while waiting, got %v", err)
	}
	clock.Advance(time.Second)
	if err := buzzer.Next(); !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("expected next rejected while revealed, got %v", err)
	}
	if _, err := buzzer.Buzz(context.Background()); err != nil {
		t.Fatalf("buzz: %v", err)
	}
	if err := buzzer.PlayAgain(); err != nil {
		t.Fatalf("play again: %v", err)
	}
	if got := buzzer.State(); got.Phase != "waiting" || got.Reaction != nil {
		t.Fatalf("expected fresh waiting round, got %+v", got)
	}
	_ = buzzer.Cancel()
	if err := buzzer.Next(); err != nil {
		t.Fatalf("next: %v", err)
	}
	if got := buzzer.State().Counter; got != "2/3" {
		t.Fatalf("expected counter 2/3, got %s", got)
	}
}

func TestBuzzerEmptyDeck(t *testing.T) {
	buzzer, _ := newTestBuzzer(t, 0, time.Second)
	if err := buzzer.Start(); err == nil {
		t.Fatalf("expected start to fail without cards")
	}
}

func TestRateTiers(t *testing.T) {
	cases := map[time.Duration]Tier{
		0:                       TierExcellent,
		299 * time.Millisecond:  TierExcellent,
		300 * time.Millisecond:  TierGood,
		599 * time.Millisecond:  TierGood,
		600 * time.Millisecond:  TierMeh,
		999 * time.Millisecond:  TierMeh,
		time.Second:             TierSlow,
		-50 * time.Millisecond:  TierExcellent,
		3000 * time.Millisecond: TierSlow,
	}
	for elapsed, want := range cases {
		if got := Rate(elapsed).Tier; got != want {
			t.Fatalf("rate %v: expected %s, got %s", elapsed, want, got)
		}
	}
	if label := Rate(2 * time.Second).Label; label != "Zu langsam! Trinken!" {
		t.Fatalf("unexpected slow label %q", label)
	}
}

func TestRandomDelayRange(t *testing.T) {
	for i := 0; i < 1000; i++ {
		d := RandomDelay()
		if d < MinBuzzerDelay || d >= MaxBuzzerDelay {
			t.Fatalf("delay %v out of range", d)
		}
	}
}

func TestRevealIgnoresStaleCallback(t *testing.T) {
	clock := NewManualClock(time.Unix(0, 0))
	delays := []time.Duration{time.Second, 5 * time.Second}
	reveal := NewReveal(RevealConfig[int, int]{
		Clock: clock,
		Delay: func() time.Duration {
			d := delays[0]
			delays = delays[1:]
			return d
		},
		Score: func(_ context.Context, _ time.Duration, v int) (int, error) { return v, nil },
	})
	_ = reveal.Start()
	_ = reveal.Cancel()
	_ = reveal.Start()
	clock.Advance(2 * time.Second)
	if reveal.Phase() != PhaseWaiting {
		t.Fatalf("expected second round still waiting, got %s", reveal.Phase())
	}
	clock.Advance(3 * time.Second)
	if reveal.Phase() != PhaseRevealed {
		t.Fatalf("expected revealed, got %s", reveal.Phase())
	}
}

func TestRevealFailedScoreStaysRevealed(t *testing.T) {
	fail := true
	reveal := NewReveal(RevealConfig[int, int]{
		Score: func(_ context.Context, _ time.Duration, v int) (int, error) {
			if fail {
				return 0, errors.New("boom")
			}
			return v, nil
		},
	})
	if err := reveal.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := reveal.Act(context.Background(), 1); err == nil {
		t.Fatalf("expected score error")
	}
	if reveal.Phase() != PhaseRevealed {
		t.Fatalf("expected revealed after failure, got %s", reveal.Phase())
	}
	fail = false
	if got, err := reveal.Act(context.Background(), 2); err != nil || got != 2 {
		t.Fatalf("expected 2, got %d %v", got, err)
	}
}
