package game

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"trinkspiel/internal/catalog"
)

const (
	MinBuzzerDelay = 1500 * time.Millisecond
	MaxBuzzerDelay = 5000 * time.Millisecond
	SampleInterval = 50 * time.Millisecond
)

type Tier string

const (
	TierExcellent Tier = "excellent"
	TierGood      Tier = "good"
	TierMeh       Tier = "meh"
	TierSlow      Tier = "slow"
)

type Reaction struct {
	Millis int64  `json:"millis"`
	Label  string `json:"label"`
	Tier   Tier   `json:"tier"`
}

// Rate buckets a reaction time.
func Rate(elapsed time.Duration) Reaction {
	if elapsed < 0 {
		elapsed = 0
	}
	r := Reaction{Millis: elapsed.Milliseconds()}
	switch {
	case elapsed < 300*time.Millisecond:
		r.Label, r.Tier = "Blitzschnell!", TierExcellent
	case elapsed < 600*time.Millisecond:
		r.Label, r.Tier = "Gut reagiert!", TierGood
	case elapsed < time.Second:
		r.Label, r.Tier = "Na ja...", TierMeh
	default:
		r.Label, r.Tier = "Zu langsam! Trinken!", TierSlow
	}
	return r
}

// RandomDelay is uniform in [MinBuzzerDelay, MaxBuzzerDelay).
func RandomDelay() time.Duration {
	return MinBuzzerDelay + rand.N(MaxBuzzerDelay-MinBuzzerDelay)
}

type BuzzerState struct {
	Phase     string        `json:"phase"`
	Card      *catalog.Card `json:"card,omitempty"`
	Counter   string        `json:"counter"`
	ElapsedMs int64         `json:"elapsed_ms"`
	Reaction  *Reaction     `json:"reaction,omitempty"`
}

// Buzzer shows a task after a random delay and scores how fast it is buzzed.
type Buzzer struct {
	mu     sync.Mutex
	deck   *Deck
	reveal *Reveal[struct{}, Reaction]
}

func NewBuzzer(deck *Deck, clock Clock, delay func() time.Duration) *Buzzer {
	if delay == nil {
		delay = RandomDelay
	}
	return &Buzzer{
		deck: deck,
		reveal: NewReveal(RevealConfig[struct{}, Reaction]{
			Clock: clock,
			Delay: delay,
			Tick:  SampleInterval,
			Score: func(_ context.Context, elapsed time.Duration, _ struct{}) (Reaction, error) {
				return Rate(elapsed), nil
			},
			Labels: Labels{PhaseScored: "pressed"},
		}),
	}
}

// Start begins a round from idle.
func (b *Buzzer) Start() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.reveal.Closed() {
		return ErrClosed
	}
	if b.deck.Len() == 0 {
		return catalog.ErrNotFound
	}
	if b.reveal.Phase() != PhaseIdle {
		return ErrWrongPhase
	}
	return b.reveal.Start()
}

// PlayAgain re-enters waiting after a pressed round.
func (b *Buzzer) PlayAgain() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.reveal.Closed() {
		return ErrClosed
	}
	if b.reveal.Phase() != PhaseScored {
		return ErrWrongPhase
	}
	return b.reveal.Start()
}

func (b *Buzzer) Cancel() error {
	return b.reveal.Cancel()
}

func (b *Buzzer) Buzz(ctx context.Context) (Reaction, error) {
	return b.reveal.Act(ctx, struct{}{})
}

// Next moves to the following card. Not allowed while a round is running.
func (b *Buzzer) Next() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.reveal.Closed() {
		return ErrClosed
	}
	switch b.reveal.Phase() {
	case PhaseWaiting, PhaseRevealed:
		return ErrWrongPhase
	}
	if err := b.reveal.Reset(); err != nil {
		return err
	}
	b.deck.Next()
	return nil
}

func (b *Buzzer) Close() {
	b.reveal.Close()
}

func (b *Buzzer) State() BuzzerState {
	rs := b.reveal.State()
	state := BuzzerState{
		Phase:     rs.Label,
		Counter:   b.deck.Counter(),
		ElapsedMs: rs.Sample.Milliseconds(),
		Reaction:  rs.Result,
	}
	if card, ok := b.deck.Current(); ok {
		state.Card = &card
	}
	return state
}
