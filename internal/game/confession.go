package game

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"trinkspiel/internal/catalog"
)

var ErrAlreadyVoted = errors.New("already voted on this card")

// ConfessionStore is the catalog surface of the confession game.
type ConfessionStore interface {
	DrawConfession(ctx context.Context, excludeID uint) (catalog.Confession, error)
	Vote(ctx context.Context, id uint, choice catalog.Choice) (catalog.Confession, error)
	Submit(ctx context.Context, text string) (catalog.Confession, error)
}

type ConfessionState struct {
	Phase        string              `json:"phase"`
	Confession   *catalog.Confession `json:"confession,omitempty"`
	Voted        bool                `json:"voted"`
	Total        int                 `json:"total"`
	AdmitPercent int                 `json:"admit_percent"`
	NeverPercent int                 `json:"never_percent"`
}

type ballot struct {
	id     uint
	choice catalog.Choice
}

// Confessions runs "Ich hab noch nie": a card is shown, one vote per card
// instance is accepted, then the tally is reported.
type Confessions struct {
	mu      sync.Mutex
	store   ConfessionStore
	current *catalog.Confession
	reveal  *Reveal[ballot, catalog.Confession]
}

func NewConfessions(store ConfessionStore) *Confessions {
	return &Confessions{
		store: store,
		reveal: NewReveal(RevealConfig[ballot, catalog.Confession]{
			Score: func(ctx context.Context, _ time.Duration, b ballot) (catalog.Confession, error) {
				return store.Vote(ctx, b.id, b.choice)
			},
			Labels: Labels{PhaseRevealed: "card", PhaseScored: "voted"},
		}),
	}
}

// Next shows another confession and re-opens voting.
func (c *Confessions) Next(ctx context.Context) (catalog.Confession, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.reveal.Closed() {
		return catalog.Confession{}, ErrClosed
	}
	var exclude uint
	if c.current != nil {
		exclude = c.current.ID
	}
	entry, err := c.store.DrawConfession(ctx, exclude)
	if err != nil {
		return catalog.Confession{}, err
	}
	if err := c.reveal.Reset(); err != nil {
		return catalog.Confession{}, err
	}
	if err := c.reveal.Start(); err != nil {
		return catalog.Confession{}, err
	}
	c.current = &entry
	return entry, nil
}

// Vote counts one vote for the shown card. A failed write keeps voting open.
func (c *Confessions) Vote(ctx context.Context, choice catalog.Choice) (catalog.Confession, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.reveal.Closed() {
		return catalog.Confession{}, ErrClosed
	}
	if c.current == nil {
		return catalog.Confession{}, ErrWrongPhase
	}
	if c.reveal.Phase() == PhaseScored {
		return catalog.Confession{}, ErrAlreadyVoted
	}
	if !choice.Valid() {
		return catalog.Confession{}, errors.New("unknown vote choice")
	}
	updated, err := c.reveal.Act(ctx, ballot{id: c.current.ID, choice: choice})
	if err != nil {
		return catalog.Confession{}, err
	}
	c.current = &updated
	return updated, nil
}

func (c *Confessions) Submit(ctx context.Context, text string) (catalog.Confession, error) {
	return c.store.Submit(ctx, text)
}

func (c *Confessions) Close() {
	c.reveal.Close()
}

func (c *Confessions) State() ConfessionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	rs := c.reveal.State()
	state := ConfessionState{Phase: rs.Label, Voted: rs.Phase == PhaseScored}
	if c.current == nil {
		return state
	}
	entry := *c.current
	state.Confession = &entry
	state.Total = entry.AdmitCount + entry.NeverCount
	state.AdmitPercent = Percent(entry.AdmitCount, state.Total)
	state.NeverPercent = Percent(entry.NeverCount, state.Total)
	return state
}

// Percent is part of total rounded to a whole percent, 0 for no votes.
func Percent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(part) * 100 / float64(total)))
}
