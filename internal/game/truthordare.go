package game

import (
	"context"
	"fmt"
	"sync"

	"trinkspiel/internal/catalog"
)

// Drawer is the catalog draw used by the free-draw games.
type Drawer interface {
	Draw(ctx context.Context, category string, excludeID uint) (catalog.Card, error)
}

type TruthOrDareState struct {
	Phase  string        `json:"phase"`
	Card   *catalog.Card `json:"card,omitempty"`
	Drinks int           `json:"drinks"`
}

type TruthOrDare struct {
	mu     sync.Mutex
	drawer Drawer
	card   *catalog.Card
	drinks int
}

func NewTruthOrDare(drawer Drawer) *TruthOrDare {
	return &TruthOrDare{drawer: drawer}
}

// Draw replaces the shown card with a truth or a dare other than it. The
// current card stays when the draw fails.
func (t *TruthOrDare) Draw(ctx context.Context, category string) (catalog.Card, error) {
	if category != catalog.CategoryTruth && category != catalog.CategoryDare {
		return catalog.Card{}, fmt.Errorf("unknown truth or dare category %q", category)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	var exclude uint
	if t.card != nil {
		exclude = t.card.ID
	}
	card, err := t.drawer.Draw(ctx, category, exclude)
	if err != nil {
		return catalog.Card{}, err
	}
	t.card = &card
	return card, nil
}

// Drink bumps the drink counter.
func (t *TruthOrDare) Drink() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.drinks++
	return t.drinks
}

func (t *TruthOrDare) State() TruthOrDareState {
	t.mu.Lock()
	defer t.mu.Unlock()
	state := TruthOrDareState{Phase: "idle", Drinks: t.drinks}
	if t.card != nil {
		card := *t.card
		state.Phase = "card"
		state.Card = &card
	}
	return state
}
