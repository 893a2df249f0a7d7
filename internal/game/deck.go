package game

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"trinkspiel/internal/catalog"
)

// Deck walks a shuffled card sequence and wraps around at the end.
type Deck struct {
	mu    sync.Mutex
	cards []catalog.Card
	index int
}

func NewDeck(cards []catalog.Card) *Deck {
	shuffled := append([]catalog.Card(nil), cards...)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return newOrderedDeck(shuffled)
}

func newOrderedDeck(cards []catalog.Card) *Deck {
	return &Deck{cards: cards}
}

func (d *Deck) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.cards)
}

func (d *Deck) Current() (catalog.Card, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.cards) == 0 {
		return catalog.Card{}, false
	}
	return d.cards[d.index], true
}

// Next advances to the following card, wrapping to the first.
func (d *Deck) Next() (catalog.Card, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.cards) == 0 {
		return catalog.Card{}, false
	}
	d.index = (d.index + 1) % len(d.cards)
	return d.cards[d.index], true
}

// Counter renders the position as "i/n", or "" for an empty deck.
func (d *Deck) Counter() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.cards) == 0 {
		return ""
	}
	return fmt.Sprintf("%d/%d", d.index+1, len(d.cards))
}
