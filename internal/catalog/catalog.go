// Package catalog reads game content: categorized cards and confession
// sentences with their vote counters.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"strings"

	"trinkspiel/internal/db"
)

var (
	ErrNotFound    = errors.New("no cards available")
	ErrWriteFailed = errors.New("catalog write failed")
)

const (
	CategoryTruth       = db.CategoryTruth
	CategoryDare        = db.CategoryDare
	CategoryWouldRather = db.CategoryWouldRather
	CategoryBuzzer      = db.CategoryBuzzer
	CategoryConfession  = db.CategoryConfession
)

const DefaultPageSize = 10

type Card struct {
	ID       uint   `json:"id"`
	Text     string `json:"text"`
	Category string `json:"category"`
}

type Confession struct {
	ID         uint   `json:"id"`
	Text       string `json:"text"`
	AdmitCount int    `json:"admit_count"`
	NeverCount int    `json:"never_count"`
}

// Card returns the confession as a card of category confession.
func (c Confession) Card() Card {
	return Card{ID: c.ID, Text: c.Text, Category: CategoryConfession}
}

// Choice is the counter a confession vote increments.
type Choice string

const (
	ChoiceAdmit Choice = "admit"
	ChoiceNever Choice = "never"
)

func (c Choice) Valid() bool {
	return c == ChoiceAdmit || c == ChoiceNever
}

// Source is the query surface of the content store.
type Source interface {
	Cards(ctx context.Context, category string, excludeID uint, limit int) ([]Card, error)
	Confessions(ctx context.Context, excludeID uint, limit int) ([]Confession, error)
	IncrementVote(ctx context.Context, id uint, choice Choice) (Confession, error)
	InsertConfession(ctx context.Context, text string) (Confession, error)
}

// Accessor draws cards from a Source. A draw reads one bounded page of
// candidates and picks uniformly from that page only.
type Accessor struct {
	source   Source
	pageSize int
	pick     func(n int) int
}

func NewAccessor(source Source, pageSize int) *Accessor {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Accessor{
		source:   source,
		pageSize: pageSize,
		pick:     rand.IntN,
	}
}

// WithPageSize returns an accessor sharing the source with a different page.
func (a *Accessor) WithPageSize(pageSize int) *Accessor {
	clone := NewAccessor(a.source, pageSize)
	clone.pick = a.pick
	return clone
}

// Draw returns a random card of category (any category when empty) whose id
// differs from excludeID. When the exclusion empties the page, the draw is
// repeated without it so a single-card category still yields its card.
func (a *Accessor) Draw(ctx context.Context, category string, excludeID uint) (Card, error) {
	if category == CategoryConfession {
		confession, err := a.DrawConfession(ctx, excludeID)
		if err != nil {
			return Card{}, err
		}
		return confession.Card(), nil
	}
	cards, err := a.source.Cards(ctx, category, excludeID, a.pageSize)
	if err == nil && len(cards) == 0 && excludeID != 0 {
		cards, err = a.source.Cards(ctx, category, 0, a.pageSize)
	}
	if err != nil {
		log.Printf("catalog draw failed category=%s error=%v", category, err)
		return Card{}, ErrNotFound
	}
	if len(cards) == 0 {
		return Card{}, ErrNotFound
	}
	return cards[a.pick(len(cards))], nil
}

// DrawConfession is Draw for the confession table; the returned value carries
// the current vote counters.
func (a *Accessor) DrawConfession(ctx context.Context, excludeID uint) (Confession, error) {
	entries, err := a.source.Confessions(ctx, excludeID, a.pageSize)
	if err == nil && len(entries) == 0 && excludeID != 0 {
		entries, err = a.source.Confessions(ctx, 0, a.pageSize)
	}
	if err != nil {
		log.Printf("catalog confession draw failed error=%v", err)
		return Confession{}, ErrNotFound
	}
	if len(entries) == 0 {
		return Confession{}, ErrNotFound
	}
	return entries[a.pick(len(entries))], nil
}

// Deck fetches every card of a category, unordered.
func (a *Accessor) Deck(ctx context.Context, category string) ([]Card, error) {
	if category == CategoryConfession {
		entries, err := a.source.Confessions(ctx, 0, 0)
		if err != nil {
			log.Printf("catalog deck failed category=%s error=%v", category, err)
			return nil, ErrNotFound
		}
		cards := make([]Card, 0, len(entries))
		for _, entry := range entries {
			cards = append(cards, entry.Card())
		}
		if len(cards) == 0 {
			return nil, ErrNotFound
		}
		return cards, nil
	}
	cards, err := a.source.Cards(ctx, category, 0, 0)
	if err != nil {
		log.Printf("catalog deck failed category=%s error=%v", category, err)
		return nil, ErrNotFound
	}
	if len(cards) == 0 {
		return nil, ErrNotFound
	}
	return cards, nil
}

// Vote increments exactly one counter of a confession.
func (a *Accessor) Vote(ctx context.Context, id uint, choice Choice) (Confession, error) {
	if !choice.Valid() {
		return Confession{}, fmt.Errorf("unknown vote choice %q", choice)
	}
	updated, err := a.source.IncrementVote(ctx, id, choice)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Confession{}, err
		}
		log.Printf("catalog vote failed confession_id=%d choice=%s error=%v", id, choice, err)
		return Confession{}, fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	return updated, nil
}

// Submit stores a user supplied confession with zero counters.
func (a *Accessor) Submit(ctx context.Context, text string) (Confession, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Confession{}, errors.New("confession text is required")
	}
	created, err := a.source.InsertConfession(ctx, text)
	if err != nil {
		log.Printf("catalog submit failed error=%v", err)
		return Confession{}, fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	log.Printf("confession submitted confession_id=%d", created.ID)
	return created, nil
}
