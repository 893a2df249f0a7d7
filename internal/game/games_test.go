package game

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"trinkspiel/internal/catalog"
)

func testCards(n int) []catalog.Card {
	cards := make([]catalog.Card, 0, n)
	for i := 1; i <= n; i++ {
		cards = append(cards, catalog.Card{ID: uint(i), Text: fmt.Sprintf("Aufgabe %d", i), Category: catalog.CategoryBuzzer})
	}
	return cards
}

type failingDrawer struct{}

func (failingDrawer) Draw(context.Context, string, uint) (catalog.Card, error) {
	return catalog.Card{}, catalog.ErrNotFound
}

func TestDeckWrapsAround(t *testing.T) {
	deck := newOrderedDeck(testCards(3))
	if deck.Counter() != "1/3" {
		t.Fatalf("expected 1/3, got %s", deck.Counter())
	}
	deck.Next()
	deck.Next()
	card, _ := deck.Next()
	if card.ID != 1 || deck.Counter() != "1/3" {
		t.Fatalf("expected wraparound to first card, got %d %s", card.ID, deck.Counter())
	}
	if newOrderedDeck(nil).Counter() != "" {
		t.Fatalf("expected empty counter for empty deck")
	}
}

func TestNewDeckKeepsAllCards(t *testing.T) {
	deck := NewDeck(testCards(20))
	seen := map[uint]bool{}
	for i := 0; i < deck.Len(); i++ {
		card, _ := deck.Current()
		seen[card.ID] = true
		deck.Next()
	}
	if len(seen) != 20 {
		t.Fatalf("expected 20 distinct cards, got %d", len(seen))
	}
}

func TestTruthOrDareExcludesCurrent(t *testing.T) {
	game := NewTruthOrDare(catalog.NewAccessor(catalog.SeedSource(), 10))
	ctx := context.Background()
	prev, err := game.Draw(ctx, catalog.CategoryDare)
	if err != nil {
		t.Fatalf("draw: %v", err)
	}
	for i := 0; i < 50; i++ {
		card, err := game.Draw(ctx, catalog.CategoryDare)
		if err != nil {
			t.Fatalf("draw: %v", err)
		}
		if card.ID == prev.ID {
			t.Fatalf("dare %d repeated", card.ID)
		}
		prev = card
	}
	if _, err := game.Draw(ctx, catalog.CategoryBuzzer); err == nil {
		t.Fatalf("expected non truth/dare category to be rejected")
	}
	game.Drink()
	if got := game.Drink(); got != 2 {
		t.Fatalf("expected 2 drinks, got %d", got)
	}
	if state := game.State(); state.Phase != "card" || state.Card.ID != prev.ID {
		t.Fatalf("unexpected state %+v", state)
	}
}

func TestTruthOrDareKeepsCardOnFailure(t *testing.T) {
	game := NewTruthOrDare(failingDrawer{})
	if _, err := game.Draw(context.Background(), catalog.CategoryTruth); !errors.Is(err, catalog.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if state := game.State(); state.Phase != "idle" {
		t.Fatalf("expected idle, got %s", state.Phase)
	}
}

func TestConfessionDoubleVoteCountsOnce(t *testing.T) {
	source := catalog.NewMemorySource(nil, []catalog.Confession{{ID: 1, Text: "Ich hab noch nie gelogen."}})
	game := NewConfessions(catalog.NewAccessor(source, 10))
	ctx := context.Background()
	if _, err := game.Vote(ctx, catalog.ChoiceAdmit); !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("expected vote without card rejected, got %v", err)
	}
	if _, err := game.Next(ctx); err != nil {
		t.Fatalf("next: %v", err)
	}
	if _, err := game.Vote(ctx, catalog.ChoiceAdmit); err != nil {
		t.Fatalf("vote: %v", err)
	}
	if _, err := game.Vote(ctx, catalog.ChoiceAdmit); !errors.Is(err, ErrAlreadyVoted) {
		t.Fatalf("expected second vote rejected, got %v", err)
	}
	entries, _ := source.Confessions(ctx, 0, 0)
	if entries[0].AdmitCount != 1 {
		t.Fatalf("expected one admit vote, got %d", entries[0].AdmitCount)
	}
	state := game.State()
	if !state.Voted || state.AdmitPercent != 100 || state.Total != 1 {
		t.Fatalf("unexpected tally %+v", state)
	}

	// The single confession comes back and voting reopens.
	if _, err := game.Next(ctx); err != nil {
		t.Fatalf("next: %v", err)
	}
	if _, err := game.Vote(ctx, catalog.ChoiceNever); err != nil {
		t.Fatalf("vote on new card instance: %v", err)
	}
	if state := game.State(); state.AdmitPercent != 50 || state.NeverPercent != 50 {
		t.Fatalf("expected 50/50, got %+v", state)
	}
}

func TestPercentRounds(t *testing.T) {
	if got := Percent(1, 3); got != 33 {
		t.Fatalf("expected 33, got %d", got)
	}
	if got := Percent(2, 3); got != 67 {
		t.Fatalf("expected 67, got %d", got)
	}
	if got := Percent(0, 0); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestWouldRatherRoster(t *testing.T) {
	game := NewWouldRather(catalog.NewAccessor(catalog.SeedSource(), 10))
	game.AddPlayer("  Anna ")
	if game.AddPlayer("Anna") {
		t.Fatalf("expected duplicate rejected")
	}
	if game.AddPlayer("   ") {
		t.Fatalf("expected blank rejected")
	}
	if err := game.Play(context.Background()); !errors.Is(err, ErrNotEnoughPlayers) {
		t.Fatalf("expected not enough players, got %v", err)
	}
	game.AddPlayer("Ben")
	if err := game.Play(context.Background()); err != nil {
		t.Fatalf("play: %v", err)
	}
	state := game.State()
	if state.Phase != PhasePlay || state.Card == nil {
		t.Fatalf("expected play with card, got %+v", state)
	}
	if state.PlayerA == state.PlayerB {
		t.Fatalf("expected distinct players, got %s twice", state.PlayerA)
	}
	game.Setup()
	if err := game.NextRound(context.Background()); !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("expected next round rejected in setup, got %v", err)
	}
	if got := game.State().Players; len(got) != 2 || got[0] != "Anna" {
		t.Fatalf("expected roster kept, got %v", got)
	}
}

func TestPickPairDistinct(t *testing.T) {
	names := []string{"Anna", "Ben", "Cem", "Dana", "Emil"}
	for i := 0; i < len(names); i++ {
		for j := 0; j < len(names)-1; j++ {
			calls := 0
			pick := func(n int) int {
				calls++
				if calls == 1 {
					return i
				}
				return j
			}
			a, b := PickPair(names, pick)
			if a == b {
				t.Fatalf("pick %d/%d produced %s twice", i, j, a)
			}
		}
	}
}

func TestPickPairTwoNames(t *testing.T) {
	names := []string{"Anna", "Ben"}
	for i := 0; i < 50; i++ {
		a, b := PickPair(names, func(n int) int { return i % n })
		if !(a == "Anna" && b == "Ben") && !(a == "Ben" && b == "Anna") {
			t.Fatalf("unexpected pair %s %s", a, b)
		}
	}
}

func TestClosedConfessionsRejectNextAndVote(t *testing.T) {
	source := catalog.NewMemorySource(nil, []catalog.Confession{{ID: 1, Text: "Ich hab noch nie gelogen."}})
	game := NewConfessions(catalog.NewAccessor(source, 10))
	ctx := context.Background()
	if _, err := game.Next(ctx); err != nil {
		t.Fatalf("next: %v", err)
	}
	game.Close()
	if _, err := game.Vote(ctx, catalog.ChoiceNever); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected vote rejected after close, got %v", err)
	}
	if _, err := game.Next(ctx); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected next rejected after close, got %v", err)
	}
	if got := game.State().Phase; got != "card" {
		t.Fatalf("expected state frozen after close, got %s", got)
	}
}

func TestSessionCloseTearsDownBuzzer(t *testing.T) {
	clock := NewManualClock(testStart)
	session := NewSession(catalog.NewAccessor(catalog.SeedSource(), 10), WithClock(clock))
	buzzer, err := session.Buzzer(context.Background())
	if err != nil {
		t.Fatalf("buzzer: %v", err)
	}
	_ = buzzer.Start()
	session.Close()
	if clock.Pending() != 0 {
		t.Fatalf("expected timers canceled on close, got %d", clock.Pending())
	}
	if _, err := session.TruthOrDare(); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected closed session, got %v", err)
	}
}
