package game

import (
	"context"
	"errors"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"

	"trinkspiel/internal/catalog"
)

var ErrNotEnoughPlayers = errors.New("at least two players required")

const (
	PhaseSetup = "setup"
	PhasePlay  = "play"
)

type WouldRatherState struct {
	Phase   string        `json:"phase"`
	Players []string      `json:"players"`
	Card    *catalog.Card `json:"card,omitempty"`
	PlayerA string        `json:"player_a,omitempty"`
	PlayerB string        `json:"player_b,omitempty"`
}

// WouldRather is "Wer würde eher": a setup roster, then rounds that pair two
// random players with a card.
type WouldRather struct {
	mu      sync.Mutex
	drawer  Drawer
	pick    func(n int) int
	phase   string
	players []string
	card    *catalog.Card
	pair    [2]string
}

func NewWouldRather(drawer Drawer) *WouldRather {
	return &WouldRather{drawer: drawer, pick: rand.IntN, phase: PhaseSetup}
}

// AddPlayer appends a trimmed name. Blank and duplicate names are ignored.
func (w *WouldRather) AddPlayer(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if slices.Contains(w.players, name) {
		return false
	}
	w.players = append(w.players, name)
	return true
}

func (w *WouldRather) RemovePlayer(name string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	idx := slices.Index(w.players, strings.TrimSpace(name))
	if idx < 0 {
		return false
	}
	w.players = slices.Delete(w.players, idx, idx+1)
	return true
}

// Play leaves setup and deals the first round.
func (w *WouldRather) Play(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.players) < 2 {
		return ErrNotEnoughPlayers
	}
	w.phase = PhasePlay
	return w.nextRoundLocked(ctx)
}

func (w *WouldRather) NextRound(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.phase != PhasePlay {
		return ErrWrongPhase
	}
	if len(w.players) < 2 {
		return ErrNotEnoughPlayers
	}
	return w.nextRoundLocked(ctx)
}

func (w *WouldRather) nextRoundLocked(ctx context.Context) error {
	var exclude uint
	if w.card != nil {
		exclude = w.card.ID
	}
	card, err := w.drawer.Draw(ctx, catalog.CategoryWouldRather, exclude)
	if err != nil {
		return err
	}
	a, b := PickPair(w.players, w.pick)
	w.card = &card
	w.pair = [2]string{a, b}
	return nil
}

// Setup returns to the roster screen. The roster is kept.
func (w *WouldRather) Setup() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.phase = PhaseSetup
	w.card = nil
	w.pair = [2]string{}
}

func (w *WouldRather) State() WouldRatherState {
	w.mu.Lock()
	defer w.mu.Unlock()
	state := WouldRatherState{
		Phase:   w.phase,
		Players: append([]string{}, w.players...),
		PlayerA: w.pair[0],
		PlayerB: w.pair[1],
	}
	if w.card != nil {
		card := *w.card
		state.Card = &card
	}
	return state
}

// PickPair picks two distinct names uniformly. pick(n) returns a value in
// [0, n). With two names the pair is always both of them.
func PickPair(names []string, pick func(n int) int) (string, string) {
	n := len(names)
	if n < 2 {
		return "", ""
	}
	i := pick(n)
	j := pick(n - 1)
	if j >= i {
		j++
	}
	return names[i], names[j]
}
