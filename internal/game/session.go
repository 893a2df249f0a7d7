package game

import (
	"context"
	"sync"
	"time"

	"trinkspiel/internal/catalog"
)

// Session bundles the single-device controllers of one browser. Controllers
// are built on first use; Close tears down every timer they hold.
type Session struct {
	mu          sync.Mutex
	accessor    *catalog.Accessor
	clock       Clock
	delay       func() time.Duration
	truthOrDare *TruthOrDare
	confessions *Confessions
	wouldRather *WouldRather
	buzzer      *Buzzer
	closed      bool
}

type SessionOption func(*Session)

func WithClock(clock Clock) SessionOption {
	return func(s *Session) { s.clock = clock }
}

func WithBuzzerDelay(delay func() time.Duration) SessionOption {
	return func(s *Session) { s.delay = delay }
}

func NewSession(accessor *catalog.Accessor, opts ...SessionOption) *Session {
	s := &Session{accessor: accessor, clock: SystemClock(), delay: RandomDelay}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) TruthOrDare() (*TruthOrDare, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	if s.truthOrDare == nil {
		s.truthOrDare = NewTruthOrDare(s.accessor)
	}
	return s.truthOrDare, nil
}

func (s *Session) Confessions() (*Confessions, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	if s.confessions == nil {
		s.confessions = NewConfessions(s.accessor)
	}
	return s.confessions, nil
}

func (s *Session) WouldRather() (*WouldRather, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	if s.wouldRather == nil {
		s.wouldRather = NewWouldRather(s.accessor)
	}
	return s.wouldRather, nil
}

// Buzzer loads the buzzer deck on first use. A failed load is retried on the
// next call.
func (s *Session) Buzzer(ctx context.Context) (*Buzzer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	if s.buzzer == nil {
		cards, err := s.accessor.Deck(ctx, catalog.CategoryBuzzer)
		if err != nil {
			return nil, err
		}
		s.buzzer = NewBuzzer(NewDeck(cards), s.clock, s.delay)
	}
	return s.buzzer, nil
}

func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if s.buzzer != nil {
		s.buzzer.Close()
	}
	if s.confessions != nil {
		s.confessions.Close()
	}
}
