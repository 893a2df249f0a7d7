package room

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"strings"

	"trinkspiel/internal/catalog"
	"trinkspiel/internal/game"

	"github.com/google/uuid"
)

const maxCodeAttempts = 5

type eventPayload struct {
	HostName string `json:"host_name,omitempty"`
	Game     string `json:"game,omitempty"`
	CardID   uint   `json:"card_id,omitempty"`
	Category string `json:"category,omitempty"`
	PlayerA  string `json:"player_a,omitempty"`
	PlayerB  string `json:"player_b,omitempty"`
}

// Manager runs room lifecycle actions and host draws. Writes go to the store
// first and are then published through the hub.
type Manager struct {
	store    Store
	hub      *Hub
	drawer   game.Drawer
	newCode  func() string
	newToken func() string
	pick     func(n int) int
}

func NewManager(store Store, hub *Hub, drawer game.Drawer) *Manager {
	return &Manager{
		store:    store,
		hub:      hub,
		drawer:   drawer,
		newCode:  NewCode,
		newToken: uuid.NewString,
		pick:     rand.IntN,
	}
}

func (m *Manager) Hub() *Hub {
	return m.hub
}

// CreateRoom inserts a fresh room and returns the host credential. A taken
// code is retried with a new one a few times.
func (m *Manager) CreateRoom(ctx context.Context, displayName string) (Room, Credential, error) {
	token := m.newToken()
	for attempt := 1; attempt <= maxCodeAttempts; attempt++ {
		created, err := m.store.Insert(ctx, Room{
			Code:        m.newCode(),
			HostToken:   token,
			CurrentMeta: map[string]string{},
		})
		if errors.Is(err, errCodeTaken) {
			log.Printf("room code collision attempt=%d", attempt)
			continue
		}
		if err != nil {
			log.Printf("room create failed error=%v", err)
			return Room{}, Credential{}, fmt.Errorf("%w: %v", ErrWriteFailed, err)
		}
		m.record(ctx, created.Code, "room_created", eventPayload{HostName: displayName})
		log.Printf("room created code=%s host=%s", created.Code, displayName)
		return created, Credential{Code: created.Code, Token: token}, nil
	}
	return Room{}, Credential{}, fmt.Errorf("%w: no free room code after %d attempts", ErrWriteFailed, maxCodeAttempts)
}

// JoinRoom looks a room up by user-entered code. Joining writes nothing;
// membership is the presence held by the hub.
func (m *Manager) JoinRoom(ctx context.Context, rawCode string) (Room, error) {
	code, err := NormalizeCode(rawCode)
	if err != nil {
		return Room{}, err
	}
	r, err := m.store.Get(ctx, code)
	if err != nil {
		if errors.Is(err, ErrRoomNotFound) {
			return Room{}, ErrRoomNotFound
		}
		log.Printf("room lookup failed code=%s error=%v", code, err)
		return Room{}, ErrRoomNotFound
	}
	return r, nil
}

// IsHost reports whether cred is the room's host credential.
func (m *Manager) IsHost(ctx context.Context, cred Credential) bool {
	r, err := m.store.Get(ctx, cred.Code)
	if err != nil {
		return false
	}
	return cred.Matches(r)
}

// LeaveRoom deletes the room when the host leaves and tells every
// subscriber. Anybody else leaving changes nothing.
func (m *Manager) LeaveRoom(ctx context.Context, cred Credential) (bool, error) {
	r, err := m.store.Get(ctx, cred.Code)
	if err != nil {
		if errors.Is(err, ErrRoomNotFound) {
			return false, ErrRoomNotFound
		}
		return false, fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	if !cred.Matches(r) {
		return false, nil
	}
	if err := m.store.Delete(ctx, r.Code); err != nil && !errors.Is(err, ErrRoomNotFound) {
		log.Printf("room delete failed code=%s error=%v", r.Code, err)
		return false, fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	m.record(ctx, r.Code, "room_closed", eventPayload{})
	m.hub.PublishClosed(r.Code)
	log.Printf("room closed code=%s", r.Code)
	return true, nil
}

// SelectGame sets the room's game and clears card and metadata.
func (m *Manager) SelectGame(ctx context.Context, cred Credential, gameName string) (Room, error) {
	if !ValidGame(gameName) {
		return Room{}, ErrUnknownGame
	}
	updated, err := m.update(ctx, cred, func(r *Room) error {
		name := gameName
		r.CurrentGame = &name
		r.CurrentCardID = nil
		r.CurrentCardText = nil
		r.CurrentMeta = map[string]string{}
		return nil
	})
	if err != nil {
		return Room{}, err
	}
	m.record(ctx, updated.Code, "game_selected", eventPayload{Game: gameName})
	log.Printf("room game selected code=%s game=%s version=%d", updated.Code, gameName, updated.Version)
	m.hub.Publish(updated)
	return updated, nil
}

// DrawCard draws the next card for the room's game and stores it. The
// host's own views get the change before everybody else's.
func (m *Manager) DrawCard(ctx context.Context, cred Credential, participantID, category string) (Room, error) {
	current, err := m.authorize(ctx, cred)
	if err != nil {
		return Room{}, err
	}
	category, err = m.drawCategory(current.Game(), category)
	if err != nil {
		return Room{}, err
	}
	var exclude uint
	if current.CurrentCardID != nil {
		exclude = *current.CurrentCardID
	}
	card, err := m.drawer.Draw(ctx, category, exclude)
	if err != nil {
		return Room{}, err
	}
	meta := map[string]string{}
	if current.Game() == GameWouldRather {
		names := m.rosterNames(cred.Code)
		if len(names) >= 2 {
			meta[MetaPlayerA], meta[MetaPlayerB] = game.PickPair(names, m.pick)
		}
	}
	updated, err := m.update(ctx, cred, func(r *Room) error {
		id := card.ID
		text := card.Text
		r.CurrentCardID = &id
		r.CurrentCardText = &text
		r.CurrentMeta = meta
		return nil
	})
	if err != nil {
		return Room{}, err
	}
	m.record(ctx, updated.Code, "card_drawn", eventPayload{
		Game:     updated.Game(),
		CardID:   card.ID,
		Category: category,
		PlayerA:  meta[MetaPlayerA],
		PlayerB:  meta[MetaPlayerB],
	})
	log.Printf("room card drawn code=%s card_id=%d version=%d", updated.Code, card.ID, updated.Version)
	if participantID != "" {
		m.hub.ApplyLocal(participantID, updated)
	}
	m.hub.Publish(updated)
	return updated, nil
}

func (m *Manager) drawCategory(gameName, requested string) (string, error) {
	requested = strings.TrimSpace(requested)
	switch gameName {
	case GameTruthOrDare:
		switch requested {
		case catalog.CategoryTruth, catalog.CategoryDare:
			return requested, nil
		case "":
			if m.pick(2) == 0 {
				return catalog.CategoryTruth, nil
			}
			return catalog.CategoryDare, nil
		}
		return "", ErrInvalidCategory
	case GameConfessions:
		return catalog.CategoryConfession, nil
	case GameWouldRather:
		return catalog.CategoryWouldRather, nil
	case GameBuzzer:
		return catalog.CategoryBuzzer, nil
	}
	return "", nil
}

func (m *Manager) rosterNames(code string) []string {
	roster := m.hub.Roster(code)
	names := make([]string, 0, len(roster))
	for _, entry := range roster {
		names = append(names, entry.DisplayName)
	}
	return names
}

func (m *Manager) authorize(ctx context.Context, cred Credential) (Room, error) {
	r, err := m.store.Get(ctx, cred.Code)
	if err != nil {
		if errors.Is(err, ErrRoomNotFound) {
			return Room{}, ErrRoomNotFound
		}
		return Room{}, fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	if !cred.Matches(r) {
		return Room{}, ErrNotHost
	}
	return r, nil
}

func (m *Manager) update(ctx context.Context, cred Credential, fn func(r *Room) error) (Room, error) {
	updated, err := m.store.Update(ctx, cred.Code, func(r *Room) error {
		if !cred.Matches(*r) {
			return ErrNotHost
		}
		return fn(r)
	})
	if err != nil {
		if errors.Is(err, ErrRoomNotFound) || errors.Is(err, ErrNotHost) {
			return Room{}, err
		}
		log.Printf("room update failed code=%s error=%v", cred.Code, err)
		return Room{}, fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	return updated, nil
}

func (m *Manager) record(ctx context.Context, code, eventType string, payload eventPayload) {
	if err := m.store.RecordEvent(ctx, code, eventType, payload); err != nil {
		log.Printf("room event persist failed code=%s type=%s error=%v", code, eventType, err)
	}
}
