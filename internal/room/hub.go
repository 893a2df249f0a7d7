package room

import (
	"log"
	"sort"
	"sync"
	"time"
)

const subscriptionBuffer = 16

type EventType string

const (
	EventRoom   EventType = "room"
	EventRoster EventType = "roster"
	EventClosed EventType = "closed"
)

// Presence is one connected participant.
type Presence struct {
	ParticipantID string    `json:"participant_id"`
	DisplayName   string    `json:"display_name"`
	IsHost        bool      `json:"is_host"`
	JoinedAt      time.Time `json:"joined_at"`
}

// Notification is what a subscription receives. Local marks a room change
// the subscription's own view already applied.
type Notification struct {
	Type   EventType  `json:"type"`
	Room   *Room      `json:"room,omitempty"`
	Roster []Presence `json:"roster,omitempty"`
	Local  bool       `json:"-"`
}

// Hub fans room changes and presence out to the subscribers of each room.
type Hub struct {
	mu    sync.Mutex
	rooms map[string]map[*Subscription]struct{}
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*Subscription]struct{})}
}

// Subscription is one participant's registration in a room.
type Subscription struct {
	hub      *Hub
	code     string
	presence Presence
	events   chan Notification
	view     *View
	once     sync.Once
}

// Subscribe tracks presence in the room and sends every subscriber, the new
// one included, the updated roster.
func (h *Hub) Subscribe(code string, presence Presence) *Subscription {
	if presence.JoinedAt.IsZero() {
		presence.JoinedAt = time.Now().UTC()
	}
	sub := &Subscription{
		hub:      h,
		code:     code,
		presence: presence,
		events:   make(chan Notification, subscriptionBuffer),
		view:     NewView(),
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	group := h.rooms[code]
	if group == nil {
		group = make(map[*Subscription]struct{})
		h.rooms[code] = group
	}
	group[sub] = struct{}{}
	log.Printf("presence joined room=%s participant_id=%s host=%t", code, presence.ParticipantID, presence.IsHost)
	h.broadcastRosterLocked(code)
	return sub
}

// Publish sends a room change to every subscriber of the room.
func (h *Hub) Publish(r Room) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.rooms[r.Code] {
		change := r.clone()
		sub.deliverLocked(Notification{Type: EventRoom, Room: &change})
	}
}

// ApplyLocal applies a change to the views of one participant's
// subscriptions right away. The later Publish of the same version is then
// ignored by those views.
func (h *Hub) ApplyLocal(participantID string, r Room) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.rooms[r.Code] {
		if sub.presence.ParticipantID != participantID {
			continue
		}
		if sub.view.Apply(r) {
			change := r.clone()
			sub.deliverLocked(Notification{Type: EventRoom, Room: &change, Local: true})
		}
	}
}

// PublishClosed tells every subscriber the room is gone.
func (h *Hub) PublishClosed(code string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.rooms[code] {
		sub.deliverLocked(Notification{Type: EventClosed})
	}
}

// Roster lists the room's presence entries ordered by join time.
func (h *Hub) Roster(code string) []Presence {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.rosterLocked(code)
}

func (h *Hub) rosterLocked(code string) []Presence {
	roster := make([]Presence, 0, len(h.rooms[code]))
	for sub := range h.rooms[code] {
		roster = append(roster, sub.presence)
	}
	sort.SliceStable(roster, func(i, j int) bool {
		if roster[i].JoinedAt.Equal(roster[j].JoinedAt) {
			return roster[i].ParticipantID < roster[j].ParticipantID
		}
		return roster[i].JoinedAt.Before(roster[j].JoinedAt)
	})
	return roster
}

func (h *Hub) broadcastRosterLocked(code string) {
	roster := h.rosterLocked(code)
	for sub := range h.rooms[code] {
		sub.deliverLocked(Notification{Type: EventRoster, Roster: append([]Presence(nil), roster...)})
	}
}

func (h *Hub) remove(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	group := h.rooms[sub.code]
	if group == nil {
		return
	}
	if _, ok := group[sub]; !ok {
		return
	}
	delete(group, sub)
	close(sub.events)
	log.Printf("presence left room=%s participant_id=%s", sub.code, sub.presence.ParticipantID)
	if len(group) == 0 {
		delete(h.rooms, sub.code)
		return
	}
	h.broadcastRosterLocked(sub.code)
}

// deliverLocked never blocks; a full buffer drops the notification. Every
// notification carries complete state so the next one catches the reader up.
func (s *Subscription) deliverLocked(n Notification) {
	select {
	case s.events <- n:
	default:
		log.Printf("subscriber slow, notification dropped room=%s participant_id=%s type=%s", s.code, s.presence.ParticipantID, n.Type)
	}
}

func (s *Subscription) Events() <-chan Notification {
	return s.events
}

func (s *Subscription) View() *View {
	return s.view
}

func (s *Subscription) Presence() Presence {
	return s.presence
}

func (s *Subscription) Code() string {
	return s.code
}

// Close untracks presence, updates everybody's roster and closes Events.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.remove(s)
	})
}

// Accept reports whether n should reach the participant, applying room
// changes to the subscription's view.
func (s *Subscription) Accept(n Notification) bool {
	if n.Type != EventRoom || n.Room == nil || n.Local {
		return true
	}
	return s.view.Apply(*n.Room)
}
