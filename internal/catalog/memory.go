package catalog

import (
	"context"
	"errors"
	"sync"
)

// MemorySource serves content held in process. It backs the service when no
// database is configured and is used by tests.
type MemorySource struct {
	mu          sync.Mutex
	nextID      uint
	cards       []Card
	confessions []Confession
}

func NewMemorySource(cards []Card, confessions []Confession) *MemorySource {
	src := &MemorySource{nextID: 1}
	for _, card := range cards {
		if card.ID == 0 {
			card.ID = src.nextID
		}
		if card.ID >= src.nextID {
			src.nextID = card.ID + 1
		}
		src.cards = append(src.cards, card)
	}
	for _, entry := range confessions {
		if entry.ID == 0 {
			entry.ID = src.nextID
		}
		if entry.ID >= src.nextID {
			src.nextID = entry.ID + 1
		}
		src.confessions = append(src.confessions, entry)
	}
	return src
}

func (m *MemorySource) Cards(_ context.Context, category string, excludeID uint, limit int) ([]Card, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Card, 0)
	for _, card := range m.cards {
		if category != "" && card.Category != category {
			continue
		}
		if excludeID != 0 && card.ID == excludeID {
			continue
		}
		out = append(out, card)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (m *MemorySource) Confessions(_ context.Context, excludeID uint, limit int) ([]Confession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Confession, 0)
	for _, entry := range m.confessions {
		if excludeID != 0 && entry.ID == excludeID {
			continue
		}
		out = append(out, entry)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (m *MemorySource) IncrementVote(_ context.Context, id uint, choice Choice) (Confession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.confessions {
		if m.confessions[i].ID != id {
			continue
		}
		switch choice {
		case ChoiceAdmit:
			m.confessions[i].AdmitCount++
		case ChoiceNever:
			m.confessions[i].NeverCount++
		}
		return m.confessions[i], nil
	}
	return Confession{}, ErrNotFound
}

func (m *MemorySource) InsertConfession(_ context.Context, text string) (Confession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, entry := range m.confessions {
		if entry.Text == text {
			return Confession{}, errors.New("confession already exists")
		}
	}
	entry := Confession{ID: m.nextID, Text: text}
	m.nextID++
	m.confessions = append(m.confessions, entry)
	return entry, nil
}

// SeedSource returns a MemorySource filled with the built-in party deck.
func SeedSource() *MemorySource {
	return NewMemorySource(seedCards(), seedConfessions())
}

func seedCards() []Card {
	return []Card{
		{Category: CategoryTruth, Text: "Was war dein peinlichster Moment?"},
		{Category: CategoryTruth, Text: "Wen in dieser Runde würdest du am ehesten daten?"},
		{Category: CategoryTruth, Text: "Was ist die größte Lüge, die du je erzählt hast?"},
		{Category: CategoryTruth, Text: "Welche App würdest du nie deinen Eltern zeigen?"},
		{Category: CategoryDare, Text: "Tanze 30 Sekunden ohne Musik."},
		{Category: CategoryDare, Text: "Trink einen Schluck mit der falschen Hand."},
		{Category: CategoryDare, Text: "Imitiere jemanden aus der Runde."},
		{Category: CategoryDare, Text: "Lies deine letzte gesendete Nachricht laut vor."},
		{Category: CategoryWouldRather, Text: "nachts um drei noch Döner holen?"},
		{Category: CategoryWouldRather, Text: "beim Karaoke das Mikro nicht mehr hergeben?"},
		{Category: CategoryWouldRather, Text: "auf einer Hochzeit einschlafen?"},
		{Category: CategoryBuzzer, Text: "Nenne drei Biersorten!"},
		{Category: CategoryBuzzer, Text: "Wer zuerst drückt, verteilt zwei Schlucke."},
		{Category: CategoryBuzzer, Text: "Zeig auf die Person, die als Nächstes trinkt!"},
	}
}

func seedConfessions() []Confession {
	return []Confession{
		{Text: "...in einem Flugzeug geweint."},
		{Text: "...eine Nachricht an die falsche Person geschickt."},
		{Text: "...auf einer Party eingeschlafen."},
		{Text: "...so getan, als würde ich jemanden nicht kennen."},
	}
}
