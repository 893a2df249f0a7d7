package room

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"trinkspiel/internal/db"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store persists room rows. Update runs fn against the current row and bumps
// the version in the same write.
type Store interface {
	Insert(ctx context.Context, r Room) (Room, error)
	Get(ctx context.Context, code string) (Room, error)
	Update(ctx context.Context, code string, fn func(r *Room) error) (Room, error)
	Delete(ctx context.Context, code string) error
	RecordEvent(ctx context.Context, code, eventType string, payload any) error
}

type Event struct {
	RoomCode  string
	Type      string
	Payload   json.RawMessage
	CreatedAt time.Time
}

// MemoryStore keeps rooms in process when no database is configured.
type MemoryStore struct {
	mu     sync.Mutex
	rooms  map[string]Room
	events []Event
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rooms: make(map[string]Room)}
}

func (m *MemoryStore) Insert(_ context.Context, r Room) (Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.rooms[r.Code]; exists {
		return Room{}, errCodeTaken
	}
	r = r.clone()
	r.Version = 1
	m.rooms[r.Code] = r
	return r.clone(), nil
}

func (m *MemoryStore) Get(_ context.Context, code string) (Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rooms[code]
	if !ok {
		return Room{}, ErrRoomNotFound
	}
	return r.clone(), nil
}

func (m *MemoryStore) Update(_ context.Context, code string, fn func(r *Room) error) (Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.rooms[code]
	if !ok {
		return Room{}, ErrRoomNotFound
	}
	next := current.clone()
	if err := fn(&next); err != nil {
		return Room{}, err
	}
	next.Code = current.Code
	next.HostToken = current.HostToken
	next.Version = current.Version + 1
	m.rooms[code] = next
	return next.clone(), nil
}

func (m *MemoryStore) Delete(_ context.Context, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rooms[code]; !ok {
		return ErrRoomNotFound
	}
	delete(m.rooms, code)
	return nil
}

func (m *MemoryStore) RecordEvent(_ context.Context, code, eventType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, Event{RoomCode: code, Type: eventType, Payload: data, CreatedAt: time.Now().UTC()})
	return nil
}

// Events returns the recorded audit events of a room, oldest first.
func (m *MemoryStore) Events(code string) []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, 0)
	for _, event := range m.events {
		if event.RoomCode == code {
			out = append(out, event)
		}
	}
	return out
}

// GormStore keeps rooms in the rooms table and audit events in room_events.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(conn *gorm.DB) *GormStore {
	return &GormStore{db: conn}
}

func (g *GormStore) Insert(ctx context.Context, r Room) (Room, error) {
	r.Version = 1
	record, err := toRecord(r)
	if err != nil {
		return Room{}, err
	}
	if err := g.db.WithContext(ctx).Create(&record).Error; err != nil {
		if isUniqueViolation(err) || errors.Is(err, gorm.ErrDuplicatedKey) {
			return Room{}, errCodeTaken
		}
		return Room{}, err
	}
	return fromRecord(record)
}

func (g *GormStore) Get(ctx context.Context, code string) (Room, error) {
	var record db.Room
	if err := g.db.WithContext(ctx).Where("code = ?", code).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Room{}, ErrRoomNotFound
		}
		return Room{}, err
	}
	return fromRecord(record)
}

func (g *GormStore) Update(ctx context.Context, code string, fn func(r *Room) error) (Room, error) {
	var updated Room
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record db.Room
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("code = ?", code).First(&record).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoomNotFound
			}
			return err
		}
		current, err := fromRecord(record)
		if err != nil {
			return err
		}
		next := current.clone()
		if err := fn(&next); err != nil {
			return err
		}
		next.Code = current.Code
		next.HostToken = current.HostToken
		next.Version = current.Version + 1
		nextRecord, err := toRecord(next)
		if err != nil {
			return err
		}
		nextRecord.CreatedAt = record.CreatedAt
		if err := tx.Save(&nextRecord).Error; err != nil {
			return err
		}
		updated = next
		return nil
	})
	if err != nil {
		return Room{}, err
	}
	return updated, nil
}

func (g *GormStore) Delete(ctx context.Context, code string) error {
	result := g.db.WithContext(ctx).Where("code = ?", code).Delete(&db.Room{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRoomNotFound
	}
	return nil
}

func (g *GormStore) RecordEvent(ctx context.Context, code, eventType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	record := db.RoomEvent{
		RoomCode: code,
		Type:     eventType,
		Payload:  datatypes.JSON(data),
	}
	return g.db.WithContext(ctx).Create(&record).Error
}

func toRecord(r Room) (db.Room, error) {
	meta := r.CurrentMeta
	if meta == nil {
		meta = map[string]string{}
	}
	data, err := json.Marshal(meta)
	if err != nil {
		return db.Room{}, fmt.Errorf("encode room meta: %w", err)
	}
	return db.Room{
		Code:            r.Code,
		HostToken:       r.HostToken,
		CurrentCardID:   r.CurrentCardID,
		CurrentCardText: r.CurrentCardText,
		CurrentGame:     r.CurrentGame,
		CurrentMeta:     datatypes.JSON(data),
		Version:         r.Version,
	}, nil
}

func fromRecord(record db.Room) (Room, error) {
	meta := map[string]string{}
	if len(record.CurrentMeta) > 0 {
		if err := json.Unmarshal(record.CurrentMeta, &meta); err != nil {
			return Room{}, fmt.Errorf("decode room meta: %w", err)
		}
	}
	return Room{
		Code:            record.Code,
		HostToken:       record.HostToken,
		CurrentCardID:   record.CurrentCardID,
		CurrentCardText: record.CurrentCardText,
		CurrentGame:     record.CurrentGame,
		CurrentMeta:     meta,
		Version:         record.Version,
	}, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
