package db

import (
	"time"

	"gorm.io/datatypes"
)

// RoomEvent is the append-only audit trail of room lifecycle actions. Rows
// outlive the room they describe.
type RoomEvent struct {
	ID        uint           `gorm:"primaryKey"`
	RoomCode  string         `gorm:"size:4;index;not null"`
	Type      string         `gorm:"size:64;not null"`
	Payload   datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt time.Time      `gorm:"not null"`
}
