package db

import (
	"time"

	"gorm.io/datatypes"
)

type Room struct {
	Code            string         `gorm:"primaryKey;size:4"`
	HostToken       string         `gorm:"size:64;not null"`
	CurrentCardID   *uint          `gorm:""`
	CurrentCardText *string        `gorm:"size:280"`
	CurrentGame     *string        `gorm:"size:32"`
	CurrentMeta     datatypes.JSON `gorm:"type:jsonb;not null;default:'{}'"`
	Version         int64          `gorm:"not null;default:0"`
	CreatedAt       time.Time      `gorm:"not null"`
	UpdatedAt       time.Time      `gorm:"not null"`
}
