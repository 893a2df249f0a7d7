package db

import "time"

type Confession struct {
	ID         uint      `gorm:"primaryKey"`
	Text       string    `gorm:"size:280;not null;uniqueIndex"`
	AdmitCount int       `gorm:"not null;default:0"`
	NeverCount int       `gorm:"not null;default:0"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}
