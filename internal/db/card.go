package db

import "time"

const (
	CategoryTruth       = "truth"
	CategoryDare        = "dare"
	CategoryWouldRather = "would-rather"
	CategoryBuzzer      = "buzzer"
	CategoryConfession  = "confession"
)

type Card struct {
	ID        uint      `gorm:"primaryKey"`
	Text      string    `gorm:"size:280;not null;uniqueIndex:idx_cards_category_text"`
	Category  string    `gorm:"size:32;not null;index;uniqueIndex:idx_cards_category_text"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}
