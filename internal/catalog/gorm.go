package catalog

import (
	"context"
	"errors"

	"trinkspiel/internal/db"

	"gorm.io/gorm"
)

// GormSource reads the cards and confessions tables.
type GormSource struct {
	db *gorm.DB
}

func NewGormSource(conn *gorm.DB) *GormSource {
	return &GormSource{db: conn}
}

func (g *GormSource) Cards(ctx context.Context, category string, excludeID uint, limit int) ([]Card, error) {
	query := g.db.WithContext(ctx).Model(&db.Card{})
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	var records []db.Card
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	cards := make([]Card, 0, len(records))
	for _, record := range records {
		cards = append(cards, Card{ID: record.ID, Text: record.Text, Category: record.Category})
	}
	return cards, nil
}

func (g *GormSource) Confessions(ctx context.Context, excludeID uint, limit int) ([]Confession, error) {
	query := g.db.WithContext(ctx).Model(&db.Confession{})
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	var records []db.Confession
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	entries := make([]Confession, 0, len(records))
	for _, record := range records {
		entries = append(entries, confessionFromRecord(record))
	}
	return entries, nil
}

// IncrementVote bumps one counter in a single statement so concurrent voters
// do not overwrite each other.
func (g *GormSource) IncrementVote(ctx context.Context, id uint, choice Choice) (Confession, error) {
	column := "admit_count"
	if choice == ChoiceNever {
		column = "never_count"
	}
	result := g.db.WithContext(ctx).Model(&db.Confession{}).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + ?", 1))
	if result.Error != nil {
		return Confession{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Confession{}, ErrNotFound
	}
	var record db.Confession
	if err := g.db.WithContext(ctx).Where("id = ?", id).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Confession{}, ErrNotFound
		}
		return Confession{}, err
	}
	return confessionFromRecord(record), nil
}

func (g *GormSource) InsertConfession(ctx context.Context, text string) (Confession, error) {
	record := db.Confession{Text: text}
	if err := g.db.WithContext(ctx).Create(&record).Error; err != nil {
		return Confession{}, err
	}
	return confessionFromRecord(record), nil
}

func confessionFromRecord(record db.Confession) Confession {
	return Confession{
		ID:         record.ID,
		Text:       record.Text,
		AdmitCount: record.AdmitCount,
		NeverCount: record.NeverCount,
	}
}
