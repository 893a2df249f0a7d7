package db

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"gorm.io/gorm"
)

// CardRecord is one row of a card CSV: category,text.
type CardRecord struct {
	Category string
	Text     string
}

// LoadCardLibrary reads cards from a CSV and upserts them. Rows with category
// "confession" go to the confessions table, everything else to cards.
func LoadCardLibrary(conn *gorm.DB, path string) (int, error) {
	if conn == nil {
		return 0, nil
	}
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	records, err := ReadCardRecords(file)
	if err != nil {
		return 0, err
	}
	inserted := 0
	for _, record := range records {
		if record.Category == CategoryConfession {
			entry := Confession{Text: record.Text}
			if err := conn.FirstOrCreate(&entry, Confession{Text: entry.Text}).Error; err != nil {
				return inserted, err
			}
			inserted++
			continue
		}
		entry := Card{Category: record.Category, Text: record.Text}
		if err := conn.FirstOrCreate(&entry, Card{Category: entry.Category, Text: entry.Text}).Error; err != nil {
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}

// ReadCardRecords parses category,text rows, skipping the header, blank rows
// and unknown categories.
func ReadCardRecords(r io.Reader) ([]CardRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read cards csv: %w", err)
	}
	var records []CardRecord
	for i, row := range rows {
		if i == 0 || len(row) < 2 {
			continue
		}
		category := strings.ToLower(strings.TrimSpace(row[0]))
		text := strings.TrimSpace(row[1])
		if text == "" || !KnownCategory(category) {
			continue
		}
		records = append(records, CardRecord{Category: category, Text: text})
	}
	return records, nil
}

func KnownCategory(category string) bool {
	switch category {
	case CategoryTruth, CategoryDare, CategoryWouldRather, CategoryBuzzer, CategoryConfession:
		return true
	}
	return false
}
