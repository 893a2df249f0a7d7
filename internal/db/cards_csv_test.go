package db

import (
	"strings"
	"testing"
)

func TestReadCardRecordsSkipsHeaderAndUnknown(t *testing.T) {
	input := "category,text\n" +
		"truth, Was war dein peinlichster Moment?\n" +
		"DARE,Tanze 30 Sekunden\n" +
		"poker,Unbekannt\n" +
		"buzzer,\n" +
		"confession,...in einem Flugzeug geweint.\n"
	records, err := ReadCardRecords(strings.NewReader(input))
	if err != nil {
		t.Fatalf("read records: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d: %#v", len(records), records)
	}
	if records[0].Category != CategoryTruth || records[0].Text != "Was war dein peinlichster Moment?" {
		t.Fatalf("unexpected first record %#v", records[0])
	}
	if records[1].Category != CategoryDare {
		t.Fatalf("expected category to be lowercased, got %s", records[1].Category)
	}
	if records[2].Category != CategoryConfession {
		t.Fatalf("expected confession record, got %#v", records[2])
	}
}

func TestLoadCardLibraryNilConnection(t *testing.T) {
	count, err := LoadCardLibrary(nil, "does-not-matter.csv")
	if err != nil || count != 0 {
		t.Fatalf("expected no-op without db, got %d %v", count, err)
	}
}
