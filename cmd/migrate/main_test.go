package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestCreateMigrationWritesPair(t *testing.T) {
	t.Chdir(t.TempDir())
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	if err := createMigration("add_buzzer_stats", now); err != nil {
		t.Fatalf("create migration: %v", err)
	}
	for _, suffix := range []string{".up.sql", ".down.sql"} {
		path := filepath.Join(migrationsDir, "20260301120000_add_buzzer_stats"+suffix)
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("expected %s: %v", path, err)
		}
	}
	if err := createMigration("add_buzzer_stats", now); err == nil {
		t.Fatalf("expected existing migration to be refused")
	}
}

func TestCreateMigrationRejectsSpaces(t *testing.T) {
	t.Chdir(t.TempDir())
	if err := createMigration("two words", time.Now()); err == nil {
		t.Fatalf("expected name with spaces to fail")
	}
}
