package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadOverridesDefaults(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CATALOG_PAGE_SIZE", "12")
	t.Setenv("ROOM_PAGE_SIZE", "-3")
	t.Setenv("PUBLIC_BASE_URL", "https://party.example/")

	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected port 9090, got %s", cfg.Port)
	}
	if cfg.CatalogPageSize != 12 {
		t.Fatalf("expected catalog page size 12, got %d", cfg.CatalogPageSize)
	}
	if cfg.RoomPageSize != Default().RoomPageSize {
		t.Fatalf("expected negative room page size to be ignored, got %d", cfg.RoomPageSize)
	}
	if cfg.PublicBaseURL != "https://party.example" {
		t.Fatalf("expected trailing slash trimmed, got %s", cfg.PublicBaseURL)
	}
}

func TestLoadDotEnvMissingFile(t *testing.T) {
	if err := LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("expected missing file to be ignored, got %v", err)
	}
}

func TestLoadDotEnvKeepsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("TRINKSPIEL_TEST_VALUE=from-file\n"), 0o644); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("TRINKSPIEL_TEST_VALUE", "from-env")
	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("load env: %v", err)
	}
	if got := os.Getenv("TRINKSPIEL_TEST_VALUE"); got != "from-env" {
		t.Fatalf("expected existing env to win, got %s", got)
	}
}
