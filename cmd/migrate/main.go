package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"trinkspiel/internal/config"
	"trinkspiel/internal/db"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

const migrationsDir = "db/migrations"

func main() {
	create := flag.String("create", "", "create an empty up/down migration pair with this name")
	down := flag.Int("down", 0, "roll back this many migrations instead of applying")
	auto := flag.Bool("auto", false, "sync the schema from the gorm models (development only)")
	flag.Parse()

	if *create != "" {
		if err := createMigration(*create, time.Now()); err != nil {
			log.Fatalf("create migration failed: %v", err)
		}
		return
	}

	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("failed to load .env: %v", err)
	}
	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	if *auto {
		conn, err := db.Open(cfg)
		if err != nil {
			log.Fatalf("database connection failed: %v", err)
		}
		if err := db.Migrate(conn); err != nil {
			log.Fatalf("auto migration failed: %v", err)
		}
		return
	}

	m, err := migrate.New("file://"+migrationsDir, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("migration setup failed: %v", err)
	}
	if *down > 0 {
		err = m.Steps(-*down)
	} else {
		err = m.Up()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Fatalf("database migration failed: %v", err)
	}
	version, dirty, verr := m.Version()
	if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
		log.Printf("read migration version failed: %v", verr)
	}
	log.Printf("database migrations applied version=%d dirty=%t", version, dirty)
}

func createMigration(name string, now time.Time) error {
	if strings.ContainsAny(name, " /") {
		return fmt.Errorf("migration name must not contain spaces or slashes: %q", name)
	}
	base := fmt.Sprintf("%s_%s", now.UTC().Format("20060102150405"), name)
	upPath := filepath.Join(migrationsDir, base+".up.sql")
	downPath := filepath.Join(migrationsDir, base+".down.sql")
	if err := os.MkdirAll(migrationsDir, 0o755); err != nil {
		return err
	}
	if err := writeNew(upPath, "-- up migration\n"); err != nil {
		return err
	}
	if err := writeNew(downPath, "-- down migration\n"); err != nil {
		return err
	}
	log.Printf("created %s and %s", upPath, downPath)
	return nil
}

func writeNew(path, content string) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := file.WriteString(content); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}
