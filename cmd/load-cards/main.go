package main

import (
	"flag"
	"log"

	"trinkspiel/internal/config"
	"trinkspiel/internal/db"
)

func main() {
	filePath := flag.String("file", "data/cards.csv", "path to category,text csv")
	flag.Parse()

	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("failed to load .env: %v", err)
	}
	conn, err := db.Open(config.Load())
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	inserted, err := db.LoadCardLibrary(conn, *filePath)
	if err != nil {
		log.Fatalf("failed to load cards: %v", err)
	}
	log.Printf("loaded %d cards from %s", inserted, *filePath)
}
