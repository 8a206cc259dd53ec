package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"share-portal/internal/config"
	"share-portal/internal/repository"

	"github.com/joho/godotenv"
)

const setupTimeout = 30 * time.Second

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Error loading .env file: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), setupTimeout)
	defer cancel()

	fmt.Printf("=== Setting Up %s Database ===\n\n", cfg.Database.Driver)

	backend, err := repository.Open(ctx, &cfg.Database)
	if err != nil {
		log.Printf("Failed to prepare database: %v", err)
		os.Exit(1)
	}
	defer backend.Close()

	fmt.Println("Schema is up to date")

	records, err := backend.Shares.List(ctx)
	if err != nil {
		log.Printf("Failed to read shares: %v", err)
		os.Exit(1)
	}

	expired := 0
	now := time.Now()
	for _, rec := range records {
		if now.After(rec.ExpiresAt) {
			expired++
		}
	}

	fmt.Printf("Shares stored: %d (%d expired)\n\n", len(records), expired)
	fmt.Println("Next: Run 'go run .' to start the server")
}
