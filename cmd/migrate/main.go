package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/fixora/backoffice/internal/adapter/persistence"
)

func main() {
	_ = godotenv.Load()

	mode := flag.String("mode", "up", "migration mode: up or down")
	flag.Parse()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("failed to ping database: %v", err)
	}

	var (
		files []persistence.MigrationFile
		verb  string
	)
	switch strings.ToLower(*mode) {
	case "up":
		files, err = persistence.MigrateUp(ctx, db)
		verb = "Applied up"
	case "down":
		files, err = persistence.MigrateDown(ctx, db)
		verb = "Reverted down"
	default:
		log.Fatalf("unknown mode: %s", *mode)
	}
	if err != nil {
		log.Fatalf("migration %s failed: %v", *mode, err)
	}

	for _, f := range files {
		log.Printf("%s %03d: %s", verb, f.Version, f.Name)
	}
	log.Printf("Migration %s completed successfully", *mode)
}
