package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/fixora/backoffice/internal/adapter/persistence"
	"github.com/fixora/backoffice/internal/mockdata"
)

func main() {
	_ = godotenv.Load()

	count := flag.Int("count", getenvInt("SEED_LOG_COUNT", 150), "number of log records to insert")
	seed := flag.Int64("seed", int64(getenvInt("LOG_SEED", 0)), "generator seed, 0 for time based")
	flag.Parse()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("failed to connect db: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("failed to ping db: %v", err)
	}

	if _, err := persistence.MigrateUp(ctx, db); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	records := mockdata.NewGenerator(*seed).Generate(*count, time.Now())

	repo := persistence.NewPostgresLogRepository(db, 0)
	if err := repo.Append(ctx, records...); err != nil {
		log.Fatalf("failed to seed logs: %v", err)
	}

	total, err := repo.Count(ctx)
	if err != nil {
		log.Fatalf("failed to count logs: %v", err)
	}
	fmt.Printf("Seeded %d logs (seed=%d), table now holds %d\n", len(records), *seed, total)
}

func getenvInt(k string, d int) int {
	v, err := strconv.Atoi(os.Getenv(k))
	if err != nil {
		return d
	}
	return v
}
