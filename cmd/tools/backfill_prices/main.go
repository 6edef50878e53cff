package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"bridgescan/internal/prices"
	"bridgescan/internal/store"
)

// One-shot price backfill: drains the missing-price queue without waiting
// for the hourly update_prices_missing tick. Useful after importing
// historical aggregates.
func main() {
	rps := flag.Float64("rps", 2, "CoinGecko requests per second")
	flag.Parse()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is required")
	}
	pg, err := store.NewPostgres(dbURL)
	if err != nil {
		log.Fatalf("connect store: %v", err)
	}
	defer pg.Close()

	base := os.Getenv("COINGECKO_URL")
	if base == "" {
		base = prices.DefaultCoinGeckoURL
	}

	oracle := prices.NewOracle(
		pg.WithNamespace(store.Prices),
		pg.WithNamespace(store.Queue),
		prices.NewCoinGecko(base, *rps),
	)

	ctx := context.Background()
	if err := oracle.RefreshMissing(ctx); err != nil {
		log.Fatalf("refresh missing prices: %v", err)
	}
	fmt.Println("missing-price queue drained; unresolved points stay queued for the next run")
}
