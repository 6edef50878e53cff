package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"bridgescan/internal/config"
	"bridgescan/internal/store"
)

// Deletes a chain's scan cursors so the next update_getlogs tick rescans
// from the contract start blocks. Aggregates are idempotent per (block,
// tx index), so a rescan only fills gaps.
func main() {
	chainName := flag.String("chain", "", "chain to reset (required)")
	skipped := flag.Bool("skipped", false, "also clear the skipped-block lists")
	flag.Parse()

	if config.ChainByName(*chainName) == nil {
		log.Fatalf("unknown chain %q, valids: %v", *chainName, config.ChainNames())
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is required")
	}
	pg, err := store.NewPostgres(dbURL)
	if err != nil {
		log.Fatalf("connect store: %v", err)
	}
	defer pg.Close()
	agg := pg.WithNamespace(store.Aggregates)

	ctx := context.Background()
	patterns := []string{
		*chainName + ":*:MAX_BLOCK_STORED",
		*chainName + ":*:TX_INDEX",
	}
	if *skipped {
		patterns = append(patterns, *chainName+":*:skipped")
	}

	deleted := 0
	for _, pattern := range patterns {
		keys, err := agg.Keys(ctx, pattern)
		if err != nil {
			log.Fatalf("scan %s: %v", pattern, err)
		}
		for _, key := range keys {
			if err := agg.Delete(ctx, key); err != nil {
				log.Fatalf("delete %s: %v", key, err)
			}
			deleted++
		}
	}

	if deleted == 0 {
		fmt.Printf("no cursors found for %s, nothing to do\n", *chainName)
	} else {
		fmt.Printf("deleted %d keys, %s rescans from its start blocks on the next tick\n", deleted, *chainName)
	}
}
