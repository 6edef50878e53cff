package indexer

import (
	"context"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"
)

// RunAll runs one indexing pass per chain in parallel, so a slow RPC on
// one chain does not hold up the others. Scanning stays sequential within
// a chain. Failures are logged per chain and the first one is returned
// after every chain has finished.
func RunAll(ctx context.Context, runs map[string]func(context.Context) error) error {
	var g errgroup.Group
	for name, run := range runs {
		g.Go(func() error {
			if err := run(ctx); err != nil {
				log.Printf("[%s] index: %v", name, err)
				return fmt.Errorf("%s: %w", name, err)
			}
			return nil
		})
	}
	return g.Wait()
}
