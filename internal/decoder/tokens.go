package decoder

import (
	"context"
	"strings"
	"sync"

	"bridgescan/internal/config"
)

// ConfigLookup resolves tokens the static table does not know, via the
// bridge-config registry contract on Ethereum.
type ConfigLookup interface {
	// LookupDecimals returns the token's decimals on the given chain.
	// ok is false when the registry does not know the token either.
	LookupDecimals(ctx context.Context, token string, chainID uint64) (decimals int, ok bool, err error)
}

// TokenRegistry answers (chain, address) → decimals, seeded from the static
// table and lazily extended through the bridge-config registry. Learned
// tokens are memoized for the life of the process, including negative
// results so a dead token does not hammer the registry.
type TokenRegistry struct {
	lookup ConfigLookup

	mu      sync.Mutex
	learned map[string]int
	misses  map[string]struct{}
}

func NewTokenRegistry(lookup ConfigLookup) *TokenRegistry {
	return &TokenRegistry{
		lookup:  lookup,
		learned: map[string]int{},
		misses:  map[string]struct{}{},
	}
}

func tokenKey(chain, address string) string {
	return chain + ":" + strings.ToLower(address)
}

// Decimals resolves a token's decimals, consulting the registry contract on
// a static-table miss. ok is false only when both sources miss.
func (r *TokenRegistry) Decimals(ctx context.Context, chain *config.Chain, address string) (int, bool, error) {
	address = strings.ToLower(address)
	if d, ok := config.Decimals(chain.Name, address); ok {
		return d, true, nil
	}

	key := tokenKey(chain.Name, address)
	r.mu.Lock()
	if d, ok := r.learned[key]; ok {
		r.mu.Unlock()
		return d, true, nil
	}
	if _, missed := r.misses[key]; missed {
		r.mu.Unlock()
		return 0, false, nil
	}
	r.mu.Unlock()

	if r.lookup == nil {
		return 0, false, nil
	}
	d, ok, err := r.lookup.LookupDecimals(ctx, address, chain.ChainID)
	if err != nil {
		return 0, false, err
	}

	r.mu.Lock()
	if ok {
		r.learned[key] = d
	} else {
		r.misses[key] = struct{}{}
	}
	r.mu.Unlock()
	return d, ok, nil
}
