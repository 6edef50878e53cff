package decoder

import (
	"context"
	"testing"

	"bridgescan/internal/config"
)

type fakeLookup struct {
	decimals map[string]int
	calls    int
}

func (f *fakeLookup) LookupDecimals(_ context.Context, token string, _ uint64) (int, bool, error) {
	f.calls++
	d, ok := f.decimals[token]
	return d, ok, nil
}

func TestTokenRegistryStaticHit(t *testing.T) {
	t.Parallel()

	lookup := &fakeLookup{}
	reg := NewTokenRegistry(lookup)
	eth := config.ChainByName("ethereum")

	d, ok, err := reg.Decimals(context.Background(), eth, "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48")
	if err != nil || !ok || d != 6 {
		t.Fatalf("USDC = %d, %v, %v", d, ok, err)
	}
	if lookup.calls != 0 {
		t.Fatal("static hit should not reach the registry contract")
	}
}

func TestTokenRegistryLearnsAndMemoizes(t *testing.T) {
	t.Parallel()

	unknown := "0x1111111111111111111111111111111111111111"
	lookup := &fakeLookup{decimals: map[string]int{unknown: 8}}
	reg := NewTokenRegistry(lookup)
	eth := config.ChainByName("ethereum")
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		d, ok, err := reg.Decimals(ctx, eth, unknown)
		if err != nil || !ok || d != 8 {
			t.Fatalf("learned = %d, %v, %v", d, ok, err)
		}
	}
	if lookup.calls != 1 {
		t.Fatalf("registry calls = %d, want 1 (memoized)", lookup.calls)
	}
}

func TestTokenRegistryNegativeCache(t *testing.T) {
	t.Parallel()

	lookup := &fakeLookup{}
	reg := NewTokenRegistry(lookup)
	eth := config.ChainByName("ethereum")
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, ok, err := reg.Decimals(ctx, eth, "0xdead000000000000000000000000000000000000"); ok || err != nil {
			t.Fatalf("unknown token resolved: %v %v", ok, err)
		}
	}
	if lookup.calls != 1 {
		t.Fatalf("registry calls = %d, want 1 (miss memoized)", lookup.calls)
	}
}
