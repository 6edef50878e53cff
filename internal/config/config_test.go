package config

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestAirdropValueBoundaries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		chain string
		block uint64
		want  string
	}{
		{"polygon", 0, "0.0003"},
		{"polygon", 20335948, "0.0003"},
		{"polygon", 20335949, "0.02"},
		{"polygon", 99999999, "0.02"},
		{"fantom", 1, "0.4"},
		{"fantom", 50000000, "0.4"},
		{"harmony", 123, "0.1"},
		{"avalanche", 7161699, "0.05"},
		{"avalanche", 7161700, "0.025"},
		{"ethereum", 14000000, "0"},
		{"aurora", 60000000, "0"},
	}

	for _, tt := range tests {
		got := AirdropValue(tt.chain, tt.block)
		if !got.Equal(decimal.RequireFromString(tt.want)) {
			t.Errorf("AirdropValue(%s, %d) = %s, want %s", tt.chain, tt.block, got, tt.want)
		}
	}
}

func TestRateLimitConfig(t *testing.T) {
	cfg := Default()
	if cfg.RateLimitRPS != 10 || cfg.RateLimitBurst != 20 {
		t.Fatalf("defaults = %g rps, burst %d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}

	t.Setenv("API_RATE_LIMIT_RPS", "2.5")
	t.Setenv("API_RATE_LIMIT_BURST", "5")
	cfg.ApplyEnv()
	if cfg.RateLimitRPS != 2.5 {
		t.Errorf("rps = %g, want 2.5", cfg.RateLimitRPS)
	}
	if cfg.RateLimitBurst != 5 {
		t.Errorf("burst = %d, want 5", cfg.RateLimitBurst)
	}
}

func TestChainLookups(t *testing.T) {
	t.Parallel()

	if c := ChainByName("polygon"); c == nil || c.ChainID != 137 {
		t.Fatalf("ChainByName(polygon) = %+v", c)
	}
	if c := ChainByID(42161); c == nil || c.Name != "arbitrum" {
		t.Fatalf("ChainByID(42161) = %+v", c)
	}
	if c := ChainByName("solana"); c != nil {
		t.Fatalf("ChainByName(solana) = %+v, want nil", c)
	}
	if len(ChainNames()) != len(Chains) {
		t.Fatal("ChainNames length mismatch")
	}
}

func TestPoolByAddress(t *testing.T) {
	t.Parallel()

	avax := ChainByName("avalanche")
	if kind, ok := PoolByAddress(avax, avax.StablePool); !ok || kind != PoolNUSD {
		t.Fatalf("stable pool lookup: %v %v", kind, ok)
	}
	if kind, ok := PoolByAddress(avax, avax.EthPool); !ok || kind != PoolNETH {
		t.Fatalf("eth pool lookup: %v %v", kind, ok)
	}
	if _, ok := PoolByAddress(avax, "0x0000000000000000000000000000000000000001"); ok {
		t.Fatal("unknown address should not resolve")
	}
}

func TestInitialFees(t *testing.T) {
	t.Parallel()

	f := InitialFees("ethereum", PoolNUSD)
	if f.Admin != 0 || f.Swap != 4_000_000 {
		t.Fatalf("ethereum nusd fees = %+v", f)
	}
	f = InitialFees("bsc", PoolNUSD)
	if f != DefaultPoolFees {
		t.Fatalf("bsc nusd fees = %+v, want defaults", f)
	}
}

func TestDecimalsLookup(t *testing.T) {
	t.Parallel()

	if d, ok := Decimals("ethereum", "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"); !ok || d != 6 {
		t.Fatalf("USDC decimals = %d %v", d, ok)
	}
	if _, ok := Decimals("ethereum", "0xdead000000000000000000000000000000000000"); ok {
		t.Fatal("unknown token should miss")
	}
}
