package config

// Pool fee arithmetic. On-chain fees are fixed-point integers over
// FeeDenominator; dividing by 10^FeeDecimals recovers the fraction.
const (
	FeeDenominator = 10_000_000_000 // 10^10
	FeeDecimals    = 10
)

// PoolFees is an admin/swap fee pair as raw on-chain integers.
type PoolFees struct {
	Admin uint64
	Swap  uint64
}

// DefaultPoolFees applies to every pool that never emitted a fee-change
// event before its scan start.
var DefaultPoolFees = PoolFees{Admin: 6_000_000_000, Swap: 4_000_000}

// InitialPoolFees overrides DefaultPoolFees for pools deployed with
// different parameters.
var InitialPoolFees = map[string]map[PoolKind]PoolFees{
	"ethereum": {
		PoolNUSD: {Admin: 0, Swap: 4_000_000},
	},
}

// InitialFees returns the fee pair a pool starts from.
func InitialFees(chain string, kind PoolKind) PoolFees {
	if m, ok := InitialPoolFees[chain]; ok {
		if f, ok := m[kind]; ok {
			return f
		}
	}
	return DefaultPoolFees
}
