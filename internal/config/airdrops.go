package config

import "github.com/shopspring/decimal"

// AirdropRange maps an inclusive block interval to the gas airdrop the
// validator attaches to an IN transaction, in whole native-token units.
// A nil bound leaves that side of the interval open.
type AirdropRange struct {
	From  *uint64
	To    *uint64
	Value decimal.Decimal
}

func blockptr(b uint64) *uint64 { return &b }

// Airdrops holds each chain's airdrop schedule. Chains absent here never
// airdropped, which reads as a constant zero.
var Airdrops = map[string][]AirdropRange{
	"avalanche": {
		{To: blockptr(7161699), Value: decimal.RequireFromString("0.05")},
		{From: blockptr(7161700), Value: decimal.RequireFromString("0.025")},
	},
	"bsc": {
		{To: blockptr(12038425), Value: decimal.RequireFromString("0.001")},
		{From: blockptr(12038426), Value: decimal.RequireFromString("0.002")},
	},
	"polygon": {
		{To: blockptr(20335948), Value: decimal.RequireFromString("0.0003")},
		{From: blockptr(20335949), Value: decimal.RequireFromString("0.02")},
	},
	"arbitrum": {
		{To: blockptr(3446138), Value: decimal.Zero},
		{From: blockptr(3446139), Value: decimal.RequireFromString("0.003")},
	},
	"optimism": {
		{To: blockptr(967022), Value: decimal.Zero},
		{From: blockptr(967023), Value: decimal.RequireFromString("0.002")},
	},
	"fantom":    {{Value: decimal.RequireFromString("0.4")}},
	"harmony":   {{Value: decimal.RequireFromString("0.1")}},
	"boba":      {{Value: decimal.RequireFromString("0.005")}},
	"moonriver": {{Value: decimal.RequireFromString("0.002")}},
}

// AirdropValue returns the airdrop in effect at the given block. Chains
// without a schedule return zero.
func AirdropValue(chain string, block uint64) decimal.Decimal {
	for _, r := range Airdrops[chain] {
		if r.From != nil && block < *r.From {
			continue
		}
		if r.To != nil && block > *r.To {
			continue
		}
		return r.Value
	}
	return decimal.Zero
}
