package decoder

import (
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/shopspring/decimal"

	"bridgescan/internal/config"
	"bridgescan/internal/models"
)

const poolEventsABIJSON = `[
	{"name": "TokenSwap", "type": "event", "inputs": [
		{"name": "buyer", "type": "address", "indexed": true},
		{"name": "tokensSold", "type": "uint256", "indexed": false},
		{"name": "tokensBought", "type": "uint256", "indexed": false},
		{"name": "soldId", "type": "uint128", "indexed": false},
		{"name": "boughtId", "type": "uint128", "indexed": false}
	]},
	{"name": "AddLiquidity", "type": "event", "inputs": [
		{"name": "provider", "type": "address", "indexed": true},
		{"name": "tokenAmounts", "type": "uint256[]", "indexed": false},
		{"name": "fees", "type": "uint256[]", "indexed": false},
		{"name": "invariant", "type": "uint256", "indexed": false},
		{"name": "lpTokenSupply", "type": "uint256", "indexed": false}
	]},
	{"name": "RemoveLiquidityOne", "type": "event", "inputs": [
		{"name": "provider", "type": "address", "indexed": true},
		{"name": "lpTokenAmount", "type": "uint256", "indexed": false},
		{"name": "lpTokenSupply", "type": "uint256", "indexed": false},
		{"name": "boughtId", "type": "uint256", "indexed": false},
		{"name": "tokensBought", "type": "uint256", "indexed": false}
	]},
	{"name": "RemoveLiquidityImbalance", "type": "event", "inputs": [
		{"name": "provider", "type": "address", "indexed": true},
		{"name": "tokenAmounts", "type": "uint256[]", "indexed": false},
		{"name": "fees", "type": "uint256[]", "indexed": false},
		{"name": "invariant", "type": "uint256", "indexed": false},
		{"name": "lpTokenSupply", "type": "uint256", "indexed": false}
	]},
	{"name": "NewSwapFee", "type": "event", "inputs": [
		{"name": "newSwapFee", "type": "uint256", "indexed": false}
	]},
	{"name": "NewAdminFee", "type": "event", "inputs": [
		{"name": "newAdminFee", "type": "uint256", "indexed": false}
	]}
]`

var poolEventsABI = func() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(poolEventsABIJSON))
	if err != nil {
		panic(err)
	}
	return parsed
}()

// PoolDecoder turns pool logs into PoolSwap/PoolFeeChange events. It holds
// the process-local current fee pair per (chain, pool), seeded from the
// static initial fees and corrected by replaying NewSwapFee/NewAdminFee
// from each pool's start block. Derived state, never authoritative.
type PoolDecoder struct {
	mu   sync.Mutex
	fees map[string]config.PoolFees
}

func NewPoolDecoder() *PoolDecoder {
	return &PoolDecoder{fees: map[string]config.PoolFees{}}
}

func (p *PoolDecoder) currentFees(chain string, pool config.PoolKind) config.PoolFees {
	p.mu.Lock()
	defer p.mu.Unlock()
	key := chain + ":" + string(pool)
	f, ok := p.fees[key]
	if !ok {
		f = config.InitialFees(chain, pool)
		p.fees[key] = f
	}
	return f
}

func (p *PoolDecoder) setFee(chain string, pool config.PoolKind, kind string, value uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	key := chain + ":" + string(pool)
	f, ok := p.fees[key]
	if !ok {
		f = config.InitialFees(chain, pool)
	}
	if kind == "swap" {
		f.Swap = value
	} else {
		f.Admin = value
	}
	p.fees[key] = f
}

// Decode parses one pool log. date is the UTC date of the log's block.
// Returns a *models.PoolSwap, a *models.PoolFeeChange, or ErrUnsupported.
func (p *PoolDecoder) Decode(chain *config.Chain, pool config.PoolKind, date string, lg types.Log) (models.Event, error) {
	kind := PoolEventByTopic(lg.Topics[0])
	fees := p.currentFees(chain.Name, pool)

	switch kind {
	case PoolEvNewSwapFee:
		var ev struct{ NewSwapFee *big.Int }
		if err := poolEventsABI.UnpackIntoInterface(&ev, "NewSwapFee", lg.Data); err != nil {
			return nil, fmt.Errorf("%w: NewSwapFee: %v", ErrUnsupported, err)
		}
		p.setFee(chain.Name, pool, "swap", ev.NewSwapFee.Uint64())
		return &models.PoolFeeChange{
			Chain: chain.Name, Date: date, Pool: pool, Kind: "swap",
			NewValue: ev.NewSwapFee.Uint64(),
			Block:    lg.BlockNumber, TxIndex: lg.TxIndex,
		}, nil

	case PoolEvNewAdminFee:
		var ev struct{ NewAdminFee *big.Int }
		if err := poolEventsABI.UnpackIntoInterface(&ev, "NewAdminFee", lg.Data); err != nil {
			return nil, fmt.Errorf("%w: NewAdminFee: %v", ErrUnsupported, err)
		}
		p.setFee(chain.Name, pool, "admin", ev.NewAdminFee.Uint64())
		return &models.PoolFeeChange{
			Chain: chain.Name, Date: date, Pool: pool, Kind: "admin",
			NewValue: ev.NewAdminFee.Uint64(),
			Block:    lg.BlockNumber, TxIndex: lg.TxIndex,
		}, nil

	case PoolEvTokenSwap:
		var ev struct {
			TokensSold   *big.Int
			TokensBought *big.Int
			SoldId       *big.Int
			BoughtId     *big.Int
		}
		if err := poolEventsABI.UnpackIntoInterface(&ev, "TokenSwap", lg.Data); err != nil {
			return nil, fmt.Errorf("%w: TokenSwap: %v", ErrUnsupported, err)
		}
		soldID := int(ev.SoldId.Int64())
		boughtID := int(ev.BoughtId.Int64())
		swap, err := p.boughtSideSwap(chain, pool, date, lg, ev.TokensBought, boughtID, fees)
		if err != nil {
			return nil, err
		}
		// nUSD (or nETH) sits at index 0 on non-Ethereum chains; a swap
		// touching neither side of it is a base swap. Ethereum's pool
		// holds no nUSD at all, so everything there is base.
		if chain.Name == "ethereum" || (soldID > 0 && boughtID > 0) {
			swap.SubKind = models.SubKindSwapBase
		} else {
			swap.SubKind = models.SubKindSwapNUSD
		}
		return swap, nil

	case PoolEvRemoveLiquidityOne:
		var ev struct {
			LpTokenAmount *big.Int
			LpTokenSupply *big.Int
			BoughtId      *big.Int
			TokensBought  *big.Int
		}
		if err := poolEventsABI.UnpackIntoInterface(&ev, "RemoveLiquidityOne", lg.Data); err != nil {
			return nil, fmt.Errorf("%w: RemoveLiquidityOne: %v", ErrUnsupported, err)
		}
		swap, err := p.boughtSideSwap(chain, pool, date, lg, ev.TokensBought, int(ev.BoughtId.Int64()), fees)
		if err != nil {
			return nil, err
		}
		swap.SubKind = models.SubKindAddRemove
		return swap, nil

	case PoolEvAddLiquidity, PoolEvRemoveLiquidityImbalance:
		name := "AddLiquidity"
		if kind == PoolEvRemoveLiquidityImbalance {
			name = "RemoveLiquidityImbalance"
		}
		var ev struct {
			TokenAmounts  []*big.Int
			Fees          []*big.Int
			Invariant     *big.Int
			LpTokenSupply *big.Int
		}
		if err := poolEventsABI.UnpackIntoInterface(&ev, name, lg.Data); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrUnsupported, name, err)
		}
		tokens := config.TokensInPool[chain.Name][pool]
		if len(ev.Fees) > len(tokens) || len(ev.TokenAmounts) > len(tokens) {
			return nil, fmt.Errorf("%w: %s has %d amounts for %d pool tokens",
				ErrUnsupported, name, len(ev.TokenAmounts), len(tokens))
		}
		totalFees := decimal.Zero
		volume := decimal.Zero
		for i, token := range tokens {
			d, ok := config.Decimals(chain.Name, token)
			if !ok {
				return nil, fmt.Errorf("%w: no decimals for pool token %s", ErrUnsupported, token)
			}
			if i < len(ev.Fees) {
				totalFees = totalFees.Add(decimal.NewFromBigInt(ev.Fees[i], -int32(d)))
			}
			if i < len(ev.TokenAmounts) {
				volume = volume.Add(decimal.NewFromBigInt(ev.TokenAmounts[i], -int32(d)))
			}
		}
		adminFees := totalFees.Mul(decimal.NewFromInt(int64(fees.Admin))).Shift(-config.FeeDecimals)
		return &models.PoolSwap{
			Chain: chain.Name, Date: date, Pool: pool,
			SubKind: models.SubKindAddRemove,
			Volume:  volume, LPFees: totalFees.Sub(adminFees), AdminFees: adminFees,
			Block: lg.BlockNumber, TxHash: lg.TxHash.Hex(), TxIndex: lg.TxIndex,
		}, nil
	}
	return nil, fmt.Errorf("%w: unknown pool topic %s", ErrUnsupported, lg.Topics[0])
}

// boughtSideSwap computes the fee split for events whose fee is taken from
// the bought token (TokenSwap, RemoveLiquidityOne).
func (p *PoolDecoder) boughtSideSwap(chain *config.Chain, pool config.PoolKind, date string, lg types.Log, tokensBought *big.Int, boughtID int, fees config.PoolFees) (*models.PoolSwap, error) {
	tokens := config.TokensInPool[chain.Name][pool]
	if boughtID < 0 || boughtID >= len(tokens) {
		return nil, fmt.Errorf("%w: bought index %d outside pool of %d", ErrUnsupported, boughtID, len(tokens))
	}
	d, ok := config.Decimals(chain.Name, tokens[boughtID])
	if !ok {
		return nil, fmt.Errorf("%w: no decimals for pool token %s", ErrUnsupported, tokens[boughtID])
	}

	// total = bought * swap / ((denominator - swap) * 10^d)
	denom := new(big.Int).Mul(
		new(big.Int).SetUint64(config.FeeDenominator-fees.Swap),
		new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(d)), nil),
	)
	totalFees := decimal.NewFromBigInt(tokensBought, 0).
		Mul(decimal.NewFromInt(int64(fees.Swap))).
		Div(decimal.NewFromBigInt(denom, 0))
	adminFees := totalFees.Mul(decimal.NewFromInt(int64(fees.Admin))).Shift(-config.FeeDecimals)

	return &models.PoolSwap{
		Chain: chain.Name, Date: date, Pool: pool,
		Volume:    decimal.NewFromBigInt(tokensBought, -int32(d)),
		LPFees:    totalFees.Sub(adminFees),
		AdminFees: adminFees,
		Block:     lg.BlockNumber, TxHash: lg.TxHash.Hex(), TxIndex: lg.TxIndex,
	}, nil
}
