package chain

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// GasStats is what the validator spent relaying one IN transaction,
// in the chain's native token.
type GasStats struct {
	// GasPriceGwei is the effective per-gas price in gwei.
	GasPriceGwei decimal.Decimal
	// PaidNative is the total spend in whole native-token units,
	// including any L1 data fee the rollup charged on top.
	PaidNative decimal.Decimal
}

// rawReceipt carries only the receipt fields gas accounting needs, kept as
// raw hex so L2-specific extensions survive the trip.
type rawReceipt struct {
	GasUsed           string `json:"gasUsed"`
	EffectiveGasPrice string `json:"effectiveGasPrice"`

	// Optimism and Boba attach the L1 data fee.
	L1Fee string `json:"l1Fee"`

	// Arbitrum classic itemizes what was paid per fee category.
	FeeStats *struct {
		Paid map[string]string `json:"paid"`
	} `json:"feeStats"`
}

var (
	weiPerEther = decimal.New(1, 18)
	weiPerGwei  = decimal.New(1, 9)
)

// TxGasStats fetches the raw receipt and computes the validator gas spend.
func (c *Client) TxGasStats(ctx context.Context, hash common.Hash) (GasStats, error) {
	var raw json.RawMessage
	err := withRetry(ctx, func(ctx context.Context) error {
		return c.raw.CallContext(ctx, &raw, "eth_getTransactionReceipt", hash)
	})
	if err != nil {
		return GasStats{}, err
	}
	if len(raw) == 0 || string(raw) == "null" {
		return GasStats{}, fmt.Errorf("receipt %s not found", hash)
	}
	return gasStatsFromReceipt(c.Chain.Name, raw)
}

func gasStatsFromReceipt(chainName string, raw []byte) (GasStats, error) {
	var r rawReceipt
	if err := json.Unmarshal(raw, &r); err != nil {
		return GasStats{}, fmt.Errorf("decode receipt: %w", err)
	}
	gasUsed, err := hexBig(r.GasUsed)
	if err != nil {
		return GasStats{}, fmt.Errorf("gasUsed: %w", err)
	}

	switch chainName {
	case "arbitrum":
		// The classic receipt itemizes payment; the sum is authoritative
		// because the L1 calldata share is not priced per gas.
		if r.FeeStats == nil {
			break
		}
		total := new(big.Int)
		for _, v := range r.FeeStats.Paid {
			n, err := hexBig(v)
			if err != nil {
				return GasStats{}, fmt.Errorf("feeStats.paid: %w", err)
			}
			total.Add(total, n)
		}
		paid := decimal.NewFromBigInt(total, 0)
		price := decimal.Zero
		if gasUsed.Sign() > 0 {
			price = paid.Div(decimal.NewFromBigInt(gasUsed, 0)).Div(weiPerGwei)
		}
		return GasStats{
			GasPriceGwei: price,
			PaidNative:   paid.Div(weiPerEther),
		}, nil

	case "optimism", "boba":
		gasPrice, err := hexBig(r.EffectiveGasPrice)
		if err != nil {
			return GasStats{}, fmt.Errorf("effectiveGasPrice: %w", err)
		}
		l1Fee := new(big.Int)
		if r.L1Fee != "" {
			if l1Fee, err = hexBig(r.L1Fee); err != nil {
				return GasStats{}, fmt.Errorf("l1Fee: %w", err)
			}
		}
		l2 := new(big.Int).Mul(gasUsed, gasPrice)
		paid := decimal.NewFromBigInt(new(big.Int).Add(l2, l1Fee), 0)
		// The effective price folds the L1 data fee back into the L2 gas
		// units, same as the arbitrum path.
		price := decimal.Zero
		if gasUsed.Sign() > 0 {
			price = paid.Div(decimal.NewFromBigInt(gasUsed, 0)).Div(weiPerGwei)
		}
		return GasStats{
			GasPriceGwei: price,
			PaidNative:   paid.Div(weiPerEther),
		}, nil
	}

	gasPrice, err := hexBig(r.EffectiveGasPrice)
	if err != nil {
		return GasStats{}, fmt.Errorf("effectiveGasPrice: %w", err)
	}
	paid := decimal.NewFromBigInt(new(big.Int).Mul(gasUsed, gasPrice), 0)
	return GasStats{
		GasPriceGwei: decimal.NewFromBigInt(gasPrice, 0).Div(weiPerGwei),
		PaidNative:   paid.Div(weiPerEther),
	}, nil
}

func hexBig(s string) (*big.Int, error) {
	if len(s) < 3 || s[0] != '0' || (s[1] != 'x' && s[1] != 'X') {
		return nil, fmt.Errorf("bad hex quantity %q", s)
	}
	n, ok := new(big.Int).SetString(s[2:], 16)
	if !ok {
		return nil, fmt.Errorf("bad hex quantity %q", s)
	}
	return n, nil
}
