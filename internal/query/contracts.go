package query

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"bridgescan/internal/config"
)

func poolAddress(c *config.Chain, kind config.PoolKind) string {
	if kind == config.PoolNETH {
		return c.EthPool
	}
	return c.StablePool
}

func blockKey(block *big.Int) string {
	if block == nil {
		return "latest"
	}
	return block.String()
}

// poolTokens lists every token in the chain's pools, index order preserved
// per pool.
func poolTokens(chainName string) []string {
	var tokens []string
	for _, kind := range []config.PoolKind{config.PoolNUSD, config.PoolNETH} {
		tokens = append(tokens, config.TokensInPool[chainName][kind]...)
	}
	return tokens
}

// AdminFees reads the admin fee balance accrued inside each pool, per
// token, decimalized. block nil means latest.
func (s *Service) AdminFees(ctx context.Context, chainName string, block *big.Int) (map[string]decimal.Decimal, error) {
	c, err := s.chain(chainName)
	if err != nil {
		return nil, err
	}
	caller, err := s.caller(chainName)
	if err != nil {
		return nil, err
	}

	v, err := s.cache.Do("admin_fees:"+chainName+":"+blockKey(block), func() (any, error) {
		res := map[string]decimal.Decimal{}
		for _, kind := range []config.PoolKind{config.PoolNUSD, config.PoolNETH} {
			pool := poolAddress(c, kind)
			if pool == "" {
				continue
			}
			for i, token := range config.TokensInPool[chainName][kind] {
				bal, err := caller.PoolAdminBalance(ctx, common.HexToAddress(pool), uint64(i), block)
				if err != nil {
					return nil, err
				}
				d, ok := config.Decimals(chainName, token)
				if !ok {
					return nil, fmt.Errorf("no decimals for pool token %s on %s", token, chainName)
				}
				res[token] = scaled(bal, d)
			}
		}
		return res, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(map[string]decimal.Decimal), nil
}

// PendingAdminFees reads fees accrued on the bridge contract but not yet
// moved into the pools. tokens nil means every pool token.
func (s *Service) PendingAdminFees(ctx context.Context, chainName string, tokens []string, block *big.Int) (map[string]decimal.Decimal, error) {
	c, err := s.chain(chainName)
	if err != nil {
		return nil, err
	}
	caller, err := s.caller(chainName)
	if err != nil {
		return nil, err
	}
	if tokens == nil {
		tokens = poolTokens(chainName)
	}

	key := "pending_admin_fees:" + chainName + ":" + strings.Join(tokens, ",") + ":" + blockKey(block)
	v, err := s.cache.Do(key, func() (any, error) {
		res := map[string]decimal.Decimal{}
		for _, token := range tokens {
			token, err := s.validToken(chainName, token)
			if err != nil {
				return nil, err
			}
			bal, err := caller.BridgeFeeBalance(ctx, common.HexToAddress(c.Bridge), common.HexToAddress(token), block)
			if err != nil {
				return nil, err
			}
			d, _ := config.Decimals(chainName, token)
			res[token] = scaled(bal, d)
		}
		return res, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(map[string]decimal.Decimal), nil
}

// VirtualPrice reads one pool's virtual price, an 18-decimals fixed point.
func (s *Service) VirtualPrice(ctx context.Context, chainName string, kind config.PoolKind, block *big.Int) (decimal.Decimal, error) {
	c, err := s.chain(chainName)
	if err != nil {
		return decimal.Zero, err
	}
	caller, err := s.caller(chainName)
	if err != nil {
		return decimal.Zero, err
	}
	pool := poolAddress(c, kind)
	if pool == "" {
		return decimal.Zero, &ValidationError{
			Msg: fmt.Sprintf("chain %s has no %s pool", chainName, kind),
		}
	}

	v, err := s.cache.Do(fmt.Sprintf("virtual_price:%s:%s:%s", chainName, kind, blockKey(block)), func() (any, error) {
		price, err := caller.PoolVirtualPrice(ctx, common.HexToAddress(pool), block)
		if err != nil {
			return nil, err
		}
		return scaled(price, 18), nil
	})
	if err != nil {
		return decimal.Zero, err
	}
	return v.(decimal.Decimal), nil
}

// TreasuryEntry is one asset's balance in the treasury view.
type TreasuryEntry struct {
	Amount decimal.Decimal `json:"amount"`
	USD    decimal.Decimal `json:"usd"`
}

// TreasuryBalances reads the treasury's balance in every tracked token
// plus the native token, valued at current prices.
func (s *Service) TreasuryBalances(ctx context.Context, chainName string, block *big.Int) (map[string]TreasuryEntry, error) {
	c, err := s.chain(chainName)
	if err != nil {
		return nil, err
	}
	caller, err := s.caller(chainName)
	if err != nil {
		return nil, err
	}
	if c.Treasury == "" {
		return nil, &ValidationError{Msg: fmt.Sprintf("chain %s has no treasury", chainName)}
	}

	v, err := s.cache.Do("treasury_balances:"+chainName+":"+blockKey(block), func() (any, error) {
		treasury := common.HexToAddress(c.Treasury)

		// Pool tokens plus everything with a price mapping (SYN, WETH
		// and friends live only in the latter).
		tokens := map[string]struct{}{}
		for _, token := range poolTokens(chainName) {
			tokens[token] = struct{}{}
		}
		for token := range config.AddressToCGID[chainName] {
			tokens[token] = struct{}{}
		}

		res := map[string]TreasuryEntry{}
		for token := range tokens {
			d, ok := config.Decimals(chainName, token)
			if !ok {
				continue
			}
			bal, err := caller.TokenBalance(ctx, common.HexToAddress(token), treasury, block)
			if err != nil {
				return nil, err
			}
			amount := scaled(bal, d)
			price, err := s.oracle.GetForAddress(ctx, chainName, token, "")
			if err != nil {
				return nil, err
			}
			res[token] = TreasuryEntry{Amount: amount, USD: amount.Mul(price)}
		}

		native, err := caller.NativeBalance(ctx, treasury, block)
		if err != nil {
			return nil, err
		}
		amount := scaled(native, 18)
		spot, err := s.oracle.GetSpot(ctx, c.NativeCGID)
		if err != nil {
			return nil, err
		}
		res["native"] = TreasuryEntry{Amount: amount, USD: amount.Mul(spot)}
		return res, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(map[string]TreasuryEntry), nil
}

// WarmCaches issues the canonical read set so the first caller after a
// deploy or cache rollover does not pay for the full scan.
func (s *Service) WarmCaches(ctx context.Context) error {
	for _, direction := range []string{"in", "out"} {
		if _, err := s.ChainVolumeTotal(ctx, direction); err != nil {
			return err
		}
		if _, err := s.ChainTxCountTotal(ctx, direction); err != nil {
			return err
		}
		for _, chainName := range config.ChainNames() {
			if _, err := s.ChainVolume(ctx, chainName, direction); err != nil {
				return err
			}
			if _, err := s.BridgeChart(ctx, chainName, direction); err != nil {
				return err
			}
		}
	}
	for _, chainName := range config.ChainNames() {
		if _, err := s.ValidatorGasFees(ctx, chainName, ""); err != nil {
			return err
		}
		if _, err := s.AirdropAmounts(ctx, chainName, ""); err != nil {
			return err
		}
	}
	return nil
}
