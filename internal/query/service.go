package query

import (
	"context"
	"fmt"
	"math/big"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"bridgescan/internal/config"
	"bridgescan/internal/models"
	"bridgescan/internal/prices"
	"bridgescan/internal/store"
)

// ContractCaller is the slice of chain.Client the query views call into.
type ContractCaller interface {
	BlockNumber(ctx context.Context) (uint64, error)
	PoolAdminBalance(ctx context.Context, pool common.Address, index uint64, block *big.Int) (*big.Int, error)
	PoolVirtualPrice(ctx context.Context, pool common.Address, block *big.Int) (*big.Int, error)
	TokenBalance(ctx context.Context, token, owner common.Address, block *big.Int) (*big.Int, error)
	BridgeFeeBalance(ctx context.Context, bridge, token common.Address, block *big.Int) (*big.Int, error)
	NativeBalance(ctx context.Context, owner common.Address, block *big.Int) (*big.Int, error)
}

// ValidationError is a caller mistake: unknown chain, token, direction or
// date. The HTTP layer renders it as a 400 with the valid choices.
type ValidationError struct {
	Msg    string
	Valids []string
}

func (e *ValidationError) Error() string { return e.Msg }

// Service answers the read-only analytics views over the aggregate store,
// the price oracle and per-chain contract calls.
type Service struct {
	agg     store.KV
	oracle  *prices.Oracle
	callers map[string]ContractCaller
	cache   *Cache
}

func New(agg store.KV, oracle *prices.Oracle, callers map[string]ContractCaller) *Service {
	return &Service{
		agg:     agg,
		oracle:  oracle,
		callers: callers,
		cache:   NewCache(5 * time.Minute),
	}
}

func (s *Service) chain(name string) (*config.Chain, error) {
	c := config.ChainByName(name)
	if c == nil {
		return nil, &ValidationError{
			Msg:    fmt.Sprintf("invalid chain: %s", name),
			Valids: config.ChainNames(),
		}
	}
	return c, nil
}

func (s *Service) caller(name string) (ContractCaller, error) {
	caller, ok := s.callers[name]
	if !ok {
		valids := make([]string, 0, len(s.callers))
		for n := range s.callers {
			valids = append(valids, n)
		}
		sort.Strings(valids)
		return nil, &ValidationError{
			Msg:    fmt.Sprintf("no RPC configured for chain: %s", name),
			Valids: valids,
		}
	}
	return caller, nil
}

func parseDirection(raw string) (models.Direction, error) {
	d := models.Direction(strings.ToUpper(raw))
	if !d.Valid() {
		return "", &ValidationError{
			Msg:    "invalid direction",
			Valids: []string{"in", "out"},
		}
	}
	return d, nil
}

func (s *Service) validToken(chain, token string) (string, error) {
	token = strings.ToLower(token)
	if _, ok := config.Decimals(chain, token); !ok {
		valids := make([]string, 0, len(config.TokenDecimals[chain]))
		for addr := range config.TokenDecimals[chain] {
			valids = append(valids, addr)
		}
		sort.Strings(valids)
		return "", &ValidationError{
			Msg:    fmt.Sprintf("invalid token: %s", token),
			Valids: valids,
		}
	}
	return token, nil
}

// SyncStatus is one chain's indexing progress in the syncing view.
type SyncStatus struct {
	Current     uint64 `json:"current"`
	BlockHeight uint64 `json:"blockheight"`
}

// Syncing reports the highest stored cursor per chain against the live
// chain head, for every chain with an RPC configured.
func (s *Service) Syncing(ctx context.Context) (map[string]SyncStatus, error) {
	keys, err := s.agg.Keys(ctx, "*MAX_BLOCK_STORED")
	if err != nil {
		return nil, err
	}

	// A chain has one cursor per scanned contract; report the max.
	current := map[string]uint64{}
	for _, key := range keys {
		chainName, _, _ := strings.Cut(key, ":")
		raw, err := s.agg.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		block, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("corrupt cursor %s: %w", key, err)
		}
		if block > current[chainName] {
			current[chainName] = block
		}
	}

	res := map[string]SyncStatus{}
	for chainName, caller := range s.callers {
		tip, err := caller.BlockNumber(ctx)
		if err != nil {
			return nil, err
		}
		res[chainName] = SyncStatus{Current: current[chainName], BlockHeight: tip}
	}
	return res, nil
}

// DateToBlock returns the first bridge block anchored to a date, or nil
// when no bridge event has been indexed for that day yet.
func (s *Service) DateToBlock(ctx context.Context, chainName, date string) (map[string]*models.DateAnchor, error) {
	if _, err := s.chain(chainName); err != nil {
		return nil, err
	}
	if _, err := time.Parse(models.DateFormat, date); err != nil {
		return nil, &ValidationError{Msg: fmt.Sprintf("invalid date: %s", date)}
	}

	raw, err := s.agg.Get(ctx, models.DateAnchorKey(chainName, date))
	if err == store.ErrNotFound {
		return map[string]*models.DateAnchor{date: nil}, nil
	}
	if err != nil {
		return nil, err
	}
	var anchor models.DateAnchor
	if err := models.UnmarshalBucket(raw, &anchor); err != nil {
		return nil, err
	}
	return map[string]*models.DateAnchor{date: &anchor}, nil
}

func scaled(x *big.Int, decimals int) decimal.Decimal {
	return decimal.NewFromBigInt(x, -int32(decimals))
}
