package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"

	"bridgescan/internal/config"
)

const (
	callTimeout    = 30 * time.Second
	retryAttempts  = 5
	retryBaseDelay = 500 * time.Millisecond
	retryMaxDelay  = 5 * time.Second
)

// Client wraps one chain's JSON-RPC endpoint. The typed ethclient handles
// logs and calls; the raw rpc.Client reads receipts and blocks whose L2 or
// PoA extensions the typed decoder rejects.
type Client struct {
	Chain *config.Chain

	eth *ethclient.Client
	raw *rpc.Client
}

// Dial connects to the chain's endpoint.
func Dial(ctx context.Context, chain *config.Chain, url string) (*Client, error) {
	raw, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", chain.Name, err)
	}
	return &Client{Chain: chain, eth: ethclient.NewClient(raw), raw: raw}, nil
}

func (c *Client) Close() {
	c.raw.Close()
}

// withRetry runs fn up to retryAttempts times with doubling backoff capped
// at retryMaxDelay. Context cancellation stops the retries.
func withRetry(ctx context.Context, fn func(context.Context) error) error {
	delay := retryBaseDelay
	var err error
	for attempt := 0; attempt < retryAttempts; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, callTimeout)
		err = fn(callCtx)
		cancel()
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		delay *= 2
		if delay > retryMaxDelay {
			delay = retryMaxDelay
		}
	}
	return err
}

// BlockNumber returns the chain head.
func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	var n uint64
	err := withRetry(ctx, func(ctx context.Context) error {
		var err error
		n, err = c.eth.BlockNumber(ctx)
		return err
	})
	return n, err
}

// BlockTime returns a block's timestamp. PoA chains ship headers the typed
// decoder can reject, so those go through the raw client.
func (c *Client) BlockTime(ctx context.Context, number uint64) (time.Time, error) {
	if c.Chain.NeedsPoA {
		return c.blockTimeRaw(ctx, number)
	}
	var header *types.Header
	err := withRetry(ctx, func(ctx context.Context) error {
		var err error
		header, err = c.eth.HeaderByNumber(ctx, new(big.Int).SetUint64(number))
		return err
	})
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(int64(header.Time), 0).UTC(), nil
}

func (c *Client) blockTimeRaw(ctx context.Context, number uint64) (time.Time, error) {
	var block struct {
		Timestamp string `json:"timestamp"`
	}
	err := withRetry(ctx, func(ctx context.Context) error {
		return c.raw.CallContext(ctx, &block, "eth_getBlockByNumber",
			"0x"+strconv.FormatUint(number, 16), false)
	})
	if err != nil {
		return time.Time{}, err
	}
	ts, err := hexUint64(block.Timestamp)
	if err != nil {
		return time.Time{}, fmt.Errorf("block %d timestamp: %w", number, err)
	}
	return time.Unix(int64(ts), 0).UTC(), nil
}

// FilterLogs fetches logs for one contract over [from, to] filtered by the
// given topic0 set. Callers are responsible for honoring MaxBlocks.
func (c *Client) FilterLogs(ctx context.Context, address common.Address, topics []common.Hash, from, to uint64) ([]types.Log, error) {
	q := ethereum.FilterQuery{
		FromBlock: new(big.Int).SetUint64(from),
		ToBlock:   new(big.Int).SetUint64(to),
		Addresses: []common.Address{address},
	}
	if len(topics) > 0 {
		q.Topics = [][]common.Hash{topics}
	}
	var logs []types.Log
	err := withRetry(ctx, func(ctx context.Context) error {
		var err error
		logs, err = c.eth.FilterLogs(ctx, q)
		return err
	})
	return logs, err
}

// TransactionInput returns a transaction's calldata and sender.
func (c *Client) TransactionInput(ctx context.Context, hash common.Hash) ([]byte, common.Address, error) {
	var tx struct {
		Input string `json:"input"`
		From  string `json:"from"`
	}
	err := withRetry(ctx, func(ctx context.Context) error {
		return c.raw.CallContext(ctx, &tx, "eth_getTransactionByHash", hash)
	})
	if err != nil {
		return nil, common.Address{}, err
	}
	if tx.Input == "" {
		return nil, common.Address{}, fmt.Errorf("transaction %s not found", hash)
	}
	return common.FromHex(tx.Input), common.HexToAddress(tx.From), nil
}

// ErrNotDeployed marks an eth_call against a block where the target
// contract did not exist yet. The query layer maps it to a 400.
var ErrNotDeployed = errors.New("contract not deployed at block")

// CallContract does an eth_call. block nil means latest. An empty return
// from a block before the contract existed surfaces as ErrNotDeployed.
func (c *Client) CallContract(ctx context.Context, to common.Address, data []byte, block *big.Int) ([]byte, error) {
	var out []byte
	err := withRetry(ctx, func(ctx context.Context) error {
		var err error
		out, err = c.eth.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, block)
		return err
	})
	if err != nil {
		if strings.Contains(err.Error(), "execution reverted") {
			return nil, fmt.Errorf("%w: %s", ErrNotDeployed, to)
		}
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotDeployed, to)
	}
	return out, nil
}

func hexUint64(s string) (uint64, error) {
	s = strings.TrimPrefix(s, "0x")
	if s == "" {
		return 0, fmt.Errorf("empty hex quantity")
	}
	return strconv.ParseUint(s, 16, 64)
}
