package indexer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/shopspring/decimal"

	"bridgescan/internal/chain"
	"bridgescan/internal/config"
	"bridgescan/internal/decoder"
	"bridgescan/internal/models"
	"bridgescan/internal/store"
)

// ChainReader is the slice of chain.Client the indexer needs. Tests swap in
// a fake; production passes *chain.Client.
type ChainReader interface {
	BlockNumber(ctx context.Context) (uint64, error)
	BlockTime(ctx context.Context, number uint64) (time.Time, error)
	FilterLogs(ctx context.Context, address common.Address, topics []common.Hash, from, to uint64) ([]types.Log, error)
	TransactionInput(ctx context.Context, hash common.Hash) ([]byte, common.Address, error)
	TxGasStats(ctx context.Context, hash common.Hash) (chain.GasStats, error)
}

// Indexer drives the resumable log scan for one chain. Scanning is strictly
// sequential within a chain; the scheduler fans out one Indexer run per
// chain in parallel.
type Indexer struct {
	chain  *config.Chain
	client ChainReader
	kv     store.KV
	tokens *decoder.TokenRegistry
	pools  *decoder.PoolDecoder
	agg    *Aggregator
}

func New(c *config.Chain, client ChainReader, kv store.KV, tokens *decoder.TokenRegistry, pools *decoder.PoolDecoder) *Indexer {
	return &Indexer{
		chain:  c,
		client: client,
		kv:     kv,
		tokens: tokens,
		pools:  pools,
		agg:    NewAggregator(kv),
	}
}

// IndexBridge scans the bridge contract from the stored cursor to the tip.
func (ix *Indexer) IndexBridge(ctx context.Context) error {
	return ix.scan(ctx, models.NamespaceLogs, ix.chain.Bridge, ix.chain.BridgeStartBlock,
		decoder.BridgeTopicList(), ix.handleBridgeLog)
}

// IndexPools scans whichever pool contracts the chain has.
func (ix *Indexer) IndexPools(ctx context.Context) error {
	if ix.chain.StablePool != "" {
		err := ix.scan(ctx, models.NamespacePool, ix.chain.StablePool, ix.chain.StablePoolStartBlock,
			decoder.PoolTopicList(), ix.poolLogHandler(config.PoolNUSD))
		if err != nil {
			return err
		}
	}
	if ix.chain.EthPool != "" {
		err := ix.scan(ctx, models.NamespacePool, ix.chain.EthPool, ix.chain.EthPoolStartBlock,
			decoder.PoolTopicList(), ix.poolLogHandler(config.PoolNETH))
		if err != nil {
			return err
		}
	}
	return nil
}

type logHandler func(ctx context.Context, ns, address string, lg types.Log, blockTime time.Time) error

// scan walks [cursor, tip] in max_blocks windows, dispatching each log in
// (block, tx_index) order. A window that cannot be fetched aborts the pass
// with the cursor untouched; the next scheduler tick retries.
func (ix *Indexer) scan(ctx context.Context, ns, address string, startBlock uint64, topics []common.Hash, handle logHandler) error {
	cursorBlock, txFloor, err := ix.agg.Cursor(ctx, ix.chain.Name, ns, address)
	if err != nil {
		return err
	}
	from := cursorBlock
	if startBlock > from {
		from = startBlock
	}

	tip, err := ix.client.BlockNumber(ctx)
	if err != nil {
		return fmt.Errorf("[%s] block number: %w", ix.chain.Name, err)
	}
	if from >= tip {
		return nil
	}

	maxBlocks := ix.chain.MaxBlocks
	if maxBlocks == 0 {
		maxBlocks = config.DefaultMaxBlocks
	}

	log.Printf("[%s] scanning %s:%s from %d to tip %d", ix.chain.Name, ns, address, from, tip)
	start := time.Now()

	// Block timestamps repeat heavily within a window; memoize per pass.
	blockTimes := map[uint64]time.Time{}
	blockTime := func(n uint64) (time.Time, error) {
		if t, ok := blockTimes[n]; ok {
			return t, nil
		}
		t, err := ix.client.BlockTime(ctx, n)
		if err != nil {
			return time.Time{}, err
		}
		blockTimes[n] = t
		return t, nil
	}

	addr := common.HexToAddress(address)
	for from < tip {
		to := from + maxBlocks
		if to > tip {
			to = tip
		}

		logs, err := ix.client.FilterLogs(ctx, addr, topics, from, to)
		if err != nil {
			return fmt.Errorf("[%s] get_logs %d-%d: %w", ix.chain.Name, from, to, err)
		}
		sort.SliceStable(logs, func(i, j int) bool {
			if logs[i].BlockNumber != logs[j].BlockNumber {
				return logs[i].BlockNumber < logs[j].BlockNumber
			}
			return logs[i].TxIndex < logs[j].TxIndex
		})

		for _, lg := range logs {
			if lg.BlockNumber < cursorBlock ||
				(lg.BlockNumber == cursorBlock && txFloor >= 0 && int64(lg.TxIndex) <= txFloor) {
				continue
			}
			ts, err := blockTime(lg.BlockNumber)
			if err != nil {
				return fmt.Errorf("[%s] block time %d: %w", ix.chain.Name, lg.BlockNumber, err)
			}
			if err := handle(ctx, ns, address, lg, ts); err != nil {
				return err
			}
		}
		from = to + 1
	}

	log.Printf("[%s] %s:%s pass done in %s", ix.chain.Name, ns, address, time.Since(start).Round(time.Millisecond))
	return nil
}

// handleBridgeLog decodes one bridge log and merges it. Event-level
// failures degrade: unsupported layouts land on the skipped list, unknown
// tokens are dropped per direction policy, and the pass continues.
func (ix *Indexer) handleBridgeLog(ctx context.Context, ns, address string, lg types.Log, blockTime time.Time) error {
	ev := decoder.BridgeEventByTopic(lg.Topics[0])
	if ev == decoder.EvUnknown {
		return nil
	}
	date := models.DateOf(blockTime)

	if ev.Direction() == models.DirOut {
		rec, err := decoder.ParseOutLog(ev, lg)
		if errors.Is(err, decoder.ErrUnsupported) {
			return ix.skip(ctx, ns, address, lg)
		}
		if err != nil {
			return err
		}
		d, ok, err := ix.tokens.Decimals(ctx, ix.chain, rec.Token)
		if err != nil {
			return err
		}
		if !ok {
			// An unsupported bridge attempt by a user; not our volume.
			// The cursor still moves past it or the tail of every scan
			// would refetch this log forever.
			return ix.agg.advanceCursor(ctx, ix.chain.Name, ns, address, lg.BlockNumber, lg.TxIndex)
		}
		return ix.agg.Merge(ctx, &models.BridgeOut{
			Chain:     ix.chain.Name,
			Date:      date,
			Asset:     rec.Token,
			ToChainID: rec.ToChainID,
			Amount:    decimal.NewFromBigInt(rec.Amount, -int32(d)),
			Block:     lg.BlockNumber,
			TxHash:    lg.TxHash.Hex(),
			TxIndex:   lg.TxIndex,
		}, ix.chain.Name, ns, address, blockTime)
	}

	input, _, err := ix.client.TransactionInput(ctx, lg.TxHash)
	if err != nil {
		return fmt.Errorf("[%s] tx input %s: %w", ix.chain.Name, lg.TxHash, err)
	}
	rec, err := decoder.ParseInInput(ev, input)
	if errors.Is(err, decoder.ErrUnsupported) {
		return ix.skip(ctx, ns, address, lg)
	}
	if err != nil {
		return err
	}

	d, ok, err := ix.tokens.Decimals(ctx, ix.chain, rec.Token)
	if err != nil {
		return err
	}
	if !ok {
		// IN events come from the validator and should only carry
		// supported tokens; a miss here is a data-model gap.
		log.Printf("[%s] unknown token %s on IN tx %s, skipping", ix.chain.Name, rec.Token, lg.TxHash)
		return ix.agg.advanceCursor(ctx, ix.chain.Name, ns, address, lg.BlockNumber, lg.TxIndex)
	}

	gas, err := ix.client.TxGasStats(ctx, lg.TxHash)
	if err != nil {
		return fmt.Errorf("[%s] gas stats %s: %w", ix.chain.Name, lg.TxHash, err)
	}

	return ix.agg.Merge(ctx, &models.BridgeIn{
		Chain:    ix.chain.Name,
		Date:     date,
		Asset:    rec.Token,
		Amount:   decimal.NewFromBigInt(rec.Amount, -int32(d)),
		Fee:      decimal.NewFromBigInt(rec.Fee, -18),
		GasPaid:  gas.PaidNative,
		GasPrice: gas.GasPriceGwei,
		Airdrop:  config.AirdropValue(ix.chain.Name, lg.BlockNumber),
		Block:    lg.BlockNumber,
		TxHash:   lg.TxHash.Hex(),
		TxIndex:  lg.TxIndex,
	}, ix.chain.Name, ns, address, blockTime)
}

func (ix *Indexer) poolLogHandler(pool config.PoolKind) logHandler {
	return func(ctx context.Context, ns, address string, lg types.Log, blockTime time.Time) error {
		ev, err := ix.pools.Decode(ix.chain, pool, models.DateOf(blockTime), lg)
		if errors.Is(err, decoder.ErrUnsupported) {
			log.Printf("[%s] skipping pool block %d: %v", ix.chain.Name, lg.BlockNumber, err)
			return ix.skip(ctx, ns, address, lg)
		}
		if err != nil {
			return err
		}
		return ix.agg.Merge(ctx, ev, ix.chain.Name, ns, address, blockTime)
	}
}

func (ix *Indexer) markSkipped(ctx context.Context, ns string, block uint64) error {
	return ix.kv.RPush(ctx, models.SkippedKey(ix.chain.Name, ns), strconv.FormatUint(block, 10))
}

// skip records the block on the skipped list and still advances the cursor
// past the log. Without the advance a skip at the tail of the scan range
// would be refetched and re-recorded on every pass.
func (ix *Indexer) skip(ctx context.Context, ns, address string, lg types.Log) error {
	if err := ix.markSkipped(ctx, ns, lg.BlockNumber); err != nil {
		return err
	}
	return ix.agg.advanceCursor(ctx, ix.chain.Name, ns, address, lg.BlockNumber, lg.TxIndex)
}
