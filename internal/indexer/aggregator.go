package indexer

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"bridgescan/internal/models"
	"bridgescan/internal/store"
)

// Aggregator folds canonical events into daily buckets and advances the
// per-contract cursor. Merging is a read-modify-write per key; correctness
// rests on the indexer feeding events in (block, tx_index) order and
// filtering everything at or below the stored cursor.
type Aggregator struct {
	kv store.KV
}

func NewAggregator(kv store.KV) *Aggregator {
	return &Aggregator{kv: kv}
}

// Merge applies one event, writes the date anchor for bridge events, and
// advances the cursor for (chain, ns, address) to the event's position.
func (a *Aggregator) Merge(ctx context.Context, ev models.Event, chainName, ns, address string, blockTime time.Time) error {
	key := ev.BucketKey()

	switch e := ev.(type) {
	case *models.BridgeOut:
		var bucket models.BridgeOutBucket
		if err := a.readBucket(ctx, key, &bucket); err != nil {
			return err
		}
		bucket.Merge(e)
		if err := a.writeBucket(ctx, key, &bucket); err != nil {
			return err
		}
		if err := a.writeDateAnchor(ctx, e.Chain, e.Date, e.Block, blockTime); err != nil {
			return err
		}

	case *models.BridgeIn:
		var bucket models.BridgeInBucket
		if err := a.readBucket(ctx, key, &bucket); err != nil {
			return err
		}
		bucket.Merge(e)
		if err := a.writeBucket(ctx, key, &bucket); err != nil {
			return err
		}
		if err := a.writeDateAnchor(ctx, e.Chain, e.Date, e.Block, blockTime); err != nil {
			return err
		}

	case *models.PoolSwap:
		var bucket models.PoolBucket
		if err := a.readBucket(ctx, key, &bucket); err != nil {
			return err
		}
		bucket.Merge(e)
		if err := a.writeBucket(ctx, key, &bucket); err != nil {
			return err
		}

	case *models.PoolFeeChange:
		// Fee changes do not accumulate; the day's last write wins.
		if err := a.kv.Set(ctx, key, strconv.FormatUint(e.NewValue, 10)); err != nil {
			return err
		}

	default:
		return fmt.Errorf("aggregator: unknown event type %T", ev)
	}

	block, txIndex := ev.Position()
	return a.advanceCursor(ctx, chainName, ns, address, block, txIndex)
}

func (a *Aggregator) readBucket(ctx context.Context, key string, v any) error {
	raw, err := a.kv.Get(ctx, key)
	if err == store.ErrNotFound {
		return nil
	}
	if err != nil {
		return err
	}
	return models.UnmarshalBucket(raw, v)
}

func (a *Aggregator) writeBucket(ctx context.Context, key string, v any) error {
	raw, err := models.MarshalBucket(v)
	if err != nil {
		return err
	}
	return a.kv.Set(ctx, key, raw)
}

// writeDateAnchor records the first bridge block seen on a date. setnx
// keeps it first-writer-wins across workers.
func (a *Aggregator) writeDateAnchor(ctx context.Context, chainName, date string, block uint64, blockTime time.Time) error {
	raw, err := models.MarshalBucket(&models.DateAnchor{
		Block:     block,
		Timestamp: blockTime.UTC().Unix(),
	})
	if err != nil {
		return err
	}
	_, err = a.kv.SetNX(ctx, models.DateAnchorKey(chainName, date), raw)
	return err
}

func (a *Aggregator) advanceCursor(ctx context.Context, chainName, ns, address string, block uint64, txIndex uint) error {
	if err := a.kv.Set(ctx, models.CursorBlockKey(chainName, ns, address),
		strconv.FormatUint(block, 10)); err != nil {
		return err
	}
	return a.kv.Set(ctx, models.CursorTxIndexKey(chainName, ns, address),
		strconv.FormatUint(uint64(txIndex), 10))
}

// Cursor reads the stored cursor for (chain, ns, address). txFloor is -1
// when no TX_INDEX was stored.
func (a *Aggregator) Cursor(ctx context.Context, chainName, ns, address string) (block uint64, txFloor int64, err error) {
	raw, err := a.kv.Get(ctx, models.CursorBlockKey(chainName, ns, address))
	if err == store.ErrNotFound {
		return 0, -1, nil
	}
	if err != nil {
		return 0, -1, err
	}
	block, err = strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, -1, fmt.Errorf("corrupt cursor for %s:%s:%s: %w", chainName, ns, address, err)
	}

	raw, err = a.kv.Get(ctx, models.CursorTxIndexKey(chainName, ns, address))
	if err == store.ErrNotFound {
		return block, -1, nil
	}
	if err != nil {
		return 0, -1, err
	}
	txFloor, err = strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, -1, fmt.Errorf("corrupt tx-index cursor for %s:%s:%s: %w", chainName, ns, address, err)
	}
	return block, txFloor, nil
}
