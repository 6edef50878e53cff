package indexer

import (
	"context"
	"math/big"
	"strconv"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"bridgescan/internal/chain"
	"bridgescan/internal/config"
	"bridgescan/internal/decoder"
	"bridgescan/internal/models"
	"bridgescan/internal/store"
)

type fakeChain struct {
	tip    uint64
	times  map[uint64]time.Time
	logs   []types.Log
	inputs map[common.Hash][]byte
	gas    map[common.Hash]chain.GasStats
}

func (f *fakeChain) BlockNumber(context.Context) (uint64, error) { return f.tip, nil }

func (f *fakeChain) BlockTime(_ context.Context, n uint64) (time.Time, error) {
	if t, ok := f.times[n]; ok {
		return t, nil
	}
	return time.Unix(1654041600, 0).UTC(), nil // 2022-06-01
}

func (f *fakeChain) FilterLogs(_ context.Context, address common.Address, _ []common.Hash, from, to uint64) ([]types.Log, error) {
	var out []types.Log
	for _, lg := range f.logs {
		if lg.BlockNumber >= from && lg.BlockNumber <= to && lg.Address == address {
			out = append(out, lg)
		}
	}
	return out, nil
}

func (f *fakeChain) TransactionInput(_ context.Context, h common.Hash) ([]byte, common.Address, error) {
	return f.inputs[h], common.Address{}, nil
}

func (f *fakeChain) TxGasStats(_ context.Context, h common.Hash) (chain.GasStats, error) {
	return f.gas[h], nil
}

func word(v *big.Int) []byte {
	w := make([]byte, 32)
	v.FillBytes(w)
	return w
}

func addressWord(addr string) []byte {
	w := make([]byte, 32)
	copy(w[12:], common.HexToAddress(addr).Bytes())
	return w
}

func concat(words ...[]byte) []byte {
	var out []byte
	for _, w := range words {
		out = append(out, w...)
	}
	return out
}

const (
	nusdPolygon = "0xb6c473756050de474286bed418b77aeac39b02af"
	userAddr    = "0x00000000000000000000000000000000deadbeef"

	topicTokenRedeem = "0xdc5bad4651c5fbe9977a696aadc65996c468cde1448dd468ec0d83bf61c4b57c"
	topicTokenMint   = "0xbf14b9fde87f6e1c29a7e0787ad1d0d64b4648d8ae63da21524d9fd0f283dd38"
)

func redeemLog(polygon *config.Chain, block uint64, txIndex uint, amount *big.Int, toChain int64) types.Log {
	return types.Log{
		Address: common.HexToAddress(polygon.Bridge),
		Topics: []common.Hash{
			common.HexToHash(topicTokenRedeem),
			common.BytesToHash(addressWord(userAddr)),
		},
		Data: concat(
			word(big.NewInt(toChain)),
			addressWord(nusdPolygon),
			word(amount),
		),
		BlockNumber: block,
		TxHash:      common.BigToHash(big.NewInt(int64(block*1000 + uint64(txIndex)))),
		TxIndex:     txIndex,
	}
}

func newTestIndexer(t *testing.T, f *fakeChain) (*Indexer, *store.Memory, *config.Chain) {
	t.Helper()
	polygon := config.ChainByName("polygon")
	mem := store.NewMemory()
	ix := New(polygon, f, mem, decoder.NewTokenRegistry(nil), decoder.NewPoolDecoder())
	return ix, mem, polygon
}

// seedCursor parks the bridge cursor just below the test blocks so the scan
// does not walk the whole history from the deploy block.
func seedCursor(t *testing.T, mem *store.Memory, c *config.Chain, block uint64) {
	t.Helper()
	require.NoError(t, mem.Set(context.Background(),
		models.CursorBlockKey(c.Name, models.NamespaceLogs, c.Bridge),
		strconv.FormatUint(block, 10)))
}

func TestIndexBridgeOutBucket(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	amount, _ := new(big.Int).SetString("1000000000000000000000", 10) // 1000 nUSD
	polygon := config.ChainByName("polygon")
	f := &fakeChain{
		tip:  20_000_010,
		logs: []types.Log{redeemLog(polygon, 20_000_000, 2, amount, 56)},
	}
	ix, mem, _ := newTestIndexer(t, f)
	seedCursor(t, mem, polygon, 19_999_999)

	require.NoError(t, ix.IndexBridge(ctx))

	raw, err := mem.Get(ctx, "polygon:bridge:2022-06-01:"+nusdPolygon+":OUT:56")
	require.NoError(t, err)
	var bucket models.BridgeOutBucket
	require.NoError(t, models.UnmarshalBucket(raw, &bucket))
	require.True(t, bucket.Amount.Equal(decimal.NewFromInt(1000)), "amount = %s", bucket.Amount)
	require.Equal(t, uint64(1), bucket.TxCount)

	// Cursor advanced to the merged event.
	block, txFloor, err := NewAggregator(mem).Cursor(ctx, "polygon", models.NamespaceLogs, polygon.Bridge)
	require.NoError(t, err)
	require.Equal(t, uint64(20_000_000), block)
	require.Equal(t, int64(2), txFloor)

	// First bridge event of the day anchors date2block.
	raw, err = mem.Get(ctx, models.DateAnchorKey("polygon", "2022-06-01"))
	require.NoError(t, err)
	var anchor models.DateAnchor
	require.NoError(t, models.UnmarshalBucket(raw, &anchor))
	require.Equal(t, uint64(20_000_000), anchor.Block)
}

func TestIndexBridgeInBucket(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	polygon := config.ChainByName("polygon")
	txHash := common.BigToHash(big.NewInt(777))
	lg := types.Log{
		Address: common.HexToAddress(polygon.Bridge),
		Topics: []common.Hash{
			common.HexToHash(topicTokenMint),
			common.BytesToHash(addressWord(userAddr)),
		},
		BlockNumber: 20_000_000,
		TxHash:      txHash,
		TxIndex:     0,
	}
	amount := new(big.Int).Mul(big.NewInt(2), big.NewInt(1e18))
	fee := new(big.Int).Mul(big.NewInt(5), new(big.Int).Exp(big.NewInt(10), big.NewInt(16), nil))
	f := &fakeChain{
		tip:  20_000_010,
		logs: []types.Log{lg},
		inputs: map[common.Hash][]byte{
			txHash: append([]byte{0x1c, 0xf5, 0xf0, 0x7f}, concat(
				addressWord(userAddr),
				addressWord(nusdPolygon),
				word(amount),
				word(fee),
			)...),
		},
		gas: map[common.Hash]chain.GasStats{
			txHash: {
				PaidNative:   decimal.RequireFromString("0.004"),
				GasPriceGwei: decimal.NewFromInt(50),
			},
		},
	}
	ix, mem, _ := newTestIndexer(t, f)
	seedCursor(t, mem, polygon, 19_999_999)

	require.NoError(t, ix.IndexBridge(ctx))

	raw, err := mem.Get(ctx, "polygon:bridge:2022-06-01:"+nusdPolygon+":IN")
	require.NoError(t, err)
	var bucket models.BridgeInBucket
	require.NoError(t, models.UnmarshalBucket(raw, &bucket))

	require.True(t, bucket.Amount.Equal(decimal.NewFromInt(2)), "amount = %s", bucket.Amount)
	require.Equal(t, uint64(1), bucket.TxCount)
	require.True(t, bucket.Fees.Equal(decimal.RequireFromString("0.05")), "fees = %s", bucket.Fees)
	// Block 20_000_000 is at or below the 20_335_948 boundary.
	require.True(t, bucket.Airdrops.Equal(decimal.RequireFromString("0.0003")), "airdrops = %s", bucket.Airdrops)
	require.True(t, bucket.Validator.GasPaid.Equal(decimal.RequireFromString("0.004")))
	require.True(t, bucket.Validator.GasPrice.Equal(decimal.NewFromInt(50)))
}

func TestIndexBridgeReplayIsNoop(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	amount, _ := new(big.Int).SetString("1000000000000000000000", 10)
	polygon := config.ChainByName("polygon")
	f := &fakeChain{
		tip:  20_000_010,
		logs: []types.Log{redeemLog(polygon, 20_000_000, 2, amount, 56)},
	}
	ix, mem, _ := newTestIndexer(t, f)
	seedCursor(t, mem, polygon, 19_999_999)

	require.NoError(t, ix.IndexBridge(ctx))
	require.NoError(t, ix.IndexBridge(ctx)) // same window replayed

	raw, err := mem.Get(ctx, "polygon:bridge:2022-06-01:"+nusdPolygon+":OUT:56")
	require.NoError(t, err)
	var bucket models.BridgeOutBucket
	require.NoError(t, models.UnmarshalBucket(raw, &bucket))
	require.True(t, bucket.Amount.Equal(decimal.NewFromInt(1000)), "amount = %s after replay", bucket.Amount)
	require.Equal(t, uint64(1), bucket.TxCount, "tx_count after replay")
}

func TestIndexBridgeOrderingAndAccumulation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	polygon := config.ChainByName("polygon")
	one := big.NewInt(1e18)
	// Deliberately unsorted input.
	f := &fakeChain{
		tip: 20_000_010,
		logs: []types.Log{
			redeemLog(polygon, 20_000_002, 1, one, 56),
			redeemLog(polygon, 20_000_000, 5, one, 56),
			redeemLog(polygon, 20_000_002, 0, one, 56),
			redeemLog(polygon, 20_000_001, 3, one, 56),
		},
	}
	ix, mem, _ := newTestIndexer(t, f)
	seedCursor(t, mem, polygon, 19_999_999)

	require.NoError(t, ix.IndexBridge(ctx))

	raw, err := mem.Get(ctx, "polygon:bridge:2022-06-01:"+nusdPolygon+":OUT:56")
	require.NoError(t, err)
	var bucket models.BridgeOutBucket
	require.NoError(t, models.UnmarshalBucket(raw, &bucket))
	require.True(t, bucket.Amount.Equal(decimal.NewFromInt(4)))
	require.Equal(t, uint64(4), bucket.TxCount)

	// Cursor lands on the highest (block, tx_index); it never decreases.
	block, txFloor, err := NewAggregator(mem).Cursor(ctx, "polygon", models.NamespaceLogs, polygon.Bridge)
	require.NoError(t, err)
	require.Equal(t, uint64(20_000_002), block)
	require.Equal(t, int64(1), txFloor)
}

func TestIndexBridgeUnknownTokenInSkipped(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	polygon := config.ChainByName("polygon")
	txHash := common.BigToHash(big.NewInt(888))
	lg := types.Log{
		Address: common.HexToAddress(polygon.Bridge),
		Topics: []common.Hash{
			common.HexToHash(topicTokenMint),
			common.BytesToHash(addressWord(userAddr)),
		},
		BlockNumber: 20_000_000,
		TxHash:      txHash,
	}
	f := &fakeChain{
		tip:  20_000_010,
		logs: []types.Log{lg},
		inputs: map[common.Hash][]byte{
			txHash: append([]byte{0x1c, 0xf5, 0xf0, 0x7f}, concat(
				addressWord(userAddr),
				addressWord("0x2222222222222222222222222222222222222222"),
				word(big.NewInt(1e18)),
				word(big.NewInt(0)),
			)...),
		},
	}
	ix, mem, _ := newTestIndexer(t, f)
	seedCursor(t, mem, polygon, 19_999_999)

	require.NoError(t, ix.IndexBridge(ctx))

	// No bucket was written for the unknown asset.
	keys, err := mem.Keys(ctx, "polygon:bridge:*")
	require.NoError(t, err)
	require.Empty(t, keys)

	// The cursor still moved past the skipped event, so the next pass does
	// not refetch and re-log it.
	block, err := mem.Get(ctx, models.CursorBlockKey("polygon", models.NamespaceLogs, polygon.Bridge))
	require.NoError(t, err)
	require.Equal(t, "20000000", block)

	require.NoError(t, ix.IndexBridge(ctx))
	keys, err = mem.Keys(ctx, "polygon:bridge:*")
	require.NoError(t, err)
	require.Empty(t, keys)
}

func TestIndexBridgeMalformedLogGoesToSkippedList(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	polygon := config.ChainByName("polygon")
	lg := types.Log{
		Address: common.HexToAddress(polygon.Bridge),
		Topics: []common.Hash{
			common.HexToHash(topicTokenRedeem),
			common.BytesToHash(addressWord(userAddr)),
		},
		Data:        word(big.NewInt(56)), // truncated
		BlockNumber: 20_000_000,
	}
	f := &fakeChain{tip: 20_000_010, logs: []types.Log{lg}}
	ix, mem, _ := newTestIndexer(t, f)
	seedCursor(t, mem, polygon, 19_999_999)

	require.NoError(t, ix.IndexBridge(ctx))

	skipped, err := mem.LRange(ctx, models.SkippedKey("polygon", models.NamespaceLogs))
	require.NoError(t, err)
	require.Equal(t, []string{"20000000"}, skipped)

	block, err := mem.Get(ctx, models.CursorBlockKey("polygon", models.NamespaceLogs, polygon.Bridge))
	require.NoError(t, err)
	require.Equal(t, "20000000", block)

	// Re-running must not record the block twice.
	require.NoError(t, ix.IndexBridge(ctx))
	skipped, err = mem.LRange(ctx, models.SkippedKey("polygon", models.NamespaceLogs))
	require.NoError(t, err)
	require.Equal(t, []string{"20000000"}, skipped)
}
