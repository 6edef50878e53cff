package decoder

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"bridgescan/internal/config"
	"bridgescan/internal/models"
)

func poolTopicFor(kind PoolEventKind) common.Hash {
	for h, k := range poolTopics {
		if k == kind {
			return h
		}
	}
	return common.Hash{}
}

func packPoolEvent(t *testing.T, name string, args ...any) []byte {
	t.Helper()
	data, err := poolEventsABI.Events[name].Inputs.NonIndexed().Pack(args...)
	require.NoError(t, err)
	return data
}

func TestTokenSwapBaseFeeMath(t *testing.T) {
	t.Parallel()

	// USDT bought on the Ethereum stable pool: 1000 USDC sold, swap fee
	// 4e6, admin fee 0 there.
	eth := config.ChainByName("ethereum")
	p := NewPoolDecoder()

	lg := types.Log{
		Topics: []common.Hash{poolTopicFor(PoolEvTokenSwap), common.BytesToHash(addressWord(userAddr))},
		Data: packPoolEvent(t, "TokenSwap",
			big.NewInt(1_000_000_000), // tokensSold
			big.NewInt(1_000_000_000), // tokensBought
			big.NewInt(1),             // soldId
			big.NewInt(2),             // boughtId -> USDT, 6 decimals
		),
		BlockNumber: 14_000_000,
		TxIndex:     3,
	}

	ev, err := p.Decode(eth, config.PoolNUSD, "2022-06-01", lg)
	require.NoError(t, err)
	swap, ok := ev.(*models.PoolSwap)
	require.True(t, ok)

	require.Equal(t, models.SubKindSwapBase, swap.SubKind)
	require.True(t, swap.Volume.Equal(decimal.NewFromInt(1000)), "volume = %s", swap.Volume)
	require.True(t, swap.AdminFees.IsZero(), "admin fees = %s", swap.AdminFees)

	// total = 1e9 * 4e6 / ((1e10 - 4e6) * 1e6) ~= 0.0004
	want := decimal.RequireFromString("0.00040016")
	require.True(t, swap.LPFees.Round(8).Equal(want), "lp fees = %s", swap.LPFees)
}

func TestTokenSwapSubKindNUSD(t *testing.T) {
	t.Parallel()

	avax := config.ChainByName("avalanche")
	p := NewPoolDecoder()

	lg := types.Log{
		Topics: []common.Hash{poolTopicFor(PoolEvTokenSwap), common.BytesToHash(addressWord(userAddr))},
		Data: packPoolEvent(t, "TokenSwap",
			big.NewInt(1e18),          // nUSD sold (index 0)
			big.NewInt(1_000_000_000), // boughtId 2 -> USDC.e, 6 decimals
			big.NewInt(0),
			big.NewInt(2),
		),
		BlockNumber: 7_000_000,
	}
	ev, err := p.Decode(avax, config.PoolNUSD, "2022-06-01", lg)
	require.NoError(t, err)
	swap := ev.(*models.PoolSwap)
	require.Equal(t, models.SubKindSwapNUSD, swap.SubKind)

	// Both sides off index 0 makes it a base swap.
	lg.Data = packPoolEvent(t, "TokenSwap",
		big.NewInt(1_000_000_000),
		big.NewInt(1_000_000_000),
		big.NewInt(1),
		big.NewInt(2),
	)
	ev, err = p.Decode(avax, config.PoolNUSD, "2022-06-01", lg)
	require.NoError(t, err)
	require.Equal(t, models.SubKindSwapBase, ev.(*models.PoolSwap).SubKind)
}

func TestNewFeeEventsUpdateState(t *testing.T) {
	t.Parallel()

	bsc := config.ChainByName("bsc")
	p := NewPoolDecoder()

	require.Equal(t, config.DefaultPoolFees, p.currentFees("bsc", config.PoolNUSD))

	lg := types.Log{
		Topics:      []common.Hash{poolTopicFor(PoolEvNewAdminFee)},
		Data:        packPoolEvent(t, "NewAdminFee", big.NewInt(8_000_000_000)),
		BlockNumber: 12_500_000,
		TxIndex:     1,
	}
	ev, err := p.Decode(bsc, config.PoolNUSD, "2022-03-01", lg)
	require.NoError(t, err)
	change, ok := ev.(*models.PoolFeeChange)
	require.True(t, ok)
	require.Equal(t, "admin", change.Kind)
	require.Equal(t, uint64(8_000_000_000), change.NewValue)
	require.Equal(t, "bsc:pool:2022-03-01:nusd:newfee_admin", change.BucketKey())

	lg.Topics[0] = poolTopicFor(PoolEvNewSwapFee)
	lg.Data = packPoolEvent(t, "NewSwapFee", big.NewInt(6_000_000))
	_, err = p.Decode(bsc, config.PoolNUSD, "2022-03-01", lg)
	require.NoError(t, err)

	got := p.currentFees("bsc", config.PoolNUSD)
	require.Equal(t, uint64(8_000_000_000), got.Admin)
	require.Equal(t, uint64(6_000_000), got.Swap)
}

func TestAddLiquidityAggregatesAllTokens(t *testing.T) {
	t.Parallel()

	avax := config.ChainByName("avalanche")
	p := NewPoolDecoder()

	// nUSD pool: [nUSD(18), DAI.e(18), USDC.e(6), USDT.e(6)]
	amounts := []*big.Int{
		new(big.Int).Mul(big.NewInt(100), big.NewInt(1e18)),
		new(big.Int).Mul(big.NewInt(50), big.NewInt(1e18)),
		big.NewInt(25_000_000),
		big.NewInt(25_000_000),
	}
	fees := []*big.Int{
		big.NewInt(1e15), // 0.001 nUSD
		big.NewInt(0),
		big.NewInt(2_000), // 0.002 USDC.e
		big.NewInt(0),
	}
	lg := types.Log{
		Topics: []common.Hash{poolTopicFor(PoolEvAddLiquidity), common.BytesToHash(addressWord(userAddr))},
		Data: packPoolEvent(t, "AddLiquidity",
			amounts, fees, big.NewInt(1), big.NewInt(1),
		),
		BlockNumber: 7_100_000,
	}
	ev, err := p.Decode(avax, config.PoolNUSD, "2022-06-01", lg)
	require.NoError(t, err)
	swap := ev.(*models.PoolSwap)

	require.Equal(t, models.SubKindAddRemove, swap.SubKind)
	require.True(t, swap.Volume.Equal(decimal.NewFromInt(200)), "volume = %s", swap.Volume)

	total := decimal.RequireFromString("0.003")
	// default admin fee 6e9 over 1e10 takes 60%
	wantAdmin := total.Mul(decimal.RequireFromString("0.6"))
	require.True(t, swap.AdminFees.Equal(wantAdmin), "admin = %s", swap.AdminFees)
	require.True(t, swap.LPFees.Equal(total.Sub(wantAdmin)), "lp = %s", swap.LPFees)
}

func TestPoolDecodeUnknownTopic(t *testing.T) {
	t.Parallel()

	eth := config.ChainByName("ethereum")
	p := NewPoolDecoder()
	lg := types.Log{Topics: []common.Hash{common.HexToHash("0xdead")}}
	_, err := p.Decode(eth, config.PoolNUSD, "2022-06-01", lg)
	require.ErrorIs(t, err, ErrUnsupported)
}
