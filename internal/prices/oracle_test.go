package prices

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"bridgescan/internal/config"
	"bridgescan/internal/store"
)

type fakeSource struct {
	historic map[string]decimal.Decimal // cgid:date
	spot     map[string]decimal.Decimal
	failures int // errors to return before succeeding
	calls    int
}

func (f *fakeSource) HistoricPrice(_ context.Context, cgid, date string) (decimal.Decimal, bool, error) {
	f.calls++
	if f.failures > 0 {
		f.failures--
		return decimal.Zero, false, errors.New("rate limited")
	}
	p, ok := f.historic[cgid+":"+date]
	return p, ok, nil
}

func (f *fakeSource) SpotPrice(_ context.Context, cgid string) (decimal.Decimal, bool, error) {
	f.calls++
	p, ok := f.spot[cgid]
	return p, ok, nil
}

func newTestOracle(src Source) (*Oracle, *store.Memory, *store.Memory) {
	pricesKV := store.NewMemory()
	queueKV := store.NewMemory()
	o := NewOracle(pricesKV, queueKV, src)
	o.now = func() time.Time {
		return time.Date(2022, 6, 15, 12, 0, 0, 0, time.UTC)
	}
	return o, pricesKV, queueKV
}

func TestGetHistoricColdCacheRecordsMiss(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	o, _, queueKV := newTestOracle(&fakeSource{})
	p, err := o.GetHistoric(ctx, config.CGIDSyn, "2099-01-01")
	require.NoError(t, err)
	require.True(t, p.IsZero())

	missing, err := queueKV.SMembers(ctx, MissingSetKey)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{
		"synapse-2:2099-01-01",
		"synapse-2:2099-01-01:usd",
	}, missing)
}

func TestGetHistoricWalkbackPrefersMostRecent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	o, pricesKV, _ := newTestOracle(&fakeSource{})
	require.NoError(t, pricesKV.Set(ctx, "ethereum:2022-06-12", "1800"))
	require.NoError(t, pricesKV.Set(ctx, "ethereum:2022-06-09", "1700"))

	p, err := o.GetHistoric(ctx, config.CGIDEth, "2022-06-15")
	require.NoError(t, err)
	require.True(t, p.Equal(decimal.NewFromInt(1800)), "price = %s", p)

	// Eight days out is beyond the walkback window.
	p, err = o.GetHistoric(ctx, config.CGIDEth, "2022-06-20")
	require.NoError(t, err)
	require.True(t, p.IsZero(), "price = %s", p)
}

func TestRefreshMissingFillsAndDrains(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	src := &fakeSource{historic: map[string]decimal.Decimal{
		"synapse-2:2099-01-01": decimal.RequireFromString("1.23"),
	}}
	o, _, queueKV := newTestOracle(src)

	p, err := o.GetHistoric(ctx, config.CGIDSyn, "2099-01-01")
	require.NoError(t, err)
	require.True(t, p.IsZero())

	require.NoError(t, o.RefreshMissing(ctx))

	p, err = o.GetHistoric(ctx, config.CGIDSyn, "2099-01-01")
	require.NoError(t, err)
	require.True(t, p.Equal(decimal.RequireFromString("1.23")), "price = %s", p)

	missing, err := queueKV.SMembers(ctx, MissingSetKey)
	require.NoError(t, err)
	require.Empty(t, missing)

	// The :usd twin deduplicates to one fetch.
	require.Equal(t, 1, src.calls)
}

func TestRefreshMissingRetriesTransientFailures(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	src := &fakeSource{
		historic: map[string]decimal.Decimal{"gmx:2022-06-01": decimal.NewFromInt(20)},
		failures: 2,
	}
	o, pricesKV, queueKV := newTestOracle(src)
	require.NoError(t, queueKV.SAdd(ctx, MissingSetKey, "gmx:2022-06-01", "gmx:2022-06-01:usd"))

	require.NoError(t, o.RefreshMissing(ctx))

	raw, err := pricesKV.Get(ctx, "gmx:2022-06-01")
	require.NoError(t, err)
	require.Equal(t, "20", raw)
}

func TestRefreshMissingKeepsUnresolvedPoints(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	o, _, queueKV := newTestOracle(&fakeSource{})
	require.NoError(t, queueKV.SAdd(ctx, MissingSetKey, "gmx:2099-01-01", "gmx:2099-01-01:usd"))

	require.NoError(t, o.RefreshMissing(ctx))

	missing, err := queueKV.SMembers(ctx, MissingSetKey)
	require.NoError(t, err)
	require.Len(t, missing, 2, "unresolved point should stay queued")
}

func TestSynBeforeCutoverProxiesNRV(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	o, pricesKV, _ := newTestOracle(&fakeSource{})
	require.NoError(t, pricesKV.Set(ctx, "nerve-finance:2021-08-01", "5"))

	p, err := o.GetHistoric(ctx, config.CGIDSyn, "2021-08-01")
	require.NoError(t, err)
	require.True(t, p.Equal(decimal.NewFromInt(2)), "price = %s", p)
}

func TestGetForAddress(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	o, pricesKV, _ := newTestOracle(&fakeSource{})

	// nUSD is pinned at 1 regardless of cache state.
	p, err := o.GetForAddress(ctx, "polygon", "0xb6c473756050de474286bed418b77aeac39b02af", "2022-06-01")
	require.NoError(t, err)
	require.True(t, p.Equal(decimal.NewFromInt(1)))

	// Mapped tokens go through the cache.
	require.NoError(t, pricesKV.Set(ctx, "synapse-2:2022-06-01", "0.95"))
	p, err = o.GetForAddress(ctx, "polygon", "0xF8F9efC0db77d8881500bb06FF5D6ABc3070E695", "2022-06-01")
	require.NoError(t, err)
	require.True(t, p.Equal(decimal.RequireFromString("0.95")), "price = %s", p)

	// Unmapped tokens price at zero.
	p, err = o.GetForAddress(ctx, "polygon", "0x2222222222222222222222222222222222222222", "2022-06-01")
	require.NoError(t, err)
	require.True(t, p.IsZero())
}

func TestUpdateDailySkipsExistingPoints(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	src := &fakeSource{spot: map[string]decimal.Decimal{}}
	for _, cgid := range config.AllCGIDs {
		src.spot[cgid] = decimal.NewFromInt(1)
	}
	o, pricesKV, _ := newTestOracle(src)
	require.NoError(t, pricesKV.Set(ctx, "synapse-2:2022-06-15", "0.9"))

	require.NoError(t, o.UpdateDaily(ctx))

	// The preexisting point survives; everything else was fetched once.
	raw, err := pricesKV.Get(ctx, "synapse-2:2022-06-15")
	require.NoError(t, err)
	require.Equal(t, "0.9", raw)
	require.Equal(t, len(config.AllCGIDs)-1, src.calls)

	raw, err = pricesKV.Get(ctx, "ethereum:2022-06-15")
	require.NoError(t, err)
	require.Equal(t, "1", raw)
}
