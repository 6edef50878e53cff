package api

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"bridgescan/internal/chain"
	"bridgescan/internal/config"
	"bridgescan/internal/models"
	"bridgescan/internal/prices"
	"bridgescan/internal/query"
	"bridgescan/internal/store"
)

const nusdPolygon = "0xb6c473756050de474286bed418b77aeac39b02af"

type fakeCaller struct {
	tip          uint64
	virtualPrice *big.Int
	callErr      error
}

func (f *fakeCaller) BlockNumber(context.Context) (uint64, error) { return f.tip, nil }

func (f *fakeCaller) PoolAdminBalance(context.Context, common.Address, uint64, *big.Int) (*big.Int, error) {
	if f.callErr != nil {
		return nil, f.callErr
	}
	return big.NewInt(0), nil
}

func (f *fakeCaller) PoolVirtualPrice(context.Context, common.Address, *big.Int) (*big.Int, error) {
	if f.callErr != nil {
		return nil, f.callErr
	}
	return f.virtualPrice, nil
}

func (f *fakeCaller) TokenBalance(context.Context, common.Address, common.Address, *big.Int) (*big.Int, error) {
	return big.NewInt(0), nil
}

func (f *fakeCaller) BridgeFeeBalance(context.Context, common.Address, common.Address, *big.Int) (*big.Int, error) {
	return big.NewInt(0), nil
}

func (f *fakeCaller) NativeBalance(context.Context, common.Address, *big.Int) (*big.Int, error) {
	return big.NewInt(0), nil
}

type fixture struct {
	srv *Server
	agg *store.Memory
}

func newFixture(t *testing.T, callers map[string]query.ContractCaller) *fixture {
	t.Helper()
	agg := store.NewMemory()
	oracle := prices.NewOracle(store.NewMemory(), store.NewMemory(), nil)
	svc := query.New(agg, oracle, callers)
	return &fixture{srv: NewServer(svc, config.Default()), agg: agg}
}

func (f *fixture) get(t *testing.T, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	w := httptest.NewRecorder()
	f.srv.Handler().ServeHTTP(w, req)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), "body: %s", w.Body.String())
	return w, body
}

func (f *fixture) seedIn(t *testing.T, chainName, date, asset string, b models.BridgeInBucket) {
	t.Helper()
	raw, err := models.MarshalBucket(&b)
	require.NoError(t, err)
	key := chainName + ":bridge:" + date + ":" + asset + ":IN"
	require.NoError(t, f.agg.Set(context.Background(), key, raw))
}

func TestHealth(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil)

	w, body := f.get(t, "/health")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "ok", body["status"])
	require.Equal(t, "application/json", w.Header().Get("Content-Type"))
}

func TestRateLimitExhaustsBurst(t *testing.T) {
	t.Parallel()
	agg := store.NewMemory()
	oracle := prices.NewOracle(store.NewMemory(), store.NewMemory(), nil)
	cfg := config.Default()
	cfg.RateLimitRPS = 1
	cfg.RateLimitBurst = 1
	srv := NewServer(query.New(agg, oracle, nil), cfg)

	serve := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest("GET", "/api/v1/utils/syncing", nil)
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, req)
		return w
	}

	require.Equal(t, http.StatusOK, serve().Code)
	second := serve()
	require.Equal(t, http.StatusTooManyRequests, second.Code)
	require.Contains(t, second.Body.String(), "rate limited")

	// Health stays reachable for probes even when the bucket is dry.
	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestVolumeEndpoint(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil)
	f.seedIn(t, "polygon", "2022-06-01", nusdPolygon, models.BridgeInBucket{
		Amount:  decimal.NewFromInt(1000),
		TxCount: 2,
	})
	f.seedIn(t, "polygon", "2022-06-02", nusdPolygon, models.BridgeInBucket{
		Amount:  decimal.NewFromInt(500),
		TxCount: 1,
	})

	w, body := f.get(t, "/api/v1/analytics/volume/polygon/in")
	require.Equal(t, http.StatusOK, w.Code)

	stats := body["stats"].(map[string]any)
	require.Equal(t, "1500", stats["volume"])

	data := body["data"].(map[string]any)
	day := data["2022-06-01"].(map[string]any)
	require.Contains(t, day, nusdPolygon)
}

func TestVolumeInvalidChain(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil)

	w, body := f.get(t, "/api/v1/analytics/volume/dogechain/in")
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, body["error"], "dogechain")
	require.Contains(t, body["valids"], "polygon")
}

func TestVolumeInvalidDirection(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil)

	w, body := f.get(t, "/api/v1/analytics/volume/polygon/sideways")
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, []any{"in", "out"}, body["valids"])
}

func TestVolumeTotalDefaultsDirection(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil)
	f.seedIn(t, "polygon", "2022-06-01", nusdPolygon, models.BridgeInBucket{
		Amount:  decimal.NewFromInt(100),
		TxCount: 1,
	})

	w, body := f.get(t, "/api/v1/analytics/volume/total")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, body, "data")

	// The explicit form routes to the same view.
	w, _ = f.get(t, "/api/v1/analytics/volume/total/in")
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = f.get(t, "/api/v1/analytics/volume/total/tx_count")
	require.Equal(t, http.StatusOK, w.Code)
}

func TestVirtualPriceEndpoint(t *testing.T) {
	t.Parallel()
	caller := &fakeCaller{virtualPrice: big.NewInt(1001000000000000000)}
	f := newFixture(t, map[string]query.ContractCaller{"polygon": caller})

	w, body := f.get(t, "/api/v1/analytics/pools/price/virtual/polygon")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "1.001", body["virtual_price"])
}

func TestVirtualPriceInvalidPoolParam(t *testing.T) {
	t.Parallel()
	f := newFixture(t, map[string]query.ContractCaller{"polygon": &fakeCaller{}})

	w, body := f.get(t, "/api/v1/analytics/pools/price/virtual/polygon?pool=tripool")
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, []any{"nusd", "neth"}, body["valids"])
}

func TestInvalidBlockParam(t *testing.T) {
	t.Parallel()
	f := newFixture(t, map[string]query.ContractCaller{"polygon": &fakeCaller{}})

	w, body := f.get(t, "/api/v1/analytics/fees/admin/polygon?block=abc")
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "invalid block num", body["error"])
}

func TestNotDeployedIsBadRequest(t *testing.T) {
	t.Parallel()
	caller := &fakeCaller{callErr: chain.ErrNotDeployed}
	f := newFixture(t, map[string]query.ContractCaller{"polygon": caller})

	w, body := f.get(t, "/api/v1/analytics/fees/admin/polygon?block=1000")
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, body["error"], "not deployed")
}

func TestSyncingEndpoint(t *testing.T) {
	t.Parallel()
	f := newFixture(t, map[string]query.ContractCaller{"polygon": &fakeCaller{tip: 20500000}})
	key := models.CursorBlockKey("polygon", "bridge", "0x8f5bbb2bb8c2ee94639e55d5f41de9b4839c1280")
	require.NoError(t, f.agg.Set(context.Background(), key, "20000000"))

	w, body := f.get(t, "/api/v1/utils/syncing")
	require.Equal(t, http.StatusOK, w.Code)

	polygon := body["polygon"].(map[string]any)
	require.Equal(t, float64(20000000), polygon["current"])
	require.Equal(t, float64(20500000), polygon["blockheight"])
}

func TestDateToBlockNullWhenUnindexed(t *testing.T) {
	t.Parallel()
	f := newFixture(t, nil)

	w, body := f.get(t, "/api/v1/utils/date2block/polygon/2022-06-01")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, body, "2022-06-01")
	require.Nil(t, body["2022-06-01"])

	w, body = f.get(t, "/api/v1/utils/date2block/polygon/yesterday")
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, body["error"], "invalid date")
}
