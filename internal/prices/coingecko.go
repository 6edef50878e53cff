package prices

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"bridgescan/internal/models"
)

// DefaultCoinGeckoURL is the public API base. Override it in config when
// running against a pro endpoint or a local fixture server.
const DefaultCoinGeckoURL = "https://api.coingecko.com/api/v3"

// Source is the external price feed the oracle backfills from. ok is false
// when the feed has no point for that asset and date.
type Source interface {
	HistoricPrice(ctx context.Context, cgid, date string) (p decimal.Decimal, ok bool, err error)
	SpotPrice(ctx context.Context, cgid string) (p decimal.Decimal, ok bool, err error)
}

// CoinGecko fetches prices from the CoinGecko REST API. All calls share one
// token bucket so backfill bursts stay under the public rate limit.
type CoinGecko struct {
	base    string
	httpc   *http.Client
	limiter *rate.Limiter
}

func NewCoinGecko(base string, rps float64) *CoinGecko {
	if base == "" {
		base = DefaultCoinGeckoURL
	}
	if rps <= 0 {
		rps = 1
	}
	return &CoinGecko{
		base:    base,
		httpc:   &http.Client{Timeout: 15 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}
}

func (c *CoinGecko) get(ctx context.Context, path string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "bridgescan/1.0")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("coingecko status: %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// HistoricPrice fetches the USD close for one asset and calendar date.
// CoinGecko's history endpoint wants dd-mm-yyyy.
func (c *CoinGecko) HistoricPrice(ctx context.Context, cgid, date string) (decimal.Decimal, bool, error) {
	t, err := time.Parse(models.DateFormat, date)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("bad date %q: %w", date, err)
	}

	var result struct {
		MarketData *struct {
			CurrentPrice map[string]float64 `json:"current_price"`
		} `json:"market_data"`
	}
	path := fmt.Sprintf("/coins/%s/history?date=%s", url.PathEscape(cgid), t.Format("02-01-2006"))
	if err := c.get(ctx, path, &result); err != nil {
		return decimal.Zero, false, err
	}
	if result.MarketData == nil {
		return decimal.Zero, false, nil
	}
	usd, ok := result.MarketData.CurrentPrice["usd"]
	if !ok {
		return decimal.Zero, false, nil
	}
	return decimal.NewFromFloat(usd), true, nil
}

// SpotPrice fetches the current USD price for one asset.
func (c *CoinGecko) SpotPrice(ctx context.Context, cgid string) (decimal.Decimal, bool, error) {
	var result map[string]struct {
		USD *float64 `json:"usd"`
	}
	path := fmt.Sprintf("/simple/price?ids=%s&vs_currencies=usd", url.QueryEscape(cgid))
	if err := c.get(ctx, path, &result); err != nil {
		return decimal.Zero, false, err
	}
	entry, ok := result[cgid]
	if !ok || entry.USD == nil {
		return decimal.Zero, false, nil
	}
	return decimal.NewFromFloat(*entry.USD), true, nil
}
