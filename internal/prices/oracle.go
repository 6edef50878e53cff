package prices

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"bridgescan/internal/config"
	"bridgescan/internal/models"
	"bridgescan/internal/store"
)

// MissingSetKey is the queue-namespace set of price points the oracle could
// not serve from cache. The refresh job drains it.
const MissingSetKey = "prices:missing"

// synCutoverDate is the SYN token launch; NRV history stands in before it at
// the 2.5:1 migration ratio.
const synCutoverDate = "2021-08-30"

var synMigrationRatio = decimal.RequireFromString("2.5")

// walkbackDays bounds how far GetHistoric reaches for a nearby price when
// the exact date is missing.
const walkbackDays = 7

// fetchAttempts bounds retries against the external feed per price point.
const fetchAttempts = 3

// Oracle serves historic and spot USD prices from the store, recording
// misses for asynchronous backfill. Lookups never call the external feed
// directly; only RefreshMissing and UpdateDaily do.
type Oracle struct {
	prices store.KV
	queue  store.KV
	source Source

	now func() time.Time
}

func NewOracle(prices, queue store.KV, source Source) *Oracle {
	return &Oracle{
		prices: prices,
		queue:  queue,
		source: source,
		now:    time.Now,
	}
}

func priceKey(cgid, date string) string {
	return cgid + ":" + date
}

// GetHistoric returns the cached USD price for (cgid, date). A cache miss
// records the point as missing and falls back to the most recent price
// within the prior week, or zero.
func (o *Oracle) GetHistoric(ctx context.Context, cgid, date string) (decimal.Decimal, error) {
	if cgid == config.CGIDSyn && date < synCutoverDate {
		nrv, err := o.GetHistoric(ctx, config.CGIDNRV, date)
		if err != nil {
			return decimal.Zero, err
		}
		return nrv.Div(synMigrationRatio), nil
	}

	p, found, err := o.read(ctx, cgid, date)
	if err != nil {
		return decimal.Zero, err
	}
	if found {
		return p, nil
	}

	key := priceKey(cgid, date)
	if err := o.queue.SAdd(ctx, MissingSetKey, key, key+":usd"); err != nil {
		return decimal.Zero, err
	}

	day, err := time.Parse(models.DateFormat, date)
	if err != nil {
		return decimal.Zero, fmt.Errorf("bad date %q: %w", date, err)
	}
	for i := 1; i <= walkbackDays; i++ {
		prior := day.AddDate(0, 0, -i).Format(models.DateFormat)
		p, found, err := o.read(ctx, cgid, prior)
		if err != nil {
			return decimal.Zero, err
		}
		if found {
			return p, nil
		}
	}
	return decimal.Zero, nil
}

// GetSpot returns today's price, UTC.
func (o *Oracle) GetSpot(ctx context.Context, cgid string) (decimal.Decimal, error) {
	return o.GetHistoric(ctx, cgid, models.DateOf(o.now()))
}

// GetForAddress prices a token by its on-chain address. Pinned addresses
// short-circuit; unknown addresses price at zero.
func (o *Oracle) GetForAddress(ctx context.Context, chain, address, date string) (decimal.Decimal, error) {
	address = strings.ToLower(address)
	if pinned, ok := config.CustomPrice[chain][address]; ok {
		return pinned, nil
	}
	cgid, ok := config.AddressToCGID[chain][address]
	if !ok {
		return decimal.Zero, nil
	}
	if date == "" {
		date = models.DateOf(o.now())
	}
	return o.GetHistoric(ctx, cgid, date)
}

func (o *Oracle) read(ctx context.Context, cgid, date string) (decimal.Decimal, bool, error) {
	raw, err := o.prices.Get(ctx, priceKey(cgid, date))
	if err == store.ErrNotFound {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, err
	}
	p, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("corrupt price %s:%s: %w", cgid, date, err)
	}
	return p, true, nil
}

func (o *Oracle) write(ctx context.Context, cgid, date string, p decimal.Decimal) error {
	key := priceKey(cgid, date)
	if err := o.prices.Set(ctx, key, p.String()); err != nil {
		return err
	}
	// The :usd alias keeps reads working for callers that carry an
	// explicit currency suffix.
	return o.prices.Set(ctx, key+":usd", p.String())
}

// RefreshMissing drains the missing set, fetching each point from the
// external feed. Points the feed has no data for stay in the set and get
// retried next run.
func (o *Oracle) RefreshMissing(ctx context.Context) error {
	members, err := o.queue.SMembers(ctx, MissingSetKey)
	if err != nil {
		return err
	}

	seen := map[string]struct{}{}
	for _, member := range members {
		base := strings.TrimSuffix(member, ":usd")
		if _, dup := seen[base]; dup {
			continue
		}
		seen[base] = struct{}{}

		cgid, date, ok := strings.Cut(base, ":")
		if !ok {
			log.Printf("[job] dropping malformed missing-price key %q", member)
			if err := o.queue.SRem(ctx, MissingSetKey, member); err != nil {
				return err
			}
			continue
		}

		p, found, err := o.fetchHistoric(ctx, cgid, date)
		if err != nil {
			log.Printf("[job] price fetch %s:%s: %v", cgid, date, err)
			continue
		}
		if !found {
			continue
		}
		if err := o.write(ctx, cgid, date, p); err != nil {
			return err
		}
		if err := o.queue.SRem(ctx, MissingSetKey, base, base+":usd"); err != nil {
			return err
		}
	}
	return nil
}

// UpdateDaily writes today's price for every known asset, skipping points
// already present.
func (o *Oracle) UpdateDaily(ctx context.Context) error {
	today := models.DateOf(o.now())
	for _, cgid := range config.AllCGIDs {
		if _, found, err := o.read(ctx, cgid, today); err != nil {
			return err
		} else if found {
			continue
		}
		p, ok, err := o.source.SpotPrice(ctx, cgid)
		if err != nil {
			log.Printf("[job] spot price %s: %v", cgid, err)
			continue
		}
		if !ok {
			continue
		}
		if err := o.write(ctx, cgid, today, p); err != nil {
			return err
		}
	}
	return nil
}

func (o *Oracle) fetchHistoric(ctx context.Context, cgid, date string) (decimal.Decimal, bool, error) {
	var lastErr error
	for attempt := 0; attempt < fetchAttempts; attempt++ {
		p, ok, err := o.source.HistoricPrice(ctx, cgid, date)
		if err == nil {
			return p, ok, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	return decimal.Zero, false, lastErr
}
