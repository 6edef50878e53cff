package query

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"bridgescan/internal/config"
	"bridgescan/internal/models"
)

// VolumePoint is one (date, asset) or (date, to-chain) cell in a volume
// view. PriceUSD is the volume valued at that date's historical price.
type VolumePoint struct {
	Volume   decimal.Decimal `json:"volume"`
	PriceUSD decimal.Decimal `json:"price_usd"`
	TxCount  uint64          `json:"tx_count"`
}

// USDStats splits a USD total into its two valuations: adjusted uses each
// date's historical price, current uses today's price for the whole sum.
type USDStats struct {
	Adjusted decimal.Decimal `json:"adjusted"`
	Current  decimal.Decimal `json:"current"`
}

type VolumeStats struct {
	Volume decimal.Decimal `json:"volume"`
	USD    USDStats        `json:"usd"`
}

// VolumeReport is the chain_volume response shape. Data nests per date,
// then per asset for IN, or per destination chain for OUT.
type VolumeReport struct {
	Stats VolumeStats `json:"stats"`
	Data  any         `json:"data"`
}

type inEntry struct {
	date, asset string
	bucket      models.BridgeInBucket
}

type outEntry struct {
	date, asset string
	toChainID   uint64
	bucket      models.BridgeOutBucket
}

func (s *Service) scanIn(ctx context.Context, chainName string) ([]inEntry, error) {
	keys, err := s.agg.Keys(ctx, chainName+":bridge:*:IN")
	if err != nil {
		return nil, err
	}
	entries := make([]inEntry, 0, len(keys))
	for _, key := range keys {
		parts := strings.Split(key, ":")
		if len(parts) != 5 {
			continue
		}
		raw, err := s.agg.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		var bucket models.BridgeInBucket
		if err := models.UnmarshalBucket(raw, &bucket); err != nil {
			return nil, fmt.Errorf("corrupt bucket %s: %w", key, err)
		}
		entries = append(entries, inEntry{date: parts[2], asset: parts[3], bucket: bucket})
	}
	return entries, nil
}

func (s *Service) scanOut(ctx context.Context, chainName string) ([]outEntry, error) {
	keys, err := s.agg.Keys(ctx, chainName+":bridge:*:OUT:*")
	if err != nil {
		return nil, err
	}
	entries := make([]outEntry, 0, len(keys))
	for _, key := range keys {
		parts := strings.Split(key, ":")
		if len(parts) != 6 {
			continue
		}
		toChain, err := strconv.ParseUint(parts[5], 10, 64)
		if err != nil {
			continue
		}
		raw, err := s.agg.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		var bucket models.BridgeOutBucket
		if err := models.UnmarshalBucket(raw, &bucket); err != nil {
			return nil, fmt.Errorf("corrupt bucket %s: %w", key, err)
		}
		entries = append(entries, outEntry{
			date: parts[2], asset: parts[3], toChainID: toChain, bucket: bucket,
		})
	}
	return entries, nil
}

func toChainName(id uint64) string {
	if c := config.ChainByID(id); c != nil {
		return c.Name
	}
	return strconv.FormatUint(id, 10)
}

// volumeTally accumulates the stats block while a view walks its buckets.
type volumeTally struct {
	volume   decimal.Decimal
	adjusted decimal.Decimal
	perAsset map[string]decimal.Decimal
}

func newVolumeTally() *volumeTally {
	return &volumeTally{perAsset: map[string]decimal.Decimal{}}
}

func (t *volumeTally) add(asset string, amount, usd decimal.Decimal) {
	t.volume = t.volume.Add(amount)
	t.adjusted = t.adjusted.Add(usd)
	t.perAsset[asset] = t.perAsset[asset].Add(amount)
}

// stats values each asset's total volume at today's price for the
// usd.current figure.
func (t *volumeTally) stats(ctx context.Context, s *Service, chainName string) (VolumeStats, error) {
	current := decimal.Zero
	for asset, volume := range t.perAsset {
		price, err := s.oracle.GetForAddress(ctx, chainName, asset, "")
		if err != nil {
			return VolumeStats{}, err
		}
		current = current.Add(volume.Mul(price))
	}
	return VolumeStats{
		Volume: t.volume,
		USD:    USDStats{Adjusted: t.adjusted, Current: current},
	}, nil
}

// ChainVolume is the per-chain bridge volume view across all assets.
func (s *Service) ChainVolume(ctx context.Context, chainName, direction string) (*VolumeReport, error) {
	if _, err := s.chain(chainName); err != nil {
		return nil, err
	}
	dir, err := parseDirection(direction)
	if err != nil {
		return nil, err
	}

	v, err := s.cache.Do("chain_volume:"+chainName+":"+string(dir), func() (any, error) {
		return s.chainVolume(ctx, chainName, dir, "")
	})
	if err != nil {
		return nil, err
	}
	return v.(*VolumeReport), nil
}

// ChainVolumeForAddress is ChainVolume narrowed to one token.
func (s *Service) ChainVolumeForAddress(ctx context.Context, token, chainName, direction string) (*VolumeReport, error) {
	if _, err := s.chain(chainName); err != nil {
		return nil, err
	}
	dir, err := parseDirection(direction)
	if err != nil {
		return nil, err
	}
	token, err = s.validToken(chainName, token)
	if err != nil {
		return nil, err
	}

	v, err := s.cache.Do("chain_volume_for:"+chainName+":"+token+":"+string(dir), func() (any, error) {
		return s.chainVolume(ctx, chainName, dir, token)
	})
	if err != nil {
		return nil, err
	}
	return v.(*VolumeReport), nil
}

func (s *Service) chainVolume(ctx context.Context, chainName string, dir models.Direction, onlyToken string) (*VolumeReport, error) {
	tally := newVolumeTally()

	var data any
	switch dir {
	case models.DirIn:
		entries, err := s.scanIn(ctx, chainName)
		if err != nil {
			return nil, err
		}
		res := map[string]map[string]*VolumePoint{}
		for _, e := range entries {
			if onlyToken != "" && e.asset != onlyToken {
				continue
			}
			price, err := s.oracle.GetForAddress(ctx, chainName, e.asset, e.date)
			if err != nil {
				return nil, err
			}
			usd := e.bucket.Amount.Mul(price)
			if res[e.date] == nil {
				res[e.date] = map[string]*VolumePoint{}
			}
			res[e.date][e.asset] = &VolumePoint{
				Volume:   e.bucket.Amount,
				PriceUSD: usd,
				TxCount:  e.bucket.TxCount,
			}
			tally.add(e.asset, e.bucket.Amount, usd)
		}
		data = res

	case models.DirOut:
		entries, err := s.scanOut(ctx, chainName)
		if err != nil {
			return nil, err
		}
		res := map[string]map[string]*VolumePoint{}
		for _, e := range entries {
			if onlyToken != "" && e.asset != onlyToken {
				continue
			}
			price, err := s.oracle.GetForAddress(ctx, chainName, e.asset, e.date)
			if err != nil {
				return nil, err
			}
			usd := e.bucket.Amount.Mul(price)
			if res[e.date] == nil {
				res[e.date] = map[string]*VolumePoint{}
			}
			// Destination totals pool every asset bridged that way.
			to := toChainName(e.toChainID)
			point := res[e.date][to]
			if point == nil {
				point = &VolumePoint{}
				res[e.date][to] = point
			}
			point.Volume = point.Volume.Add(e.bucket.Amount)
			point.PriceUSD = point.PriceUSD.Add(usd)
			point.TxCount += e.bucket.TxCount
			tally.add(e.asset, e.bucket.Amount, usd)
		}
		data = res
	}

	stats, err := tally.stats(ctx, s, chainName)
	if err != nil {
		return nil, err
	}
	return &VolumeReport{Stats: stats, Data: data}, nil
}

// TotalReport is the cross-chain roll-up shape: per date, USD per chain
// plus a "total" entry, and an all-time total per chain.
type TotalReport struct {
	Data   map[string]map[string]decimal.Decimal `json:"data"`
	Totals map[string]decimal.Decimal            `json:"totals"`
}

// ChainVolumeTotal rolls daily USD volume up across every chain.
func (s *Service) ChainVolumeTotal(ctx context.Context, direction string) (*TotalReport, error) {
	dir, err := parseDirection(direction)
	if err != nil {
		return nil, err
	}

	v, err := s.cache.Do("chain_volume_total:"+string(dir), func() (any, error) {
		data := map[string]map[string]decimal.Decimal{}
		totals := map[string]decimal.Decimal{}

		err := s.eachBucketUSD(ctx, dir, func(chainName, date string, usd decimal.Decimal, _ uint64) {
			if data[date] == nil {
				data[date] = map[string]decimal.Decimal{}
			}
			data[date][chainName] = data[date][chainName].Add(usd)
			data[date]["total"] = data[date]["total"].Add(usd)
			totals[chainName] = totals[chainName].Add(usd)
		})
		if err != nil {
			return nil, err
		}
		return &TotalReport{Data: data, Totals: totals}, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*TotalReport), nil
}

// TxCountReport mirrors TotalReport with transaction counts instead of USD.
type TxCountReport struct {
	Data   map[string]map[string]uint64 `json:"data"`
	Totals map[string]uint64            `json:"totals"`
}

// ChainTxCountTotal rolls daily transaction counts up across every chain.
func (s *Service) ChainTxCountTotal(ctx context.Context, direction string) (*TxCountReport, error) {
	dir, err := parseDirection(direction)
	if err != nil {
		return nil, err
	}

	v, err := s.cache.Do("chain_tx_count_total:"+string(dir), func() (any, error) {
		data := map[string]map[string]uint64{}
		totals := map[string]uint64{}

		err := s.eachBucketUSD(ctx, dir, func(chainName, date string, _ decimal.Decimal, txCount uint64) {
			if data[date] == nil {
				data[date] = map[string]uint64{}
			}
			data[date][chainName] += txCount
			data[date]["total"] += txCount
			totals[chainName] += txCount
		})
		if err != nil {
			return nil, err
		}
		return &TxCountReport{Data: data, Totals: totals}, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*TxCountReport), nil
}

// eachBucketUSD walks every chain's buckets in one direction, handing the
// callback each bucket's USD value at its date's historical price.
func (s *Service) eachBucketUSD(ctx context.Context, dir models.Direction, visit func(chain, date string, usd decimal.Decimal, txCount uint64)) error {
	for _, chainName := range config.ChainNames() {
		switch dir {
		case models.DirIn:
			entries, err := s.scanIn(ctx, chainName)
			if err != nil {
				return err
			}
			for _, e := range entries {
				price, err := s.oracle.GetForAddress(ctx, chainName, e.asset, e.date)
				if err != nil {
					return err
				}
				visit(chainName, e.date, e.bucket.Amount.Mul(price), e.bucket.TxCount)
			}
		case models.DirOut:
			entries, err := s.scanOut(ctx, chainName)
			if err != nil {
				return err
			}
			for _, e := range entries {
				price, err := s.oracle.GetForAddress(ctx, chainName, e.asset, e.date)
				if err != nil {
					return err
				}
				visit(chainName, e.date, e.bucket.Amount.Mul(price), e.bucket.TxCount)
			}
		}
	}
	return nil
}

// FeePoint is one date's bridge fees for one token.
type FeePoint struct {
	Fees     decimal.Decimal `json:"fees"`
	PriceUSD decimal.Decimal `json:"price_usd"`
	TxCount  uint64          `json:"tx_count"`
}

// FeesReport is the bridge_fees response shape.
type FeesReport struct {
	Stats VolumeStats          `json:"stats"`
	Data  map[string]*FeePoint `json:"data"`
}

// BridgeFees sums the bridge fees charged on IN transfers of one token.
func (s *Service) BridgeFees(ctx context.Context, chainName, token string) (*FeesReport, error) {
	if _, err := s.chain(chainName); err != nil {
		return nil, err
	}
	token, err := s.validToken(chainName, token)
	if err != nil {
		return nil, err
	}

	v, err := s.cache.Do("bridge_fees:"+chainName+":"+token, func() (any, error) {
		entries, err := s.scanIn(ctx, chainName)
		if err != nil {
			return nil, err
		}

		tally := newVolumeTally()
		data := map[string]*FeePoint{}
		for _, e := range entries {
			if e.asset != token {
				continue
			}
			price, err := s.oracle.GetForAddress(ctx, chainName, e.asset, e.date)
			if err != nil {
				return nil, err
			}
			usd := e.bucket.Fees.Mul(price)
			data[e.date] = &FeePoint{
				Fees:     e.bucket.Fees,
				PriceUSD: usd,
				TxCount:  e.bucket.TxCount,
			}
			tally.add(e.asset, e.bucket.Fees, usd)
		}
		stats, err := tally.stats(ctx, s, chainName)
		if err != nil {
			return nil, err
		}
		return &FeesReport{Stats: stats, Data: data}, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*FeesReport), nil
}

// GasFeePoint is one date's validator gas spend, priced in the chain's
// native token.
type GasFeePoint struct {
	GasPrice       decimal.Decimal `json:"gas_price"`
	TransactionFee decimal.Decimal `json:"transaction_fee"`
	PriceUSD       decimal.Decimal `json:"price_usd"`
	TxCount        uint64          `json:"tx_count"`
}

// ValidatorGasFees sums what the validator paid in gas per day across the
// IN buckets of one chain. token narrows the view to a single asset when
// non-empty.
func (s *Service) ValidatorGasFees(ctx context.Context, chainName, token string) (map[string]*GasFeePoint, error) {
	c, err := s.chain(chainName)
	if err != nil {
		return nil, err
	}
	if token != "" {
		if token, err = s.validToken(chainName, token); err != nil {
			return nil, err
		}
	}

	v, err := s.cache.Do("validator_gas_fees:"+chainName+":"+token, func() (any, error) {
		entries, err := s.scanIn(ctx, chainName)
		if err != nil {
			return nil, err
		}

		res := map[string]*GasFeePoint{}
		for _, e := range entries {
			if token != "" && e.asset != token {
				continue
			}
			price, err := s.oracle.GetHistoric(ctx, c.NativeCGID, e.date)
			if err != nil {
				return nil, err
			}
			point := res[e.date]
			if point == nil {
				point = &GasFeePoint{}
				res[e.date] = point
			}
			point.GasPrice = point.GasPrice.Add(e.bucket.Validator.GasPrice)
			point.TransactionFee = point.TransactionFee.Add(e.bucket.Validator.GasPaid)
			point.PriceUSD = point.PriceUSD.Add(e.bucket.Validator.GasPaid.Mul(price))
			point.TxCount += e.bucket.TxCount
		}
		return res, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(map[string]*GasFeePoint), nil
}

// AirdropPoint is one date's gas airdrops paid out on IN transfers.
type AirdropPoint struct {
	Airdrop  decimal.Decimal `json:"airdrop"`
	PriceUSD decimal.Decimal `json:"price_usd"`
	TxCount  uint64          `json:"tx_count"`
}

// AirdropReport is the airdrop_amounts response shape. GasToken names the
// native asset the airdrops were paid in.
type AirdropReport struct {
	Stats    VolumeStats              `json:"stats"`
	Data     map[string]*AirdropPoint `json:"data"`
	GasToken string                   `json:"gas_token"`
}

// AirdropAmounts sums the native-token airdrops granted per day. token
// narrows the view to IN transfers of a single asset when non-empty.
func (s *Service) AirdropAmounts(ctx context.Context, chainName, token string) (*AirdropReport, error) {
	c, err := s.chain(chainName)
	if err != nil {
		return nil, err
	}
	if token != "" {
		if token, err = s.validToken(chainName, token); err != nil {
			return nil, err
		}
	}

	v, err := s.cache.Do("airdrop_amounts:"+chainName+":"+token, func() (any, error) {
		entries, err := s.scanIn(ctx, chainName)
		if err != nil {
			return nil, err
		}

		volume := decimal.Zero
		adjusted := decimal.Zero
		data := map[string]*AirdropPoint{}
		for _, e := range entries {
			if token != "" && e.asset != token {
				continue
			}
			price, err := s.oracle.GetHistoric(ctx, c.NativeCGID, e.date)
			if err != nil {
				return nil, err
			}
			point := data[e.date]
			if point == nil {
				point = &AirdropPoint{}
				data[e.date] = point
			}
			usd := e.bucket.Airdrops.Mul(price)
			point.Airdrop = point.Airdrop.Add(e.bucket.Airdrops)
			point.PriceUSD = point.PriceUSD.Add(usd)
			point.TxCount += e.bucket.TxCount
			volume = volume.Add(e.bucket.Airdrops)
			adjusted = adjusted.Add(usd)
		}

		spot, err := s.oracle.GetSpot(ctx, c.NativeCGID)
		if err != nil {
			return nil, err
		}
		return &AirdropReport{
			Stats: VolumeStats{
				Volume: volume,
				USD:    USDStats{Adjusted: adjusted, Current: volume.Mul(spot)},
			},
			Data:     data,
			GasToken: c.NativeCGID,
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*AirdropReport), nil
}

// ChartPoint is one day of one asset's series in the bridge chart.
type ChartPoint struct {
	Date    int64           `json:"date"`
	Price   decimal.Decimal `json:"price"`
	Volume  decimal.Decimal `json:"volume"`
	TxCount uint64          `json:"tx_count"`
}

// BridgeChart flattens a chain's bridge volume into one time series per
// asset, dates ascending.
func (s *Service) BridgeChart(ctx context.Context, chainName, direction string) (map[string][]ChartPoint, error) {
	if _, err := s.chain(chainName); err != nil {
		return nil, err
	}
	dir, err := parseDirection(direction)
	if err != nil {
		return nil, err
	}

	v, err := s.cache.Do("bridge_chart:"+chainName+":"+string(dir), func() (any, error) {
		res := map[string][]ChartPoint{}
		add := func(asset, date string, volume decimal.Decimal, txCount uint64) error {
			price, err := s.oracle.GetForAddress(ctx, chainName, asset, date)
			if err != nil {
				return err
			}
			day, err := time.Parse(models.DateFormat, date)
			if err != nil {
				return fmt.Errorf("corrupt bucket date %q: %w", date, err)
			}
			res[asset] = append(res[asset], ChartPoint{
				Date:    day.UTC().Unix(),
				Price:   price,
				Volume:  volume,
				TxCount: txCount,
			})
			return nil
		}

		switch dir {
		case models.DirIn:
			entries, err := s.scanIn(ctx, chainName)
			if err != nil {
				return nil, err
			}
			for _, e := range entries {
				if err := add(e.asset, e.date, e.bucket.Amount, e.bucket.TxCount); err != nil {
					return nil, err
				}
			}
		case models.DirOut:
			// OUT splits per destination; the chart sums them back per day.
			entries, err := s.scanOut(ctx, chainName)
			if err != nil {
				return nil, err
			}
			perDay := map[string]map[string]*outEntry{}
			for i := range entries {
				e := entries[i]
				if perDay[e.asset] == nil {
					perDay[e.asset] = map[string]*outEntry{}
				}
				if merged := perDay[e.asset][e.date]; merged != nil {
					merged.bucket.Amount = merged.bucket.Amount.Add(e.bucket.Amount)
					merged.bucket.TxCount += e.bucket.TxCount
				} else {
					perDay[e.asset][e.date] = &e
				}
			}
			for asset, days := range perDay {
				for date, e := range days {
					if err := add(asset, date, e.bucket.Amount, e.bucket.TxCount); err != nil {
						return nil, err
					}
				}
			}
		}

		for asset := range res {
			points := res[asset]
			sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })
			res[asset] = points
		}
		return res, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(map[string][]ChartPoint), nil
}
