package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"bridgescan/internal/config"
)

// Direction of a bridge event relative to the chain it was observed on.
type Direction string

const (
	DirIn  Direction = "IN"
	DirOut Direction = "OUT"
)

func (d Direction) Valid() bool { return d == DirIn || d == DirOut }

// DateFormat is the UTC calendar-date key format used across the store.
const DateFormat = "2006-01-02"

// DateOf buckets a block timestamp into its UTC calendar date.
func DateOf(ts time.Time) string {
	return ts.UTC().Format(DateFormat)
}

// BridgeOut is a user-initiated departure: tokens locked or burned here,
// destined for ToChainID.
type BridgeOut struct {
	Chain     string
	Date      string
	Asset     string
	ToChainID uint64
	Amount    decimal.Decimal
	Block     uint64
	TxHash    string
	TxIndex   uint
}

// BridgeIn is a validator-submitted arrival: tokens minted or released here.
type BridgeIn struct {
	Chain    string
	Date     string
	Asset    string
	Amount   decimal.Decimal
	Fee      decimal.Decimal
	GasPaid  decimal.Decimal
	GasPrice decimal.Decimal
	Airdrop  decimal.Decimal
	Block    uint64
	TxHash   string
	TxIndex  uint
}

// Pool swap sub-kinds.
const (
	SubKindSwapBase  = "swap_base"
	SubKindSwapNUSD  = "swap_nusd"
	SubKindAddRemove = "add_remove"
)

// PoolSwap covers TokenSwap, RemoveLiquidityOne and the add/remove events,
// normalized to volume and fee contributions.
type PoolSwap struct {
	Chain     string
	Date      string
	Pool      config.PoolKind
	SubKind   string
	Volume    decimal.Decimal
	LPFees    decimal.Decimal
	AdminFees decimal.Decimal
	Block     uint64
	TxHash    string
	TxIndex   uint
}

// PoolFeeChange records a NewSwapFee/NewAdminFee event. The day's last
// change wins; it does not accumulate.
type PoolFeeChange struct {
	Chain    string
	Date     string
	Pool     config.PoolKind
	Kind     string // "swap" or "admin"
	NewValue uint64
	Block    uint64
	TxIndex  uint
}

// Event is the canonical sum over everything the decoder emits.
type Event interface {
	BucketKey() string
	Position() (block uint64, txIndex uint)
}

func (e *BridgeOut) BucketKey() string {
	return fmt.Sprintf("%s:bridge:%s:%s:OUT:%d", e.Chain, e.Date, e.Asset, e.ToChainID)
}
func (e *BridgeOut) Position() (uint64, uint) { return e.Block, e.TxIndex }

func (e *BridgeIn) BucketKey() string {
	return fmt.Sprintf("%s:bridge:%s:%s:IN", e.Chain, e.Date, e.Asset)
}
func (e *BridgeIn) Position() (uint64, uint) { return e.Block, e.TxIndex }

func (e *PoolSwap) BucketKey() string {
	return fmt.Sprintf("%s:pool:%s:%s:%s", e.Chain, e.Date, e.Pool, e.SubKind)
}
func (e *PoolSwap) Position() (uint64, uint) { return e.Block, e.TxIndex }

func (e *PoolFeeChange) BucketKey() string {
	return fmt.Sprintf("%s:pool:%s:%s:newfee_%s", e.Chain, e.Date, e.Pool, e.Kind)
}
func (e *PoolFeeChange) Position() (uint64, uint) { return e.Block, e.TxIndex }

// ValidatorStats is the nested validator spend inside an IN bucket.
type ValidatorStats struct {
	GasPaid  decimal.Decimal `json:"gas_paid"`
	GasPrice decimal.Decimal `json:"gas_price"`
}

// BridgeInBucket is the stored shape of an IN aggregate.
type BridgeInBucket struct {
	Amount    decimal.Decimal `json:"amount"`
	TxCount   uint64          `json:"tx_count"`
	Fees      decimal.Decimal `json:"fees"`
	Airdrops  decimal.Decimal `json:"airdrops"`
	Validator ValidatorStats  `json:"validator"`
}

func (b *BridgeInBucket) Merge(e *BridgeIn) {
	b.Amount = b.Amount.Add(e.Amount)
	b.TxCount++
	b.Fees = b.Fees.Add(e.Fee)
	b.Airdrops = b.Airdrops.Add(e.Airdrop)
	b.Validator.GasPaid = b.Validator.GasPaid.Add(e.GasPaid)
	b.Validator.GasPrice = b.Validator.GasPrice.Add(e.GasPrice)
}

// BridgeOutBucket is the stored shape of an OUT aggregate.
type BridgeOutBucket struct {
	Amount  decimal.Decimal `json:"amount"`
	TxCount uint64          `json:"tx_count"`
}

func (b *BridgeOutBucket) Merge(e *BridgeOut) {
	b.Amount = b.Amount.Add(e.Amount)
	b.TxCount++
}

// PoolBucket is the stored shape of a pool-swap aggregate.
type PoolBucket struct {
	Volume    decimal.Decimal `json:"volume"`
	LPFees    decimal.Decimal `json:"lp_fees"`
	AdminFees decimal.Decimal `json:"admin_fees"`
	TxCount   uint64          `json:"tx_count"`
}

func (b *PoolBucket) Merge(e *PoolSwap) {
	b.Volume = b.Volume.Add(e.Volume)
	b.LPFees = b.LPFees.Add(e.LPFees)
	b.AdminFees = b.AdminFees.Add(e.AdminFees)
	b.TxCount++
}

// DateAnchor ties a calendar date to the first bridge block seen that day.
type DateAnchor struct {
	Block     uint64 `json:"block"`
	Timestamp int64  `json:"timestamp"`
}

// Marshal/Unmarshal keep bucket encoding in one place so every writer
// produces the same canonical JSON.

func MarshalBucket(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func UnmarshalBucket(s string, v any) error {
	return json.Unmarshal([]byte(s), v)
}

// Store key builders. Cursor namespaces follow the contract being scanned.
const (
	NamespaceLogs = "logs"
	NamespacePool = "pool"
)

func CursorBlockKey(chain, ns, address string) string {
	return fmt.Sprintf("%s:%s:%s:MAX_BLOCK_STORED", chain, ns, address)
}

func CursorTxIndexKey(chain, ns, address string) string {
	return fmt.Sprintf("%s:%s:%s:TX_INDEX", chain, ns, address)
}

func DateAnchorKey(chain, date string) string {
	return fmt.Sprintf("%s:date2block:%s", chain, date)
}

func SkippedKey(chain, ns string) string {
	return fmt.Sprintf("%s:%s:skipped", chain, ns)
}
