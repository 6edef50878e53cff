package decoder

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// ErrUnsupported marks a log or input that no layout variant could decode.
// Callers record the block to the skipped list and move on.
var ErrUnsupported = errors.New("decoder: unsupported layout")

// errLayoutMismatch is the internal signal that triggers the next fallback.
var errLayoutMismatch = errors.New("decoder: layout mismatch")

const wordSize = 32

// words splits ABI-encoded data into 32-byte words. A trailing partial word
// is a mismatch, not a hard error.
func words(data []byte) ([][]byte, error) {
	if len(data)%wordSize != 0 {
		return nil, errLayoutMismatch
	}
	out := make([][]byte, 0, len(data)/wordSize)
	for i := 0; i < len(data); i += wordSize {
		out = append(out, data[i:i+wordSize])
	}
	return out, nil
}

func wordAddress(w []byte) string {
	return strings.ToLower(common.BytesToAddress(w).Hex())
}

func wordBig(w []byte) *big.Int {
	return new(big.Int).SetBytes(w)
}

// OutRecord is a parsed OUT log before decimals resolution.
type OutRecord struct {
	Event     BridgeEvent
	To        string
	Token     string
	Amount    *big.Int
	ToChainID uint64
	// IndexTo is the destination pool token index for the swap/remove
	// variants; -1 when the event carries none.
	IndexTo int
}

// ParseOutLog decodes an OUT event from its log data. Layout is
// [chain_id | token | amount | ...], with `to` indexed in topics[1].
func ParseOutLog(event BridgeEvent, lg types.Log) (*OutRecord, error) {
	if len(lg.Topics) < 2 {
		return nil, fmt.Errorf("%w: missing to-address topic", ErrUnsupported)
	}
	ws, err := words(lg.Data)
	if err != nil || len(ws) < 3 {
		return nil, fmt.Errorf("%w: out data has %d words", ErrUnsupported, len(ws))
	}

	rec := &OutRecord{
		Event:     event,
		To:        wordAddress(lg.Topics[1].Bytes()),
		ToChainID: wordBig(ws[0]).Uint64(),
		Token:     wordAddress(ws[1]),
		Amount:    wordBig(ws[2]),
		IndexTo:   -1,
	}

	switch event {
	case EvTokenRedeemAndSwap, EvTokenDepositAndSwap:
		// [chain_id, token, amount, token_index_from, token_index_to, ...]
		if len(ws) < 5 {
			return nil, fmt.Errorf("%w: swap variant has %d words", ErrUnsupported, len(ws))
		}
		rec.IndexTo = int(wordBig(ws[4]).Int64())
	case EvTokenRedeemAndRemove:
		// [chain_id, token, amount, token_index_to, ...]
		if len(ws) < 4 {
			return nil, fmt.Errorf("%w: remove variant has %d words", ErrUnsupported, len(ws))
		}
		rec.IndexTo = int(wordBig(ws[3]).Int64())
	}
	return rec, nil
}

// InRecord is a parsed IN transaction input before decimals resolution.
type InRecord struct {
	Event       BridgeEvent
	To          string
	Token       string
	Amount      *big.Int
	Fee         *big.Int
	IndexTo     int
	SwapSuccess bool
}

// abiVariant selects which historical bridge ABI layout to parse against.
type abiVariant int

const (
	abiCurrent abiVariant = iota
	abiOld
	abiOlder
)

// ParseInInput decodes an IN event from the validator's calldata, walking
// the historical ABI layouts until one fits. Input layout is
// [selector | to | token | amount | fee | ...].
func ParseInInput(event BridgeEvent, input []byte) (*InRecord, error) {
	var lastErr error
	for _, variant := range []abiVariant{abiCurrent, abiOld, abiOlder} {
		rec, err := parseInVariant(event, input, variant)
		if err == nil {
			return rec, nil
		}
		if !errors.Is(err, errLayoutMismatch) {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("%w: %v", ErrUnsupported, lastErr)
}

func parseInVariant(event BridgeEvent, input []byte, variant abiVariant) (*InRecord, error) {
	if len(input) < 4 {
		return nil, errLayoutMismatch
	}
	ws, err := words(input[4:])
	if err != nil {
		return nil, err
	}

	// The earliest deployments took no explicit fee argument.
	minWords := 4
	if variant == abiOlder {
		minWords = 3
	}
	if len(ws) < minWords {
		return nil, errLayoutMismatch
	}

	rec := &InRecord{
		Event:   event,
		To:      wordAddress(ws[0]),
		Token:   wordAddress(ws[1]),
		Amount:  wordBig(ws[2]),
		Fee:     big.NewInt(0),
		IndexTo: -1,
	}
	if variant != abiOlder {
		rec.Fee = wordBig(ws[3])
	}

	switch event {
	case EvTokenMintAndSwap:
		// [..., fee, pool, token_index_from, token_index_to, min_dy, deadline]
		if len(ws) < 9 {
			return nil, errLayoutMismatch
		}
		rec.IndexTo = int(wordBig(ws[6]).Int64())
		rec.SwapSuccess = true
	case EvTokenWithdrawAndRemove:
		if len(ws) < 5 {
			return nil, errLayoutMismatch
		}
		idx := wordBig(ws[4])
		switch variant {
		case abiCurrent:
			// A value above the largest pool index means this word is
			// actually swapTokenAmount from an older deployment.
			if idx.Cmp(big.NewInt(3)) > 0 {
				return nil, errLayoutMismatch
			}
			rec.IndexTo = int(idx.Int64())
		case abiOld:
			// Older layout: [swap_token_amount, token_index_to, ...]
			if len(ws) < 6 {
				return nil, errLayoutMismatch
			}
			rec.IndexTo = int(wordBig(ws[5]).Int64())
		default:
			rec.IndexTo = int(idx.Int64())
		}
	}
	return rec, nil
}
