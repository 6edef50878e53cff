package decoder

import (
	"github.com/ethereum/go-ethereum/common"

	"bridgescan/internal/models"
)

// BridgeEvent enumerates every bridge topic the decoder understands.
// Unknown topics map to EvUnknown and are ignored upstream.
type BridgeEvent int

const (
	EvUnknown BridgeEvent = iota
	EvTokenRedeemAndSwap
	EvTokenMintAndSwap
	EvTokenRedeemAndRemove
	EvTokenRedeem
	EvTokenMint
	EvTokenDepositAndSwap
	EvTokenWithdrawAndRemove
	EvTokenDeposit
	EvTokenWithdraw
)

func (e BridgeEvent) String() string {
	switch e {
	case EvTokenRedeemAndSwap:
		return "TokenRedeemAndSwap"
	case EvTokenMintAndSwap:
		return "TokenMintAndSwap"
	case EvTokenRedeemAndRemove:
		return "TokenRedeemAndRemove"
	case EvTokenRedeem:
		return "TokenRedeem"
	case EvTokenMint:
		return "TokenMint"
	case EvTokenDepositAndSwap:
		return "TokenDepositAndSwap"
	case EvTokenWithdrawAndRemove:
		return "TokenWithdrawAndRemove"
	case EvTokenDeposit:
		return "TokenDeposit"
	case EvTokenWithdraw:
		return "TokenWithdraw"
	}
	return "Unknown"
}

// Direction reports which side of the bridge emitted the event.
func (e BridgeEvent) Direction() models.Direction {
	switch e {
	case EvTokenMintAndSwap, EvTokenMint, EvTokenWithdrawAndRemove, EvTokenWithdraw:
		return models.DirIn
	default:
		return models.DirOut
	}
}

// Bridge topic0 hashes. These are keccak256 of the event signatures and are
// stable across every bridge deployment.
var bridgeTopics = map[common.Hash]BridgeEvent{
	common.HexToHash("0x91f25e9be0134ec851830e0e76dc71e06f9dade75a9b84e9524071dbbc319425"): EvTokenRedeemAndSwap,
	common.HexToHash("0x4f56ec39e98539920503fd54ee56ae0cbebe9eb15aa778f18de67701eeae7c65"): EvTokenMintAndSwap,
	common.HexToHash("0x9a7024cde1920aa50cdde09ca396229e8c4d530d5cfdc6233590def70a94408c"): EvTokenRedeemAndRemove,
	common.HexToHash("0xdc5bad4651c5fbe9977a696aadc65996c468cde1448dd468ec0d83bf61c4b57c"): EvTokenRedeem,
	common.HexToHash("0xbf14b9fde87f6e1c29a7e0787ad1d0d64b4648d8ae63da21524d9fd0f283dd38"): EvTokenMint,
	common.HexToHash("0x79c15604b92ef54d3f61f0c40caab8857927ca3d5092367163b4562c1699eb5f"): EvTokenDepositAndSwap,
	common.HexToHash("0xc1a608d0f8122d014d03cc915a91d98cef4ebaf31ea3552320430cba05211b6d"): EvTokenWithdrawAndRemove,
	common.HexToHash("0xda5273705dbef4bf1b902a131c2eac086b7e1476a8ab0cb4da08af1fe1bd8e3b"): EvTokenDeposit,
	common.HexToHash("0x8b0afdc777af6946e53045a4a75212769075d30455a212ac51c9b16f9c5c9b26"): EvTokenWithdraw,
}

// BridgeEventByTopic resolves a log's topic0; EvUnknown for foreign topics.
func BridgeEventByTopic(topic0 common.Hash) BridgeEvent {
	return bridgeTopics[topic0]
}

// BridgeTopicList returns every bridge topic0, for eth_getLogs filters.
func BridgeTopicList() []common.Hash {
	out := make([]common.Hash, 0, len(bridgeTopics))
	for h := range bridgeTopics {
		out = append(out, h)
	}
	return out
}

// PoolEventKind enumerates the pool topics.
type PoolEventKind int

const (
	PoolEvUnknown PoolEventKind = iota
	PoolEvTokenSwap
	PoolEvNewSwapFee
	PoolEvNewAdminFee
	PoolEvAddLiquidity
	PoolEvRemoveLiquidityOne
	PoolEvRemoveLiquidityImbalance
)

var poolTopics = map[common.Hash]PoolEventKind{
	common.HexToHash("0xc6c1e0630dbe9130cc068028486c0d118ddcea348550819defd5cb8c257f8a38"): PoolEvTokenSwap,
	common.HexToHash("0xd88ea5155021c6f8dafa1a741e173f595cdf77ce7c17d43342131d7f06afdfe5"): PoolEvNewSwapFee,
	common.HexToHash("0xab599d640ca80cde2b09b128a4154a8dfe608cb80f4c9399c8b954b01fd35f38"): PoolEvNewAdminFee,
	common.HexToHash("0x189c623b666b1b45b83d7178f39b8c087cb09774317ca2f53c2d3c3726f222a2"): PoolEvAddLiquidity,
	common.HexToHash("0x43fb02998f4e03da2e0e6fff53fdbf0c40a9f45f145dc377fc30615d7d7a8a64"): PoolEvRemoveLiquidityOne,
	common.HexToHash("0x3631c28b1f9dd213e0319fb167b554d76b6c283a41143eb400a0d1adb1af1755"): PoolEvRemoveLiquidityImbalance,
}

// PoolEventByTopic resolves a pool log's topic0.
func PoolEventByTopic(topic0 common.Hash) PoolEventKind {
	return poolTopics[topic0]
}

// PoolTopicList returns every pool topic0, for eth_getLogs filters.
func PoolTopicList() []common.Hash {
	out := make([]common.Hash, 0, len(poolTopics))
	for h := range poolTopics {
		out = append(out, h)
	}
	return out
}
