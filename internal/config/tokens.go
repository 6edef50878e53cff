package config

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CoinGecko identifiers the price oracle knows about. The daily price job
// iterates this list; anything else is resolved lazily via AddressToCGID.
const (
	CGIDSyn      = "synapse-2"
	CGIDNRV      = "nerve-finance"
	CGIDEth      = "ethereum"
	CGIDUSDT     = "tether"
	CGIDUSDC     = "usd-coin"
	CGIDBUSD     = "binance-usd"
	CGIDDAI      = "dai"
	CGIDHigh     = "highstreet"
	CGIDDog      = "the-doge-nft"
	CGIDMIM      = "magic-internet-money"
	CGIDFrax     = "frax"
	CGIDBNB      = "binancecoin"
	CGIDAvax     = "avalanche-2"
	CGIDOne      = "harmony"
	CGIDMatic    = "matic-network"
	CGIDFtm      = "fantom"
	CGIDMovr     = "moonriver"
	CGIDNFD      = "feisty-doge-nft"
	CGIDJump     = "hyperjump"
	CGIDOhm      = "olympus"
	CGIDWSOhm    = "wrapped-staked-olympus"
	CGIDJgn      = "juggernaut"
	CGIDGOhm     = "governance-ohm"
	CGIDSolar    = "solarbeam"
	CGIDGmx      = "gmx"
	CGIDMoonbeam = "moonbeam"
)

// AllCGIDs is the roster the daily price refresh walks.
var AllCGIDs = []string{
	CGIDSyn, CGIDNRV, CGIDEth, CGIDUSDT, CGIDUSDC, CGIDBUSD, CGIDDAI,
	CGIDHigh, CGIDDog, CGIDMIM, CGIDFrax, CGIDBNB, CGIDAvax, CGIDOne,
	CGIDMatic, CGIDFtm, CGIDMovr, CGIDNFD, CGIDJump, CGIDOhm, CGIDWSOhm,
	CGIDJgn, CGIDGOhm, CGIDSolar, CGIDGmx, CGIDMoonbeam,
}

// TokenDecimals seeds the (chain, address) → decimals table. Tokens missing
// here are learned at runtime from the bridge-config contract.
var TokenDecimals = map[string]map[string]int{
	"ethereum": {
		"0x0f2d719407fdbeff09d87557abb7232601fd9f29": 18, // SYN
		"0x1b84765de8b7566e4ceaf4d0fd3c5af52d3dde4f": 18, // nUSD
		"0x71ab77b7dbb4fa7e017bc15090b2163221420282": 18, // HIGH
		"0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2": 18, // WETH
		"0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48": 6,  // USDC
		"0x6b175474e89094c44da98b954eedeac495271d0f": 18, // DAI
		"0xdac17f958d2ee523a2206206994597c13d831ec7": 6,  // USDT
		"0xbaac2b4491727d78d2b78815144570b9f2fe8899": 18, // DOG
		"0x853d955acef822db058eb8505911ed77f175b99e": 18, // FRAX
		"0x0ab87046fbb341d058f17cbc4c1133f25a20a52f": 18, // gOHM
	},
	"bsc": {
		"0xa4080f1778e69467e905b8d6f72f6e441f9e9484": 18, // SYN
		"0x23b891e5c62e0955ae2bd185990103928ab817b3": 18, // nUSD
		"0xf0b8b631145d393a767b4387d08aa09969b2dfed": 18, // USD-LP
		"0xe9e7cea3dedca5984780bafc599bd69add087d56": 18, // BUSD
		"0x8ac76a51cc950d9822d68b83fe1ad97b32cd580d": 18, // USDC
		"0x55d398326f99059ff775485246999027b3197955": 18, // BSC-USD
		"0xaa88c603d142c371ea0eac8756123c5805edee03": 18, // DOG
		"0x5f4bde007dc06b867f86ebfe4802e34a1ffeed63": 18, // HIGH
		"0x0fe9778c005a5a6115cbe12b0568a2d50b765a51": 18, // NFD
		"0x42f6f551ae042cbe50c739158b4f0cac0edb9096": 18, // NRV
		"0x88918495892baf4536611e38e75d771dc6ec0863": 18, // gOHM
	},
	"polygon": {
		"0xf8f9efc0db77d8881500bb06ff5d6abc3070e695": 18, // SYN
		"0xb6c473756050de474286bed418b77aeac39b02af": 18, // nUSD
		"0x8f3cf7ad23cd3cadbd9735aff958023239c6a063": 18, // DAI
		"0x2791bca1f2de4661ed88a30c99a7a9449aa84174": 6,  // USDC
		"0xc2132d05d31c914a87c6611c10748aeb04b58e8f": 6,  // USDT
		"0xd8ca34fd379d9ca3c6ee3b3905678320f5b45195": 18, // gOHM
		"0x7ceb23fd6bc0add59e62ac25578270cff1b9f619": 18, // WETH
	},
	"avalanche": {
		"0x1f1e7c893855525b303f99bdf5c3c05be09ca251": 18, // SYN
		"0xcfc37a6ab183dd4aed08c204d1c2773c0b1bdf46": 18, // nUSD
		"0xd586e7f844cea2f87f50152665bcbc2c279d8d70": 18, // DAI.e
		"0xa7d7079b0fead91f3e65f86e8915cb59c1a4c664": 6,  // USDC.e
		"0xc7198437980c041c805a1edcba50c1ce5db95118": 6,  // USDT.e
		"0x19e1ae0ee35c0404f835521146206595d37981ae": 18, // nETH
		"0x53f7c5869a859f0aec3d334ee8b4cf01e3492f21": 18, // avWETH
		"0x62edc0692bd897d2295872a9ffcac5425011c661": 18, // GMX
	},
	"arbitrum": {
		"0x080f6aed32fc474dd5717105dba5ea57268f46eb": 18, // SYN
		"0x2913e812cf0dcca30fb28e6cac3d2dcff4497688": 18, // nUSD
		"0x3ea9b0ab55f34fb188824ee288ceaefc63cf908e": 18, // nETH
		"0x82af49447d8a07e3bd95bd0d56f35241523fbab1": 18, // WETH
		"0xff970a61a04b1ca14834a43f5de4533ebddb5cc8": 6,  // USDC
		"0xfd086bc7cd5c481dcc9c85ebe478a1c0b69fcbb9": 6,  // USDT
		"0xfea7a6a0b346362bf88a9e4a88416b77a57d6c2a": 18, // MIM
	},
	"fantom": {
		"0xe55e19fb4f2d85af758950957714292dac1e25b2": 18, // SYN
		"0xed2a7edd7413021d440b09d654f3b87712abab66": 18, // nUSD
		"0x82f0b8b456c1a451378467398982d4834b6829c1": 18, // MIM
		"0x04068da6c83afcfa0e13ba15a6696662335d5b75": 6,  // USDC
		"0x049d68029688eabf473097a2fc38ef61633a3c7a": 6,  // fUSDT
	},
	"harmony": {
		"0xe55e19fb4f2d85af758950957714292dac1e25b2": 18, // SYN
		"0xed2a7edd7413021d440b09d654f3b87712abab66": 18, // nUSD
		"0xef977d2f931c1978db5f6747666fa1eacb0d0339": 18, // 1DAI
		"0x985458e523db3d53125813ed68c274899e9dfab4": 6,  // 1USDC
		"0x3c2b8be99c50593081eaa2a724f0b8285f5aba8f": 6,  // 1USDT
		"0xcf664087a5bb0237a0bad6742852ec6c8d69a27a": 18, // WONE
	},
	"boba": {
		"0xb554a55358ff0382fb21f0a478c3546d1106be8c": 18, // SYN
		"0x6b4712ae9797c199edd44f897ca09bc57628a1cf": 18, // nUSD
		"0xf74195bb8a5cf652411867c5c2c5b8c2a402be35": 18, // DAI
		"0x5de1677344d3cb0d7d465c10b72a8f60699c062d": 6,  // USDT
		"0x66a2a913e447d6b4bf33efbec43aaef87890fbbc": 6,  // USDC
		"0x96419929d7949d6a801a6909c145c8eef6a40431": 18, // nETH
		"0xd203de32170130082896b4111edf825a4774c18e": 18, // WETH
	},
	"moonriver": {
		"0xd80d8688b02b3fd3afb81cdb124f188bb5ad0445": 18, // SYN
		"0xe96ac70907fff3efee79f502c985a7a21bce407d": 18, // synFRAX
		"0x76906411d07815491a5e577022757ad941fb5066": 18, // SOLAR
	},
	"optimism": {
		"0x5a5fff6f753d7c11a56a52fe47a177a87e431655": 18, // SYN
		"0x809dc529f07651bd43a172e8db6f4a7a0d771036": 18, // nETH
		"0x121ab82b49b2bc4c7901ca46b8277962b4350204": 18, // WETH
	},
	"aurora": {
		"0xd80d8688b02b3fd3afb81cdb124f188bb5ad0445": 18, // SYN
		"0x07379565cd8b0cae7c60dc78e7f601b34af2a21c": 18, // nUSD
		"0xb12bfca5a55806aaf64e99521918a4bf0fc40802": 6,  // USDC
		"0x4988a896b1227218e4a686fde5eabdcabd91571f": 6,  // USDT
	},
	"moonbeam": {
		"0xf44938b0125a6662f9536281ad2cd6c499f22004": 18, // SYN
		"0x0db6729c03c85b0708166ca92801bcb5cac781fc": 18, // SOLAR
		"0x3192ae73315c3634ffa217f71cf6cbc30fee349a": 18, // WETH
	},
}

// AddressToCGID resolves a token address to its CoinGecko id per chain.
var AddressToCGID = map[string]map[string]string{
	"ethereum": {
		"0x71ab77b7dbb4fa7e017bc15090b2163221420282": CGIDHigh,
		"0x0f2d719407fdbeff09d87557abb7232601fd9f29": CGIDSyn,
		"0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2": CGIDEth,
		"0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48": CGIDUSDC,
		"0x6b175474e89094c44da98b954eedeac495271d0f": CGIDDAI,
		"0xdac17f958d2ee523a2206206994597c13d831ec7": CGIDUSDT,
		"0xbaac2b4491727d78d2b78815144570b9f2fe8899": CGIDDog,
		"0x853d955acef822db058eb8505911ed77f175b99e": CGIDFrax,
		"0xca76543cf381ebbb277be79574059e32108e3e65": CGIDWSOhm,
		"0x0ab87046fbb341d058f17cbc4c1133f25a20a52f": CGIDGOhm,
	},
	"bsc": {
		"0xe9e7cea3dedca5984780bafc599bd69add087d56": CGIDBUSD,
		"0x8ac76a51cc950d9822d68b83fe1ad97b32cd580d": CGIDUSDC,
		"0xaa88c603d142c371ea0eac8756123c5805edee03": CGIDDog,
		"0xa4080f1778e69467e905b8d6f72f6e441f9e9484": CGIDSyn,
		"0x5f4bde007dc06b867f86ebfe4802e34a1ffeed63": CGIDHigh,
		"0x55d398326f99059ff775485246999027b3197955": CGIDUSDT,
		"0x0fe9778c005a5a6115cbe12b0568a2d50b765a51": CGIDNFD,
		"0x42f6f551ae042cbe50c739158b4f0cac0edb9096": CGIDNRV,
		"0xc13b7a43223bb9bf4b69bd68ab20ca1b79d81c75": CGIDJgn,
		"0x88918495892baf4536611e38e75d771dc6ec0863": CGIDGOhm,
	},
	"polygon": {
		"0xf8f9efc0db77d8881500bb06ff5d6abc3070e695": CGIDSyn,
		"0x8f3cf7ad23cd3cadbd9735aff958023239c6a063": CGIDDAI,
		"0x2791bca1f2de4661ed88a30c99a7a9449aa84174": CGIDUSDC,
		"0xc2132d05d31c914a87c6611c10748aeb04b58e8f": CGIDUSDT,
		"0x0a5926027d407222f8fe20f24cb16e103f617046": CGIDNFD,
		"0xd8ca34fd379d9ca3c6ee3b3905678320f5b45195": CGIDGOhm,
		"0xeee3371b89fc43ea970e908536fcddd975135d8a": CGIDDog,
		"0x48a34796653afdaa1647986b33544c911578e767": CGIDFrax,
		"0x7ceb23fd6bc0add59e62ac25578270cff1b9f619": CGIDEth,
	},
	"avalanche": {
		"0x1f1e7c893855525b303f99bdf5c3c05be09ca251": CGIDSyn,
		"0xd586e7f844cea2f87f50152665bcbc2c279d8d70": CGIDDAI,
		"0xa7d7079b0fead91f3e65f86e8915cb59c1a4c664": CGIDUSDC,
		"0xc7198437980c041c805a1edcba50c1ce5db95118": CGIDUSDT,
		"0xf1293574ee43950e7a8c9f1005ff097a9a713959": CGIDNFD,
		"0x19e1ae0ee35c0404f835521146206595d37981ae": CGIDEth,
		"0x321e7092a180bb43555132ec53aaa65a5bf84251": CGIDGOhm,
		"0xcc5672600b948df4b665d9979357bef3af56b300": CGIDFrax,
		"0x53f7c5869a859f0aec3d334ee8b4cf01e3492f21": CGIDEth,
		"0x62edc0692bd897d2295872a9ffcac5425011c661": CGIDGmx,
	},
	"arbitrum": {
		"0x080f6aed32fc474dd5717105dba5ea57268f46eb": CGIDSyn,
		"0x3ea9b0ab55f34fb188824ee288ceaefc63cf908e": CGIDEth,
		"0xff970a61a04b1ca14834a43f5de4533ebddb5cc8": CGIDUSDC,
		"0xfd086bc7cd5c481dcc9c85ebe478a1c0b69fcbb9": CGIDUSDT,
		"0xfea7a6a0b346362bf88a9e4a88416b77a57d6c2a": CGIDMIM,
		"0x82af49447d8a07e3bd95bd0d56f35241523fbab1": CGIDEth,
		"0x8d9ba570d6cb60c7e3e0f31343efe75ab8e65fb1": CGIDGOhm,
		"0x85662fd123280827e11c59973ac9fcbe838dc3b4": CGIDFrax,
		"0xfc5a1a6eb076a2c7ad06ed22c90d7e710e35ad0a": CGIDGmx,
	},
	"fantom": {
		"0xe55e19fb4f2d85af758950957714292dac1e25b2": CGIDSyn,
		"0x82f0b8b456c1a451378467398982d4834b6829c1": CGIDMIM,
		"0x04068da6c83afcfa0e13ba15a6696662335d5b75": CGIDUSDC,
		"0x049d68029688eabf473097a2fc38ef61633a3c7a": CGIDUSDT,
		"0x91fa20244fb509e8289ca630e5db3e9166233fdc": CGIDGOhm,
		"0x1852f70512298d56e9c8fdd905e02581e04ddb2a": CGIDFrax,
	},
	"harmony": {
		"0xe55e19fb4f2d85af758950957714292dac1e25b2": CGIDSyn,
		"0xef977d2f931c1978db5f6747666fa1eacb0d0339": CGIDDAI,
		"0x985458e523db3d53125813ed68c274899e9dfab4": CGIDUSDC,
		"0x3c2b8be99c50593081eaa2a724f0b8285f5aba8f": CGIDUSDT,
		"0xcf664087a5bb0237a0bad6742852ec6c8d69a27a": CGIDOne,
		"0x1852f70512298d56e9c8fdd905e02581e04ddb2a": CGIDFrax,
		"0xfa7191d292d5633f702b0bd7e3e3bccc0e633200": CGIDFrax,
		"0x67c10c397dd0ba417329543c1a40eb48aaa7cd00": CGIDGOhm,
		"0x0b5740c6b4a97f90ef2f0220651cca420b868ffb": CGIDEth,
	},
	"boba": {
		"0xb554a55358ff0382fb21f0a478c3546d1106be8c": CGIDSyn,
		"0xf74195bb8a5cf652411867c5c2c5b8c2a402be35": CGIDDAI,
		"0x5de1677344d3cb0d7d465c10b72a8f60699c062d": CGIDUSDT,
		"0x66a2a913e447d6b4bf33efbec43aaef87890fbbc": CGIDUSDC,
		"0x96419929d7949d6a801a6909c145c8eef6a40431": CGIDEth,
		"0xd203de32170130082896b4111edf825a4774c18e": CGIDEth,
		"0xd22c0a4af486c7fa08e282e9eb5f30f9aaa62c95": CGIDGOhm,
	},
	"moonriver": {
		"0xd80d8688b02b3fd3afb81cdb124f188bb5ad0445": CGIDSyn,
		"0xe96ac70907fff3efee79f502c985a7a21bce407d": CGIDFrax,
		"0x3bf21ce864e58731b6f28d68d5928bcbeb0ad172": CGIDGOhm,
		"0x76906411d07815491a5e577022757ad941fb5066": CGIDSolar,
	},
	"optimism": {
		"0x5a5fff6f753d7c11a56a52fe47a177a87e431655": CGIDSyn,
		"0x809dc529f07651bd43a172e8db6f4a7a0d771036": CGIDEth,
		"0x121ab82b49b2bc4c7901ca46b8277962b4350204": CGIDEth,
	},
	"aurora": {
		"0xd80d8688b02b3fd3afb81cdb124f188bb5ad0445": CGIDSyn,
		"0xb12bfca5a55806aaf64e99521918a4bf0fc40802": CGIDUSDC,
		"0x4988a896b1227218e4a686fde5eabdcabd91571f": CGIDUSDT,
	},
	"moonbeam": {
		"0xf44938b0125a6662f9536281ad2cd6c499f22004": CGIDSyn,
		"0x0db6729c03c85b0708166ca92801bcb5cac781fc": CGIDSolar,
		"0xd2666441443daa61492ffe0f37717578714a4521": CGIDGOhm,
		"0xdd47a348ab60c61ad6b60ca8c31ea5e00ebfab4f": CGIDFrax,
		"0x3192ae73315c3634ffa217f71cf6cbc30fee349a": CGIDEth,
		"0xbf180c122d85831dcb55dc673ab47c8ab9bcefb4": CGIDEth,
	},
}

// CustomPrice pins addresses whose price is fixed by construction
// (stablecoins and LP shares at 1, a couple of dead tokens at 0 or 0.01).
var CustomPrice = map[string]map[string]decimal.Decimal{
	"ethereum": {
		"0x1b84765de8b7566e4ceaf4d0fd3c5af52d3dde4f": decimal.NewFromInt(1), // nUSD
	},
	"bsc": {
		"0x23b891e5c62e0955ae2bd185990103928ab817b3": decimal.NewFromInt(1), // nUSD
		"0xf0b8b631145d393a767b4387d08aa09969b2dfed": decimal.NewFromInt(1), // USD-LP
		"0x55d398326f99059ff775485246999027b3197955": decimal.NewFromInt(1), // BSC-USD
		"0xdfd717f4e942931c98053d5453f803a1b52838db": decimal.Zero,
		"0x130025ee738a66e691e6a7a62381cb33c6d9ae83": decimal.RequireFromString("0.01"), // JUMP
	},
	"polygon": {
		"0xb6c473756050de474286bed418b77aeac39b02af": decimal.NewFromInt(1), // nUSD
		"0x81067076dcb7d3168ccf7036117b9d72051205e2": decimal.Zero,
		"0x128a587555d1148766ef4327172129b50ec66e5d": decimal.NewFromInt(1), // USD-LP
	},
	"avalanche": {
		"0xcfc37a6ab183dd4aed08c204d1c2773c0b1bdf46": decimal.NewFromInt(1), // nUSD
		"0x55904f416586b5140a0f666cf5acf320adf64846": decimal.NewFromInt(1), // USD-LP
	},
	"arbitrum": {
		"0x2913e812cf0dcca30fb28e6cac3d2dcff4497688": decimal.NewFromInt(1), // nUSD
		"0xe264cb5a941f98a391b9d5244378edf79bf5c19e": decimal.NewFromInt(1), // USD-LP
	},
	"fantom": {
		"0xed2a7edd7413021d440b09d654f3b87712abab66": decimal.NewFromInt(1),             // nUSD
		"0x78de9326792ce1d6eca0c978753c6953cdeedd73": decimal.RequireFromString("0.01"), // JUMP
		"0x43cf58380e69594fa2a5682de484ae00edd83e94": decimal.NewFromInt(1),             // USD-LP
	},
	"harmony": {
		"0xed2a7edd7413021d440b09d654f3b87712abab66": decimal.NewFromInt(1), // nUSD
	},
	"boba": {
		"0x6b4712ae9797c199edd44f897ca09bc57628a1cf": decimal.NewFromInt(1), // nUSD
	},
	"aurora": {
		"0x07379565cd8b0cae7c60dc78e7f601b34af2a21c": decimal.NewFromInt(1), // nUSD
	},
	"moonriver": {},
	"optimism":  {},
	"moonbeam":  {},
}

// TokensInPool lists each pool's tokens by swap index. nUSD (or nETH) is
// always index 0 on non-Ethereum chains; the Ethereum stable pool holds the
// three plain stables.
var TokensInPool = map[string]map[PoolKind][]string{
	"ethereum": {
		PoolNUSD: {
			"0x6b175474e89094c44da98b954eedeac495271d0f", // DAI
			"0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48", // USDC
			"0xdac17f958d2ee523a2206206994597c13d831ec7", // USDT
		},
	},
	"avalanche": {
		PoolNUSD: {
			"0xcfc37a6ab183dd4aed08c204d1c2773c0b1bdf46", // nUSD
			"0xd586e7f844cea2f87f50152665bcbc2c279d8d70", // DAI.e
			"0xa7d7079b0fead91f3e65f86e8915cb59c1a4c664", // USDC.e
			"0xc7198437980c041c805a1edcba50c1ce5db95118", // USDT.e
		},
		PoolNETH: {
			"0x19e1ae0ee35c0404f835521146206595d37981ae", // nETH
			"0x53f7c5869a859f0aec3d334ee8b4cf01e3492f21", // avWETH
		},
	},
	"bsc": {
		PoolNUSD: {
			"0x23b891e5c62e0955ae2bd185990103928ab817b3", // nUSD
			"0xe9e7cea3dedca5984780bafc599bd69add087d56", // BUSD
			"0x8ac76a51cc950d9822d68b83fe1ad97b32cd580d", // USDC
			"0x55d398326f99059ff775485246999027b3197955", // BSC-USD
		},
	},
	"polygon": {
		PoolNUSD: {
			"0xb6c473756050de474286bed418b77aeac39b02af", // nUSD
			"0x8f3cf7ad23cd3cadbd9735aff958023239c6a063", // DAI
			"0x2791bca1f2de4661ed88a30c99a7a9449aa84174", // USDC
			"0xc2132d05d31c914a87c6611c10748aeb04b58e8f", // USDT
		},
	},
	"arbitrum": {
		PoolNUSD: {
			"0x2913e812cf0dcca30fb28e6cac3d2dcff4497688", // nUSD
			"0xfea7a6a0b346362bf88a9e4a88416b77a57d6c2a", // MIM
			"0xff970a61a04b1ca14834a43f5de4533ebddb5cc8", // USDC
			"0xfd086bc7cd5c481dcc9c85ebe478a1c0b69fcbb9", // USDT
		},
		PoolNETH: {
			"0x3ea9b0ab55f34fb188824ee288ceaefc63cf908e", // nETH
			"0x82af49447d8a07e3bd95bd0d56f35241523fbab1", // WETH
		},
	},
	"fantom": {
		PoolNUSD: {
			"0xed2a7edd7413021d440b09d654f3b87712abab66", // nUSD
			"0x82f0b8b456c1a451378467398982d4834b6829c1", // MIM
			"0x04068da6c83afcfa0e13ba15a6696662335d5b75", // USDC
			"0x049d68029688eabf473097a2fc38ef61633a3c7a", // fUSDT
		},
	},
	"harmony": {
		PoolNUSD: {
			"0xed2a7edd7413021d440b09d654f3b87712abab66", // nUSD
			"0xef977d2f931c1978db5f6747666fa1eacb0d0339", // 1DAI
			"0x985458e523db3d53125813ed68c274899e9dfab4", // 1USDC
			"0x3c2b8be99c50593081eaa2a724f0b8285f5aba8f", // 1USDT
		},
	},
	"boba": {
		PoolNUSD: {
			"0x6b4712ae9797c199edd44f897ca09bc57628a1cf", // nUSD
			"0xf74195bb8a5cf652411867c5c2c5b8c2a402be35", // DAI
			"0x66a2a913e447d6b4bf33efbec43aaef87890fbbc", // USDC
			"0x5de1677344d3cb0d7d465c10b72a8f60699c062d", // USDT
		},
		PoolNETH: {
			"0x96419929d7949d6a801a6909c145c8eef6a40431", // nETH
			"0xd203de32170130082896b4111edf825a4774c18e", // WETH
		},
	},
	"optimism": {
		PoolNETH: {
			"0x809dc529f07651bd43a172e8db6f4a7a0d771036", // nETH
			"0x121ab82b49b2bc4c7901ca46b8277962b4350204", // WETH
		},
	},
	"aurora": {
		PoolNUSD: {
			"0x07379565cd8b0cae7c60dc78e7f601b34af2a21c", // nUSD
			"0xb12bfca5a55806aaf64e99521918a4bf0fc40802", // USDC
			"0x4988a896b1227218e4a686fde5eabdcabd91571f", // USDT
		},
	},
}

// Decimals resolves a token's decimals from the seed table.
func Decimals(chain, address string) (int, bool) {
	m, ok := TokenDecimals[chain]
	if !ok {
		return 0, false
	}
	d, ok := m[strings.ToLower(address)]
	return d, ok
}
