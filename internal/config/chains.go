package config

import "strings"

// Chain describes one EVM chain in the fixed roster: its bridge contract,
// optional stable/eth pools, the log-window policy and where scanning starts.
// Addresses are stored lowercased with the 0x prefix.
type Chain struct {
	Name    string
	ChainID uint64
	RPCEnv  string // env var holding the RPC endpoint

	Bridge           string
	BridgeStartBlock uint64

	StablePool           string
	StablePoolStartBlock uint64
	EthPool              string
	EthPoolStartBlock    uint64

	// MaxBlocks bounds a single eth_getLogs window.
	MaxBlocks uint64

	// NeedsPoA is set for chains whose RPC returns PoA-style headers.
	NeedsPoA bool

	// NativeCGID prices validator gas and airdrops (what gas is paid in).
	NativeCGID string

	Treasury string
}

// DefaultMaxBlocks applies when a chain has no explicit window policy.
const DefaultMaxBlocks = 5000

// Chains is the fixed roster. Built once at startup, read-only afterwards.
var Chains = []Chain{
	{
		Name: "ethereum", ChainID: 1, RPCEnv: "ETH_RPC",
		Bridge: "0x2796317b0ff8538f253012862c06787adfb8ceb6", BridgeStartBlock: 13136427,
		StablePool: "0x1116898dda4015ed8ddefb84b6e8bc24528af2d8", StablePoolStartBlock: 13033711,
		MaxBlocks: 1024, NativeCGID: "ethereum",
		Treasury: "0x67f60b0891ebd842ebe55e4ccca1098d7aac1a55",
	},
	{
		Name: "avalanche", ChainID: 43114, RPCEnv: "AVAX_RPC",
		Bridge: "0xc05e61d0e7a63d27546389b7ad62fdff5a91aace", BridgeStartBlock: 3376709,
		StablePool: "0xed2a7edd7413021d440b09d654f3b87712abab66", StablePoolStartBlock: 6619002,
		EthPool: "0x77a7e60555bc18b4be44c181b2575eee46212d44", EthPoolStartBlock: 7378400,
		MaxBlocks: DefaultMaxBlocks, NeedsPoA: true, NativeCGID: "avalanche-2",
		Treasury: "0xd7aa9ba6caac7b0436c91396f22ca5a7f31664fc",
	},
	{
		Name: "bsc", ChainID: 56, RPCEnv: "BSC_RPC",
		Bridge: "0xd123f70ae324d34a9e76b67a27bf77593ba8749f", BridgeStartBlock: 10065475,
		StablePool: "0x28ec0b36f0819ecb5005cab836f4ed5a2eca4d13", StablePoolStartBlock: 12431591,
		MaxBlocks: 1024, NeedsPoA: true, NativeCGID: "binancecoin",
		Treasury: "0x0056580b0e8136c482b03760295f912279170d46",
	},
	{
		Name: "polygon", ChainID: 137, RPCEnv: "POLYGON_RPC",
		Bridge: "0x8f5bbb2bb8c2ee94639e55d5f41de9b4839c1280", BridgeStartBlock: 18026806,
		StablePool: "0x85fcd7dd0a1e1a9fcd5fd886ed522de8221c3ee5", StablePoolStartBlock: 21071348,
		MaxBlocks: 2048, NeedsPoA: true, NativeCGID: "matic-network",
		Treasury: "0xbdc6971ca0c6ceb9a23a9a6ce16ddbd9c1e83f63",
	},
	{
		Name: "arbitrum", ChainID: 42161, RPCEnv: "ARB_RPC",
		Bridge: "0x6f4e8eba4d337f874ab57478acc2cb5bacdc19c9", BridgeStartBlock: 657404,
		StablePool: "0x0db3fe3b770c95a0b99d1ed6f2627933466c0dd8", StablePoolStartBlock: 2876718,
		EthPool: "0xa067668661c84476afcdc6fa5d758c4c01c34352", EthPoolStartBlock: 762758,
		MaxBlocks: DefaultMaxBlocks, NativeCGID: "ethereum",
		Treasury: "0x940279d22eb27415f2b0a0ee6287749b5b19f43d",
	},
	{
		Name: "fantom", ChainID: 250, RPCEnv: "FTM_RPC",
		Bridge: "0xaf41a65f786339e7911f4acdad6bd49426f2dc6b", BridgeStartBlock: 18503502,
		StablePool: "0x2913e812cf0dcca30fb28e6cac3d2dcff4497688", StablePoolStartBlock: 21297076,
		MaxBlocks: DefaultMaxBlocks, NativeCGID: "fantom",
		Treasury: "0x224002f80852acdd0f32b79ac0c9f4e3d511c2db",
	},
	{
		Name: "harmony", ChainID: 1666600000, RPCEnv: "HARMONY_RPC",
		Bridge: "0xaf41a65f786339e7911f4acdad6bd49426f2dc6b", BridgeStartBlock: 18646320,
		StablePool: "0x3ea9b0ab55f34fb188824ee288ceaefc63cf908e", StablePoolStartBlock: 19163634,
		MaxBlocks: 1024, NativeCGID: "harmony",
		Treasury: "0x0172e7190bd46157bcd8f9dc8fcbb0dfbc45ffed",
	},
	{
		Name: "boba", ChainID: 288, RPCEnv: "BOBA_RPC",
		Bridge: "0x432036208d2717394d2614d6697c46df3ed69540", BridgeStartBlock: 16188,
		StablePool: "0x75ff037256b36f15919369ac58695550be72fead", StablePoolStartBlock: 16221,
		EthPool: "0x753bb855c8fe814233d26bb23af61cb3d2022be5", EthPoolStartBlock: 49329,
		MaxBlocks: 512, NativeCGID: "ethereum",
		Treasury: "0x16ffa82c7f4d9e43e6fee84b437b366eaa8b7dc3",
	},
	{
		Name: "moonriver", ChainID: 1285, RPCEnv: "MOVR_RPC",
		Bridge: "0xaed5b25be1c3163c907a471082640450f928ddfe", BridgeStartBlock: 890949,
		MaxBlocks: 1024, NeedsPoA: true, NativeCGID: "moonriver",
		Treasury: "0x4bb87bc8eb4875c7dc2ab1af93bb71d1bdcb614f",
	},
	{
		Name: "optimism", ChainID: 10, RPCEnv: "OPTIMISM_RPC",
		Bridge: "0xaf41a65f786339e7911f4acdad6bd49426f2dc6b", BridgeStartBlock: 30718,
		EthPool: "0xe27bff97ce92c3e1ff7aa9f86781fdd6d48f5ee9", EthPoolStartBlock: 30819,
		MaxBlocks: DefaultMaxBlocks, NativeCGID: "ethereum",
		Treasury: "0x2431cb8336884451a39a1f1a0d48bbd4e54e0f88",
	},
	{
		Name: "aurora", ChainID: 1313161554, RPCEnv: "AURORA_RPC",
		Bridge: "0xaed5b25be1c3163c907a471082640450f928ddfe", BridgeStartBlock: 56092179,
		StablePool: "0xcef6c2e20898c2604886b888552ca6ccf66933b0", StablePoolStartBlock: 56441515,
		MaxBlocks: 1024, NativeCGID: "ethereum",
		Treasury: "0xbb227fcf45f9dc5def87208c534eaf1102c557e7",
	},
	{
		Name: "moonbeam", ChainID: 1284, RPCEnv: "MOONBEAM_RPC",
		Bridge: "0x84a420459cd31c3c34583f67e0f0fb191067d32f", BridgeStartBlock: 173355,
		MaxBlocks: 1024, NeedsPoA: true, NativeCGID: "moonbeam",
		Treasury: "0xacc88b3a8eb12cca53828aab09e1ba6fcf1a8529",
	},
}

// BridgeConfigAddress lives on Ethereum and resolves unknown bridge tokens.
const BridgeConfigAddress = "0x7fd806049608b7d04076b8187dd773343e0589e6"

var chainsByName = func() map[string]*Chain {
	m := make(map[string]*Chain, len(Chains))
	for i := range Chains {
		m[Chains[i].Name] = &Chains[i]
	}
	return m
}()

var chainsByID = func() map[uint64]*Chain {
	m := make(map[uint64]*Chain, len(Chains))
	for i := range Chains {
		m[Chains[i].ChainID] = &Chains[i]
	}
	return m
}()

// ChainByName returns the chain with the given name, or nil.
func ChainByName(name string) *Chain {
	return chainsByName[strings.ToLower(name)]
}

// ChainByID returns the chain with the given numeric chain id, or nil.
func ChainByID(id uint64) *Chain {
	return chainsByID[id]
}

// ChainNames returns the roster's names, in roster order.
func ChainNames() []string {
	names := make([]string, len(Chains))
	for i, c := range Chains {
		names[i] = c.Name
	}
	return names
}

// PoolKind distinguishes the stableswap pool from the ETH pool.
type PoolKind string

const (
	PoolNUSD PoolKind = "nusd"
	PoolNETH PoolKind = "neth"
)

// PoolByAddress maps a pool contract back to its kind on the given chain.
func PoolByAddress(chain *Chain, address string) (PoolKind, bool) {
	address = strings.ToLower(address)
	switch {
	case chain.StablePool != "" && address == chain.StablePool:
		return PoolNUSD, true
	case chain.EthPool != "" && address == chain.EthPool:
		return PoolNETH, true
	}
	return "", false
}
