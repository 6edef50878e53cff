package chain

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// Minimal ABI surfaces for the contracts the indexer calls into. Only the
// methods used here are declared.
const (
	bridgeConfigABIJSON = `[{
		"name": "getTokenByAddress", "type": "function", "stateMutability": "view",
		"inputs": [
			{"name": "tokenAddress", "type": "string"},
			{"name": "chainID", "type": "uint256"}
		],
		"outputs": [{
			"name": "token", "type": "tuple", "components": [
				{"name": "chainId", "type": "uint256"},
				{"name": "tokenAddress", "type": "string"},
				{"name": "tokenDecimals", "type": "uint8"},
				{"name": "maxSwap", "type": "uint256"},
				{"name": "minSwap", "type": "uint256"},
				{"name": "swapFee", "type": "uint256"},
				{"name": "maxSwapFee", "type": "uint256"},
				{"name": "minSwapFee", "type": "uint256"},
				{"name": "hasUnderlying", "type": "bool"},
				{"name": "isUnderlying", "type": "bool"}
			]
		}]
	}]`

	poolABIJSON = `[
		{"name": "getToken", "type": "function", "stateMutability": "view",
		 "inputs": [{"name": "index", "type": "uint8"}],
		 "outputs": [{"name": "", "type": "address"}]},
		{"name": "getAdminBalance", "type": "function", "stateMutability": "view",
		 "inputs": [{"name": "index", "type": "uint256"}],
		 "outputs": [{"name": "", "type": "uint256"}]},
		{"name": "getVirtualPrice", "type": "function", "stateMutability": "view",
		 "inputs": [],
		 "outputs": [{"name": "", "type": "uint256"}]}
	]`

	erc20ABIJSON = `[
		{"name": "balanceOf", "type": "function", "stateMutability": "view",
		 "inputs": [{"name": "owner", "type": "address"}],
		 "outputs": [{"name": "", "type": "uint256"}]},
		{"name": "decimals", "type": "function", "stateMutability": "view",
		 "inputs": [],
		 "outputs": [{"name": "", "type": "uint8"}]},
		{"name": "symbol", "type": "function", "stateMutability": "view",
		 "inputs": [],
		 "outputs": [{"name": "", "type": "string"}]}
	]`

	bridgeABIJSON = `[
		{"name": "getFeeBalance", "type": "function", "stateMutability": "view",
		 "inputs": [{"name": "tokenAddress", "type": "address"}],
		 "outputs": [{"name": "", "type": "uint256"}]}
	]`
)

var (
	bridgeConfigABI = mustParseABI(bridgeConfigABIJSON)
	poolABI         = mustParseABI(poolABIJSON)
	erc20ABI        = mustParseABI(erc20ABIJSON)
	bridgeABI       = mustParseABI(bridgeABIJSON)
)

func mustParseABI(s string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(s))
	if err != nil {
		panic(err)
	}
	return parsed
}

// BridgeToken is the bridge-config registry entry for one token.
type BridgeToken struct {
	ChainId       *big.Int
	TokenAddress  string
	TokenDecimals uint8
	MaxSwap       *big.Int
	MinSwap       *big.Int
	SwapFee       *big.Int
	MaxSwapFee    *big.Int
	MinSwapFee    *big.Int
	HasUnderlying bool
	IsUnderlying  bool
}

// GetTokenByAddress resolves a token through the bridge-config registry.
// The registry lives on Ethereum, so c should be the Ethereum client.
func (c *Client) GetTokenByAddress(ctx context.Context, configAddr common.Address, token string, chainID uint64) (*BridgeToken, error) {
	data, err := bridgeConfigABI.Pack("getTokenByAddress", token, new(big.Int).SetUint64(chainID))
	if err != nil {
		return nil, err
	}
	out, err := c.CallContract(ctx, configAddr, data, nil)
	if err != nil {
		return nil, err
	}
	var result BridgeToken
	if err := bridgeConfigABI.UnpackIntoInterface(&result, "getTokenByAddress", out); err != nil {
		return nil, fmt.Errorf("unpack getTokenByAddress(%s, %d): %w", token, chainID, err)
	}
	return &result, nil
}

// PoolToken returns the token at the given swap index.
func (c *Client) PoolToken(ctx context.Context, pool common.Address, index uint8) (common.Address, error) {
	data, err := poolABI.Pack("getToken", index)
	if err != nil {
		return common.Address{}, err
	}
	out, err := c.CallContract(ctx, pool, data, nil)
	if err != nil {
		return common.Address{}, err
	}
	results, err := poolABI.Unpack("getToken", out)
	if err != nil {
		return common.Address{}, err
	}
	return results[0].(common.Address), nil
}

// PoolAdminBalance returns the accrued admin fees for one token index.
// block nil means latest.
func (c *Client) PoolAdminBalance(ctx context.Context, pool common.Address, index uint64, block *big.Int) (*big.Int, error) {
	data, err := poolABI.Pack("getAdminBalance", new(big.Int).SetUint64(index))
	if err != nil {
		return nil, err
	}
	out, err := c.CallContract(ctx, pool, data, block)
	if err != nil {
		return nil, err
	}
	results, err := poolABI.Unpack("getAdminBalance", out)
	if err != nil {
		return nil, err
	}
	return results[0].(*big.Int), nil
}

// PoolVirtualPrice returns the pool's virtual price as a 1e18 fixed-point.
func (c *Client) PoolVirtualPrice(ctx context.Context, pool common.Address, block *big.Int) (*big.Int, error) {
	data, err := poolABI.Pack("getVirtualPrice")
	if err != nil {
		return nil, err
	}
	out, err := c.CallContract(ctx, pool, data, block)
	if err != nil {
		return nil, err
	}
	results, err := poolABI.Unpack("getVirtualPrice", out)
	if err != nil {
		return nil, err
	}
	return results[0].(*big.Int), nil
}

// TokenBalance returns balanceOf(owner) for an ERC-20.
func (c *Client) TokenBalance(ctx context.Context, token, owner common.Address, block *big.Int) (*big.Int, error) {
	data, err := erc20ABI.Pack("balanceOf", owner)
	if err != nil {
		return nil, err
	}
	out, err := c.CallContract(ctx, token, data, block)
	if err != nil {
		return nil, err
	}
	results, err := erc20ABI.Unpack("balanceOf", out)
	if err != nil {
		return nil, err
	}
	return results[0].(*big.Int), nil
}

// TokenDecimals reads decimals() from an ERC-20.
func (c *Client) TokenDecimals(ctx context.Context, token common.Address) (uint8, error) {
	data, err := erc20ABI.Pack("decimals")
	if err != nil {
		return 0, err
	}
	out, err := c.CallContract(ctx, token, data, nil)
	if err != nil {
		return 0, err
	}
	results, err := erc20ABI.Unpack("decimals", out)
	if err != nil {
		return 0, err
	}
	return results[0].(uint8), nil
}

// BridgeFeeBalance returns fees accrued on the bridge for one token.
func (c *Client) BridgeFeeBalance(ctx context.Context, bridge, token common.Address, block *big.Int) (*big.Int, error) {
	data, err := bridgeABI.Pack("getFeeBalance", token)
	if err != nil {
		return nil, err
	}
	out, err := c.CallContract(ctx, bridge, data, block)
	if err != nil {
		return nil, err
	}
	results, err := bridgeABI.Unpack("getFeeBalance", out)
	if err != nil {
		return nil, err
	}
	return results[0].(*big.Int), nil
}

// NativeBalance returns an address's native-token balance in wei at the
// given block, or latest when block is nil.
func (c *Client) NativeBalance(ctx context.Context, owner common.Address, block *big.Int) (*big.Int, error) {
	at := "latest"
	if block != nil {
		at = "0x" + block.Text(16)
	}
	var hex string
	err := withRetry(ctx, func(ctx context.Context) error {
		return c.raw.CallContext(ctx, &hex, "eth_getBalance", owner, at)
	})
	if err != nil {
		return nil, err
	}
	return hexBig(hex)
}
