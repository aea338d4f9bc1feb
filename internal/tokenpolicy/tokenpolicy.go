// Package tokenpolicy maintains the set of (token_address, chain_id) pairs that are
// ineligible for any boost, regardless of distribution rule.
//
// The seed list is grounded on the original boost-guard service's hard-coded stablecoin
// deny-list (large, centrally-issued stablecoins whose issuers can freeze balances, which
// would let them unilaterally block a claim the guard already signed).
package tokenpolicy

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Key identifies a token on a specific chain.
type Key struct {
	Token   common.Address
	ChainID uint64
}

// Policy is the process-wide disabled-token set. It is read-only after bootstrap (spec §5).
type Policy struct {
	disabled map[Key]struct{}
}

const (
	ethereumChainID = 1
	polygonChainID  = 137
)

type seedToken struct {
	ethereum string
	polygon  string
}

var seedTokens = []seedToken{
	{ethereum: "0xdAC17F958D2ee523a2206206994597C13D831ec7", polygon: "0xc2132D05D31c914a87C6611C10748AEb04B58e8F"},
	{ethereum: "0xA0b86991c6218b36c1D19D4a2e9Eb0cE3606eB48", polygon: "0x3c499c542cEF5E3811e1192ce70d8cC03d5c3359"},
	{ethereum: "0x6B175474E89094C44Da98b954EedeAC495271d0F", polygon: "0x8f3Cf7ad23Cd3CaDbD9735AFf958023239c6A063"},
	{ethereum: "0xc5f0f7b66764F6ec8C8Dff7BA683102295E16409", polygon: ""},
	{ethereum: "0x0000000000085d4780B73119b644AE5ecd22b376", polygon: ""},
	{ethereum: "0x853d955aCEf822Db058eb8505911ED77F175b99e", polygon: "0x45c32fA6DF82ead1e2EF74d17b76547EDdFaFF89"},
	{ethereum: "0x056Fd409E1d7A124BD7017459dFEa2F387b6d5Cd", polygon: ""},
	{ethereum: "0x6c3ea9036406852006290770BEdFcAbA0e23A0e8", polygon: ""},
	{ethereum: "0x57Ab1ec28D129707052df4dF418D58a2D46d5f51", polygon: ""},
	{ethereum: "0x8E870D67F660D95d5be530380D0ec0bd388289E1", polygon: ""},
	{ethereum: "0x5f98805A4E8be255a32880FDec7F6728C6568bA0", polygon: "0x23001f892c0C82b79303Edc9B9033cD190bB21c7"},
	{ethereum: "0x40D16FC0246aD3160Ccc09B8D0D3A2cD28aE6C2f", polygon: ""},
	{ethereum: "0x2260FAC5E5542a773Aa44fBCfeDf7C193bc2C599", polygon: "0x1BFD67037B42Cf73acF2047067bd4F2C47D9BfD6"},
	{ethereum: "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2", polygon: "0x7ceB23fD6bC0adD59E62ac25578270cFf1b9f619"},
	{ethereum: "0xae7ab96520DE3A18E5e111B5EaAb095312D7fE84", polygon: ""},
	{ethereum: "0x7f39C581F595B53c5cb19bD0b3f8dA6c935E2Ca0", polygon: "0x03b54A6e9a984069379fae1a4fc4dBae93B3bccD"},
	{ethereum: "0xBe9895146f7AF43049ca1c1AE358B0541Ea49704", polygon: "0x4B4327dB1600B8B1440163F667e199CEf35385f5"},
	{ethereum: "0xe95A203B1a91a908F9B9CE46459d101078c2c3cb", polygon: ""},
	{ethereum: "0xf1C9acDc66974dFb6dEcB12aA385b9cD01190E38", polygon: ""},
}

// New constructs the disabled-token policy from the built-in seed list plus any operator
// overrides supplied by the caller (spec SPEC_FULL.md §AMBIENT STACK/Configuration).
func New(overrides []Key) *Policy {
	disabled := make(map[Key]struct{}, len(seedTokens)*2+len(overrides))
	for _, t := range seedTokens {
		if addr := parseAddress(t.ethereum); addr != (common.Address{}) || t.ethereum != "" {
			if t.ethereum != "" {
				disabled[Key{Token: addr, ChainID: ethereumChainID}] = struct{}{}
			}
		}
		if t.polygon != "" {
			disabled[Key{Token: parseAddress(t.polygon), ChainID: polygonChainID}] = struct{}{}
		}
	}
	for _, k := range overrides {
		disabled[k] = struct{}{}
	}
	return &Policy{disabled: disabled}
}

func parseAddress(hex string) common.Address {
	hex = strings.TrimSpace(hex)
	if hex == "" {
		return common.Address{}
	}
	return common.HexToAddress(hex)
}

// IsDisabled reports whether the given token is on the deny-list for the given chain.
func (p *Policy) IsDisabled(token common.Address, chainID uint64) bool {
	if p == nil {
		return false
	}
	_, found := p.disabled[Key{Token: token, ChainID: chainID}]
	return found
}

// Len reports the number of disabled (token, chain) entries.
func (p *Policy) Len() int {
	if p == nil {
		return 0
	}
	return len(p.disabled)
}
