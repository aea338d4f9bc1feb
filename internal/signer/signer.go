// Package signer produces EIP-712 signatures over boost claims (spec §4.6). The service holds
// a single secp256k1 private key loaded at bootstrap and signs `Claim{boostId, recipient,
// amount}` typed data scoped to the boost's chain.
package signer

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	"github.com/snapshot-labs/boost-guard/internal/bgerr"
)

// Signer signs EIP-712 boost claims with a fixed secp256k1 key.
type Signer struct {
	key      *ecdsa.PrivateKey
	name     string
	version  string
	verifier common.Address
}

// New loads a signer from a hex-encoded secp256k1 private key (with or without the "0x"
// prefix).
func New(privateKeyHex, boostName, boostVersion string, verifyingContract common.Address) (*Signer, error) {
	key, err := crypto.HexToECDSA(trimHexPrefix(privateKeyHex))
	if err != nil {
		return nil, fmt.Errorf("load signing key: %w", err)
	}
	return &Signer{key: key, name: boostName, version: boostVersion, verifier: verifyingContract}, nil
}

func trimHexPrefix(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}

// Address returns the signer's public address.
func (s *Signer) Address() common.Address {
	return crypto.PubkeyToAddress(s.key.PublicKey)
}

// claimTypes is the EIP-712 type schema for a boost claim: EIP712Domain plus the single
// Claim primary type (boostId, recipient, amount). An earlier variant carried a `ref: bytes32`
// field; the current claim contract does not, so it is intentionally absent.
var claimTypes = apitypes.Types{
	"EIP712Domain": {
		{Name: "name", Type: "string"},
		{Name: "version", Type: "string"},
		{Name: "chainId", Type: "uint256"},
		{Name: "verifyingContract", Type: "address"},
	},
	"Claim": {
		{Name: "boostId", Type: "uint256"},
		{Name: "recipient", Type: "address"},
		{Name: "amount", Type: "uint256"},
	},
}

// SignClaim signs a Claim{boostId, recipient, amount} over the given chain and returns the
// 65-byte r||s||v signature.
func (s *Signer) SignClaim(boostID string, chainID uint64, recipient common.Address, amount *big.Int) ([]byte, error) {
	typedData, err := claimTypedData(s, boostID, chainID, recipient, amount)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", bgerr.ErrSigning, err)
	}

	digest, err := digest(typedData)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", bgerr.ErrSigning, err)
	}

	sig, err := crypto.Sign(digest, s.key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", bgerr.ErrSigning, err)
	}

	// crypto.Sign returns v in {0, 1}; EIP-712 verifiers expect the Ethereum convention
	// v in {27, 28}.
	sig[64] += 27
	return sig, nil
}

func claimTypedData(s *Signer, boostID string, chainID uint64, recipient common.Address, amount *big.Int) (apitypes.TypedData, error) {
	boostIDInt, ok := new(big.Int).SetString(boostID, 10)
	if !ok {
		return apitypes.TypedData{}, fmt.Errorf("signer: invalid boost id %q", boostID)
	}

	return apitypes.TypedData{
		Types:       claimTypes,
		PrimaryType: "Claim",
		Domain: apitypes.TypedDataDomain{
			Name:              s.name,
			Version:           s.version,
			ChainId:           (*math.HexOrDecimal256)(new(big.Int).SetUint64(chainID)),
			VerifyingContract: s.verifier.Hex(),
		},
		Message: apitypes.TypedDataMessage{
			"boostId":   boostIDInt.String(),
			"recipient": recipient.Hex(),
			"amount":    amount.String(),
		},
	}, nil
}

func digest(typedData apitypes.TypedData) ([]byte, error) {
	domainSeparator, err := typedData.HashStruct("EIP712Domain", typedData.Domain.Map())
	if err != nil {
		return nil, fmt.Errorf("hash domain: %w", err)
	}
	messageHash, err := typedData.HashStruct(typedData.PrimaryType, typedData.Message)
	if err != nil {
		return nil, fmt.Errorf("hash message: %w", err)
	}
	rawData := append([]byte("\x19\x01"), append(domainSeparator, messageHash...)...)
	return crypto.Keccak256(rawData), nil
}
