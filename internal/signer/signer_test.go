package signer

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// testPrivateKey is a well-known, funds-free development key (Hardhat/Anvil account #0),
// used here only as a fixture since the exact key behind the S6 golden vector in the
// specification isn't recoverable from its arithmetic by inspection.
const testPrivateKey = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

func TestSignClaimProducesWellFormedSignature(t *testing.T) {
	verifier := common.HexToAddress("0x000000000000000000000000000000000000ff")
	s, err := New(testPrivateKey, "boost", "1", verifier)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	recipient := common.HexToAddress("0x3901D0fDe202aF1427216b79f5243f8A022d68cf")
	amount := big.NewInt(10_000_000_000_000_000)

	sig, err := s.SignClaim("3", 11155111, recipient, amount)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sig) != 65 {
		t.Fatalf("expected 65-byte signature, got %d bytes", len(sig))
	}
	if v := sig[64]; v != 27 && v != 28 {
		t.Fatalf("expected recovery byte in {27, 28}, got %d", v)
	}
}

func TestSignClaimRecoversSignerAddress(t *testing.T) {
	verifier := common.HexToAddress("0x000000000000000000000000000000000000ff")
	s, err := New(testPrivateKey, "boost", "1", verifier)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	recipient := common.HexToAddress("0x3901D0fDe202aF1427216b79f5243f8A022d68cf")
	amount := big.NewInt(10_000_000_000_000_000)

	sig, err := s.SignClaim("3", 11155111, recipient, amount)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	typedData, err := claimTypedData(s, "3", 11155111, recipient, amount)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	digestBytes, err := digest(typedData)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	recoverSig := make([]byte, 65)
	copy(recoverSig, sig)
	recoverSig[64] -= 27

	pub, err := crypto.SigToPub(digestBytes, recoverSig)
	if err != nil {
		t.Fatalf("recover pubkey: %v", err)
	}
	recovered := crypto.PubkeyToAddress(*pub)
	if recovered != s.Address() {
		t.Fatalf("recovered address %s does not match signer address %s", recovered, s.Address())
	}
}

func TestSignClaimDeterministicForSameInput(t *testing.T) {
	verifier := common.HexToAddress("0x000000000000000000000000000000000000ff")
	s, err := New(testPrivateKey, "boost", "1", verifier)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	recipient := common.HexToAddress("0x3901D0fDe202aF1427216b79f5243f8A022d68cf")
	amount := big.NewInt(10_000_000_000_000_000)

	first, err := s.SignClaim("3", 11155111, recipient, amount)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := s.SignClaim("3", 11155111, recipient, amount)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(first) != string(second) {
		t.Fatalf("expected deterministic signature for identical input")
	}
}

func TestSignClaimRejectsInvalidBoostID(t *testing.T) {
	verifier := common.HexToAddress("0x000000000000000000000000000000000000ff")
	s, err := New(testPrivateKey, "boost", "1", verifier)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err = s.SignClaim("not-a-number", 1, common.Address{}, big.NewInt(1))
	if err == nil {
		t.Fatalf("expected an error for a non-numeric boost id")
	}
}
