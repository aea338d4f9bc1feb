package tokenpolicy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func TestIsDisabledMatchesSeedEntry(t *testing.T) {
	p := New(nil)
	usdt := common.HexToAddress("0xdAC17F958D2ee523a2206206994597C13D831ec7")
	if !p.IsDisabled(usdt, ethereumChainID) {
		t.Fatalf("expected seed USDT entry to be disabled on Ethereum")
	}
}

func TestIsDisabledIsChainScoped(t *testing.T) {
	p := New(nil)
	usdt := common.HexToAddress("0xdAC17F958D2ee523a2206206994597C13D831ec7")
	if p.IsDisabled(usdt, 42161) {
		t.Fatalf("expected Ethereum-only entry to not apply on an unrelated chain")
	}
}

func TestIsDisabledAcceptsOverrides(t *testing.T) {
	custom := common.HexToAddress("0x00000000000000000000000000000000001234")
	p := New([]Key{{Token: custom, ChainID: 10}})
	if !p.IsDisabled(custom, 10) {
		t.Fatalf("expected override token to be disabled")
	}
}

func TestIsDisabledAcceptsUnlistedToken(t *testing.T) {
	p := New(nil)
	other := common.HexToAddress("0x0000000000000000000000000000000000dead")
	if p.IsDisabled(other, ethereumChainID) {
		t.Fatalf("expected unlisted token to not be disabled")
	}
}

func TestIsDisabledNilPolicyIsPermissive(t *testing.T) {
	var p *Policy
	if p.IsDisabled(common.Address{}, 1) {
		t.Fatalf("expected a nil policy to disable nothing")
	}
	if p.Len() != 0 {
		t.Fatalf("expected nil policy Len() == 0")
	}
}

func TestLenCountsEthereumAndPolygonSeeds(t *testing.T) {
	p := New(nil)
	if p.Len() < len(seedTokens) {
		t.Fatalf("expected at least %d entries, got %d", len(seedTokens), p.Len())
	}
}

func TestLoadOverridesEmptyPathIsNotAnError(t *testing.T) {
	keys, err := LoadOverrides("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if keys != nil {
		t.Fatalf("expected no keys for an empty path")
	}
}

func TestLoadOverridesMissingFileIsNotAnError(t *testing.T) {
	keys, err := LoadOverrides(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if keys != nil {
		t.Fatalf("expected no keys for a missing file")
	}
}

func TestLoadOverridesParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "disabled.yaml")
	contents := "tokens:\n  - address: \"0x0000000000000000000000000000000000abcd\"\n    chain_id: 137\n"
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}

	keys, err := LoadOverrides(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(keys) != 1 {
		t.Fatalf("expected 1 key, got %d", len(keys))
	}
	want := common.HexToAddress("0x0000000000000000000000000000000000abcd")
	if keys[0].Token != want || keys[0].ChainID != 137 {
		t.Fatalf("unexpected key: %+v", keys[0])
	}
}
