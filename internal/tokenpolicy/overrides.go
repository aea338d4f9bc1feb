package tokenpolicy

import (
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v3"
)

// overrideFile is the shape of the optional DISABLED_TOKENS_FILE override (SPEC_FULL.md
// Configuration): a flat list of additional (token, chain_id) pairs to disable, layered on top
// of the built-in seed list.
type overrideFile struct {
	Tokens []struct {
		Address string `yaml:"address"`
		ChainID uint64 `yaml:"chain_id"`
	} `yaml:"tokens"`
}

// LoadOverrides reads an optional YAML file of additional disabled tokens. An empty path is
// not an error: it means no overrides are configured.
func LoadOverrides(path string) ([]Key, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read disabled tokens file: %w", err)
	}

	var parsed overrideFile
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse disabled tokens file: %w", err)
	}

	keys := make([]Key, 0, len(parsed.Tokens))
	for _, t := range parsed.Tokens {
		keys = append(keys, Key{Token: common.HexToAddress(t.Address), ChainID: t.ChainID})
	}
	return keys, nil
}
