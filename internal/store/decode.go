package store

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"

	"github.com/snapshot-labs/boost-guard/internal/domain"
)

func addressFromHex(hex string) common.Address {
	return common.HexToAddress(hex)
}

func decodeStrings(raw []byte) ([]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func decodeFloats(raw []byte) ([]float64, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var out []float64
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// decodeChoice parses the hub's polymorphic choice column: a bare integer for single-choice/
// basic proposals, or an array of integers for approval/ranked-choice proposals.
func decodeChoice(raw []byte) (domain.Choice, error) {
	if len(raw) == 0 {
		return domain.Choice{}, nil
	}

	var single int
	if err := json.Unmarshal(raw, &single); err == nil {
		return domain.Choice{Single: single}, nil
	}

	var list []int
	if err := json.Unmarshal(raw, &list); err == nil {
		return domain.Choice{Approval: list, Ranked: list}, nil
	}

	return domain.Choice{}, errUnrecognizedChoiceShape
}

var errUnrecognizedChoiceShape = jsonShapeError("unrecognized choice encoding")

type jsonShapeError string

func (e jsonShapeError) Error() string { return string(e) }
