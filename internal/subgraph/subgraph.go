// Package subgraph adapts The Graph's boost-metadata subgraphs into domain.BoostInfo. Requests
// are plain GraphQL-over-HTTP POSTs; the corpus carries no GraphQL client library, so this
// adapter composes net/http and encoding/json directly (see DESIGN.md).
package subgraph

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/snapshot-labs/boost-guard/internal/domain"
)

const (
	// MainnetChainID and SepoliaChainID are the only two chains boost-guardd's subgraph
	// routing understands (spec SPEC_FULL.md, Supplemented features).
	MainnetChainID uint64 = 1
	SepoliaChainID uint64 = 11155111
)

// Client queries boost metadata from the mainnet and Sepolia subgraphs.
type Client struct {
	mainnetURL string
	sepoliaURL string
	http       *http.Client
}

// New constructs a subgraph Client routing to the given per-chain endpoints.
func New(mainnetURL, sepoliaURL string) *Client {
	return &Client{
		mainnetURL: mainnetURL,
		sepoliaURL: sepoliaURL,
		http:       &http.Client{Timeout: 10 * time.Second},
	}
}

// ErrUnsupportedChain is returned when a (boost_id, chain_id) pair names a chain boost-guardd
// has no subgraph endpoint for.
var ErrUnsupportedChain = fmt.Errorf("subgraph: unsupported chain id")

func (c *Client) endpointFor(chainID uint64) (string, error) {
	switch chainID {
	case MainnetChainID:
		return c.mainnetURL, nil
	case SepoliaChainID:
		return c.sepoliaURL, nil
	default:
		return "", ErrUnsupportedChain
	}
}

const boostQuery = `query($id: ID!) {
  boost(id: $id) {
    id
    strategy {
      proposal
      eligibility { type choice }
      distribution { type limit numWinners cap }
    }
    token
    decimals
    poolSize
    owner
    start
    end
    guard
  }
}`

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type boostResponse struct {
	Data struct {
		Boost *boostPayload `json:"boost"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

type boostPayload struct {
	ID       string `json:"id"`
	Strategy struct {
		Proposal    string `json:"proposal"`
		Eligibility struct {
			Type   string `json:"type"`
			Choice int    `json:"choice"`
		} `json:"eligibility"`
		Distribution struct {
			Type       string  `json:"type"`
			Limit      *string `json:"limit"`
			NumWinners int     `json:"numWinners"`
			Cap        *int    `json:"cap"`
		} `json:"distribution"`
	} `json:"strategy"`
	Token     string `json:"token"`
	Decimals  int    `json:"decimals"`
	PoolSize  string `json:"poolSize"`
	Owner     string `json:"owner"`
	Start     int64  `json:"start"`
	End       int64  `json:"end"`
	Guard     string `json:"guard"`
}

// ErrBoostNotFound is returned when the subgraph has no record of the requested boost.
var ErrBoostNotFound = fmt.Errorf("subgraph: boost not found")

// Boost fetches the metadata for a single boost on the given chain.
func (c *Client) Boost(ctx context.Context, boostID string, chainID uint64) (domain.BoostInfo, error) {
	endpoint, err := c.endpointFor(chainID)
	if err != nil {
		return domain.BoostInfo{}, err
	}

	reqBody, err := json.Marshal(graphqlRequest{
		Query:     boostQuery,
		Variables: map[string]any{"id": boostID},
	})
	if err != nil {
		return domain.BoostInfo{}, fmt.Errorf("marshal subgraph query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return domain.BoostInfo{}, fmt.Errorf("build subgraph request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return domain.BoostInfo{}, fmt.Errorf("subgraph request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.BoostInfo{}, fmt.Errorf("subgraph request failed: status=%d", resp.StatusCode)
	}

	var parsed boostResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return domain.BoostInfo{}, fmt.Errorf("decode subgraph response: %w", err)
	}
	if len(parsed.Errors) > 0 {
		return domain.BoostInfo{}, fmt.Errorf("subgraph error: %s", parsed.Errors[0].Message)
	}
	if parsed.Data.Boost == nil {
		return domain.BoostInfo{}, ErrBoostNotFound
	}

	return toBoostInfo(*parsed.Data.Boost, chainID)
}

func toBoostInfo(p boostPayload, chainID uint64) (domain.BoostInfo, error) {
	pool, ok := new(big.Int).SetString(p.PoolSize, 10)
	if !ok {
		return domain.BoostInfo{}, fmt.Errorf("subgraph: invalid pool size %q", p.PoolSize)
	}

	eligibility, err := toEligibility(p.Strategy.Eligibility.Type, p.Strategy.Eligibility.Choice)
	if err != nil {
		return domain.BoostInfo{}, err
	}
	distribution, err := toDistribution(p.Strategy.Distribution.Type, p.Strategy.Distribution.Limit, p.Strategy.Distribution.NumWinners, p.Strategy.Distribution.Cap)
	if err != nil {
		return domain.BoostInfo{}, err
	}

	return domain.BoostInfo{
		ID:       p.ID,
		Token:    common.HexToAddress(p.Token),
		ChainID:  chainID,
		Pool:     pool,
		Decimals: uint8(p.Decimals),
		Owner:    common.HexToAddress(p.Owner),
		Start:    time.Unix(p.Start, 0).UTC(),
		End:      time.Unix(p.End, 0).UTC(),
		Guard:    common.HexToAddress(p.Guard),
		Strategy: domain.BoostStrategy{
			ProposalID:   p.Strategy.Proposal,
			Eligibility:  eligibility,
			Distribution: distribution,
		},
	}, nil
}

func toEligibility(kind string, choice int) (domain.Eligibility, error) {
	switch kind {
	case "incentive":
		return domain.Eligibility{Kind: domain.EligibilityIncentive}, nil
	case "bribe":
		return domain.Eligibility{Kind: domain.EligibilityBribe, Choice: choice}, nil
	case "bribe_winning_outcome":
		return domain.Eligibility{Kind: domain.EligibilityBribeWinningOutcome}, nil
	default:
		return domain.Eligibility{}, fmt.Errorf("subgraph: unknown eligibility kind %q", kind)
	}
}

func toDistribution(kind string, limit *string, numWinners int, capBps *int) (domain.Distribution, error) {
	switch kind {
	case "even":
		return domain.Distribution{Kind: domain.DistributionEven}, nil
	case "weighted":
		d := domain.Distribution{Kind: domain.DistributionWeighted}
		if limit != nil {
			parsed, ok := new(big.Int).SetString(*limit, 10)
			if !ok {
				return domain.Distribution{}, fmt.Errorf("subgraph: invalid weighted limit %q", *limit)
			}
			d.WeightedLimit = parsed
		}
		return d, nil
	case "lottery":
		d := domain.Distribution{Kind: domain.DistributionLottery, NumWinners: numWinners}
		if capBps != nil {
			d.HasCapBps = true
			d.CapBps = uint16(*capBps)
		}
		return d, nil
	default:
		return domain.Distribution{}, fmt.Errorf("subgraph: unknown distribution kind %q", kind)
	}
}
