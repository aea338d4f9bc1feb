// Package domain holds the core value types shared across boost-guardd: proposals, votes,
// boost metadata, eligibility and distribution rules, and the reward/voucher results computed
// from them.
package domain

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// ProposalState mirrors the hub's lifecycle state machine (spec §5).
type ProposalState string

const (
	ProposalStateActive  ProposalState = "active"
	ProposalStateClosed  ProposalState = "closed"
	ProposalStatePending ProposalState = "pending"
)

// ProposalType distinguishes the voting schemes a proposal can use.
type ProposalType string

const (
	ProposalTypeSingleChoice ProposalType = "single-choice"
	ProposalTypeBasic        ProposalType = "basic"
	ProposalTypeApproval     ProposalType = "approval"
	ProposalTypeRankedChoice ProposalType = "ranked-choice"
	ProposalTypeWeighted     ProposalType = "weighted"
	ProposalTypeQuadratic    ProposalType = "quadratic"
)

// ProposalPrivacy marks whether a proposal's votes are shielded until close.
type ProposalPrivacy string

const (
	ProposalPrivacyNone      ProposalPrivacy = ""
	ProposalPrivacyShutter   ProposalPrivacy = "shutter"
)

// Proposal is the subset of hub proposal data boost-guardd needs to validate a claim.
type Proposal struct {
	ID        string
	Space     string
	Type      ProposalType
	Privacy   ProposalPrivacy
	State     ProposalState
	Start     time.Time
	End       time.Time
	Choices   []string
	Scores    []float64
	ScoresTotal float64
}

// IsFinalized reports whether the proposal's scores are final. It does not look at the end
// time; validation.Lifecycle checks that separately.
func (p Proposal) IsFinalized() bool {
	return p.State == ProposalStateClosed
}

// Vote is a single cast vote, as returned by the hub's vote adapter.
type Vote struct {
	Voter      common.Address
	ProposalID string
	Choice     Choice
	VotingPower float64
}

// Choice captures a vote's choice payload across the proposal types boost-guardd supports.
// Exactly one field is meaningful, selected by the owning proposal's Type.
type Choice struct {
	// Single is the 1-indexed choice for single-choice/basic proposals.
	Single int
	// Approval lists the 1-indexed choices approved, for approval proposals.
	Approval []int
	// Ranked lists the 1-indexed choices in ranked order, for ranked-choice proposals.
	Ranked []int
}

// HasSingle reports whether this Choice carries a single numeric selection.
func (c Choice) HasSingle() bool {
	return c.Single != 0
}

// BoostInfo is the boost metadata served by the subgraph (spec §3, §4.1).
type BoostInfo struct {
	ID           string
	Strategy     BoostStrategy
	Token        common.Address
	ChainID      uint64
	Pool         *big.Int
	Decimals     uint8
	Owner        common.Address
	Start        time.Time
	End          time.Time
	Guard        common.Address
}

// BoostStrategy bundles a boost's eligibility and distribution rules, keyed to a proposal.
type BoostStrategy struct {
	ProposalID   string
	Eligibility  Eligibility
	Distribution Distribution
}

// EligibilityKind discriminates the Eligibility tagged union.
type EligibilityKind int

const (
	EligibilityIncentive EligibilityKind = iota
	EligibilityBribe
	EligibilityBribeWinningOutcome
)

// Eligibility is a tagged union over the three ways a vote can qualify for a boost reward
// (spec §4.1). Bribe carries the specific choice index voters must have picked; the other two
// variants carry no extra data (BribeWinningOutcome resolves its target choice from the
// proposal's final scores at evaluation time).
type Eligibility struct {
	Kind   EligibilityKind
	Choice int // valid only when Kind == EligibilityBribe
}

// DistributionKind discriminates the Distribution tagged union.
type DistributionKind int

const (
	DistributionEven DistributionKind = iota
	DistributionWeighted
	DistributionLottery
)

// Distribution is a tagged union over the three ways a boost's pool splits across eligible
// voters (spec §4.3-§4.5).
type Distribution struct {
	Kind DistributionKind

	// WeightedLimit is the optional absolute per-voter reward cap (256-bit unsigned), used
	// only when Kind == DistributionWeighted. Nil means uncapped.
	WeightedLimit *big.Int

	// NumWinners and CapBps apply only when Kind == DistributionLottery. CapBps is a basis
	// points value in [0, 10000); HasCapBps false (or CapBps == 0 or 10000) means no weight
	// adjustment is applied (spec §4.5).
	NumWinners int
	CapBps     uint16
	HasCapBps  bool
}
