// Package validation holds the pure predicates that gate whether a vote qualifies for a boost
// reward: proposal lifecycle, proposal type/privacy versus eligibility rule, choice matching,
// token policy, and the proposal/boost link (spec §4.1).
package validation

import (
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/snapshot-labs/boost-guard/internal/bgerr"
	"github.com/snapshot-labs/boost-guard/internal/domain"
	"github.com/snapshot-labs/boost-guard/internal/tokenpolicy"
)

// Lifecycle reports whether a proposal's scores are final and its voting window has closed.
// Any other state fails with ErrProposalStillInProgress, which callers use to purge the
// proposal cache.
func Lifecycle(p domain.Proposal, now time.Time) error {
	if !p.IsFinalized() || now.Before(p.End) {
		return bgerr.ErrProposalStillInProgress
	}
	return nil
}

// TypeAndPrivacy enforces which proposal types and privacy modes an eligibility rule may be
// paired with.
func TypeAndPrivacy(p domain.Proposal, e domain.Eligibility) error {
	switch e.Kind {
	case domain.EligibilityIncentive:
		return nil
	case domain.EligibilityBribe:
		if p.Privacy != domain.ProposalPrivacyNone {
			return bgerr.ErrIneligibleProposalPrivacy
		}
		if !isSingleChoiceLike(p.Type) {
			return bgerr.ErrIneligibleProposalType
		}
		return nil
	case domain.EligibilityBribeWinningOutcome:
		if !isSingleChoiceLike(p.Type) {
			return bgerr.ErrIneligibleProposalType
		}
		return nil
	default:
		return bgerr.ErrIneligibleProposalType
	}
}

func isSingleChoiceLike(t domain.ProposalType) bool {
	return t == domain.ProposalTypeSingleChoice || t == domain.ProposalTypeBasic
}

// ChoiceEligible reports whether a cast vote's choice satisfies the boost's eligibility rule.
// BribeWinningOutcome resolves the winning choice from the proposal's final scores, breaking
// ties by the lowest choice index.
func ChoiceEligible(p domain.Proposal, e domain.Eligibility, vote domain.Vote) (bool, error) {
	switch e.Kind {
	case domain.EligibilityIncentive:
		return true, nil
	case domain.EligibilityBribe:
		return vote.Choice.HasSingle() && vote.Choice.Single == e.Choice, nil
	case domain.EligibilityBribeWinningOutcome:
		winner, err := WinningChoice(p)
		if err != nil {
			return false, err
		}
		return vote.Choice.HasSingle() && vote.Choice.Single == winner, nil
	default:
		return false, bgerr.ErrIneligibleProposalType
	}
}

// WinningChoice returns the 1-indexed argmax of a proposal's final scores, breaking ties by
// the lowest index.
func WinningChoice(p domain.Proposal) (int, error) {
	if len(p.Scores) == 0 {
		return 0, bgerr.ErrIneligibleChoice
	}
	best := 0
	bestScore := p.Scores[0]
	for i, score := range p.Scores {
		if score > bestScore {
			best = i
			bestScore = score
		}
	}
	return best + 1, nil
}

// TokenPolicy rejects a boost whose reward token is on the disabled-token set.
func TokenPolicy(policy *tokenpolicy.Policy, token common.Address, chainID uint64) error {
	if policy.IsDisabled(token, chainID) {
		return bgerr.ErrIneligibleToken
	}
	return nil
}

// ProposalLink requires the boost's configured proposal id to match the request's.
func ProposalLink(boostProposalID, requestProposalID string) error {
	if boostProposalID != requestProposalID {
		return bgerr.ErrProposalMismatch
	}
	return nil
}
