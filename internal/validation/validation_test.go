package validation

import (
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/snapshot-labs/boost-guard/internal/bgerr"
	"github.com/snapshot-labs/boost-guard/internal/domain"
	"github.com/snapshot-labs/boost-guard/internal/tokenpolicy"
)

func closedProposal(now time.Time) domain.Proposal {
	return domain.Proposal{
		ID:    "prop-1",
		Type:  domain.ProposalTypeSingleChoice,
		State: domain.ProposalStateClosed,
		Start: now.Add(-48 * time.Hour),
		End:   now.Add(-1 * time.Hour),
	}
}

func TestLifecycleAcceptsFinalizedClosedProposal(t *testing.T) {
	now := time.Now()
	if err := Lifecycle(closedProposal(now), now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLifecycleRejectsActiveProposal(t *testing.T) {
	now := time.Now()
	p := closedProposal(now)
	p.State = domain.ProposalStateActive
	if err := Lifecycle(p, now); err != bgerr.ErrProposalStillInProgress {
		t.Fatalf("expected ErrProposalStillInProgress, got %v", err)
	}
}

func TestLifecycleRejectsBeforeEndTime(t *testing.T) {
	now := time.Now()
	p := closedProposal(now)
	p.End = now.Add(1 * time.Hour)
	if err := Lifecycle(p, now); err != bgerr.ErrProposalStillInProgress {
		t.Fatalf("expected ErrProposalStillInProgress, got %v", err)
	}
}

func TestTypeAndPrivacyIncentiveAcceptsAnyType(t *testing.T) {
	p := domain.Proposal{Type: domain.ProposalTypeApproval, Privacy: domain.ProposalPrivacyShutter}
	if err := TypeAndPrivacy(p, domain.Eligibility{Kind: domain.EligibilityIncentive}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTypeAndPrivacyBribeRejectsShieldedProposal(t *testing.T) {
	p := domain.Proposal{Type: domain.ProposalTypeSingleChoice, Privacy: domain.ProposalPrivacyShutter}
	err := TypeAndPrivacy(p, domain.Eligibility{Kind: domain.EligibilityBribe, Choice: 1})
	if err != bgerr.ErrIneligibleProposalPrivacy {
		t.Fatalf("expected ErrIneligibleProposalPrivacy, got %v", err)
	}
}

func TestTypeAndPrivacyBribeRejectsNonSingleChoiceType(t *testing.T) {
	p := domain.Proposal{Type: domain.ProposalTypeApproval, Privacy: domain.ProposalPrivacyNone}
	err := TypeAndPrivacy(p, domain.Eligibility{Kind: domain.EligibilityBribe, Choice: 1})
	if err != bgerr.ErrIneligibleProposalType {
		t.Fatalf("expected ErrIneligibleProposalType, got %v", err)
	}
}

func TestTypeAndPrivacyBribeWinningOutcomeIgnoresPrivacy(t *testing.T) {
	p := domain.Proposal{Type: domain.ProposalTypeBasic, Privacy: domain.ProposalPrivacyShutter}
	if err := TypeAndPrivacy(p, domain.Eligibility{Kind: domain.EligibilityBribeWinningOutcome}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestChoiceEligibleBribeMatchesExactChoice(t *testing.T) {
	p := domain.Proposal{Type: domain.ProposalTypeSingleChoice}
	vote := domain.Vote{Choice: domain.Choice{Single: 2}}
	ok, err := ChoiceEligible(p, domain.Eligibility{Kind: domain.EligibilityBribe, Choice: 2}, vote)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("expected vote to be eligible")
	}
}

// S4: voter choice=2, boost Bribe(1) => ineligible.
func TestChoiceEligibleBribeRejectsMismatch(t *testing.T) {
	p := domain.Proposal{Type: domain.ProposalTypeSingleChoice}
	vote := domain.Vote{Choice: domain.Choice{Single: 2}}
	ok, err := ChoiceEligible(p, domain.Eligibility{Kind: domain.EligibilityBribe, Choice: 1}, vote)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("expected vote to be ineligible")
	}
}

func TestWinningChoicePicksArgmax(t *testing.T) {
	p := domain.Proposal{Scores: []float64{10, 50, 30}}
	winner, err := WinningChoice(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if winner != 2 {
		t.Fatalf("expected winning choice 2 (1-indexed), got %d", winner)
	}
}

func TestWinningChoiceBreaksTiesByLowestIndex(t *testing.T) {
	p := domain.Proposal{Scores: []float64{40, 40, 10}}
	winner, err := WinningChoice(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if winner != 1 {
		t.Fatalf("expected tie to resolve to choice 1, got %d", winner)
	}
}

func TestWinningChoiceRejectsEmptyScores(t *testing.T) {
	_, err := WinningChoice(domain.Proposal{})
	if err != bgerr.ErrIneligibleChoice {
		t.Fatalf("expected ErrIneligibleChoice, got %v", err)
	}
}

func TestChoiceEligibleBribeWinningOutcomeUsesWinner(t *testing.T) {
	p := domain.Proposal{Type: domain.ProposalTypeSingleChoice, Scores: []float64{1, 9, 2}}
	vote := domain.Vote{Choice: domain.Choice{Single: 2}}
	ok, err := ChoiceEligible(p, domain.Eligibility{Kind: domain.EligibilityBribeWinningOutcome}, vote)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("expected vote for the winning choice to be eligible")
	}
}

func TestTokenPolicyRejectsDisabledToken(t *testing.T) {
	token := common.HexToAddress("0xdac17f958d2ee523a2206206994597c13d831ec")
	policy := tokenpolicy.New([]tokenpolicy.Key{{Token: token, ChainID: 1}})
	if err := TokenPolicy(policy, token, 1); err != bgerr.ErrIneligibleToken {
		t.Fatalf("expected ErrIneligibleToken, got %v", err)
	}
}

func TestTokenPolicyAcceptsUnlistedToken(t *testing.T) {
	policy := tokenpolicy.New(nil)
	token := common.HexToAddress("0x0000000000000000000000000000000000beef")
	if err := TokenPolicy(policy, token, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestProposalLinkRejectsMismatch(t *testing.T) {
	if err := ProposalLink("0xabc", "0xdef"); err != bgerr.ErrProposalMismatch {
		t.Fatalf("expected ErrProposalMismatch, got %v", err)
	}
}

func TestProposalLinkAcceptsMatch(t *testing.T) {
	if err := ProposalLink("0xabc", "0xabc"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
