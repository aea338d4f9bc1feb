// Package bgerr defines the error taxonomy shared by every boost-guard component.
//
// Errors are grouped by how callers must react: request-fatal, per-boost-skip, or
// distinguished (ProposalStillInProgress, which also drives a cache purge).
package bgerr

import "errors"

// Fatal, request-wide errors. These abort the whole request with HTTP 500.
var (
	// ErrProposalStillInProgress is returned by lifecycle validation when a proposal has not
	// finalized. It renders as the fixed message "Proposal has not ended yet" at the HTTP
	// layer and triggers a proposal cache purge on the caller's next lookup.
	ErrProposalStillInProgress = errors.New("proposal still in progress")

	// ErrProposalNotFound indicates the proposal id does not resolve in the store.
	ErrProposalNotFound = errors.New("proposal not found")

	// ErrVoteNotFound indicates the voter has not voted on the proposal.
	ErrVoteNotFound = errors.New("vote not found")

	// ErrAdapterTransport wraps a transport-level failure from an external adapter
	// (database, subgraph, beacon API).
	ErrAdapterTransport = errors.New("adapter transport error")

	// ErrSeedNotFinal indicates the beacon epoch backing the lottery seed is not finalized yet.
	// Fatal for the lottery endpoint only.
	ErrSeedNotFinal = errors.New("beacon seed not yet final")

	// ErrSeedFetch wraps a transport failure specific to the beacon chain adapter.
	ErrSeedFetch = errors.New("beacon seed fetch failed")

	// ErrInternal covers unexpected parse failures that do not fit the taxonomy above.
	ErrInternal = errors.New("internal error")
)

// Per-boost errors. These are logged and the offending boost is skipped; they never abort
// the whole request.
var (
	// ErrBoostNotFound indicates the (boost_id, chain_id) pair did not resolve.
	ErrBoostNotFound = errors.New("boost not found")

	// ErrProposalMismatch indicates the boost's configured proposal does not match the
	// requested proposal.
	ErrProposalMismatch = errors.New("boost does not belong to proposal")

	// ErrIneligibleProposalType indicates the proposal's type is not eligible for this
	// boost's eligibility rule.
	ErrIneligibleProposalType = errors.New("proposal type not eligible for boost")

	// ErrIneligibleProposalPrivacy indicates the proposal's privacy mode is not eligible for
	// this boost's eligibility rule.
	ErrIneligibleProposalPrivacy = errors.New("proposal privacy not eligible for boost")

	// ErrIneligibleChoice indicates the voter's choice does not match the boosted choice.
	ErrIneligibleChoice = errors.New("voter choice not eligible for boost")

	// ErrIneligibleToken indicates the boost's token is on the disabled list.
	ErrIneligibleToken = errors.New("boost token is disabled")

	// ErrNotSorted indicates a vote slice that was required to be sorted descending by voting
	// power was not. This guards the weighted-ratio cache invariant (spec open question #2).
	ErrNotSorted = errors.New("votes are not sorted by voting power descending")

	// ErrSigning wraps a failure to produce an EIP-712 signature for a single boost.
	ErrSigning = errors.New("failed to sign claim")
)
