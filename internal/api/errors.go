package api

import (
	"errors"
	"net/http"

	"github.com/snapshot-labs/boost-guard/internal/bgerr"
	"github.com/snapshot-labs/boost-guard/internal/metrics"
)

// proposalStillInProgressMessage is the fixed text spec §6 requires for this one distinguished
// failure.
const proposalStillInProgressMessage = "Proposal has not ended yet"

// writeError maps a request-fatal error onto the all-500 HTTP surface spec §6/§7 describe:
// every failure is a 500 with a text body, except ProposalStillInProgress carries a fixed
// message (used by callers to decide whether to retry after invalidating their own state).
func writeError(w http.ResponseWriter, route string, m *metrics.Metrics, err error) {
	m.ObserveRequest(route, "error")
	message := err.Error()
	if errors.Is(err, bgerr.ErrProposalStillInProgress) {
		message = proposalStillInProgressMessage
	}
	http.Error(w, message, http.StatusInternalServerError)
}

func skipReason(err error) string {
	switch {
	case errors.Is(err, bgerr.ErrBoostNotFound):
		return "boost_not_found"
	case errors.Is(err, bgerr.ErrProposalMismatch):
		return "proposal_mismatch"
	case errors.Is(err, bgerr.ErrIneligibleProposalType):
		return "ineligible_proposal_type"
	case errors.Is(err, bgerr.ErrIneligibleProposalPrivacy):
		return "ineligible_proposal_privacy"
	case errors.Is(err, bgerr.ErrIneligibleChoice):
		return "ineligible_choice"
	case errors.Is(err, bgerr.ErrIneligibleToken):
		return "ineligible_token"
	case errors.Is(err, bgerr.ErrNotSorted):
		return "not_sorted"
	case errors.Is(err, bgerr.ErrSigning):
		return "signing"
	default:
		return "unknown"
	}
}
