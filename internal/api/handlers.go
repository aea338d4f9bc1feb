package api

import (
	"encoding/hex"
	"encoding/json"
	"net/http"

	"github.com/snapshot-labs/boost-guard/internal/bgerr"
	"github.com/snapshot-labs/boost-guard/internal/domain"
	"github.com/snapshot-labs/boost-guard/internal/validation"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

type rootResponse struct {
	GuardAddress string `json:"guard_address"`
	Version      string `json:"version"`
	Name         string `json:"name"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, rootResponse{
		GuardAddress: s.guardAddress().Hex(),
		Version:      Version,
		Name:         s.boostName,
	})
}

// queryParams is the shared body shape for create-vouchers and get-rewards (spec §6).
type queryParams struct {
	ProposalID   string        `json:"proposal_id"`
	VoterAddress string        `json:"voter_address"`
	Boosts       []boostParams `json:"boosts"`
}

type boostParams struct {
	BoostID string `json:"boost_id"`
	ChainID uint64 `json:"chain_id"`
}

type rewardResponseItem struct {
	Reward  string `json:"reward"`
	ChainID uint64 `json:"chain_id"`
	BoostID string `json:"boost_id"`
}

type voucherResponseItem struct {
	Signature string `json:"signature"`
	Reward    string `json:"reward"`
	ChainID   uint64 `json:"chain_id"`
	BoostID   string `json:"boost_id"`
}

func (s *Server) handleGetRewards(w http.ResponseWriter, r *http.Request) {
	const route = "get-rewards"

	var req queryParams
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, route, s.metrics, err)
		return
	}

	proposal, err := s.resolveProposal(r.Context(), req.ProposalID)
	if err != nil {
		writeError(w, route, s.metrics, err)
		return
	}
	vote, err := s.resolveVote(r.Context(), req.VoterAddress, req.ProposalID)
	if err != nil {
		writeError(w, route, s.metrics, err)
		return
	}

	items := make([]rewardResponseItem, 0, len(req.Boosts))
	for _, b := range req.Boosts {
		result, err := s.evaluateBoost(r.Context(), proposal, vote, boostTarget{BoostID: b.BoostID, ChainID: b.ChainID})
		if err != nil {
			s.logSkip(r, b, err)
			continue
		}
		items = append(items, rewardResponseItem{
			Reward:  result.Reward.String(),
			ChainID: b.ChainID,
			BoostID: b.BoostID,
		})
	}

	s.metrics.ObserveRequest(route, "ok")
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleCreateVouchers(w http.ResponseWriter, r *http.Request) {
	const route = "create-vouchers"

	var req queryParams
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, route, s.metrics, err)
		return
	}

	proposal, err := s.resolveProposal(r.Context(), req.ProposalID)
	if err != nil {
		writeError(w, route, s.metrics, err)
		return
	}
	vote, err := s.resolveVote(r.Context(), req.VoterAddress, req.ProposalID)
	if err != nil {
		writeError(w, route, s.metrics, err)
		return
	}

	items := make([]voucherResponseItem, 0, len(req.Boosts))
	for _, b := range req.Boosts {
		result, err := s.evaluateBoost(r.Context(), proposal, vote, boostTarget{BoostID: b.BoostID, ChainID: b.ChainID})
		if err != nil {
			s.logSkip(r, b, err)
			continue
		}

		sig, err := s.signer.SignClaim(b.BoostID, b.ChainID, vote.Voter, result.Reward)
		if err != nil {
			s.logSkip(r, b, err)
			continue
		}
		s.metrics.ObserveSignature()

		items = append(items, voucherResponseItem{
			Signature: "0x" + hex.EncodeToString(sig),
			Reward:    result.Reward.String(),
			ChainID:   b.ChainID,
			BoostID:   b.BoostID,
		})
	}

	s.metrics.ObserveRequest(route, "ok")
	writeJSON(w, http.StatusOK, items)
}

type lotteryRequest struct {
	ProposalID string `json:"proposal_id"`
	BoostID    string `json:"boost_id"`
	ChainID    uint64 `json:"chain_id"`
}

type lotteryResponse struct {
	Winners []string `json:"winners"`
	Prize   string   `json:"prize"`
	ChainID uint64   `json:"chain_id"`
	BoostID string   `json:"boost_id"`
}

func (s *Server) handleGetLotteryWinners(w http.ResponseWriter, r *http.Request) {
	const route = "get-lottery-winners"

	var req lotteryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, route, s.metrics, err)
		return
	}

	proposal, err := s.resolveProposal(r.Context(), req.ProposalID)
	if err != nil {
		writeError(w, route, s.metrics, err)
		return
	}

	boost, err := s.subgraph.Boost(r.Context(), req.BoostID, req.ChainID)
	if err != nil {
		writeError(w, route, s.metrics, err)
		return
	}
	if err := validation.ProposalLink(boost.Strategy.ProposalID, proposal.ID); err != nil {
		writeError(w, route, s.metrics, err)
		return
	}
	if boost.Strategy.Distribution.Kind != domain.DistributionLottery {
		writeError(w, route, s.metrics, bgerr.ErrInternal)
		return
	}

	winners, err := s.lotteryWinners(r.Context(), proposal, boost)
	if err != nil {
		writeError(w, route, s.metrics, err)
		return
	}

	addresses := make([]string, 0, len(winners))
	var prize string
	for addr, amount := range winners {
		addresses = append(addresses, addr.Hex())
		prize = amount.String()
	}

	s.metrics.ObserveRequest(route, "ok")
	writeJSON(w, http.StatusOK, lotteryResponse{
		Winners: addresses,
		Prize:   prize,
		ChainID: req.ChainID,
		BoostID: req.BoostID,
	})
}

func (s *Server) logSkip(r *http.Request, b boostParams, err error) {
	s.logger.Warn("boost skipped",
		"boost_id", b.BoostID,
		"chain_id", b.ChainID,
		"reason", skipReason(err),
		"error", err,
	)
	s.metrics.ObserveBoostSkipped(skipReason(err))
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
