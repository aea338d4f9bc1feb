package api

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/snapshot-labs/boost-guard/internal/bgerr"
	"github.com/snapshot-labs/boost-guard/internal/bigdecimal"
	"github.com/snapshot-labs/boost-guard/internal/cache"
	"github.com/snapshot-labs/boost-guard/internal/domain"
	"github.com/snapshot-labs/boost-guard/internal/lottery"
	"github.com/snapshot-labs/boost-guard/internal/rewards"
	"github.com/snapshot-labs/boost-guard/internal/validation"
)

// resolveProposal fetches a proposal through the proposal cache, purging the entry when
// lifecycle validation fails (spec §4.1 "Lifecycle", §4.7 cache "proposal").
func (s *Server) resolveProposal(ctx context.Context, proposalID string) (domain.Proposal, error) {
	value, hit, err := s.caches.Proposal.GetOrLoad(ctx, proposalID, proposalID, func(ctx context.Context) (any, error) {
		p, err := s.store.Proposal(ctx, proposalID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", bgerr.ErrProposalNotFound, err)
		}
		return p, nil
	})
	if err != nil {
		s.metrics.ObserveCacheMiss(s.caches.Proposal.Name())
		return domain.Proposal{}, err
	}
	if hit {
		s.metrics.ObserveCacheHit(s.caches.Proposal.Name())
	} else {
		s.metrics.ObserveCacheMiss(s.caches.Proposal.Name())
	}

	proposal := value.(domain.Proposal)
	if lifecycleErr := validation.Lifecycle(proposal, time.Now()); lifecycleErr != nil {
		s.caches.Proposal.Remove(proposalID)
		return domain.Proposal{}, lifecycleErr
	}
	return proposal, nil
}

// resolveVote fetches a single voter's vote on a proposal through the vote cache.
func (s *Server) resolveVote(ctx context.Context, voter, proposalID string) (domain.Vote, error) {
	key := cache.VoteCacheKey(voter, proposalID)
	value, hit, err := s.caches.Vote.GetOrLoad(ctx, key, cache.VoteSFKey(key), func(ctx context.Context) (any, error) {
		v, err := s.store.Vote(ctx, voter, proposalID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", bgerr.ErrVoteNotFound, err)
		}
		return v, nil
	})
	if err != nil {
		return domain.Vote{}, err
	}
	if hit {
		s.metrics.ObserveCacheHit(s.caches.Vote.Name())
	} else {
		s.metrics.ObserveCacheMiss(s.caches.Vote.Name())
	}
	return value.(domain.Vote), nil
}

// boostTarget identifies a single (boost_id, chain_id) entry from a request.
type boostTarget struct {
	BoostID string
	ChainID uint64
}

// rewardResult is the outcome of evaluating one boost for one voter.
type rewardResult struct {
	Target boostTarget
	Reward *big.Int
	Boost  domain.BoostInfo
}

// evaluateBoost runs the full per-boost pipeline: resolve metadata, validate eligibility, and
// compute the reward. Errors are returned for the caller to log, and the handlers omit the
// boost from the reply for every error returned here. Store transport failures come back
// wrapped in bgerr.ErrAdapterTransport and subgraph failures wrapped in bgerr.ErrBoostNotFound;
// the handlers skip these like any other per-boost error and do not fail the request.
func (s *Server) evaluateBoost(ctx context.Context, proposal domain.Proposal, vote domain.Vote, target boostTarget) (rewardResult, error) {
	boost, err := s.subgraph.Boost(ctx, target.BoostID, target.ChainID)
	if err != nil {
		return rewardResult{}, fmt.Errorf("%w: %v", bgerr.ErrBoostNotFound, err)
	}

	if err := validation.ProposalLink(boost.Strategy.ProposalID, proposal.ID); err != nil {
		return rewardResult{}, err
	}
	if err := validation.TypeAndPrivacy(proposal, boost.Strategy.Eligibility); err != nil {
		return rewardResult{}, err
	}
	if err := validation.TokenPolicy(s.policy, boost.Token, boost.ChainID); err != nil {
		return rewardResult{}, err
	}
	eligible, err := validation.ChoiceEligible(proposal, boost.Strategy.Eligibility, vote)
	if err != nil {
		return rewardResult{}, err
	}
	if !eligible {
		return rewardResult{}, bgerr.ErrIneligibleChoice
	}

	reward, err := s.computeReward(ctx, proposal, boost, vote)
	if err != nil {
		return rewardResult{}, err
	}
	return rewardResult{Target: target, Reward: reward, Boost: boost}, nil
}

func (s *Server) computeReward(ctx context.Context, proposal domain.Proposal, boost domain.BoostInfo, vote domain.Vote) (*big.Int, error) {
	switch boost.Strategy.Distribution.Kind {
	case domain.DistributionEven:
		n, err := s.numEligibleVoters(ctx, proposal, boost)
		if err != nil {
			return nil, err
		}
		return rewards.Even(boost.Pool, n)

	case domain.DistributionWeighted:
		return s.computeWeightedReward(ctx, proposal, boost, vote)

	case domain.DistributionLottery:
		winners, err := s.lotteryWinners(ctx, proposal, boost)
		if err != nil {
			return nil, err
		}
		prize, ok := winners[vote.Voter]
		if !ok {
			// The voter was not drawn; treated as an ineligible-choice skip since the
			// taxonomy has no dedicated "did not win" case (spec §7).
			return nil, bgerr.ErrIneligibleChoice
		}
		return prize, nil

	default:
		return nil, bgerr.ErrInternal
	}
}

// eligibleVotes returns the votes (sorted by voting power descending) that satisfy a boost's
// eligibility rule, used by both the Even count path and the weighted paths.
func (s *Server) eligibleVotes(ctx context.Context, proposal domain.Proposal, eligibility domain.Eligibility) ([]domain.Vote, error) {
	all, err := s.store.VotesDescending(ctx, proposal.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", bgerr.ErrAdapterTransport, err)
	}

	if eligibility.Kind == domain.EligibilityIncentive {
		return all, nil
	}

	targetChoice := eligibility.Choice
	if eligibility.Kind == domain.EligibilityBribeWinningOutcome {
		winner, err := validation.WinningChoice(proposal)
		if err != nil {
			return nil, err
		}
		targetChoice = winner
	}

	filtered := make([]domain.Vote, 0, len(all))
	for _, v := range all {
		if v.Choice.HasSingle() && v.Choice.Single == targetChoice {
			filtered = append(filtered, v)
		}
	}
	return filtered, nil
}

func (s *Server) numEligibleVoters(ctx context.Context, proposal domain.Proposal, boost domain.BoostInfo) (uint32, error) {
	key := cache.BoostKey{BoostID: boost.ID, ChainID: boost.ChainID}
	value, hit, err := s.caches.NumVotes.GetOrLoad(ctx, key, cache.BoostSFKey(boost.ID, boost.ChainID), func(ctx context.Context) (any, error) {
		if boost.Strategy.Eligibility.Kind == domain.EligibilityIncentive {
			n, err := s.store.CountAll(ctx, proposal.ID)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", bgerr.ErrAdapterTransport, err)
			}
			return n, nil
		}
		votes, err := s.eligibleVotes(ctx, proposal, boost.Strategy.Eligibility)
		if err != nil {
			return nil, err
		}
		return uint32(len(votes)), nil
	})
	if err != nil {
		return 0, err
	}
	if hit {
		s.metrics.ObserveCacheHit(s.caches.NumVotes.Name())
	} else {
		s.metrics.ObserveCacheMiss(s.caches.NumVotes.Name())
	}
	n := value.(uint32)
	if n == 0 {
		return 0, bgerr.ErrInternal
	}
	return n, nil
}

func (s *Server) computeWeightedReward(ctx context.Context, proposal domain.Proposal, boost domain.BoostInfo, vote domain.Vote) (*big.Int, error) {
	scaledVoterPower := bigdecimal.Scale(vote.VotingPower, boost.Decimals)

	if boost.Strategy.Distribution.WeightedLimit == nil {
		total, err := s.weightedTotalScore(proposal, boost.Strategy.Eligibility, boost.Decimals)
		if err != nil {
			return nil, err
		}
		return rewards.WeightedUncapped(boost.Pool, scaledVoterPower, total)
	}

	boundary, err := s.weightedRatio(ctx, proposal, boost)
	if err != nil {
		return nil, err
	}
	return rewards.FromBoundary(boundary, scaledVoterPower, boost.Strategy.Distribution.WeightedLimit), nil
}

// weightedTotalScore resolves the denominator S the Weighted distribution splits pool against
// (spec §4.3): the proposal's total score for Incentive, or the score of the boosted choice
// (resolved to the proposal's winning choice for BribeWinningOutcome) for Bribe. This is the
// proposal's own recorded score, not a sum over the eligible voters fetched for a request.
func (s *Server) weightedTotalScore(proposal domain.Proposal, eligibility domain.Eligibility, decimals uint8) (*big.Int, error) {
	choice := eligibility.Choice
	switch eligibility.Kind {
	case domain.EligibilityIncentive:
		return bigdecimal.Scale(proposal.ScoresTotal, decimals), nil
	case domain.EligibilityBribeWinningOutcome:
		winner, err := validation.WinningChoice(proposal)
		if err != nil {
			return nil, err
		}
		choice = winner
	case domain.EligibilityBribe:
		// choice already set above.
	default:
		return nil, bgerr.ErrInternal
	}

	idx := choice - 1
	if idx < 0 || idx >= len(proposal.Scores) {
		return nil, bgerr.ErrInternal
	}
	return bigdecimal.Scale(proposal.Scores[idx], decimals), nil
}

func (s *Server) weightedRatio(ctx context.Context, proposal domain.Proposal, boost domain.BoostInfo) (rewards.Boundary, error) {
	key := cache.BoostKey{BoostID: boost.ID, ChainID: boost.ChainID}
	value, hit, err := s.caches.WeightedRatio.GetOrLoad(ctx, key, cache.BoostSFKey(boost.ID, boost.ChainID), func(ctx context.Context) (any, error) {
		votes, err := s.eligibleVotes(ctx, proposal, boost.Strategy.Eligibility)
		if err != nil {
			return nil, err
		}
		scaled := make([]*big.Int, len(votes))
		for i, v := range votes {
			scaled[i] = bigdecimal.Scale(v.VotingPower, boost.Decimals)
		}
		total, err := s.weightedTotalScore(proposal, boost.Strategy.Eligibility, boost.Decimals)
		if err != nil {
			return nil, err
		}
		boundary, _, err := rewards.WeightedCapped(boost.Pool, boost.Strategy.Distribution.WeightedLimit, total, scaled)
		if err != nil {
			return nil, err
		}
		return boundary, nil
	})
	if err != nil {
		return rewards.Boundary{}, err
	}
	if hit {
		s.metrics.ObserveCacheHit(s.caches.WeightedRatio.Name())
	} else {
		s.metrics.ObserveCacheMiss(s.caches.WeightedRatio.Name())
	}
	return value.(rewards.Boundary), nil
}

func (s *Server) lotteryWinners(ctx context.Context, proposal domain.Proposal, boost domain.BoostInfo) (map[common.Address]*big.Int, error) {
	key := cache.BoostKey{BoostID: boost.ID, ChainID: boost.ChainID}
	value, hit, err := s.caches.LotteryWinners.GetOrLoad(ctx, key, cache.BoostSFKey(boost.ID, boost.ChainID), func(ctx context.Context) (any, error) {
		votes, err := s.eligibleVotes(ctx, proposal, boost.Strategy.Eligibility)
		if err != nil {
			return nil, err
		}
		if len(votes) == 0 {
			return map[common.Address]*big.Int{}, nil
		}

		totalScaled := big.NewInt(0)
		candidates := make([]lottery.Voter, len(votes))
		for i, v := range votes {
			scaled := bigdecimal.Scale(v.VotingPower, boost.Decimals)
			totalScaled.Add(totalScaled, scaled)
			candidates[i] = lottery.Voter{Address: v.Voter, Power: scaled}
		}

		if boost.Strategy.Distribution.HasCapBps {
			candidates = lottery.AdjustWeights(candidates, totalScaled, boost.Strategy.Distribution.CapBps)
		}

		seed, err := s.beacon.Seed(ctx, proposal.End.Unix())
		if err != nil {
			return nil, err
		}

		s.metrics.ObserveLotteryDraw()
		return lottery.WinnersWithPrize(boost.Pool, candidates, seed, boost.Strategy.Distribution.NumWinners)
	})
	if err != nil {
		return nil, err
	}
	if hit {
		s.metrics.ObserveCacheHit(s.caches.LotteryWinners.Name())
	} else {
		s.metrics.ObserveCacheMiss(s.caches.LotteryWinners.Name())
	}
	return value.(map[common.Address]*big.Int), nil
}
