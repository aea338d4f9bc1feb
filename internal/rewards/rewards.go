// Package rewards implements the Even and Weighted (with an optional per-voter cap)
// distribution disciplines described in spec §4.3. The lottery discipline lives in package
// lottery.
package rewards

import (
	"math/big"

	"github.com/snapshot-labs/boost-guard/internal/bgerr"
	"github.com/snapshot-labs/boost-guard/internal/bigdecimal"
)

// Even computes the per-voter reward when pool_size splits evenly across n eligible voters
// (spec §4.3 "Even"). n must be positive.
func Even(pool *big.Int, n uint32) (*big.Int, error) {
	if n == 0 {
		return nil, bgerr.ErrInternal
	}
	return new(big.Int).Quo(pool, big.NewInt(int64(n))), nil
}

// WeightedUncapped computes a single voter's share of pool_size proportional to its scaled
// voting power over the scaled total score (spec §4.3 "Weighted(None)").
func WeightedUncapped(pool, scaledVotingPower, scaledTotalScore *big.Int) (*big.Int, error) {
	if scaledTotalScore.Sign() == 0 {
		return nil, bgerr.ErrInternal
	}
	reward := new(big.Int).Mul(scaledVotingPower, pool)
	reward.Quo(reward, scaledTotalScore)
	return reward, nil
}

// Boundary is the cached (cached_vp, cached_reward) ratio produced by the weighted-with-cap
// sorted-descending walk (spec §4.3 "Weighted(Some(L))"). Every voter's reward thereafter is
// min(vp * cached_reward / cached_vp, limit).
type Boundary struct {
	VotingPower *big.Int
	Reward      *big.Int
}

// WeightedCapped walks voters sorted by scaled voting power descending, redistributing the
// surplus from capped voters onto uncapped ones, and returns the boundary ratio to cache plus
// each voter's reward. totalScore is the scaled total score for the eligibility scope as
// supplied by the caller; it is used as given and is not derived from voters (the API engine
// passes the proposal's recorded score for that scope). voters must be sorted descending by
// power, with equal powers allowed in any order; ErrNotSorted is returned otherwise (spec open
// question #2).
func WeightedCapped(pool *big.Int, limit *big.Int, totalScore *big.Int, voters []*big.Int) (Boundary, []*big.Int, error) {
	for i := 1; i < len(voters); i++ {
		if voters[i].Cmp(voters[i-1]) > 0 {
			return Boundary{}, nil, bgerr.ErrNotSorted
		}
	}

	scoreRemaining := new(big.Int).Set(totalScore)
	poolRemaining := new(big.Int).Set(pool)
	rewards := make([]*big.Int, len(voters))
	var boundary Boundary

	for i, v := range voters {
		var reward *big.Int
		if scoreRemaining.Sign() == 0 {
			reward = big.NewInt(0)
		} else {
			reward = new(big.Int).Mul(v, poolRemaining)
			reward.Quo(reward, scoreRemaining)
		}
		actual := reward
		if limit != nil && reward.Cmp(limit) > 0 {
			actual = new(big.Int).Set(limit)
		}

		rewards[i] = actual
		boundary = Boundary{VotingPower: new(big.Int).Set(v), Reward: new(big.Int).Set(actual)}

		poolRemaining.Sub(poolRemaining, actual)
		scoreRemaining.Sub(scoreRemaining, v)
	}

	return boundary, rewards, nil
}

// FromBoundary serves a voter's reward from a cached (cached_vp, cached_reward) ratio without
// re-walking the full voter list: reward = min(vp * cached_reward / cached_vp, limit).
func FromBoundary(boundary Boundary, scaledVotingPower *big.Int, limit *big.Int) *big.Int {
	if boundary.VotingPower == nil || boundary.VotingPower.Sign() == 0 {
		return big.NewInt(0)
	}
	reward := new(big.Int).Mul(scaledVotingPower, boundary.Reward)
	reward.Quo(reward, boundary.VotingPower)
	if limit != nil && reward.Cmp(limit) > 0 {
		return new(big.Int).Set(limit)
	}
	return reward
}

// ScaleVoters is a convenience for scaling a slice of real voting powers into fixed-point
// integers with the boost's decimals (spec §4.2).
func ScaleVoters(powers []float64, decimals uint8) []*big.Int {
	scaled := make([]*big.Int, len(powers))
	for i, p := range powers {
		scaled[i] = bigdecimal.Scale(p, decimals)
	}
	return scaled
}
