package cache

import (
	"fmt"
	"math/big"
	"time"
)

// threeWeeks is the TTL shared by every cache in the design except pow (no TTL) and
// lottery-adjacent sizing constants below.
const threeWeeks = 21 * 24 * time.Hour

// Sizes and TTLs per spec §4.7.
const (
	proposalSize = 100
	voteSize     = 2000
	powSize      = 19
	numVotesSize = 500
	ratioSize    = 100
	winnersSize  = 500
)

// VoteKey identifies a single vote in the vote cache.
type VoteKey struct {
	Voter      string
	ProposalID string
}

// BoostKey identifies a (boost, chain) pair, the key shape shared by num_votes, weighted_ratio
// and lottery_winners.
type BoostKey struct {
	BoostID string
	ChainID uint64
}

func (k BoostKey) sfKey() KeyString {
	return fmt.Sprintf("%s:%d", k.BoostID, k.ChainID)
}

// WeightedRatio is the (cached_vp, cached_reward) pair described in spec §4.3.
type WeightedRatio struct {
	VotingPower float64
	Reward      *big.Int
}

// Caches bundles the six named caches used by a boost-guardd process.
type Caches struct {
	Proposal       *Cache
	Vote           *Cache
	Pow            *Cache
	NumVotes       *Cache
	WeightedRatio  *Cache
	LotteryWinners *Cache
}

// NewCaches builds all six caches with the sizes and TTLs fixed by the design.
func NewCaches() *Caches {
	return &Caches{
		Proposal:       New("proposal", proposalSize, threeWeeks),
		Vote:           New("vote", voteSize, threeWeeks),
		Pow:            New("pow", powSize, 0),
		NumVotes:       New("num_votes", numVotesSize, threeWeeks),
		WeightedRatio:  New("weighted_ratio", ratioSize, threeWeeks),
		LotteryWinners: New("lottery_winners", winnersSize, threeWeeks),
	}
}

// VoteCacheKey builds the vote cache key for a given voter address string and proposal id.
func VoteCacheKey(voter, proposalID string) VoteKey {
	return VoteKey{Voter: voter, ProposalID: proposalID}
}

// VoteSFKey builds the singleflight key string for a vote cache lookup.
func VoteSFKey(k VoteKey) KeyString {
	return fmt.Sprintf("%s:%s", k.Voter, k.ProposalID)
}

// BoostSFKey builds the singleflight key string for a (boost_id, chain_id) cache lookup.
func BoostSFKey(boostID string, chainID uint64) KeyString {
	return BoostKey{BoostID: boostID, ChainID: chainID}.sfKey()
}
