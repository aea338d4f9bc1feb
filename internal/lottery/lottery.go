// Package lottery implements the weighted-without-replacement winner draw and the optional
// per-voter probability cap described in spec §4.4-§4.5.
package lottery

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/chacha20"
)

// Voter is a single candidate in the draw: a scaled voting power paired with its address.
type Voter struct {
	Address common.Address
	Power   *big.Int
}

// Pool computes the number of winners and the per-winner prize. If eligible voters do not
// exceed W, every voter wins and the prize splits the pool len(voters) ways; otherwise exactly
// W winners split the pool (spec §4.4 "Pool and prize").
func Pool(pool *big.Int, numVoters int, numWinners int) (winners int, prize *big.Int) {
	if numVoters <= numWinners {
		return numVoters, new(big.Int).Quo(pool, big.NewInt(int64(numVoters)))
	}
	return numWinners, new(big.Int).Quo(pool, big.NewInt(int64(numWinners)))
}

// AdjustWeights applies the optional cap_bps probability cap (spec §4.5). voters must already
// be sorted by Power descending. capBps of 0 or 10000 is a no-op, as is a cap that is
// infeasible given the voter count (`len(voters) < ceil(10000/cap_bps)`); in either case the
// original voters slice is returned unchanged.
func AdjustWeights(voters []Voter, totalScaledScore *big.Int, capBps uint16) []Voter {
	if capBps == 0 || capBps == 10_000 {
		return voters
	}
	minVotersForCap := (10_000 + int(capBps) - 1) / int(capBps)
	if len(voters) < minVotersForCap {
		return voters
	}

	tenThousand := big.NewInt(10_000)
	capBig := big.NewInt(int64(capBps))

	// vp_limit is fixed for the whole walk: a share of the *original* total score, not the
	// shrinking remainder (spec §4.5 S5).
	vpLimit := new(big.Int).Mul(totalScaledScore, capBig)
	vpLimit.Quo(vpLimit, tenThousand)

	remainingScore := new(big.Int).Set(totalScaledScore)
	remainingAdjusted := new(big.Int).Set(totalScaledScore)

	adjusted := make([]Voter, len(voters))
	for i, v := range voters {
		share := new(big.Int).Mul(remainingAdjusted, v.Power)
		if remainingScore.Sign() != 0 {
			share.Quo(share, remainingScore)
		} else {
			share.SetInt64(0)
		}

		adjustedPower := share
		if vpLimit.Cmp(share) < 0 {
			adjustedPower = vpLimit
		}

		adjusted[i] = Voter{Address: v.Address, Power: new(big.Int).Set(adjustedPower)}

		remainingScore.Sub(remainingScore, v.Power)
		remainingAdjusted.Sub(remainingAdjusted, adjustedPower)
	}
	return adjusted
}

// Draw selects exactly numWinners distinct voters without replacement, weighted by Power, using
// a ChaCha20 stream seeded deterministically from seed as the source of randomness (spec §4.4
// "Draw", §4.5 determinism contract). voters need not be sorted for this step, but the result
// is only deterministic for a fixed input order.
func Draw(voters []Voter, seed [32]byte, numWinners int) (map[common.Address]struct{}, error) {
	if len(voters) == 0 {
		return nil, fmt.Errorf("lottery: no voters to draw from")
	}
	if numWinners <= 0 {
		return nil, fmt.Errorf("lottery: numWinners must be positive")
	}

	cumulative := make([]*big.Int, len(voters))
	total := big.NewInt(0)
	for i, v := range voters {
		total = new(big.Int).Add(total, v.Power)
		cumulative[i] = new(big.Int).Set(total)
	}
	if total.Sign() <= 0 {
		return nil, fmt.Errorf("lottery: total weight is zero")
	}

	rng, err := newSeededReader(seed)
	if err != nil {
		return nil, err
	}

	winners := make(map[common.Address]struct{}, numWinners)
	for len(winners) < numWinners {
		sample, err := rand.Int(rng, total)
		if err != nil {
			return nil, fmt.Errorf("lottery: draw sample: %w", err)
		}
		// rand.Int draws from [0, total); the cumulative array holds partial sums, so the
		// first index whose cumulative weight exceeds the sample is the winner.
		idx := sort.Search(len(cumulative), func(i int) bool {
			return cumulative[i].Cmp(sample) > 0
		})
		if idx == len(cumulative) {
			idx = len(cumulative) - 1
		}
		winners[voters[idx].Address] = struct{}{}
	}
	return winners, nil
}

// WinnersWithPrize runs the full pool/prize/draw pipeline and returns each winner's prize
// amount, ready for caching (spec §4.7, cache "lottery_winners").
func WinnersWithPrize(pool *big.Int, voters []Voter, seed [32]byte, numWinners int) (map[common.Address]*big.Int, error) {
	n, prize := Pool(pool, len(voters), numWinners)

	if n >= len(voters) {
		result := make(map[common.Address]*big.Int, len(voters))
		for _, v := range voters {
			result[v.Address] = new(big.Int).Set(prize)
		}
		return result, nil
	}

	picked, err := Draw(voters, seed, n)
	if err != nil {
		return nil, err
	}
	result := make(map[common.Address]*big.Int, len(picked))
	for addr := range picked {
		result[addr] = new(big.Int).Set(prize)
	}
	return result, nil
}

// newSeededReader wraps a ChaCha20 keystream as a deterministic io.Reader suitable for
// crypto/rand.Int, giving the draw a reproducible source of randomness tied to the beacon seed
// rather than process entropy.
func newSeededReader(seed [32]byte) (*chachaReader, error) {
	var nonce [chacha20.NonceSize]byte
	cipher, err := chacha20.NewUnauthenticatedCipher(seed[:], nonce[:])
	if err != nil {
		return nil, fmt.Errorf("lottery: init chacha20: %w", err)
	}
	return &chachaReader{cipher: cipher}, nil
}

type chachaReader struct {
	cipher *chacha20.Cipher
}

func (r *chachaReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	r.cipher.XORKeyStream(p, p)
	return len(p), nil
}
