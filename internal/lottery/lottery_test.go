package lottery

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func addr(b byte) common.Address {
	var a common.Address
	a[19] = b
	return a
}

func scale18(v int64) *big.Int {
	pow := new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
	return new(big.Int).Mul(big.NewInt(v), pow)
}

// S5: voters vp in {458,200,180,150,5,4,3}, decimals=18, cap=2000 bps. Expected adjusted:
// {200,200,200,200,83.333...,66.666...,50} (all scaled by 1e18). Fractional results are
// checked within a tight tolerance since the engine floors at every integer division.
func TestAdjustWeightsS5(t *testing.T) {
	powers := []int64{458, 200, 180, 150, 5, 4, 3}
	voters := make([]Voter, len(powers))
	total := big.NewInt(0)
	for i, p := range powers {
		voters[i] = Voter{Address: addr(byte(i + 1)), Power: scale18(p)}
		total.Add(total, voters[i].Power)
	}

	adjusted := AdjustWeights(voters, total, 2000)

	pow := new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
	expected := []*big.Rat{
		big.NewRat(200, 1),
		big.NewRat(200, 1),
		big.NewRat(200, 1),
		big.NewRat(200, 1),
		big.NewRat(250, 3),
		big.NewRat(200, 3),
		big.NewRat(50, 1),
	}

	tolerance := big.NewInt(10) // absolute tolerance in 1e18 units, well under 1e-16 of scale
	for i, want := range expected {
		wantScaled := new(big.Int).Mul(want.Num(), pow)
		wantScaled.Quo(wantScaled, want.Denom())

		diff := new(big.Int).Sub(adjusted[i].Power, wantScaled)
		diff.Abs(diff)
		if diff.Cmp(tolerance) > 0 {
			t.Fatalf("voter %d adjusted power = %s, want ~%s (diff %s)", i, adjusted[i].Power, wantScaled, diff)
		}
	}
}

func TestAdjustWeightsNoOpWhenCapAbsent(t *testing.T) {
	voters := []Voter{{Address: addr(1), Power: big.NewInt(100)}}
	got := AdjustWeights(voters, big.NewInt(100), 0)
	if got[0].Power.Cmp(voters[0].Power) != 0 {
		t.Fatalf("cap_bps=0 should be a no-op")
	}
	got = AdjustWeights(voters, big.NewInt(100), 10_000)
	if got[0].Power.Cmp(voters[0].Power) != 0 {
		t.Fatalf("cap_bps=10000 should be a no-op")
	}
}

func TestAdjustWeightsNoOpWhenInfeasible(t *testing.T) {
	voters := []Voter{
		{Address: addr(1), Power: big.NewInt(60)},
		{Address: addr(2), Power: big.NewInt(40)},
	}
	// cap_bps=2000 requires at least ceil(10000/2000)=5 voters; only 2 are present.
	got := AdjustWeights(voters, big.NewInt(100), 2000)
	if got[0].Power.Cmp(voters[0].Power) != 0 || got[1].Power.Cmp(voters[1].Power) != 0 {
		t.Fatalf("infeasible cap should be a no-op")
	}
}

func TestPoolAllVotersWinWhenFewerThanW(t *testing.T) {
	n, prize := Pool(big.NewInt(100), 3, 10)
	if n != 3 {
		t.Fatalf("expected all 3 voters to win, got %d", n)
	}
	if prize.Cmp(big.NewInt(33)) != 0 {
		t.Fatalf("expected prize 33, got %s", prize)
	}
}

func TestPoolExactlyWWinners(t *testing.T) {
	n, prize := Pool(big.NewInt(100), 10, 4)
	if n != 4 {
		t.Fatalf("expected 4 winners, got %d", n)
	}
	if prize.Cmp(big.NewInt(25)) != 0 {
		t.Fatalf("expected prize 25, got %s", prize)
	}
}

func TestDrawIsDeterministic(t *testing.T) {
	voters := []Voter{
		{Address: addr(1), Power: big.NewInt(10)},
		{Address: addr(2), Power: big.NewInt(20)},
		{Address: addr(3), Power: big.NewInt(30)},
		{Address: addr(4), Power: big.NewInt(40)},
	}
	seed := [32]byte{1, 2, 3}

	first, err := Draw(voters, seed, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Draw(voters, seed, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(first) != 2 || len(second) != 2 {
		t.Fatalf("expected 2 winners each draw")
	}
	for w := range first {
		if _, ok := second[w]; !ok {
			t.Fatalf("draws with identical seed produced different winner sets")
		}
	}
}

func TestDrawNoDuplicateWinners(t *testing.T) {
	voters := []Voter{
		{Address: addr(1), Power: big.NewInt(1)},
		{Address: addr(2), Power: big.NewInt(1)},
		{Address: addr(3), Power: big.NewInt(1)},
	}
	seed := [32]byte{9, 9, 9}
	winners, err := Draw(voters, seed, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(winners) != 3 {
		t.Fatalf("expected all 3 distinct voters to win, got %d", len(winners))
	}
}
