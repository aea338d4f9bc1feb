// Package bigdecimal scales f64 voting powers and scores into fixed-point big integers, and
// provides the saturating clamp primitives the reward engine depends on.
package bigdecimal

import (
	"math/big"
	"sync"
)

// MaxDecimals bounds the cached power-of-ten table (spec §4.7, cache "pow": decimals 0..18).
const MaxDecimals = 18

var (
	powOnce  sync.Once
	powTable [MaxDecimals + 1]float64
)

func ensurePowTable() {
	powOnce.Do(func() {
		for d := 0; d <= MaxDecimals; d++ {
			powTable[d] = pow10(d)
		}
	})
}

func pow10(d int) float64 {
	result := 1.0
	for i := 0; i < d; i++ {
		result *= 10
	}
	return result
}

// Pow returns 10^decimals as a cached float64. decimals is clamped into [0, MaxDecimals].
func Pow(decimals uint8) float64 {
	ensurePowTable()
	d := int(decimals)
	if d > MaxDecimals {
		d = MaxDecimals
	}
	return powTable[d]
}

// Scale converts a real value (voting power, score) into a big integer fixed-point
// representation: floor(value * 10^decimals). Negative inputs clamp to zero since voting
// power and scores are never negative by invariant. The multiplication is performed in
// float64 (matching upstream f64 scores, per spec §4.2 — precision loss in the last few
// bits is accepted) and then floored into an arbitrary-precision integer so that large
// pool sizes/scores never overflow an int64 intermediate.
func Scale(value float64, decimals uint8) *big.Int {
	if value <= 0 {
		return big.NewInt(0)
	}
	scaled := value * Pow(decimals)
	bf := new(big.Float).SetPrec(200).SetFloat64(scaled)
	result, _ := bf.Int(nil)
	return result
}

// Min returns the smaller of two big integers, never mutating either argument.
func Min(a, b *big.Int) *big.Int {
	if a == nil {
		return new(big.Int).Set(b)
	}
	if b == nil {
		return new(big.Int).Set(a)
	}
	if a.Cmp(b) <= 0 {
		return new(big.Int).Set(a)
	}
	return new(big.Int).Set(b)
}

// ClampNonNegative returns value if it is non-negative, else zero.
func ClampNonNegative(value *big.Int) *big.Int {
	if value == nil || value.Sign() < 0 {
		return big.NewInt(0)
	}
	return new(big.Int).Set(value)
}

// SaturatingSub returns a-b, clamped at zero (never negative).
func SaturatingSub(a, b *big.Int) *big.Int {
	if a == nil {
		return big.NewInt(0)
	}
	result := new(big.Int).Set(a)
	if b != nil {
		result.Sub(result, b)
	}
	return ClampNonNegative(result)
}
