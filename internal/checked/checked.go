// Package checked provides uint64 arithmetic that fails instead of wrapping.
// Every supply, total and payment mutation in the engines goes through it.
package checked

import (
	"math/bits"

	"pump-token-core/internal/domain"
)

// Add returns a+b or ErrArithmeticOverflow if the sum wraps.
func Add(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, domain.ErrArithmeticOverflow
	}
	return sum, nil
}

// Sub returns a-b or ErrInsufficientFunds if b > a.
func Sub(a, b uint64) (uint64, error) {
	diff, borrow := bits.Sub64(a, b, 0)
	if borrow != 0 {
		return 0, domain.ErrInsufficientFunds
	}
	return diff, nil
}

// Mul returns a*b or ErrArithmeticOverflow if the product wraps.
func Mul(a, b uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, domain.ErrArithmeticOverflow
	}
	return lo, nil
}

// Div returns floor(a/b) or ErrArithmeticOverflow on division by zero.
func Div(a, b uint64) (uint64, error) {
	if b == 0 {
		return 0, domain.ErrArithmeticOverflow
	}
	return a / b, nil
}

// AddInt64 returns a+b or ErrArithmeticOverflow if the signed sum wraps.
// Used for deadline arithmetic on unix timestamps.
func AddInt64(a, b int64) (int64, error) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, domain.ErrArithmeticOverflow
	}
	return sum, nil
}

// Pow10 returns 10^exp or ErrArithmeticOverflow for exp > 19.
// Used to scale whole-token amounts to base units.
func Pow10(exp uint8) (uint64, error) {
	result := uint64(1)
	for i := uint8(0); i < exp; i++ {
		var err error
		result, err = Mul(result, 10)
		if err != nil {
			return 0, err
		}
	}
	return result, nil
}
