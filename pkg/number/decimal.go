package number

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Precision fractional digits kept by rates and shares
const Precision int32 = 18

var (
	// MaxUint128 largest amount representable on the wire
	MaxUint128 = decimal.RequireFromString("340282366920938463463374607431768211455")

	one = decimal.New(1, 0)

	// ErrDivisionByZero division by zero
	ErrDivisionByZero = errors.New("division by zero")
)

func Decimal(v string) decimal.Decimal {
	d, _ := decimal.NewFromString(v)
	return d
}

func Ceil(d decimal.Decimal, precision int32) decimal.Decimal {
	return d.Shift(precision).Ceil().Shift(-precision)
}

func Floor(d decimal.Decimal, precision int32) decimal.Decimal {
	return d.Shift(precision).Floor().Shift(-precision)
}

// IsInteger reports whether d has no fractional part
func IsInteger(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(0))
}

// FitsPrecision reports whether d can be held with precision fractional digits without loss
func FitsPrecision(d decimal.Decimal, precision int32) bool {
	return d.Equal(d.Truncate(precision))
}

// IsUint128 reports whether d is a non negative integer no greater than MaxUint128
func IsUint128(d decimal.Decimal) bool {
	return !d.IsNegative() && IsInteger(d) && d.LessThanOrEqual(MaxUint128)
}

// DivFloor a / b rounded down to precision digits
func DivFloor(a, b decimal.Decimal, precision int32) (decimal.Decimal, error) {
	if b.IsZero() {
		return decimal.Zero, ErrDivisionByZero
	}

	q, _ := a.QuoRem(b, precision)
	if a.Sign()*b.Sign() < 0 && !q.Mul(b).Equal(a) {
		q = q.Sub(decimal.New(1, -precision))
	}

	return q, nil
}

// DivCeil a / b rounded up to precision digits
func DivCeil(a, b decimal.Decimal, precision int32) (decimal.Decimal, error) {
	q, err := DivFloor(a, b, precision)
	if err != nil {
		return decimal.Zero, err
	}

	if !q.Mul(b).Equal(a) {
		q = q.Add(decimal.New(1, -precision))
	}

	return q, nil
}

// Pow d^n, each intermediate product rounded down to precision digits
func Pow(d decimal.Decimal, n uint64, precision int32) decimal.Decimal {
	result := one
	base := d
	for n > 0 {
		if n&1 == 1 {
			result = Floor(result.Mul(base), precision)
		}
		n >>= 1
		if n > 0 {
			base = Floor(base.Mul(base), precision)
		}
	}

	return result
}
