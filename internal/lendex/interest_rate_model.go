package lendex

import (
	"lendex/core"
	"lendex/pkg/number"

	"github.com/shopspring/decimal"
)

var (
	// SecondsInYear seconds per year used to scale annual rates
	SecondsInYear int64 = 31_556_736
	// Precision fractional digits of rates and shares
	Precision = number.Precision

	one = decimal.New(1, 0)
)

// Utilisation borrowed value / deposited value, in [0, 1]
func Utilisation(market *core.Market) decimal.Decimal {
	deposited := market.LtokenSupply.Mul(market.LtokenRate)
	if !deposited.IsPositive() {
		return decimal.Zero
	}

	borrowed := market.BtokenSupply.Mul(market.BtokenRate)
	u, _ := number.DivFloor(borrowed, deposited, Precision)
	if u.GreaterThan(one) {
		return one
	}

	return u
}

// AnnualRate interest rate per year at the current utilisation
func AnnualRate(market *core.Market) decimal.Decimal {
	return number.Floor(market.InterestRate().Rate(Utilisation(market)), Precision)
}

// PeriodRate scale an annual rate to one charge period
// period_rate = annual_rate * period / seconds_in_year
func PeriodRate(annual decimal.Decimal, period int64) decimal.Decimal {
	r, _ := number.DivFloor(annual.Mul(decimal.NewFromInt(period)), decimal.NewFromInt(SecondsInYear), Precision)
	return r
}
