package lendex

import (
	"lendex/core"
	"lendex/pkg/number"

	"github.com/shopspring/decimal"
)

// Valuate credit line of a position in common token
//
// collateral = floor(ltoken value * price)
// credit_line = floor(collateral * collateral_ratio)
// debt = ceil(btoken value * price)
func Valuate(market *core.Market, position *core.Position, price decimal.Decimal) core.CreditLine {
	collateral := number.Floor(LtokenValue(market, position.Ltokens).Mul(price), 0)
	return core.CreditLine{
		Collateral: collateral,
		CreditLine: number.Floor(collateral.Mul(market.CollateralRatio), 0),
		Debt:       number.Ceil(BtokenValue(market, position.Btokens).Mul(price), 0),
	}
}

// ConvertCeil value of amount in common token, rounded up
func ConvertCeil(amount, price decimal.Decimal) decimal.Decimal {
	return number.Ceil(amount.Mul(price), 0)
}

// CoversDebt whether total still covers its debt once the position before is replaced by after,
// all valued in the same market at price
func CoversDebt(total core.CreditLine, market *core.Market, before, after *core.Position, price decimal.Decimal) bool {
	remaining := total.CreditLine.
		Sub(Valuate(market, before, price).CreditLine).
		Add(Valuate(market, after, price).CreditLine)
	return remaining.GreaterThanOrEqual(total.Debt)
}

// BorrowLimit largest amount at price whose value, rounded up, fits in the unused credit line
func BorrowLimit(total core.CreditLine, price decimal.Decimal) (decimal.Decimal, error) {
	free := total.CreditLine.Sub(total.Debt)
	if !free.IsPositive() {
		return decimal.Zero, nil
	}

	return number.DivFloor(free, price, 0)
}

// ZeroCreditLine empty credit line
func ZeroCreditLine() core.CreditLine {
	return core.CreditLine{
		Collateral: decimal.Zero,
		CreditLine: decimal.Zero,
		Debt:       decimal.Zero,
	}
}
