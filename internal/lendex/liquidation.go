package lendex

import (
	"lendex/core"
	"lendex/pkg/number"

	"github.com/shopspring/decimal"
)

// SeizeValue collateral underlying due to a liquidator that repaid amount of debt
//
// repaid = floor(amount * debt_price)
// seized = floor(repaid / (collateral_price * liquidation_price))
func SeizeValue(amount, debtPrice, collateralPrice, liquidationPrice decimal.Decimal) (decimal.Decimal, error) {
	if !liquidationPrice.IsPositive() {
		return decimal.Zero, core.ErrInvalidAmount
	}

	repaid := number.Floor(amount.Mul(debtPrice), 0)
	return number.DivFloor(repaid, collateralPrice.Mul(liquidationPrice), 0)
}

// TransferLtokens move ltokens worth amount from one position of the market to another,
// returns the shares moved
func TransferLtokens(market *core.Market, from, to *core.Position, amount decimal.Decimal) (decimal.Decimal, error) {
	if LtokenValue(market, from.Ltokens).LessThan(amount) {
		return decimal.Zero, core.ErrInsufficientLtokens
	}

	shares, err := toShares(amount, market.LtokenRate)
	if err != nil {
		return decimal.Zero, err
	}

	if shares.GreaterThan(from.Ltokens) {
		shares = from.Ltokens
	}

	from.Ltokens = from.Ltokens.Sub(shares)
	to.Ltokens = to.Ltokens.Add(shares)
	return shares, nil
}
