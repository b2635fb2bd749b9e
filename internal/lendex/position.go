package lendex

import (
	"lendex/core"
	"lendex/pkg/number"

	"github.com/shopspring/decimal"
)

// ValidateAmount amounts are non zero integers that fit in 128 bits
func ValidateAmount(amount decimal.Decimal) error {
	switch {
	case amount.IsZero():
		return core.ErrZeroAmount
	case amount.IsNegative(), !number.IsInteger(amount):
		return core.ErrInvalidAmount
	case amount.GreaterThan(number.MaxUint128):
		return core.ErrArithmeticOverflow
	}

	return nil
}

// ValidateFunds funds must be exactly one non zero coin of the market asset
func ValidateFunds(funds []core.Coin, asset core.Token) (decimal.Decimal, error) {
	switch len(funds) {
	case 0:
		return decimal.Zero, core.ErrZeroAmount
	case 1:
	default:
		return decimal.Zero, core.ErrExtraDenoms
	}

	coin := funds[0]
	if !coin.Denom.Equal(asset) {
		return decimal.Zero, core.ErrInvalidDenom
	}

	if err := ValidateAmount(coin.Amount); err != nil {
		return decimal.Zero, err
	}

	return coin.Amount, nil
}

// toShares amount / rate, rounded up
func toShares(amount, rate decimal.Decimal) (decimal.Decimal, error) {
	return number.DivCeil(amount, rate, Precision)
}

// Deposit mint ltokens worth amount
func Deposit(market *core.Market, position *core.Position, amount decimal.Decimal) error {
	if limit := market.MarketCap; limit.Valid {
		if LtokenValue(market, market.LtokenSupply).Add(amount).GreaterThan(limit.Decimal) {
			return core.ErrDepositOverCap
		}
	}

	shares, err := toShares(amount, market.LtokenRate)
	if err != nil {
		return err
	}

	market.Liquidity = market.Liquidity.Add(amount)
	market.LtokenSupply = market.LtokenSupply.Add(shares)
	position.Ltokens = position.Ltokens.Add(shares)

	return checkBounds(market)
}

// Withdraw burn ltokens worth amount
func Withdraw(market *core.Market, position *core.Position, amount decimal.Decimal) error {
	if LtokenValue(market, position.Ltokens).LessThan(amount) {
		return core.ErrInsufficientLtokens
	}

	if market.Liquidity.LessThan(amount) {
		return core.ErrInsufficientLiquidity
	}

	shares, err := toShares(amount, market.LtokenRate)
	if err != nil {
		return err
	}

	if shares.GreaterThan(position.Ltokens) {
		shares = position.Ltokens
	}

	market.Liquidity = market.Liquidity.Sub(amount)
	market.LtokenSupply = market.LtokenSupply.Sub(shares)
	position.Ltokens = position.Ltokens.Sub(shares)

	return nil
}

// Borrow mint btokens worth amount
func Borrow(market *core.Market, position *core.Position, amount decimal.Decimal) error {
	if market.Liquidity.LessThan(amount) {
		return core.ErrInsufficientLiquidity
	}

	shares, err := toShares(amount, market.BtokenRate)
	if err != nil {
		return err
	}

	market.Liquidity = market.Liquidity.Sub(amount)
	market.BtokenSupply = market.BtokenSupply.Add(shares)
	position.Btokens = position.Btokens.Add(shares)

	return checkBounds(market)
}

// Repay burn btokens worth amount; repaying the whole debt value clears every share
func Repay(market *core.Market, position *core.Position, amount decimal.Decimal) error {
	debt := BtokenValue(market, position.Btokens)
	if amount.GreaterThan(debt) {
		return core.ErrRepayExceedsDebt
	}

	shares := position.Btokens
	if amount.LessThan(debt) {
		s, err := number.DivFloor(amount, market.BtokenRate, Precision)
		if err != nil {
			return err
		}

		if s.LessThan(shares) {
			shares = s
		}
	}

	market.Liquidity = market.Liquidity.Add(amount)
	market.BtokenSupply = market.BtokenSupply.Sub(shares)
	position.Btokens = position.Btokens.Sub(shares)

	return checkBounds(market)
}
