package lendex

import (
	"testing"

	"lendex/core"
	"lendex/pkg/number"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateFunds(t *testing.T) {
	asset := core.Native("ustake")

	amount, err := ValidateFunds([]core.Coin{core.NewCoin(asset, number.Decimal("100"))}, asset)
	require.Nil(t, err)
	assert.Equal(t, "100", amount.String())

	_, err = ValidateFunds(nil, asset)
	assert.ErrorIs(t, err, core.ErrZeroAmount)

	_, err = ValidateFunds([]core.Coin{core.NewCoin(asset, decimal.Zero)}, asset)
	assert.ErrorIs(t, err, core.ErrZeroAmount)

	_, err = ValidateFunds([]core.Coin{core.NewCoin(core.Native("ucosm"), number.Decimal("1"))}, asset)
	assert.ErrorIs(t, err, core.ErrInvalidDenom)

	_, err = ValidateFunds([]core.Coin{
		core.NewCoin(asset, number.Decimal("1")),
		core.NewCoin(core.Native("ucosm"), number.Decimal("1")),
	}, asset)
	assert.ErrorIs(t, err, core.ErrExtraDenoms)

	_, err = ValidateFunds([]core.Coin{core.NewCoin(asset, number.MaxUint128.Add(decimal.New(1, 0)))}, asset)
	assert.ErrorIs(t, err, core.ErrArithmeticOverflow)

	_, err = ValidateFunds([]core.Coin{core.NewCoin(asset, number.Decimal("1.5"))}, asset)
	assert.ErrorIs(t, err, core.ErrInvalidAmount)
}

func TestDepositWithdrawRoundTrip(t *testing.T) {
	for _, rate := range []string{"1", "1.5", "1.123456789012345678"} {
		t.Run(rate, func(t *testing.T) {
			market := newTestMarket(t)
			market.LtokenRate = number.Decimal(rate)
			position := &core.Position{}

			amount := number.Decimal("10")
			require.Nil(t, Deposit(market, position, amount))
			assert.Equal(t, "10", LtokenValue(market, position.Ltokens).String())
			assert.Equal(t, "10", market.Liquidity.String())

			require.Nil(t, Withdraw(market, position, amount))
			assert.True(t, position.Ltokens.IsZero())
			assert.True(t, market.LtokenSupply.IsZero())
			assert.True(t, market.Liquidity.IsZero())
		})
	}
}

func TestWithdraw(t *testing.T) {
	market := newTestMarket(t)
	position := &core.Position{}
	require.Nil(t, Deposit(market, position, number.Decimal("100")))

	assert.ErrorIs(t, Withdraw(market, position, number.Decimal("101")), core.ErrInsufficientLtokens)

	borrower := &core.Position{}
	require.Nil(t, Borrow(market, borrower, number.Decimal("60")))
	assert.ErrorIs(t, Withdraw(market, position, number.Decimal("50")), core.ErrInsufficientLiquidity)

	require.Nil(t, Withdraw(market, position, number.Decimal("40")))
	assert.Equal(t, "60", LtokenValue(market, position.Ltokens).String())
	assert.True(t, market.Liquidity.IsZero())
}

func TestBorrowRepay(t *testing.T) {
	market := newTestMarket(t)
	lender := &core.Position{}
	require.Nil(t, Deposit(market, lender, number.Decimal("1000")))

	borrower := &core.Position{}
	assert.ErrorIs(t, Borrow(market, borrower, number.Decimal("1001")), core.ErrInsufficientLiquidity)

	require.Nil(t, Borrow(market, borrower, number.Decimal("500")))
	assert.Equal(t, "500", BtokenValue(market, borrower.Btokens).String())
	assert.Equal(t, "500", market.Liquidity.String())

	market.BtokenRate = number.Decimal("1.000000000000000001")
	assert.Equal(t, "501", BtokenValue(market, borrower.Btokens).String())

	assert.ErrorIs(t, Repay(market, borrower, number.Decimal("502")), core.ErrRepayExceedsDebt)

	require.Nil(t, Repay(market, borrower, number.Decimal("200")))
	assert.True(t, borrower.Btokens.IsPositive())

	debt := BtokenValue(market, borrower.Btokens)
	require.Nil(t, Repay(market, borrower, debt))
	assert.True(t, borrower.Btokens.IsZero())
	assert.True(t, market.BtokenSupply.IsZero())

	assert.ErrorIs(t, Repay(market, borrower, number.Decimal("1")), core.ErrRepayExceedsDebt)
}

func TestValuate(t *testing.T) {
	market := newTestMarket(t)
	position := &core.Position{
		Ltokens: number.Decimal("10000"),
		Btokens: number.Decimal("333"),
	}

	line := Valuate(market, position, number.Decimal("0.5"))
	assert.Equal(t, "5000", line.Collateral.String())
	assert.Equal(t, "3500", line.CreditLine.String())
	// ceil(333 * 0.5)
	assert.Equal(t, "167", line.Debt.String())

	position.Ltokens = number.Decimal("3")
	line = Valuate(market, position, number.Decimal("0.5"))
	assert.Equal(t, "1", line.Collateral.String())
	assert.Equal(t, "0", line.CreditLine.String())
}
