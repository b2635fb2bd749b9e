package agency_test

import (
	"context"
	"testing"
	"time"

	"lendex/core"
	"lendex/pkg/number"
	"lendex/service/agency"
	"lendex/service/market"
	"lendex/service/oracle"
	"lendex/store/memory"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	ustake = core.Native("ustake")
	ucosm  = core.Native("ucosm")
	start  = time.Unix(1_700_000_000, 0)
)

type suite struct {
	oracle  core.IOracleService
	agency  core.IAgencyService
	markets core.IMarketService
}

func newSuite(t *testing.T, cfg core.AgencyConfig) *suite {
	db := memory.New()
	o := oracle.New(db.Prices(), db, core.OracleConfig{Oracle: "oracle", MaximumAge: 3600})
	a := agency.New(db.Markets(), db.Positions(), o, db, cfg)
	m := market.New(db.Markets(), db.Positions(), db.Transfers(), o, a, db)
	return &suite{oracle: o, agency: a, markets: m}
}

func agencyConfig() core.AgencyConfig {
	return core.AgencyConfig{
		GovContract:      "gov",
		CommonToken:      ucosm,
		RewardToken:      core.Native("ureward"),
		LiquidationPrice: number.Decimal("0.8"),
	}
}

func marketParams(asset core.Token) core.MarketParams {
	return core.MarketParams{
		Name:                 asset.Denom,
		Symbol:               asset.Denom,
		Decimals:             6,
		MarketToken:          asset,
		InterestChargePeriod: 3600,
		CollateralRatio:      number.Decimal("0.7"),
		ReserveFactor:        number.Decimal("0.1"),
	}
}

func env(sender string) core.Env {
	return core.Env{Sender: sender, Time: start}
}

func coins(token core.Token, amount string) []core.Coin {
	return []core.Coin{core.NewCoin(token, number.Decimal(amount))}
}

func TestCreateMarket(t *testing.T) {
	ctx := context.Background()
	s := newSuite(t, agencyConfig())

	_, _, err := s.agency.CreateMarket(ctx, env("mallory"), marketParams(ustake))
	assert.ErrorIs(t, err, core.ErrUnauthorized)

	invalid := marketParams(ustake)
	invalid.CollateralRatio = number.Decimal("1.5")
	_, _, err = s.agency.CreateMarket(ctx, env("gov"), invalid)
	assert.ErrorIs(t, err, core.ErrInvalidAmount)

	m, warnings, err := s.agency.CreateMarket(ctx, env("gov"), marketParams(ustake))
	require.Nil(t, err)
	assert.Equal(t, "native:ustake", m.Asset.Key())
	assert.Equal(t, "native:ucosm", m.CommonToken.Key())
	assert.Len(t, warnings, 2)

	_, _, err = s.agency.CreateMarket(ctx, env("gov"), marketParams(ustake))
	assert.ErrorIs(t, err, core.ErrMarketAlreadyExists)

	// the common token market needs no price
	_, warnings, err = s.agency.CreateMarket(ctx, env("gov"), marketParams(ucosm))
	require.Nil(t, err)
	assert.Len(t, warnings, 0)

	found, err := s.agency.Market(ctx, ustake)
	require.Nil(t, err)
	assert.Equal(t, m.ID, found.ID)

	_, err = s.agency.Market(ctx, core.Native("uatom"))
	assert.ErrorIs(t, err, core.ErrMarketNotFound)
}

func TestCreateMarketRequirePricePairs(t *testing.T) {
	ctx := context.Background()
	cfg := agencyConfig()
	cfg.RequirePricePairs = true
	s := newSuite(t, cfg)

	_, _, err := s.agency.CreateMarket(ctx, env("gov"), marketParams(ustake))
	assert.ErrorIs(t, err, core.ErrPriceNotFound)

	_, err = s.agency.Market(ctx, ustake)
	assert.ErrorIs(t, err, core.ErrMarketNotFound)

	_, err = s.oracle.SetPrice(ctx, env("oracle"), ustake, ucosm, number.Decimal("0.5"))
	require.Nil(t, err)
	_, err = s.oracle.SetPrice(ctx, env("oracle"), ucosm, ustake, number.Decimal("2"))
	require.Nil(t, err)

	_, warnings, err := s.agency.CreateMarket(ctx, env("gov"), marketParams(ustake))
	require.Nil(t, err)
	assert.Len(t, warnings, 0)
}

func TestListMarkets(t *testing.T) {
	ctx := context.Background()
	s := newSuite(t, agencyConfig())

	for _, denom := range []string{"ustake", "ucosm", "uatom"} {
		_, _, err := s.agency.CreateMarket(ctx, env("gov"), marketParams(core.Native(denom)))
		require.Nil(t, err)
	}

	all, err := s.agency.ListMarkets(ctx, core.Token{}, 0)
	require.Nil(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "native:ustake", all[0].Asset.Key())
	assert.Equal(t, "native:uatom", all[2].Asset.Key())

	page, err := s.agency.ListMarkets(ctx, ustake, 1)
	require.Nil(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "native:ucosm", page[0].Asset.Key())

	_, err = s.agency.ListMarkets(ctx, core.Native("uosmo"), 1)
	assert.ErrorIs(t, err, core.ErrMarketNotFound)
}

func setupWalkthrough(t *testing.T) *suite {
	ctx := context.Background()
	s := newSuite(t, agencyConfig())

	_, _, err := s.agency.CreateMarket(ctx, env("gov"), marketParams(ustake))
	require.Nil(t, err)
	_, _, err = s.agency.CreateMarket(ctx, env("gov"), marketParams(ucosm))
	require.Nil(t, err)

	_, err = s.oracle.SetPrice(ctx, env("oracle"), ustake, ucosm, number.Decimal("0.5"))
	require.Nil(t, err)
	_, err = s.oracle.SetPrice(ctx, env("oracle"), ucosm, ustake, number.Decimal("2"))
	require.Nil(t, err)

	_, err = s.markets.Deposit(ctx, env("lender"), ucosm, coins(ucosm, "10000"))
	require.Nil(t, err)

	return s
}

func TestWalkthrough(t *testing.T) {
	ctx := context.Background()
	s := setupWalkthrough(t)

	_, err := s.markets.Deposit(ctx, env("alice"), ustake, coins(ustake, "10000"))
	require.Nil(t, err)

	balance, err := s.markets.TokensBalance(ctx, start, ustake, "alice")
	require.Nil(t, err)
	assert.Equal(t, "10000", balance.Ltokens.String())
	assert.Equal(t, "0", balance.Btokens.String())

	_, err = s.markets.Borrow(ctx, env("alice"), ucosm, number.Decimal("500"))
	require.Nil(t, err)

	balance, err = s.markets.TokensBalance(ctx, start, ucosm, "alice")
	require.Nil(t, err)
	assert.Equal(t, "500", balance.Btokens.String())

	line, err := s.agency.CreditLine(ctx, start, "alice", ustake)
	require.Nil(t, err)
	assert.Equal(t, "5000", line.Collateral.String())
	assert.Equal(t, "3500", line.CreditLine.String())

	total, err := s.agency.TotalCreditLine(ctx, start, "alice")
	require.Nil(t, err)
	assert.Equal(t, "5000", total.Collateral.String())
	assert.Equal(t, "3500", total.CreditLine.String())
	assert.Equal(t, "500", total.Debt.String())
}

func TestBorrowLimit(t *testing.T) {
	ctx := context.Background()
	s := setupWalkthrough(t)

	_, err := s.markets.Deposit(ctx, env("alice"), ustake, coins(ustake, "10000"))
	require.Nil(t, err)

	before, err := s.markets.Configuration(ctx, start, ucosm)
	require.Nil(t, err)

	// one unit above the credit line
	_, err = s.markets.Borrow(ctx, env("alice"), ucosm, number.Decimal("3501"))
	assert.ErrorIs(t, err, core.ErrCreditLineExceeded)

	after, err := s.markets.Configuration(ctx, start, ucosm)
	require.Nil(t, err)
	assert.Equal(t, before.Liquidity.String(), after.Liquidity.String())
	assert.Equal(t, before.BtokenSupply.String(), after.BtokenSupply.String())
	assert.Equal(t, before.Version, after.Version)

	_, err = s.markets.Borrow(ctx, env("alice"), ucosm, number.Decimal("3500"))
	require.Nil(t, err)

	_, err = s.markets.Borrow(ctx, env("alice"), ucosm, number.Decimal("1"))
	assert.ErrorIs(t, err, core.ErrCreditLineExceeded)

	// collateral can not be withdrawn below the debt
	_, err = s.markets.Withdraw(ctx, env("alice"), ustake, number.Decimal("1"))
	assert.ErrorIs(t, err, core.ErrCreditLineExceeded)

	// repay part of the debt, then part of the collateral is free again
	_, err = s.markets.Repay(ctx, env("alice"), ucosm, coins(ucosm, "700"))
	require.Nil(t, err)

	_, err = s.markets.Withdraw(ctx, env("alice"), ustake, number.Decimal("2000"))
	require.Nil(t, err)

	total, err := s.agency.TotalCreditLine(ctx, start, "alice")
	require.Nil(t, err)
	assert.Equal(t, "4000", total.Collateral.String())
	assert.Equal(t, "2800", total.CreditLine.String())
	assert.Equal(t, "2800", total.Debt.String())
}

func TestTotalCreditLineSkipsEmptyPositions(t *testing.T) {
	ctx := context.Background()
	s := setupWalkthrough(t)

	_, err := s.markets.Deposit(ctx, env("alice"), ustake, coins(ustake, "100"))
	require.Nil(t, err)
	_, err = s.markets.Withdraw(ctx, env("alice"), ustake, number.Decimal("100"))
	require.Nil(t, err)

	// ustake price is stale by now, but alice holds nothing there
	later := start.Add(2 * time.Hour)
	total, err := s.agency.TotalCreditLine(ctx, later, "alice")
	require.Nil(t, err)
	assert.True(t, total.Collateral.IsZero())
	assert.True(t, total.Debt.IsZero())

	// the lender's collateral is in the common token, priced at one
	total, err = s.agency.TotalCreditLine(ctx, later, "lender")
	require.Nil(t, err)
	assert.Equal(t, "10000", total.Collateral.String())
	assert.Equal(t, "7000", total.CreditLine.String())

	_, err = s.agency.TotalCreditLine(ctx, later, "nobody")
	require.Nil(t, err)
}

func TestCreditLinePriceErrors(t *testing.T) {
	ctx := context.Background()
	s := setupWalkthrough(t)

	_, err := s.markets.Deposit(ctx, env("alice"), ustake, coins(ustake, "100"))
	require.Nil(t, err)

	_, err = s.agency.TotalCreditLine(ctx, start.Add(3601*time.Second), "alice")
	assert.ErrorIs(t, err, core.ErrPriceExpired)

	_, err = s.markets.Borrow(ctx, core.Env{Sender: "alice", Time: start.Add(3601 * time.Second)}, ucosm, number.Decimal("1"))
	assert.ErrorIs(t, err, core.ErrPriceExpired)
}

func TestWithdrawWithoutDebtIgnoresStalePrices(t *testing.T) {
	ctx := context.Background()
	s := setupWalkthrough(t)

	_, err := s.markets.Deposit(ctx, env("alice"), ustake, coins(ustake, "100"))
	require.Nil(t, err)
	_, err = s.markets.Deposit(ctx, env("alice"), ucosm, coins(ucosm, "100"))
	require.Nil(t, err)

	// the ustake price has expired, alice owes nothing so it is never asked for
	later := core.Env{Sender: "alice", Time: start.Add(3601 * time.Second)}

	amount, err := s.markets.Withdrawable(ctx, later.Time, ucosm, "alice")
	require.Nil(t, err)
	assert.Equal(t, "100", amount.String())

	_, err = s.markets.Withdraw(ctx, later, ucosm, number.Decimal("50"))
	require.Nil(t, err)

	_, err = s.markets.Withdraw(ctx, later, ustake, number.Decimal("50"))
	require.Nil(t, err)
}

func TestWithdrawableBorrowable(t *testing.T) {
	ctx := context.Background()
	s := setupWalkthrough(t)

	_, err := s.markets.Deposit(ctx, env("alice"), ustake, coins(ustake, "10000"))
	require.Nil(t, err)

	query := func(fn func(context.Context, time.Time, core.Token, string) (decimal.Decimal, error), asset core.Token, account string) string {
		amount, err := fn(ctx, start, asset, account)
		require.Nil(t, err)
		return amount.String()
	}

	assert.Equal(t, "10000", query(s.markets.Withdrawable, ustake, "alice"))
	assert.Equal(t, "3500", query(s.markets.Borrowable, ucosm, "alice"))
	assert.Equal(t, "7000", query(s.markets.Borrowable, ustake, "alice"))
	assert.Equal(t, "0", query(s.markets.Withdrawable, ucosm, "alice"))

	// the lender's credit would cover 14000 ustake, the market only holds 10000
	assert.Equal(t, "10000", query(s.markets.Borrowable, ustake, "lender"))

	_, err = s.markets.Borrow(ctx, env("alice"), ucosm, number.Decimal("3500"))
	require.Nil(t, err)
	assert.Equal(t, "0", query(s.markets.Borrowable, ucosm, "alice"))
	assert.Equal(t, "0", query(s.markets.Withdrawable, ustake, "alice"))

	_, err = s.markets.Repay(ctx, env("alice"), ucosm, coins(ucosm, "700"))
	require.Nil(t, err)
	assert.Equal(t, "2000", query(s.markets.Withdrawable, ustake, "alice"))

	// the reported amount is exactly what passes
	_, err = s.markets.Withdraw(ctx, env("alice"), ustake, number.Decimal("2000"))
	require.Nil(t, err)
	_, err = s.markets.Withdraw(ctx, env("alice"), ustake, number.Decimal("1"))
	assert.ErrorIs(t, err, core.ErrCreditLineExceeded)
	assert.Equal(t, "0", query(s.markets.Withdrawable, ustake, "alice"))
}

func setupLiquidation(t *testing.T) *suite {
	ctx := context.Background()
	s := setupWalkthrough(t)

	_, err := s.markets.Deposit(ctx, env("alice"), ustake, coins(ustake, "10000"))
	require.Nil(t, err)
	_, err = s.markets.Borrow(ctx, env("alice"), ucosm, number.Decimal("3500"))
	require.Nil(t, err)

	return s
}

func TestLiquidateNotAllowed(t *testing.T) {
	ctx := context.Background()
	s := setupLiquidation(t)

	// debt 3500 against a credit line of 3500
	_, err := s.agency.Liquidate(ctx, env("bob"), "alice", ustake, coins(ucosm, "1000"))
	assert.ErrorIs(t, err, core.ErrLiquidationNotAllowed)

	_, err = s.agency.Liquidate(ctx, env("bob"), "alice", ustake, nil)
	assert.ErrorIs(t, err, core.ErrZeroAmount)

	_, err = s.agency.Liquidate(ctx, env("bob"), "", ustake, coins(ucosm, "1000"))
	assert.ErrorIs(t, err, core.ErrInvalidAccount)

	// ustake halves to 0.4, the credit line drops to 2800
	_, err = s.oracle.SetPrice(ctx, env("oracle"), ustake, ucosm, number.Decimal("0.4"))
	require.Nil(t, err)

	_, err = s.agency.Liquidate(ctx, env("bob"), "alice", ustake, coins(ucosm, "3501"))
	assert.ErrorIs(t, err, core.ErrRepayExceedsDebt)

	_, err = s.agency.Liquidate(ctx, env("bob"), "alice", ustake, coins(ustake, "10"))
	assert.ErrorIs(t, err, core.ErrRepayExceedsDebt)

	_, err = s.agency.Liquidate(ctx, env("bob"), "alice", core.Native("uatom"), coins(ucosm, "10"))
	assert.ErrorIs(t, err, core.ErrMarketNotFound)

	// nothing moved
	balance, err := s.markets.TokensBalance(ctx, start, ucosm, "alice")
	require.Nil(t, err)
	assert.Equal(t, "3500", balance.Btokens.String())

	balance, err = s.markets.TokensBalance(ctx, start, ustake, "alice")
	require.Nil(t, err)
	assert.Equal(t, "10000", balance.Ltokens.String())
}

func TestLiquidate(t *testing.T) {
	ctx := context.Background()
	s := setupLiquidation(t)

	_, err := s.oracle.SetPrice(ctx, env("oracle"), ustake, ucosm, number.Decimal("0.4"))
	require.Nil(t, err)

	total, err := s.agency.TotalCreditLine(ctx, start, "alice")
	require.Nil(t, err)
	assert.Equal(t, "2800", total.CreditLine.String())
	assert.Equal(t, "3500", total.Debt.String())

	// 1000 ucosm repaid buys 1000 / (0.4 * 0.8) ustake of collateral
	liquidation, err := s.agency.Liquidate(ctx, env("bob"), "alice", ustake, coins(ucosm, "1000"))
	require.Nil(t, err)
	assert.Equal(t, "1000", liquidation.Repaid.String())
	assert.Equal(t, "3125", liquidation.Seized.String())
	assert.Equal(t, "3125", liquidation.Ltokens.String())
	assert.Equal(t, "native:ucosm", liquidation.DebtMarket.Key())

	balance, err := s.markets.TokensBalance(ctx, start, ucosm, "alice")
	require.Nil(t, err)
	assert.Equal(t, "2500", balance.Btokens.String())

	balance, err = s.markets.TokensBalance(ctx, start, ustake, "alice")
	require.Nil(t, err)
	assert.Equal(t, "6875", balance.Ltokens.String())

	balance, err = s.markets.TokensBalance(ctx, start, ustake, "bob")
	require.Nil(t, err)
	assert.Equal(t, "3125", balance.Ltokens.String())

	// the repaid funds went back into the pool
	m, err := s.markets.Configuration(ctx, start, ucosm)
	require.Nil(t, err)
	assert.Equal(t, "7500", m.Liquidity.String())

	total, err = s.agency.TotalCreditLine(ctx, start, "alice")
	require.Nil(t, err)
	assert.Equal(t, "2750", total.Collateral.String())
	assert.Equal(t, "2500", total.Debt.String())

	// the seized ltokens are bob's collateral now
	total, err = s.agency.TotalCreditLine(ctx, start, "bob")
	require.Nil(t, err)
	assert.Equal(t, "1250", total.Collateral.String())
}

func TestAdjustMarket(t *testing.T) {
	ctx := context.Background()
	s := setupWalkthrough(t)

	_, err := s.agency.AdjustCollateralRatio(ctx, env("mallory"), ustake, number.Decimal("0.5"))
	assert.ErrorIs(t, err, core.ErrUnauthorized)

	_, err = s.agency.AdjustCollateralRatio(ctx, env("gov"), ustake, number.Decimal("1.5"))
	assert.ErrorIs(t, err, core.ErrInvalidAmount)

	_, err = s.agency.AdjustCollateralRatio(ctx, env("gov"), core.Native("uatom"), number.Decimal("0.5"))
	assert.ErrorIs(t, err, core.ErrMarketNotFound)

	m, err := s.agency.AdjustCollateralRatio(ctx, env("gov"), ustake, number.Decimal("0.5"))
	require.Nil(t, err)
	assert.Equal(t, "0.5", m.CollateralRatio.String())

	_, err = s.markets.Deposit(ctx, env("alice"), ustake, coins(ustake, "10000"))
	require.Nil(t, err)

	line, err := s.agency.CreditLine(ctx, start, "alice", ustake)
	require.Nil(t, err)
	assert.Equal(t, "2500", line.CreditLine.String())

	_, err = s.agency.AdjustReserveFactor(ctx, env("gov"), ustake, number.Decimal("1"))
	assert.ErrorIs(t, err, core.ErrInvalidAmount)

	m, err = s.agency.AdjustReserveFactor(ctx, env("gov"), ustake, number.Decimal("0.3"))
	require.Nil(t, err)
	assert.Equal(t, "0.3", m.ReserveFactor.String())

	m, err = s.agency.AdjustPriceOracle(ctx, env("gov"), ustake, "oracle-2")
	require.Nil(t, err)
	assert.Equal(t, "oracle-2", m.PriceOracle)

	// settings survive a reload
	m, err = s.agency.Market(ctx, ustake)
	require.Nil(t, err)
	assert.Equal(t, "0.5", m.CollateralRatio.String())
	assert.Equal(t, "0.3", m.ReserveFactor.String())
	assert.Equal(t, "oracle-2", m.PriceOracle)
}

func TestAdjustMarketCap(t *testing.T) {
	ctx := context.Background()
	s := setupWalkthrough(t)

	_, err := s.agency.AdjustMarketCap(ctx, env("gov"), ucosm, decimal.NullDecimal{Decimal: number.Decimal("1.5"), Valid: true})
	assert.ErrorIs(t, err, core.ErrInvalidAmount)

	// the lender already put 10000 in
	_, err = s.agency.AdjustMarketCap(ctx, env("gov"), ucosm, decimal.NullDecimal{Decimal: number.Decimal("10500"), Valid: true})
	require.Nil(t, err)

	_, err = s.markets.Deposit(ctx, env("alice"), ucosm, coins(ucosm, "501"))
	assert.ErrorIs(t, err, core.ErrDepositOverCap)

	_, err = s.markets.Deposit(ctx, env("alice"), ucosm, coins(ucosm, "500"))
	require.Nil(t, err)

	m, err := s.agency.AdjustMarketCap(ctx, env("gov"), ucosm, decimal.NullDecimal{})
	require.Nil(t, err)
	assert.False(t, m.MarketCap.Valid)

	_, err = s.markets.Deposit(ctx, env("alice"), ucosm, coins(ucosm, "100000"))
	require.Nil(t, err)
}

func TestAdjustInterestRatesChargesFirst(t *testing.T) {
	ctx := context.Background()
	s := setupLiquidation(t)

	m, err := s.agency.AdjustInterestRates(ctx, env("gov"), ucosm, core.InterestRateModel{
		InterestRate: core.InterestRate{Base: number.Decimal("0.1")},
	})
	require.Nil(t, err)
	assert.Equal(t, "0.1", m.BaseRate.String())
	assert.Equal(t, "1", m.BtokenRate.String())

	// two periods at 10% a year are charged before the rate goes back to zero
	later := core.Env{Sender: "gov", Time: start.Add(2 * time.Hour)}
	m, err = s.agency.AdjustInterestRates(ctx, later, ucosm, core.InterestRateModel{})
	require.Nil(t, err)
	assert.True(t, m.BaseRate.IsZero())
	assert.True(t, m.BtokenRate.GreaterThan(number.Decimal("1")))
	charged := m.BtokenRate

	m, err = s.markets.Configuration(ctx, start.Add(4*time.Hour), ucosm)
	require.Nil(t, err)
	assert.Equal(t, charged.String(), m.BtokenRate.String())
}
