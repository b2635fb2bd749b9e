package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// AgencyConfig credit agency instantiate parameters
type AgencyConfig struct {
	GovContract       string          `json:"gov_contract"`
	IsotonicMarketID  uint64          `json:"isotonic_market_id"`
	IsotonicTokenID   uint64          `json:"isotonic_token_id"`
	RewardToken       Token           `json:"reward_token"`
	CommonToken       Token           `json:"common_token"`
	LiquidationPrice  decimal.Decimal `json:"liquidation_price"`
	RequirePricePairs bool            `json:"require_price_pairs"`
}

// CreditLine valuation in common token
type CreditLine struct {
	Collateral decimal.Decimal `json:"collateral"`
	CreditLine decimal.Decimal `json:"credit_line"`
	Debt       decimal.Decimal `json:"debt"`
}

// Add sum of two credit lines
func (c CreditLine) Add(o CreditLine) CreditLine {
	return CreditLine{
		Collateral: c.Collateral.Add(o.Collateral),
		CreditLine: c.CreditLine.Add(o.CreditLine),
		Debt:       c.Debt.Add(o.Debt),
	}
}

// MarketParams create_market parameters
type MarketParams struct {
	Name                 string              `json:"name" valid:"required"`
	Symbol               string              `json:"symbol" valid:"required"`
	Decimals             uint8               `json:"decimals"`
	TokenID              uint64              `json:"token_id"`
	MarketToken          Token               `json:"market_token"`
	InterestRate         InterestRateModel   `json:"interest_rate"`
	InterestChargePeriod int64               `json:"interest_charge_period"`
	CollateralRatio      decimal.Decimal     `json:"collateral_ratio"`
	PriceOracle          string              `json:"price_oracle"`
	ReserveFactor        decimal.Decimal     `json:"reserve_factor"`
	MarketCap            decimal.NullDecimal `json:"market_cap"`
}

// CreditEvaluator aggregates an account's positions across markets
type CreditEvaluator interface {
	TotalCreditLine(ctx context.Context, now time.Time, account string) (*CreditLine, error)
}

// IAgencyService credit agency interface
type IAgencyService interface {
	CreditEvaluator
	// CreateMarket returns the new market and configuration warnings
	CreateMarket(ctx context.Context, env Env, params MarketParams) (*Market, []string, error)
	Market(ctx context.Context, asset Token) (*Market, error)
	ListMarkets(ctx context.Context, startAfter Token, limit int) ([]*Market, error)
	CreditLine(ctx context.Context, now time.Time, account string, asset Token) (*CreditLine, error)
	// Liquidate repay the debt of an account whose debt exceeds its credit line with funds,
	// the sender receives collateral ltokens of the repaid value
	Liquidate(ctx context.Context, env Env, account string, collateral Token, funds []Coin) (*Liquidation, error)

	AdjustCollateralRatio(ctx context.Context, env Env, asset Token, ratio decimal.Decimal) (*Market, error)
	AdjustReserveFactor(ctx context.Context, env Env, asset Token, factor decimal.Decimal) (*Market, error)
	AdjustInterestRates(ctx context.Context, env Env, asset Token, rates InterestRateModel) (*Market, error)
	AdjustPriceOracle(ctx context.Context, env Env, asset Token, oracle string) (*Market, error)
	// AdjustMarketCap a null cap removes the limit
	AdjustMarketCap(ctx context.Context, env Env, asset Token, marketCap decimal.NullDecimal) (*Market, error)

	Config() AgencyConfig
}

// Liquidation outcome of a liquidation
type Liquidation struct {
	Account    string `json:"account"`
	Liquidator string `json:"liquidator"`
	DebtMarket Token  `json:"debt_market"`
	Collateral Token  `json:"collateral"`
	// underlying repaid in the debt market
	Repaid decimal.Decimal `json:"repaid"`
	// collateral ltokens moved to the liquidator, and their underlying value
	Ltokens decimal.Decimal `json:"ltokens"`
	Seized  decimal.Decimal `json:"seized"`
}
