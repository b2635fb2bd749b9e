package lendex

import (
	"fmt"
	"time"

	"lendex/core"
	"lendex/pkg/number"

	"github.com/shopspring/decimal"
)

var (
	errCollateralRatio = fmt.Errorf("%w: collateral ratio must be in (0, 1]", core.ErrInvalidAmount)
	errReserveFactor   = fmt.Errorf("%w: reserve factor must be in [0, 1)", core.ErrInvalidAmount)
	errChargePeriod    = fmt.Errorf("%w: interest charge period must be positive", core.ErrInvalidAmount)
	errInterestRate    = fmt.Errorf("%w: interest rate must not be negative", core.ErrInvalidAmount)
)

// ValidateParams check create market parameters
func ValidateParams(params core.MarketParams) error {
	if params.MarketToken.IsZero() {
		return core.ErrInvalidDenom
	}

	if params.InterestChargePeriod <= 0 {
		return errChargePeriod
	}

	checks := []error{
		ValidateCollateralRatio(params.CollateralRatio),
		ValidateReserveFactor(params.ReserveFactor),
		ValidateInterestRate(params.InterestRate.InterestRate),
		ValidateMarketCap(params.MarketCap),
	}

	for _, err := range checks {
		if err != nil {
			return err
		}
	}

	return nil
}

// ValidateCollateralRatio ratio in (0, 1]
func ValidateCollateralRatio(ratio decimal.Decimal) error {
	if !ratio.IsPositive() || ratio.GreaterThan(one) {
		return errCollateralRatio
	}

	return checkPrecision(ratio)
}

// ValidateReserveFactor factor in [0, 1)
func ValidateReserveFactor(factor decimal.Decimal) error {
	if factor.IsNegative() || factor.GreaterThanOrEqual(one) {
		return errReserveFactor
	}

	return checkPrecision(factor)
}

// ValidateInterestRate base and slope are not negative
func ValidateInterestRate(rate core.InterestRate) error {
	if rate.Base.IsNegative() || rate.Slope.IsNegative() {
		return errInterestRate
	}

	return checkPrecision(rate.Base, rate.Slope)
}

// ValidateMarketCap a set cap is an amount, zero included
func ValidateMarketCap(marketCap decimal.NullDecimal) error {
	if !marketCap.Valid || marketCap.Decimal.IsZero() {
		return nil
	}

	return ValidateAmount(marketCap.Decimal)
}

func checkPrecision(values ...decimal.Decimal) error {
	for _, d := range values {
		if !number.FitsPrecision(d, Precision) {
			return core.ErrInvalidAmount
		}
	}

	return nil
}

// NewMarket build a market at its initial state
//
// last_charged is aligned to the start of the current charge period
func NewMarket(params core.MarketParams, commonToken core.Token, now time.Time) *core.Market {
	period := params.InterestChargePeriod
	ts := now.Unix()

	return &core.Market{
		Asset:                params.MarketToken,
		Name:                 params.Name,
		Symbol:               params.Symbol,
		Decimals:             params.Decimals,
		TokenID:              params.TokenID,
		CommonToken:          commonToken,
		PriceOracle:          params.PriceOracle,
		CollateralRatio:      params.CollateralRatio,
		ReserveFactor:        params.ReserveFactor,
		BaseRate:             params.InterestRate.Base,
		SlopeRate:            params.InterestRate.Slope,
		InterestChargePeriod: period,
		MarketCap:            params.MarketCap,
		LastCharged:          ts - ts%period,
		LtokenSupply:         decimal.Zero,
		BtokenSupply:         decimal.Zero,
		LtokenRate:           one,
		BtokenRate:           one,
		Liquidity:            decimal.Zero,
		Reserve:              decimal.Zero,
	}
}

// EpochsPassed whole charge periods elapsed since last charge
func EpochsPassed(market *core.Market, now time.Time) int64 {
	if market.InterestChargePeriod <= 0 {
		return 0
	}

	elapsed := now.Unix() - market.LastCharged
	if elapsed < market.InterestChargePeriod {
		return 0
	}

	return elapsed / market.InterestChargePeriod
}

// AccrueInterest charge every whole period elapsed up to now, reports whether the market changed
//
// btoken_rate *= (1 + period_rate)^n, rounded up
// interest = btoken_supply * (new btoken_rate - old btoken_rate)
// reserve += interest * reserve_factor
// ltoken_rate += interest * (1 - reserve_factor) / ltoken_supply, rounded down
func AccrueInterest(market *core.Market, now time.Time) (bool, error) {
	epochs := EpochsPassed(market, now)
	if epochs <= 0 {
		return false, nil
	}

	if market.LtokenSupply.IsPositive() && market.BtokenSupply.IsPositive() {
		periodRate := PeriodRate(AnnualRate(market), market.InterestChargePeriod)
		factor := number.Pow(one.Add(periodRate), uint64(epochs), Precision)

		prev := market.BtokenRate
		market.BtokenRate = number.Ceil(prev.Mul(factor), Precision)

		interest := market.BtokenSupply.Mul(market.BtokenRate.Sub(prev))
		reserve := number.Floor(interest.Mul(market.ReserveFactor), Precision)
		market.Reserve = market.Reserve.Add(reserve)

		delta, err := number.DivFloor(interest.Sub(reserve), market.LtokenSupply, Precision)
		if err != nil {
			return false, err
		}
		market.LtokenRate = market.LtokenRate.Add(delta)
	}

	market.LastCharged += epochs * market.InterestChargePeriod
	if err := checkBounds(market); err != nil {
		return false, err
	}

	return true, nil
}

// LtokenValue underlying value of ltoken shares, rounded down
func LtokenValue(market *core.Market, shares decimal.Decimal) decimal.Decimal {
	return number.Floor(shares.Mul(market.LtokenRate), 0)
}

// BtokenValue underlying value of btoken shares, rounded up
func BtokenValue(market *core.Market, shares decimal.Decimal) decimal.Decimal {
	return number.Ceil(shares.Mul(market.BtokenRate), 0)
}

// TokensBalance values of a position
func TokensBalance(market *core.Market, position *core.Position) *core.TokensBalance {
	return &core.TokensBalance{
		Ltokens: LtokenValue(market, position.Ltokens),
		Btokens: BtokenValue(market, position.Btokens),
	}
}

// Interest interest query of the market
func Interest(market *core.Market) *core.MarketInterest {
	return &core.MarketInterest{
		Interest:     AnnualRate(market),
		Utilisation:  Utilisation(market),
		ChargePeriod: market.InterestChargePeriod,
	}
}

func checkBounds(market *core.Market) error {
	values := []decimal.Decimal{
		market.Liquidity,
		number.Floor(market.Reserve, 0),
		LtokenValue(market, market.LtokenSupply),
		BtokenValue(market, market.BtokenSupply),
	}

	for _, v := range values {
		if v.GreaterThan(number.MaxUint128) {
			return core.ErrArithmeticOverflow
		}
	}

	return nil
}
