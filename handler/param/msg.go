package param

import (
	"errors"

	"lendex/core"

	"github.com/shopspring/decimal"
)

// ErrUnknownMsg the message names no known variant, or several
var ErrUnknownMsg = errors.New("msg must name exactly one operation")

type (
	// AmountMsg amount argument
	AmountMsg struct {
		Amount decimal.Decimal `json:"amount"`
	}

	// AccountMsg account argument
	AccountMsg struct {
		Account string `json:"account"`
	}

	// MarketMsg market execute messages
	MarketMsg struct {
		Deposit   *struct{}   `json:"deposit,omitempty"`
		DepositTo *AccountMsg `json:"deposit_to,omitempty"`
		Withdraw  *AmountMsg  `json:"withdraw,omitempty"`
		Borrow    *AmountMsg  `json:"borrow,omitempty"`
		Repay     *struct{}   `json:"repay,omitempty"`
		Accrue    *struct{}   `json:"accrue,omitempty"`
	}

	// MarketExecute call to a market
	MarketExecute struct {
		Sender string      `json:"sender" valid:"required"`
		Funds  []core.Coin `json:"funds"`
		Msg    MarketMsg   `json:"msg"`
	}

	// LiquidateMsg liquidate arguments, the debt is repaid with the funds sent
	LiquidateMsg struct {
		Account         string     `json:"account"`
		CollateralDenom core.Token `json:"collateral_denom"`
	}

	// AdjustCollateralRatioMsg governance update of a market's collateral ratio
	AdjustCollateralRatioMsg struct {
		MarketToken core.Token      `json:"market_token"`
		NewRatio    decimal.Decimal `json:"new_ratio"`
	}

	// AdjustReserveFactorMsg governance update of a market's reserve factor
	AdjustReserveFactorMsg struct {
		MarketToken core.Token      `json:"market_token"`
		NewFactor   decimal.Decimal `json:"new_factor"`
	}

	// AdjustInterestRatesMsg governance update of a market's rate model
	AdjustInterestRatesMsg struct {
		MarketToken      core.Token             `json:"market_token"`
		NewInterestRates core.InterestRateModel `json:"new_interest_rates"`
	}

	// AdjustPriceOracleMsg governance update of a market's oracle
	AdjustPriceOracleMsg struct {
		MarketToken core.Token `json:"market_token"`
		NewOracle   string     `json:"new_oracle"`
	}

	// AdjustMarketCapMsg governance update of a market's cap, null lifts it
	AdjustMarketCapMsg struct {
		MarketToken core.Token          `json:"market_token"`
		NewCap      decimal.NullDecimal `json:"new_cap"`
	}

	// AgencyMsg credit agency execute messages
	AgencyMsg struct {
		CreateMarket          *core.MarketParams        `json:"create_market,omitempty"`
		Liquidate             *LiquidateMsg             `json:"liquidate,omitempty"`
		AdjustCollateralRatio *AdjustCollateralRatioMsg `json:"adjust_collateral_ratio,omitempty"`
		AdjustReserveFactor   *AdjustReserveFactorMsg   `json:"adjust_reserve_factor,omitempty"`
		AdjustInterestRates   *AdjustInterestRatesMsg   `json:"adjust_interest_rates,omitempty"`
		AdjustPriceOracle     *AdjustPriceOracleMsg     `json:"adjust_price_oracle,omitempty"`
		AdjustMarketCap       *AdjustMarketCapMsg       `json:"adjust_market_cap,omitempty"`
	}

	// AgencyExecute call to the credit agency
	AgencyExecute struct {
		Sender string      `json:"sender" valid:"required"`
		Funds  []core.Coin `json:"funds"`
		Msg    AgencyMsg   `json:"msg"`
	}

	// SetPriceMsg set_price arguments
	SetPriceMsg struct {
		Sell core.Token      `json:"sell"`
		Buy  core.Token      `json:"buy"`
		Rate decimal.Decimal `json:"rate"`
	}

	// OracleMsg oracle execute messages
	OracleMsg struct {
		SetPrice *SetPriceMsg `json:"set_price,omitempty"`
	}

	// OracleExecute call to the oracle
	OracleExecute struct {
		Sender string    `json:"sender" valid:"required"`
		Msg    OracleMsg `json:"msg"`
	}
)

// Name the single operation carried by the message
func (m MarketMsg) Name() (string, error) {
	var names []string
	if m.Deposit != nil {
		names = append(names, "deposit")
	}
	if m.DepositTo != nil {
		names = append(names, "deposit_to")
	}
	if m.Withdraw != nil {
		names = append(names, "withdraw")
	}
	if m.Borrow != nil {
		names = append(names, "borrow")
	}
	if m.Repay != nil {
		names = append(names, "repay")
	}
	if m.Accrue != nil {
		names = append(names, "accrue")
	}

	return single(names)
}

// Name the single operation carried by the message
func (m AgencyMsg) Name() (string, error) {
	var names []string
	if m.CreateMarket != nil {
		names = append(names, "create_market")
	}
	if m.Liquidate != nil {
		names = append(names, "liquidate")
	}
	if m.AdjustCollateralRatio != nil {
		names = append(names, "adjust_collateral_ratio")
	}
	if m.AdjustReserveFactor != nil {
		names = append(names, "adjust_reserve_factor")
	}
	if m.AdjustInterestRates != nil {
		names = append(names, "adjust_interest_rates")
	}
	if m.AdjustPriceOracle != nil {
		names = append(names, "adjust_price_oracle")
	}
	if m.AdjustMarketCap != nil {
		names = append(names, "adjust_market_cap")
	}

	return single(names)
}

func single(names []string) (string, error) {
	if len(names) != 1 {
		return "", ErrUnknownMsg
	}

	return names[0], nil
}

type (
	// AccountQuery account query
	AccountQuery struct {
		Account string `json:"account" valid:"required"`
	}

	// CreditLineQuery credit line of an account in one market
	CreditLineQuery struct {
		Account     string     `json:"account" valid:"required"`
		MarketToken core.Token `json:"market_token"`
	}

	// MarketQuery market by asset
	MarketQuery struct {
		MarketToken core.Token `json:"market_token"`
	}

	// ListMarketsQuery paginated markets
	ListMarketsQuery struct {
		StartAfter core.Token `json:"start_after"`
		Limit      int        `json:"limit"`
	}

	// PriceQuery directional price
	PriceQuery struct {
		Sell core.Token `json:"sell"`
		Buy  core.Token `json:"buy"`
	}

	// PaginationQuery id based pagination
	PaginationQuery struct {
		Offset uint64 `json:"offset"`
		Limit  int    `json:"limit"`
	}
)
