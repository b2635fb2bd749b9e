package views

import (
	"lendex/core"
	"lendex/internal/lendex"
)

// Market market configuration view
type Market struct {
	ID                   uint64 `json:"id"`
	Asset                string `json:"asset"`
	Name                 string `json:"name"`
	Symbol               string `json:"symbol"`
	Decimals             uint8  `json:"decimals"`
	TokenID              uint64 `json:"token_id"`
	CommonToken          string `json:"common_token"`
	PriceOracle          string `json:"price_oracle"`
	CollateralRatio      string `json:"collateral_ratio"`
	ReserveFactor        string `json:"reserve_factor"`
	BaseRate             string `json:"base_rate"`
	SlopeRate            string `json:"slope_rate"`
	InterestChargePeriod int64  `json:"interest_charge_period"`
	MarketCap            string `json:"market_cap,omitempty"`
	LastCharged          int64  `json:"last_charged"`
	LtokenRate           string `json:"ltoken_rate"`
	BtokenRate           string `json:"btoken_rate"`
	Liquidity            string `json:"liquidity"`
	Deposited            string `json:"deposited"`
	Borrowed             string `json:"borrowed"`
	Utilisation          string `json:"utilisation"`
}

// MarketView market view
func MarketView(m *core.Market) Market {
	var marketCap string
	if m.MarketCap.Valid {
		marketCap = m.MarketCap.Decimal.String()
	}

	return Market{
		ID:                   m.ID,
		Asset:                m.Asset.Key(),
		Name:                 m.Name,
		Symbol:               m.Symbol,
		Decimals:             m.Decimals,
		TokenID:              m.TokenID,
		CommonToken:          m.CommonToken.Key(),
		PriceOracle:          m.PriceOracle,
		CollateralRatio:      m.CollateralRatio.String(),
		ReserveFactor:        m.ReserveFactor.String(),
		BaseRate:             m.BaseRate.String(),
		SlopeRate:            m.SlopeRate.String(),
		InterestChargePeriod: m.InterestChargePeriod,
		MarketCap:            marketCap,
		LastCharged:          m.LastCharged,
		LtokenRate:           m.LtokenRate.String(),
		BtokenRate:           m.BtokenRate.String(),
		Liquidity:            m.Liquidity.String(),
		Deposited:            lendex.LtokenValue(m, m.LtokenSupply).String(),
		Borrowed:             lendex.BtokenValue(m, m.BtokenSupply).String(),
		Utilisation:          lendex.Utilisation(m).String(),
	}
}

// MarketViews market views
func MarketViews(markets []*core.Market) []Market {
	items := make([]Market, len(markets))
	for i, m := range markets {
		items[i] = MarketView(m)
	}
	return items
}
