package core

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Market per asset lending pool
type Market struct {
	ID          uint64 `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	Asset       Token  `sql:"type:varchar(128);unique_index:idx_markets_asset" json:"asset"`
	Name        string `sql:"size:64" json:"name"`
	Symbol      string `sql:"size:20" json:"symbol"`
	Decimals    uint8  `json:"decimals"`
	TokenID     uint64 `json:"token_id"`
	CommonToken Token  `sql:"type:varchar(128)" json:"common_token"`
	PriceOracle string `sql:"size:128" json:"price_oracle"`
	// 抵押率 (0, 1]
	CollateralRatio decimal.Decimal `sql:"type:decimal(65,18)" json:"collateral_ratio"`
	// 平台保留金率 [0, 1)
	ReserveFactor decimal.Decimal `sql:"type:decimal(65,18)" json:"reserve_factor"`
	//基础利率 per year
	BaseRate decimal.Decimal `sql:"type:decimal(65,18)" json:"base_rate"`
	// slope of the rate against utilisation, per year
	SlopeRate            decimal.Decimal `sql:"type:decimal(65,18)" json:"slope_rate"`
	InterestChargePeriod int64           `json:"interest_charge_period"`
	// upper bound of the deposited value, unbounded when null
	MarketCap    decimal.NullDecimal `sql:"type:decimal(65,18)" json:"market_cap"`
	LastCharged  int64               `json:"last_charged"`
	LtokenSupply decimal.Decimal     `sql:"type:decimal(65,18)" json:"ltoken_supply"`
	BtokenSupply decimal.Decimal     `sql:"type:decimal(65,18)" json:"btoken_supply"`
	LtokenRate   decimal.Decimal     `sql:"type:decimal(65,18)" json:"ltoken_rate"`
	BtokenRate   decimal.Decimal     `sql:"type:decimal(65,18)" json:"btoken_rate"`
	// 未借出的资金
	Liquidity decimal.Decimal `sql:"type:decimal(65,18)" json:"liquidity"`
	// 保留金
	Reserve   decimal.Decimal `sql:"type:decimal(65,18)" json:"reserve"`
	Version   int64           `sql:"default:0" json:"version"`
	CreatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// InterestRate linear model
type InterestRate struct {
	Base  decimal.Decimal `json:"base"`
	Slope decimal.Decimal `json:"slope"`
}

// Rate annual rate at the given utilisation
func (r InterestRate) Rate(utilisation decimal.Decimal) decimal.Decimal {
	return r.Base.Add(r.Slope.Mul(utilisation))
}

type interestRateJSON struct {
	Linear *InterestRate `json:"linear"`
}

// InterestRateModel wire form {"linear":{"base":..,"slope":..}}
type InterestRateModel struct {
	InterestRate
}

func (m InterestRateModel) MarshalJSON() ([]byte, error) {
	r := m.InterestRate
	return json.Marshal(interestRateJSON{Linear: &r})
}

func (m *InterestRateModel) UnmarshalJSON(b []byte) error {
	var v interestRateJSON
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	if v.Linear == nil {
		return ErrInvalidAmount
	}

	m.InterestRate = *v.Linear
	return nil
}

// InterestRate model of the market
func (m *Market) InterestRate() InterestRate {
	return InterestRate{Base: m.BaseRate, Slope: m.SlopeRate}
}

// Clone copy of the market
func (m *Market) Clone() *Market {
	c := *m
	return &c
}

// MarketInterest interest query response
type MarketInterest struct {
	Interest     decimal.Decimal `json:"interest"`
	Utilisation  decimal.Decimal `json:"utilisation"`
	ChargePeriod int64           `json:"charge_period"`
}

// TokensBalance values of an account's shares in underlying units
type TokensBalance struct {
	Ltokens decimal.Decimal `json:"ltokens"`
	Btokens decimal.Decimal `json:"btokens"`
}

// IMarketStore market store interface
type IMarketStore interface {
	Create(ctx context.Context, market *Market) error
	Find(ctx context.Context, asset Token) (*Market, bool, error)
	All(ctx context.Context) ([]*Market, error)
	// List markets with id greater than from, in creation order
	List(ctx context.Context, from uint64, limit int) ([]*Market, error)
	Update(ctx context.Context, market *Market) error
}

// IMarketService market interface
type IMarketService interface {
	Deposit(ctx context.Context, env Env, asset Token, funds []Coin) (*Position, error)
	Withdraw(ctx context.Context, env Env, asset Token, amount decimal.Decimal) (*Position, error)
	Borrow(ctx context.Context, env Env, asset Token, amount decimal.Decimal) (*Position, error)
	Repay(ctx context.Context, env Env, asset Token, funds []Coin) (*Position, error)
	// DepositTo credit the ltokens minted for funds to account instead of the sender
	DepositTo(ctx context.Context, env Env, asset Token, account string, funds []Coin) (*Position, error)
	Accrue(ctx context.Context, env Env, asset Token) (*Market, error)

	TokensBalance(ctx context.Context, now time.Time, asset Token, account string) (*TokensBalance, error)
	CreditLine(ctx context.Context, now time.Time, asset Token, account string) (*CreditLine, error)
	// Withdrawable largest amount account can withdraw right now
	Withdrawable(ctx context.Context, now time.Time, asset Token, account string) (decimal.Decimal, error)
	// Borrowable largest amount account can borrow right now
	Borrowable(ctx context.Context, now time.Time, asset Token, account string) (decimal.Decimal, error)
	Interest(ctx context.Context, now time.Time, asset Token) (*MarketInterest, error)
	Reserve(ctx context.Context, now time.Time, asset Token) (decimal.Decimal, error)
	Configuration(ctx context.Context, now time.Time, asset Token) (*Market, error)
}
