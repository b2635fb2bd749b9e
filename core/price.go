package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Price directional exchange rate, Rate units of Buy per unit of Sell
type Price struct {
	ID          int64           `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id,omitempty"`
	Sell        Token           `sql:"type:varchar(128);unique_index:idx_prices_pair" json:"sell"`
	Buy         Token           `sql:"type:varchar(128);unique_index:idx_prices_pair" json:"buy"`
	Rate        decimal.Decimal `sql:"type:decimal(65,18)" json:"rate"`
	LastUpdated int64           `json:"last_updated"`
	Version     int64           `sql:"default:0" json:"version,omitempty"`
	CreatedAt   time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at,omitempty"`
	UpdatedAt   time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at,omitempty"`
}

// PriceTicker price ticker
type PriceTicker struct {
	Sell Token           `json:"sell"`
	Buy  Token           `json:"buy"`
	Rate decimal.Decimal `json:"rate"`
}

// IPriceStore price store interface
type IPriceStore interface {
	// Save insert or overwrite the entry of the pair
	Save(ctx context.Context, price *Price) error
	Find(ctx context.Context, sell, buy Token) (*Price, bool, error)
	All(ctx context.Context) ([]*Price, error)
}

// PriceSource answers directional price queries
type PriceSource interface {
	Price(ctx context.Context, now time.Time, sell, buy Token) (decimal.Decimal, error)
}

// OracleConfig oracle instantiate parameters
type OracleConfig struct {
	Oracle     string `json:"oracle"`
	MaximumAge int64  `json:"maximum_age"`
}

// IOracleService oracle interface
type IOracleService interface {
	PriceSource
	SetPrice(ctx context.Context, env Env, sell, buy Token, rate decimal.Decimal) (*Price, error)
	Config() OracleConfig
}

// IPriceFeedService pulls tickers from an external source
type IPriceFeedService interface {
	PullPriceTicker(ctx context.Context, pair PricePair) (*PriceTicker, error)
	PullAllPriceTickers(ctx context.Context) ([]*PriceTicker, error)
}
