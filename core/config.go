package core

import (
	"github.com/fox-one/pkg/store/db"
)

// Config lendex config
type Config struct {
	App       App          `json:"app"`
	DB        db.Config    `json:"db"`
	Oracle    OracleConfig `json:"oracle"`
	Agency    AgencyConfig `json:"agency"`
	PriceFeed PriceFeed    `json:"price_feed"`
	Accrual   Accrual      `json:"accrual"`
	// read through cache lifetime of prices served to queries
	PriceCacheSeconds int64 `json:"price_cache_seconds"`
}

// App app config
type App struct {
	Location string `json:"location"`
}

// UseMemory no sql dialect configured, state lives in process memory
func (c *Config) UseMemory() bool {
	return c.DB.Dialect == ""
}

// PriceFeed price ticker source polled by the worker
type PriceFeed struct {
	EndPoint string      `json:"end_point"`
	Schedule string      `json:"schedule"`
	Pairs    []PricePair `json:"pairs"`
}

// PricePair directional pair
type PricePair struct {
	Sell Token `json:"sell"`
	Buy  Token `json:"buy"`
}

// Accrual periodic interest accrual of every market
type Accrual struct {
	Schedule string `json:"schedule"`
	Sender   string `json:"sender"`
}
