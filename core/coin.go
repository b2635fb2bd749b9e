package core

import (
	"github.com/shopspring/decimal"
)

// Coin funds attached to a call
type Coin struct {
	Denom  Token           `json:"denom"`
	Amount decimal.Decimal `json:"amount"`
}

// NewCoin new coin
func NewCoin(token Token, amount decimal.Decimal) Coin {
	return Coin{Denom: token, Amount: amount}
}
