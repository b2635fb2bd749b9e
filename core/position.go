package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Position an account's shares in one market
type Position struct {
	ID        uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id,omitempty"`
	Market    Token           `sql:"type:varchar(128);unique_index:idx_positions_market_account" json:"market"`
	Account   string          `sql:"size:128;unique_index:idx_positions_market_account" json:"account"`
	Ltokens   decimal.Decimal `sql:"type:decimal(65,18)" json:"ltokens"`
	Btokens   decimal.Decimal `sql:"type:decimal(65,18)" json:"btokens"`
	Version   int64           `sql:"default:0" json:"version,omitempty"`
	CreatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at,omitempty"`
	UpdatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at,omitempty"`
}

// IsEmpty no shares of either kind
func (p *Position) IsEmpty() bool {
	return p.Ltokens.IsZero() && p.Btokens.IsZero()
}

// Clone copy of the position
func (p *Position) Clone() *Position {
	c := *p
	return &c
}

// IPositionStore position store interface
type IPositionStore interface {
	// Find returns an unsaved zero position if the account never touched the market
	Find(ctx context.Context, market Token, account string) (*Position, error)
	FindByAccount(ctx context.Context, account string) ([]*Position, error)
	// Save creates the position if its ID is zero, otherwise updates it
	Save(ctx context.Context, position *Position) error
}
