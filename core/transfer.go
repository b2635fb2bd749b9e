package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// transfer actions
const (
	TransferActionWithdraw = "withdraw"
	TransferActionBorrow   = "borrow"
)

// Transfer outgoing payout of underlying asset
type Transfer struct {
	ID        uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id,omitempty"`
	CreatedAt time.Time       `json:"created_at,omitempty"`
	TraceID   string          `sql:"size:36;unique_index:trace_idx" json:"trace_id,omitempty"`
	Account   string          `sql:"size:128" json:"account,omitempty"`
	Asset     Token           `sql:"type:varchar(128)" json:"asset"`
	Amount    decimal.Decimal `sql:"type:decimal(65,18)" json:"amount"`
	Action    string          `sql:"size:16" json:"action,omitempty"`
}

// ITransferStore transfer store interface
type ITransferStore interface {
	Create(ctx context.Context, transfer *Transfer) error
	List(ctx context.Context, from uint64, limit int) ([]*Transfer, error)
}
