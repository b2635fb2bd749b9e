package memory

import (
	"context"
	"sync"

	"lendex/core"
	"lendex/store/session"
)

// Database in process backend; every transaction works on a private copy
// of the state that replaces the committed one only when it succeeds.
type Database struct {
	mu        sync.RWMutex
	committed *state
	txMu      sync.Mutex
}

// New empty database
func New() *Database {
	return &Database{committed: newState()}
}

type state struct {
	prices    map[string]*core.Price
	priceSeq  int64
	markets   []*core.Market
	positions map[string]*core.Position
	posSeq    uint64
	transfers []*core.Transfer
}

func newState() *state {
	return &state{
		prices:    map[string]*core.Price{},
		positions: map[string]*core.Position{},
	}
}

func (s *state) clone() *state {
	c := &state{
		prices:    make(map[string]*core.Price, len(s.prices)),
		priceSeq:  s.priceSeq,
		markets:   make([]*core.Market, len(s.markets)),
		positions: make(map[string]*core.Position, len(s.positions)),
		posSeq:    s.posSeq,
		transfers: make([]*core.Transfer, len(s.transfers)),
	}

	for k, p := range s.prices {
		v := *p
		c.prices[k] = &v
	}

	for i, m := range s.markets {
		c.markets[i] = m.Clone()
	}

	for k, p := range s.positions {
		c.positions[k] = p.Clone()
	}

	for i, t := range s.transfers {
		v := *t
		c.transfers[i] = &v
	}

	return c
}

func (d *Database) Transact(ctx context.Context, fn func(ctx context.Context) error) error {
	if session.Active(ctx) {
		return fn(ctx)
	}

	d.txMu.Lock()
	defer d.txMu.Unlock()

	return session.RetryOnConflict(ctx, func() error {
		d.mu.RLock()
		working := d.committed.clone()
		d.mu.RUnlock()

		txCtx := session.WithTx(ctx, working)
		if err := fn(txCtx); err != nil {
			return err
		}

		d.mu.Lock()
		d.committed = working
		d.mu.Unlock()

		session.Committed(txCtx)
		return nil
	})
}

// read the state visible to ctx
func (d *Database) read(ctx context.Context) *state {
	if tx, ok := session.TxFrom(ctx); ok {
		if st, ok := tx.(*state); ok {
			return st
		}
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.committed
}

// write runs fn against the transaction of ctx, or a transaction of its own
func (d *Database) write(ctx context.Context, fn func(st *state) error) error {
	return d.Transact(ctx, func(ctx context.Context) error {
		return fn(d.read(ctx))
	})
}

// Prices price store
func (d *Database) Prices() core.IPriceStore {
	return &priceStore{d}
}

// Markets market store
func (d *Database) Markets() core.IMarketStore {
	return &marketStore{d}
}

// Positions position store
func (d *Database) Positions() core.IPositionStore {
	return &positionStore{d}
}

// Transfers transfer store
func (d *Database) Transfers() core.ITransferStore {
	return &transferStore{d}
}
