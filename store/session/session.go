package session

import (
	"context"
	"errors"
	"sync"

	"lendex/core"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/store/db"
)

type txKey struct{}

type binding struct {
	tx interface{}

	mu    sync.Mutex
	hooks []func()
}

// WithTx bind a running transaction to ctx
func WithTx(ctx context.Context, tx interface{}) context.Context {
	return context.WithValue(ctx, txKey{}, &binding{tx: tx})
}

func bindingFrom(ctx context.Context) (*binding, bool) {
	b, ok := ctx.Value(txKey{}).(*binding)
	return b, ok
}

// TxFrom transaction bound to ctx, if any
func TxFrom(ctx context.Context) (interface{}, bool) {
	if b, ok := bindingFrom(ctx); ok {
		return b.tx, true
	}

	return nil, false
}

// Active reports whether ctx runs inside a transaction
func Active(ctx context.Context) bool {
	_, ok := bindingFrom(ctx)
	return ok
}

// AfterCommit run fn once the transaction of ctx has committed.
// Outside a transaction fn runs right away; on rollback it never runs.
func AfterCommit(ctx context.Context, fn func()) {
	b, ok := bindingFrom(ctx)
	if !ok {
		fn()
		return
	}

	b.mu.Lock()
	b.hooks = append(b.hooks, fn)
	b.mu.Unlock()
}

// Committed run the hooks registered on the transaction of ctx
func Committed(ctx context.Context) {
	b, ok := bindingFrom(ctx)
	if !ok {
		return
	}

	b.mu.Lock()
	hooks := b.hooks
	b.hooks = nil
	b.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
}

// RetryOnConflict run attempt a second time when it fails on a version conflict
func RetryOnConflict(ctx context.Context, attempt func() error) error {
	err := attempt()
	if errors.Is(err, core.ErrVersionConflict) {
		logger.FromContext(ctx).WithError(err).Infoln("retry transaction")
		err = attempt()
	}

	return err
}

// DB the sql transaction bound to ctx, or fallback
func DB(ctx context.Context, fallback *db.DB) *db.DB {
	if tx, ok := TxFrom(ctx); ok {
		if d, ok := tx.(*db.DB); ok {
			return d
		}
	}

	return fallback
}

type session struct {
	db *db.DB
	mu sync.Mutex
}

// New transactor over a sql database; transactions run one at a time.
// Rows written by another process between read and update fail with a version
// conflict, the whole transaction is then run once more.
func New(db *db.DB) core.Transactor {
	return &session{db: db}
}

func (s *session) Transact(ctx context.Context, fn func(ctx context.Context) error) error {
	if Active(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return RetryOnConflict(ctx, func() error {
		var txCtx context.Context
		err := s.db.Tx(func(tx *db.DB) error {
			txCtx = WithTx(ctx, tx)
			return fn(txCtx)
		})
		if err != nil {
			return err
		}

		Committed(txCtx)
		return nil
	})
}
