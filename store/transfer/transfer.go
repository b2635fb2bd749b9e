package transfer

import (
	"context"
	"errors"

	"lendex/core"
	"lendex/store/session"

	"github.com/fox-one/pkg/store/db"
)

type transferStore struct {
	db *db.DB
}

// New new transfer store
func New(db *db.DB) core.ITransferStore {
	return &transferStore{
		db: db,
	}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Transfer{})
		if err := tx.AutoMigrate(core.Transfer{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *transferStore) Create(ctx context.Context, transfer *core.Transfer) error {
	return session.DB(ctx, s.db).Update().Where("trace_id=?", transfer.TraceID).FirstOrCreate(transfer).Error
}

func (s *transferStore) List(ctx context.Context, from uint64, limit int) ([]*core.Transfer, error) {
	if limit <= 0 {
		return nil, errors.New("invalid limit")
	}

	var transfers []*core.Transfer
	if e := session.DB(ctx, s.db).View().Where("id > ?", from).Limit(limit).Order("id ASC").Find(&transfers).Error; e != nil {
		return nil, e
	}

	return transfers, nil
}
