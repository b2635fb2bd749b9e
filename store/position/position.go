package position

import (
	"context"
	"fmt"

	"lendex/core"
	"lendex/store/session"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
	"github.com/shopspring/decimal"
)

// ErrVersionConflict the row was changed by someone else
var ErrVersionConflict = fmt.Errorf("position: %w", core.ErrVersionConflict)

type positionStore struct {
	db *db.DB
}

// New new position store
func New(db *db.DB) core.IPositionStore {
	return &positionStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Position{})
		if err := tx.AutoMigrate(core.Position{}).Error; err != nil {
			return err
		}

		if err := tx.AddIndex("idx_positions_account", "account").Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *positionStore) Find(ctx context.Context, market core.Token, account string) (*core.Position, error) {
	var position core.Position
	if err := session.DB(ctx, s.db).View().Where("market=? and account=?", market, account).First(&position).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return &core.Position{
				Market:  market,
				Account: account,
				Ltokens: decimal.Zero,
				Btokens: decimal.Zero,
			}, nil
		}

		return nil, err
	}

	return &position, nil
}

func (s *positionStore) FindByAccount(ctx context.Context, account string) ([]*core.Position, error) {
	var positions []*core.Position
	if err := session.DB(ctx, s.db).View().Where("account=?", account).Order("id").Find(&positions).Error; err != nil {
		return nil, err
	}

	return positions, nil
}

func (s *positionStore) Save(ctx context.Context, position *core.Position) error {
	tx := session.DB(ctx, s.db).Update()
	if position.ID == 0 {
		return tx.Create(position).Error
	}

	version := position.Version
	r := tx.Model(core.Position{}).Where("id=? and version=?", position.ID, version).Updates(map[string]interface{}{
		"ltokens": position.Ltokens,
		"btokens": position.Btokens,
		"version": version + 1,
	})
	if r.Error != nil {
		return r.Error
	}

	if r.RowsAffected == 0 {
		return ErrVersionConflict
	}

	position.Version = version + 1
	return nil
}
