package price

import (
	"context"

	"lendex/core"
	"lendex/store/session"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

type priceStore struct {
	db *db.DB
}

// New new price store
func New(db *db.DB) core.IPriceStore {
	return &priceStore{
		db: db,
	}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Price{})

		if err := tx.AutoMigrate(core.Price{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *priceStore) Save(ctx context.Context, price *core.Price) error {
	tx := session.DB(ctx, s.db).Update()

	var existing core.Price
	if err := tx.Where("sell=? and buy=?", price.Sell, price.Buy).First(&existing).Error; err != nil {
		if !gorm.IsRecordNotFoundError(err) {
			return err
		}

		return tx.Create(price).Error
	}

	price.ID = existing.ID
	price.CreatedAt = existing.CreatedAt
	price.Version = existing.Version + 1
	return tx.Model(core.Price{}).Where("id=? and version=?", existing.ID, existing.Version).Updates(map[string]interface{}{
		"rate":         price.Rate,
		"last_updated": price.LastUpdated,
		"version":      price.Version,
	}).Error
}

func (s *priceStore) Find(ctx context.Context, sell, buy core.Token) (*core.Price, bool, error) {
	var price core.Price
	if e := session.DB(ctx, s.db).View().Where("sell=? and buy=?", sell, buy).First(&price).Error; e != nil {
		return nil, gorm.IsRecordNotFoundError(e), e
	}
	return &price, false, nil
}

func (s *priceStore) All(ctx context.Context) ([]*core.Price, error) {
	var prices []*core.Price
	if e := session.DB(ctx, s.db).View().Order("id").Find(&prices).Error; e != nil {
		return nil, e
	}
	return prices, nil
}
