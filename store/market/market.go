package market

import (
	"context"
	"fmt"

	"lendex/core"
	"lendex/store/session"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

// ErrVersionConflict the row was changed by someone else
var ErrVersionConflict = fmt.Errorf("market: %w", core.ErrVersionConflict)

type marketStore struct {
	db *db.DB
}

// New new market store
func New(db *db.DB) core.IMarketStore {
	return &marketStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Market{})
		if err := tx.AutoMigrate(core.Market{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *marketStore) Create(ctx context.Context, market *core.Market) error {
	return session.DB(ctx, s.db).Update().Create(market).Error
}

func (s *marketStore) Find(ctx context.Context, asset core.Token) (*core.Market, bool, error) {
	var market core.Market
	if err := session.DB(ctx, s.db).View().Where("asset=?", asset).First(&market).Error; err != nil {
		return nil, gorm.IsRecordNotFoundError(err), err
	}

	return &market, false, nil
}

func (s *marketStore) All(ctx context.Context) ([]*core.Market, error) {
	var markets []*core.Market
	if err := session.DB(ctx, s.db).View().Order("id").Find(&markets).Error; err != nil {
		return nil, err
	}
	return markets, nil
}

func (s *marketStore) List(ctx context.Context, from uint64, limit int) ([]*core.Market, error) {
	var markets []*core.Market
	if err := session.DB(ctx, s.db).View().Where("id > ?", from).Order("id").Limit(limit).Find(&markets).Error; err != nil {
		return nil, err
	}
	return markets, nil
}

// Update write the governance parameters and accrual state under the version check
func (s *marketStore) Update(ctx context.Context, market *core.Market) error {
	version := market.Version
	tx := session.DB(ctx, s.db).Update().Model(core.Market{}).Where("id=? and version=?", market.ID, version).Updates(map[string]interface{}{
		"price_oracle":     market.PriceOracle,
		"collateral_ratio": market.CollateralRatio,
		"reserve_factor":   market.ReserveFactor,
		"base_rate":        market.BaseRate,
		"slope_rate":       market.SlopeRate,
		"market_cap":       market.MarketCap,
		"last_charged":     market.LastCharged,
		"ltoken_supply":    market.LtokenSupply,
		"btoken_supply":    market.BtokenSupply,
		"ltoken_rate":      market.LtokenRate,
		"btoken_rate":      market.BtokenRate,
		"liquidity":        market.Liquidity,
		"reserve":          market.Reserve,
		"version":          version + 1,
	})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return ErrVersionConflict
	}

	market.Version = version + 1
	return nil
}
