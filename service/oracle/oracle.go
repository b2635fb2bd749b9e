package oracle

import (
	"context"
	"fmt"
	"time"

	"lendex/core"
	"lendex/pkg/number"

	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
)

type service struct {
	prices core.IPriceStore
	tx     core.Transactor
	config core.OracleConfig
}

// New new oracle service
func New(
	prices core.IPriceStore,
	tx core.Transactor,
	config core.OracleConfig,
) core.IOracleService {
	return &service{
		prices: prices,
		tx:     tx,
		config: config,
	}
}

func (s *service) Config() core.OracleConfig {
	return s.config
}

// SetPrice overwrite the rate of the pair; the reverse pair is left untouched
func (s *service) SetPrice(ctx context.Context, env core.Env, sell, buy core.Token, rate decimal.Decimal) (*core.Price, error) {
	log := logger.FromContext(ctx).WithField("pair", sell.Key()+"/"+buy.Key())

	if env.Sender != s.config.Oracle {
		log.Infoln("set price: unauthorized sender", env.Sender)
		return nil, core.ErrUnauthorized
	}

	if sell.IsZero() || buy.IsZero() {
		return nil, core.ErrInvalidDenom
	}

	if !rate.IsPositive() || !number.FitsPrecision(rate, number.Precision) {
		return nil, core.ErrInvalidAmount
	}

	price := &core.Price{
		Sell:        sell,
		Buy:         buy,
		Rate:        rate,
		LastUpdated: env.Unix(),
	}

	if err := s.tx.Transact(ctx, func(ctx context.Context) error {
		return s.prices.Save(ctx, price)
	}); err != nil {
		log.WithError(err).Errorln("prices.Save")
		return nil, err
	}

	log.Debugln("set price", rate, "at", price.LastUpdated)
	return price, nil
}

// Price units of buy per unit of sell
func (s *service) Price(ctx context.Context, now time.Time, sell, buy core.Token) (decimal.Decimal, error) {
	if sell.Equal(buy) {
		return decimal.New(1, 0), nil
	}

	price, notFound, err := s.prices.Find(ctx, sell, buy)
	if err != nil {
		if notFound {
			return decimal.Zero, fmt.Errorf("%w: %s -> %s", core.ErrPriceNotFound, sell, buy)
		}

		logger.FromContext(ctx).WithError(err).Errorln("prices.Find")
		return decimal.Zero, err
	}

	// exactly maximum_age old is still valid
	if now.Unix()-price.LastUpdated > s.config.MaximumAge {
		return decimal.Zero, fmt.Errorf("%w: %s -> %s updated at %d", core.ErrPriceExpired, sell, buy, price.LastUpdated)
	}

	return price.Rate, nil
}
