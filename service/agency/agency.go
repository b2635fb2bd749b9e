package agency

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lendex/core"
	"lendex/internal/lendex"

	"github.com/fox-one/pkg/logger"
)

const (
	defaultLimit = 10
	maxLimit     = 30
)

type service struct {
	markets   core.IMarketStore
	positions core.IPositionStore
	oracle    core.PriceSource
	tx        core.Transactor
	config    core.AgencyConfig
}

// New new credit agency service
func New(
	markets core.IMarketStore,
	positions core.IPositionStore,
	oracle core.PriceSource,
	tx core.Transactor,
	config core.AgencyConfig,
) core.IAgencyService {
	return &service{
		markets:   markets,
		positions: positions,
		oracle:    oracle,
		tx:        tx,
		config:    config,
	}
}

func (s *service) Config() core.AgencyConfig {
	return s.config
}

func (s *service) CreateMarket(ctx context.Context, env core.Env, params core.MarketParams) (*core.Market, []string, error) {
	log := logger.FromContext(ctx).WithField("asset", params.MarketToken.Key())

	if env.Sender != s.config.GovContract {
		log.Infoln("create market: unauthorized sender", env.Sender)
		return nil, nil, core.ErrUnauthorized
	}

	if err := lendex.ValidateParams(params); err != nil {
		log.WithError(err).Infoln("create market: invalid params")
		return nil, nil, err
	}

	var (
		market   *core.Market
		warnings []string
	)

	err := s.tx.Transact(ctx, func(ctx context.Context) error {
		if _, notFound, err := s.markets.Find(ctx, params.MarketToken); err == nil {
			return core.ErrMarketAlreadyExists
		} else if !notFound {
			log.WithError(err).Errorln("markets.Find")
			return err
		}

		w, err := s.checkPricePairs(ctx, env.Time, params.MarketToken)
		if err != nil {
			return err
		}

		if len(w) > 0 && s.config.RequirePricePairs {
			return fmt.Errorf("%w: %s", core.ErrPriceNotFound, w[0])
		}

		m := lendex.NewMarket(params, s.config.CommonToken, env.Time)
		if err := s.markets.Create(ctx, m); err != nil {
			log.WithError(err).Errorln("markets.Create")
			return err
		}

		market, warnings = m, w
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	for _, w := range warnings {
		log.Warnln("create market:", w)
	}

	return market, warnings, nil
}

// checkPricePairs report the directional prices between asset and the common token that cannot be used
func (s *service) checkPricePairs(ctx context.Context, now time.Time, asset core.Token) ([]string, error) {
	common := s.config.CommonToken
	if asset.Equal(common) {
		return nil, nil
	}

	var warnings []string
	for _, pair := range []core.PricePair{{Sell: asset, Buy: common}, {Sell: common, Buy: asset}} {
		_, err := s.oracle.Price(ctx, now, pair.Sell, pair.Buy)
		switch {
		case err == nil:
		case errors.Is(err, core.ErrPriceNotFound):
			warnings = append(warnings, fmt.Sprintf("no price for %s -> %s", pair.Sell, pair.Buy))
		case errors.Is(err, core.ErrPriceExpired):
			warnings = append(warnings, fmt.Sprintf("price for %s -> %s is expired", pair.Sell, pair.Buy))
		default:
			return nil, err
		}
	}

	return warnings, nil
}

func (s *service) Market(ctx context.Context, asset core.Token) (*core.Market, error) {
	market, notFound, err := s.markets.Find(ctx, asset)
	if err != nil {
		if notFound {
			return nil, core.ErrMarketNotFound
		}

		logger.FromContext(ctx).WithError(err).Errorln("markets.Find")
		return nil, err
	}

	return market, nil
}

func (s *service) ListMarkets(ctx context.Context, startAfter core.Token, limit int) ([]*core.Market, error) {
	if limit <= 0 {
		limit = defaultLimit
	} else if limit > maxLimit {
		limit = maxLimit
	}

	var from uint64
	if !startAfter.IsZero() {
		market, err := s.Market(ctx, startAfter)
		if err != nil {
			return nil, err
		}
		from = market.ID
	}

	markets, err := s.markets.List(ctx, from, limit)
	if err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("markets.List")
		return nil, err
	}

	return markets, nil
}

func (s *service) CreditLine(ctx context.Context, now time.Time, account string, asset core.Token) (*core.CreditLine, error) {
	market, err := s.Market(ctx, asset)
	if err != nil {
		return nil, err
	}

	position, err := s.positions.Find(ctx, asset, account)
	if err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("positions.Find")
		return nil, err
	}

	line, err := s.valuate(ctx, now, market, position)
	if err != nil {
		return nil, err
	}

	return &line, nil
}

// TotalCreditLine sum of the account's credit lines over every market it holds shares in
func (s *service) TotalCreditLine(ctx context.Context, now time.Time, account string) (*core.CreditLine, error) {
	positions, err := s.positions.FindByAccount(ctx, account)
	if err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("positions.FindByAccount")
		return nil, err
	}

	total := lendex.ZeroCreditLine()
	for _, position := range positions {
		if position.IsEmpty() {
			continue
		}

		market, err := s.Market(ctx, position.Market)
		if err != nil {
			return nil, err
		}

		line, err := s.valuate(ctx, now, market, position)
		if err != nil {
			return nil, err
		}

		total = total.Add(line)
	}

	return &total, nil
}

// valuate the position at rates accrued to now; the market itself is not written
func (s *service) valuate(ctx context.Context, now time.Time, market *core.Market, position *core.Position) (core.CreditLine, error) {
	if position.IsEmpty() {
		return lendex.ZeroCreditLine(), nil
	}

	if _, err := lendex.AccrueInterest(market, now); err != nil {
		return core.CreditLine{}, err
	}

	price, err := s.oracle.Price(ctx, now, market.Asset, s.config.CommonToken)
	if err != nil {
		return core.CreditLine{}, err
	}

	return lendex.Valuate(market, position, price), nil
}
