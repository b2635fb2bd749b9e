package agency

import (
	"context"
	"strings"

	"lendex/core"
	"lendex/internal/lendex"

	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
)

func (s *service) AdjustCollateralRatio(ctx context.Context, env core.Env, asset core.Token, ratio decimal.Decimal) (*core.Market, error) {
	if err := lendex.ValidateCollateralRatio(ratio); err != nil {
		return nil, err
	}

	return s.adjust(ctx, env, asset, "collateral_ratio", func(market *core.Market) {
		market.CollateralRatio = ratio
	})
}

func (s *service) AdjustReserveFactor(ctx context.Context, env core.Env, asset core.Token, factor decimal.Decimal) (*core.Market, error) {
	if err := lendex.ValidateReserveFactor(factor); err != nil {
		return nil, err
	}

	return s.adjust(ctx, env, asset, "reserve_factor", func(market *core.Market) {
		market.ReserveFactor = factor
	})
}

// AdjustInterestRates interest up to env time is charged at the old rates
func (s *service) AdjustInterestRates(ctx context.Context, env core.Env, asset core.Token, rates core.InterestRateModel) (*core.Market, error) {
	if err := lendex.ValidateInterestRate(rates.InterestRate); err != nil {
		return nil, err
	}

	return s.adjust(ctx, env, asset, "interest_rates", func(market *core.Market) {
		market.BaseRate = rates.Base
		market.SlopeRate = rates.Slope
	})
}

func (s *service) AdjustPriceOracle(ctx context.Context, env core.Env, asset core.Token, oracle string) (*core.Market, error) {
	oracle = strings.TrimSpace(oracle)
	if oracle == "" {
		return nil, core.ErrInvalidAccount
	}

	return s.adjust(ctx, env, asset, "price_oracle", func(market *core.Market) {
		market.PriceOracle = oracle
	})
}

func (s *service) AdjustMarketCap(ctx context.Context, env core.Env, asset core.Token, marketCap decimal.NullDecimal) (*core.Market, error) {
	if err := lendex.ValidateMarketCap(marketCap); err != nil {
		return nil, err
	}

	return s.adjust(ctx, env, asset, "market_cap", func(market *core.Market) {
		market.MarketCap = marketCap
	})
}

// adjust charge the market up to env time, then apply fn; only the gov contract may adjust
func (s *service) adjust(ctx context.Context, env core.Env, asset core.Token, name string, fn func(market *core.Market)) (*core.Market, error) {
	log := logger.FromContext(ctx).WithFields(map[string]interface{}{
		"asset":  asset.Key(),
		"adjust": name,
	})

	if env.Sender != s.config.GovContract {
		log.Infoln("adjust market: unauthorized sender", env.Sender)
		return nil, core.ErrUnauthorized
	}

	var result *core.Market
	err := s.tx.Transact(ctx, func(ctx context.Context) error {
		market, err := s.Market(ctx, asset)
		if err != nil {
			return err
		}

		if _, err := lendex.AccrueInterest(market, env.Time); err != nil {
			return err
		}

		fn(market)
		if err := s.markets.Update(ctx, market); err != nil {
			log.WithError(err).Errorln("markets.Update")
			return err
		}

		result = market
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Infoln("adjust market: done")
	return result, nil
}
