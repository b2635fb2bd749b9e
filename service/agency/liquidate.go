package agency

import (
	"context"
	"time"

	"lendex/core"
	"lendex/internal/lendex"

	"github.com/fox-one/pkg/logger"
)

func (s *service) Liquidate(ctx context.Context, env core.Env, account string, collateral core.Token, funds []core.Coin) (*core.Liquidation, error) {
	log := logger.FromContext(ctx).WithFields(map[string]interface{}{
		"account":    account,
		"liquidator": env.Sender,
		"collateral": collateral.Key(),
	})
	ctx = logger.WithContext(ctx, log)

	if account == "" {
		return nil, core.ErrInvalidAccount
	}

	switch len(funds) {
	case 0:
		return nil, core.ErrZeroAmount
	case 1:
	default:
		return nil, core.ErrExtraDenoms
	}

	var result *core.Liquidation
	err := s.tx.Transact(ctx, func(ctx context.Context) error {
		total, err := s.TotalCreditLine(ctx, env.Time, account)
		if err != nil {
			return err
		}

		if total.Debt.LessThanOrEqual(total.CreditLine) {
			return core.ErrLiquidationNotAllowed
		}

		b := newBook(s, env.Time)

		// repay on behalf of the account
		debtMarket, err := b.market(ctx, funds[0].Denom)
		if err != nil {
			return err
		}

		amount, err := lendex.ValidateFunds(funds, debtMarket.Asset)
		if err != nil {
			return err
		}

		debtor, err := b.position(ctx, debtMarket.Asset, account)
		if err != nil {
			return err
		}

		if err := lendex.Repay(debtMarket, debtor, amount); err != nil {
			return err
		}

		// seize collateral worth the repaid value, marked down by the liquidation price
		collateralMarket, err := b.market(ctx, collateral)
		if err != nil {
			return err
		}

		debtPrice, err := s.oracle.Price(ctx, env.Time, debtMarket.Asset, s.config.CommonToken)
		if err != nil {
			return err
		}

		collateralPrice, err := s.oracle.Price(ctx, env.Time, collateralMarket.Asset, s.config.CommonToken)
		if err != nil {
			return err
		}

		seized, err := lendex.SeizeValue(amount, debtPrice, collateralPrice, s.config.LiquidationPrice)
		if err != nil {
			return err
		}

		source, err := b.position(ctx, collateralMarket.Asset, account)
		if err != nil {
			return err
		}

		destination, err := b.position(ctx, collateralMarket.Asset, env.Sender)
		if err != nil {
			return err
		}

		shares, err := lendex.TransferLtokens(collateralMarket, source, destination, seized)
		if err != nil {
			return err
		}

		if err := b.save(ctx); err != nil {
			return err
		}

		result = &core.Liquidation{
			Account:    account,
			Liquidator: env.Sender,
			DebtMarket: debtMarket.Asset,
			Collateral: collateralMarket.Asset,
			Repaid:     amount,
			Ltokens:    shares,
			Seized:     seized,
		}
		return nil
	})
	if err != nil {
		if _, ok := core.ErrorCodeOf(err); ok {
			log.WithError(err).Infoln("liquidate: rejected")
		}
		return nil, err
	}

	log.Infof("liquidate: repaid %s %s, seized %s %s", result.Repaid, result.DebtMarket, result.Seized, result.Collateral)
	return result, nil
}

// book markets and positions touched by one operation, loaded once so that
// the same market or position reached twice is one object, and saved together
type book struct {
	s   *service
	now time.Time

	markets   []*core.Market
	positions []*core.Position
}

func newBook(s *service, now time.Time) *book {
	return &book{s: s, now: now}
}

// market accrued to now
func (b *book) market(ctx context.Context, asset core.Token) (*core.Market, error) {
	for _, m := range b.markets {
		if m.Asset.Equal(asset) {
			return m, nil
		}
	}

	market, err := b.s.Market(ctx, asset)
	if err != nil {
		return nil, err
	}

	if _, err := lendex.AccrueInterest(market, b.now); err != nil {
		return nil, err
	}

	b.markets = append(b.markets, market)
	return market, nil
}

func (b *book) position(ctx context.Context, asset core.Token, account string) (*core.Position, error) {
	for _, p := range b.positions {
		if p.Market.Equal(asset) && p.Account == account {
			return p, nil
		}
	}

	position, err := b.s.positions.Find(ctx, asset, account)
	if err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("positions.Find")
		return nil, err
	}

	b.positions = append(b.positions, position)
	return position, nil
}

func (b *book) save(ctx context.Context) error {
	log := logger.FromContext(ctx)

	for _, m := range b.markets {
		if err := b.s.markets.Update(ctx, m); err != nil {
			log.WithError(err).Errorln("markets.Update")
			return err
		}
	}

	for _, p := range b.positions {
		if err := b.s.positions.Save(ctx, p); err != nil {
			log.WithError(err).Errorln("positions.Save")
			return err
		}
	}

	return nil
}
