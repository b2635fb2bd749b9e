package market

import (
	"context"
	"time"

	"lendex/core"
	"lendex/internal/lendex"
	"lendex/pkg/id"
	"lendex/pkg/number"

	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
)

type service struct {
	markets   core.IMarketStore
	positions core.IPositionStore
	transfers core.ITransferStore
	oracle    core.PriceSource
	credit    core.CreditEvaluator
	tx        core.Transactor
}

// New new market service
func New(
	markets core.IMarketStore,
	positions core.IPositionStore,
	transfers core.ITransferStore,
	oracle core.PriceSource,
	credit core.CreditEvaluator,
	tx core.Transactor,
) core.IMarketService {
	return &service{
		markets:   markets,
		positions: positions,
		transfers: transfers,
		oracle:    oracle,
		credit:    credit,
		tx:        tx,
	}
}

type executeFunc func(ctx context.Context, market *core.Market, position *core.Position) error

// execute runs fn on the account's position against the market accrued to env time,
// then stores both. Nothing is written if fn fails.
func (s *service) execute(ctx context.Context, env core.Env, asset core.Token, account string, fn executeFunc) (*core.Position, error) {
	log := logger.FromContext(ctx).WithFields(map[string]interface{}{
		"asset":   asset.Key(),
		"sender":  env.Sender,
		"account": account,
	})
	ctx = logger.WithContext(ctx, log)

	var result *core.Position
	err := s.tx.Transact(ctx, func(ctx context.Context) error {
		market, err := s.find(ctx, asset)
		if err != nil {
			return err
		}

		if _, err := lendex.AccrueInterest(market, env.Time); err != nil {
			return err
		}

		position, err := s.positions.Find(ctx, asset, account)
		if err != nil {
			log.WithError(err).Errorln("positions.Find")
			return err
		}

		if err := fn(ctx, market, position); err != nil {
			return err
		}

		if err := s.markets.Update(ctx, market); err != nil {
			log.WithError(err).Errorln("markets.Update")
			return err
		}

		if err := s.positions.Save(ctx, position); err != nil {
			log.WithError(err).Errorln("positions.Save")
			return err
		}

		result = position
		return nil
	})
	if err != nil {
		if _, ok := core.ErrorCodeOf(err); ok {
			log.WithError(err).Infoln("rejected")
		}
		return nil, err
	}

	return result, nil
}

func (s *service) Deposit(ctx context.Context, env core.Env, asset core.Token, funds []core.Coin) (*core.Position, error) {
	return s.DepositTo(ctx, env, asset, env.Sender, funds)
}

func (s *service) DepositTo(ctx context.Context, env core.Env, asset core.Token, account string, funds []core.Coin) (*core.Position, error) {
	if account == "" {
		return nil, core.ErrInvalidAccount
	}

	return s.execute(ctx, env, asset, account, func(ctx context.Context, market *core.Market, position *core.Position) error {
		amount, err := lendex.ValidateFunds(funds, market.Asset)
		if err != nil {
			return err
		}

		return lendex.Deposit(market, position, amount)
	})
}

func (s *service) Withdraw(ctx context.Context, env core.Env, asset core.Token, amount decimal.Decimal) (*core.Position, error) {
	if err := lendex.ValidateAmount(amount); err != nil {
		return nil, err
	}

	return s.execute(ctx, env, asset, env.Sender, func(ctx context.Context, market *core.Market, position *core.Position) error {
		before := position.Clone()
		if err := lendex.Withdraw(market, position, amount); err != nil {
			return err
		}

		if err := s.checkWithdrawal(ctx, env, market, before, position); err != nil {
			return err
		}

		return s.payout(ctx, market, env.Sender, amount, core.TransferActionWithdraw)
	})
}

// checkWithdrawal an account carrying debt keeps a credit line covering it
func (s *service) checkWithdrawal(ctx context.Context, env core.Env, market *core.Market, before, after *core.Position) error {
	indebted, err := s.hasDebt(ctx, env.Sender)
	if err != nil || !indebted {
		return err
	}

	total, err := s.credit.TotalCreditLine(ctx, env.Time, env.Sender)
	if err != nil {
		return err
	}

	price, err := s.oracle.Price(ctx, env.Time, market.Asset, market.CommonToken)
	if err != nil {
		return err
	}

	if !lendex.CoversDebt(*total, market, before, after, price) {
		return core.ErrCreditLineExceeded
	}

	return nil
}

// hasDebt whether the account owes anything in any market; no price is needed to tell
func (s *service) hasDebt(ctx context.Context, account string) (bool, error) {
	positions, err := s.positions.FindByAccount(ctx, account)
	if err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("positions.FindByAccount")
		return false, err
	}

	for _, p := range positions {
		if p.Btokens.IsPositive() {
			return true, nil
		}
	}

	return false, nil
}

func (s *service) Borrow(ctx context.Context, env core.Env, asset core.Token, amount decimal.Decimal) (*core.Position, error) {
	if err := lendex.ValidateAmount(amount); err != nil {
		return nil, err
	}

	return s.execute(ctx, env, asset, env.Sender, func(ctx context.Context, market *core.Market, position *core.Position) error {
		total, err := s.credit.TotalCreditLine(ctx, env.Time, env.Sender)
		if err != nil {
			return err
		}

		price, err := s.oracle.Price(ctx, env.Time, market.Asset, market.CommonToken)
		if err != nil {
			return err
		}

		if total.Debt.Add(lendex.ConvertCeil(amount, price)).GreaterThan(total.CreditLine) {
			return core.ErrCreditLineExceeded
		}

		if err := lendex.Borrow(market, position, amount); err != nil {
			return err
		}

		return s.payout(ctx, market, env.Sender, amount, core.TransferActionBorrow)
	})
}

func (s *service) Repay(ctx context.Context, env core.Env, asset core.Token, funds []core.Coin) (*core.Position, error) {
	return s.execute(ctx, env, asset, env.Sender, func(ctx context.Context, market *core.Market, position *core.Position) error {
		amount, err := lendex.ValidateFunds(funds, market.Asset)
		if err != nil {
			return err
		}

		return lendex.Repay(market, position, amount)
	})
}

// payout record the underlying sent out of the pool
func (s *service) payout(ctx context.Context, market *core.Market, account string, amount decimal.Decimal, action string) error {
	transfer := &core.Transfer{
		TraceID: id.PayoutTraceID(action, market.ID, market.Version),
		Account: account,
		Asset:   market.Asset,
		Amount:  amount,
		Action:  action,
	}

	if err := s.transfers.Create(ctx, transfer); err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("transfers.Create")
		return err
	}

	return nil
}

func (s *service) Accrue(ctx context.Context, env core.Env, asset core.Token) (*core.Market, error) {
	var result *core.Market
	err := s.tx.Transact(ctx, func(ctx context.Context) error {
		market, err := s.find(ctx, asset)
		if err != nil {
			return err
		}

		changed, err := lendex.AccrueInterest(market, env.Time)
		if err != nil {
			return err
		}

		if changed {
			if err := s.markets.Update(ctx, market); err != nil {
				logger.FromContext(ctx).WithError(err).Errorln("markets.Update")
				return err
			}
		}

		result = market
		return nil
	})

	return result, err
}

func (s *service) find(ctx context.Context, asset core.Token) (*core.Market, error) {
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

// view the market accrued to now, without writing it
func (s *service) view(ctx context.Context, now time.Time, asset core.Token) (*core.Market, error) {
	market, err := s.find(ctx, asset)
	if err != nil {
		return nil, err
	}

	if _, err := lendex.AccrueInterest(market, now); err != nil {
		return nil, err
	}

	return market, nil
}

func (s *service) TokensBalance(ctx context.Context, now time.Time, asset core.Token, account string) (*core.TokensBalance, error) {
	market, err := s.view(ctx, now, asset)
	if err != nil {
		return nil, err
	}

	position, err := s.positions.Find(ctx, asset, account)
	if err != nil {
		return nil, err
	}

	return lendex.TokensBalance(market, position), nil
}

func (s *service) CreditLine(ctx context.Context, now time.Time, asset core.Token, account string) (*core.CreditLine, error) {
	market, err := s.view(ctx, now, asset)
	if err != nil {
		return nil, err
	}

	position, err := s.positions.Find(ctx, asset, account)
	if err != nil {
		return nil, err
	}

	if position.IsEmpty() {
		line := lendex.ZeroCreditLine()
		return &line, nil
	}

	price, err := s.oracle.Price(ctx, now, market.Asset, market.CommonToken)
	if err != nil {
		return nil, err
	}

	line := lendex.Valuate(market, position, price)
	return &line, nil
}

// Withdrawable the largest amount that passes the withdrawal checks: ltoken value,
// liquidity and, for an indebted account, the credit line
func (s *service) Withdrawable(ctx context.Context, now time.Time, asset core.Token, account string) (decimal.Decimal, error) {
	market, err := s.view(ctx, now, asset)
	if err != nil {
		return decimal.Zero, err
	}

	position, err := s.positions.Find(ctx, asset, account)
	if err != nil {
		return decimal.Zero, err
	}

	limit := lendex.LtokenValue(market, position.Ltokens)
	if market.Liquidity.LessThan(limit) {
		limit = market.Liquidity
	}

	if !limit.IsPositive() {
		return decimal.Zero, nil
	}

	indebted, err := s.hasDebt(ctx, account)
	if err != nil || !indebted {
		return limit, err
	}

	total, err := s.credit.TotalCreditLine(ctx, now, account)
	if err != nil {
		return decimal.Zero, err
	}

	price, err := s.oracle.Price(ctx, now, market.Asset, market.CommonToken)
	if err != nil {
		return decimal.Zero, err
	}

	allowed := func(amount decimal.Decimal) bool {
		m, after := market.Clone(), position.Clone()
		if err := lendex.Withdraw(m, after, amount); err != nil {
			return false
		}

		return lendex.CoversDebt(*total, m, position, after, price)
	}

	if allowed(limit) {
		return limit, nil
	}

	// the check is monotonic in amount, bisect between a passing lo and a failing hi
	lo, hi := decimal.Zero, limit
	two := decimal.NewFromInt(2)
	for hi.Sub(lo).GreaterThan(decimal.NewFromInt(1)) {
		mid := lo.Add(hi).Div(two).Floor()
		if allowed(mid) {
			lo = mid
		} else {
			hi = mid
		}
	}

	return lo, nil
}

// Borrowable the largest amount that fits in the unused credit line and the market liquidity
func (s *service) Borrowable(ctx context.Context, now time.Time, asset core.Token, account string) (decimal.Decimal, error) {
	market, err := s.view(ctx, now, asset)
	if err != nil {
		return decimal.Zero, err
	}

	total, err := s.credit.TotalCreditLine(ctx, now, account)
	if err != nil {
		return decimal.Zero, err
	}

	if !total.CreditLine.GreaterThan(total.Debt) {
		return decimal.Zero, nil
	}

	price, err := s.oracle.Price(ctx, now, market.Asset, market.CommonToken)
	if err != nil {
		return decimal.Zero, err
	}

	limit, err := lendex.BorrowLimit(*total, price)
	if err != nil {
		return decimal.Zero, err
	}

	if market.Liquidity.LessThan(limit) {
		limit = market.Liquidity
	}

	return limit, nil
}

func (s *service) Interest(ctx context.Context, now time.Time, asset core.Token) (*core.MarketInterest, error) {
	market, err := s.view(ctx, now, asset)
	if err != nil {
		return nil, err
	}

	return lendex.Interest(market), nil
}

func (s *service) Reserve(ctx context.Context, now time.Time, asset core.Token) (decimal.Decimal, error) {
	market, err := s.view(ctx, now, asset)
	if err != nil {
		return decimal.Zero, err
	}

	return number.Floor(market.Reserve, 0), nil
}

func (s *service) Configuration(ctx context.Context, now time.Time, asset core.Token) (*core.Market, error) {
	return s.view(ctx, now, asset)
}
