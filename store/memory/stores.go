package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"lendex/core"

	"github.com/shopspring/decimal"
)

var errNotFound = errors.New("record not found")

func pairKey(sell, buy core.Token) string {
	return sell.Key() + "/" + buy.Key()
}

func positionKey(market core.Token, account string) string {
	return market.Key() + "/" + account
}

type priceStore struct {
	d *Database
}

func (s *priceStore) Save(ctx context.Context, price *core.Price) error {
	return s.d.write(ctx, func(st *state) error {
		now := time.Now()
		key := pairKey(price.Sell, price.Buy)
		if existing, ok := st.prices[key]; ok {
			price.ID = existing.ID
			price.CreatedAt = existing.CreatedAt
			price.Version = existing.Version + 1
		} else {
			st.priceSeq++
			price.ID = st.priceSeq
			price.CreatedAt = now
		}

		price.UpdatedAt = now
		v := *price
		st.prices[key] = &v
		return nil
	})
}

func (s *priceStore) Find(ctx context.Context, sell, buy core.Token) (*core.Price, bool, error) {
	p, ok := s.d.read(ctx).prices[pairKey(sell, buy)]
	if !ok {
		return nil, true, errNotFound
	}

	v := *p
	return &v, false, nil
}

func (s *priceStore) All(ctx context.Context) ([]*core.Price, error) {
	st := s.d.read(ctx)
	prices := make([]*core.Price, 0, len(st.prices))
	for _, p := range st.prices {
		v := *p
		prices = append(prices, &v)
	}

	sort.Slice(prices, func(i, j int) bool { return prices[i].ID < prices[j].ID })
	return prices, nil
}

type marketStore struct {
	d *Database
}

func (s *marketStore) Create(ctx context.Context, market *core.Market) error {
	return s.d.write(ctx, func(st *state) error {
		for _, m := range st.markets {
			if m.Asset.Equal(market.Asset) {
				return core.ErrMarketAlreadyExists
			}
		}

		now := time.Now()
		market.ID = uint64(len(st.markets) + 1)
		market.CreatedAt = now
		market.UpdatedAt = now
		st.markets = append(st.markets, market.Clone())
		return nil
	})
}

func (s *marketStore) Find(ctx context.Context, asset core.Token) (*core.Market, bool, error) {
	for _, m := range s.d.read(ctx).markets {
		if m.Asset.Equal(asset) {
			return m.Clone(), false, nil
		}
	}

	return nil, true, errNotFound
}

func (s *marketStore) All(ctx context.Context) ([]*core.Market, error) {
	return s.List(ctx, 0, -1)
}

func (s *marketStore) List(ctx context.Context, from uint64, limit int) ([]*core.Market, error) {
	var markets []*core.Market
	for _, m := range s.d.read(ctx).markets {
		if limit >= 0 && len(markets) >= limit {
			break
		}

		if m.ID > from {
			markets = append(markets, m.Clone())
		}
	}

	return markets, nil
}

func (s *marketStore) Update(ctx context.Context, market *core.Market) error {
	return s.d.write(ctx, func(st *state) error {
		for i, m := range st.markets {
			if m.ID != market.ID {
				continue
			}

			if m.Version != market.Version {
				return errVersionConflict
			}

			market.Version++
			market.UpdatedAt = time.Now()
			st.markets[i] = market.Clone()
			return nil
		}

		return errNotFound
	})
}

var errVersionConflict = fmt.Errorf("memory: %w", core.ErrVersionConflict)

type positionStore struct {
	d *Database
}

func (s *positionStore) Find(ctx context.Context, market core.Token, account string) (*core.Position, error) {
	if p, ok := s.d.read(ctx).positions[positionKey(market, account)]; ok {
		return p.Clone(), nil
	}

	return &core.Position{
		Market:  market,
		Account: account,
		Ltokens: decimal.Zero,
		Btokens: decimal.Zero,
	}, nil
}

func (s *positionStore) FindByAccount(ctx context.Context, account string) ([]*core.Position, error) {
	var positions []*core.Position
	for _, p := range s.d.read(ctx).positions {
		if p.Account == account {
			positions = append(positions, p.Clone())
		}
	}

	sort.Slice(positions, func(i, j int) bool { return positions[i].ID < positions[j].ID })
	return positions, nil
}

func (s *positionStore) Save(ctx context.Context, position *core.Position) error {
	return s.d.write(ctx, func(st *state) error {
		key := positionKey(position.Market, position.Account)
		now := time.Now()

		existing, ok := st.positions[key]
		switch {
		case position.ID == 0 && ok:
			return errVersionConflict
		case position.ID == 0:
			st.posSeq++
			position.ID = st.posSeq
			position.CreatedAt = now
		case !ok || existing.Version != position.Version:
			return errVersionConflict
		default:
			position.Version++
		}

		position.UpdatedAt = now
		st.positions[key] = position.Clone()
		return nil
	})
}

type transferStore struct {
	d *Database
}

func (s *transferStore) Create(ctx context.Context, transfer *core.Transfer) error {
	return s.d.write(ctx, func(st *state) error {
		for _, t := range st.transfers {
			if t.TraceID == transfer.TraceID {
				*transfer = *t
				return nil
			}
		}

		transfer.ID = uint64(len(st.transfers) + 1)
		transfer.CreatedAt = time.Now()
		v := *transfer
		st.transfers = append(st.transfers, &v)
		return nil
	})
}

func (s *transferStore) List(ctx context.Context, from uint64, limit int) ([]*core.Transfer, error) {
	if limit <= 0 {
		return nil, errors.New("invalid limit")
	}

	var transfers []*core.Transfer
	for _, t := range s.d.read(ctx).transfers {
		if len(transfers) >= limit {
			break
		}

		if t.ID > from {
			v := *t
			transfers = append(transfers, &v)
		}
	}

	return transfers, nil
}
