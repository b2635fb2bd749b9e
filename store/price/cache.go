package price

import (
	"context"
	"fmt"
	"time"

	"lendex/core"
	"lendex/store/session"

	"github.com/bluele/gcache"
	"golang.org/x/sync/singleflight"
)

// Cache read through cache of prices; reads inside a transaction go to the store
func Cache(store core.IPriceStore, exp time.Duration) core.IPriceStore {
	builder := gcache.New(2048).LRU()
	if exp > 0 {
		builder = builder.Expiration(exp)
	}

	return &cachePriceStore{
		IPriceStore: store,
		cache:       builder.Build(),
		sf:          &singleflight.Group{},
	}
}

type cachePriceStore struct {
	core.IPriceStore
	cache gcache.Cache
	sf    *singleflight.Group
}

// Save the entry is dropped once the write is committed, so readers outside
// the transaction never re-cache the row it replaces
func (s *cachePriceStore) Save(ctx context.Context, price *core.Price) error {
	if err := s.IPriceStore.Save(ctx, price); err != nil {
		return err
	}

	key := s.pairKey(price.Sell, price.Buy)
	session.AfterCommit(ctx, func() {
		s.cache.Remove(key)
	})

	return nil
}

func (s *cachePriceStore) Find(ctx context.Context, sell, buy core.Token) (*core.Price, bool, error) {
	if session.Active(ctx) {
		return s.IPriceStore.Find(ctx, sell, buy)
	}

	key := s.pairKey(sell, buy)
	if v, err := s.cache.Get(key); err == nil {
		if price, ok := v.(core.Price); ok {
			return &price, false, nil
		}
	}

	type result struct {
		price    *core.Price
		notFound bool
	}

	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		price, notFound, err := s.IPriceStore.Find(ctx, sell, buy)
		if err != nil {
			return result{notFound: notFound}, err
		}

		_ = s.cache.Set(key, *price)
		return result{price: price}, nil
	})

	r := v.(result)
	if err != nil {
		return nil, r.notFound, err
	}

	price := *r.price
	return &price, false, nil
}

func (s *cachePriceStore) pairKey(sell, buy core.Token) string {
	return fmt.Sprintf("price:%s:%s", sell.Key(), buy.Key())
}
