package pricefeed

import (
	"context"
	"testing"
	"time"

	"lendex/core"
	"lendex/pkg/number"
	"lendex/service/oracle"
	"lendex/store/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticFeed struct {
	tickers []*core.PriceTicker
}

func (f *staticFeed) PullPriceTicker(ctx context.Context, pair core.PricePair) (*core.PriceTicker, error) {
	for _, t := range f.tickers {
		if t.Sell.Equal(pair.Sell) && t.Buy.Equal(pair.Buy) {
			return t, nil
		}
	}
	return nil, core.ErrPriceNotFound
}

func (f *staticFeed) PullAllPriceTickers(ctx context.Context) ([]*core.PriceTicker, error) {
	return f.tickers, nil
}

func TestOnWork(t *testing.T) {
	ctx := context.Background()
	db := memory.New()
	o := oracle.New(db.Prices(), db, core.OracleConfig{Oracle: "feeder", MaximumAge: 60})

	feed := &staticFeed{tickers: []*core.PriceTicker{
		{Sell: core.Native("ustake"), Buy: core.Native("ucosm"), Rate: number.Decimal("0.5")},
		{Sell: core.Native("ucosm"), Buy: core.Native("ustake"), Rate: number.Decimal("2")},
	}}

	w := New(&core.Config{}, o, feed)
	assert.Equal(t, defaultSpec, w.Spec)
	require.Nil(t, w.RunOnce(ctx))

	rate, err := o.Price(ctx, time.Now(), core.Native("ucosm"), core.Native("ustake"))
	require.Nil(t, err)
	assert.Equal(t, "2", rate.String())
}
