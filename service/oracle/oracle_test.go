package oracle

import (
	"context"
	"testing"
	"time"

	"lendex/core"
	"lendex/pkg/number"
	"lendex/store/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	ustake = core.Native("ustake")
	ucosm  = core.Native("ucosm")
)

func newService() core.IOracleService {
	db := memory.New()
	return New(db.Prices(), db, core.OracleConfig{Oracle: "oracle", MaximumAge: 60})
}

func TestSetPrice(t *testing.T) {
	ctx := context.Background()
	s := newService()
	now := time.Unix(1_000_000, 0)

	_, err := s.SetPrice(ctx, core.Env{Sender: "mallory", Time: now}, ustake, ucosm, number.Decimal("0.5"))
	assert.ErrorIs(t, err, core.ErrUnauthorized)

	_, err = s.SetPrice(ctx, core.Env{Sender: "oracle", Time: now}, ustake, ucosm, number.Decimal("0"))
	assert.ErrorIs(t, err, core.ErrInvalidAmount)

	price, err := s.SetPrice(ctx, core.Env{Sender: "oracle", Time: now}, ustake, ucosm, number.Decimal("0.5"))
	require.Nil(t, err)
	assert.Equal(t, now.Unix(), price.LastUpdated)

	rate, err := s.Price(ctx, now, ustake, ucosm)
	require.Nil(t, err)
	assert.Equal(t, "0.5", rate.String())

	// the reverse direction is never inferred
	_, err = s.Price(ctx, now, ucosm, ustake)
	assert.ErrorIs(t, err, core.ErrPriceNotFound)

	// overwrite
	_, err = s.SetPrice(ctx, core.Env{Sender: "oracle", Time: now.Add(time.Second)}, ustake, ucosm, number.Decimal("0.6"))
	require.Nil(t, err)
	rate, err = s.Price(ctx, now.Add(time.Second), ustake, ucosm)
	require.Nil(t, err)
	assert.Equal(t, "0.6", rate.String())
}

func TestPriceExpiry(t *testing.T) {
	ctx := context.Background()
	s := newService()
	now := time.Unix(1_000_000, 0)

	_, err := s.SetPrice(ctx, core.Env{Sender: "oracle", Time: now}, ustake, ucosm, number.Decimal("2"))
	require.Nil(t, err)

	_, err = s.Price(ctx, now.Add(60*time.Second), ustake, ucosm)
	assert.Nil(t, err)

	_, err = s.Price(ctx, now.Add(61*time.Second), ustake, ucosm)
	assert.ErrorIs(t, err, core.ErrPriceExpired)
}

func TestPriceSameToken(t *testing.T) {
	rate, err := newService().Price(context.Background(), time.Now(), ucosm, ucosm)
	require.Nil(t, err)
	assert.Equal(t, "1", rate.String())
}
