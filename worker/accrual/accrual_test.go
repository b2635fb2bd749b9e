package accrual

import (
	"context"
	"testing"
	"time"

	"lendex/core"
	"lendex/pkg/number"
	"lendex/service/agency"
	"lendex/service/market"
	"lendex/service/oracle"
	"lendex/store/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOnWork(t *testing.T) {
	ctx := context.Background()
	db := memory.New()
	o := oracle.New(db.Prices(), db, core.OracleConfig{Oracle: "oracle", MaximumAge: 60})
	a := agency.New(db.Markets(), db.Positions(), o, db, core.AgencyConfig{GovContract: "gov", CommonToken: core.Native("ucosm")})
	m := market.New(db.Markets(), db.Positions(), db.Transfers(), o, a, db)

	// created an hour ago with a one second charge period
	_, _, err := a.CreateMarket(ctx, core.Env{Sender: "gov", Time: time.Now().Add(-time.Hour)}, core.MarketParams{
		Name:                 "cosm",
		Symbol:               "COSM",
		MarketToken:          core.Native("ucosm"),
		InterestChargePeriod: 1,
		CollateralRatio:      number.Decimal("0.5"),
	})
	require.Nil(t, err)

	before, err := a.Market(ctx, core.Native("ucosm"))
	require.Nil(t, err)

	w := New(&core.Config{Accrual: core.Accrual{Sender: "keeper", Schedule: "@every 10s"}}, a, m)
	assert.Equal(t, "@every 10s", w.Spec)
	require.Nil(t, w.RunOnce(ctx))

	after, err := a.Market(ctx, core.Native("ucosm"))
	require.Nil(t, err)
	assert.Greater(t, after.LastCharged, before.LastCharged)
	assert.Equal(t, before.Version+1, after.Version)
}
