package rest

import (
	"net/http"
	"time"

	"lendex/core"
	"lendex/handler/param"
	"lendex/handler/render"
	"lendex/handler/views"
	"lendex/pkg/metrics"
)

func agencyExecuteHandler(agency core.IAgencyService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body param.AgencyExecute
		if err := param.Binding(r, &body); err != nil {
			render.BadRequest(w, err)
			return
		}

		name, err := body.Msg.Name()
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		ctx := r.Context()
		env := core.NewEnv(body.Sender)
		msg := body.Msg

		var (
			market *core.Market
			view   interface{}
		)

		switch name {
		case "create_market":
			var warnings []string
			market, warnings, err = agency.CreateMarket(ctx, env, *msg.CreateMarket)
			if err == nil {
				view = render.H{"market": views.MarketView(market), "warnings": warnings}
			}
		case "liquidate":
			var liquidation *core.Liquidation
			liquidation, err = agency.Liquidate(ctx, env, msg.Liquidate.Account, msg.Liquidate.CollateralDenom, body.Funds)
			view = liquidation
		case "adjust_collateral_ratio":
			market, err = agency.AdjustCollateralRatio(ctx, env, msg.AdjustCollateralRatio.MarketToken, msg.AdjustCollateralRatio.NewRatio)
		case "adjust_reserve_factor":
			market, err = agency.AdjustReserveFactor(ctx, env, msg.AdjustReserveFactor.MarketToken, msg.AdjustReserveFactor.NewFactor)
		case "adjust_interest_rates":
			market, err = agency.AdjustInterestRates(ctx, env, msg.AdjustInterestRates.MarketToken, msg.AdjustInterestRates.NewInterestRates)
		case "adjust_price_oracle":
			market, err = agency.AdjustPriceOracle(ctx, env, msg.AdjustPriceOracle.MarketToken, msg.AdjustPriceOracle.NewOracle)
		case "adjust_market_cap":
			market, err = agency.AdjustMarketCap(ctx, env, msg.AdjustMarketCap.MarketToken, msg.AdjustMarketCap.NewCap)
		}

		metrics.Observe("agency", name, err)
		if err != nil {
			render.Err(w, err)
			return
		}

		if view == nil {
			view = views.MarketView(market)
		}

		render.JSON(w, view)
	}
}

func agencyConfigHandler(agency core.IAgencyService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, agency.Config())
	}
}

func agencyMarketHandler(agency core.IAgencyService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var query param.MarketQuery
		if err := param.Binding(r, &query); err != nil {
			render.BadRequest(w, err)
			return
		}

		market, err := agency.Market(r.Context(), query.MarketToken)
		if err != nil {
			render.Err(w, err)
			return
		}

		render.JSON(w, views.MarketView(market))
	}
}

func listMarketsHandler(agency core.IAgencyService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var query param.ListMarketsQuery
		if err := param.Binding(r, &query); err != nil {
			render.BadRequest(w, err)
			return
		}

		markets, err := agency.ListMarkets(r.Context(), query.StartAfter, query.Limit)
		if err != nil {
			render.Err(w, err)
			return
		}

		render.JSON(w, render.H{"markets": views.MarketViews(markets)})
	}
}

func agencyCreditLineHandler(agency core.IAgencyService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var query param.CreditLineQuery
		if err := param.Binding(r, &query); err != nil {
			render.BadRequest(w, err)
			return
		}

		line, err := agency.CreditLine(r.Context(), time.Now(), query.Account, query.MarketToken)
		if err != nil {
			render.Err(w, err)
			return
		}

		render.JSON(w, line)
	}
}

func totalCreditLineHandler(agency core.IAgencyService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var query param.AccountQuery
		if err := param.Binding(r, &query); err != nil {
			render.BadRequest(w, err)
			return
		}

		line, err := agency.TotalCreditLine(r.Context(), time.Now(), query.Account)
		if err != nil {
			render.Err(w, err)
			return
		}

		render.JSON(w, line)
	}
}
