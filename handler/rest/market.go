package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"lendex/core"
	"lendex/handler/param"
	"lendex/handler/render"
	"lendex/handler/views"
	"lendex/pkg/metrics"

	"github.com/go-chi/chi"
	"github.com/shopspring/decimal"
)

func assetParam(r *http.Request) (core.Token, error) {
	asset, err := core.ParseToken(chi.URLParam(r, "asset"))
	if err != nil {
		return core.Token{}, errors.New("invalid asset")
	}

	return asset, nil
}

func marketExecuteHandler(markets core.IMarketService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		asset, err := assetParam(r)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		var body param.MarketExecute
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

		var position *core.Position
		switch name {
		case "deposit":
			position, err = markets.Deposit(ctx, env, asset, body.Funds)
		case "deposit_to":
			position, err = markets.DepositTo(ctx, env, asset, body.Msg.DepositTo.Account, body.Funds)
		case "withdraw":
			position, err = markets.Withdraw(ctx, env, asset, body.Msg.Withdraw.Amount)
		case "borrow":
			position, err = markets.Borrow(ctx, env, asset, body.Msg.Borrow.Amount)
		case "repay":
			position, err = markets.Repay(ctx, env, asset, body.Funds)
		case "accrue":
			var market *core.Market
			market, err = markets.Accrue(ctx, env, asset)
			metrics.Observe("market", name, err)
			if err != nil {
				render.Err(w, err)
				return
			}

			render.JSON(w, views.MarketView(market))
			return
		}

		metrics.Observe("market", name, err)
		if err != nil {
			render.Err(w, err)
			return
		}

		values, err := markets.TokensBalance(ctx, env.Time, asset, position.Account)
		if err != nil {
			render.Err(w, err)
			return
		}

		render.JSON(w, views.PositionView(position, values))
	}
}

func tokensBalanceHandler(markets core.IMarketService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		asset, err := assetParam(r)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		var query param.AccountQuery
		if err := param.Binding(r, &query); err != nil {
			render.BadRequest(w, err)
			return
		}

		balance, err := markets.TokensBalance(r.Context(), time.Now(), asset, query.Account)
		if err != nil {
			render.Err(w, err)
			return
		}

		render.JSON(w, balance)
	}
}

func marketCreditLineHandler(markets core.IMarketService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		asset, err := assetParam(r)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		var query param.AccountQuery
		if err := param.Binding(r, &query); err != nil {
			render.BadRequest(w, err)
			return
		}

		line, err := markets.CreditLine(r.Context(), time.Now(), asset, query.Account)
		if err != nil {
			render.Err(w, err)
			return
		}

		render.JSON(w, line)
	}
}

// amountHandler account scoped amount query rendered as a coin of the market asset
func amountHandler(query func(ctx context.Context, now time.Time, asset core.Token, account string) (decimal.Decimal, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		asset, err := assetParam(r)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		var params param.AccountQuery
		if err := param.Binding(r, &params); err != nil {
			render.BadRequest(w, err)
			return
		}

		amount, err := query(r.Context(), time.Now(), asset, params.Account)
		if err != nil {
			render.Err(w, err)
			return
		}

		render.JSON(w, core.NewCoin(asset, amount))
	}
}

func interestHandler(markets core.IMarketService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		asset, err := assetParam(r)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		interest, err := markets.Interest(r.Context(), time.Now(), asset)
		if err != nil {
			render.Err(w, err)
			return
		}

		render.JSON(w, interest)
	}
}

func reserveHandler(markets core.IMarketService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		asset, err := assetParam(r)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		reserve, err := markets.Reserve(r.Context(), time.Now(), asset)
		if err != nil {
			render.Err(w, err)
			return
		}

		render.JSON(w, render.H{"reserve": reserve})
	}
}

func configurationHandler(markets core.IMarketService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		asset, err := assetParam(r)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		market, err := markets.Configuration(r.Context(), time.Now(), asset)
		if err != nil {
			render.Err(w, err)
			return
		}

		render.JSON(w, views.MarketView(market))
	}
}
