package rest

import (
	"net/http"
	"time"

	"lendex/core"
	"lendex/handler/param"
	"lendex/handler/render"
	"lendex/pkg/metrics"
)

func oracleExecuteHandler(oracle core.IOracleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body param.OracleExecute
		if err := param.Binding(r, &body); err != nil {
			render.BadRequest(w, err)
			return
		}

		msg := body.Msg.SetPrice
		if msg == nil {
			render.BadRequest(w, param.ErrUnknownMsg)
			return
		}

		price, err := oracle.SetPrice(r.Context(), core.NewEnv(body.Sender), msg.Sell, msg.Buy, msg.Rate)
		metrics.Observe("oracle", "set_price", err)
		if err != nil {
			render.Err(w, err)
			return
		}

		render.JSON(w, price)
	}
}

func priceHandler(oracle core.IOracleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var query param.PriceQuery
		if err := param.Binding(r, &query); err != nil {
			render.BadRequest(w, err)
			return
		}

		rate, err := oracle.Price(r.Context(), time.Now(), query.Sell, query.Buy)
		if err != nil {
			render.Err(w, err)
			return
		}

		render.JSON(w, render.H{"rate": rate})
	}
}

func oracleConfigHandler(oracle core.IOracleService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, oracle.Config())
	}
}
