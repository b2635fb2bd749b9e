package rest

import (
	"errors"
	"net/http"

	"lendex/core"
	"lendex/handler/render"

	"github.com/go-chi/chi"
)

// Handle handle rest api request
func Handle(
	oracle core.IOracleService,
	agency core.IAgencyService,
	markets core.IMarketService,
	transfers core.ITransferStore,
) http.Handler {
	router := chi.NewRouter()

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.NotFoundRequest(w, errors.New("not found"))
	})

	router.Route("/oracle", func(r chi.Router) {
		r.Post("/execute", oracleExecuteHandler(oracle))
		r.Get("/price", priceHandler(oracle))
		r.Get("/config", oracleConfigHandler(oracle))
	})

	router.Route("/agency", func(r chi.Router) {
		r.Post("/execute", agencyExecuteHandler(agency))
		r.Get("/config", agencyConfigHandler(agency))
		r.Get("/market", agencyMarketHandler(agency))
		r.Get("/markets", listMarketsHandler(agency))
		r.Get("/credit-line", agencyCreditLineHandler(agency))
		r.Get("/total-credit-line", totalCreditLineHandler(agency))
	})

	router.Route("/markets/{asset}", func(r chi.Router) {
		r.Post("/execute", marketExecuteHandler(markets))
		r.Get("/tokens-balance", tokensBalanceHandler(markets))
		r.Get("/credit-line", marketCreditLineHandler(markets))
		r.Get("/withdrawable", amountHandler(markets.Withdrawable))
		r.Get("/borrowable", amountHandler(markets.Borrowable))
		r.Get("/interest", interestHandler(markets))
		r.Get("/reserve", reserveHandler(markets))
		r.Get("/configuration", configurationHandler(markets))
	})

	router.Get("/transfers", transfersHandler(transfers))

	return router
}
