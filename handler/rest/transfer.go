package rest

import (
	"net/http"

	"lendex/core"
	"lendex/handler/param"
	"lendex/handler/render"
)

func transfersHandler(transfers core.ITransferStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var query param.PaginationQuery
		if err := param.Binding(r, &query); err != nil {
			render.BadRequest(w, err)
			return
		}

		if query.Limit <= 0 || query.Limit > 100 {
			query.Limit = 100
		}

		items, err := transfers.List(r.Context(), query.Offset, query.Limit)
		if err != nil {
			render.Err(w, err)
			return
		}

		render.JSON(w, render.H{"transfers": items})
	}
}
