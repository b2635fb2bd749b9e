package hc

import (
	"context"
	"net/http"
	"time"

	"lendex/handler/render"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
)

// Pinger reports whether the storage backend is reachable
type Pinger func(ctx context.Context) error

// Handle health check: uptime, version and backend status
func Handle(version, backend string, ping Pinger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.NoCache)
	r.Handle("/", handle(version, backend, ping))
	return r
}

func handle(version, backend string, ping Pinger) http.HandlerFunc {
	b := time.Now()
	return func(w http.ResponseWriter, r *http.Request) {
		resp := render.H{
			"uptime":  time.Since(b).Truncate(time.Millisecond).String(),
			"version": version,
			"backend": backend,
		}

		if ping != nil {
			ctx, cancel := context.WithTimeout(r.Context(), time.Second)
			defer cancel()

			if err := ping(ctx); err != nil {
				resp["error"] = err.Error()
				render.Status(w, http.StatusServiceUnavailable, resp)
				return
			}
		}

		render.JSON(w, resp)
	}
}
