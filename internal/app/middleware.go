package app

import (
	"net/http"

	"github.com/backofhouse/backofhouse/internal/config"
	"github.com/backofhouse/backofhouse/pkg/settings"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// SetupMiddleware wires all HTTP middlewares for the application.
func SetupMiddleware(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Resolve the company timezone once per request and propagate it through
	// the context, so every handler in the chain interprets wall-clock values
	// against the same zone even if settings change mid-flight.
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := req.Context()

			loc, err := deps.SettingsService.Timezone(ctx)
			if err != nil {
				log.Errorf("failed to resolve company timezone: %v", err)
				http.Error(w, "company timezone is misconfigured", http.StatusInternalServerError)
				return
			}
			ctx = settings.WithTimezone(ctx, loc)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
}
