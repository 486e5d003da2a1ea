package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/focusnest/user-sync/internal/platform/dto"
	"github.com/focusnest/user-sync/internal/user"
)

const pingTimeout = 5 * time.Second

// RegisterHealthRoutes registers the store connectivity check.
func RegisterHealthRoutes(r chi.Router, store user.Store, dataStore string, logger *slog.Logger) {
	r.Get("/v1/healthz/db", storeHealth(store, dataStore, logger))
}

func storeHealth(store user.Store, dataStore string, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
		defer cancel()

		resp := dto.StoreHealthResponse{
			DataStore: dataStore,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		}

		if err := store.Ping(ctx); err != nil {
			logRequestError(r.Context(), logger, "store ping failed", err, slog.String("dataStore", dataStore))
			resp.Error = "database connection failed"
			resp.Details = err.Error()
			writeJSON(w, http.StatusInternalServerError, resp)
			return
		}

		resp.Success = true
		resp.Message = "database connected"
		writeJSON(w, http.StatusOK, resp)
	}
}
