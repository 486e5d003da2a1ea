package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/focusnest/user-sync/internal/platform/apierror"
	"github.com/focusnest/user-sync/internal/platform/auth"
	"github.com/focusnest/user-sync/internal/user"
)

const serviceTimeout = 8 * time.Second

// RegisterUserRoutes registers read endpoints over the synced users. The router must
// already carry the auth middleware.
func RegisterUserRoutes(r chi.Router, store user.Store, logger *slog.Logger) {
	r.Get("/v1/users/me", getMe(store, logger))
}

func getMe(store user.Store, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := auth.UserFromContext(r.Context())
		if !ok || caller.UserID == "" {
			writeError(w, r, apierror.CodeUnauthorized, "missing user")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), serviceTimeout)
		defer cancel()

		u, err := store.Get(ctx, caller.UserID)
		if errors.Is(err, user.ErrNotFound) {
			writeError(w, r, apierror.CodeNotFound, "user not synced yet")
			return
		}
		if err != nil {
			logRequestError(r.Context(), logger, "failed to load user", err, slog.String("clerkId", caller.UserID))
			writeError(w, r, apierror.CodeStorageUnavailable, "failed to load user")
			return
		}
		writeJSON(w, http.StatusOK, u)
	}
}
