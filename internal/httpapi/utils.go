package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/focusnest/user-sync/internal/platform/apierror"
	"github.com/focusnest/user-sync/internal/platform/logging"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, r *http.Request, code, message string) {
	writeJSON(w, apierror.ToStatusCode(code), apierror.ErrorResponse{
		Code:      code,
		Message:   message,
		RequestID: middleware.GetReqID(r.Context()),
	})
}

func logRequestError(ctx context.Context, logger *slog.Logger, message string, err error, attrs ...any) {
	if logger == nil || err == nil {
		return
	}
	attrs = append(attrs, slog.Any("error", err))
	logging.FromRequest(ctx, logger).Error(message, attrs...)
}
