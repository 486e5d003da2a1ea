package logging

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5/middleware"
)

// NewLogger returns a slog logger writing JSON to stdout, tagged with the service name.
func NewLogger(service string) *slog.Logger {
	return New(os.Stdout, service)
}

// New returns a JSON slog logger writing to w. Tests pass io.Discard.
func New(w io.Writer, service string) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{AddSource: true})
	return slog.New(handler).With(slog.String("service", service))
}

// FromRequest attaches the chi request id, when present, to the logger.
func FromRequest(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if reqID := middleware.GetReqID(ctx); reqID != "" {
		return logger.With(slog.String("requestId", reqID))
	}
	return logger
}
