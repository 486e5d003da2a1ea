package httpapi

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/focusnest/user-sync/internal/platform/apierror"
	"github.com/focusnest/user-sync/internal/platform/logging"
	"github.com/focusnest/user-sync/internal/user"
	"github.com/focusnest/user-sync/internal/usersync"
	"github.com/focusnest/user-sync/internal/webhook"
)

const (
	dispatchTimeout = 15 * time.Second
	maxWebhookBody  = 1 << 20
)

// EventVerifier authenticates a raw delivery.
type EventVerifier interface {
	Verify(body []byte, h webhook.Headers) (webhook.Event, error)
}

// EventDispatcher applies a verified event.
type EventDispatcher interface {
	Dispatch(ctx context.Context, evt webhook.Event) (usersync.Outcome, error)
}

type webhookResponse struct {
	OK     bool              `json:"ok"`
	Type   webhook.EventType `json:"type"`
	Action usersync.Action   `json:"action"`
	User   *user.User        `json:"user,omitempty"`
}

// RegisterWebhookRoutes registers the Clerk webhook endpoint.
func RegisterWebhookRoutes(r chi.Router, verifier EventVerifier, dispatcher EventDispatcher, logger *slog.Logger) {
	r.Post("/api/webhooks/clerk", clerkWebhook(verifier, dispatcher, logger))
}

func clerkWebhook(verifier EventVerifier, dispatcher EventDispatcher, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		headers := webhook.HeadersFromRequest(r.Header)

		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
		if err != nil {
			writeError(w, r, apierror.CodeBadRequest, "unable to read request body")
			return
		}

		evt, err := verifier.Verify(body, headers)
		switch {
		case errors.Is(err, webhook.ErrMissingHeaders):
			logging.FromRequest(r.Context(), logger).Warn("webhook rejected: missing svix headers")
			writeError(w, r, apierror.CodeMissingHeaders, "missing svix headers")
			return
		case errors.Is(err, webhook.ErrInvalidSignature):
			logging.FromRequest(r.Context(), logger).Warn("webhook rejected: invalid signature",
				slog.String("svixId", headers.ID), slog.Any("error", err))
			writeError(w, r, apierror.CodeInvalidSignature, "invalid signature")
			return
		case err != nil:
			writeError(w, r, apierror.CodeBadRequest, "malformed event")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), dispatchTimeout)
		defer cancel()

		out, err := dispatcher.Dispatch(ctx, evt)
		if errors.Is(err, webhook.ErrMalformedEvent) {
			writeError(w, r, apierror.CodeBadRequest, "malformed event payload")
			return
		}
		if err != nil {
			logRequestError(r.Context(), logger, "webhook dispatch failed", err,
				slog.String("eventType", string(evt.Type)), slog.String("svixId", evt.MessageID))
			code := apierror.CodeInternal
			if errors.Is(err, user.ErrStorageUnavailable) {
				code = apierror.CodeStorageUnavailable
			}
			writeError(w, r, code, "failed to apply event")
			return
		}

		writeJSON(w, http.StatusOK, webhookResponse{OK: true, Type: out.EventType, Action: out.Action, User: out.User})
	}
}
