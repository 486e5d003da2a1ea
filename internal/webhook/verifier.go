package webhook

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	svix "github.com/svix/svix-webhooks/go"
)

// Svix header names carried by every Clerk webhook delivery.
const (
	HeaderID        = "svix-id"
	HeaderTimestamp = "svix-timestamp"
	HeaderSignature = "svix-signature"
)

var (
	// ErrMissingHeaders is returned when any of the three signature headers is absent.
	ErrMissingHeaders = errors.New("missing svix headers")
	// ErrInvalidSignature is returned when the signature does not match or the timestamp is outside tolerance.
	ErrInvalidSignature = errors.New("invalid signature")
	// ErrMalformedEvent is returned when an authentic body is not a usable event envelope.
	ErrMalformedEvent = errors.New("malformed event")
)

// Headers are the signature headers of a single delivery.
type Headers struct {
	ID        string
	Timestamp string
	Signature string
}

// HeadersFromRequest extracts the signature headers from an inbound request.
func HeadersFromRequest(h http.Header) Headers {
	return Headers{
		ID:        strings.TrimSpace(h.Get(HeaderID)),
		Timestamp: strings.TrimSpace(h.Get(HeaderTimestamp)),
		Signature: strings.TrimSpace(h.Get(HeaderSignature)),
	}
}

func (h Headers) complete() bool {
	return h.ID != "" && h.Timestamp != "" && h.Signature != ""
}

func (h Headers) httpHeader() http.Header {
	out := make(http.Header, 3)
	out.Set(HeaderID, h.ID)
	out.Set(HeaderTimestamp, h.Timestamp)
	out.Set(HeaderSignature, h.Signature)
	return out
}

// Verifier authenticates webhook deliveries with the endpoint signing secret.
// It is safe for concurrent use and is meant to be built once at startup.
type Verifier struct {
	wh *svix.Webhook
}

// NewVerifier builds a Verifier from a Svix signing secret ("whsec_..." base64).
func NewVerifier(secret string) (*Verifier, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, errors.New("webhook secret is required")
	}
	wh, err := svix.NewWebhook(secret)
	if err != nil {
		return nil, fmt.Errorf("parse webhook secret: %w", err)
	}
	return &Verifier{wh: wh}, nil
}

// Verify checks body against the headers and decodes the event envelope.
// body must be the exact bytes received.
func (v *Verifier) Verify(body []byte, h Headers) (Event, error) {
	if !h.complete() {
		return Event{}, ErrMissingHeaders
	}
	if err := v.wh.Verify(body, h.httpHeader()); err != nil {
		return Event{}, fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}

	var evt Event
	if err := json.Unmarshal(body, &evt); err != nil {
		return Event{}, fmt.Errorf("%w: %w", ErrMalformedEvent, err)
	}
	if evt.Type == "" {
		return Event{}, fmt.Errorf("%w: event type is empty", ErrMalformedEvent)
	}
	evt.MessageID = h.ID
	return evt, nil
}
