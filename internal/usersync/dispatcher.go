// Package usersync applies verified Clerk webhook events to the local user store.
package usersync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/focusnest/user-sync/internal/user"
	"github.com/focusnest/user-sync/internal/webhook"
)

// Action is what the dispatcher did with an event.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
	// ActionMissed means the event targeted a user the store does not hold, e.g. an update
	// that arrived before its create. It is not a failure.
	ActionMissed Action = "missed"
	// ActionIgnored means the event type is not handled; it is acknowledged as a no-op.
	ActionIgnored Action = "ignored"
)

// MirrorStatus reports the best-effort metadata mirror that follows a create.
type MirrorStatus string

const (
	MirrorNotApplicable MirrorStatus = ""
	MirrorSkipped       MirrorStatus = "skipped"
	MirrorSucceeded     MirrorStatus = "succeeded"
	MirrorFailed        MirrorStatus = "failed"
)

// MetadataMirror writes the local internal id back to the identity provider.
type MetadataMirror interface {
	UpdatePublicMetadata(ctx context.Context, clerkUserID string, metadata map[string]any) error
}

// Outcome is the result of a successfully dispatched event. A failed mirror leaves the
// primary operation successful; MirrorErr carries the cause for observability only.
type Outcome struct {
	EventType webhook.EventType
	Action    Action
	User      *user.User
	Mirror    MirrorStatus
	MirrorErr error
}

// Dispatcher routes events by type to store operations.
type Dispatcher struct {
	store  user.Store
	mirror MetadataMirror
	logger *slog.Logger
}

// NewDispatcher creates a Dispatcher. mirror may be nil, in which case the mirror step is skipped.
func NewDispatcher(store user.Store, mirror MetadataMirror, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{store: store, mirror: mirror, logger: logger}
}

// Dispatch applies evt. Errors are either webhook.ErrMalformedEvent (the payload cannot be
// decoded) or store failures wrapping user.ErrStorageUnavailable. Nothing is retried.
func (d *Dispatcher) Dispatch(ctx context.Context, evt webhook.Event) (Outcome, error) {
	logger := d.logger.With(slog.String("eventType", string(evt.Type)), slog.String("svixId", evt.MessageID))

	switch evt.Type {
	case webhook.EventUserCreated:
		return d.created(ctx, evt, logger)
	case webhook.EventUserUpdated:
		return d.updated(ctx, evt, logger)
	case webhook.EventUserDeleted:
		return d.deleted(ctx, evt, logger)
	default:
		logger.Info("ignoring unhandled event type")
		return Outcome{EventType: evt.Type, Action: ActionIgnored}, nil
	}
}

func (d *Dispatcher) created(ctx context.Context, evt webhook.Event, logger *slog.Logger) (Outcome, error) {
	data, err := evt.UserData()
	if err != nil {
		return Outcome{}, err
	}

	u, err := d.store.CreateOrGet(ctx, webhook.NormalizeCreate(data))
	if err != nil {
		return Outcome{}, fmt.Errorf("create user %s: %w", data.ID, err)
	}
	logger.Info("user synced", slog.String("clerkId", u.ClerkID), slog.String("userId", u.ID))

	out := Outcome{EventType: evt.Type, Action: ActionCreated, User: &u}
	out.Mirror, out.MirrorErr = d.mirrorUserID(ctx, u)
	if out.MirrorErr != nil {
		logger.Warn("metadata mirror failed",
			slog.String("clerkId", u.ClerkID),
			slog.String("userId", u.ID),
			slog.Any("error", out.MirrorErr),
		)
	}
	return out, nil
}

func (d *Dispatcher) mirrorUserID(ctx context.Context, u user.User) (MirrorStatus, error) {
	if d.mirror == nil {
		return MirrorSkipped, nil
	}
	if err := d.mirror.UpdatePublicMetadata(ctx, u.ClerkID, map[string]any{"userId": u.ID}); err != nil {
		return MirrorFailed, err
	}
	return MirrorSucceeded, nil
}

func (d *Dispatcher) updated(ctx context.Context, evt webhook.Event, logger *slog.Logger) (Outcome, error) {
	data, err := evt.UserData()
	if err != nil {
		return Outcome{}, err
	}

	u, err := d.store.Update(ctx, data.ID, webhook.NormalizeUpdate(data))
	if errors.Is(err, user.ErrNotFound) {
		logger.Info("update for unknown user", slog.String("clerkId", data.ID))
		return Outcome{EventType: evt.Type, Action: ActionMissed}, nil
	}
	if err != nil {
		return Outcome{}, fmt.Errorf("update user %s: %w", data.ID, err)
	}
	return Outcome{EventType: evt.Type, Action: ActionUpdated, User: &u}, nil
}

func (d *Dispatcher) deleted(ctx context.Context, evt webhook.Event, logger *slog.Logger) (Outcome, error) {
	data, err := evt.DeletedData()
	if err != nil {
		return Outcome{}, err
	}

	u, err := d.store.Delete(ctx, data.ID)
	if errors.Is(err, user.ErrNotFound) {
		logger.Info("delete for unknown user", slog.String("clerkId", data.ID))
		return Outcome{EventType: evt.Type, Action: ActionMissed}, nil
	}
	if err != nil {
		return Outcome{}, fmt.Errorf("delete user %s: %w", data.ID, err)
	}
	return Outcome{EventType: evt.Type, Action: ActionDeleted, User: &u}, nil
}
