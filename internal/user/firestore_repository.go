package user

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const usersCollection = "users"

// Documents are keyed by Clerk id so Firestore itself enforces one record per account.
type firestoreStore struct {
	client *firestore.Client
	ids    IDGenerator
	clock  Clock
}

// NewFirestoreStore instantiates a Firestore-backed Store.
func NewFirestoreStore(client *firestore.Client, ids IDGenerator, clock Clock) Store {
	return &firestoreStore{client: client, ids: ids, clock: clock}
}

func (s *firestoreStore) doc(clerkID string) *firestore.DocumentRef {
	return s.client.Collection(usersCollection).Doc(clerkID)
}

func (s *firestoreStore) CreateOrGet(ctx context.Context, in NewUser) (User, error) {
	if in.ClerkID == "" {
		return User{}, ErrMissingClerkID
	}

	ref := s.doc(in.ClerkID)
	var out User

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err == nil {
			return snap.DataTo(&out)
		}
		if status.Code(err) != codes.NotFound {
			return err
		}

		now := s.clock.Now()
		out = User{
			ID:        s.ids.NewID(),
			ClerkID:   in.ClerkID,
			Email:     in.Email,
			Username:  in.Username,
			FirstName: in.FirstName,
			LastName:  in.LastName,
			Photo:     in.Photo,
			CreatedAt: now,
			UpdatedAt: now,
		}
		// Create fails if a concurrent transaction inserted the document first; the
		// transaction is then retried and takes the read branch above.
		return tx.Create(ref, out)
	})
	if err != nil {
		return User{}, unavailable("create user", err)
	}
	return out, nil
}

func (s *firestoreStore) Get(ctx context.Context, clerkID string) (User, error) {
	if clerkID == "" {
		return User{}, ErrNotFound
	}

	snap, err := s.doc(clerkID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, unavailable("get user", err)
	}

	var u User
	if err := snap.DataTo(&u); err != nil {
		return User{}, unavailable("get user", fmt.Errorf("decode user %s: %w", clerkID, err))
	}
	return u, nil
}

func (s *firestoreStore) Update(ctx context.Context, clerkID string, upd Update) (User, error) {
	if clerkID == "" {
		return User{}, ErrNotFound
	}

	ref := s.doc(clerkID)
	var out User

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if status.Code(err) == codes.NotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if err := snap.DataTo(&out); err != nil {
			return fmt.Errorf("decode user %s: %w", clerkID, err)
		}

		upd.apply(&out)
		out.UpdatedAt = s.clock.Now()
		return tx.Update(ref, firestoreUpdates(upd, out.UpdatedAt))
	})
	if errors.Is(err, ErrNotFound) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, unavailable("update user", err)
	}
	return out, nil
}

func (s *firestoreStore) Delete(ctx context.Context, clerkID string) (User, error) {
	if clerkID == "" {
		return User{}, ErrNotFound
	}

	ref := s.doc(clerkID)
	var out User

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if status.Code(err) == codes.NotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if err := snap.DataTo(&out); err != nil {
			return fmt.Errorf("decode user %s: %w", clerkID, err)
		}
		return tx.Delete(ref)
	})
	if errors.Is(err, ErrNotFound) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, unavailable("delete user", err)
	}
	return out, nil
}

// Ping reads a document that need not exist; NotFound still proves the backend answered.
func (s *firestoreStore) Ping(ctx context.Context) error {
	_, err := s.client.Collection(usersCollection).Doc("_ping").Get(ctx)
	if err == nil || status.Code(err) == codes.NotFound {
		return nil
	}
	return unavailable("ping firestore", err)
}

func firestoreUpdates(upd Update, updatedAt any) []firestore.Update {
	updates := []firestore.Update{{Path: "updated_at", Value: updatedAt}}
	if upd.Email != nil {
		updates = append(updates, firestore.Update{Path: "email", Value: *upd.Email})
	}
	if upd.Username != nil {
		updates = append(updates, firestore.Update{Path: "username", Value: *upd.Username})
	}
	if upd.FirstName != nil {
		updates = append(updates, firestore.Update{Path: "first_name", Value: *upd.FirstName})
	}
	if upd.LastName != nil {
		updates = append(updates, firestore.Update{Path: "last_name", Value: *upd.LastName})
	}
	if upd.Photo != nil {
		updates = append(updates, firestore.Update{Path: "photo", Value: *upd.Photo})
	}
	return updates
}
