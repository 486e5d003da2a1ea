package user

import (
	"context"
	"time"
)

// User is the local copy of a Clerk account. ClerkID is the correlation key with the identity
// provider; ID is assigned by the store on first insert.
type User struct {
	ID        string    `json:"_id" firestore:"id"`
	ClerkID   string    `json:"clerkId" firestore:"clerk_id"`
	Email     string    `json:"email" firestore:"email"`
	Username  string    `json:"username" firestore:"username"`
	FirstName string    `json:"firstName" firestore:"first_name"`
	LastName  string    `json:"lastName" firestore:"last_name"`
	Photo     string    `json:"photo" firestore:"photo"`
	CreatedAt time.Time `json:"createdAt" firestore:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" firestore:"updated_at"`
}

// NewUser holds the fields written when a user is first inserted.
type NewUser struct {
	ClerkID   string
	Email     string
	Username  string
	FirstName string
	LastName  string
	Photo     string
}

// Update is a partial update; nil fields are left untouched.
type Update struct {
	Email     *string
	Username  *string
	FirstName *string
	LastName  *string
	Photo     *string
}

// apply copies the set fields onto usr.
func (u Update) apply(usr *User) {
	if u.Email != nil {
		usr.Email = *u.Email
	}
	if u.Username != nil {
		usr.Username = *u.Username
	}
	if u.FirstName != nil {
		usr.FirstName = *u.FirstName
	}
	if u.LastName != nil {
		usr.LastName = *u.LastName
	}
	if u.Photo != nil {
		usr.Photo = *u.Photo
	}
}

// Store persists users keyed by Clerk id.
//
// CreateOrGet inserts the user if no record with the same ClerkID exists and otherwise returns
// the existing record unchanged. It is atomic per ClerkID. Update and Delete return ErrNotFound
// when no record matches. Any other failure wraps ErrStorageUnavailable.
type Store interface {
	CreateOrGet(ctx context.Context, in NewUser) (User, error)
	Get(ctx context.Context, clerkID string) (User, error)
	Update(ctx context.Context, clerkID string, upd Update) (User, error)
	Delete(ctx context.Context, clerkID string) (User, error)
	Ping(ctx context.Context) error
}

// IDGenerator produces store-assigned internal ids.
type IDGenerator interface {
	NewID() string
}

// Clock abstracts time for deterministic tests.
type Clock interface {
	Now() time.Time
}
