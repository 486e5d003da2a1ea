package user

import (
	"context"
	"sync"
)

type memoryStore struct {
	mu    sync.RWMutex
	users map[string]User // clerkID -> User
	ids   IDGenerator
	clock Clock
}

// NewMemoryStore returns an in-memory Store intended for local development and tests.
func NewMemoryStore(ids IDGenerator, clock Clock) Store {
	return &memoryStore{
		users: make(map[string]User),
		ids:   ids,
		clock: clock,
	}
}

func (s *memoryStore) CreateOrGet(_ context.Context, in NewUser) (User, error) {
	if in.ClerkID == "" {
		return User{}, ErrMissingClerkID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.users[in.ClerkID]; ok {
		return existing, nil
	}

	now := s.clock.Now()
	u := User{
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
	s.users[in.ClerkID] = u
	return u, nil
}

func (s *memoryStore) Get(_ context.Context, clerkID string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[clerkID]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (s *memoryStore) Update(_ context.Context, clerkID string, upd Update) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[clerkID]
	if !ok {
		return User{}, ErrNotFound
	}

	upd.apply(&u)
	u.UpdatedAt = s.clock.Now()
	s.users[clerkID] = u
	return u, nil
}

func (s *memoryStore) Delete(_ context.Context, clerkID string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[clerkID]
	if !ok {
		return User{}, ErrNotFound
	}
	delete(s.users, clerkID)
	return u, nil
}

func (s *memoryStore) Ping(context.Context) error {
	return nil
}
