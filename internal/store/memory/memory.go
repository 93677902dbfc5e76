// Package memory is an in-process UserStore for development and tests.
// It enforces the same (email, provider) uniqueness constraint as the
// Postgres adapter so resolver behavior matches across backends.
package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yoocash/idbroker/internal/store"
)

type Store struct {
	mu    sync.RWMutex
	users []store.User
	roles map[string]store.Role // keyed by role type
}

func New() *Store {
	return &Store{
		roles: map[string]store.Role{
			"authenticated": {ID: uuid.NewString(), Name: "Authenticated", Type: "authenticated"},
		},
	}
}

// SeedRole registers a role under its type, replacing any previous one.
func (s *Store) SeedRole(r store.Role) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.roles[r.Type] = r
}

// SeedUser inserts a record directly, bypassing the uniqueness check.
func (s *Store) SeedUser(u store.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	s.users = append(s.users, u)
}

func (s *Store) FindUsersByEmail(_ context.Context, email string) ([]store.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []store.User
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *Store) CreateUser(_ context.Context, nu store.NewUser) (*store.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, nu.Email) && u.Provider == nu.Provider {
			return nil, store.ErrDuplicate
		}
	}
	u := store.User{
		ID:             uuid.NewString(),
		Username:       nu.Username,
		Email:          nu.Email,
		DisplayName:    nu.DisplayName,
		AvatarURL:      nu.AvatarURL,
		Provider:       nu.Provider,
		ProviderUserID: nu.ProviderUserID,
		RoleID:         nu.RoleID,
		Confirmed:      nu.Confirmed,
		CreatedAt:      time.Now().UTC(),
	}
	s.users = append(s.users, u)
	return &u, nil
}

func (s *Store) FindDefaultRole(_ context.Context, roleType string) (*store.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.roles[roleType]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &r, nil
}

// Users returns a snapshot of all records, for tests.
func (s *Store) Users() []store.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]store.User, len(s.users))
	copy(out, s.users)
	return out
}
