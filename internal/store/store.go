// Package store defines the user-store collaborator the broker resolves
// accounts against. The broker only reads (lookup by email, default role)
// and writes (create); it never mutates a record in place.
package store

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned by Create when the backend enforces a
	// uniqueness constraint on (email, provider) and it fires.
	ErrDuplicate = errors.New("duplicate")
)

// User is the external account record. Provider always equals the provider
// that authenticated the request that created the record.
type User struct {
	ID             string
	Username       string
	Email          string
	DisplayName    string
	AvatarURL      string
	Provider       string
	ProviderUserID string
	RoleID         string
	Confirmed      bool
	CreatedAt      time.Time
}

// NewUser holds the fields for a create. The store assigns ID and CreatedAt.
type NewUser struct {
	Username       string
	Email          string
	DisplayName    string
	AvatarURL      string
	Provider       string
	ProviderUserID string
	RoleID         string
	Confirmed      bool
}

// Role is a role record; the broker only resolves the configured default
// role type to its id when creating a user.
type Role struct {
	ID   string
	Name string
	Type string
}

// UserStore is the opaque storage collaborator. Implementations provide
// their own consistency guarantees; the broker adds no locking.
type UserStore interface {
	// FindUsersByEmail returns every record with the given email; zero,
	// one or many (multiple providers may share an email).
	FindUsersByEmail(ctx context.Context, email string) ([]User, error)

	// CreateUser persists a new record atomically and returns it.
	CreateUser(ctx context.Context, nu NewUser) (*User, error)

	// FindDefaultRole resolves a role type (e.g. "authenticated") to the
	// role record. ErrNotFound when no such role exists.
	FindDefaultRole(ctx context.Context, roleType string) (*Role, error)
}
