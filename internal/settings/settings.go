// Package settings defines the plugin-configuration collaborator: provider
// key material and tenant-wide policy flags. Both are re-fetched on every
// resolution attempt, optionally behind a short-TTL cache, so rotated
// config takes effect without a restart.
package settings

import (
	"context"
	"errors"

	"github.com/yoocash/idbroker/internal/providers"
)

// ErrNotConfigured is returned when a provider has no config entry.
var ErrNotConfigured = errors.New("provider not configured")

// Advanced are the tenant-wide policy flags consumed by the account
// resolver.
type Advanced struct {
	// AllowRegister gates creation of accounts for providers the user has
	// not logged in with before.
	AllowRegister bool `yaml:"allow_register" json:"allow_register"`

	// UniqueEmail rejects logins whose email already belongs to an
	// account under a different provider.
	UniqueEmail bool `yaml:"unique_email" json:"unique_email"`

	// DefaultRole is the role type assigned to newly created accounts.
	DefaultRole string `yaml:"default_role" json:"default_role"`
}

// Store is the read-only configuration collaborator.
type Store interface {
	// ProviderConfig returns the key material for one provider.
	// ErrNotConfigured when the provider has no entry.
	ProviderConfig(ctx context.Context, providerID string) (*providers.Config, error)

	// AdvancedSettings returns the current policy flags.
	AdvancedSettings(ctx context.Context) (*Advanced, error)
}
