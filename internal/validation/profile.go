// Package validation checks normalized profiles before they reach the
// account resolver.
package validation

import (
	"errors"

	"github.com/yoocash/idbroker/internal/providers"
)

// ErrEmailMissing indicates the provider returned a profile with no
// usable email address. Resolution cannot proceed without one.
var ErrEmailMissing = errors.New("email was not available")

// ValidateProfile enforces the minimum shape a profile must have before
// account resolution: a non-empty email. Every other field is optional;
// most providers expose no stable user id beyond what the adapter folds
// into the username. Adapters that cannot supply a real email are
// expected to synthesize a placeholder, so an empty email here means the
// provider call genuinely had nothing.
func ValidateProfile(p *providers.Profile) error {
	if p == nil {
		return errors.New("profile is nil")
	}
	if p.Email == "" {
		return ErrEmailMissing
	}
	return nil
}
