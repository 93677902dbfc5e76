// Package providers defines the provider-adapter layer of the identity broker.
//
// Each third-party identity service (Google, GitHub, Apple, ...) gets one
// adapter in a sub-package. All adapters map their provider's profile
// response onto the same canonical Profile shape so the account resolver
// never sees provider-specific fields.
//
// Architecture:
// - Provider interface: the single capability every adapter implements
// - Registry: name → adapter lookup, fixed at process start
// - Adapter implementations: one sub-package per provider
package providers

import (
	"context"
	"fmt"
)

// Credential is the opaque credential bundle supplied by the caller.
// It is immutable and never persisted.
type Credential struct {
	// AccessToken is the provider-issued token (or authorization code for
	// providers that decode a signed token locally, e.g. Apple).
	AccessToken string

	// Secret is the OAuth1-style token secret (Twitter only).
	Secret string

	// Params carries provider-specific extras from the inbound request,
	// e.g. "raw[user_id]", "raw[email]", "firstName", "useBundleId".
	Params map[string]string
}

// Param returns a provider-specific extra, or "" when absent.
func (c Credential) Param(key string) string {
	if c.Params == nil {
		return ""
	}
	return c.Params[key]
}

// Config carries the per-provider key material loaded from the settings
// store. It is re-fetched on every request (config may rotate); adapters
// must not retain it between calls.
type Config struct {
	ProviderID   string
	ClientKey    string
	ClientSecret string
	Extra        map[string]string
}

// ExtraValue returns a provider-specific config value, or "" when absent.
func (c Config) ExtraValue(key string) string {
	if c.Extra == nil {
		return ""
	}
	return c.Extra[key]
}

// Profile is the canonical, provider-agnostic identity record produced
// fresh per request. Email is required downstream; everything else is
// optional.
type Profile struct {
	Username       string
	Email          string
	DisplayName    string
	AvatarURL      string
	ProviderUserID string
}

// Provider adapts one third-party identity service to the canonical
// profile shape.
type Provider interface {
	// Name returns the provider identifier (e.g. "google", "github").
	Name() string

	// FetchProfile converts a credential into a canonical profile by
	// calling the provider's identity endpoint. Providers whose primary
	// endpoint omits email may make one secondary call. Transport and
	// non-2xx failures surface as *CallError; providers that verify a
	// signed token locally return ErrInvalidToken on signature or claim
	// mismatch.
	FetchProfile(ctx context.Context, cred Credential, cfg Config) (*Profile, error)
}

// CallError reports a transport or non-2xx failure talking to a provider.
// This layer never retries; retry policy belongs to the caller's transport.
type CallError struct {
	Provider string
	Err      error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *CallError) Unwrap() error { return e.Err }

// NewCallError wraps err as a CallError for the given provider.
func NewCallError(provider string, err error) *CallError {
	return &CallError{Provider: provider, Err: err}
}
