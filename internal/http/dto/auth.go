// Package dto holds the request/response shapes of the public API.
package dto

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/yoocash/idbroker/internal/store"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// CallbackRequest is the JSON body of a provider callback. Which
// credential field is set depends on the provider's protocol; exactly
// one family must be present.
type CallbackRequest struct {
	AccessToken      string `json:"access_token" validate:"required_without_all=Code OAuthToken"`
	Code             string `json:"code" validate:"required_without_all=AccessToken OAuthToken"`
	OAuthToken       string `json:"oauth_token" validate:"required_without_all=AccessToken Code"`
	OAuthTokenSecret string `json:"oauth_token_secret" validate:"required_with=OAuthToken,omitempty"`

	// Provider-specific callback extras.
	OpenID      string            `json:"openid,omitempty"`
	FirstName   string            `json:"firstName,omitempty"`
	LastName    string            `json:"lastName,omitempty"`
	UseBundleID string            `json:"useBundleId,omitempty"`
	Raw         map[string]string `json:"raw,omitempty" validate:"omitempty,dive,keys,max=64,endkeys,max=4096"`
}

// Validate checks the credential shape.
func (r *CallbackRequest) Validate() error {
	return validate.Struct(r)
}

// Params flattens the request into the parameter map the broker
// consumes. Raw entries go in under "raw[key]" the way the redirect
// query carried them.
func (r *CallbackRequest) Params() map[string]string {
	p := make(map[string]string, 8+len(r.Raw))
	put := func(k, v string) {
		if v != "" {
			p[k] = v
		}
	}
	put("access_token", r.AccessToken)
	put("code", r.Code)
	put("oauth_token", r.OAuthToken)
	put("oauth_token_secret", r.OAuthTokenSecret)
	put("openid", r.OpenID)
	put("firstName", r.FirstName)
	put("lastName", r.LastName)
	put("useBundleId", r.UseBundleID)
	for k, v := range r.Raw {
		put("raw["+k+"]", v)
	}
	return p
}

// UserResponse is the public view of an account record.
type UserResponse struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name,omitempty"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	Provider    string    `json:"provider"`
	Confirmed   bool      `json:"confirmed"`
	CreatedAt   time.Time `json:"created_at"`
}

// AuthResponse is the success payload of a callback.
type AuthResponse struct {
	User UserResponse `json:"user"`
	New  bool         `json:"new"`
}

func NewAuthResponse(u *store.User, isNew bool) AuthResponse {
	return AuthResponse{
		User: UserResponse{
			ID:          u.ID,
			Username:    u.Username,
			Email:       u.Email,
			DisplayName: u.DisplayName,
			AvatarURL:   u.AvatarURL,
			Provider:    u.Provider,
			Confirmed:   u.Confirmed,
			CreatedAt:   u.CreatedAt,
		},
		New: isNew,
	}
}

// ProviderEntry is one discovery row: registered provider, whether it
// has a settings entry, and whether that entry carries key material.
type ProviderEntry struct {
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
	Ready   bool   `json:"ready"`
}

// ProvidersResponse lists the registered providers.
type ProvidersResponse struct {
	Providers []ProviderEntry `json:"providers"`
}
