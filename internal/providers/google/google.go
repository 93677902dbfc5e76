// Package google implements the Google identity adapter.
package google

import (
	"context"
	"net/http"

	"github.com/yoocash/idbroker/internal/providers"
)

const ProviderName = "google"

const userinfoEndpoint = "https://www.googleapis.com/oauth2/v2/userinfo"

// Provider fetches the Google userinfo profile with a bearer token.
// Usernames are prefixed "gg" + Google user id so they never collide with
// other providers' usernames.
type Provider struct {
	// BaseURL overrides the userinfo endpoint, for tests.
	BaseURL string

	http *http.Client
}

// New creates the Google adapter. A nil client gets the default 10s-timeout
// client.
func New(hc *http.Client) *Provider {
	if hc == nil {
		hc = providers.DefaultHTTPClient()
	}
	return &Provider{http: hc}
}

func (p *Provider) Name() string { return ProviderName }

type userinfo struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Picture    string `json:"picture"`
}

func (p *Provider) FetchProfile(ctx context.Context, cred providers.Credential, _ providers.Config) (*providers.Profile, error) {
	url := userinfoEndpoint
	if p.BaseURL != "" {
		url = p.BaseURL
	}
	req, err := providers.NewJSONRequest(ctx, http.MethodGet, url)
	if err != nil {
		return nil, providers.NewCallError(ProviderName, err)
	}
	req.Header.Set("Authorization", "Bearer "+cred.AccessToken)

	var ui userinfo
	if err := providers.DoJSON(p.http, ProviderName, req, &ui); err != nil {
		return nil, err
	}

	uid := "gg" + ui.ID
	return &providers.Profile{
		Username:       uid,
		Email:          ui.Email,
		DisplayName:    ui.GivenName + " " + ui.FamilyName,
		AvatarURL:      ui.Picture,
		ProviderUserID: ui.ID,
	}, nil
}
