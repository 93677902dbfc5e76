// Package github implements the GitHub identity adapter.
//
// GitHub profiles may hide the public email, in which case a second call to
// /user/emails is needed to pick the address flagged primary.
package github

import (
	"context"
	"net/http"

	"github.com/yoocash/idbroker/internal/providers"
)

const ProviderName = "github"

const (
	userEndpoint   = "https://api.github.com/user"
	emailsEndpoint = "https://api.github.com/user/emails"
)

// Provider fetches the GitHub user profile, falling back to the emails API
// when the profile email is private.
type Provider struct {
	// BaseURL overrides the api.github.com origin, for tests.
	BaseURL string

	http *http.Client
}

func New(hc *http.Client) *Provider {
	if hc == nil {
		hc = providers.DefaultHTTPClient()
	}
	return &Provider{http: hc}
}

func (p *Provider) Name() string { return ProviderName }

type userInfo struct {
	Login string `json:"login"`
	Email string `json:"email"`
}

type emailInfo struct {
	Email   string `json:"email"`
	Primary bool   `json:"primary"`
}

func (p *Provider) FetchProfile(ctx context.Context, cred providers.Credential, _ providers.Config) (*providers.Profile, error) {
	var ui userInfo
	if err := p.get(ctx, p.url(userEndpoint), cred.AccessToken, &ui); err != nil {
		return nil, err
	}

	// Public email on the profile: no secondary call needed.
	if ui.Email != "" {
		return &providers.Profile{Username: ui.Login, Email: ui.Email}, nil
	}

	var emails []emailInfo
	if err := p.get(ctx, p.url(emailsEndpoint), cred.AccessToken, &emails); err != nil {
		return nil, err
	}

	// Only the entry flagged primary counts. If none is flagged, the email
	// stays empty and profile validation rejects the login downstream.
	email := ""
	for _, e := range emails {
		if e.Primary {
			email = e.Email
			break
		}
	}
	return &providers.Profile{Username: ui.Login, Email: email}, nil
}

func (p *Provider) url(endpoint string) string {
	if p.BaseURL == "" {
		return endpoint
	}
	switch endpoint {
	case userEndpoint:
		return p.BaseURL + "/user"
	default:
		return p.BaseURL + "/user/emails"
	}
}

func (p *Provider) get(ctx context.Context, url, token string, out any) error {
	req, err := providers.NewJSONRequest(ctx, http.MethodGet, url)
	if err != nil {
		return providers.NewCallError(ProviderName, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	// GitHub rejects requests without a User-Agent.
	req.Header.Set("User-Agent", "idbroker")
	return providers.DoJSON(p.http, ProviderName, req, out)
}
