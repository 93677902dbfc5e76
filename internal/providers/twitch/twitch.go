// Package twitch implements the Twitch identity adapter.
//
// The Helix API authenticates with a bearer token plus the application
// Client-ID header; the email field requires the user:read:email scope.
package twitch

import (
	"context"
	"errors"
	"net/http"

	"github.com/yoocash/idbroker/internal/providers"
)

const ProviderName = "twitch"

const usersEndpoint = "https://api.twitch.tv/helix/users"

type Provider struct {
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

type users struct {
	Data []struct {
		Login string `json:"login"`
		Email string `json:"email"`
	} `json:"data"`
}

func (p *Provider) FetchProfile(ctx context.Context, cred providers.Credential, cfg providers.Config) (*providers.Profile, error) {
	endpoint := usersEndpoint
	if p.BaseURL != "" {
		endpoint = p.BaseURL + "/helix/users"
	}
	req, err := providers.NewJSONRequest(ctx, http.MethodGet, endpoint)
	if err != nil {
		return nil, providers.NewCallError(ProviderName, err)
	}
	req.Header.Set("Authorization", "Bearer "+cred.AccessToken)
	req.Header.Set("Client-ID", cfg.ClientKey)

	var body users
	if err := providers.DoJSON(p.http, ProviderName, req, &body); err != nil {
		return nil, err
	}
	if len(body.Data) == 0 {
		return nil, providers.NewCallError(ProviderName, errors.New("helix/users returned no records"))
	}
	return &providers.Profile{
		Username: body.Data[0].Login,
		Email:    body.Data[0].Email,
	}, nil
}
