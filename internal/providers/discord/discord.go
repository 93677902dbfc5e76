// Package discord implements the Discord identity adapter.
package discord

import (
	"context"
	"net/http"

	"github.com/yoocash/idbroker/internal/providers"
)

const ProviderName = "discord"

const meEndpoint = "https://discordapp.com/api/users/@me"

// Provider fetches the Discord user. Discord usernames are not unique on
// their own, so the discriminator is appended ("name#1234").
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

type me struct {
	Username      string `json:"username"`
	Discriminator string `json:"discriminator"`
	Email         string `json:"email"`
}

func (p *Provider) FetchProfile(ctx context.Context, cred providers.Credential, _ providers.Config) (*providers.Profile, error) {
	url := meEndpoint
	if p.BaseURL != "" {
		url = p.BaseURL + "/users/@me"
	}
	req, err := providers.NewJSONRequest(ctx, http.MethodGet, url)
	if err != nil {
		return nil, providers.NewCallError(ProviderName, err)
	}
	req.Header.Set("Authorization", "Bearer "+cred.AccessToken)

	var body me
	if err := providers.DoJSON(p.http, ProviderName, req, &body); err != nil {
		return nil, err
	}
	return &providers.Profile{
		Username: body.Username + "#" + body.Discriminator,
		Email:    body.Email,
	}, nil
}
