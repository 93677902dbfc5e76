// Package facebook implements the Facebook identity adapter.
package facebook

import (
	"context"
	"net/http"

	"github.com/yoocash/idbroker/internal/providers"
)

const ProviderName = "facebook"

const meEndpoint = "https://graph.facebook.com/me?fields=name,email"

// Provider fetches name and email from the Graph API. The display name
// doubles as the username, as the Graph API exposes no handle.
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
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (p *Provider) FetchProfile(ctx context.Context, cred providers.Credential, _ providers.Config) (*providers.Profile, error) {
	url := meEndpoint
	if p.BaseURL != "" {
		url = p.BaseURL + "/me?fields=name,email"
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
	return &providers.Profile{Username: body.Name, Email: body.Email}, nil
}
