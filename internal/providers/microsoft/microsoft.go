// Package microsoft implements the Microsoft Graph identity adapter.
package microsoft

import (
	"context"
	"net/http"

	"github.com/yoocash/idbroker/internal/providers"
)

const ProviderName = "microsoft"

const meEndpoint = "https://graph.microsoft.com/v1.0/me"

// Provider maps the Graph /me response. The userPrincipalName serves as
// both username and email, matching how Microsoft accounts are addressed.
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
	UserPrincipalName string `json:"userPrincipalName"`
}

func (p *Provider) FetchProfile(ctx context.Context, cred providers.Credential, _ providers.Config) (*providers.Profile, error) {
	url := meEndpoint
	if p.BaseURL != "" {
		url = p.BaseURL + "/me"
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
		Username: body.UserPrincipalName,
		Email:    body.UserPrincipalName,
	}, nil
}
