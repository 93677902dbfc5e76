// Package instagram implements the Instagram identity adapter.
//
// Instagram exposes no user email. The adapter synthesizes a deterministic
// placeholder address from the username; this is a documented limitation of
// the provider, not a bug.
package instagram

import (
	"context"
	"net/http"
	"net/url"

	"github.com/yoocash/idbroker/internal/providers"
)

const ProviderName = "instagram"

const selfEndpoint = "https://api.instagram.com/v1/users/self"

// PlaceholderDomain is the fixed domain for synthesized Instagram emails.
// Existing accounts were created under this domain; changing it would
// orphan them.
const PlaceholderDomain = "strapi.io"

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

type self struct {
	Data struct {
		Username string `json:"username"`
	} `json:"data"`
}

func (p *Provider) FetchProfile(ctx context.Context, cred providers.Credential, _ providers.Config) (*providers.Profile, error) {
	endpoint := selfEndpoint
	if p.BaseURL != "" {
		endpoint = p.BaseURL + "/users/self"
	}
	endpoint += "?" + url.Values{"access_token": {cred.AccessToken}}.Encode()

	req, err := providers.NewJSONRequest(ctx, http.MethodGet, endpoint)
	if err != nil {
		return nil, providers.NewCallError(ProviderName, err)
	}

	var body self
	if err := providers.DoJSON(p.http, ProviderName, req, &body); err != nil {
		return nil, err
	}
	return &providers.Profile{
		Username: body.Data.Username,
		Email:    body.Data.Username + "@" + PlaceholderDomain,
	}, nil
}
