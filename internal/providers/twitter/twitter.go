// Package twitter implements the Twitter identity adapter.
//
// Twitter's v1.1 API still speaks OAuth1: every request is signed with
// HMAC-SHA1 over the consumer key/secret from provider config and the
// user's access token/secret from the credential.
package twitter

import (
	"context"
	"net/http"
	"net/url"

	"github.com/yoocash/idbroker/internal/providers"
)

const ProviderName = "twitter"

const verifyEndpoint = "https://api.twitter.com/1.1/account/verify_credentials.json"

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

type account struct {
	ScreenName string `json:"screen_name"`
	Email      string `json:"email"`
}

func (p *Provider) FetchProfile(ctx context.Context, cred providers.Credential, cfg providers.Config) (*providers.Profile, error) {
	endpoint := verifyEndpoint
	if p.BaseURL != "" {
		endpoint = p.BaseURL + "/1.1/account/verify_credentials.json"
	}

	query := url.Values{
		"include_email": {"true"},
	}
	if sn := cred.Param("raw[screen_name]"); sn != "" {
		query.Set("screen_name", sn)
	}

	req, err := providers.NewJSONRequest(ctx, http.MethodGet, endpoint+"?"+query.Encode())
	if err != nil {
		return nil, providers.NewCallError(ProviderName, err)
	}
	auth := signRequest(signingInput{
		Method:         http.MethodGet,
		URL:            endpoint,
		Query:          query,
		ConsumerKey:    cfg.ClientKey,
		ConsumerSecret: cfg.ClientSecret,
		Token:          cred.AccessToken,
		TokenSecret:    cred.Secret,
	})
	req.Header.Set("Authorization", auth)

	var body account
	if err := providers.DoJSON(p.http, ProviderName, req, &body); err != nil {
		return nil, err
	}
	return &providers.Profile{
		Username: body.ScreenName,
		Email:    body.Email,
	}, nil
}
