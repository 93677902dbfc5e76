// Package vk implements the VK (VKontakte) identity adapter.
//
// VK does not return the email from users.get; the email arrives with the
// OAuth callback and is forwarded by the caller as the "raw[email]"
// provider param.
package vk

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/yoocash/idbroker/internal/providers"
)

const ProviderName = "vk"

const (
	usersGetEndpoint = "https://api.vk.com/method/users.get"
	apiVersion       = "5.122"
)

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

type usersGet struct {
	Response []struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	} `json:"response"`
}

func (p *Provider) FetchProfile(ctx context.Context, cred providers.Credential, _ providers.Config) (*providers.Profile, error) {
	endpoint := usersGetEndpoint
	if p.BaseURL != "" {
		endpoint = p.BaseURL + "/method/users.get"
	}
	q := url.Values{
		"access_token": {cred.AccessToken},
		"id":           {cred.Param("raw[user_id]")},
		"v":            {apiVersion},
	}
	req, err := providers.NewJSONRequest(ctx, http.MethodGet, endpoint+"?"+q.Encode())
	if err != nil {
		return nil, providers.NewCallError(ProviderName, err)
	}

	var body usersGet
	if err := providers.DoJSON(p.http, ProviderName, req, &body); err != nil {
		return nil, err
	}
	if len(body.Response) == 0 {
		return nil, providers.NewCallError(ProviderName, errEmptyResponse)
	}
	u := body.Response[0]
	return &providers.Profile{
		Username: u.LastName + " " + u.FirstName,
		Email:    cred.Param("raw[email]"),
	}, nil
}

var errEmptyResponse = errors.New("users.get returned no records")
