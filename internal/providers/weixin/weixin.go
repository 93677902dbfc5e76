// Package weixin implements the WeChat (weixin) identity adapter.
//
// WeChat exposes no email. Usernames are prefixed "wx" + unionid so they
// stay unique across providers, and a deterministic placeholder email is
// synthesized from that username; a documented limitation, not a bug.
package weixin

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/yoocash/idbroker/internal/providers"
)

const ProviderName = "weixin"

const userinfoEndpoint = "https://api.weixin.qq.com/sns/userinfo"

// PlaceholderDomain is the fixed domain for synthesized WeChat emails.
const PlaceholderDomain = "yoo.cash"

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

type userinfo struct {
	UnionID    string `json:"unionid"`
	Nickname   string `json:"nickname"`
	HeadImgURL string `json:"headimgurl"`

	// WeChat reports errors inside a 200 response.
	ErrCode int    `json:"errcode"`
	ErrMsg  string `json:"errmsg"`
}

func (p *Provider) FetchProfile(ctx context.Context, cred providers.Credential, _ providers.Config) (*providers.Profile, error) {
	endpoint := userinfoEndpoint
	if p.BaseURL != "" {
		endpoint = p.BaseURL + "/sns/userinfo"
	}
	q := url.Values{
		"access_token": {cred.AccessToken},
		"openid":       {cred.Param("openid")},
	}
	req, err := providers.NewJSONRequest(ctx, http.MethodGet, endpoint+"?"+q.Encode())
	if err != nil {
		return nil, providers.NewCallError(ProviderName, err)
	}

	var body userinfo
	if err := providers.DoJSON(p.http, ProviderName, req, &body); err != nil {
		return nil, err
	}
	if body.ErrCode != 0 {
		return nil, providers.NewCallError(ProviderName, errors.New(body.ErrMsg))
	}

	uid := "wx" + body.UnionID
	return &providers.Profile{
		Username:       uid,
		Email:          uid + "@" + PlaceholderDomain,
		DisplayName:    body.Nickname,
		AvatarURL:      body.HeadImgURL,
		ProviderUserID: body.UnionID,
	}, nil
}
