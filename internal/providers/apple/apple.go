// Package apple implements the Sign in with Apple identity adapter.
//
// Apple has no remote profile endpoint. The adapter exchanges the
// authorization code for an id_token at appleid.apple.com, verifies the
// token's RS256 signature against Apple's JWKS plus its issuer, audience
// and expiry claims, and maps the claims to the canonical profile.
// Usernames are prefixed "ap" + the token's sub claim.
package apple

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"

	"github.com/yoocash/idbroker/internal/providers"
)

const ProviderName = "apple"

const (
	tokenEndpoint = "https://appleid.apple.com/auth/token"
	jwksEndpoint  = "https://appleid.apple.com/auth/keys"
	issuer        = "https://appleid.apple.com"
)

type Provider struct {
	// Endpoint overrides, for tests.
	TokenURL string
	JWKSURL  string
	Issuer   string

	http *http.Client
	keys *keyCache
}

func New(hc *http.Client) *Provider {
	if hc == nil {
		hc = providers.DefaultHTTPClient()
	}
	return &Provider{
		http: hc,
		keys: newKeyCache(hc),
	}
}

func (p *Provider) Name() string { return ProviderName }

type tokenResponse struct {
	IDToken   string `json:"id_token"`
	Error     string `json:"error,omitempty"`
	ErrorDesc string `json:"error_description,omitempty"`
}

func (p *Provider) FetchProfile(ctx context.Context, cred providers.Credential, cfg providers.Config) (*providers.Profile, error) {
	// Native apps authenticate with the bundle ID, web flows with the
	// service ID; both derive from the configured base client key.
	clientID := cfg.ClientKey + ".service"
	if cred.Param("useBundleId") == "true" {
		clientID = cfg.ClientKey + ".app"
	}

	secret, err := clientSecret(cfg, clientID)
	if err != nil {
		return nil, providers.NewCallError(ProviderName, fmt.Errorf("build client secret: %w", err))
	}

	tok, err := p.exchangeCode(ctx, cred.AccessToken, clientID, secret)
	if err != nil {
		return nil, err
	}

	claims, err := p.verifyIDToken(ctx, tok.IDToken, clientID)
	if err != nil {
		return nil, err
	}

	// Name is only delivered on the first authorization, forwarded by the
	// caller as provider params.
	name := strings.TrimSpace(cred.Param("firstName") + " " + cred.Param("lastName"))

	return &providers.Profile{
		Username:       "ap" + claims.Sub,
		Email:          claims.Email,
		DisplayName:    name,
		ProviderUserID: claims.Sub,
	}, nil
}

func (p *Provider) exchangeCode(ctx context.Context, code, clientID, secret string) (*tokenResponse, error) {
	endpoint := tokenEndpoint
	if p.TokenURL != "" {
		endpoint = p.TokenURL
	}

	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("client_id", clientID)
	form.Set("client_secret", secret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, providers.NewCallError(ProviderName, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	var tok tokenResponse
	if err := providers.DoJSON(p.http, ProviderName, req, &tok); err != nil {
		return nil, err
	}
	if tok.Error != "" {
		return nil, providers.NewCallError(ProviderName, fmt.Errorf("token endpoint: %s %s", tok.Error, tok.ErrorDesc))
	}
	if tok.IDToken == "" {
		return nil, providers.NewCallError(ProviderName, fmt.Errorf("no id_token in response"))
	}
	return &tok, nil
}

type idClaims struct {
	Sub   string
	Email string
}

// verifyIDToken validates signature, iss, aud and exp. Any mismatch is an
// ErrInvalidToken, not a CallError: the transport worked, the token did not.
func (p *Provider) verifyIDToken(ctx context.Context, idToken, clientID string) (*idClaims, error) {
	jwksURL := jwksEndpoint
	if p.JWKSURL != "" {
		jwksURL = p.JWKSURL
	}
	wantIss := issuer
	if p.Issuer != "" {
		wantIss = p.Issuer
	}

	tok, err := jwtv5.Parse(idToken, func(t *jwtv5.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		return p.keys.rsaKey(ctx, jwksURL, kid)
	}, jwtv5.WithValidMethods([]string{"RS256"}))
	if err != nil || !tok.Valid {
		return nil, fmt.Errorf("%w: %v", providers.ErrInvalidToken, err)
	}

	claims, ok := tok.Claims.(jwtv5.MapClaims)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected claims type", providers.ErrInvalidToken)
	}

	if iss, _ := claims["iss"].(string); iss != wantIss {
		return nil, fmt.Errorf("%w: bad iss %q", providers.ErrInvalidToken, iss)
	}
	if !audienceMatches(claims["aud"], clientID) {
		return nil, fmt.Errorf("%w: bad aud", providers.ErrInvalidToken)
	}
	if expf, ok := claims["exp"].(float64); ok {
		if time.Unix(int64(expf), 0).Before(time.Now().Add(-30 * time.Second)) {
			return nil, fmt.Errorf("%w: token expired", providers.ErrInvalidToken)
		}
	}

	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	return &idClaims{Sub: sub, Email: email}, nil
}

func audienceMatches(aud any, clientID string) bool {
	switch a := aud.(type) {
	case string:
		return a == clientID
	case []any:
		for _, v := range a {
			if s, _ := v.(string); s == clientID {
				return true
			}
		}
	}
	return false
}
