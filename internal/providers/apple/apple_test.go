package apple

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yoocash/idbroker/internal/providers"
)

type appleFixture struct {
	provider *Provider
	cfg      providers.Config
	signKey  *rsa.PrivateKey
	issuer   string

	// mutated by tests to shape the minted id_token
	aud string
	exp time.Time
}

// newFixture spins up fake token and JWKS endpoints backed by a fresh
// RSA key, plus an EC key for the client-secret assertion.
func newFixture(t *testing.T) *appleFixture {
	t.Helper()

	rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	ecKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	der, err := x509.MarshalECPrivateKey(ecKey)
	require.NoError(t, err)
	ecPEM := string(pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: der}))

	fx := &appleFixture{
		signKey: rsaKey,
		aud:     "com.example.broker.service",
		exp:     time.Now().Add(time.Hour),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
		assert.NotEmpty(t, r.PostForm.Get("client_secret"))

		tok := jwtv5.NewWithClaims(jwtv5.SigningMethodRS256, jwtv5.MapClaims{
			"iss":   fx.issuer,
			"aud":   fx.aud,
			"sub":   "000123.abc",
			"email": "ada@privaterelay.appleid.com",
			"exp":   fx.exp.Unix(),
			"iat":   time.Now().Unix(),
		})
		tok.Header["kid"] = "k1"
		signed, err := tok.SignedString(rsaKey)
		require.NoError(t, err)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"id_token": signed})
	})
	mux.HandleFunc("/auth/keys", func(w http.ResponseWriter, r *http.Request) {
		pub := rsaKey.Public().(*rsa.PublicKey)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"keys": []map[string]string{{
				"kty": "RSA",
				"kid": "k1",
				"use": "sig",
				"alg": "RS256",
				"n":   base64.RawURLEncoding.EncodeToString(pub.N.Bytes()),
				"e":   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(pub.E)).Bytes()),
			}},
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	fx.issuer = srv.URL

	p := New(srv.Client())
	p.TokenURL = srv.URL + "/auth/token"
	p.JWKSURL = srv.URL + "/auth/keys"
	p.Issuer = srv.URL
	fx.provider = p

	fx.cfg = providers.Config{
		ProviderID:   ProviderName,
		ClientKey:    "com.example.broker",
		ClientSecret: strings.ReplaceAll(ecPEM, "\n", "|"),
		Extra:        map[string]string{"team_id": "TEAM123", "key_id": "KEY456"},
	}
	return fx
}

func TestFetchProfileVerifiesIDToken(t *testing.T) {
	fx := newFixture(t)

	cred := providers.Credential{
		AccessToken: "authcode",
		Params: map[string]string{
			"firstName": "Ada",
			"lastName":  "Lovelace",
		},
	}
	profile, err := fx.provider.FetchProfile(context.Background(), cred, fx.cfg)
	require.NoError(t, err)

	assert.Equal(t, "ap000123.abc", profile.Username)
	assert.Equal(t, "ada@privaterelay.appleid.com", profile.Email)
	assert.Equal(t, "Ada Lovelace", profile.DisplayName)
	assert.Equal(t, "000123.abc", profile.ProviderUserID)
}

func TestFetchProfileBundleIDAudience(t *testing.T) {
	fx := newFixture(t)
	fx.aud = "com.example.broker.app"

	cred := providers.Credential{
		AccessToken: "authcode",
		Params:      map[string]string{"useBundleId": "true"},
	}
	profile, err := fx.provider.FetchProfile(context.Background(), cred, fx.cfg)
	require.NoError(t, err)
	assert.Equal(t, "ap000123.abc", profile.Username)
}

func TestFetchProfileRejectsWrongAudience(t *testing.T) {
	fx := newFixture(t)
	fx.aud = "com.someone.else"

	_, err := fx.provider.FetchProfile(context.Background(), providers.Credential{AccessToken: "authcode"}, fx.cfg)
	assert.True(t, errors.Is(err, providers.ErrInvalidToken))
}

func TestFetchProfileRejectsExpiredToken(t *testing.T) {
	fx := newFixture(t)
	fx.exp = time.Now().Add(-time.Hour)

	_, err := fx.provider.FetchProfile(context.Background(), providers.Credential{AccessToken: "authcode"}, fx.cfg)
	assert.True(t, errors.Is(err, providers.ErrInvalidToken))
}

func TestClientSecretRequiresKeyIDs(t *testing.T) {
	t.Parallel()

	_, err := clientSecret(providers.Config{ClientSecret: "irrelevant"}, "client")
	assert.Error(t, err)
}
