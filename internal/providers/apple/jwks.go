package apple

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

type jwk struct {
	Kty string `json:"kty"`
	Kid string `json:"kid"`
	N   string `json:"n"` // base64url
	E   string `json:"e"` // base64url
}

type jwks struct {
	Keys []jwk `json:"keys"`
}

// keyCache fetches and caches Apple's JWKS. Keys rotate rarely, so a 1h TTL
// is plenty; singleflight keeps concurrent logins from stampeding the
// endpoint after expiry.
type keyCache struct {
	http  *http.Client
	cache *gocache.Cache
	sf    singleflight.Group
}

func newKeyCache(hc *http.Client) *keyCache {
	return &keyCache{
		http:  hc,
		cache: gocache.New(time.Hour, 10*time.Minute),
	}
}

func (kc *keyCache) rsaKey(ctx context.Context, jwksURL, kid string) (*rsa.PublicKey, error) {
	set, err := kc.get(ctx, jwksURL)
	if err != nil {
		return nil, err
	}
	for _, k := range set.Keys {
		if k.Kid == kid && strings.EqualFold(k.Kty, "RSA") {
			return rsaFromJWK(k)
		}
	}
	return nil, fmt.Errorf("kid %q not found in jwks", kid)
}

func (kc *keyCache) get(ctx context.Context, jwksURL string) (*jwks, error) {
	if v, ok := kc.cache.Get(jwksURL); ok {
		return v.(*jwks), nil
	}

	v, err, _ := kc.sf.Do(jwksURL, func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, jwksURL, nil)
		if err != nil {
			return nil, err
		}
		resp, err := kc.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode/100 != 2 {
			return nil, fmt.Errorf("jwks http %d", resp.StatusCode)
		}
		var set jwks
		if err := json.NewDecoder(resp.Body).Decode(&set); err != nil {
			return nil, err
		}
		kc.cache.SetDefault(jwksURL, &set)
		return &set, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*jwks), nil
}

func rsaFromJWK(k jwk) (*rsa.PublicKey, error) {
	nb, err := base64.RawURLEncoding.DecodeString(k.N)
	if err != nil {
		return nil, err
	}
	eb, err := base64.RawURLEncoding.DecodeString(k.E)
	if err != nil {
		return nil, err
	}
	e := 0
	for _, b := range eb {
		e = (e << 8) | int(b)
	}
	if e == 0 {
		e = 65537
	}
	return &rsa.PublicKey{N: new(big.Int).SetBytes(nb), E: e}, nil
}
