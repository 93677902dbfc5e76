package apple

import (
	"fmt"
	"strings"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"

	"github.com/yoocash/idbroker/internal/providers"
)

// clientSecret builds the ES256-signed assertion Apple requires in place of
// a static client secret. The signing key is the configured .p8 private key;
// the settings store keeps it on one line with '|' standing in for newlines.
func clientSecret(cfg providers.Config, clientID string) (string, error) {
	teamID := cfg.ExtraValue("team_id")
	keyID := cfg.ExtraValue("key_id")
	if teamID == "" || keyID == "" {
		return "", fmt.Errorf("apple config missing team_id/key_id")
	}

	pem := strings.ReplaceAll(cfg.ClientSecret, "|", "\n")
	key, err := jwtv5.ParseECPrivateKeyFromPEM([]byte(pem))
	if err != nil {
		return "", fmt.Errorf("parse signing key: %w", err)
	}

	now := time.Now()
	tok := jwtv5.NewWithClaims(jwtv5.SigningMethodES256, jwtv5.MapClaims{
		"iss": teamID,
		"iat": now.Unix(),
		"exp": now.Add(5 * time.Minute).Unix(),
		"aud": issuer,
		"sub": clientID,
	})
	tok.Header["kid"] = keyID

	return tok.SignedString(key)
}
