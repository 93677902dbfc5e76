package twitter

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Known-good vector from the Twitter signing documentation: fixed nonce
// and timestamp make the signature deterministic.
func TestSignRequestKnownVector(t *testing.T) {
	t.Parallel()

	header := signRequest(signingInput{
		Method: "POST",
		URL:    "https://api.twitter.com/1.1/statuses/update.json",
		Query: url.Values{
			"status":           {"Hello Ladies + Gentlemen, a signed OAuth request!"},
			"include_entities": {"true"},
		},
		ConsumerKey:    "xvz1evFS4wEEPTGEFPHBog",
		ConsumerSecret: "kAcSOqF21Fu85e7zjz7ZN2U4ZRhfV3WpwPAoE3Z7kBw",
		Token:          "370773112-GmHxMAgYyLbNEtIKZeRNFsMKPR9EyMZeS9weJAEb",
		TokenSecret:    "LswwdoUaIvS8ltyTt5jkRh4J50vUPVVHtR2YPi5kE",
		nonce:          "kYjzVBB8Y0ZFabxSWbWovY3uYSQ2pTgmZeNu2VS4cg",
		timestamp:      "1318622958",
	})

	assert.Contains(t, header, `oauth_signature="hCtSmYh%2BiHYCEqBWrE7C7hYmtUk%3D"`)
	assert.Contains(t, header, `oauth_consumer_key="xvz1evFS4wEEPTGEFPHBog"`)
	assert.Contains(t, header, `oauth_signature_method="HMAC-SHA1"`)
	assert.Contains(t, header, `oauth_version="1.0"`)
	assert.True(t, len(header) > 6 && header[:6] == "OAuth ")
}

func TestPercentEncode(t *testing.T) {
	t.Parallel()

	// Space must become %20, never '+'.
	assert.Equal(t, "Hello%20World", percentEncode("Hello World"))
	assert.Equal(t, "a-b._~", percentEncode("a-b._~"))
	assert.Equal(t, "%2B%3D%26", percentEncode("+=&"))
}
