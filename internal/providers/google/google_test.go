package google

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yoocash/idbroker/internal/providers"
)

func TestFetchProfile(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "1001",
			"email": "ada@example.com",
			"given_name": "Ada",
			"family_name": "Lovelace",
			"picture": "https://lh3.example.com/a.png"
		}`))
	}))
	t.Cleanup(srv.Close)

	p := New(srv.Client())
	p.BaseURL = srv.URL

	profile, err := p.FetchProfile(context.Background(), providers.Credential{AccessToken: "tok"}, providers.Config{})
	require.NoError(t, err)

	assert.Equal(t, "gg1001", profile.Username)
	assert.Equal(t, "ada@example.com", profile.Email)
	assert.Equal(t, "Ada Lovelace", profile.DisplayName)
	assert.Equal(t, "https://lh3.example.com/a.png", profile.AvatarURL)
	assert.Equal(t, "1001", profile.ProviderUserID)
}
