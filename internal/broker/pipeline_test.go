package broker

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yoocash/idbroker/internal/providers"
	"github.com/yoocash/idbroker/internal/providers/github"
	"github.com/yoocash/idbroker/internal/settings"
	"github.com/yoocash/idbroker/internal/store/memory"
)

// These tests drive a real adapter through the whole pipeline instead of
// a stub, so a contract drift between adapters and the broker shows up
// here.

func newGitHubBroker(t *testing.T, userBody, emailsBody string) (*Broker, *memory.Store) {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/user":
			_, _ = w.Write([]byte(userBody))
		case "/user/emails":
			_, _ = w.Write([]byte(emailsBody))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)

	p := github.New(srv.Client())
	p.BaseURL = srv.URL

	st := memory.New()
	cfg := settings.NewMemoryStore()
	cfg.SetProvider(&providers.Config{ProviderID: "github", ClientKey: "key", ClientSecret: "secret"})
	return New(providers.NewRegistry(p), cfg, st), st
}

func TestAuthenticateThroughGitHubAdapter(t *testing.T) {
	t.Parallel()

	b, st := newGitHubBroker(t,
		`{"login":"octocat","email":"Octo@Example.com"}`, `[]`)

	res, err := b.Authenticate(context.Background(), "github",
		map[string]string{"access_token": "tok"})
	require.NoError(t, err)

	assert.True(t, res.New)
	assert.Equal(t, "octocat", res.User.Username)
	assert.Equal(t, "octo@example.com", res.User.Email)
	assert.Equal(t, "github", res.User.Provider)
	assert.True(t, res.User.Confirmed)

	users, err := st.FindUsersByEmail(context.Background(), "octo@example.com")
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestAuthenticateGitHubPrivateEmailUsesPrimary(t *testing.T) {
	t.Parallel()

	b, _ := newGitHubBroker(t,
		`{"login":"octocat","email":""}`,
		`[{"email":"old@example.com","primary":false},{"email":"octo@example.com","primary":true}]`)

	res, err := b.Authenticate(context.Background(), "github",
		map[string]string{"access_token": "tok"})
	require.NoError(t, err)

	assert.True(t, res.New)
	assert.Equal(t, "octo@example.com", res.User.Email)
}
