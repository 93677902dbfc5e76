package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yoocash/idbroker/internal/broker"
	"github.com/yoocash/idbroker/internal/providers"
	"github.com/yoocash/idbroker/internal/settings"
	"github.com/yoocash/idbroker/internal/store/memory"
)

type stubProvider struct {
	name    string
	profile providers.Profile
	err     error
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) FetchProfile(context.Context, providers.Credential, providers.Config) (*providers.Profile, error) {
	if s.err != nil {
		return nil, s.err
	}
	p := s.profile
	return &p, nil
}

func newTestRouter(t *testing.T, p providers.Provider, adv settings.Advanced) http.Handler {
	t.Helper()

	cfg := settings.NewMemoryStore()
	cfg.SetProvider(&providers.Config{ProviderID: p.Name(), ClientKey: "k", ClientSecret: "s"})
	cfg.SetAdvanced(adv)

	b := broker.New(providers.NewRegistry(p), cfg, memory.New())
	ctrls := NewControllers(b)

	r := chi.NewRouter()
	r.Post("/v1/auth/{provider}/callback", ctrls.Callback.Callback)
	r.Get("/v1/auth/{provider}/callback", ctrls.Callback.Callback)
	r.Get("/v1/auth/providers", ctrls.Providers.List)
	return r
}

func postCallback(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func openPolicy() settings.Advanced {
	return settings.Advanced{AllowRegister: true, DefaultRole: "authenticated"}
}

func googleStub() *stubProvider {
	return &stubProvider{
		name: "google",
		profile: providers.Profile{
			Username:       "gg1001",
			Email:          "ada@example.com",
			ProviderUserID: "1001",
		},
	}
}

func TestCallbackCreatesAccount(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t, googleStub(), openPolicy())
	rec := postCallback(t, h, "/v1/auth/google/callback", `{"access_token":"tok"}`)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		User struct {
			Email    string `json:"email"`
			Provider string `json:"provider"`
		} `json:"user"`
		New bool `json:"new"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.New)
	assert.Equal(t, "ada@example.com", resp.User.Email)
	assert.Equal(t, "google", resp.User.Provider)
}

func TestCallbackSecondLoginReturns200(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t, googleStub(), openPolicy())
	first := postCallback(t, h, "/v1/auth/google/callback", `{"access_token":"tok"}`)
	require.Equal(t, http.StatusCreated, first.Code)

	second := postCallback(t, h, "/v1/auth/google/callback", `{"access_token":"tok"}`)
	assert.Equal(t, http.StatusOK, second.Code)
}

func TestCallbackGETQueryParams(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t, googleStub(), openPolicy())
	req := httptest.NewRequest(http.MethodGet, "/v1/auth/google/callback?access_token=tok", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func errCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Code
}

func TestCallbackErrorMapping(t *testing.T) {
	t.Parallel()

	t.Run("no credential", func(t *testing.T) {
		t.Parallel()
		h := newTestRouter(t, googleStub(), openPolicy())
		rec := postCallback(t, h, "/v1/auth/google/callback", `{"raw":{"state":"x"}}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "NO_CREDENTIAL", errCode(t, rec))
	})

	t.Run("unknown provider", func(t *testing.T) {
		t.Parallel()
		h := newTestRouter(t, googleStub(), openPolicy())
		rec := postCallback(t, h, "/v1/auth/myspace/callback", `{"access_token":"tok"}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "UNKNOWN_PROVIDER", errCode(t, rec))
	})

	t.Run("registration closed", func(t *testing.T) {
		t.Parallel()
		h := newTestRouter(t, googleStub(), settings.Advanced{DefaultRole: "authenticated"})
		rec := postCallback(t, h, "/v1/auth/google/callback", `{"access_token":"tok"}`)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "REGISTRATION_CLOSED", errCode(t, rec))
	})

	t.Run("provider unreachable", func(t *testing.T) {
		t.Parallel()
		p := &stubProvider{name: "google", err: providers.NewCallError("google", assert.AnError)}
		h := newTestRouter(t, p, openPolicy())
		rec := postCallback(t, h, "/v1/auth/google/callback", `{"access_token":"tok"}`)
		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Equal(t, "PROVIDER_CALL_FAILED", errCode(t, rec))
	})

	t.Run("email missing", func(t *testing.T) {
		t.Parallel()
		p := &stubProvider{name: "google", profile: providers.Profile{Username: "gg1", ProviderUserID: "1"}}
		h := newTestRouter(t, p, openPolicy())
		rec := postCallback(t, h, "/v1/auth/google/callback", `{"access_token":"tok"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "EMAIL_MISSING", errCode(t, rec))
	})
}

func TestCallbackEmailTaken(t *testing.T) {
	t.Parallel()

	adv := settings.Advanced{AllowRegister: true, UniqueEmail: true, DefaultRole: "authenticated"}

	cfg := settings.NewMemoryStore()
	google := googleStub()
	github := &stubProvider{
		name: "github",
		profile: providers.Profile{
			Username:       "octo",
			Email:          "ada@example.com",
			ProviderUserID: "2002",
		},
	}
	cfg.SetProvider(&providers.Config{ProviderID: "google"})
	cfg.SetProvider(&providers.Config{ProviderID: "github"})
	cfg.SetAdvanced(adv)

	b := broker.New(providers.NewRegistry(google, github), cfg, memory.New())
	ctrls := NewControllers(b)
	r := chi.NewRouter()
	r.Post("/v1/auth/{provider}/callback", ctrls.Callback.Callback)

	first := postCallback(t, r, "/v1/auth/google/callback", `{"access_token":"tok"}`)
	require.Equal(t, http.StatusCreated, first.Code)

	second := postCallback(t, r, "/v1/auth/github/callback", `{"access_token":"tok"}`)
	assert.Equal(t, http.StatusConflict, second.Code)
	assert.Equal(t, "EMAIL_TAKEN", errCode(t, second))
}

func TestProvidersDiscovery(t *testing.T) {
	t.Parallel()

	h := newTestRouter(t, googleStub(), openPolicy())
	req := httptest.NewRequest(http.MethodGet, "/v1/auth/providers", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Providers []struct {
			Name    string `json:"name"`
			Enabled bool   `json:"enabled"`
			Ready   bool   `json:"ready"`
		} `json:"providers"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Providers, 1)
	assert.Equal(t, "google", resp.Providers[0].Name)
	assert.True(t, resp.Providers[0].Enabled)
	assert.True(t, resp.Providers[0].Ready)
}
