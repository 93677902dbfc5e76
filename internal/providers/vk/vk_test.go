package vk

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yoocash/idbroker/internal/providers"
)

func TestFetchProfileEmailFromCallbackParam(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/method/users.get", r.URL.Path)
		assert.Equal(t, "tok", r.URL.Query().Get("access_token"))
		assert.Equal(t, "42", r.URL.Query().Get("id"))
		assert.Equal(t, "5.122", r.URL.Query().Get("v"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"response":[{"first_name":"Ada","last_name":"Lovelace"}]}`))
	}))
	t.Cleanup(srv.Close)

	p := New(srv.Client())
	p.BaseURL = srv.URL

	cred := providers.Credential{
		AccessToken: "tok",
		Params: map[string]string{
			"raw[user_id]": "42",
			"raw[email]":   "ada@example.com",
		},
	}
	profile, err := p.FetchProfile(context.Background(), cred, providers.Config{})
	require.NoError(t, err)

	assert.Equal(t, "Lovelace Ada", profile.Username)
	assert.Equal(t, "ada@example.com", profile.Email)
}

func TestFetchProfileEmptyResponse(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"response":[]}`))
	}))
	t.Cleanup(srv.Close)

	p := New(srv.Client())
	p.BaseURL = srv.URL

	_, err := p.FetchProfile(context.Background(), providers.Credential{AccessToken: "tok"}, providers.Config{})
	var ce *providers.CallError
	require.True(t, errors.As(err, &ce))
}
