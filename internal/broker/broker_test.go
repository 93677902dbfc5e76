package broker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yoocash/idbroker/internal/providers"
	"github.com/yoocash/idbroker/internal/settings"
	"github.com/yoocash/idbroker/internal/store"
	"github.com/yoocash/idbroker/internal/store/memory"
	"github.com/yoocash/idbroker/internal/validation"
)

// fakeProvider records the credential it was handed and returns a canned
// profile or error.
type fakeProvider struct {
	name    string
	profile *providers.Profile
	err     error

	gotCred providers.Credential
	gotCfg  providers.Config
	calls   int
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) FetchProfile(_ context.Context, cred providers.Credential, cfg providers.Config) (*providers.Profile, error) {
	f.calls++
	f.gotCred = cred
	f.gotCfg = cfg
	if f.err != nil {
		return nil, f.err
	}
	p := *f.profile
	return &p, nil
}

func newTestBroker(p *fakeProvider, hooks ...RegistrationHook) (*Broker, *memory.Store, *settings.MemoryStore) {
	st := memory.New()
	cfg := settings.NewMemoryStore()
	cfg.SetProvider(&providers.Config{ProviderID: p.name, ClientKey: "key", ClientSecret: "secret"})
	b := New(providers.NewRegistry(p), cfg, st, hooks...)
	return b, st, cfg
}

func TestAuthenticateCreatesUser(t *testing.T) {
	t.Parallel()

	p := &fakeProvider{
		name: "google",
		profile: &providers.Profile{
			Username:       "ada",
			Email:          "Ada@Example.COM",
			ProviderUserID: "gg1001",
		},
	}
	b, st, _ := newTestBroker(p)

	res, err := b.Authenticate(context.Background(), "google", map[string]string{"access_token": "tok"})
	require.NoError(t, err)

	assert.True(t, res.New)
	// Email is normalized before lookup and storage.
	assert.Equal(t, "ada@example.com", res.User.Email)
	assert.Equal(t, "tok", p.gotCred.AccessToken)
	assert.Equal(t, "key", p.gotCfg.ClientKey)
	assert.Len(t, st.Users(), 1)
}

func TestAuthenticateNoCredential(t *testing.T) {
	t.Parallel()

	p := &fakeProvider{name: "google", profile: &providers.Profile{}}
	b, st, _ := newTestBroker(p)

	_, err := b.Authenticate(context.Background(), "google", map[string]string{"state": "xyz"})
	assert.True(t, errors.Is(err, ErrNoCredential))
	assert.Zero(t, p.calls)
	assert.Empty(t, st.Users())
}

func TestAuthenticateUnknownProvider(t *testing.T) {
	t.Parallel()

	p := &fakeProvider{name: "google", profile: &providers.Profile{}}
	b, _, _ := newTestBroker(p)

	_, err := b.Authenticate(context.Background(), "myspace", map[string]string{"access_token": "tok"})
	assert.True(t, errors.Is(err, providers.ErrUnknownProvider))
	assert.Zero(t, p.calls)
}

func TestAuthenticateProviderFailureSkipsStore(t *testing.T) {
	t.Parallel()

	callErr := providers.NewCallError("google", errors.New("boom"))
	p := &fakeProvider{name: "google", err: callErr}
	b, st, _ := newTestBroker(p)

	_, err := b.Authenticate(context.Background(), "google", map[string]string{"access_token": "tok"})

	var ce *providers.CallError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "google", ce.Provider)
	assert.Empty(t, st.Users())
}

func TestAuthenticateEmailMissing(t *testing.T) {
	t.Parallel()

	p := &fakeProvider{
		name:    "google",
		profile: &providers.Profile{Username: "ada", ProviderUserID: "gg1001"},
	}
	b, st, _ := newTestBroker(p)

	_, err := b.Authenticate(context.Background(), "google", map[string]string{"access_token": "tok"})
	assert.True(t, errors.Is(err, validation.ErrEmailMissing))
	assert.Empty(t, st.Users())
}

func TestAuthenticateIdempotent(t *testing.T) {
	t.Parallel()

	p := &fakeProvider{
		name: "google",
		profile: &providers.Profile{
			Username:       "ada",
			Email:          "ada@example.com",
			ProviderUserID: "gg1001",
		},
	}
	b, st, _ := newTestBroker(p)
	ctx := context.Background()
	params := map[string]string{"access_token": "tok"}

	first, err := b.Authenticate(ctx, "google", params)
	require.NoError(t, err)
	second, err := b.Authenticate(ctx, "google", params)
	require.NoError(t, err)

	assert.True(t, first.New)
	assert.False(t, second.New)
	assert.Equal(t, first.User.ID, second.User.ID)
	assert.Len(t, st.Users(), 1)
}

func TestAuthenticateRegistrationRejected(t *testing.T) {
	t.Parallel()

	p := &fakeProvider{
		name: "google",
		profile: &providers.Profile{
			Username:       "ada",
			Email:          "ada@example.com",
			ProviderUserID: "gg1001",
		},
	}
	b, _, cfg := newTestBroker(p)
	cfg.SetAdvanced(settings.Advanced{AllowRegister: false, DefaultRole: "authenticated"})

	_, err := b.Authenticate(context.Background(), "google", map[string]string{"access_token": "tok"})

	var rej *Rejection
	require.True(t, errors.As(err, &rej))
	assert.Equal(t, ReasonRegisterClosed, rej.Reason)
}

func TestAuthenticateOAuth1Credential(t *testing.T) {
	t.Parallel()

	p := &fakeProvider{
		name: "twitter",
		profile: &providers.Profile{
			Username:       "ada",
			Email:          "ada@example.com",
			ProviderUserID: "tw42",
		},
	}
	b, _, _ := newTestBroker(p)

	_, err := b.Authenticate(context.Background(), "twitter", map[string]string{
		"oauth_token":        "tok",
		"oauth_token_secret": "sec",
	})
	require.NoError(t, err)
	assert.Equal(t, "tok", p.gotCred.AccessToken)
	assert.Equal(t, "sec", p.gotCred.Secret)
}

type recordingHook struct {
	ch chan *store.User
}

func (h *recordingHook) OnRegistered(_ context.Context, u *store.User) {
	h.ch <- u
}

func TestRegistrationHookFiresOnceForNewUsers(t *testing.T) {
	t.Parallel()

	hook := &recordingHook{ch: make(chan *store.User, 2)}
	p := &fakeProvider{
		name: "google",
		profile: &providers.Profile{
			Username:       "ada",
			Email:          "ada@example.com",
			ProviderUserID: "gg1001",
		},
	}
	b, _, _ := newTestBroker(p, hook)
	ctx := context.Background()
	params := map[string]string{"access_token": "tok"}

	_, err := b.Authenticate(ctx, "google", params)
	require.NoError(t, err)

	select {
	case u := <-hook.ch:
		assert.Equal(t, "ada@example.com", u.Email)
	case <-time.After(time.Second):
		t.Fatal("hook was not invoked for new user")
	}

	// Second login matches the existing account; no hook.
	_, err = b.Authenticate(ctx, "google", params)
	require.NoError(t, err)
	select {
	case <-hook.ch:
		t.Fatal("hook invoked for returning user")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestProviderStatuses(t *testing.T) {
	t.Parallel()

	google := &fakeProvider{name: "google"}
	apple := &fakeProvider{name: "apple"}

	st := memory.New()
	cfg := settings.NewMemoryStore()
	cfg.SetProvider(&providers.Config{ProviderID: "google", ClientKey: "key", ClientSecret: "secret"})
	cfg.SetProvider(&providers.Config{ProviderID: "apple"})
	b := New(providers.NewRegistry(google, apple), cfg, st)

	statuses := b.ProviderStatuses(context.Background())
	require.Len(t, statuses, 2)

	// Registry names are sorted: apple first.
	assert.Equal(t, ProviderStatus{Name: "apple", Enabled: true, Ready: false}, statuses[0])
	assert.Equal(t, ProviderStatus{Name: "google", Enabled: true, Ready: true}, statuses[1])
}
