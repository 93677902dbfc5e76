package broker

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yoocash/idbroker/internal/providers"
	"github.com/yoocash/idbroker/internal/settings"
	"github.com/yoocash/idbroker/internal/store"
	"github.com/yoocash/idbroker/internal/store/memory"
)

func profileFixture() *providers.Profile {
	return &providers.Profile{
		Username:       "ada",
		Email:          "ada@example.com",
		DisplayName:    "Ada Lovelace",
		ProviderUserID: "gg1001",
	}
}

func openPolicy() *settings.Advanced {
	return &settings.Advanced{AllowRegister: true, DefaultRole: "authenticated"}
}

func TestResolveCreatesConfirmedUser(t *testing.T) {
	t.Parallel()

	st := memory.New()
	res, err := NewResolver(st).Resolve(context.Background(), "google", profileFixture(), openPolicy())
	require.NoError(t, err)

	assert.True(t, res.New)
	assert.Equal(t, "ada@example.com", res.User.Email)
	assert.Equal(t, "google", res.User.Provider)
	assert.Equal(t, "gg1001", res.User.ProviderUserID)
	assert.True(t, res.User.Confirmed)
	assert.NotEmpty(t, res.User.ID)
	assert.NotEmpty(t, res.User.RoleID)
}

func TestResolveMatchesExistingSameProvider(t *testing.T) {
	t.Parallel()

	st := memory.New()
	st.SeedUser(store.User{
		ID:       "u-1",
		Email:    "ada@example.com",
		Provider: "google",
	})

	// Same-provider match wins even when registration is closed and
	// unique_email is on.
	adv := &settings.Advanced{AllowRegister: false, UniqueEmail: true, DefaultRole: "authenticated"}
	res, err := NewResolver(st).Resolve(context.Background(), "google", profileFixture(), adv)
	require.NoError(t, err)

	assert.False(t, res.New)
	assert.Equal(t, "u-1", res.User.ID)
	assert.Len(t, st.Users(), 1)
}

func TestResolveRegistrationClosed(t *testing.T) {
	t.Parallel()

	st := memory.New()
	adv := &settings.Advanced{AllowRegister: false, DefaultRole: "authenticated"}
	_, err := NewResolver(st).Resolve(context.Background(), "google", profileFixture(), adv)

	var rej *Rejection
	require.True(t, errors.As(err, &rej))
	// Clients match on the exact wire strings, misspelling included.
	assert.Equal(t, RejectReason("Auth.advanced.allow_register"), rej.Reason)
	assert.Equal(t, "Register action is actualy not available.", rej.Message)
	assert.Empty(t, st.Users())
}

func TestResolveUniqueEmail(t *testing.T) {
	t.Parallel()

	st := memory.New()
	st.SeedUser(store.User{
		ID:       "u-1",
		Email:    "ada@example.com",
		Provider: "github",
	})

	adv := &settings.Advanced{AllowRegister: true, UniqueEmail: true, DefaultRole: "authenticated"}
	_, err := NewResolver(st).Resolve(context.Background(), "google", profileFixture(), adv)

	var rej *Rejection
	require.True(t, errors.As(err, &rej))
	assert.Equal(t, RejectReason("Auth.form.error.email.taken"), rej.Reason)
	assert.Equal(t, "Email is already taken.", rej.Message)
	assert.Len(t, st.Users(), 1)
}

func TestResolveSharedEmailAllowed(t *testing.T) {
	t.Parallel()

	st := memory.New()
	st.SeedUser(store.User{
		ID:       "u-1",
		Email:    "ada@example.com",
		Provider: "github",
	})

	// unique_email off: a second provider may claim the same address.
	res, err := NewResolver(st).Resolve(context.Background(), "google", profileFixture(), openPolicy())
	require.NoError(t, err)

	assert.True(t, res.New)
	assert.Len(t, st.Users(), 2)
}

func TestResolveMissingRole(t *testing.T) {
	t.Parallel()

	st := memory.New()
	adv := &settings.Advanced{AllowRegister: true, DefaultRole: "editor"}
	_, err := NewResolver(st).Resolve(context.Background(), "google", profileFixture(), adv)

	var se *StoreError
	require.True(t, errors.As(err, &se))
	assert.True(t, errors.Is(err, store.ErrNotFound))
	assert.Empty(t, st.Users())
}

func TestResolveDuplicateInsert(t *testing.T) {
	t.Parallel()

	st := memory.New()
	resolver := NewResolver(st)
	ctx := context.Background()

	first, err := resolver.Resolve(ctx, "google", profileFixture(), openPolicy())
	require.NoError(t, err)
	require.True(t, first.New)

	// Second attempt for the same identity with unique_email off takes
	// the match path, not a second insert.
	second, err := resolver.Resolve(ctx, "google", profileFixture(), openPolicy())
	require.NoError(t, err)
	assert.False(t, second.New)
	assert.Equal(t, first.User.ID, second.User.ID)
	assert.Len(t, st.Users(), 1)
}
