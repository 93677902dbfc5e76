package providers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct{ name string }

func (s stubProvider) Name() string { return s.name }

func (s stubProvider) FetchProfile(context.Context, Credential, Config) (*Profile, error) {
	return &Profile{}, nil
}

func TestRegistryGet(t *testing.T) {
	t.Parallel()

	r := NewRegistry(stubProvider{"google"}, stubProvider{"github"})

	p, err := r.Get("google")
	require.NoError(t, err)
	assert.Equal(t, "google", p.Name())

	_, err = r.Get("myspace")
	assert.True(t, errors.Is(err, ErrUnknownProvider))
}

func TestRegistryNamesSorted(t *testing.T) {
	t.Parallel()

	r := NewRegistry(stubProvider{"vk"}, stubProvider{"apple"}, stubProvider{"google"})
	assert.Equal(t, []string{"apple", "google", "vk"}, r.Names())
}
