package providers

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownProvider is returned when a provider identifier matches no
// registered adapter.
var ErrUnknownProvider = errors.New("unknown provider")

// ErrInvalidToken is returned by signed-token providers when signature or
// claim verification fails. Distinct from CallError: the transport worked,
// the token did not.
var ErrInvalidToken = errors.New("invalid identity token")

// Registry maps provider identifiers to their adapters. The adapter set is
// fixed at process start; no locking is needed at request time.
type Registry struct {
	providers map[string]Provider
}

// NewRegistry registers the given providers by name.
func NewRegistry(list ...Provider) *Registry {
	m := make(map[string]Provider, len(list))
	for _, p := range list {
		m[p.Name()] = p
	}
	return &Registry{providers: m}
}

// Get returns the adapter registered under name.
// Fails closed: unknown names yield ErrUnknownProvider.
func (r *Registry) Get(name string) (Provider, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, name)
	}
	return p, nil
}

// Names returns the sorted list of registered provider names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
