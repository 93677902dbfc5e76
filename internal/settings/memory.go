package settings

import (
	"context"
	"fmt"
	"sync"

	"github.com/yoocash/idbroker/internal/providers"
)

// MemoryStore is an in-memory Store used by tests and local development.
type MemoryStore struct {
	mu       sync.RWMutex
	configs  map[string]*providers.Config
	advanced Advanced
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		configs: make(map[string]*providers.Config),
		advanced: Advanced{
			AllowRegister: true,
			DefaultRole:   "authenticated",
		},
	}
}

func (s *MemoryStore) SetProvider(cfg *providers.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.configs[cfg.ProviderID] = cfg
}

func (s *MemoryStore) SetAdvanced(adv Advanced) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.advanced = adv
}

func (s *MemoryStore) ProviderConfig(_ context.Context, providerID string) (*providers.Config, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cfg, ok := s.configs[providerID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotConfigured, providerID)
	}
	cp := *cfg
	return &cp, nil
}

func (s *MemoryStore) AdvancedSettings(_ context.Context) (*Advanced, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	adv := s.advanced
	return &adv, nil
}
