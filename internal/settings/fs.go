package settings

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/yoocash/idbroker/internal/providers"
	"github.com/yoocash/idbroker/internal/security/secretbox"
)

// providerEntry is the on-disk shape of one provider in providers.yaml.
// Exactly one of client_secret / client_secret_enc should be set; the
// encrypted form is preferred for production deployments.
type providerEntry struct {
	Enabled         bool              `yaml:"enabled"`
	ClientKey       string            `yaml:"client_key"`
	ClientSecret    string            `yaml:"client_secret"`
	ClientSecretEnc string            `yaml:"client_secret_enc"`
	Extra           map[string]string `yaml:"extra"`
}

type providersFile struct {
	Providers map[string]providerEntry `yaml:"providers"`
}

type advancedFile struct {
	Advanced Advanced `yaml:"advanced"`
}

// FSStore reads configuration from YAML files under a root directory:
// providers.yaml and advanced.yaml. Files are parsed on every call so
// edits take effect without a restart.
type FSStore struct {
	root string
}

func NewFSStore(root string) *FSStore {
	return &FSStore{root: root}
}

func (s *FSStore) ProviderConfig(_ context.Context, providerID string) (*providers.Config, error) {
	var pf providersFile
	if err := readYAML(filepath.Join(s.root, "providers.yaml"), &pf); err != nil {
		return nil, err
	}
	entry, ok := pf.Providers[providerID]
	if !ok || !entry.Enabled {
		return nil, fmt.Errorf("%w: %s", ErrNotConfigured, providerID)
	}
	secret := entry.ClientSecret
	if entry.ClientSecretEnc != "" {
		plain, err := secretbox.Decrypt(entry.ClientSecretEnc)
		if err != nil {
			return nil, fmt.Errorf("settings: decrypt client secret for %s: %w", providerID, err)
		}
		secret = plain
	}
	return &providers.Config{
		ProviderID:   providerID,
		ClientKey:    entry.ClientKey,
		ClientSecret: secret,
		Extra:        entry.Extra,
	}, nil
}

func (s *FSStore) AdvancedSettings(_ context.Context) (*Advanced, error) {
	var af advancedFile
	if err := readYAML(filepath.Join(s.root, "advanced.yaml"), &af); err != nil {
		return nil, err
	}
	adv := af.Advanced
	if adv.DefaultRole == "" {
		adv.DefaultRole = "authenticated"
	}
	return &adv, nil
}

func readYAML(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("settings: read %s: %w", filepath.Base(path), err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("settings: parse %s: %w", filepath.Base(path), err)
	}
	return nil
}
