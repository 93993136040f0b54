// Package settings stores user credentials for translation providers.
//
// Credentials live in the XDG data directory:
//
//	$XDG_DATA_HOME/h5pkit/auth.json  (default: ~/.local/share/h5pkit/)
//
// The file is a JSON object keyed by provider ID; permissions are 0600.
//
// Lookup order for API keys:
//  1. --api-key flag
//  2. H5PKIT_API_KEY environment variable
//  3. This credential store
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	dataDirName = "h5pkit"
	fileName    = "auth.json"
)

// EnvAPIKey is the environment variable consulted before the store.
const EnvAPIKey = "H5PKIT_API_KEY"

// Info is one stored credential.
type Info struct {
	// Key is the provider API key.
	Key string `json:"key"`
	// BaseURL is the endpoint for custom providers.
	BaseURL string `json:"baseUrl,omitempty"`
}

// Store holds all provider credentials, keyed by provider ID.
type Store map[string]*Info

func dataDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, dataDirName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", dataDirName), nil
}

func filePath() (string, error) {
	dir, err := dataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// FilePath returns the auth.json location for display purposes.
func FilePath() string {
	p, err := filePath()
	if err != nil {
		return ""
	}
	return p
}

// Load reads the credential store. A missing or unreadable file yields
// an empty store.
func Load() Store {
	path, err := filePath()
	if err != nil {
		return make(Store)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return make(Store)
	}
	var store Store
	if err := json.Unmarshal(data, &store); err != nil {
		return make(Store)
	}
	if store == nil {
		return make(Store)
	}
	return store
}

// Save writes the credential store with 0600 permissions.
func Save(store Store) error {
	path, err := filePath()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(store, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling credentials: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing auth file: %w", err)
	}
	return nil
}

// Get returns the stored credential for a provider, or nil.
func Get(providerID string) *Info {
	return Load()[providerID]
}

// Set stores a credential for a provider.
func Set(providerID string, info *Info) error {
	store := Load()
	store[providerID] = info
	return Save(store)
}

// Remove deletes a provider's credential. Removing an absent entry is
// not an error.
func Remove(providerID string) error {
	store := Load()
	if _, ok := store[providerID]; !ok {
		return nil
	}
	delete(store, providerID)
	return Save(store)
}

// ResolveKey returns the API key for a provider using the documented
// lookup order.
func ResolveKey(flagValue, providerID string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv(EnvAPIKey); env != "" {
		return env
	}
	if info := Get(providerID); info != nil {
		return info.Key
	}
	return ""
}

// ResolveBaseURL returns a stored base URL for a provider, flag value
// first.
func ResolveBaseURL(flagValue, providerID string) string {
	if flagValue != "" {
		return flagValue
	}
	if info := Get(providerID); info != nil {
		return info.BaseURL
	}
	return ""
}
