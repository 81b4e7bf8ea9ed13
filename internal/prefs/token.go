package prefs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const tokenFileName = "session.token"

// TokenCache stores the session token between runs so a session survives a
// client restart.
type TokenCache struct {
	dir string
}

func NewTokenCache(dir string) *TokenCache {
	return &TokenCache{dir: dir}
}

func (c *TokenCache) path() string {
	return filepath.Join(c.dir, tokenFileName)
}

// Save writes the token with owner-only permissions.
func (c *TokenCache) Save(token string) error {
	if err := os.MkdirAll(c.dir, 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	if err := os.WriteFile(c.path(), []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	return nil
}

// Load returns the cached token, or "" when none is stored.
func (c *TokenCache) Load() (string, error) {
	b, err := os.ReadFile(c.path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("read token: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}

// Delete removes the cached token. Missing file is not an error.
func (c *TokenCache) Delete() error {
	if err := os.Remove(c.path()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove token: %w", err)
	}
	return nil
}
