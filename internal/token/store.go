// Package token persists the Shortcut API token in the platform keychain,
// fronted by an in-memory cache so the client does not hit the keychain on
// every request. It also migrates tokens left behind by the old file-based
// storage.
package token

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// ErrNotFound is returned by a Backend when no secret is stored.
var ErrNotFound = errors.New("token not found")

// Backend is the protected secret store behind the Store. Implementations
// must return ErrNotFound (possibly wrapped) from Get and Delete when no
// secret exists.
type Backend interface {
	Set(secret string) error
	Get() (string, error)
	Delete() error
}

// Store holds a single API token with an in-memory cache. All operations
// hold one lock across their full cache+backend sequence, so a reader can
// never observe a half-applied save or delete.
type Store struct {
	mu      sync.Mutex
	backend Backend
	logger  *slog.Logger

	cached    string
	hasCached bool
}

// NewStore creates a Store over the given backend and migrates any token
// found at legacyPath into it. Migration failures are logged, never fatal.
func NewStore(backend Backend, legacyPath string, logger *slog.Logger) *Store {
	s := &Store{
		backend: backend,
		logger:  logger,
	}
	s.migrateLegacyFile(legacyPath)
	return s
}

// Save overwrites any stored token. The backend entry is deleted and
// re-inserted rather than updated in place. The cache is only touched on
// success.
func (s *Store) Save(secret string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(secret)
}

func (s *Store) save(secret string) bool {
	if err := s.backend.Delete(); err != nil && !errors.Is(err, ErrNotFound) {
		s.logger.Error("failed to clear existing token", "err", err)
	}
	if err := s.backend.Set(secret); err != nil {
		s.logger.Error("failed to save token", "err", err)
		return false
	}
	s.cached = secret
	s.hasCached = true
	return true
}

// Token returns the stored token. The cached value is served when present;
// otherwise one backend lookup populates the cache. Backend errors other
// than "not found" are logged but still surface as absent — reading never
// fails the caller.
func (s *Store) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hasCached {
		return s.cached, true
	}

	secret, err := s.backend.Get()
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Error("failed to read token", "err", err)
		}
		return "", false
	}

	s.cached = secret
	s.hasCached = true
	return secret, true
}

// Delete removes the stored token. The cache is cleared unconditionally;
// "already absent" counts as success.
func (s *Store) Delete() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cached = ""
	s.hasCached = false

	if err := s.backend.Delete(); err != nil {
		if errors.Is(err, ErrNotFound) {
			return true
		}
		s.logger.Error("failed to delete token", "err", err)
		return false
	}
	return true
}

// HasToken reports whether a token is stored.
func (s *Store) HasToken() bool {
	_, ok := s.Token()
	return ok
}

// DefaultLegacyPath returns the file the old releases stored the token in.
func DefaultLegacyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, "Library", "Application Support", "shortcut-menubar", "api-token")
}

// migrateLegacyFile moves a plaintext token file into the backend. The file
// is zero-filled before removal so the secret does not linger on disk. A
// failed backend save leaves the file intact for retry on next startup.
func (s *Store) migrateLegacyFile(path string) {
	if path == "" {
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Error("failed to read legacy token file", "path", path, "err", err)
		}
		return
	}

	s.logger.Info("found legacy file-based token, migrating")

	secret := strings.TrimSpace(string(data))
	if secret == "" {
		s.removeLegacyFile(path, nil)
		return
	}

	s.mu.Lock()
	saved := s.save(secret)
	s.mu.Unlock()

	if !saved {
		s.logger.Error("failed to migrate token, keeping legacy file", "path", path)
		return
	}

	s.removeLegacyFile(path, data)
	s.logger.Info("migrated token and removed legacy file")
}

func (s *Store) removeLegacyFile(path string, data []byte) {
	if len(data) > 0 {
		if err := os.WriteFile(path, make([]byte, len(data)), 0o600); err != nil {
			s.logger.Error("failed to zero legacy token file", "path", path, "err", err)
		}
	}
	if err := os.Remove(path); err != nil {
		s.logger.Error("failed to remove legacy token file", "path", path, "err", err)
		return
	}
	// Remove the parent directory too when this file was the last thing in it.
	_ = os.Remove(filepath.Dir(path))
}
