package token

import (
	"errors"

	"github.com/zalando/go-keyring"
)

const (
	// KeyringService identifies this app in the platform keychain
	KeyringService = "com.shortbar.shortbar"

	// KeyringAccount is the account key the token is stored under
	KeyringAccount = "api-token"
)

// keyringBackend stores the secret in the OS keychain (macOS Keychain,
// Secret Service on Linux, Credential Manager on Windows). The secret is
// encrypted at rest and only readable while the session is unlocked.
type keyringBackend struct {
	service string
	account string
}

// SystemBackend returns the platform keychain backend.
func SystemBackend() Backend {
	return &keyringBackend{service: KeyringService, account: KeyringAccount}
}

func (b *keyringBackend) Set(secret string) error {
	return keyring.Set(b.service, b.account, secret)
}

func (b *keyringBackend) Get() (string, error) {
	secret, err := keyring.Get(b.service, b.account)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	return secret, nil
}

func (b *keyringBackend) Delete() error {
	err := keyring.Delete(b.service, b.account)
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
