package secrets

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/zalando/go-keyring"
)

// KeyringService groups this app's secrets in the OS keychain.
const KeyringService = "handshake-autopilot"

// LoginPassword resolves the Handshake password: the config value wins, the
// keychain entry for the login email is the fallback.
func LoginPassword(configPassword, email string) (string, error) {
	if strings.TrimSpace(configPassword) != "" {
		return configPassword, nil
	}

	pw, err := keyring.Get(KeyringService, email)
	if err == nil && strings.TrimSpace(pw) != "" {
		return pw, nil
	}
	return "", errors.Errorf("login password not found in keychain for %s", email)
}

func SetLoginPassword(email, password string) error {
	if strings.TrimSpace(email) == "" {
		return errors.New("email is empty")
	}
	if strings.TrimSpace(password) == "" {
		return errors.New("password is empty")
	}
	return keyring.Set(KeyringService, email, password)
}

func DeleteLoginPassword(email string) error {
	if strings.TrimSpace(email) == "" {
		return errors.New("email is empty")
	}
	return keyring.Delete(KeyringService, email)
}
