package secrets

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/zalando/go-keyring"

	"jobtracker/internal/config"
)

const (
	// KeyringService groups the app's secrets in the OS keychain.
	KeyringService = "jobtracker"
)

var ErrTokenNotFound = errors.New("api token not found")

// GetAPIToken prefers a token set in config (or JOBTRACKER_API_TOKEN) and
// falls back to the keychain. An absent token is reported as
// ErrTokenNotFound; callers usually treat that as "no auth".
func GetAPIToken(cfg config.Config) (string, error) {
	if tok := strings.TrimSpace(cfg.API.Token); tok != "" {
		return tok, nil
	}
	tok, err := keyring.Get(KeyringService, APIKeyringAccount(cfg))
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrTokenNotFound
	}
	if err != nil {
		return "", fmt.Errorf("read keychain: %w", err)
	}
	if strings.TrimSpace(tok) == "" {
		return "", ErrTokenNotFound
	}
	return tok, nil
}

func SetAPIToken(cfg config.Config, token string) error {
	if strings.TrimSpace(token) == "" {
		return errors.New("token is empty")
	}
	return keyring.Set(KeyringService, APIKeyringAccount(cfg), token)
}

func DeleteAPIToken(cfg config.Config) error {
	err := keyring.Delete(KeyringService, APIKeyringAccount(cfg))
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

// APIKeyringAccount is keyring_account when set, else derived from the API
// host so tokens for different backends do not collide.
func APIKeyringAccount(cfg config.Config) string {
	if acct := strings.TrimSpace(cfg.API.KeyringAccount); acct != "" {
		return acct
	}
	host := cfg.API.BaseURL
	if u, err := url.Parse(cfg.API.BaseURL); err == nil && u.Host != "" {
		host = u.Host
	}
	return fmt.Sprintf("jobtracker:api:%s", host)
}
