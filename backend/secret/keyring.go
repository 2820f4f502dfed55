package secret

import (
	"encoding/json"
	"errors"

	"github.com/zalando/go-keyring"
)

const keychainService = "deepagents"

var ErrSecretNotFound = errors.New("secret not found")

func EncryptionKey() string {
	return "encryption/keyset"
}

// APIToken is the key under which the CLI keeps the access token of a context.
func APIToken(contextName string) string {
	return "token/" + contextName
}

func GetSecret[T any](key string) (*T, error) {
	secret, err := keyring.Get(keychainService, key)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, ErrSecretNotFound
		}
		return nil, err
	}
	var result T
	if err := json.Unmarshal([]byte(secret), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func SetSecret[T any](key string, secret *T) error {
	secretBytes, err := json.Marshal(secret)
	if err != nil {
		return err
	}
	return keyring.Set(keychainService, key, string(secretBytes))
}

func DeleteSecret(key string) error {
	err := keyring.Delete(keychainService, key)
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrSecretNotFound
	}
	return err
}
