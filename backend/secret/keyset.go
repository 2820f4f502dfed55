package secret

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/deepagents/control/shared/config"
	"github.com/spf13/afero"
	"github.com/tink-crypto/tink-go/keyset"
)

// LoadClient resolves the encryption keyset from, in order, the inline
// keyset, the keyset file or the OS keyring. Without any of them an
// ephemeral keyset is generated and credentials stored with it are lost on
// restart.
func LoadClient(fs afero.Fs, cfg config.SecretsConfig, logger *slog.Logger) (*Client, error) {
	handle, err := loadKeyset(fs, cfg, logger)
	if err != nil {
		return nil, err
	}
	return NewClient(handle)
}

func loadKeyset(fs afero.Fs, cfg config.SecretsConfig, logger *slog.Logger) (*keyset.Handle, error) {
	switch {
	case cfg.Keyset != "":
		return KeysetFromJSON(cfg.Keyset)

	case cfg.KeysetFile != "":
		data, err := afero.ReadFile(fs, cfg.KeysetFile)
		if err != nil {
			return nil, fmt.Errorf("read keyset file: %w", err)
		}
		return KeysetFromJSON(string(data))

	case cfg.UseKeyring:
		stored, err := GetSecret[string](EncryptionKey())
		if err == nil {
			logger.Debug("loading encryption key from keyring")
			return KeysetFromJSON(*stored)
		}
		if !errors.Is(err, ErrSecretNotFound) {
			return nil, err
		}

		logger.Debug("generating new encryption key")
		handle, err := GenerateKeyset()
		if err != nil {
			return nil, err
		}
		serialized, err := KeysetToJSON(handle)
		if err != nil {
			return nil, err
		}
		if err := SetSecret(EncryptionKey(), &serialized); err != nil {
			return nil, fmt.Errorf("store encryption key: %w", err)
		}
		return handle, nil

	default:
		logger.Warn("no encryption keyset configured, tool credentials will not survive a restart")
		return GenerateKeyset()
	}
}
