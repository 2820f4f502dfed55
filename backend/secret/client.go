package secret

import (
	"bytes"
	"fmt"

	"github.com/google/uuid"
	"github.com/tink-crypto/tink-go/aead"
	"github.com/tink-crypto/tink-go/insecurecleartextkeyset"
	"github.com/tink-crypto/tink-go/keyset"
	"github.com/tink-crypto/tink-go/tink"
)

func GenerateKeyset() (*keyset.Handle, error) {
	return keyset.NewHandle(aead.AES256GCMKeyTemplate())
}

// Client seals small secrets such as tool credentials with AEAD.
type Client struct {
	aead tink.AEAD
}

func NewClient(keysetHandle *keyset.Handle) (*Client, error) {
	aeadPrimitive, err := aead.New(keysetHandle)
	if err != nil {
		return nil, fmt.Errorf("aead.New failed: %w", err)
	}

	return &Client{aead: aeadPrimitive}, nil
}

func (c *Client) Encrypt(plaintext []byte, associatedData []byte) ([]byte, error) {
	if plaintext == nil {
		return nil, fmt.Errorf("plaintext cannot be nil")
	}

	ciphertext, err := c.aead.Encrypt(plaintext, associatedData)
	if err != nil {
		return nil, fmt.Errorf("encryption failed: %w", err)
	}

	return ciphertext, nil
}

func (c *Client) Decrypt(ciphertext []byte, associatedData []byte) ([]byte, error) {
	if ciphertext == nil {
		return nil, fmt.Errorf("ciphertext cannot be nil")
	}

	plaintext, err := c.aead.Decrypt(ciphertext, associatedData)
	if err != nil {
		return nil, fmt.Errorf("decryption failed: %w", err)
	}

	return plaintext, nil
}

// ToolCredentials binds ciphertext to the tool it belongs to, so credentials
// copied onto another tool row fail to decrypt.
func ToolCredentials(toolID uuid.UUID) []byte {
	return []byte("tool/" + toolID.String())
}

func KeysetToJSON(handle *keyset.Handle) (string, error) {
	buf := new(bytes.Buffer)
	if err := insecurecleartextkeyset.Write(handle, keyset.NewJSONWriter(buf)); err != nil {
		return "", fmt.Errorf("failed to write keyset to JSON: %w", err)
	}
	return buf.String(), nil
}

func KeysetFromJSON(jsonKeyset string) (*keyset.Handle, error) {
	handle, err := insecurecleartextkeyset.Read(keyset.NewJSONReader(bytes.NewBufferString(jsonKeyset)))
	if err != nil {
		return nil, fmt.Errorf("failed to read keyset from JSON: %w", err)
	}
	return handle, nil
}
