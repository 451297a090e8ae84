// Package crypto implements the field cipher protecting monetary values
// at rest. Amounts are serialized to decimal text and sealed with
// AES-256-GCM; the database only ever sees the resulting tokens.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"strconv"
)

// FieldCipher encrypts and decrypts monetary values with a process-wide
// symmetric key.
type FieldCipher struct {
	aead cipher.AEAD
}

// New creates a FieldCipher from the configured secret. The key is always
// derived to 32 bytes so the cipher is not sensitive to secret length.
func New(secret string) (*FieldCipher, error) {
	if secret == "" {
		return nil, fmt.Errorf("field cipher secret is empty")
	}

	key := sha256.Sum256([]byte(secret))
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("new cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("new gcm: %w", err)
	}

	return &FieldCipher{aead: aead}, nil
}

// Encrypt seals an amount into an opaque base64 token (nonce||ciphertext).
// A nil amount yields a nil token.
func (f *FieldCipher) Encrypt(amount *int64) (*string, error) {
	if amount == nil {
		return nil, nil
	}

	nonce := make([]byte, f.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("nonce: %w", err)
	}

	plaintext := []byte(strconv.FormatInt(*amount, 10))
	sealed := f.aead.Seal(nonce, nonce, plaintext, nil)
	token := base64.RawURLEncoding.EncodeToString(sealed)
	return &token, nil
}

// Decrypt reverses Encrypt. It returns nil for a nil token and nil on any
// failure: malformed token, wrong key, or non-numeric plaintext. Callers
// must treat nil as "value unavailable" and abort the enclosing read,
// never substituting a numeric default.
func (f *FieldCipher) Decrypt(token *string) *int64 {
	if token == nil {
		return nil
	}

	data, err := base64.RawURLEncoding.DecodeString(*token)
	if err != nil {
		return nil
	}

	ns := f.aead.NonceSize()
	if len(data) < ns {
		return nil
	}
	nonce, ciphertext := data[:ns], data[ns:]

	plaintext, err := f.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil
	}

	amount, err := strconv.ParseInt(string(plaintext), 10, 64)
	if err != nil {
		return nil
	}
	return &amount
}
