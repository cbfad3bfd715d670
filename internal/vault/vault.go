// Package vault provides authenticated encryption for stored channel
// credentials. A single master secret is hashed into a fixed AES-256 key at
// construction time; every secret column in the credential store passes
// through Encrypt/Decrypt, never around them.
package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

// NonceSize is the standard 96-bit AES-GCM nonce length.
const NonceSize = 12

// ErrDecryptionFailed is returned whenever a ciphertext cannot be recovered:
// wrong master secret, corruption, truncation or tampering. It is the single
// failure mode the vault reports for bad ciphertexts; callers are expected to
// degrade to "secret absent" rather than crash.
var ErrDecryptionFailed = errors.New("decryption failed")

// Vault performs symmetric encryption of credential secrets. The zero value
// is not usable; construct with New. A Vault is safe for concurrent use.
type Vault struct {
	aead cipher.AEAD
}

// New derives an AES-256 key from masterSecret (sha256, deterministic) and
// returns a ready-to-use Vault. The derivation happens exactly once; the
// resulting AEAD is shared read-only by all callers.
func New(masterSecret string) (*Vault, error) {
	key := sha256.Sum256([]byte(masterSecret))

	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("vault init: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("vault init: %w", err)
	}

	return &Vault{aead: aead}, nil
}

// Encrypt seals plaintext into a text envelope: base64(nonce || ciphertext).
// A nil input means "no secret set" and passes through as nil.
func (v *Vault) Encrypt(plaintext *string) (*string, error) {
	if plaintext == nil {
		return nil, nil
	}
	sealed, err := v.EncryptString(*plaintext)
	if err != nil {
		return nil, err
	}
	return &sealed, nil
}

// Decrypt opens an envelope produced by Encrypt. A nil input passes through
// as nil. Any undecipherable input yields ErrDecryptionFailed.
func (v *Vault) Decrypt(ciphertext *string) (*string, error) {
	if ciphertext == nil {
		return nil, nil
	}
	opened, err := v.DecryptString(*ciphertext)
	if err != nil {
		return nil, err
	}
	return &opened, nil
}

// EncryptString seals a single string value.
func (v *Vault) EncryptString(plaintext string) (string, error) {
	nonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("nonce generation: %w", err)
	}

	// Seal appends the ciphertext to the nonce so the envelope stays a
	// single opaque blob.
	sealed := v.aead.Seal(nonce, nonce, []byte(plaintext), nil)

	return base64.StdEncoding.EncodeToString(sealed), nil
}

// DecryptString opens a single envelope string.
func (v *Vault) DecryptString(ciphertext string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", ErrDecryptionFailed
	}
	if len(raw) < NonceSize {
		return "", ErrDecryptionFailed
	}

	nonce, sealed := raw[:NonceSize], raw[NonceSize:]

	plaintext, err := v.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", ErrDecryptionFailed
	}

	return string(plaintext), nil
}
