// Package crypto seals backup files with a passphrase using AES-256-GCM and a
// PBKDF2-derived key.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// SaltSize is the length of the random salt stored alongside each sealed backup.
	SaltSize   = 16
	iterations = 100000
	keySize    = 32 // AES-256
)

var (
	// ErrPassphraseRequired is returned when an encryptor is requested without a passphrase.
	ErrPassphraseRequired = errors.New("passphrase is required")
	// ErrDecrypt is returned when ciphertext cannot be opened with the derived key,
	// which almost always means the passphrase is wrong.
	ErrDecrypt = errors.New("decryption failed (wrong passphrase?)")
)

// Encryptor handles encryption and decryption with a key derived from a passphrase and salt
type Encryptor struct {
	key []byte
}

// NewSalt returns SaltSize random bytes.
func NewSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("generating salt: %w", err)
	}
	return salt, nil
}

// NewEncryptor derives the AES key from passphrase and salt using PBKDF2-SHA256.
func NewEncryptor(passphrase string, salt []byte) (*Encryptor, error) {
	if passphrase == "" {
		return nil, ErrPassphraseRequired
	}
	if len(salt) < SaltSize {
		return nil, fmt.Errorf("salt must be at least %d bytes, got %d", SaltSize, len(salt))
	}

	key := pbkdf2.Key([]byte(passphrase), salt, iterations, keySize, sha256.New)
	return &Encryptor{key: key}, nil
}

func (e *Encryptor) aead() (cipher.AEAD, error) {
	block, err := aes.NewCipher(e.key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Seal encrypts plaintext with AES-GCM. The random nonce is prepended to the result.
func (e *Encryptor) Seal(plaintext []byte) ([]byte, error) {
	gcm, err := e.aead()
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// Open decrypts data produced by Seal.
func (e *Encryptor) Open(data []byte) ([]byte, error) {
	gcm, err := e.aead()
	if err != nil {
		return nil, err
	}

	nonceSize := gcm.NonceSize()
	if len(data) < nonceSize {
		return nil, errors.New("ciphertext too short")
	}

	nonce, cipherData := data[:nonceSize], data[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, cipherData, nil)
	if err != nil {
		return nil, ErrDecrypt
	}

	return plaintext, nil
}

// Encrypt seals plaintext and encodes the result as standard base64.
func (e *Encryptor) Encrypt(plaintext []byte) (string, error) {
	sealed, err := e.Seal(plaintext)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt decodes base64 ciphertext produced by Encrypt and opens it.
func (e *Encryptor) Decrypt(ciphertext string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return nil, fmt.Errorf("decoding ciphertext: %w", err)
	}
	return e.Open(data)
}
