package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	keySize    = 32
	nonceSize  = 12
	kdfRounds  = 4096
	saltLength = 16
)

// EncryptionManagerInterface defines encryption and decryption methods.
type EncryptionManagerInterface interface {
	Encrypt(plaintext []byte) ([]byte, error)
	Decrypt(ciphertext []byte) ([]byte, error)
}

// EncryptionManager implements AES-GCM encryption. The key is derived from a
// machine secret with PBKDF2 so the secret file does not need to be exactly
// key-sized random bytes.
type EncryptionManager struct {
	aesgcm cipher.AEAD
}

// NewEncryptionManager derives an AES-256 key from the given secret and salt
// and prepares the AES-GCM cipher.
func NewEncryptionManager(secret, salt []byte) (*EncryptionManager, error) {
	if len(secret) == 0 {
		return nil, errors.New("encryption secret must not be empty")
	}
	if len(salt) < saltLength {
		return nil, fmt.Errorf("encryption salt too short: got %d bytes, want at least %d", len(salt), saltLength)
	}

	key := pbkdf2.Key(secret, salt, kdfRounds, keySize, sha256.New)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher block: %w", err)
	}

	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES-GCM: %w", err)
	}

	return &EncryptionManager{aesgcm: aesgcm}, nil
}

// Encrypt encrypts plaintext using AES-GCM. The nonce is prepended to the
// returned ciphertext.
func (e *EncryptionManager) Encrypt(plaintext []byte) ([]byte, error) {
	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	return e.aesgcm.Seal(nonce[:], nonce[:], plaintext, nil), nil
}

// Decrypt decrypts ciphertext produced by Encrypt.
func (e *EncryptionManager) Decrypt(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) < nonceSize {
		return nil, errors.New("ciphertext too short: must include nonce and encrypted data")
	}

	nonce := ciphertext[:nonceSize]
	encryptedData := ciphertext[nonceSize:]

	plaintext, err := e.aesgcm.Open(nil, nonce, encryptedData, nil)
	if err != nil {
		return nil, fmt.Errorf("decryption failed: %w", err)
	}

	return plaintext, nil
}
