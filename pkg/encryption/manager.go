package encryption

import (
	"encoding/json"
	"fmt"
)

// Manager handles encryption and decryption operations.
type Manager struct {
	cipher *Cipher
}

// NewManager creates a new encryption manager with the specified cipher.
func NewManager(cipher *Cipher) *Manager {
	return &Manager{cipher: cipher}
}

// NewManagerWithChaCha20Poly1305 creates a manager using ChaCha20-Poly1305 (recommended default).
func NewManagerWithChaCha20Poly1305(key []byte) (*Manager, error) {
	cipher, err := NewChaCha20Poly1305Cipher(key)
	if err != nil {
		return nil, err
	}
	return NewManager(cipher), nil
}

// NewManagerWithAES256GCM creates a manager using AES-256-GCM.
func NewManagerWithAES256GCM(key []byte) (*Manager, error) {
	cipher, err := NewAES256GCMCipher(key)
	if err != nil {
		return nil, err
	}
	return NewManager(cipher), nil
}

// CipherType returns the cipher type used by this manager.
func (m *Manager) CipherType() CipherType {
	return m.cipher.Type()
}

// Encrypt encrypts a value of any serializable type and returns an EncryptedField.
func Encrypt[T any](m *Manager, value T) (EncryptedField[T], error) {
	plaintext, err := json.Marshal(value)
	if err != nil {
		return EncryptedField[T]{}, fmt.Errorf("marshal value: %w", err)
	}

	ciphertext, err := m.cipher.Encrypt(plaintext)
	if err != nil {
		return EncryptedField[T]{}, fmt.Errorf("encrypt: %w", err)
	}

	return EncryptedField[T]{
		value:     value,
		encrypted: ciphertext,
		valid:     true,
	}, nil
}

// EncryptNull creates a NULL EncryptedField.
func EncryptNull[T any]() EncryptedField[T] {
	return EncryptedField[T]{}
}

// DecryptValue decrypts an EncryptedField and returns its value.
func DecryptValue[T any](m *Manager, field *EncryptedField[T]) (T, error) {
	var zero T
	if !field.valid {
		return zero, fmt.Errorf("cannot decrypt NULL field")
	}
	if field.dirty {
		// Set after scan; already holds the plaintext value.
		return field.value, nil
	}

	plaintext, err := m.cipher.Decrypt(field.encrypted)
	if err != nil {
		return zero, fmt.Errorf("decrypt: %w", err)
	}

	var value T
	if err := json.Unmarshal(plaintext, &value); err != nil {
		return zero, fmt.Errorf("unmarshal value: %w", err)
	}

	field.value = value
	return value, nil
}
