package encryption

import (
	"database/sql/driver"
	"fmt"
)

// EncryptedField wraps encrypted data in the database. Scanning keeps the
// ciphertext; DecryptValue recovers the plaintext on demand. T can be any
// serializable type.
type EncryptedField[T any] struct {
	value     T
	encrypted []byte
	valid     bool // false if NULL
	dirty     bool // true if value changed but not yet encrypted
}

// Set updates the plaintext value and marks the field dirty. A dirty field
// must pass through Encrypt before it can be written.
func (e *EncryptedField[T]) Set(value T) {
	e.value = value
	e.valid = true
	e.dirty = true
	e.encrypted = nil
}

// IsValid returns whether the field contains a non-NULL value.
func (e EncryptedField[T]) IsValid() bool {
	return e.valid
}

// Scan implements sql.Scanner for reading from the database.
// The encrypted data is stored but not decrypted until explicitly requested.
func (e *EncryptedField[T]) Scan(src any) error {
	if src == nil {
		*e = EncryptedField[T]{}
		return nil
	}

	switch v := src.(type) {
	case []byte:
		e.encrypted = make([]byte, len(v))
		copy(e.encrypted, v)
		e.valid = true
		e.dirty = false
		return nil
	case string:
		e.encrypted = []byte(v)
		e.valid = true
		e.dirty = false
		return nil
	default:
		return fmt.Errorf("cannot scan %T into EncryptedField", src)
	}
}

// Value implements driver.Valuer for writing to the database.
// Returns the encrypted bytes, or nil if NULL.
func (e EncryptedField[T]) Value() (driver.Value, error) {
	if !e.valid {
		return nil, nil
	}

	if e.dirty {
		return nil, fmt.Errorf("EncryptedField contains unencrypted data - must encrypt before writing to database")
	}

	return e.encrypted, nil
}

// String returns a string representation (for debugging).
func (e EncryptedField[T]) String() string {
	if !e.valid {
		return "NULL"
	}
	if e.dirty {
		return "[unencrypted]"
	}
	return fmt.Sprintf("[encrypted: %d bytes]", len(e.encrypted))
}
