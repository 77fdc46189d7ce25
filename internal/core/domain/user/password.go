package user

import (
	"fmt"
	"unicode/utf8"
)

const (
	MinPasswordLength = 8
	MaxPasswordLength = 256
)

type PasswordHasher interface {
	HashPassword(password RawPassword) (PasswordHash, error)
	ValidatePassword(password RawPassword, hash PasswordHash) bool
}

// ValidateRawPassword applies the password policy shared by every flow that sets a password.
func ValidateRawPassword(password RawPassword) error {
	length := utf8.RuneCountInString(string(password))
	if length < MinPasswordLength {
		return fmt.Errorf("%w: must be at least %d characters long", ErrInvalidPassword, MinPasswordLength)
	}
	if length > MaxPasswordLength {
		return fmt.Errorf("%w: must be at most %d characters long", ErrInvalidPassword, MaxPasswordLength)
	}
	return nil
}
