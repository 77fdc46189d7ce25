package passwordreset

import "errors"

var (
	ErrEmptyEmail       = errors.New("empty email")
	ErrMissingToken     = errors.New("password reset token is missing")
	ErrTokenNotFound    = errors.New("password reset token not found")
	ErrTokenExpired     = errors.New("password reset token expired")
	ErrPasswordMismatch = errors.New("password and confirmation do not match")
	ErrPersistence      = errors.New("password reset persistence failure")
	ErrEmailDelivery    = errors.New("password reset email delivery failure")
)
