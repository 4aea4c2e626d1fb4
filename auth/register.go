package auth

import "errors"

// MinPasswordLength is the client-side minimum before registration is sent.
const MinPasswordLength = 8

// Registration form errors, surfaced as transient notices
var (
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	ErrPasswordMismatch = errors.New("passwords do not match")
)

// ValidateRegistration checks the password rules before the register call
// goes out. Server-side validation still applies; this only catches the
// obvious cases without a round trip.
func ValidateRegistration(password, confirm string) error {
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if password != confirm {
		return ErrPasswordMismatch
	}
	return nil
}
