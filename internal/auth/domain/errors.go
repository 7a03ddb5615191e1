package domain

import "errors"

var ErrUserNotFound = errors.New("user not found")

// AuthError is a rejection from the identity provider. Message is the
// provider's text, unchanged.
type AuthError struct {
	Op      string
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	return e.Message
}

func (e *AuthError) Unwrap() error {
	return e.Err
}
