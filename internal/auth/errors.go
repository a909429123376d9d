package auth

import "errors"

// Expected failure outcomes of the auth flows. Handlers map these to HTTP
// status codes; anything else is an internal fault.
var (
	// ErrEmailTaken signals a registration against an email that already
	// has an account.
	ErrEmailTaken = errors.New("email is already in use")

	// ErrInvalidCredentials covers both unknown email and wrong password
	// so login failures cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrPasswordMismatch signals that a password update's confirmation
	// did not match.
	ErrPasswordMismatch = errors.New("password doesn't match")

	// ErrTokenExpired signals a well-formed, correctly signed token past
	// its expiry.
	ErrTokenExpired = errors.New("token has expired")

	// ErrTokenInvalid covers every other token verification failure.
	ErrTokenInvalid = errors.New("invalid token")
)
