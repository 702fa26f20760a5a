package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")
	// ErrUserNotFound is returned when no user matches the lookup
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists is returned when registering an email that is already taken
	ErrUserExists = errors.New("user already exists")
	// ErrInvalidCredentials is returned when email/password authentication fails
	ErrInvalidCredentials = errors.New("incorrect username or password")
	// ErrInvalidToken is returned when an access or refresh token cannot be validated
	ErrInvalidToken = errors.New("could not validate credentials")
	// ErrInactiveUser is returned when a disabled user tries to act
	ErrInactiveUser = errors.New("inactive user")
	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")
)
