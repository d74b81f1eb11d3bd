package gateway

import (
	"errors"
	"regexp"
)

// Account validation rules, enforced locally before any network call.
const (
	MinUsernameLen = 3
	MaxUsernameLen = 50
	MinPasswordLen = 6
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	emailPattern    = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)

	ErrInvalidUsername = errors.New("username must be 3-50 characters, alphanumeric with _ or -")
	ErrInvalidEmail    = errors.New("please provide a valid email")
	ErrInvalidPassword = errors.New("password must be at least 6 characters")
)

// Validate checks a registration payload against the account rules.
func (r RegisterRequest) Validate() error {
	if len(r.Username) < MinUsernameLen || len(r.Username) > MaxUsernameLen || !usernamePattern.MatchString(r.Username) {
		return ErrInvalidUsername
	}
	if !emailPattern.MatchString(r.Email) {
		return ErrInvalidEmail
	}
	if len(r.Password) < MinPasswordLen {
		return ErrInvalidPassword
	}
	return nil
}

// Validate checks a login payload.
func (r LoginRequest) Validate() error {
	if !emailPattern.MatchString(r.Email) {
		return ErrInvalidEmail
	}
	if r.Password == "" {
		return ErrInvalidPassword
	}
	return nil
}
