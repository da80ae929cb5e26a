package domain

import "errors"

var (
	ErrUnauthorized      = errors.New("session unauthorized")
	ErrSessionNotFound   = errors.New("session not found")
	ErrSessionExpired    = errors.New("session expired")
	ErrMalformedResponse = errors.New("malformed session response")
	ErrNoCredential      = errors.New("no stored session credential")
	ErrSecretNotFound    = errors.New("secret not found")
)
