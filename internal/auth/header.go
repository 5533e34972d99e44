package auth

import (
	"errors"
	"strings"
)

var (
	// ErrMissingAuthorization means no Authorization header was sent
	ErrMissingAuthorization = errors.New("missing authorization header")

	// ErrBadAuthorization means the header is not "Bearer <jwt>"
	ErrBadAuthorization = errors.New("bad auth header")
)

const bearerPrefix = "Bearer "

// BearerToken extracts the token from an Authorization header value.
// Surrounding spaces are ignored and the token must have three dot
// separated segments.
func BearerToken(raw string) (string, error) {
	trimmed := strings.Trim(raw, " ")
	if trimmed == "" {
		return "", ErrMissingAuthorization
	}
	if len(trimmed) <= len(bearerPrefix) || !strings.HasPrefix(trimmed, bearerPrefix) {
		return "", ErrBadAuthorization
	}
	token := trimmed[len(bearerPrefix):]
	if strings.Count(token, ".") != 2 {
		return "", ErrBadAuthorization
	}
	return token, nil
}
