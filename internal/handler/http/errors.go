package http

import "errors"

// Sentinel errors used by the authentication middleware when parsing the
// "Authorization" HTTP header. Callers can match against them with [errors.Is].
var (
	// ErrEmptyAuthorizationHeader is returned when the incoming request does
	// not include an "Authorization" header at all.
	ErrEmptyAuthorizationHeader = errors.New("empty `Authorization` header")

	// ErrInvalidAuthorizationHeader is returned when the header is present
	// but is not a well-formed bearer scheme value.
	ErrInvalidAuthorizationHeader = errors.New("invalid `Authorization` header")

	// ErrInvalidToken is returned when the presented bearer token does not
	// match the configured credential.
	ErrInvalidToken = errors.New("invalid token")

	// errInvalidID is returned for URL path ids that are not integers.
	errInvalidID = errors.New("invalid id in request path")

	// errInvalidJSON is returned when a request body cannot be decoded.
	errInvalidJSON = errors.New("invalid JSON was passed")

	// errMissingName is returned when the tag lookup query parameter is
	// absent.
	errMissingName = errors.New("missing `name` query parameter")
)
