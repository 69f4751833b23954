package wiki

import "errors"

// Sentinel errors for the fetch, validation, and endpoint-resolution
// contracts. All are wrapped with request context (usually the offending
// query string) before being returned; check with errors.Is.
var (
	// ErrEmptyResponse is returned when a cached response is empty or absent.
	ErrEmptyResponse = errors.New("empty response")

	// ErrMalformedResponse is returned when a response body does not parse
	// as JSON.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrAPIError is returned when a parsed response reports an API-level
	// error object, or when a source-specific acceptance check fails (a
	// parse result without its top-level key, a Wikidata "-1" entity).
	ErrAPIError = errors.New("api error")

	// ErrNotFound is returned for an explicit 404 status.
	ErrNotFound = errors.New("not found")

	// ErrMissingTitle is returned when an operation needs a title and none
	// is available.
	ErrMissingTitle = errors.New("need a title")

	// ErrConflictingTitle is returned when an endpoint path carries a title
	// that differs from the separately supplied one.
	ErrConflictingTitle = errors.New("titles conflict")
)
