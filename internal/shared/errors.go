package shared

import "errors"

var (
	ErrNotImplemented = errors.New("not implemented")

	// Configuration errors
	ErrMissingConfig = errors.New("configuration not found")
	ErrInvalidConfig = errors.New("invalid configuration")

	// Authentication errors
	ErrUnauthorized = errors.New("not authorized, no valid session")
	ErrForbidden    = errors.New("not allowed to modify this resource")
	ErrLocalOnly    = errors.New("no session credential, operating in local-only mode")

	// Catalog and store errors
	ErrAPIRequest         = errors.New("API request failed")
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrNotFound           = errors.New("not found")
	ErrPlaylistNotFound   = errors.New("playlist not found")
	ErrTrackNotFound      = errors.New("track not found")
	ErrAlreadyExists      = errors.New("already exists")

	// Playback and local state errors
	ErrUnplayable       = errors.New("track has no playable source")
	ErrPlaybackRejected = errors.New("playback rejected")
	ErrMalformedState   = errors.New("malformed persisted state")

	// Input validation errors
	ErrInvalidInput    = errors.New("invalid input")
	ErrMissingArgument = errors.New("missing required argument")
	ErrInvalidArgument = errors.New("invalid argument")
)
