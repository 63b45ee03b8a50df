// Package catalog is the HTTP client for the upstream song catalog (a Saavn-compatible API).
//
// # Normalization
//
// The catalog returns the same song in several shapes: primaryArtists as a string or
// a list of artist objects, durations as numbers or strings, album as a name or an object,
// download links under "link" or "url". Every shape is mapped to [models.Track] here, and
// nothing past this package needs fallback chains.
//
// The playable URL is the download link with the highest kbps quality; the cover is the
// largest image. Titles arrive HTML-escaped and are unescaped.
//
// # Failure
//
// Methods never return nil collections. When the upstream is unreachable or answers with
// an unsuccessful envelope, they return an empty value together with an error wrapping
// [shared.ErrServiceUnavailable]. Callers may log the error and use the empty value.
// Requests are throttled by a token bucket and are never retried.
package catalog
