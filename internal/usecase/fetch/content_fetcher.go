package fetch

import (
	"context"
	"errors"
)

// ContentFetcher fetches a web page and returns its visible text.
//
// Implementations must reject non-http(s) schemes, enforce size limits and
// timeouts, and validate every redirect target (SSRF prevention).
type ContentFetcher interface {
	// FetchContent returns the extracted plain text of the page at url.
	//
	// Errors:
	//   - ErrInvalidURL: URL format is invalid or uses unsupported scheme
	//   - ErrPrivateIP: URL resolves to a private IP address
	//   - ErrTooManyRedirects: Redirect chain exceeds configured maximum
	//   - ErrBodyTooLarge: Response body exceeds size limit
	//   - ErrTimeout: Request timed out
	//   - ErrEmptyContent: Page was fetched but contains no visible text
	//   - gobreaker.ErrOpenState: Circuit breaker is open
	FetchContent(ctx context.Context, url string) (string, error)
}

// TranscriptFetcher returns the caption text of a hosted video.
type TranscriptFetcher interface {
	// FetchTranscript returns all caption segments joined with single spaces.
	// ErrTranscriptUnavailable is returned when the video has no usable track.
	FetchTranscript(ctx context.Context, url string) (string, error)
}

// Sentinel errors for content fetching operations. They never cross the
// input resolver: callers above it only see the in-band failure sentences.
var (
	// ErrInvalidURL indicates the URL format is invalid or uses an unsupported scheme.
	// Only http:// and https:// schemes are supported.
	ErrInvalidURL = errors.New("invalid URL or unsupported scheme")

	// ErrPrivateIP indicates the URL resolves to a loopback, private or link-local address.
	ErrPrivateIP = errors.New("private IP access denied (SSRF prevention)")

	// ErrTooManyRedirects indicates the redirect chain exceeded the configured maximum.
	ErrTooManyRedirects = errors.New("too many redirects")

	// ErrBodyTooLarge indicates the response body exceeded the size limit.
	ErrBodyTooLarge = errors.New("response body too large")

	// ErrTimeout indicates the request exceeded the configured timeout.
	ErrTimeout = errors.New("request timeout")

	// ErrUnexpectedStatus indicates a non-200 response.
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")

	// ErrEmptyContent indicates the page was fetched but no visible text remained
	// after stripping scripts, styles and markup.
	ErrEmptyContent = errors.New("no visible text content")

	// ErrTranscriptUnavailable indicates the video page exposes no caption track
	// or the caption track could not be read.
	ErrTranscriptUnavailable = errors.New("transcript unavailable")
)
