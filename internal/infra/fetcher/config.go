package fetcher

import (
	"fmt"
	"time"

	pkgconfig "ringkas/pkg/config"
)

// Extractor selects how visible text is pulled out of a fetched page.
type Extractor string

const (
	// ExtractorBody returns all visible text of <body> after dropping scripts and styles.
	ExtractorBody Extractor = "body"
	// ExtractorReadability runs Mozilla Readability and falls back to body text
	// when no article could be isolated.
	ExtractorReadability Extractor = "readability"
)

// ContentFetchConfig holds the configuration for page and transcript fetching.
//
// Security settings:
//   - DenyPrivateIPs: Prevents SSRF attacks by blocking private IP addresses
//   - MaxBodySize: Prevents memory exhaustion from oversized responses
//   - MaxRedirects: Prevents infinite redirect loops
//   - Timeout: Prevents resource starvation from slow servers
type ContentFetchConfig struct {
	// Timeout is the maximum duration for a single HTTP request.
	// Default: 10s
	Timeout time.Duration

	// MaxBodySize is the maximum HTTP response body size in bytes. It is
	// enforced while reading, not from the Content-Length header.
	// Default: 10485760 (10MB)
	MaxBodySize int64

	// MaxRedirects is the maximum number of HTTP redirects to follow.
	// Each redirect target is validated again.
	// Default: 5
	MaxRedirects int

	// DenyPrivateIPs blocks URLs resolving to loopback, private or link-local IPs.
	// Should always be true in production.
	// Default: true
	DenyPrivateIPs bool

	// Extractor selects the text extraction strategy.
	// Default: body
	Extractor Extractor

	// UserAgent is sent with every request.
	UserAgent string
}

// DefaultUserAgent identifies the fetcher to remote servers.
const DefaultUserAgent = "RingkasBot/1.0"

// DefaultConfig returns the default configuration for content fetching.
func DefaultConfig() ContentFetchConfig {
	return ContentFetchConfig{
		Timeout:        10 * time.Second,
		MaxBodySize:    10 * 1024 * 1024, // 10MB
		MaxRedirects:   5,
		DenyPrivateIPs: true,
		Extractor:      ExtractorBody,
		UserAgent:      DefaultUserAgent,
	}
}

// Validate checks if the configuration values are valid and safe.
//
// Validation rules:
//   - Timeout: 1s-2m
//   - MaxBodySize: 1KB-100MB
//   - MaxRedirects: 0-10
//   - Extractor: body or readability
func (c *ContentFetchConfig) Validate() error {
	if err := pkgconfig.ValidateDurationRange(c.Timeout, time.Second, 2*time.Minute); err != nil {
		return fmt.Errorf("timeout: %w", err)
	}

	if err := pkgconfig.ValidateIntRange(c.MaxBodySize, 1024, 100*1024*1024); err != nil {
		return fmt.Errorf("max body size: %w", err)
	}

	if err := pkgconfig.ValidateIntRange(c.MaxRedirects, 0, 10); err != nil {
		return fmt.Errorf("max redirects: %w", err)
	}

	switch c.Extractor {
	case ExtractorBody, ExtractorReadability:
	default:
		return fmt.Errorf("extractor must be %q or %q, got %q", ExtractorBody, ExtractorReadability, c.Extractor)
	}

	return nil
}

// LoadConfigFromEnv loads configuration from environment variables on top
// of DefaultConfig and validates the result.
//
// Environment variables:
//   - CONTENT_FETCH_TIMEOUT: duration string, e.g., "10s" (default: 10s)
//   - CONTENT_FETCH_MAX_BODY_SIZE: integer in bytes (default: 10485760)
//   - CONTENT_FETCH_MAX_REDIRECTS: integer (default: 5)
//   - CONTENT_FETCH_DENY_PRIVATE_IPS: "true" or "false" (default: true)
//   - CONTENT_FETCH_EXTRACTOR: "body" or "readability" (default: body)
//   - CONTENT_FETCH_USER_AGENT: string (default: RingkasBot/1.0)
func LoadConfigFromEnv() (ContentFetchConfig, error) {
	cfg := DefaultConfig()

	cfg.Timeout = pkgconfig.GetEnvDuration("CONTENT_FETCH_TIMEOUT", cfg.Timeout)
	cfg.MaxBodySize = pkgconfig.GetEnvInt64("CONTENT_FETCH_MAX_BODY_SIZE", cfg.MaxBodySize)
	cfg.MaxRedirects = pkgconfig.GetEnvInt("CONTENT_FETCH_MAX_REDIRECTS", cfg.MaxRedirects)
	cfg.DenyPrivateIPs = pkgconfig.GetEnvBool("CONTENT_FETCH_DENY_PRIVATE_IPS", cfg.DenyPrivateIPs)
	cfg.Extractor = Extractor(pkgconfig.GetEnvChoice("CONTENT_FETCH_EXTRACTOR", string(cfg.Extractor),
		string(ExtractorBody), string(ExtractorReadability)))
	cfg.UserAgent = pkgconfig.GetEnvString("CONTENT_FETCH_USER_AGENT", cfg.UserAgent)

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}
