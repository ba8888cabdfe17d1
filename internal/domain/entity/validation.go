package entity

import (
	"fmt"
	"net/url"
)

const (
	// maxURLLength bounds URLs accepted from callers.
	maxURLLength = 2048

	maxQuestionLength = 1000
)

// ValidateURL checks that rawURL is an absolute http(s) URL with a host.
// Network-level checks (DNS, private ranges) happen in the fetcher.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return &ValidationError{Field: "url", Message: "url is required"}
	}
	if len(rawURL) > maxURLLength {
		return &ValidationError{
			Field:   "url",
			Message: fmt.Sprintf("must not exceed %d characters", maxURLLength),
		}
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return &ValidationError{Field: "url", Message: "cannot be parsed"}
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return &ValidationError{Field: "url", Message: "must use http or https scheme"}
	}
	if parsedURL.Hostname() == "" {
		return &ValidationError{Field: "url", Message: "must have a valid host"}
	}
	return nil
}

// ValidateQuestion bounds the length of a follow-up question.
func ValidateQuestion(question string) error {
	if len([]rune(question)) > maxQuestionLength {
		return &ValidationError{
			Field:   "question",
			Message: fmt.Sprintf("must not exceed %d characters", maxQuestionLength),
		}
	}
	return nil
}
