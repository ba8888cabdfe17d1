package fetcher

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"ringkas/internal/resilience/circuitbreaker"
	"ringkas/internal/usecase/fetch"
)

// httpClient performs validated, size-limited GET requests through a
// circuit breaker. It is shared by the page and transcript fetchers.
type httpClient struct {
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	config         ContentFetchConfig
}

// response is a fully read response body plus the URL it was served from
// after redirects.
type response struct {
	Body        []byte
	FinalURL    *url.URL
	ContentType string
}

func newHTTPClient(config ContentFetchConfig, cbConfig circuitbreaker.Config) *httpClient {
	// Requests rejected on our side say nothing about the remote's health.
	cbConfig.IsSuccessful = func(err error) bool {
		return err == nil ||
			errors.Is(err, fetch.ErrInvalidURL) ||
			errors.Is(err, fetch.ErrPrivateIP) ||
			errors.Is(err, fetch.ErrBodyTooLarge) ||
			errors.Is(err, fetch.ErrTooManyRedirects) ||
			errors.Is(err, context.Canceled)
	}

	c := &httpClient{
		circuitBreaker: circuitbreaker.New(cbConfig),
		config:         config,
	}

	c.client = &http.Client{
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) > c.config.MaxRedirects {
				return fmt.Errorf("%w: %d redirects", fetch.ErrTooManyRedirects, len(via))
			}
			if _, err := validateURL(req.Context(), req.URL.String(), c.config.DenyPrivateIPs); err != nil {
				return fmt.Errorf("redirect target validation failed: %w", err)
			}
			return nil
		},
	}

	return c
}

// get validates rawURL, then fetches it through the circuit breaker.
func (c *httpClient) get(ctx context.Context, rawURL, accept string) (*response, error) {
	if _, err := validateURL(ctx, rawURL, c.config.DenyPrivateIPs); err != nil {
		return nil, err
	}

	return circuitbreaker.Do(c.circuitBreaker, func() (*response, error) {
		return c.doGet(ctx, rawURL, accept)
	})
}

func (c *httpClient) doGet(ctx context.Context, rawURL, accept string) (*response, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", fetch.ErrInvalidURL, err)
	}
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept-Language", "id-ID,id;q=0.9,en;q=0.8")
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, fmt.Errorf("%w: request exceeded %v", fetch.ErrTimeout, c.config.Timeout)
		}
		var urlErr *url.Error
		if errors.As(err, &urlErr) && (errors.Is(urlErr.Err, fetch.ErrTooManyRedirects) ||
			errors.Is(urlErr.Err, fetch.ErrPrivateIP) || errors.Is(urlErr.Err, fetch.ErrInvalidURL)) {
			return nil, urlErr.Err
		}
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s", fetch.ErrUnexpectedStatus, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.config.MaxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(body)) > c.config.MaxBodySize {
		return nil, fmt.Errorf("%w: response exceeds limit of %d bytes", fetch.ErrBodyTooLarge, c.config.MaxBodySize)
	}

	return &response{
		Body:        body,
		FinalURL:    resp.Request.URL,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}
