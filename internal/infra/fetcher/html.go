package fetcher

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"

	"ringkas/internal/observability/metrics"
	"ringkas/internal/resilience/circuitbreaker"
	"ringkas/internal/usecase/fetch"
)

// HTMLFetcher implements fetch.ContentFetcher for ordinary web pages.
//
// Thread safety: HTMLFetcher is safe for concurrent use.
type HTMLFetcher struct {
	http      *httpClient
	extractor Extractor
}

var _ fetch.ContentFetcher = (*HTMLFetcher)(nil)

// NewHTMLFetcher creates a page fetcher using config's limits and extractor.
func NewHTMLFetcher(config ContentFetchConfig) *HTMLFetcher {
	return &HTMLFetcher{
		http:      newHTTPClient(config, circuitbreaker.ContentFetchConfig()),
		extractor: config.Extractor,
	}
}

// Breaker exposes the circuit breaker guarding page fetches.
func (f *HTMLFetcher) Breaker() *circuitbreaker.CircuitBreaker { return f.http.circuitBreaker }

// FetchContent downloads the page and returns its visible text.
// A page with no visible text yields fetch.ErrEmptyContent.
func (f *HTMLFetcher) FetchContent(ctx context.Context, rawURL string) (string, error) {
	start := time.Now()

	text, err := f.fetch(ctx, rawURL)
	metrics.RecordContentFetch("page", err, time.Since(start), len(text))
	if err != nil {
		return "", err
	}
	return text, nil
}

func (f *HTMLFetcher) fetch(ctx context.Context, rawURL string) (string, error) {
	resp, err := f.http.get(ctx, rawURL, "text/html,application/xhtml+xml;q=0.9,text/plain;q=0.8")
	if err != nil {
		return "", err
	}

	if strings.HasPrefix(resp.ContentType, "text/plain") {
		return requireText(normalizeText(string(resp.Body)))
	}

	if f.extractor == ExtractorReadability {
		if text := readableText(resp.Body, resp.FinalURL); text != "" {
			return text, nil
		}
		slog.Debug("readability found no article, using body text",
			slog.String("url", rawURL))
	}

	text, err := BodyText(resp.Body)
	if err != nil {
		return "", err
	}
	return requireText(text)
}

// BodyText returns the visible text of an HTML document: everything inside
// <body> except scripts, styles and other non-rendered elements. Block
// elements are separated by newlines and runs of spaces collapse to one.
func BodyText(html []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	doc.Find("script, style, noscript, template, svg, iframe, head").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("p, div, li, tr, h1, h2, h3, h4, h5, h6, section, article, header, footer, blockquote, pre").
		AppendHtml("\n")

	return normalizeText(doc.Find("body").Text()), nil
}

func readableText(html []byte, pageURL *url.URL) string {
	article, err := readability.FromReader(bytes.NewReader(html), pageURL)
	if err != nil {
		return ""
	}
	return normalizeText(article.TextContent)
}

// normalizeText collapses whitespace inside each line and drops blank lines.
func normalizeText(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, line := range lines {
		if collapsed := strings.Join(strings.Fields(line), " "); collapsed != "" {
			out = append(out, collapsed)
		}
	}
	return strings.Join(out, "\n")
}

func requireText(text string) (string, error) {
	if text == "" {
		return "", fetch.ErrEmptyContent
	}
	return text, nil
}
