// Package middleware holds HTTP middleware that needs its own configuration.
package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"ringkas/pkg/security/csp"
)

// CSPConfig selects a policy per path prefix.
type CSPConfig struct {
	Enabled bool

	// DefaultPolicy applies when no prefix in PathPolicies matches.
	DefaultPolicy *csp.Builder

	// PathPolicies maps path prefixes to policies; the longest match wins.
	// Example: {"/api/": csp.APIPolicy()}
	PathPolicies map[string]*csp.Builder

	// ReportOnly sends Content-Security-Policy-Report-Only instead of enforcing.
	ReportOnly bool
}

// CSP applies Content-Security-Policy headers.
type CSP struct {
	headers map[string]header
	deflt   header
	enabled bool
}

type header struct {
	name  string
	value string
}

func render(p *csp.Builder, reportOnly bool) header {
	if p == nil {
		return header{}
	}
	p = p.Clone().ReportOnly(reportOnly)
	return header{name: p.HeaderName(), value: p.Build()}
}

// NewCSP renders every configured policy once.
func NewCSP(cfg CSPConfig) *CSP {
	m := &CSP{
		headers: make(map[string]header, len(cfg.PathPolicies)),
		deflt:   render(cfg.DefaultPolicy, cfg.ReportOnly),
		enabled: cfg.Enabled,
	}
	for prefix, p := range cfg.PathPolicies {
		m.headers[prefix] = render(p, cfg.ReportOnly)
	}
	return m
}

// Middleware sets the header selected for the request path.
func (m *CSP) Middleware(next http.Handler) http.Handler {
	if !m.enabled {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h := m.selectHeader(r.URL.Path); h.value != "" {
			w.Header().Set(h.name, h.value)
			slog.Debug("CSP header applied",
				slog.String("path", r.URL.Path),
				slog.String("header", h.name))
		}
		next.ServeHTTP(w, r)
	})
}

func (m *CSP) selectHeader(path string) header {
	longest := ""
	selected := m.deflt
	for prefix, h := range m.headers {
		if strings.HasPrefix(path, prefix) && len(prefix) > len(longest) {
			longest = prefix
			selected = h
		}
	}
	return selected
}
