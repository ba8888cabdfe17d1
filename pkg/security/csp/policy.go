// Package csp builds Content-Security-Policy header values.
package csp

import "strings"

// directiveOrder fixes the order directives appear in the header.
var directiveOrder = []string{
	"default-src",
	"script-src",
	"style-src",
	"img-src",
	"font-src",
	"connect-src",
	"frame-ancestors",
	"form-action",
	"base-uri",
	"object-src",
}

// Builder assembles a policy directive by directive.
//
// Example:
//
//	policy := csp.NewBuilder().
//	    DefaultSrc("'self'").
//	    StyleSrc("'self'").
//	    Build()
//	// "default-src 'self'; style-src 'self'"
//
// A Builder is not safe for concurrent mutation. Build may be called
// concurrently once configuration is done.
type Builder struct {
	directives map[string][]string
	reportOnly bool
}

// NewBuilder returns an empty policy.
func NewBuilder() *Builder {
	return &Builder{directives: make(map[string][]string)}
}

func (b *Builder) set(directive string, sources []string) *Builder {
	b.directives[directive] = sources
	return b
}

// DefaultSrc is the fallback for every fetch directive that is not set.
func (b *Builder) DefaultSrc(sources ...string) *Builder { return b.set("default-src", sources) }

// ScriptSrc controls where scripts may load from.
func (b *Builder) ScriptSrc(sources ...string) *Builder { return b.set("script-src", sources) }

// StyleSrc controls where stylesheets may load from.
func (b *Builder) StyleSrc(sources ...string) *Builder { return b.set("style-src", sources) }

// ImgSrc controls where images may load from.
func (b *Builder) ImgSrc(sources ...string) *Builder { return b.set("img-src", sources) }

// FontSrc controls where fonts may load from.
func (b *Builder) FontSrc(sources ...string) *Builder { return b.set("font-src", sources) }

// ConnectSrc limits fetch, XHR and WebSocket targets.
func (b *Builder) ConnectSrc(sources ...string) *Builder { return b.set("connect-src", sources) }

// FrameAncestors limits who may embed the page.
func (b *Builder) FrameAncestors(sources ...string) *Builder {
	return b.set("frame-ancestors", sources)
}

// FormAction limits where forms may be submitted.
func (b *Builder) FormAction(sources ...string) *Builder { return b.set("form-action", sources) }

// BaseURI limits the <base> element.
func (b *Builder) BaseURI(sources ...string) *Builder { return b.set("base-uri", sources) }

// ObjectSrc controls <object> and <embed>.
func (b *Builder) ObjectSrc(sources ...string) *Builder { return b.set("object-src", sources) }

// ReportOnly switches the header to Content-Security-Policy-Report-Only.
func (b *Builder) ReportOnly(enabled bool) *Builder {
	b.reportOnly = enabled
	return b
}

// Clone returns an independent copy of b.
func (b *Builder) Clone() *Builder {
	c := &Builder{directives: make(map[string][]string, len(b.directives)), reportOnly: b.reportOnly}
	for k, v := range b.directives {
		c.directives[k] = append([]string(nil), v...)
	}
	return c
}

// Build renders the header value. Directives without sources are omitted.
func (b *Builder) Build() string {
	parts := make([]string, 0, len(b.directives))
	for _, d := range directiveOrder {
		if sources := b.directives[d]; len(sources) > 0 {
			parts = append(parts, d+" "+strings.Join(sources, " "))
		}
	}
	return strings.Join(parts, "; ")
}

// HeaderName returns the header the policy must be sent in.
func (b *Builder) HeaderName() string {
	if b.reportOnly {
		return "Content-Security-Policy-Report-Only"
	}
	return "Content-Security-Policy"
}

// WebUIPolicy allows the server-rendered form pages: same-origin styles and
// scripts, form posts back to the server and nothing else.
func WebUIPolicy() *Builder {
	return NewBuilder().
		DefaultSrc("'self'").
		ScriptSrc("'self'").
		StyleSrc("'self'").
		ImgSrc("'self'", "data:").
		FrameAncestors("'none'").
		FormAction("'self'").
		BaseURI("'self'").
		ObjectSrc("'none'")
}

// APIPolicy is for JSON endpoints that never render HTML.
func APIPolicy() *Builder {
	return NewBuilder().
		DefaultSrc("'none'").
		FrameAncestors("'none'").
		BaseURI("'none'").
		FormAction("'none'")
}
