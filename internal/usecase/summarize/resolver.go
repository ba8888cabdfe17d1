package summarize

import (
	"context"
	"net/url"
	"strings"

	"ringkas/internal/domain/entity"
	"ringkas/internal/usecase/ai"
	"ringkas/internal/usecase/fetch"
)

// DefaultVideoHosts returns the hostnames routed to the transcript fetcher.
func DefaultVideoHosts() []string {
	return []string{"youtube.com", "www.youtube.com", "m.youtube.com", "music.youtube.com", "youtu.be"}
}

// Resolution is the text chosen for a request and where it came from.
type Resolution struct {
	Text string
	Kind entity.SourceKind
	// Failed means Text is a failure sentence rather than source text.
	Failed bool
	// Invocation records the fetch performed, nil for literal text.
	Invocation *ai.ToolInvocation
}

// Resolver decides which raw text a request operates on.
type Resolver struct {
	Content     fetch.ContentFetcher
	Transcripts fetch.TranscriptFetcher
	VideoHosts  []string
}

// NewResolver creates a resolver; nil hosts fall back to DefaultVideoHosts.
func NewResolver(content fetch.ContentFetcher, transcripts fetch.TranscriptFetcher, videoHosts []string) *Resolver {
	if len(videoHosts) == 0 {
		videoHosts = DefaultVideoHosts()
	}
	return &Resolver{Content: content, Transcripts: transcripts, VideoHosts: videoHosts}
}

// Resolve picks literal text over the URL. A URL on a video host goes to the
// transcript fetcher, any other URL to the page fetcher. Fetch failures are
// returned in-band as a failure sentence in the request language; only a
// request with neither text nor URL is an error.
func (r *Resolver) Resolve(ctx context.Context, req entity.ProcessingRequest) (Resolution, error) {
	if req.HasText() {
		return Resolution{Text: req.Text, Kind: entity.SourceLiteral}, nil
	}

	rawURL := strings.TrimSpace(req.URL)
	if rawURL == "" {
		return Resolution{}, entity.ErrMissingInput
	}

	lang := req.OutputLanguage
	var (
		tool ai.Tool
		kind entity.SourceKind
	)
	if IsVideoURL(rawURL, r.VideoHosts) {
		tool, kind = FetchTranscriptTool(r.Transcripts, lang), entity.SourceTranscript
	} else {
		tool, kind = FetchTextTool(r.Content, lang), entity.SourceScrape
	}

	args := map[string]string{"url": rawURL}
	inv := ai.ToolInvocation{Name: tool.Name, Args: args, Result: tool.Invoke(ctx, args)}

	return Resolution{
		Text:       inv.Result.Output,
		Kind:       kind,
		Failed:     inv.Result.Failed,
		Invocation: &inv,
	}, nil
}

// SourceKindFor reports the kind a request would resolve to without fetching.
func SourceKindFor(req entity.ProcessingRequest, videoHosts []string) entity.SourceKind {
	switch {
	case req.HasText():
		return entity.SourceLiteral
	case IsVideoURL(req.URL, videoHosts):
		return entity.SourceTranscript
	default:
		return entity.SourceScrape
	}
}

// IsVideoURL reports whether rawURL points at one of the video hosts or a
// subdomain of one. Hosts compare case-insensitively and ignore ports.
func IsVideoURL(rawURL string, hosts []string) bool {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return false
	}
	host := strings.ToLower(strings.TrimSuffix(u.Hostname(), "."))
	if host == "" {
		return false
	}
	for _, h := range hosts {
		h = strings.ToLower(strings.TrimSpace(h))
		if h == "" {
			continue
		}
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}
