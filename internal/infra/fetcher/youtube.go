package fetcher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"

	"ringkas/internal/observability/metrics"
	"ringkas/internal/resilience/circuitbreaker"
	"ringkas/internal/usecase/fetch"
	textutil "ringkas/internal/utils/text"
)

// DefaultYouTubeBaseURL is where watch pages are requested from.
const DefaultYouTubeBaseURL = "https://www.youtube.com"

// DefaultCaptionLanguages is the caption track preference order.
var DefaultCaptionLanguages = []string{"id", "en"}

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// YouTubeTranscriptFetcher implements fetch.TranscriptFetcher by reading the
// caption track list embedded in the watch page and downloading one track.
type YouTubeTranscriptFetcher struct {
	http      *httpClient
	baseURL   string
	languages []string
}

var _ fetch.TranscriptFetcher = (*YouTubeTranscriptFetcher)(nil)

// YouTubeOption customizes a YouTubeTranscriptFetcher.
type YouTubeOption func(*YouTubeTranscriptFetcher)

// WithBaseURL overrides the watch page host (used by tests).
func WithBaseURL(base string) YouTubeOption {
	return func(f *YouTubeTranscriptFetcher) { f.baseURL = strings.TrimRight(base, "/") }
}

// WithCaptionLanguages sets the caption language preference order.
func WithCaptionLanguages(langs ...string) YouTubeOption {
	return func(f *YouTubeTranscriptFetcher) { f.languages = langs }
}

// NewYouTubeTranscriptFetcher creates a transcript fetcher.
func NewYouTubeTranscriptFetcher(config ContentFetchConfig, opts ...YouTubeOption) *YouTubeTranscriptFetcher {
	f := &YouTubeTranscriptFetcher{
		http:      newHTTPClient(config, circuitbreaker.TranscriptFetchConfig()),
		baseURL:   DefaultYouTubeBaseURL,
		languages: DefaultCaptionLanguages,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Breaker exposes the circuit breaker guarding transcript fetches.
func (f *YouTubeTranscriptFetcher) Breaker() *circuitbreaker.CircuitBreaker {
	return f.http.circuitBreaker
}

// FetchTranscript returns the caption text of the video at rawURL, segments
// joined with single spaces.
func (f *YouTubeTranscriptFetcher) FetchTranscript(ctx context.Context, rawURL string) (string, error) {
	start := time.Now()

	text, err := f.fetch(ctx, rawURL)
	metrics.RecordContentFetch("transcript", err, time.Since(start), len(text))
	if err != nil {
		return "", err
	}
	return text, nil
}

func (f *YouTubeTranscriptFetcher) fetch(ctx context.Context, rawURL string) (string, error) {
	id, err := VideoID(rawURL)
	if err != nil {
		return "", err
	}

	page, err := f.http.get(ctx, f.baseURL+"/watch?v="+id, "text/html")
	if err != nil {
		return "", err
	}

	player, err := playerResponse(page.Body)
	if err != nil {
		return "", err
	}

	if status := gjson.Get(player, "playabilityStatus.status").String(); status != "" && status != "OK" {
		return "", fmt.Errorf("%w: video %s is %s", fetch.ErrTranscriptUnavailable, id, status)
	}

	track, ok := selectCaptionTrack(gjson.Get(player, "captions.playerCaptionsTracklistRenderer.captionTracks"), f.languages)
	if !ok {
		return "", fmt.Errorf("%w: video %s has no caption tracks", fetch.ErrTranscriptUnavailable, id)
	}

	slog.Debug("fetching caption track",
		slog.String("video_id", id),
		slog.String("language", track.Language),
		slog.Bool("auto_generated", track.AutoGenerated))

	captions, err := f.http.get(ctx, track.URL, "")
	if err != nil {
		if errors.Is(err, fetch.ErrInvalidURL) || errors.Is(err, fetch.ErrUnexpectedStatus) {
			return "", fmt.Errorf("%w: %v", fetch.ErrTranscriptUnavailable, err)
		}
		return "", err
	}

	text, err := CaptionText(captions.Body)
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", fmt.Errorf("%w: caption track is empty", fetch.ErrTranscriptUnavailable)
	}
	return text, nil
}

// VideoID extracts the 11 character video ID from watch, short-link,
// shorts, embed and live URLs.
func VideoID(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", fmt.Errorf("%w: %v", fetch.ErrInvalidURL, err)
	}

	var id string
	host := strings.ToLower(u.Hostname())
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")

	switch {
	case host == "youtu.be":
		id = segments[0]
	case u.Query().Get("v") != "":
		id = u.Query().Get("v")
	case len(segments) >= 2 && (segments[0] == "shorts" || segments[0] == "embed" || segments[0] == "live"):
		id = segments[1]
	}

	if !videoIDPattern.MatchString(id) {
		return "", fmt.Errorf("%w: no video id in %q", fetch.ErrInvalidURL, rawURL)
	}
	return id, nil
}

// playerResponse finds the ytInitialPlayerResponse object in the watch page scripts.
func playerResponse(page []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return "", fmt.Errorf("parse watch page: %w", err)
	}

	var found string
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		script := s.Text()
		idx := strings.Index(script, "ytInitialPlayerResponse")
		if idx < 0 {
			return true
		}
		if obj, ok := textutil.FindJSONObject(script[idx:]); ok {
			found = obj
			return false
		}
		return true
	})

	if found == "" {
		return "", fmt.Errorf("%w: player response not found", fetch.ErrTranscriptUnavailable)
	}
	return found, nil
}

type captionTrack struct {
	URL           string
	Language      string
	AutoGenerated bool
}

// selectCaptionTrack prefers manual tracks in language order, then
// auto-generated ones in language order, then whatever comes first.
func selectCaptionTrack(tracks gjson.Result, languages []string) (captionTrack, bool) {
	var all []captionTrack
	for _, t := range tracks.Array() {
		base := t.Get("baseUrl").String()
		if base == "" {
			continue
		}
		all = append(all, captionTrack{
			URL:           base,
			Language:      t.Get("languageCode").String(),
			AutoGenerated: t.Get("kind").String() == "asr",
		})
	}
	if len(all) == 0 {
		return captionTrack{}, false
	}

	for _, auto := range []bool{false, true} {
		for _, lang := range languages {
			for _, t := range all {
				if t.AutoGenerated == auto && matchesLanguage(t.Language, lang) {
					return t, true
				}
			}
		}
	}
	return all[0], true
}

func matchesLanguage(code, want string) bool {
	code, want = strings.ToLower(code), strings.ToLower(want)
	return code == want || strings.HasPrefix(code, want+"-")
}

// CaptionText flattens a timedtext document (srv1 <text> or srv3 <p>
// segments) into one line of text.
func CaptionText(doc []byte) (string, error) {
	parsed, err := goquery.NewDocumentFromReader(bytes.NewReader(doc))
	if err != nil {
		return "", fmt.Errorf("%w: parse captions: %v", fetch.ErrTranscriptUnavailable, err)
	}

	var parts []string
	parsed.Find("text, p").Each(func(_ int, s *goquery.Selection) {
		// Segment text is entity-encoded once more inside the XML.
		segment := strings.Join(strings.Fields(html.UnescapeString(s.Text())), " ")
		if segment != "" {
			parts = append(parts, segment)
		}
	})
	return strings.Join(parts, " "), nil
}
