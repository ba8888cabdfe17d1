package fetcher_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ringkas/internal/infra/fetcher"
	"ringkas/internal/usecase/fetch"
)

const testVideoID = "dQw4w9WgXcQ"

func watchPage(playerJSON string) string {
	return `<html><head><script>var other = {"a": 1};</script>
<script>var ytInitialPlayerResponse = ` + playerJSON + `;var meta = {"b": "}"};</script></head>
<body><div id="player"></div></body></html>`
}

func newYouTubeServer(t *testing.T, tracks string, captions map[string]string) *httptest.Server {
	t.Helper()
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/watch":
			if got := r.URL.Query().Get("v"); got != testVideoID {
				t.Errorf("expected v=%s, got %s", testVideoID, got)
			}
			player := fmt.Sprintf(`{"playabilityStatus":{"status":"OK"},"videoDetails":{"title":"Judul {kurung}"},
"captions":{"playerCaptionsTracklistRenderer":{"captionTracks":%s}}}`, fmt.Sprintf(tracks, server.URL, server.URL))
			_, _ = w.Write([]byte(watchPage(player)))
		case "/api/timedtext":
			body, ok := captions[r.URL.Query().Get("lang")]
			if !ok {
				http.NotFound(w, r)
				return
			}
			w.Header().Set("Content-Type", "text/xml")
			_, _ = w.Write([]byte(body))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestYouTubeTranscriptFetcher_PrefersManualIndonesian(t *testing.T) {
	tracks := `[
		{"baseUrl":"%s/api/timedtext?lang=en","languageCode":"en"},
		{"baseUrl":"%s/api/timedtext?lang=id","languageCode":"id","kind":"asr"}
	]`
	captions := map[string]string{
		"en": `<?xml version="1.0" encoding="utf-8" ?><transcript><text start="0" dur="1">Hello</text></transcript>`,
		"id": `<?xml version="1.0" encoding="utf-8" ?><transcript><text start="0" dur="1">Halo</text></transcript>`,
	}
	server := newYouTubeServer(t, tracks, captions)

	// Manual English beats auto-generated Indonesian.
	f := fetcher.NewYouTubeTranscriptFetcher(testConfig(), fetcher.WithBaseURL(server.URL))
	text, err := f.FetchTranscript(context.Background(), "https://youtu.be/"+testVideoID)
	require.NoError(t, err)
	assert.Equal(t, "Hello", text)
}

func TestYouTubeTranscriptFetcher_JoinsSegments(t *testing.T) {
	tracks := `[{"baseUrl":"%s/api/timedtext?lang=id","languageCode":"id"},{"baseUrl":"%s/api/timedtext?lang=en","languageCode":"en"}]`
	captions := map[string]string{
		"id": `<?xml version="1.0" encoding="utf-8" ?><transcript>
<text start="0.5" dur="2.1">Selamat datang</text>
<text start="2.6" dur="3">di   kanal &amp;#39;kami&amp;#39;</text>
<text start="5.6" dur="1"></text>
<text start="6.6" dur="2">hari ini
kita belajar</text>
</transcript>`,
	}
	server := newYouTubeServer(t, tracks, captions)

	f := fetcher.NewYouTubeTranscriptFetcher(testConfig(), fetcher.WithBaseURL(server.URL))
	text, err := f.FetchTranscript(context.Background(), "https://www.youtube.com/watch?v="+testVideoID+"&t=10s")
	require.NoError(t, err)
	assert.Equal(t, "Selamat datang di kanal 'kami' hari ini kita belajar", text)
}

func TestYouTubeTranscriptFetcher_Unavailable(t *testing.T) {
	tests := []struct {
		name     string
		tracks   string
		captions map[string]string
	}{
		{name: "no tracks", tracks: `[]%.0s%.0s`},
		{name: "track fetch fails", tracks: `[{"baseUrl":"%s/api/timedtext?lang=fr","languageCode":"fr"}]%.0s`},
		{
			name:     "empty track",
			tracks:   `[{"baseUrl":"%s/api/timedtext?lang=id","languageCode":"id"}]%.0s`,
			captions: map[string]string{"id": `<transcript></transcript>`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newYouTubeServer(t, tt.tracks, tt.captions)

			f := fetcher.NewYouTubeTranscriptFetcher(testConfig(), fetcher.WithBaseURL(server.URL))
			_, err := f.FetchTranscript(context.Background(), "https://youtu.be/"+testVideoID)
			assert.True(t, errors.Is(err, fetch.ErrTranscriptUnavailable), "got %v", err)
		})
	}
}

func TestYouTubeTranscriptFetcher_NoPlayerResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body>consent required</body></html>`))
	}))
	defer server.Close()

	f := fetcher.NewYouTubeTranscriptFetcher(testConfig(), fetcher.WithBaseURL(server.URL))
	_, err := f.FetchTranscript(context.Background(), "https://youtu.be/"+testVideoID)
	assert.True(t, errors.Is(err, fetch.ErrTranscriptUnavailable), "got %v", err)
}

func TestVideoID(t *testing.T) {
	tests := []struct {
		url     string
		want    string
		wantErr bool
	}{
		{url: "https://youtu.be/dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{url: "https://youtu.be/dQw4w9WgXcQ?si=abc", want: "dQw4w9WgXcQ"},
		{url: "https://www.youtube.com/watch?v=dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{url: "https://m.youtube.com/watch?feature=share&v=dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{url: "https://www.youtube.com/shorts/dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{url: "https://www.youtube.com/embed/dQw4w9WgXcQ", want: "dQw4w9WgXcQ"},
		{url: "https://music.youtube.com/watch?v=dQw4w9WgXcQ&list=x", want: "dQw4w9WgXcQ"},
		{url: "https://www.youtube.com/channel/UC123", wantErr: true},
		{url: "https://youtu.be/", wantErr: true},
		{url: "https://www.youtube.com/watch?v=short", wantErr: true},
	}

	for _, tt := range tests {
		got, err := fetcher.VideoID(tt.url)
		if tt.wantErr {
			assert.True(t, errors.Is(err, fetch.ErrInvalidURL), "%s: got %v", tt.url, err)
			continue
		}
		require.NoError(t, err, tt.url)
		assert.Equal(t, tt.want, got, tt.url)
	}
}

func TestCaptionText_SRV3(t *testing.T) {
	doc := `<?xml version="1.0" encoding="utf-8" ?><timedtext format="3"><body>
<p t="0" d="1000"><s>Apa</s><s> kabar</s></p>
<p t="1000" d="1000">semua?</p>
</body></timedtext>`

	text, err := fetcher.CaptionText([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, "Apa kabar semua?", text)
}
