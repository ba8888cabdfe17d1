package summarize_test

import (
	"context"
	"errors"
	"sync"

	"ringkas/internal/usecase/ai"
	"ringkas/internal/usecase/fetch"
)

type stubProvider struct {
	mu       sync.Mutex
	requests []ai.GenerateRequest
	generate func(ctx context.Context, req ai.GenerateRequest) (*ai.GenerateResponse, error)
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) Generate(ctx context.Context, req ai.GenerateRequest) (*ai.GenerateResponse, error) {
	p.mu.Lock()
	p.requests = append(p.requests, req)
	p.mu.Unlock()
	if p.generate == nil {
		return nil, errors.New("stub provider has no response")
	}
	return p.generate(ctx, req)
}

func (p *stubProvider) Health(context.Context) (*ai.HealthStatus, error) {
	return &ai.HealthStatus{Healthy: true}, nil
}

func (p *stubProvider) calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.requests)
}

func (p *stubProvider) lastRequest() ai.GenerateRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.requests[len(p.requests)-1]
}

// respondWith returns a provider that answers every call with fields.
func respondWith(fields map[string]string) *stubProvider {
	return &stubProvider{generate: func(context.Context, ai.GenerateRequest) (*ai.GenerateResponse, error) {
		return &ai.GenerateResponse{Output: fields}, nil
	}}
}

type stubContent struct {
	calls   int
	content string
	err     error
}

func (s *stubContent) FetchContent(_ context.Context, _ string) (string, error) {
	s.calls++
	return s.content, s.err
}

type stubTranscripts struct {
	calls      int
	transcript string
	err        error
}

func (s *stubTranscripts) FetchTranscript(_ context.Context, _ string) (string, error) {
	s.calls++
	return s.transcript, s.err
}

var (
	_ fetch.ContentFetcher    = (*stubContent)(nil)
	_ fetch.TranscriptFetcher = (*stubTranscripts)(nil)
)

type stubDetector struct{ code string }

func (d stubDetector) Detect(string) (string, bool) { return d.code, d.code != "" }
