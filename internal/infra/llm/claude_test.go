package llm_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"ringkas/internal/domain/entity"
	"ringkas/internal/infra/llm"
	"ringkas/internal/usecase/ai"
)

const claudeTextResponse = `{
	"id": "msg_01",
	"type": "message",
	"role": "assistant",
	"model": "claude-sonnet-4-5-20250929",
	"content": [{"type": "text", "text": %s}],
	"stop_reason": "end_turn",
	"stop_sequence": null,
	"usage": {"input_tokens": 42, "output_tokens": 12}
}`

const claudeToolUseResponse = `{
	"id": "msg_02",
	"type": "message",
	"role": "assistant",
	"model": "claude-sonnet-4-5-20250929",
	"content": [
		{"type": "text", "text": "Saya akan mengambil halamannya."},
		{"type": "tool_use", "id": "toolu_01", "name": "fetchTextFromUrl", "input": {"url": "https://example.com/berita"}}
	],
	"stop_reason": "tool_use",
	"stop_sequence": null,
	"usage": {"input_tokens": 42, "output_tokens": 30}
}`

func claudeText(text string) string {
	quoted, _ := json.Marshal(text)
	return fmt.Sprintf(claudeTextResponse, quoted)
}

func newClaude(t *testing.T, handler http.HandlerFunc) *llm.Claude {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return llm.NewClaude(llm.Config{APIKey: "test-key", BaseURL: server.URL}, option.WithMaxRetries(0))
}

func outputSchema() *ai.Schema {
	return &ai.Schema{
		Name: "processing_result",
		Fields: []ai.Field{
			{Name: "output", Description: "hasil", Required: true},
			{Name: "answer", Description: "jawaban"},
		},
	}
}

func fetchTool(calls *int32) ai.Tool {
	return ai.Tool{
		Name:        "fetchTextFromUrl",
		Description: "Ambil teks dari URL",
		Parameters:  []ai.Parameter{{Name: "url", Description: "URL halaman", Required: true}},
		Invoke: func(_ context.Context, args map[string]string) entity.ToolInvocationResult {
			atomic.AddInt32(calls, 1)
			return entity.ToolInvocationResult{Output: "Isi halaman dari " + args["url"]}
		},
	}
}

func TestClaude_Generate_StructuredOutput(t *testing.T) {
	provider := newClaude(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Contains(t, gjson.GetBytes(body, "system.0.text").String(), `"output" (string, wajib)`)
		assert.Equal(t, "Ringkas teks ini.", gjson.GetBytes(body, "messages.0.content.0.text").String())
		assert.False(t, gjson.GetBytes(body, "tools").Exists(), "no tools were offered")

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, claudeText("```json\n{\"output\": \"Ringkasan singkat.\", \"answer\": null}\n```"))
	})

	resp, err := provider.Generate(context.Background(), ai.GenerateRequest{
		System: "Anda adalah asisten.",
		Prompt: "Ringkas teks ini.",
		Schema: outputSchema(),
	})
	require.NoError(t, err)

	output, ok := resp.Field("output")
	assert.True(t, ok)
	assert.Equal(t, "Ringkasan singkat.", output)
	_, ok = resp.Field("answer")
	assert.False(t, ok, "null answer must be absent")
	assert.Empty(t, resp.History)
}

func TestClaude_Generate_ToolRound(t *testing.T) {
	var requests, toolCalls int32
	provider := newClaude(t, func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		w.Header().Set("Content-Type", "application/json")

		switch atomic.AddInt32(&requests, 1) {
		case 1:
			assert.Equal(t, "tool", gjson.GetBytes(body, "tool_choice.type").String())
			assert.Equal(t, "fetchTextFromUrl", gjson.GetBytes(body, "tool_choice.name").String())
			assert.Equal(t, "fetchTextFromUrl", gjson.GetBytes(body, "tools.0.name").String())
			assert.Equal(t, "url", gjson.GetBytes(body, "tools.0.input_schema.required.0").String())
			_, _ = io.WriteString(w, claudeToolUseResponse)
		default:
			assert.Equal(t, "auto", gjson.GetBytes(body, "tool_choice.type").String(), "pinned choice applies to the first round only")
			assert.Equal(t, int64(3), gjson.GetBytes(body, "messages.#").Int())
			assert.Equal(t, "toolu_01", gjson.GetBytes(body, "messages.2.content.0.tool_use_id").String())
			assert.Contains(t, string(body), "Isi halaman dari https://example.com/berita")
			_, _ = io.WriteString(w, claudeText(`{"output": "Ringkasan halaman."}`))
		}
	})

	resp, err := provider.Generate(context.Background(), ai.GenerateRequest{
		Prompt:     "Ringkas URL ini.",
		Tools:      []ai.Tool{fetchTool(&toolCalls)},
		ToolChoice: ai.PinnedToolChoice("fetchTextFromUrl"),
		Schema:     outputSchema(),
	})
	require.NoError(t, err)

	assert.Equal(t, int32(2), atomic.LoadInt32(&requests))
	assert.Equal(t, int32(1), atomic.LoadInt32(&toolCalls))
	require.Len(t, resp.History, 1)
	assert.Equal(t, "fetchTextFromUrl", resp.History[0].Name)
	assert.Equal(t, "https://example.com/berita", resp.History[0].Args["url"])
	assert.False(t, resp.History[0].Result.Failed)
	assert.Equal(t, "Ringkasan halaman.", resp.Output["output"])
}

func TestClaude_Generate_ToolLoopExceeded(t *testing.T) {
	var toolCalls int32
	provider := newClaude(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, claudeToolUseResponse)
	})

	_, err := provider.Generate(context.Background(), ai.GenerateRequest{
		Prompt:        "Ringkas URL ini.",
		Tools:         []ai.Tool{fetchTool(&toolCalls)},
		ToolChoice:    ai.AutoToolChoice(),
		MaxToolRounds: 2,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ai.ErrToolLoopExceeded)
	assert.ErrorIs(t, err, entity.ErrModelInvocation)
	assert.Equal(t, int32(2), atomic.LoadInt32(&toolCalls))
}

func TestClaude_Generate_NoStructuredOutput(t *testing.T) {
	provider := newClaude(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, claudeText("Maaf, saya tidak bisa membantu."))
	})

	_, err := provider.Generate(context.Background(), ai.GenerateRequest{Prompt: "x", Schema: outputSchema()})
	assert.ErrorIs(t, err, ai.ErrNoStructuredOutput)
	assert.ErrorIs(t, err, entity.ErrModelInvocation)
}

func TestClaude_Generate_APIError(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
	}{
		{
			name:       "unauthorized",
			statusCode: http.StatusUnauthorized,
			body:       `{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`,
		},
		{
			name:       "overloaded",
			statusCode: 529,
			body:       `{"type":"error","error":{"type":"overloaded_error","message":"Overloaded"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := newClaude(t, func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.statusCode)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := provider.Generate(context.Background(), ai.GenerateRequest{Prompt: "x"})
			require.Error(t, err)
			assert.ErrorIs(t, err, entity.ErrModelInvocation)
			assert.Contains(t, err.Error(), "claude api error")
		})
	}
}

func TestClaude_CircuitBreakerOpens(t *testing.T) {
	var requests int32
	provider := newClaude(t, func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&requests, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"type":"error","error":{"type":"api_error","message":"boom"}}`)
	})

	status, err := provider.Health(context.Background())
	require.NoError(t, err)
	assert.True(t, status.Healthy)

	for i := 0; i < 5; i++ {
		_, err := provider.Generate(context.Background(), ai.GenerateRequest{Prompt: "x"})
		require.Error(t, err)
	}

	_, err = provider.Generate(context.Background(), ai.GenerateRequest{Prompt: "x"})
	require.Error(t, err)
	assert.ErrorIs(t, err, entity.ErrModelInvocation)
	assert.Contains(t, err.Error(), "circuit breaker open")
	assert.Equal(t, int32(5), atomic.LoadInt32(&requests), "open circuit must not reach the api")

	status, err = provider.Health(context.Background())
	require.NoError(t, err)
	assert.False(t, status.Healthy)
	assert.True(t, status.CircuitOpen)
}

func TestClaude_ContextCanceled(t *testing.T) {
	provider := newClaude(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, claudeText(`{"output":"x"}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := provider.Generate(ctx, ai.GenerateRequest{Prompt: "x"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
}

func TestClaude_Name(t *testing.T) {
	assert.Equal(t, "claude", llm.NewClaude(llm.Config{APIKey: "k"}).Name())
}
