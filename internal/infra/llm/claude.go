package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/google/uuid"

	"ringkas/internal/domain/entity"
	"ringkas/internal/observability/metrics"
	"ringkas/internal/resilience/circuitbreaker"
	"ringkas/internal/usecase/ai"
)

// DefaultClaudeModel is used when Config.Model is empty.
const DefaultClaudeModel = string(anthropic.ModelClaudeSonnet4_5_20250929)

// Claude implements ai.Provider using Anthropic's Messages API.
// Structured output is requested through the system prompt and parsed from
// the final text block.
type Claude struct {
	client         anthropic.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	config         Config
}

// NewClaude creates a Claude provider. Extra request options are appended
// after the API key and base URL.
func NewClaude(cfg Config, opts ...option.RequestOption) *Claude {
	if cfg.Model == "" {
		cfg.Model = DefaultClaudeModel
	}

	clientOpts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(cfg.BaseURL))
	}
	clientOpts = append(clientOpts, opts...)

	slog.Info("initialized claude provider",
		slog.String("model", cfg.Model),
		slog.Int("max_tokens", cfg.maxTokens()),
		slog.Duration("timeout", cfg.timeout()))

	return &Claude{
		client:         anthropic.NewClient(clientOpts...),
		circuitBreaker: newBreaker(circuitbreaker.ClaudeAPIConfig()),
		config:         cfg,
	}
}

// Name returns "claude".
func (c *Claude) Name() string { return "claude" }

// Breaker exposes the API circuit breaker for health reporting.
func (c *Claude) Breaker() *circuitbreaker.CircuitBreaker { return c.circuitBreaker }

// Generate runs the prompt, executing requested tools until the model stops
// asking for them.
func (c *Claude) Generate(ctx context.Context, req ai.GenerateRequest) (*ai.GenerateResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.timeout())
	defer cancel()

	start := time.Now()
	resp, err := execute(c.circuitBreaker, c.Name(), func() (*ai.GenerateResponse, error) {
		return c.doGenerate(ctx, req)
	})
	metrics.RecordLLMRequest(c.Name(), err == nil, time.Since(start))
	return resp, err
}

// Health reports the circuit breaker state.
func (c *Claude) Health(_ context.Context) (*ai.HealthStatus, error) {
	return health(c.circuitBreaker), nil
}

func (c *Claude) doGenerate(ctx context.Context, req ai.GenerateRequest) (*ai.GenerateResponse, error) {
	log := logger(ctx, c.Name(), uuid.New().String())

	log.InfoContext(ctx, "starting generation",
		slog.String("model", c.config.Model),
		slog.Int("prompt_length", len(req.Prompt)),
		slog.Int("tools", len(req.Tools)),
		slog.String("tool_choice", req.ToolChoice.String()),
		slog.Bool("structured", req.Schema != nil))

	start := time.Now()
	system := systemPrompt(req)
	tools := claudeTools(req.Tools)
	messages := []anthropic.MessageParam{
		anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
	}
	var history []ai.ToolInvocation

	for round := 0; ; round++ {
		params := anthropic.MessageNewParams{
			Model:     anthropic.Model(c.config.Model),
			MaxTokens: int64(c.config.maxTokens()),
			Messages:  messages,
		}
		if system != "" {
			params.System = []anthropic.TextBlockParam{{Text: system}}
		}
		if len(tools) > 0 {
			params.Tools = tools
			params.ToolChoice = claudeToolChoice(req.ToolChoice, round)
		}

		message, err := c.client.Messages.New(ctx, params)
		if err != nil {
			attrs := []any{
				slog.Int("round", round),
				slog.Duration("duration", time.Since(start)),
				slog.String("error", err.Error()),
			}
			var apiErr *anthropic.Error
			if errors.As(err, &apiErr) {
				attrs = append(attrs, slog.Int("status", apiErr.StatusCode))
			}
			log.ErrorContext(ctx, "generation failed", attrs...)
			return nil, fmt.Errorf("%w: claude api error: %w", entity.ErrModelInvocation, err)
		}

		var text strings.Builder
		var calls []anthropic.ToolUseBlock
		for _, block := range message.Content {
			switch b := block.AsAny().(type) {
			case anthropic.TextBlock:
				text.WriteString(b.Text)
			case anthropic.ToolUseBlock:
				calls = append(calls, b)
			}
		}

		if message.StopReason != anthropic.StopReasonToolUse || len(calls) == 0 {
			resp, err := finish(text.String(), req.Schema, history)
			if err != nil {
				log.WarnContext(ctx, "structured output missing",
					slog.Int("round", round),
					slog.Int("response_length", text.Len()),
					slog.String("stop_reason", string(message.StopReason)))
				return nil, err
			}
			log.InfoContext(ctx, "generation completed",
				slog.Int("rounds", round+1),
				slog.Int("tool_invocations", len(history)),
				slog.Int("response_length", text.Len()),
				slog.Int64("input_tokens", message.Usage.InputTokens),
				slog.Int64("output_tokens", message.Usage.OutputTokens),
				slog.Duration("duration", time.Since(start)))
			return resp, nil
		}

		if round >= req.ToolRounds() {
			log.WarnContext(ctx, "tool round limit reached",
				slog.Int("max_tool_rounds", req.ToolRounds()),
				slog.Int("tool_invocations", len(history)))
			return nil, ai.ErrToolLoopExceeded
		}

		messages = append(messages, message.ToParam())
		results := make([]anthropic.ContentBlockParamUnion, 0, len(calls))
		for _, call := range calls {
			inv := ai.ExecuteTool(ctx, req.Tools, call.Name, call.Input)
			history = append(history, inv)
			metrics.RecordToolInvocation(inv.Name, inv.Result.Failed)
			logToolInvocation(ctx, log, round, inv)
			results = append(results, anthropic.NewToolResultBlock(call.ID, inv.Result.Output, inv.Result.Failed))
		}
		messages = append(messages, anthropic.NewUserMessage(results...))
	}
}

func claudeTools(tools []ai.Tool) []anthropic.ToolUnionParam {
	if len(tools) == 0 {
		return nil
	}
	out := make([]anthropic.ToolUnionParam, 0, len(tools))
	for _, t := range tools {
		schema := t.InputSchema()
		out = append(out, anthropic.ToolUnionParam{
			OfTool: &anthropic.ToolParam{
				Name:        t.Name,
				Description: anthropic.String(t.Description),
				InputSchema: anthropic.ToolInputSchemaParam{
					Properties: schema.Properties,
					Required:   schema.Required,
				},
			},
		})
	}
	return out
}

// claudeToolChoice pins a tool on the first round only; later rounds fall
// back to auto so the model can produce its answer.
func claudeToolChoice(choice ai.ToolChoice, round int) anthropic.ToolChoiceUnionParam {
	switch {
	case choice.Mode == ai.ToolChoiceNone:
		return anthropic.ToolChoiceUnionParam{OfNone: &anthropic.ToolChoiceNoneParam{}}
	case choice.Mode == ai.ToolChoiceTool && round == 0:
		return anthropic.ToolChoiceUnionParam{OfTool: &anthropic.ToolChoiceToolParam{Name: choice.Name}}
	default:
		return anthropic.ToolChoiceUnionParam{OfAuto: &anthropic.ToolChoiceAutoParam{}}
	}
}
