package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"

	"ringkas/internal/domain/entity"
	"ringkas/internal/observability/metrics"
	"ringkas/internal/resilience/circuitbreaker"
	"ringkas/internal/usecase/ai"
)

// DefaultOpenAIModel is used when Config.Model is empty.
const DefaultOpenAIModel = openai.GPT4oMini

// OpenAI implements ai.Provider using the Chat Completions API with
// function tools and a JSON schema response format.
type OpenAI struct {
	client         *openai.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	config         Config
}

// NewOpenAI creates an OpenAI provider.
func NewOpenAI(cfg Config) *OpenAI {
	if cfg.Model == "" {
		cfg.Model = DefaultOpenAIModel
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	slog.Info("initialized openai provider",
		slog.String("model", cfg.Model),
		slog.Int("max_tokens", cfg.maxTokens()),
		slog.Duration("timeout", cfg.timeout()))

	return &OpenAI{
		client:         openai.NewClientWithConfig(clientCfg),
		circuitBreaker: newBreaker(circuitbreaker.OpenAIAPIConfig()),
		config:         cfg,
	}
}

// Name returns "openai".
func (o *OpenAI) Name() string { return "openai" }

// Breaker exposes the API circuit breaker for health reporting.
func (o *OpenAI) Breaker() *circuitbreaker.CircuitBreaker { return o.circuitBreaker }

// Generate runs the prompt, executing requested tools until the model stops
// asking for them.
func (o *OpenAI) Generate(ctx context.Context, req ai.GenerateRequest) (*ai.GenerateResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, o.config.timeout())
	defer cancel()

	start := time.Now()
	resp, err := execute(o.circuitBreaker, o.Name(), func() (*ai.GenerateResponse, error) {
		return o.doGenerate(ctx, req)
	})
	metrics.RecordLLMRequest(o.Name(), err == nil, time.Since(start))
	return resp, err
}

// Health reports the circuit breaker state.
func (o *OpenAI) Health(_ context.Context) (*ai.HealthStatus, error) {
	return health(o.circuitBreaker), nil
}

func (o *OpenAI) doGenerate(ctx context.Context, req ai.GenerateRequest) (*ai.GenerateResponse, error) {
	log := logger(ctx, o.Name(), uuid.New().String())

	log.InfoContext(ctx, "starting generation",
		slog.String("model", o.config.Model),
		slog.Int("prompt_length", len(req.Prompt)),
		slog.Int("tools", len(req.Tools)),
		slog.String("tool_choice", req.ToolChoice.String()),
		slog.Bool("structured", req.Schema != nil))

	start := time.Now()
	var messages []openai.ChatCompletionMessage
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	tools := openAITools(req.Tools)
	responseFormat := openAIResponseFormat(req.Schema)
	var history []ai.ToolInvocation

	for round := 0; ; round++ {
		completion := openai.ChatCompletionRequest{
			Model:          o.config.Model,
			Messages:       messages,
			MaxTokens:      o.config.maxTokens(),
			ResponseFormat: responseFormat,
		}
		if len(tools) > 0 {
			completion.Tools = tools
			completion.ToolChoice = openAIToolChoice(req.ToolChoice, round)
		}

		resp, err := o.client.CreateChatCompletion(ctx, completion)
		if err != nil {
			attrs := []any{
				slog.Int("round", round),
				slog.Duration("duration", time.Since(start)),
				slog.String("error", err.Error()),
			}
			var apiErr *openai.APIError
			if errors.As(err, &apiErr) {
				attrs = append(attrs, slog.Int("status", apiErr.HTTPStatusCode))
			}
			log.ErrorContext(ctx, "generation failed", attrs...)
			return nil, fmt.Errorf("%w: openai api error: %w", entity.ErrModelInvocation, err)
		}

		if len(resp.Choices) == 0 {
			log.ErrorContext(ctx, "openai api returned no choices",
				slog.Int("round", round),
				slog.Duration("duration", time.Since(start)))
			return nil, fmt.Errorf("%w: openai api returned empty response", entity.ErrModelInvocation)
		}

		choice := resp.Choices[0]
		calls := choice.Message.ToolCalls
		if len(calls) == 0 {
			text := choice.Message.Content
			out, err := finish(text, req.Schema, history)
			if err != nil {
				log.WarnContext(ctx, "structured output missing",
					slog.Int("round", round),
					slog.Int("response_length", len(text)),
					slog.String("finish_reason", string(choice.FinishReason)))
				return nil, err
			}
			log.InfoContext(ctx, "generation completed",
				slog.Int("rounds", round+1),
				slog.Int("tool_invocations", len(history)),
				slog.Int("response_length", len(text)),
				slog.Int("prompt_tokens", resp.Usage.PromptTokens),
				slog.Int("completion_tokens", resp.Usage.CompletionTokens),
				slog.Duration("duration", time.Since(start)))
			return out, nil
		}

		if round >= req.ToolRounds() {
			log.WarnContext(ctx, "tool round limit reached",
				slog.Int("max_tool_rounds", req.ToolRounds()),
				slog.Int("tool_invocations", len(history)))
			return nil, ai.ErrToolLoopExceeded
		}

		messages = append(messages, choice.Message)
		for _, call := range calls {
			inv := ai.ExecuteTool(ctx, req.Tools, call.Function.Name, []byte(call.Function.Arguments))
			history = append(history, inv)
			metrics.RecordToolInvocation(inv.Name, inv.Result.Failed)
			logToolInvocation(ctx, log, round, inv)
			messages = append(messages, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    inv.Result.Output,
				ToolCallID: call.ID,
			})
		}
	}
}

func openAITools(tools []ai.Tool) []openai.Tool {
	if len(tools) == 0 {
		return nil
	}
	out := make([]openai.Tool, 0, len(tools))
	for _, t := range tools {
		params := jsonschema.Definition{
			Type:       jsonschema.Object,
			Properties: make(map[string]jsonschema.Definition, len(t.Parameters)),
			Required:   []string{},
		}
		for _, p := range t.Parameters {
			params.Properties[p.Name] = jsonschema.Definition{
				Type:        jsonschema.String,
				Description: p.Description,
			}
			if p.Required {
				params.Required = append(params.Required, p.Name)
			}
		}
		out = append(out, openai.Tool{
			Type: openai.ToolTypeFunction,
			Function: &openai.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  &params,
			},
		})
	}
	return out
}

// openAIToolChoice pins a tool on the first round only.
func openAIToolChoice(choice ai.ToolChoice, round int) any {
	switch {
	case choice.Mode == ai.ToolChoiceNone:
		return "none"
	case choice.Mode == ai.ToolChoiceTool && round == 0:
		return openai.ToolChoice{
			Type:     openai.ToolTypeFunction,
			Function: openai.ToolFunction{Name: choice.Name},
		}
	default:
		return "auto"
	}
}

func openAIResponseFormat(schema *ai.Schema) *openai.ChatCompletionResponseFormat {
	if schema == nil {
		return nil
	}
	def := jsonschema.Definition{
		Type:       jsonschema.Object,
		Properties: make(map[string]jsonschema.Definition, len(schema.Fields)),
		Required:   []string{},
	}
	for _, f := range schema.Fields {
		def.Properties[f.Name] = jsonschema.Definition{
			Type:        jsonschema.String,
			Description: f.Description,
			Enum:        f.Enum,
		}
		if f.Required {
			def.Required = append(def.Required, f.Name)
		}
	}
	return &openai.ChatCompletionResponseFormat{
		Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
		JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
			Name:   schema.Name,
			Schema: &def,
		},
	}
}
