// Package summarize implements the text processing pipeline: resolve the
// input, compose the instruction, invoke the model and post-process its
// response into word counts and a reduction percentage. It also hosts the
// dedicated question answering and sentiment flows.
package summarize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"ringkas/internal/domain/entity"
	"ringkas/internal/observability/logging"
	"ringkas/internal/observability/metrics"
	"ringkas/internal/observability/tracing"
	"ringkas/internal/usecase/ai"
)

// Mode selects who fetches URL content.
type Mode string

const (
	// ModePrefetch resolves the input before the model call; the model only sees text.
	ModePrefetch Mode = "prefetch"
	// ModeAgentic hands the URL to the model together with the fetch tools.
	ModeAgentic Mode = "agentic"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModePrefetch || m == ModeAgentic
}

// Capabilities parameterise the single processing pipeline.
type Capabilities struct {
	Mode Mode
	// CopyEdit offers the copyedit tool to the model.
	CopyEdit bool
	// SchemaAnswer declares the answer field even without a question.
	SchemaAnswer bool
	// ToolChoice is sent with every process call. The zero value means auto.
	ToolChoice ai.ToolChoice
}

// LanguageDetector identifies the language of a text as an ISO 639-1 code.
type LanguageDetector interface {
	Detect(text string) (string, bool)
}

// Service runs the processing flows against a provider.
type Service struct {
	Provider     ai.Provider
	Resolver     *Resolver
	Capabilities Capabilities
	// Detector is optional; nil disables source language detection.
	Detector      LanguageDetector
	MaxToolRounds int
}

// Process validates req and runs it through the pipeline.
func (s *Service) Process(ctx context.Context, req entity.ProcessingRequest) (*entity.ProcessingResult, error) {
	req = req.Normalize()
	start := time.Now()

	ctx, span := tracing.StartSpan(ctx, "summarize.Process",
		attribute.String("format", string(req.OutputFormat)),
		attribute.String("language", string(req.OutputLanguage)),
		attribute.String("mode", string(s.mode())),
		attribute.Bool("question", req.Question != ""))

	result, source, err := s.process(ctx, req)

	metrics.RecordProcess(string(req.OutputFormat), source, err == nil, time.Since(start))
	if result != nil {
		span.SetAttributes(
			attribute.String("source", source),
			attribute.Int("words.original", result.WordCountOriginal),
			attribute.Int("words.output", result.WordCountSummary))
	}
	tracing.EndSpan(span, err)

	return result, err
}

func (s *Service) mode() Mode {
	if s.Capabilities.Mode == "" {
		return ModePrefetch
	}
	return s.Capabilities.Mode
}

func (s *Service) process(ctx context.Context, req entity.ProcessingRequest) (*entity.ProcessingResult, string, error) {
	if err := req.Validate(); err != nil {
		return nil, "none", err
	}

	log := logging.WithRequestID(ctx, logging.FromContext(ctx))
	start := time.Now()

	var (
		kind    entity.SourceKind
		text    string
		history []ai.ToolInvocation
		tools   []ai.Tool
	)

	switch s.mode() {
	case ModeAgentic:
		kind = SourceKindFor(req, s.Resolver.VideoHosts)
		if req.HasText() {
			// Literal text wins over the URL, so nothing is offered that could fetch it.
			text = req.Text
			break
		}
		tools = []ai.Tool{
			FetchTextTool(s.Resolver.Content, req.OutputLanguage),
			FetchTranscriptTool(s.Resolver.Transcripts, req.OutputLanguage),
		}
	default:
		res, err := s.resolve(ctx, req)
		if err != nil {
			return nil, "none", err
		}
		kind, text = res.Kind, res.Text
		if res.Invocation != nil {
			history = append(history, *res.Invocation)
		}
		if res.Failed {
			log.WarnContext(ctx, "input resolution failed, returning failure sentence",
				slog.String("source", string(kind)),
				slog.String("url", req.URL))
			result, err := Postprocess(&ai.GenerateResponse{
				Output:  map[string]string{FieldOutput: res.Text},
				History: history,
			}, "", req.OutputFormat)
			if err != nil {
				return nil, string(kind), err
			}
			result.SourceKind = kind
			return result, string(kind), nil
		}
	}
	if s.Capabilities.CopyEdit {
		tools = append(tools, CopyEditTool())
	}

	log.InfoContext(ctx, "processing request",
		slog.String("format", string(req.OutputFormat)),
		slog.String("language", string(req.OutputLanguage)),
		slog.String("mode", string(s.mode())),
		slog.String("source", string(kind)),
		slog.Int("text_length", len(text)),
		slog.Int("tools", len(tools)))

	prompt := BuildPrompt(PromptInput{
		Text:        text,
		URL:         req.URL,
		Language:    req.OutputLanguage,
		Instruction: Compose(req.OutputFormat, req.Question),
		Tools:       tools,
	})

	genCtx, span := tracing.StartSpan(ctx, "summarize.generate",
		attribute.String("provider", s.Provider.Name()),
		attribute.Int("tools", len(tools)))
	resp, err := s.Provider.Generate(genCtx, ai.GenerateRequest{
		Prompt:        prompt,
		Tools:         tools,
		ToolChoice:    s.toolChoice(tools),
		Schema:        processingSchema(s.Capabilities.SchemaAnswer || req.Question != ""),
		MaxToolRounds: s.MaxToolRounds,
	})
	tracing.EndSpan(span, err)
	if err != nil {
		log.ErrorContext(ctx, "model invocation failed",
			slog.String("provider", s.Provider.Name()),
			slog.String("error", err.Error()))
		return nil, string(kind), wrapModelError(err)
	}
	resp.History = append(history, resp.History...)

	literal := ""
	if req.HasText() {
		literal = req.Text
	}
	result, err := Postprocess(resp, literal, req.OutputFormat)
	if err != nil {
		return nil, string(kind), err
	}
	result.SourceKind = kind
	result.DetectedLanguage = s.detectLanguage(ctx, Baseline(resp, literal))

	if err := CheckFormat(req.OutputFormat, result.Output); err != nil {
		metrics.RecordFormatViolation(string(req.OutputFormat))
		log.WarnContext(ctx, "output does not follow the requested format",
			slog.String("format", string(req.OutputFormat)),
			slog.String("error", err.Error()))
	}
	metrics.RecordReduction(string(req.OutputFormat), result.ReductionPercentage())

	log.InfoContext(ctx, "processing completed",
		slog.String("source", string(kind)),
		slog.Int("tool_invocations", len(resp.History)),
		slog.Int("word_count_original", result.WordCountOriginal),
		slog.Int("word_count_summary", result.WordCountSummary),
		slog.Int("reduction_percentage", result.ReductionPercentage()),
		slog.Bool("answered", result.Answer != nil),
		slog.Duration("duration", time.Since(start)))

	return result, string(kind), nil
}

// toolChoice applies the configured choice. A pin on a tool that is not
// offered for this request falls back to auto.
func (s *Service) toolChoice(tools []ai.Tool) ai.ToolChoice {
	choice := s.Capabilities.ToolChoice
	switch choice.Mode {
	case ai.ToolChoiceNone:
		return choice
	case ai.ToolChoiceTool:
		if _, ok := ai.FindTool(tools, choice.Name); ok {
			return choice
		}
	}
	return ai.AutoToolChoice()
}

func (s *Service) resolve(ctx context.Context, req entity.ProcessingRequest) (Resolution, error) {
	ctx, span := tracing.StartSpan(ctx, "summarize.resolve")
	res, err := s.Resolver.Resolve(ctx, req)
	if err == nil {
		span.SetAttributes(
			attribute.String("source", string(res.Kind)),
			attribute.Bool("failed", res.Failed))
	}
	tracing.EndSpan(span, err)
	return res, err
}

func (s *Service) detectLanguage(ctx context.Context, text string) string {
	if s.Detector == nil || strings.TrimSpace(text) == "" {
		return ""
	}
	code, ok := s.Detector.Detect(text)
	if !ok {
		return ""
	}
	if code != "id" {
		logging.WithRequestID(ctx, logging.FromContext(ctx)).WarnContext(ctx, "source text does not look Indonesian",
			slog.String("detected_language", code))
	}
	return code
}

// wrapModelError keeps ErrProviderDisabled as is and makes sure every other
// provider failure matches entity.ErrModelInvocation.
func wrapModelError(err error) error {
	if errors.Is(err, ai.ErrProviderDisabled) || errors.Is(err, entity.ErrModelInvocation) ||
		errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %w", entity.ErrModelInvocation, err)
}

// AnswerQuestion answers question strictly from sourceText in lang.
func (s *Service) AnswerQuestion(ctx context.Context, sourceText, question string, lang entity.OutputLanguage) (string, error) {
	start := time.Now()
	ctx, span := tracing.StartSpan(ctx, "summarize.AnswerQuestion")

	answer, err := s.answerQuestion(ctx, sourceText, question, lang)

	metrics.RecordProcess("answer", string(entity.SourceLiteral), err == nil, time.Since(start))
	tracing.EndSpan(span, err)
	return answer, err
}

func (s *Service) answerQuestion(ctx context.Context, sourceText, question string, lang entity.OutputLanguage) (string, error) {
	question = strings.TrimSpace(question)
	if strings.TrimSpace(sourceText) == "" || question == "" {
		return "", entity.ErrMissingInput
	}
	if err := entity.ValidateQuestion(question); err != nil {
		return "", err
	}
	if lang == "" {
		lang = entity.LanguageIndonesian
	}
	if !lang.Valid() {
		return "", &entity.ValidationError{Field: "outputLanguage", Message: "must be one of indonesian, english, arabic"}
	}

	prompt := fmt.Sprintf("Anda adalah asisten AI yang bertugas menjawab pertanyaan HANYA berdasarkan teks yang diberikan.\n"+
		"%s\n"+
		"Tugas Anda: Jawab pertanyaan berikut: \"%s\"\n"+
		"Gunakan informasi HANYA dari teks sumber di bawah ini.\n"+
		"Jika jawaban tidak dapat ditemukan di dalam teks, katakan \"%s\"\n\n"+
		"Teks Sumber:\n---\n%s\n---\n",
		languageDirective(lang), question, NotFoundAnswer, sourceText)

	resp, err := s.Provider.Generate(ctx, ai.GenerateRequest{
		Prompt: prompt,
		Schema: &ai.Schema{
			Name: "answer_result",
			Fields: []ai.Field{{
				Name:        FieldAnswer,
				Description: "Jawaban atas pertanyaan pengguna.",
				Required:    true,
			}},
		},
		MaxToolRounds: s.MaxToolRounds,
	})
	if err != nil {
		return "", wrapModelError(err)
	}

	answer, _ := resp.Field(FieldAnswer)
	if strings.TrimSpace(answer) == "" {
		return "", fmt.Errorf("%w: empty answer", entity.ErrModelInvocation)
	}
	return answer, nil
}

// AnalyzeSentiment labels text as Positive, Negative or Neutral with a
// one-sentence Indonesian explanation.
func (s *Service) AnalyzeSentiment(ctx context.Context, text string) (*entity.SentimentResult, error) {
	start := time.Now()
	ctx, span := tracing.StartSpan(ctx, "summarize.AnalyzeSentiment")

	result, err := s.analyzeSentiment(ctx, text)

	metrics.RecordProcess("sentiment", string(entity.SourceLiteral), err == nil, time.Since(start))
	tracing.EndSpan(span, err)
	return result, err
}

func (s *Service) analyzeSentiment(ctx context.Context, text string) (*entity.SentimentResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, entity.ErrMissingInput
	}

	prompt := fmt.Sprintf("You are an expert sentiment analyst. Analyze the sentiment of the following Indonesian text.\n"+
		"Determine if the sentiment is Positive, Negative, or Neutral.\n"+
		"Provide a brief, one-sentence explanation for your analysis in Indonesian.\n\n"+
		"Text: \"%s\"", text)

	resp, err := s.Provider.Generate(ctx, ai.GenerateRequest{
		Prompt: prompt,
		Schema: &ai.Schema{
			Name: "sentiment_result",
			Fields: []ai.Field{
				{
					Name:        FieldSentiment,
					Description: "The overall sentiment of the text.",
					Required:    true,
					Enum: []string{
						string(entity.SentimentPositive),
						string(entity.SentimentNegative),
						string(entity.SentimentNeutral),
					},
				},
				{
					Name:        FieldExplanation,
					Description: "A brief, one-sentence explanation in Indonesian.",
					Required:    true,
				},
			},
		},
		MaxToolRounds: s.MaxToolRounds,
	})
	if err != nil {
		return nil, wrapModelError(err)
	}

	raw, _ := resp.Field(FieldSentiment)
	sentiment, ok := parseSentiment(raw)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected sentiment %q", entity.ErrModelInvocation, raw)
	}
	explanation, _ := resp.Field(FieldExplanation)

	return &entity.SentimentResult{
		Sentiment:   sentiment,
		Explanation: strings.TrimSpace(explanation),
	}, nil
}

func parseSentiment(raw string) (entity.Sentiment, bool) {
	raw = strings.TrimSpace(raw)
	for _, s := range []entity.Sentiment{entity.SentimentPositive, entity.SentimentNegative, entity.SentimentNeutral} {
		if strings.EqualFold(raw, string(s)) {
			return s, true
		}
	}
	return "", false
}
