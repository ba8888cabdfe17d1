package summarize

import (
	"context"
	"log/slog"
	"strings"

	"ringkas/internal/domain/entity"
	"ringkas/internal/observability/logging"
	"ringkas/internal/usecase/ai"
	"ringkas/internal/usecase/fetch"
)

// Tool names as the model sees them.
const (
	ToolFetchText       = "fetchTextFromUrl"
	ToolFetchTranscript = "fetchTranscriptFromYouTubeUrl"
	ToolCopyEdit        = "copyedit"
)

// IsFetchTool reports whether the named tool produces source text that
// counts towards the original word count.
func IsFetchTool(name string) bool {
	return name == ToolFetchText || name == ToolFetchTranscript
}

// FetchTextTool fetches a web page and returns its visible text. Failures
// come back as a fixed sentence in lang.
func FetchTextTool(fetcher fetch.ContentFetcher, lang entity.OutputLanguage) ai.Tool {
	return ai.Tool{
		Name:        ToolFetchText,
		Description: "Fetches the text content from a given website URL. Do not use for YouTube URLs.",
		Parameters: []ai.Parameter{
			{Name: "url", Description: "The URL to fetch content from.", Required: true},
		},
		Invoke: func(ctx context.Context, args map[string]string) entity.ToolInvocationResult {
			url := strings.TrimSpace(args["url"])
			content, err := fetcher.FetchContent(ctx, url)
			if err != nil {
				logFetchFailure(ctx, ToolFetchText, url, err)
				return entity.ToolInvocationResult{
					Output: fetch.FailureSentence(fetch.ClassifyContentError(err), lang),
					Failed: true,
				}
			}
			return entity.ToolInvocationResult{Output: content}
		},
	}
}

// FetchTranscriptTool fetches the captions of a YouTube video joined with spaces.
func FetchTranscriptTool(fetcher fetch.TranscriptFetcher, lang entity.OutputLanguage) ai.Tool {
	return ai.Tool{
		Name:        ToolFetchTranscript,
		Description: "Fetches the transcript (captions) of a YouTube video. Use only for YouTube URLs.",
		Parameters: []ai.Parameter{
			{Name: "url", Description: "The YouTube video URL.", Required: true},
		},
		Invoke: func(ctx context.Context, args map[string]string) entity.ToolInvocationResult {
			url := strings.TrimSpace(args["url"])
			transcript, err := fetcher.FetchTranscript(ctx, url)
			if err != nil {
				logFetchFailure(ctx, ToolFetchTranscript, url, err)
				return entity.ToolInvocationResult{
					Output: fetch.FailureSentence(fetch.FailureTranscript, lang),
					Failed: true,
				}
			}
			return entity.ToolInvocationResult{Output: transcript}
		},
	}
}

// CopyEditTool returns the text with surrounding whitespace removed.
func CopyEditTool() ai.Tool {
	return ai.Tool{
		Name:        ToolCopyEdit,
		Description: "Edits and refines the provided text for clarity, conciseness, and style.",
		Parameters: []ai.Parameter{
			{Name: "text", Description: "The text to be edited.", Required: true},
		},
		Invoke: func(_ context.Context, args map[string]string) entity.ToolInvocationResult {
			return entity.ToolInvocationResult{Output: strings.TrimSpace(args["text"])}
		},
	}
}

func logFetchFailure(ctx context.Context, tool, url string, err error) {
	logging.WithRequestID(ctx, logging.FromContext(ctx)).WarnContext(ctx, "fetch failed, returning failure sentence",
		slog.String("tool", tool),
		slog.String("url", url),
		slog.String("error", err.Error()))
}
