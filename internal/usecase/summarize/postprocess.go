package summarize

import (
	"strings"

	"ringkas/internal/domain/entity"
	"ringkas/internal/usecase/ai"
	"ringkas/internal/utils/text"
)

// Postprocess turns the model response into a result. The original word
// count is measured on the space-joined outputs of successful fetch and
// transcript invocations when there are any, otherwise on literalText.
func Postprocess(resp *ai.GenerateResponse, literalText string, format entity.OutputFormat) (*entity.ProcessingResult, error) {
	output, _ := resp.Field(FieldOutput)

	var answer *string
	if a, ok := resp.Field(FieldAnswer); ok && strings.TrimSpace(a) != "" {
		answer = &a
	}

	baseline := Baseline(resp, literalText)
	if strings.TrimSpace(baseline) == "" && strings.TrimSpace(output) == "" {
		return nil, entity.ErrEmptyInput
	}

	return &entity.ProcessingResult{
		Output:            output,
		Answer:            answer,
		WordCountOriginal: text.CountWords(baseline),
		WordCountSummary:  text.CountWords(output),
		OutputFormat:      format,
	}, nil
}

// Baseline returns the text the original word count is measured on.
func Baseline(resp *ai.GenerateResponse, literalText string) string {
	if resp == nil {
		return literalText
	}
	var fetched []string
	for _, inv := range resp.History {
		if IsFetchTool(inv.Name) && !inv.Result.Failed {
			fetched = append(fetched, inv.Result.Output)
		}
	}
	if len(fetched) > 0 {
		return strings.Join(fetched, " ")
	}
	return literalText
}
