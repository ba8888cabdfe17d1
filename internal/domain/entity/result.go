package entity

import "ringkas/internal/utils/text"

// SourceKind tells where the text fed to the model came from.
type SourceKind string

const (
	SourceLiteral    SourceKind = "literal"
	SourceScrape     SourceKind = "scrape"
	SourceTranscript SourceKind = "transcript"
)

// ProcessingResult is produced once per request and never mutated afterwards.
type ProcessingResult struct {
	Output            string
	Answer            *string
	WordCountOriginal int
	WordCountSummary  int
	OutputFormat      OutputFormat
	SourceKind        SourceKind

	// DetectedLanguage is the ISO 639-1 code of the source text, empty when unknown.
	DetectedLanguage string
}

// ReductionPercentage is round(100 * (1 - summary/original)), 0 for an empty original.
func (r ProcessingResult) ReductionPercentage() int {
	return text.ReductionPercentage(r.WordCountOriginal, r.WordCountSummary)
}

// AnswerText returns the answer or an empty string.
func (r ProcessingResult) AnswerText() string {
	if r.Answer == nil {
		return ""
	}
	return *r.Answer
}

// Sentiment is the overall tone reported by the sentiment flow.
type Sentiment string

const (
	SentimentPositive Sentiment = "Positive"
	SentimentNegative Sentiment = "Negative"
	SentimentNeutral  Sentiment = "Neutral"
)

// Valid reports whether s is one of the three accepted labels.
func (s Sentiment) Valid() bool {
	switch s {
	case SentimentPositive, SentimentNegative, SentimentNeutral:
		return true
	}
	return false
}

// SentimentResult holds the label and a one-sentence explanation in Indonesian.
type SentimentResult struct {
	Sentiment   Sentiment
	Explanation string
}

// ToolInvocationResult is the string a fetch, transcript or copy-edit tool
// hands back to the model. Failed marks an in-band failure sentence.
type ToolInvocationResult struct {
	Output string
	Failed bool
}
