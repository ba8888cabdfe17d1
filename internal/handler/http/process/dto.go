// Package process provides the JSON endpoints of the text processing
// pipeline: process, answer, sentiment and PDF text extraction.
package process

import "ringkas/internal/domain/entity"

// ProcessRequest is the body of POST /api/v1/process.
type ProcessRequest struct {
	Text           string `json:"text" example:"Pemerintah mengumumkan kebijakan baru..."`
	URL            string `json:"url" example:"https://example.com/berita"`
	Question       string `json:"question,omitempty" example:"Kapan kebijakan berlaku?"`
	OutputFormat   string `json:"outputFormat,omitempty" example:"keyPoints"`
	OutputLanguage string `json:"outputLanguage,omitempty" example:"indonesian"`
}

func (r ProcessRequest) toEntity() entity.ProcessingRequest {
	return entity.ProcessingRequest{
		Text:           r.Text,
		URL:            r.URL,
		Question:       r.Question,
		OutputFormat:   entity.OutputFormat(r.OutputFormat),
		OutputLanguage: entity.OutputLanguage(r.OutputLanguage),
	}
}

// ProcessResponse is the processing result.
type ProcessResponse struct {
	Output              string  `json:"output"`
	Answer              *string `json:"answer,omitempty"`
	WordCountOriginal   int     `json:"wordCountOriginal"`
	WordCountSummary    int     `json:"wordCountSummary"`
	ReductionPercentage int     `json:"reductionPercentage"`
	OutputFormat        string  `json:"outputFormat"`
	SourceKind          string  `json:"sourceKind"`
	DetectedLanguage    string  `json:"detectedLanguage,omitempty"`
}

func newProcessResponse(r *entity.ProcessingResult) ProcessResponse {
	return ProcessResponse{
		Output:              r.Output,
		Answer:              r.Answer,
		WordCountOriginal:   r.WordCountOriginal,
		WordCountSummary:    r.WordCountSummary,
		ReductionPercentage: r.ReductionPercentage(),
		OutputFormat:        string(r.OutputFormat),
		SourceKind:          string(r.SourceKind),
		DetectedLanguage:    r.DetectedLanguage,
	}
}

// AnswerRequest is the body of POST /api/v1/answer.
type AnswerRequest struct {
	SourceText     string `json:"sourceText"`
	Question       string `json:"question"`
	OutputLanguage string `json:"outputLanguage,omitempty"`
}

// AnswerResponse carries the answer text.
type AnswerResponse struct {
	Answer string `json:"answer"`
}

// SentimentRequest is the body of POST /api/v1/sentiment.
type SentimentRequest struct {
	Text string `json:"text"`
}

// SentimentResponse carries the label and its explanation.
type SentimentResponse struct {
	Sentiment   string `json:"sentiment" example:"Positive"`
	Explanation string `json:"explanation"`
}

// PDFResponse is the text extracted from an uploaded PDF.
type PDFResponse struct {
	Text      string `json:"text"`
	WordCount int    `json:"wordCount"`
	Pages     int    `json:"pages"`
}
