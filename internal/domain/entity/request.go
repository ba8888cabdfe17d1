// Package entity defines the transient request and result values exchanged
// with the text processing pipeline, together with their validation rules.
// None of these values are persisted.
package entity

import "strings"

// OutputFormat selects the transformation applied to the source text.
type OutputFormat string

const (
	FormatSummary      OutputFormat = "summary"
	FormatKeyPoints    OutputFormat = "keyPoints"
	FormatQuestions    OutputFormat = "questions"
	FormatContentIdeas OutputFormat = "contentIdeas"
)

// OutputFormats lists every supported format in display order.
func OutputFormats() []OutputFormat {
	return []OutputFormat{FormatSummary, FormatKeyPoints, FormatQuestions, FormatContentIdeas}
}

// Valid reports whether f is one of the supported formats.
func (f OutputFormat) Valid() bool {
	switch f {
	case FormatSummary, FormatKeyPoints, FormatQuestions, FormatContentIdeas:
		return true
	}
	return false
}

// OutputLanguage selects the language the model must answer in.
type OutputLanguage string

const (
	LanguageIndonesian OutputLanguage = "indonesian"
	LanguageEnglish    OutputLanguage = "english"
	LanguageArabic     OutputLanguage = "arabic"
)

// OutputLanguages lists every supported output language.
func OutputLanguages() []OutputLanguage {
	return []OutputLanguage{LanguageIndonesian, LanguageEnglish, LanguageArabic}
}

// Valid reports whether l is one of the supported languages.
func (l OutputLanguage) Valid() bool {
	switch l {
	case LanguageIndonesian, LanguageEnglish, LanguageArabic:
		return true
	}
	return false
}

// ProcessingRequest describes one user action. At least one of Text or URL
// must be non-empty; Text wins when both are present.
type ProcessingRequest struct {
	Text           string
	URL            string
	Question       string
	OutputFormat   OutputFormat
	OutputLanguage OutputLanguage
}

// Normalize fills in default format and language and trims the URL and question.
// Text is kept verbatim.
func (r ProcessingRequest) Normalize() ProcessingRequest {
	r.URL = strings.TrimSpace(r.URL)
	r.Question = strings.TrimSpace(r.Question)
	if r.OutputFormat == "" {
		r.OutputFormat = FormatSummary
	}
	if r.OutputLanguage == "" {
		r.OutputLanguage = LanguageIndonesian
	}
	return r
}

// HasText reports whether the request carries literal text worth processing.
func (r ProcessingRequest) HasText() bool {
	return strings.TrimSpace(r.Text) != ""
}

// Validate checks the request after Normalize has been applied.
func (r ProcessingRequest) Validate() error {
	if !r.HasText() && r.URL == "" {
		return ErrMissingInput
	}
	if !r.OutputFormat.Valid() {
		return &ValidationError{Field: "outputFormat", Message: "must be one of summary, keyPoints, questions, contentIdeas"}
	}
	if !r.OutputLanguage.Valid() {
		return &ValidationError{Field: "outputLanguage", Message: "must be one of indonesian, english, arabic"}
	}
	if !r.HasText() {
		if err := ValidateURL(r.URL); err != nil {
			return err
		}
	}
	return ValidateQuestion(r.Question)
}
