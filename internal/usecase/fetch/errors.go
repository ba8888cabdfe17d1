// Package fetch defines how raw source text is acquired from URLs: the
// fetcher contracts, their sentinel errors, and the fixed sentences that are
// substituted for the text when acquisition fails.
package fetch

import (
	"errors"

	"ringkas/internal/domain/entity"
)

// FailureKind distinguishes the user-facing failure sentences.
type FailureKind int

const (
	// FailureUnreachable covers invalid URLs, network errors and bad statuses.
	FailureUnreachable FailureKind = iota
	// FailureEmpty means the page was fetched but had no visible text.
	FailureEmpty
	// FailureTranscript means no caption track could be read.
	FailureTranscript
)

var failureSentences = map[entity.OutputLanguage]map[FailureKind]string{
	entity.LanguageIndonesian: {
		FailureUnreachable: "Gagal mengambil konten dari URL. Pastikan URL valid dan dapat diakses.",
		FailureEmpty:       "Gagal mengambil konten dari URL karena isinya kosong.",
		FailureTranscript:  "Gagal mengambil transkrip dari video YouTube. Pastikan video memiliki subtitle.",
	},
	entity.LanguageEnglish: {
		FailureUnreachable: "Failed to fetch content from the URL. Make sure the URL is valid and accessible.",
		FailureEmpty:       "Failed to fetch content from the URL because it is empty.",
		FailureTranscript:  "Failed to fetch the YouTube video transcript. Make sure the video has subtitles.",
	},
	entity.LanguageArabic: {
		FailureUnreachable: "فشل جلب المحتوى من الرابط. تأكد من أن الرابط صالح ويمكن الوصول إليه.",
		FailureEmpty:       "فشل جلب المحتوى من الرابط لأنه فارغ.",
		FailureTranscript:  "فشل جلب نص فيديو يوتيوب. تأكد من أن الفيديو يحتوي على ترجمة.",
	},
}

// FailureSentence returns the fixed sentence for kind in lang, falling back
// to Indonesian for unknown languages.
func FailureSentence(kind FailureKind, lang entity.OutputLanguage) string {
	byKind, ok := failureSentences[lang]
	if !ok {
		byKind = failureSentences[entity.LanguageIndonesian]
	}
	return byKind[kind]
}

// ClassifyContentError maps a ContentFetcher error to its failure kind.
func ClassifyContentError(err error) FailureKind {
	if errors.Is(err, ErrEmptyContent) {
		return FailureEmpty
	}
	return FailureUnreachable
}
