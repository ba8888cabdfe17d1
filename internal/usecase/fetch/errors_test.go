package fetch_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"ringkas/internal/domain/entity"
	"ringkas/internal/usecase/fetch"
)

func TestFailureSentence(t *testing.T) {
	tests := []struct {
		name string
		kind fetch.FailureKind
		lang entity.OutputLanguage
		want string
	}{
		{
			name: "unreachable indonesian",
			kind: fetch.FailureUnreachable,
			lang: entity.LanguageIndonesian,
			want: "Gagal mengambil konten dari URL. Pastikan URL valid dan dapat diakses.",
		},
		{
			name: "empty indonesian",
			kind: fetch.FailureEmpty,
			lang: entity.LanguageIndonesian,
			want: "Gagal mengambil konten dari URL karena isinya kosong.",
		},
		{
			name: "transcript indonesian",
			kind: fetch.FailureTranscript,
			lang: entity.LanguageIndonesian,
			want: "Gagal mengambil transkrip dari video YouTube. Pastikan video memiliki subtitle.",
		},
		{
			name: "english",
			kind: fetch.FailureEmpty,
			lang: entity.LanguageEnglish,
			want: "Failed to fetch content from the URL because it is empty.",
		},
		{
			name: "unknown language falls back to indonesian",
			kind: fetch.FailureUnreachable,
			lang: entity.OutputLanguage("klingon"),
			want: "Gagal mengambil konten dari URL. Pastikan URL valid dan dapat diakses.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fetch.FailureSentence(tt.kind, tt.lang))
		})
	}
}

func TestFailureSentence_AllLanguagesCovered(t *testing.T) {
	for _, lang := range entity.OutputLanguages() {
		for _, kind := range []fetch.FailureKind{fetch.FailureUnreachable, fetch.FailureEmpty, fetch.FailureTranscript} {
			assert.NotEmpty(t, fetch.FailureSentence(kind, lang), "lang=%s kind=%d", lang, kind)
		}
	}
}

func TestClassifyContentError(t *testing.T) {
	assert.Equal(t, fetch.FailureEmpty, fetch.ClassifyContentError(fmt.Errorf("wrap: %w", fetch.ErrEmptyContent)))
	assert.Equal(t, fetch.FailureUnreachable, fetch.ClassifyContentError(fetch.ErrPrivateIP))
	assert.Equal(t, fetch.FailureUnreachable, fetch.ClassifyContentError(errors.New("dial tcp: refused")))
}
