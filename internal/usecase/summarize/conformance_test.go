package summarize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ringkas/internal/domain/entity"
	"ringkas/internal/usecase/summarize"
)

func TestCheckKeyPoints(t *testing.T) {
	tests := []struct {
		name   string
		output string
		ok     bool
	}{
		{"bullets", "• Poin pertama\n• Poin kedua", true},
		{"blank lines and indentation", "\n  • Poin pertama\n\n• Poin kedua\n", true},
		{"dash corpus", "- Poin pertama\n- Poin kedua", false},
		{"asterisk corpus", "* Poin pertama\n* Poin kedua", false},
		{"plus corpus", "+ Poin pertama", false},
		{"one stray dash", "• Poin pertama\n- Poin kedua", false},
		{"prose line", "Berikut poin pentingnya:\n• Poin pertama", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := summarize.CheckKeyPoints(tt.output)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, summarize.ErrFormatViolation)
			}
		})
	}
}

func TestCheckFormat(t *testing.T) {
	fiveIdeas := "1. Satu\n2. Dua\n3. Tiga\n4. Empat\n5. Lima"

	assert.NoError(t, summarize.CheckFormat(entity.FormatSummary, "apa saja"))
	assert.NoError(t, summarize.CheckFormat(entity.FormatQuestions, "1. Apa?\n2) Mengapa?"))
	assert.ErrorIs(t, summarize.CheckFormat(entity.FormatQuestions, "Apa? Mengapa?"), summarize.ErrFormatViolation)
	assert.NoError(t, summarize.CheckFormat(entity.FormatContentIdeas, fiveIdeas))
	assert.ErrorIs(t, summarize.CheckFormat(entity.FormatContentIdeas, "1. Satu\n2. Dua"), summarize.ErrFormatViolation)
	assert.ErrorIs(t, summarize.CheckFormat(entity.FormatKeyPoints, "- a"), summarize.ErrFormatViolation)
}
