package summarize_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"ringkas/internal/domain/entity"
	"ringkas/internal/usecase/ai"
	"ringkas/internal/usecase/summarize"
)

func TestCompose(t *testing.T) {
	tests := []struct {
		format   entity.OutputFormat
		contains []string
	}{
		{entity.FormatSummary, []string{"ringkasan singkat", "30%"}},
		{entity.FormatKeyPoints, []string{"daftar berpoin", "(•)", "JANGAN gunakan tanda bintang (*) atau tanda hubung (-)"}},
		{entity.FormatQuestions, []string{"daftar pertanyaan penting", "bernomor"}},
		{entity.FormatContentIdeas, []string{"5 ide konten", "bernomor"}},
	}

	seen := map[string]entity.OutputFormat{}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			got := summarize.Compose(tt.format, "")
			for _, want := range tt.contains {
				assert.Contains(t, got, want)
			}
			assert.Equal(t, got, summarize.Compose(tt.format, ""), "compose must be deterministic")
			assert.NotContains(t, got, "pertanyaan berikut")

			if other, dup := seen[got]; dup {
				t.Errorf("%s and %s share an instruction", tt.format, other)
			}
			seen[got] = tt.format
		})
	}
}

func TestCompose_UnknownFormatFallsBackToSummary(t *testing.T) {
	assert.Equal(t, summarize.Compose(entity.FormatSummary, ""), summarize.Compose("poem", ""))
}

func TestCompose_Question(t *testing.T) {
	got := summarize.Compose(entity.FormatKeyPoints, "  Siapa presidennya?  ")

	assert.True(t, strings.HasPrefix(got, summarize.Compose(entity.FormatKeyPoints, "")))
	assert.Contains(t, got, `jawab pertanyaan berikut: "Siapa presidennya?" HANYA berdasarkan informasi`)
	assert.Contains(t, got, summarize.NotFoundAnswer)
	assert.Contains(t, got, "'answer'")

	assert.Equal(t, summarize.Compose(entity.FormatKeyPoints, ""), summarize.Compose(entity.FormatKeyPoints, "   "))
}

func TestBuildPrompt(t *testing.T) {
	t.Run("without tools", func(t *testing.T) {
		got := summarize.BuildPrompt(summarize.PromptInput{
			Text:        "Teks sumber.",
			URL:         "https://example.com",
			Language:    entity.LanguageIndonesian,
			Instruction: "Instruksi uji.",
		})

		assert.Contains(t, got, "Anda adalah asisten AI yang ahli dalam memproses teks berbahasa Indonesia.")
		assert.Contains(t, got, "HARUS dalam Bahasa Indonesia")
		assert.Contains(t, got, "DALAM BAHASA INDONESIA")
		assert.Contains(t, got, "prioritaskan teks yang diberikan")
		assert.Contains(t, got, "Teks Asli: Teks sumber.\n")
		assert.Contains(t, got, "URL: https://example.com\n")
		assert.True(t, strings.HasSuffix(got, "Instruksi Anda: Instruksi uji.\n"))
		assert.NotContains(t, got, summarize.ToolFetchText)
		assert.NotContains(t, got, summarize.ToolCopyEdit)
	})

	t.Run("with fetch tools", func(t *testing.T) {
		got := summarize.BuildPrompt(summarize.PromptInput{
			URL:      "https://youtu.be/abc",
			Language: entity.LanguageEnglish,
			Tools: []ai.Tool{
				summarize.FetchTextTool(&stubContent{}, entity.LanguageEnglish),
				summarize.FetchTranscriptTool(&stubTranscripts{}, entity.LanguageEnglish),
				summarize.CopyEditTool(),
			},
		})

		assert.Contains(t, got, "'"+summarize.ToolFetchText+"'")
		assert.Contains(t, got, "'"+summarize.ToolFetchTranscript+"'")
		assert.Contains(t, got, "'"+summarize.ToolCopyEdit+"'")
		assert.Contains(t, got, "HARUS dalam Bahasa Inggris")
		assert.Contains(t, got, "DALAM BAHASA INGGRIS")
	})

	t.Run("copyedit only", func(t *testing.T) {
		got := summarize.BuildPrompt(summarize.PromptInput{
			Text:  "x",
			Tools: []ai.Tool{summarize.CopyEditTool()},
		})
		assert.Contains(t, got, "'"+summarize.ToolCopyEdit+"'")
		assert.NotContains(t, got, summarize.ToolFetchText)
	})
}
