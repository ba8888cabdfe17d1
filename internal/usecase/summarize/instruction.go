package summarize

import (
	"fmt"
	"strings"

	"ringkas/internal/domain/entity"
	"ringkas/internal/usecase/ai"
)

// NotFoundAnswer is what the model must say when the text cannot answer the question.
const NotFoundAnswer = "Informasi untuk menjawab pertanyaan tersebut tidak ditemukan dalam teks."

var instructions = map[entity.OutputFormat]string{
	entity.FormatSummary: "Buat ringkasan singkat dari teks, tidak lebih dari 30% dari panjang aslinya, " +
		"sambil mempertahankan informasi utama.",
	entity.FormatKeyPoints: "Ekstrak poin-poin penting dari teks sebagai daftar berpoin. " +
		"PENTING: Gunakan HANYA karakter bullet point (•) untuk setiap poin. " +
		"JANGAN gunakan tanda bintang (*) atau tanda hubung (-).",
	entity.FormatQuestions: "Buat daftar pertanyaan penting berdasarkan teks sebagai daftar bernomor.",
	entity.FormatContentIdeas: "Berdasarkan teks yang diberikan, hasilkan 5 ide konten yang menarik dalam format daftar bernomor. " +
		"Setiap ide harus kreatif dan relevan dengan topik utama teks.",
}

const questionClause = "\n\nSelain itu, jawab pertanyaan berikut: \"%s\" HANYA berdasarkan informasi yang ada di dalam teks yang diberikan. " +
	"Jika jawaban tidak dapat ditemukan di dalam teks, katakan \"" + NotFoundAnswer + "\" " +
	"Letakkan jawaban untuk pertanyaan ini di bidang 'answer' pada output JSON."

// Compose returns the processing instruction for format, with the question
// clause appended when question is non-blank. Unknown formats get the
// summary instruction.
func Compose(format entity.OutputFormat, question string) string {
	instruction, ok := instructions[format]
	if !ok {
		instruction = instructions[entity.FormatSummary]
	}
	if q := strings.TrimSpace(question); q != "" {
		instruction += fmt.Sprintf(questionClause, q)
	}
	return instruction
}

var languageNames = map[entity.OutputLanguage]string{
	entity.LanguageIndonesian: "Bahasa Indonesia",
	entity.LanguageEnglish:    "Bahasa Inggris",
	entity.LanguageArabic:     "Bahasa Arab",
}

func languageName(lang entity.OutputLanguage) string {
	if name, ok := languageNames[lang]; ok {
		return name
	}
	return languageNames[entity.LanguageIndonesian]
}

// languageDirective pins the output language.
func languageDirective(lang entity.OutputLanguage) string {
	if lang == entity.LanguageIndonesian || lang == "" {
		return "PENTING: Seluruh output Anda HARUS dalam Bahasa Indonesia. Jangan pernah menggunakan Bahasa Inggris."
	}
	return fmt.Sprintf("PENTING: Seluruh output Anda HARUS dalam %s, meskipun teks aslinya berbahasa Indonesia.", languageName(lang))
}

// PromptInput is everything BuildPrompt needs.
type PromptInput struct {
	Text        string
	URL         string
	Language    entity.OutputLanguage
	Instruction string
	// Tools are the tools offered on this call; rules are only written for these.
	Tools []ai.Tool
}

// BuildPrompt assembles the full prompt: role, language, tool rules,
// error relay, text priority, then the source and the instruction.
func BuildPrompt(in PromptInput) string {
	var b strings.Builder

	b.WriteString("Anda adalah asisten AI yang ahli dalam memproses teks berbahasa Indonesia. ")
	b.WriteString("Tugas Anda adalah memproses teks atau URL yang diberikan sesuai dengan instruksi yang spesifik.\n")
	b.WriteString(languageDirective(in.Language))
	b.WriteString("\n\n")

	if rules := toolRules(in.Tools); rules != "" {
		b.WriteString(rules)
	}

	fmt.Fprintf(&b, "Jika sebuah alat mengembalikan pesan error (misalnya \"Gagal mengambil...\"), "+
		"sampaikan pesan error tersebut kepada pengguna DALAM %s sebagai jawaban akhir Anda. "+
		"Jangan mencoba memprosesnya lebih lanjut.\n", strings.ToUpper(languageName(in.Language)))
	b.WriteString("Jika teks dan URL diberikan, prioritaskan teks yang diberikan.\n\n")

	fmt.Fprintf(&b, "Teks Asli: %s\n", in.Text)
	fmt.Fprintf(&b, "URL: %s\n\n", in.URL)
	fmt.Fprintf(&b, "Instruksi Anda: %s\n", in.Instruction)

	return b.String()
}

func toolRules(tools []ai.Tool) string {
	if len(tools) == 0 {
		return ""
	}

	_, hasText := ai.FindTool(tools, ToolFetchText)
	_, hasTranscript := ai.FindTool(tools, ToolFetchTranscript)
	_, hasCopyEdit := ai.FindTool(tools, ToolCopyEdit)

	var b strings.Builder
	switch {
	case hasText && hasTranscript:
		b.WriteString("Jika URL yang diberikan adalah tautan YouTube, gunakan alat '" + ToolFetchTranscript + "' untuk mengambil transkripnya. ")
		b.WriteString("Untuk URL lainnya, gunakan alat '" + ToolFetchText + "' untuk mengambil kontennya terlebih dahulu.\n")
	case hasText:
		b.WriteString("Jika URL yang diberikan, gunakan alat '" + ToolFetchText + "' untuk mengambil kontennya terlebih dahulu.\n")
	case hasTranscript:
		b.WriteString("Jika URL yang diberikan, gunakan alat '" + ToolFetchTranscript + "' untuk mengambil transkripnya terlebih dahulu.\n")
	}
	if hasText || hasTranscript {
		b.WriteString("Setelah mendapatkan teks dari URL, atau jika teks sudah disediakan dari awal, ")
		b.WriteString("Anda HARUS menerapkan instruksi pemrosesan di bawah ini pada teks tersebut.\n")
	}
	if hasCopyEdit {
		b.WriteString("Anda boleh menggunakan alat '" + ToolCopyEdit + "' untuk merapikan hasil akhir sebelum menjawab.\n")
	}
	return b.String()
}

// Schema field names.
const (
	FieldOutput      = "output"
	FieldAnswer      = "answer"
	FieldSentiment   = "sentiment"
	FieldExplanation = "explanation"
)

// processingSchema declares the pipeline's structured output. The answer
// field is only declared when withAnswer is set.
func processingSchema(withAnswer bool) *ai.Schema {
	s := &ai.Schema{
		Name: "processing_result",
		Fields: []ai.Field{{
			Name:        FieldOutput,
			Description: "Hasil utama berdasarkan format yang diminta (ringkasan, poin penting, dll).",
			Required:    true,
		}},
	}
	if withAnswer {
		s.Fields = append(s.Fields, ai.Field{
			Name:        FieldAnswer,
			Description: "Jawaban atas pertanyaan spesifik pengguna. Hanya ada jika pengguna bertanya.",
		})
	}
	return s
}
