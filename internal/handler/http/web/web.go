// Package web serves the HTML form for the processing pipeline.
package web

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/yuin/goldmark"

	"ringkas/internal/domain/entity"
	"ringkas/internal/handler/http/respond"
	"ringkas/internal/infra/pdf"
	"ringkas/internal/usecase/ai"
	"ringkas/internal/usecase/summarize"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

const maxUploadMemory = 8 << 20

var formatLabels = map[entity.OutputFormat]string{
	entity.FormatSummary:      "Ringkasan",
	entity.FormatKeyPoints:    "Poin Penting",
	entity.FormatQuestions:    "Daftar Pertanyaan",
	entity.FormatContentIdeas: "Ide Konten",
}

var languageLabels = map[entity.OutputLanguage]string{
	entity.LanguageIndonesian: "Bahasa Indonesia",
	entity.LanguageEnglish:    "English",
	entity.LanguageArabic:     "العربية",
}

// Option is one entry of a select element.
type Option struct {
	Value    string
	Label    string
	Selected bool
}

// FormValues echoes the submitted fields back into the form.
type FormValues struct {
	Text     string
	URL      string
	Question string
}

// ResultView is the processing result prepared for display.
type ResultView struct {
	OutputHTML          template.HTML
	Answer              string
	WordCountOriginal   int
	WordCountSummary    int
	ReductionPercentage int
	SourceKind          string
}

// PageData is the view model of the index template.
type PageData struct {
	Title     string
	Form      FormValues
	Formats   []Option
	Languages []Option
	Error     string
	Result    *ResultView
}

// Handler renders the form and runs submissions through the service.
type Handler struct {
	Svc    *summarize.Service
	Logger *slog.Logger

	tmpl     *template.Template
	markdown goldmark.Markdown
}

// NewHandler parses the embedded templates.
func NewHandler(svc *summarize.Service, logger *slog.Logger) (*Handler, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	if tmpl.Lookup("index") == nil {
		return nil, fmt.Errorf("template %q not found (defined: %s)", "index", tmpl.DefinedTemplates())
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		Svc:      svc,
		Logger:   logger,
		tmpl:     tmpl,
		markdown: goldmark.New(),
	}, nil
}

// Register mounts the form, its submission endpoint and the stylesheet.
func (h *Handler) Register(mux *http.ServeMux) {
	static, _ := fs.Sub(staticFS, "static")
	mux.HandleFunc("GET /{$}", h.Index)
	mux.HandleFunc("POST /{$}", h.Submit)
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(static)))
}

// Index shows an empty form.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, newPageData(entity.ProcessingRequest{}))
}

// Submit processes the form. An uploaded PDF replaces the text field.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	req, err := h.readForm(r)
	data := newPageData(req)
	if err != nil {
		data.Error = uploadMessage(err)
		h.render(w, r, http.StatusBadRequest, data)
		return
	}

	result, err := h.Svc.Process(r.Context(), req)
	if err != nil {
		data.Error = errorMessage(err)
		h.render(w, r, respond.StatusFor(err), data)
		return
	}

	view, err := h.resultView(result)
	if err != nil {
		h.Logger.ErrorContext(r.Context(), "markdown rendering failed", slog.String("error", err.Error()))
		data.Error = errorMessage(err)
		h.render(w, r, http.StatusInternalServerError, data)
		return
	}
	data.Result = view
	h.render(w, r, http.StatusOK, data)
}

func (h *Handler) readForm(r *http.Request) (entity.ProcessingRequest, error) {
	err := r.ParseMultipartForm(maxUploadMemory)
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return entity.ProcessingRequest{}, err
	}
	if r.MultipartForm != nil {
		defer func() { _ = r.MultipartForm.RemoveAll() }()
	}

	req := entity.ProcessingRequest{
		Text:           r.FormValue("text"),
		URL:            r.FormValue("url"),
		Question:       r.FormValue("question"),
		OutputFormat:   entity.OutputFormat(r.FormValue("outputFormat")),
		OutputLanguage: entity.OutputLanguage(r.FormValue("outputLanguage")),
	}

	file, header, err := r.FormFile("file")
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		return req, nil
	case err != nil:
		return req, err
	}
	defer func() { _ = file.Close() }()

	doc, err := pdf.Extract(file, header.Size)
	if err != nil {
		return req, err
	}
	h.Logger.InfoContext(r.Context(), "using uploaded pdf as source text",
		slog.String("filename", header.Filename),
		slog.Int("pages", doc.Pages))
	req.Text = doc.Text
	return req, nil
}

func (h *Handler) resultView(r *entity.ProcessingResult) (*ResultView, error) {
	var buf bytes.Buffer
	if err := h.markdown.Convert([]byte(r.Output), &buf); err != nil {
		return nil, err
	}
	return &ResultView{
		// goldmark drops raw HTML unless html.WithUnsafe is set.
		OutputHTML:          template.HTML(buf.String()), //nolint:gosec
		Answer:              r.AnswerText(),
		WordCountOriginal:   r.WordCountOriginal,
		WordCountSummary:    r.WordCountSummary,
		ReductionPercentage: r.ReductionPercentage(),
		SourceKind:          string(r.SourceKind),
	}, nil
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, code int, data PageData) {
	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, "index", data); err != nil {
		h.Logger.ErrorContext(r.Context(), "template execution failed", slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	if _, err := buf.WriteTo(w); err != nil {
		h.Logger.WarnContext(r.Context(), "failed to write response", slog.String("error", err.Error()))
	}
}

func newPageData(req entity.ProcessingRequest) PageData {
	req = req.Normalize()
	data := PageData{
		Title: "Ringkas",
		Form:  FormValues{Text: req.Text, URL: req.URL, Question: req.Question},
	}
	for _, f := range entity.OutputFormats() {
		data.Formats = append(data.Formats, Option{Value: string(f), Label: formatLabels[f], Selected: f == req.OutputFormat})
	}
	for _, l := range entity.OutputLanguages() {
		data.Languages = append(data.Languages, Option{Value: string(l), Label: languageLabels[l], Selected: l == req.OutputLanguage})
	}
	return data
}

func uploadMessage(err error) string {
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		return "Berkas terlalu besar."
	case errors.Is(err, pdf.ErrNoText):
		return "PDF tidak berisi teks yang dapat diekstrak."
	case errors.Is(err, pdf.ErrInvalidPDF):
		return "Berkas bukan PDF yang valid."
	default:
		return "Formulir tidak valid."
	}
}

func errorMessage(err error) string {
	var verr *entity.ValidationError
	switch {
	case errors.Is(err, entity.ErrMissingInput):
		return "Masukkan teks, URL, atau unggah PDF."
	case errors.As(err, &verr):
		return verr.Error()
	case errors.Is(err, entity.ErrEmptyInput):
		return "Tidak ada teks untuk diproses. Masukkan teks atau URL yang valid."
	case errors.Is(err, ai.ErrProviderDisabled):
		return "Layanan AI belum dikonfigurasi."
	case errors.Is(err, entity.ErrModelInvocation):
		return "Model tidak memberikan hasil yang dapat digunakan. Silakan coba lagi."
	default:
		return "Terjadi kesalahan pada server."
	}
}
