package process

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"ringkas/internal/handler/http/respond"
	"ringkas/internal/infra/pdf"
	"ringkas/internal/utils/text"
)

// DefaultMaxUploadMemory is the part of a multipart upload kept in memory;
// the rest spills to temporary files.
const DefaultMaxUploadMemory = 8 << 20

// PDFHandler extracts text from the multipart field "file".
type PDFHandler struct {
	MaxMemory int64
	Logger    *slog.Logger
}

// ServeHTTP returns the extracted text and its word count.
// @Summary      Extract text from a PDF
// @Tags         process
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "PDF document"
// @Success      200 {object} PDFResponse
// @Failure      400 {string} string "Missing file or invalid PDF"
// @Failure      422 {string} string "PDF contains no extractable text"
// @Router       /api/v1/pdf [post]
func (h PDFHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	doc, err := ExtractUpload(r, h.maxMemory())
	if err != nil {
		if h.Logger != nil {
			h.Logger.WarnContext(r.Context(), "pdf extraction failed", slog.String("error", err.Error()))
		}
		respond.SafeError(w, uploadStatus(err), err)
		return
	}

	respond.JSON(w, http.StatusOK, PDFResponse{
		Text:      doc.Text,
		WordCount: text.CountWords(doc.Text),
		Pages:     doc.Pages,
	})
}

func (h PDFHandler) maxMemory() int64 {
	if h.MaxMemory <= 0 {
		return DefaultMaxUploadMemory
	}
	return h.MaxMemory
}

// ErrMissingFile means the multipart form had no "file" part.
var ErrMissingFile = errors.New("file is required")

// ExtractUpload reads the "file" part of a multipart request and extracts
// its text.
func ExtractUpload(r *http.Request, maxMemory int64) (*pdf.Document, error) {
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, fmt.Errorf("upload too large: %w", err)
		}
		return nil, fmt.Errorf("invalid upload: %w", err)
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, ErrMissingFile
		}
		return nil, fmt.Errorf("invalid upload: %w", err)
	}
	defer func() { _ = file.Close() }()

	return pdf.Extract(file, header.Size)
}

func uploadStatus(err error) int {
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, pdf.ErrNoText):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}
