// Package pdf extracts plain text from uploaded PDF documents.
package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"
)

var (
	// ErrInvalidPDF means the input could not be parsed as a PDF document.
	ErrInvalidPDF = errors.New("invalid PDF document")

	// ErrNoText means the document parsed but no page contained extractable
	// text (typically a scanned document without an OCR layer).
	ErrNoText = errors.New("PDF contains no extractable text")
)

// Document is the text content of a PDF.
type Document struct {
	// Text holds the page texts in order, separated by newlines.
	Text string
	// Pages is the total number of pages, including pages without text.
	Pages int
}

// Extract reads every page of the PDF in r and returns its text. Within a
// page whitespace runs collapse to single spaces.
func Extract(r io.ReaderAt, size int64) (doc *Document, err error) {
	// The parser panics on some malformed inputs.
	defer func() {
		if rec := recover(); rec != nil {
			doc = nil
			err = fmt.Errorf("%w: %v", ErrInvalidPDF, rec)
		}
	}()

	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPDF, err)
	}

	total := reader.NumPage()
	pages := make([]string, 0, total)
	for i := 1; i <= total; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			slog.Warn("skipping unreadable PDF page",
				slog.Int("page", i),
				slog.String("error", err.Error()))
			continue
		}
		if collapsed := strings.Join(strings.Fields(text), " "); collapsed != "" {
			pages = append(pages, collapsed)
		}
	}

	if len(pages) == 0 {
		return nil, ErrNoText
	}

	return &Document{Text: strings.Join(pages, "\n"), Pages: total}, nil
}

// ExtractBytes is Extract for an in-memory document.
func ExtractBytes(data []byte) (*Document, error) {
	return Extract(bytes.NewReader(data), int64(len(data)))
}
