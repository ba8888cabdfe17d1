package process

import (
	"log/slog"
	"net/http"

	"ringkas/internal/usecase/summarize"
)

// Register mounts the processing endpoints under /api/v1.
func Register(mux *http.ServeMux, svc *summarize.Service, logger *slog.Logger) {
	mux.Handle("POST /api/v1/process", ProcessHandler{svc})
	mux.Handle("POST /api/v1/answer", AnswerHandler{svc})
	mux.Handle("POST /api/v1/sentiment", SentimentHandler{svc})
	mux.Handle("POST /api/v1/pdf", PDFHandler{Logger: logger})
}
