package process

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"ringkas/internal/domain/entity"
	"ringkas/internal/handler/http/respond"
	"ringkas/internal/usecase/summarize"
)

// decode reads a JSON body into v and writes the error response itself
// when it fails.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		code := http.StatusBadRequest
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			code = http.StatusRequestEntityTooLarge
		}
		respond.SafeError(w, code, fmt.Errorf("invalid request body: %w", err))
		return false
	}
	return true
}

type ProcessHandler struct{ Svc *summarize.Service }

// ServeHTTP runs one request through the pipeline.
// @Summary      Process text or URL
// @Tags         process
// @Accept       json
// @Produce      json
// @Success      200 {object} ProcessResponse
// @Failure      400 {string} string "Bad request - missing or invalid input"
// @Failure      422 {string} string "Nothing to process"
// @Failure      502 {string} string "Model returned no usable output"
// @Router       /api/v1/process [post]
func (h ProcessHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req ProcessRequest
	if !decode(w, r, &req) {
		return
	}

	result, err := h.Svc.Process(r.Context(), req.toEntity())
	if err != nil {
		respond.PipelineError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, newProcessResponse(result))
}

type AnswerHandler struct{ Svc *summarize.Service }

// ServeHTTP answers a question from the supplied source text only.
// @Summary      Answer a question about a text
// @Tags         process
// @Accept       json
// @Produce      json
// @Success      200 {object} AnswerResponse
// @Router       /api/v1/answer [post]
func (h AnswerHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req AnswerRequest
	if !decode(w, r, &req) {
		return
	}

	answer, err := h.Svc.AnswerQuestion(r.Context(), req.SourceText, req.Question, entity.OutputLanguage(req.OutputLanguage))
	if err != nil {
		respond.PipelineError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, AnswerResponse{Answer: answer})
}

type SentimentHandler struct{ Svc *summarize.Service }

// ServeHTTP labels the sentiment of a text.
// @Summary      Analyze sentiment
// @Tags         process
// @Accept       json
// @Produce      json
// @Success      200 {object} SentimentResponse
// @Router       /api/v1/sentiment [post]
func (h SentimentHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req SentimentRequest
	if !decode(w, r, &req) {
		return
	}

	result, err := h.Svc.AnalyzeSentiment(r.Context(), req.Text)
	if err != nil {
		respond.PipelineError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, SentimentResponse{
		Sentiment:   string(result.Sentiment),
		Explanation: result.Explanation,
	})
}
