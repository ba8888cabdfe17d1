// Package respond writes JSON bodies and maps pipeline errors to HTTP
// statuses without leaking provider credentials or upstream details.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"ringkas/internal/domain/entity"
	"ringkas/internal/usecase/ai"
)

const internalMessage = "internal server error"

// echoable lists fragments of client errors whose text is safe to return.
var echoable = []string{
	"required",
	"invalid",
	"must be",
	"too long",
	"too large",
	"no text to process",
	"no extractable text",
}

type errorBody struct {
	Error string `json:"error"`
}

// JSON writes v as the response body with status code. A nil v sends only
// the header.
func JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().Error("encode response",
			slog.Int("status_code", code),
			slog.Any("error", err))
	}
}

// Error writes err verbatim. Use it only for messages built by the handler.
func Error(w http.ResponseWriter, code int, err error) {
	JSON(w, code, errorBody{Error: err.Error()})
}

func echoes(code int, msg string) bool {
	if code >= http.StatusInternalServerError {
		return false
	}
	lower := strings.ToLower(msg)
	for _, frag := range echoable {
		if strings.Contains(lower, frag) {
			return true
		}
	}
	return false
}

// SafeError writes err when it reads like a client mistake and the status is
// below 500. Everything else becomes "internal server error" and the masked
// cause is logged.
func SafeError(w http.ResponseWriter, code int, err error) {
	if err == nil {
		return
	}
	if msg := err.Error(); echoes(code, msg) {
		JSON(w, code, errorBody{Error: msg})
		return
	}
	slog.Default().Error("request failed",
		slog.Int("code", code),
		slog.String("status", http.StatusText(code)),
		slog.String("error", SanitizeError(err)))
	JSON(w, code, errorBody{Error: internalMessage})
}

// AppError pairs a fixed client message with the cause that produced it.
type AppError struct {
	Code    int
	UserMsg string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.UserMsg
	}
	return e.Err.Error()
}

func (e *AppError) Unwrap() error { return e.Err }

// NewAppError returns an AppError answering with code and userMsg.
func NewAppError(code int, userMsg string, err error) *AppError {
	return &AppError{Code: code, UserMsg: userMsg, Err: err}
}

// SafeErrorV2 writes the user message of an AppError anywhere in err's chain
// and falls back to SafeError otherwise.
func SafeErrorV2(w http.ResponseWriter, code int, err error) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		SafeError(w, code, err)
		return
	}
	if appErr.Err != nil {
		slog.Default().Warn("request failed",
			slog.Int("code", appErr.Code),
			slog.String("user_message", appErr.UserMsg),
			slog.String("error", SanitizeError(appErr.Err)))
	}
	JSON(w, appErr.Code, errorBody{Error: appErr.UserMsg})
}

// StatusFor maps a pipeline error to its HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, entity.ErrMissingInput), errors.Is(err, entity.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, entity.ErrEmptyInput):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ai.ErrProviderDisabled), errors.Is(err, entity.ErrModelInvocation):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// PipelineError writes err with the status StatusFor picks. Model failures
// get a fixed message and the cause is only logged.
func PipelineError(w http.ResponseWriter, err error) {
	code := StatusFor(err)
	switch {
	case errors.Is(err, ai.ErrProviderDisabled):
		SafeErrorV2(w, code, NewAppError(code, "ai provider is not configured", err))
	case errors.Is(err, entity.ErrModelInvocation):
		SafeErrorV2(w, code, NewAppError(code, "model returned no usable output", err))
	default:
		SafeError(w, code, err)
	}
}
