package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ringkas/internal/domain/entity"
	"ringkas/internal/usecase/ai"
)

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return body["error"]
}

func TestJSON(t *testing.T) {
	tests := []struct {
		name         string
		code         int
		data         any
		expectedBody string
	}{
		{
			name:         "map",
			code:         http.StatusOK,
			data:         map[string]string{"output": "ringkasan"},
			expectedBody: `{"output":"ringkasan"}`,
		},
		{
			name:         "struct",
			code:         http.StatusCreated,
			data:         struct{ WordCount int }{WordCount: 12},
			expectedBody: `{"WordCount":12}`,
		},
		{
			name: "nil",
			code: http.StatusNoContent,
			data: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			JSON(w, tt.code, tt.data)

			if w.Code != tt.code {
				t.Errorf("Code = %v, want %v", w.Code, tt.code)
			}
			if ct := w.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %v, want application/json", ct)
			}
			if body := strings.TrimSpace(w.Body.String()); body != tt.expectedBody {
				t.Errorf("Body = %v, want %v", body, tt.expectedBody)
			}
		})
	}
}

func TestJSON_EncodingError(t *testing.T) {
	w := httptest.NewRecorder()
	JSON(w, http.StatusOK, make(chan int))

	if w.Code != http.StatusOK {
		t.Errorf("Code = %v, want %v", w.Code, http.StatusOK)
	}
}

func TestSafeError(t *testing.T) {
	tests := []struct {
		name        string
		code        int
		err         error
		expectedMsg string
	}{
		{
			name:        "required",
			code:        http.StatusBadRequest,
			err:         entity.ErrMissingInput,
			expectedMsg: "text or url is required",
		},
		{
			name:        "validation error",
			code:        http.StatusBadRequest,
			err:         &entity.ValidationError{Field: "outputFormat", Message: "must be one of summary, keyPoints, questions, contentIdeas"},
			expectedMsg: "invalid outputFormat: must be one of summary, keyPoints, questions, contentIdeas",
		},
		{
			name:        "empty input",
			code:        http.StatusUnprocessableEntity,
			err:         entity.ErrEmptyInput,
			expectedMsg: entity.ErrEmptyInput.Error(),
		},
		{
			name:        "unknown 4xx is hidden",
			code:        http.StatusBadRequest,
			err:         errors.New("dial tcp 10.0.0.1:443: connection refused"),
			expectedMsg: "internal server error",
		},
		{
			name:        "5xx always hidden",
			code:        http.StatusInternalServerError,
			err:         errors.New("field is required by sk-ant-api03-secret"),
			expectedMsg: "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			SafeError(w, tt.code, tt.err)

			if w.Code != tt.code {
				t.Errorf("Code = %v, want %v", w.Code, tt.code)
			}
			if got := decodeError(t, w); got != tt.expectedMsg {
				t.Errorf("Error message = %v, want %v", got, tt.expectedMsg)
			}
		})
	}
}

func TestSafeError_Nil(t *testing.T) {
	w := httptest.NewRecorder()
	SafeError(w, http.StatusBadRequest, nil)
	SafeErrorV2(w, http.StatusBadRequest, nil)

	if w.Body.Len() != 0 {
		t.Errorf("Expected no body for nil error, but got: %v", w.Body.String())
	}
}

func TestAppError(t *testing.T) {
	inner := errors.New("claude api error: 529 overloaded")
	err := NewAppError(http.StatusBadGateway, "model unavailable", inner)

	if err.Error() != inner.Error() {
		t.Errorf("Error() = %v, want %v", err.Error(), inner.Error())
	}
	if !errors.Is(err, inner) {
		t.Error("AppError must unwrap to its cause")
	}
	if got := NewAppError(http.StatusBadRequest, "bad", nil).Error(); got != "bad" {
		t.Errorf("Error() = %v, want bad", got)
	}

	w := httptest.NewRecorder()
	SafeErrorV2(w, http.StatusInternalServerError, fmt.Errorf("wrapped: %w", err))
	if w.Code != http.StatusBadGateway {
		t.Errorf("Code = %v, want %v", w.Code, http.StatusBadGateway)
	}
	if got := decodeError(t, w); got != "model unavailable" {
		t.Errorf("Error message = %v, want model unavailable", got)
	}
}

func TestPipelineError(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedCode int
		expectedMsg  string
	}{
		{
			name:         "missing input",
			err:          entity.ErrMissingInput,
			expectedCode: http.StatusBadRequest,
			expectedMsg:  "text or url is required",
		},
		{
			name:         "invalid input",
			err:          &entity.ValidationError{Field: "url", Message: "must use http or https scheme"},
			expectedCode: http.StatusBadRequest,
			expectedMsg:  "invalid url: must use http or https scheme",
		},
		{
			name:         "empty input",
			err:          entity.ErrEmptyInput,
			expectedCode: http.StatusUnprocessableEntity,
			expectedMsg:  entity.ErrEmptyInput.Error(),
		},
		{
			name:         "model invocation",
			err:          fmt.Errorf("%w: claude api error: sk-ant-api03-abc", entity.ErrModelInvocation),
			expectedCode: http.StatusBadGateway,
			expectedMsg:  "model returned no usable output",
		},
		{
			name:         "tool loop",
			err:          ai.ErrToolLoopExceeded,
			expectedCode: http.StatusBadGateway,
			expectedMsg:  "model returned no usable output",
		},
		{
			name:         "provider disabled",
			err:          ai.ErrProviderDisabled,
			expectedCode: http.StatusBadGateway,
			expectedMsg:  "ai provider is not configured",
		},
		{
			name:         "anything else",
			err:          errors.New("boom"),
			expectedCode: http.StatusInternalServerError,
			expectedMsg:  "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusFor(tt.err); got != tt.expectedCode {
				t.Errorf("StatusFor() = %v, want %v", got, tt.expectedCode)
			}

			w := httptest.NewRecorder()
			PipelineError(w, tt.err)

			if w.Code != tt.expectedCode {
				t.Errorf("Code = %v, want %v", w.Code, tt.expectedCode)
			}
			if got := decodeError(t, w); got != tt.expectedMsg {
				t.Errorf("Error message = %v, want %v", got, tt.expectedMsg)
			}
		})
	}
}
