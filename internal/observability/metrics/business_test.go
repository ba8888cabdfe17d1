package metrics

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"ringkas/internal/usecase/fetch"
)

func TestRecordProcess(t *testing.T) {
	before := testutil.ToFloat64(ProcessRequestsTotal.WithLabelValues("keyPoints", "scrape", "success"))

	RecordProcess("keyPoints", "scrape", true, 1500*time.Millisecond)

	after := testutil.ToFloat64(ProcessRequestsTotal.WithLabelValues("keyPoints", "scrape", "success"))
	assert.Equal(t, before+1, after)
}

func TestRecordToolInvocation(t *testing.T) {
	ok := ToolInvocationsTotal.WithLabelValues("copyedit", "success")
	failed := ToolInvocationsTotal.WithLabelValues("copyedit", "failure")
	okBefore, failedBefore := testutil.ToFloat64(ok), testutil.ToFloat64(failed)

	RecordToolInvocation("copyedit", false)
	RecordToolInvocation("copyedit", true)
	RecordToolInvocation("copyedit", true)

	assert.Equal(t, okBefore+1, testutil.ToFloat64(ok))
	assert.Equal(t, failedBefore+2, testutil.ToFloat64(failed))
}

func TestRecordContentFetch(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		result string
	}{
		{name: "success", err: nil, result: "success"},
		{name: "empty", err: fmt.Errorf("extract: %w", fetch.ErrEmptyContent), result: "empty"},
		{name: "failure", err: errors.New("connection refused"), result: "failure"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := ContentFetchAttemptsTotal.WithLabelValues("page", tt.result)
			before := testutil.ToFloat64(c)

			RecordContentFetch("page", tt.err, 200*time.Millisecond, 1024)

			assert.Equal(t, before+1, testutil.ToFloat64(c))
		})
	}
}

func TestRecordMisc(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordLLMRequest("claude", true, 3*time.Second)
		RecordLLMRequest("openai", false, 100*time.Millisecond)
		RecordReduction("summary", 70)
		RecordFormatViolation("keyPoints")
		RecordHTTPRequest("POST", "/api/v1/process", "200", time.Second, 512, 2048)
		RecordHTTPRequest("GET", "/health", "200", time.Millisecond, 0, 0)
	})
}
