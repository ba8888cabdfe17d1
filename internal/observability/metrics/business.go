package metrics

import (
	"errors"
	"time"

	"ringkas/internal/usecase/fetch"
)

func status(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}

// RecordProcess records one pipeline run. source is the resolved source kind
// ("literal", "scrape", "transcript") or "none" when resolution never ran.
func RecordProcess(format, source string, success bool, duration time.Duration) {
	ProcessRequestsTotal.WithLabelValues(format, source, status(success)).Inc()
	ProcessDuration.WithLabelValues(format).Observe(duration.Seconds())
}

// RecordReduction observes the reduction percentage of a successful run.
func RecordReduction(format string, percentage int) {
	ReductionPercentage.WithLabelValues(format).Observe(float64(percentage))
}

// RecordFormatViolation counts an output that does not follow its list format.
func RecordFormatViolation(format string) {
	FormatViolationsTotal.WithLabelValues(format).Inc()
}

// RecordLLMRequest records one provider generation.
func RecordLLMRequest(provider string, success bool, duration time.Duration) {
	LLMRequestsTotal.WithLabelValues(provider, status(success)).Inc()
	LLMRequestDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

// RecordToolInvocation counts a tool call; failed marks an in-band failure result.
func RecordToolInvocation(tool string, failed bool) {
	ToolInvocationsTotal.WithLabelValues(tool, status(!failed)).Inc()
}

// RecordContentFetch records a page or transcript fetch.
//
// Parameters:
//   - kind: "page" or "transcript"
//   - err: the fetch error, nil on success
//   - duration: time taken including failures
//   - size: extracted text size in bytes (ignored on failure)
func RecordContentFetch(kind string, err error, duration time.Duration, size int) {
	result := "success"
	switch {
	case err == nil:
	case errors.Is(err, fetch.ErrEmptyContent):
		result = "empty"
	default:
		result = "failure"
	}

	ContentFetchAttemptsTotal.WithLabelValues(kind, result).Inc()
	ContentFetchDuration.WithLabelValues(kind).Observe(duration.Seconds())
	if err == nil {
		ContentFetchSize.WithLabelValues(kind).Observe(float64(size))
	}
}
