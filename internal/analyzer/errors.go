package analyzer

import (
	"fmt"

	"github.com/interviewlens/interviewlens/internal/logger"
)

// maxExcerptRunes bounds how much raw model output is carried in a
// FormatError for diagnostics.
const maxExcerptRunes = 500

// FormatError indicates the generation output did not contain a well-formed
// JSON object matching the report schema. Excerpt carries a bounded copy of
// the raw output.
type FormatError struct {
	Reason  string
	Excerpt string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("analysis response not in expected JSON format: %s", e.Reason)
}

// newFormatError builds a FormatError with the raw output truncated to the
// excerpt limit.
func newFormatError(reason, raw string) *FormatError {
	return &FormatError{
		Reason:  reason,
		Excerpt: logger.TruncateForLog(raw, maxExcerptRunes),
	}
}

// CallError indicates the generation call itself failed.
type CallError struct {
	Err error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("failed to generate analysis: %v", e.Err)
}

func (e *CallError) Unwrap() error {
	return e.Err
}
