package errors

import (
	stderrors "errors"
	"fmt"

	"github.com/nifc-lang/nifc/internal/token"
)

// Report is the canonical structured error produced by every compiler phase.
type Report struct {
	Schema  string         `json:"schema"` // always "nifc.error/v1"
	Code    string         `json:"code"`
	Phase   string         `json:"phase"`
	Message string         `json:"message"`
	Span    *token.Span    `json:"span,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}

// ReportError wraps a Report so it survives errors.As() unwrapping.
type ReportError struct {
	Rep *Report
}

func (e *ReportError) Error() string {
	if e.Rep == nil {
		return "unknown error"
	}
	if e.Rep.Span != nil {
		return fmt.Sprintf("%s: %s (%s)", e.Rep.Code, e.Rep.Message, e.Rep.Span)
	}
	return fmt.Sprintf("%s: %s", e.Rep.Code, e.Rep.Message)
}

// AsReport extracts a *Report from an error chain, if present.
func AsReport(err error) (*Report, bool) {
	var re *ReportError
	if stderrors.As(err, &re) {
		return re.Rep, true
	}
	return nil, false
}

// New builds a Report and wraps it as an error.
func New(phase, code, message string, span *token.Span) error {
	return &ReportError{Rep: &Report{
		Schema:  "nifc.error/v1",
		Code:    code,
		Phase:   phase,
		Message: message,
		Span:    span,
	}}
}

// Newf is New with fmt.Sprintf-style formatting of the message.
func Newf(phase, code string, span *token.Span, format string, args ...any) error {
	return New(phase, code, fmt.Sprintf(format, args...), span)
}
