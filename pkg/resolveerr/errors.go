// Package resolveerr defines the error kinds raised at the boundary of the
// identity resolution engine. Every error carries a stable Code, a
// human-readable Message, and a Context map holding the identifiers a
// caller needs to act on it (record id, field, strategy, operation).
package resolveerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Code enumerates the error kinds a caller can branch on.
type Code string

const (
	CodeConfiguration           Code = "configuration_error"
	CodeValidation              Code = "validation_error"
	CodeMatch                   Code = "match_error"
	CodeMergeConflict           Code = "merge_conflict_error"
	CodeUnmerge                 Code = "unmerge_error"
	CodeProvenanceNotFound      Code = "provenance_not_found_error"
	CodeSourceRecordNotFound    Code = "source_record_not_found_error"
	CodeQueueItemNotFound       Code = "queue_item_not_found_error"
	CodeInvalidStatusTransition Code = "invalid_status_transition_error"
	CodeServiceTimeout          Code = "service_timeout_error"
	CodeServiceUnavailable      Code = "service_unavailable_error"
	CodeServiceNetwork          Code = "service_network_error"
)

// Error is the concrete error type raised at every core boundary.
type Error struct {
	Code    Code
	Message string
	Context map[string]any
	cause   error
}

// New creates an Error of the given kind with a message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message, Context: map[string]any{}}
}

// Newf creates an Error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap creates an Error of the given kind wrapping an underlying cause.
// The cause is preserved for errors.Is/As/Unwrap and for Cause().
func Wrap(code Code, cause error, message string) *Error {
	return &Error{Code: code, Message: message, Context: map[string]any{}, cause: errors.Wrap(cause, message)}
}

// With attaches a context key/value and returns the same error for chaining,
// mirroring the fluent AddField/AddStep style used throughout the teacher's
// error types.
func (e *Error) With(key string, value any) *Error {
	if e.Context == nil {
		e.Context = map[string]any{}
	}
	e.Context[key] = value
	return e
}

// WithRecordID attaches the record id the error pertains to.
func (e *Error) WithRecordID(id string) *Error { return e.With("record_id", id) }

// WithField attaches the field path the error pertains to.
func (e *Error) WithField(field string) *Error { return e.With("field", field) }

// WithStrategy attaches the merge/match strategy name the error pertains to.
func (e *Error) WithStrategy(strategy string) *Error { return e.With("strategy", strategy) }

// WithOperation attaches the operation name (e.g. "resolve", "merge", "unmerge").
func (e *Error) WithOperation(op string) *Error { return e.With("operation", op) }

func (e *Error) Error() string {
	if len(e.Context) == 0 {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s %v", e.Code, e.Message, e.Context)
}

// Unwrap exposes the wrapped cause, if any, for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.cause
}

// Cause returns the underlying cause, or nil.
func (e *Error) Cause() error {
	return e.cause
}

// Is reports whether err is a resolveerr Error with the same Code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}
