// Package errors provides coded, structured errors shared by every stackconf
// package. A StructuredError carries a stable ErrorCode, a human message, an
// optional wrapped cause and a small context map used in log lines and API
// responses (for example the application shortname and the offending field).
package errors

import (
	stderrors "errors"
	"fmt"
	"maps"
	"net/http"
	"sort"
	"strings"
)

// ErrorCode identifies a class of failure.
type ErrorCode string

const (
	// ErrCodeUnresolvableDriver means no driver discriminator could be selected
	// or the selected discriminator is not registered.
	ErrCodeUnresolvableDriver ErrorCode = "UNRESOLVABLE_DRIVER"

	// ErrCodeIncompleteUpstreamData means a linked data store lacks a field
	// the driver needs (host, port).
	ErrCodeIncompleteUpstreamData ErrorCode = "INCOMPLETE_UPSTREAM_DATA"

	// ErrCodeConflictingTLSMaterial means only part of the TLS material set
	// was supplied by the operator.
	ErrCodeConflictingTLSMaterial ErrorCode = "CONFLICTING_TLS_MATERIAL"

	// ErrCodeMissingRequiredKey means a driver produced a mapping without a
	// key its artifact requires. This is a driver bug, never a data problem.
	ErrCodeMissingRequiredKey ErrorCode = "MISSING_REQUIRED_KEY"

	ErrCodeInvalidRequest     ErrorCode = "INVALID_REQUEST"
	ErrCodeNotFound           ErrorCode = "NOT_FOUND"
	ErrCodeMethodNotAllowed   ErrorCode = "METHOD_NOT_ALLOWED"
	ErrCodeRateLimitExceeded  ErrorCode = "RATE_LIMIT_EXCEEDED"
	ErrCodeTimeout            ErrorCode = "TIMEOUT"
	ErrCodeUnavailable        ErrorCode = "UNAVAILABLE"
	ErrCodeInternal           ErrorCode = "INTERNAL"
)

// StructuredError is the error type returned by stackconf packages.
type StructuredError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]any
}

// New creates a StructuredError with the given code and message.
func New(code ErrorCode, message string) *StructuredError {
	return &StructuredError{Code: code, Message: message}
}

// Wrap creates a StructuredError that wraps cause.
func Wrap(code ErrorCode, message string, cause error) *StructuredError {
	return &StructuredError{Code: code, Message: message, Cause: cause}
}

// WithContext returns a copy of e with key set to value in its context.
func (e *StructuredError) WithContext(key string, value any) *StructuredError {
	ctx := make(map[string]any, len(e.Context)+1)
	maps.Copy(ctx, e.Context)
	ctx[key] = value
	return &StructuredError{Code: e.Code, Message: e.Message, Cause: e.Cause, Context: ctx}
}

// Error implements error. Context keys are rendered in sorted order so the
// message is stable across runs.
func (e *StructuredError) Error() string {
	var b strings.Builder
	b.WriteString("[")
	b.WriteString(string(e.Code))
	b.WriteString("] ")
	b.WriteString(e.Message)

	if len(e.Context) > 0 {
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString(" (")
		for i, k := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s=%v", k, e.Context[k])
		}
		b.WriteString(")")
	}

	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the wrapped cause.
func (e *StructuredError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a StructuredError with the same code.
func (e *StructuredError) Is(target error) bool {
	t, ok := target.(*StructuredError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// CodeOf returns the code of the first StructuredError in err's chain, or
// ErrCodeInternal when there is none.
func CodeOf(err error) ErrorCode {
	var se *StructuredError
	if stderrors.As(err, &se) {
		return se.Code
	}
	return ErrCodeInternal
}

// IsCode reports whether err's chain contains a StructuredError with code.
func IsCode(err error, code ErrorCode) bool {
	return stderrors.Is(err, &StructuredError{Code: code})
}

// HTTPStatusFromCode maps an error code to the HTTP status used by the API.
func HTTPStatusFromCode(code ErrorCode) int {
	switch code {
	case ErrCodeInvalidRequest, ErrCodeUnresolvableDriver,
		ErrCodeIncompleteUpstreamData, ErrCodeConflictingTLSMaterial:
		return http.StatusBadRequest
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests
	case ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case ErrCodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Retryable reports whether a failure with code may succeed on retry.
func Retryable(code ErrorCode) bool {
	switch code {
	case ErrCodeTimeout, ErrCodeUnavailable, ErrCodeRateLimitExceeded:
		return true
	default:
		return false
	}
}

// Standard library helpers, re-exported so callers need a single errors import.
var (
	Is     = stderrors.Is
	As     = stderrors.As
	Unwrap = stderrors.Unwrap
	Join   = stderrors.Join
)
