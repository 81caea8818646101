package server

import (
	"maps"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/stackconf/stackconf/pkg/errors"
	"github.com/stackconf/stackconf/pkg/serializer"
)

// WriteError writes an ErrorResponse tagged with the request ID.
func WriteError(w http.ResponseWriter, r *http.Request, statusCode int,
	code errors.ErrorCode, message string, retryable bool, details map[string]any) {

	requestID, _ := r.Context().Value(contextKeyRequestID).(string)
	if requestID == "" {
		requestID = uuid.New().String()
	}

	serializer.RespondJSON(w, statusCode, ErrorResponse{
		Code:      string(code),
		Message:   message,
		Details:   details,
		RequestID: requestID,
		Timestamp: time.Now().UTC(),
		Retryable: retryable,
	})
}

// WriteErrorFromErr maps err to a response. StructuredErrors keep their code,
// message and context; anything else is reported as INTERNAL with fallback
// as the message.
func WriteErrorFromErr(w http.ResponseWriter, r *http.Request, err error, fallback string, extra map[string]any) {
	var se *errors.StructuredError
	if !errors.As(err, &se) {
		details := mergeDetails(extra, map[string]any{"error": err.Error()})
		WriteError(w, r, http.StatusInternalServerError, errors.ErrCodeInternal, fallback, true, details)
		return
	}

	details := mergeDetails(se.Context, extra)
	if se.Cause != nil {
		details = mergeDetails(details, map[string]any{"error": se.Cause.Error()})
	}
	WriteError(w, r, errors.HTTPStatusFromCode(se.Code), se.Code, se.Message, retryableFromCode(se.Code), details)
}

func retryableFromCode(code errors.ErrorCode) bool {
	return code == errors.ErrCodeInternal || errors.Retryable(code)
}

// mergeDetails returns a new map with b's entries over a's, or nil when both
// are empty.
func mergeDetails(a, b map[string]any) map[string]any {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	out := make(map[string]any, len(a)+len(b))
	maps.Copy(out, a)
	maps.Copy(out, b)
	return out
}
