package serializer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

// MaxRequestBytes caps request bodies accepted by DecodeJSON.
const MaxRequestBytes = 4 << 20

// RespondJSON writes data as JSON with statusCode. The body is encoded
// before headers are written so an encoding failure becomes a clean 500.
func RespondJSON(w http.ResponseWriter, statusCode int, data any) {
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(data); err != nil {
		slog.Error("json encoding failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Warn("response write failed", "error", err)
	}
}

// DecodeJSON reads a JSON request body into a new T, rejecting bodies over
// MaxRequestBytes, trailing data and unknown fields.
func DecodeJSON[T any](r *http.Request) (*T, error) {
	dec := json.NewDecoder(io.LimitReader(r.Body, MaxRequestBytes+1))
	dec.DisallowUnknownFields()

	var v T
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("invalid request body: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("invalid request body: unexpected data after document")
	}
	return &v, nil
}
