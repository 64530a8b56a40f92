// Package httpx holds the JSON request/response conventions shared by every
// module router: a stable envelope, an error mapper that never leaks
// internals, and a bounded body decoder.
package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Envelope is the standard JSON response body.
type Envelope struct {
	Data  any          `json:"data,omitempty"`
	Error *ErrorDetail `json:"error,omitempty"`
}

// ErrorDetail carries the machine key and human message of a failure.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}

// JSON writes data wrapped in the standard envelope.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Envelope{Data: data})
}

// Error writes err as a JSON error response. HTTPError values map to their
// status; anything else becomes an opaque 500 so internals never leak.
func Error(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	detail := &ErrorDetail{Code: "internal_error", Message: http.StatusText(status)}

	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		status = httpErr.Code
		detail.Code = httpErr.Key
		detail.Message = http.StatusText(httpErr.Code)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Envelope{Error: detail})
}

const maxBodyBytes = 1 << 20 // 1 MiB

// Decode reads a JSON request body into v with a size cap and strict field
// checking.
func Decode(r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.Join(ErrBadRequest, err)
	}
	return nil
}
