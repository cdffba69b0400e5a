// Package httpjson holds the JSON request/response conventions shared by
// every feature handler: a decode helper with a body-size cap and a single
// error envelope so clients see one failure shape everywhere.
package httpjson

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

const maxBodyBytes = 1 << 20 // 1 MiB

// errorResponse is the wire shape for all API failures.
type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// Write encodes v as JSON with the given status.
func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes the standard error envelope.
func Error(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	ErrorFields(w, r, status, code, message, nil)
}

// ErrorFields writes the error envelope with per-field validation messages.
func ErrorFields(w http.ResponseWriter, r *http.Request, status int, code, message string, fields map[string]string) {
	resp := errorResponse{Error: errorBody{Code: code, Message: message, Fields: fields}}
	if rid := middleware.GetReqID(r.Context()); rid != "" {
		resp.Error.RequestID = rid
	}
	Write(w, status, resp)
}

// Decode reads the request body into dst, rejecting oversized or malformed
// payloads. Returns a client-facing message on failure.
func Decode(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return errors.New("request body too large")
		}
		return errors.New("malformed JSON body")
	}
	return nil
}
