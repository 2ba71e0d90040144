// Package httputil centralizes JSON response writing and domain error
// translation so every handler produces the same envelopes.
package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	pkgerrors "nordkyc/pkg/domain-errors"
)

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps a domain error onto an HTTP status and a JSON error
// envelope. Internal and unavailable errors omit the description so backend
// details never leak to clients.
func WriteError(w http.ResponseWriter, err error) {
	code := pkgerrors.CodeOf(err)
	body := map[string]string{"error": string(code)}
	if code != pkgerrors.CodeInternal && code != pkgerrors.CodeUnavailable {
		description := err.Error()
		var coded *pkgerrors.Error
		if errors.As(err, &coded) {
			description = coded.Message
		}
		body["error_description"] = description
	}
	WriteJSON(w, statusFor(code), body)
}

func statusFor(code pkgerrors.Code) int {
	switch code {
	case pkgerrors.CodeInvalidInput:
		return http.StatusBadRequest
	case pkgerrors.CodeNotFound:
		return http.StatusNotFound
	case pkgerrors.CodeConflict:
		return http.StatusConflict
	case pkgerrors.CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
