// Package httpjson holds the JSON response helpers used by every handler.
package httpjson

import (
	"encoding/json"
	"net/http"

	"coedit/pkg/apperr"
	"coedit/pkg/logger"
)

// Write encodes v as the response body with the given status code.
func Write(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Sugar.Errorf("Failed to encode response: %v", err)
	}
}

// Error renders err as a {"message": ...} body with its mapped status code.
func Error(w http.ResponseWriter, err error) {
	Write(w, apperr.Status(err), map[string]string{"message": apperr.Message(err)})
}
