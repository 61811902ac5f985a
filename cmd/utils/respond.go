package utils

import (
	"encoding/json"
	"net/http"
)

// Error categories surfaced to API consumers.
const (
	CodeValidation        = "validation_error"
	CodeNotFound          = "not_found"
	CodeConflict          = "conflict"
	CodeQuotaExceeded     = "quota_exceeded"
	CodeInvalidTransition = "invalid_transition"
	CodeDuplicateEntry    = "duplicate_entry"
	CodeInternal          = "internal_error"
)

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, status int, code, message string) {
	WriteJSON(w, status, ErrorResponse{Error: ErrorBody{Code: code, Message: message}})
}
