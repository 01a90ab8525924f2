package responses

import (
	"encoding/json"
	"net/http"

	pkgerrors "github.com/sokastore/sokastore-backend/pkg/errors"
)

// Envelope is the uniform success body.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Meta    any    `json:"meta,omitempty"`
}

// ErrorBody is the uniform failure body.
type ErrorBody struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

// ErrorDetail carries the machine-readable failure.
type ErrorDetail struct {
	Code    pkgerrors.Code `json:"code"`
	Message string         `json:"message"`
	Details any            `json:"details,omitempty"`
}

// JSON writes an arbitrary payload with the given status.
func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// OK writes a 200 envelope.
func OK(w http.ResponseWriter, message string, data any) {
	JSON(w, http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

// OKPaged writes a 200 envelope with pagination metadata.
func OKPaged(w http.ResponseWriter, message string, data, meta any) {
	JSON(w, http.StatusOK, Envelope{Success: true, Message: message, Data: data, Meta: meta})
}

// Created writes a 201 envelope.
func Created(w http.ResponseWriter, message string, data any) {
	JSON(w, http.StatusCreated, Envelope{Success: true, Message: message, Data: data})
}

// NoContent writes an empty 204.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Error maps a coded error to its HTTP status and public shape.
// Internal messages and causes never leak; DetailsAllowed codes may
// attach structured details for the client.
func Error(w http.ResponseWriter, err error) {
	typed := pkgerrors.As(err)
	code := pkgerrors.CodeInternal
	if typed != nil {
		code = typed.Code()
	}
	meta := pkgerrors.MetadataFor(code)

	detail := ErrorDetail{Code: code, Message: meta.PublicMessage}
	if typed != nil {
		if typed.Message() != "" {
			detail.Message = typed.Message()
		}
		if meta.DetailsAllowed {
			detail.Details = typed.Details()
		}
	}
	JSON(w, meta.HTTPStatus, ErrorBody{Success: false, Error: detail})
}

// ValidationError writes a 400 with per-field messages.
func ValidationError(w http.ResponseWriter, fields map[string]string) {
	Error(w, pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(fields))
}
