// Package handler provides the JSON response envelope shared by the HTTP
// modules.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/ordivo/shopkit/pkg/orderstatus"
	"github.com/ordivo/shopkit/pkg/validator"
)

// JSONResponse is the standard JSON response structure.
type JSONResponse struct {
	Data  any            `json:"data,omitempty"`
	Meta  map[string]any `json:"meta,omitempty"`
	Error *ErrorDetail   `json:"error,omitempty"`
}

// ErrorDetail contains error information.
type ErrorDetail struct {
	Code    string              `json:"code,omitempty"`
	Message string              `json:"message,omitempty"`
	Details map[string][]string `json:"details,omitempty"`
}

// JSON writes v wrapped in the response envelope.
func JSON(w http.ResponseWriter, status int, v any) {
	write(w, status, JSONResponse{Data: v})
}

// JSONMeta writes v with metadata attached.
func JSONMeta(w http.ResponseWriter, status int, v any, meta map[string]any) {
	write(w, status, JSONResponse{Data: v, Meta: meta})
}

// Error writes an error envelope with an explicit status and code.
func Error(w http.ResponseWriter, status int, code, message string) {
	write(w, status, JSONResponse{Error: &ErrorDetail{Code: code, Message: message}})
}

// FromError maps a service error onto an HTTP error response. Validation
// errors become 422 with per-field details, order status errors become
// 400 or 409, everything else is a 500.
func FromError(w http.ResponseWriter, err error) {
	if verrs := validator.ExtractValidationErrors(err); verrs != nil {
		details := make(map[string][]string, len(verrs))
		for _, ve := range verrs {
			details[ve.Field] = append(details[ve.Field], ve.Message)
		}
		write(w, http.StatusUnprocessableEntity, JSONResponse{Error: &ErrorDetail{
			Code:    "validation_error",
			Message: "request validation failed",
			Details: details,
		}})
		return
	}

	switch {
	case orderstatus.IsInvalidTransitionError(err):
		Error(w, http.StatusConflict, "invalid_transition", err.Error())
	case orderstatus.IsUnknownStatusError(err):
		Error(w, http.StatusBadRequest, "unknown_status", err.Error())
	case orderstatus.IsInvalidOrderNumberError(err):
		Error(w, http.StatusBadRequest, "invalid_order_number", err.Error())
	default:
		Error(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

// DecodeJSON parses the request body into dst, rejecting unknown fields.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func write(w http.ResponseWriter, status int, body JSONResponse) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
