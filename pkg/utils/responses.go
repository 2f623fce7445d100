package utils

import (
	"net/http"

	"github.com/goccy/go-json"
)

// Response is the envelope every API endpoint writes.
type Response struct {
	Status  bool   `json:"status"`           // false for any 4xx/5xx
	Message string `json:"message"`          // human readable summary
	Data    any    `json:"data,omitempty"`   // resource or paginated list
	Errors  any    `json:"errors,omitempty"` // field name (or non_field_errors) -> message
}

// ResponseJSON writes JSON response with custom status code. The encoder
// escapes <, > and & so stored review and comment text renders inert.
func ResponseJSON(w http.ResponseWriter, code int, status bool, message string, data, errors any) {
	response := Response{
		Status:  status,
		Message: message,
		Data:    data,
		Errors:  errors,
	}

	// Headers must be set before WriteHeader
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	// The status line is already sent, an encode error can only be dropped
	_ = json.NewEncoder(w).Encode(response)
}

// ------------- Success responses -------------

// returns 200 OK
func ResponseSuccess(w http.ResponseWriter, message string, data any) {
	ResponseJSON(w, http.StatusOK, true, message, data, nil)
}

// returns 201 Created
func ResponseCreated(w http.ResponseWriter, message string, data any) {
	ResponseJSON(w, http.StatusCreated, true, message, data, nil)
}

// returns 204 No Content, used by every successful DELETE
func ResponseNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// ------------- Error responses -------------

// returns 400 Bad Request, errors carries the per-field messages
func ResponseBadRequest(w http.ResponseWriter, message string, errors any) {
	ResponseJSON(w, http.StatusBadRequest, false, message, nil, errors)
}

// returns 401 Unauthorized (missing, invalid or expired token)
func ResponseUnauthorized(w http.ResponseWriter, message string) {
	ResponseJSON(w, http.StatusUnauthorized, false, message, nil, nil)
}

// returns 403 Forbidden (authenticated but lacking the role or ownership)
func ResponseForbidden(w http.ResponseWriter, message string) {
	ResponseJSON(w, http.StatusForbidden, false, message, nil, nil)
}

// returns 404 Not Found
func ResponseNotFound(w http.ResponseWriter, message string) {
	ResponseJSON(w, http.StatusNotFound, false, message, nil, nil)
}

// returns 405 Method Not Allowed
func ResponseMethodNotAllowed(w http.ResponseWriter) {
	ResponseJSON(w, http.StatusMethodNotAllowed, false, "Method not allowed", nil, nil)
}

// returns 429 Too Many Requests, written by the auth rate limiter
func ResponseTooManyRequests(w http.ResponseWriter) {
	ResponseJSON(w, http.StatusTooManyRequests, false, "Too many requests", nil, nil)
}

// returns 500 Internal Server Error
func ResponseInternalError(w http.ResponseWriter, message string) {
	ResponseJSON(w, http.StatusInternalServerError, false, message, nil, nil)
}
