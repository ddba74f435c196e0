package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/wordcrush/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest        = "INVALID_REQUEST"
	CodeInvalidPosition       = "INVALID_POSITION"
	CodeGameNotFound          = "GAME_NOT_FOUND"
	CodeSessionExpired        = "SESSION_EXPIRED"
	CodeSubmissionPending     = "SUBMISSION_PENDING"
	CodeNoSelection           = "NO_SELECTION"
	CodeNoWordFound           = "NO_WORD_FOUND"
	CodeUnknownStrategy       = "UNKNOWN_STRATEGY"
	CodeDictionaryUnavailable = "DICTIONARY_UNAVAILABLE"
	CodeInternalError         = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// StatusFor returns the HTTP status an error would be written with
func StatusFor(err error) int {
	return toHTTPError(err).status
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	case errors.Is(err, model.ErrGameNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeGameNotFound, "Game not found"}}
	case errors.Is(err, model.ErrSessionExpired):
		return &httpError{http.StatusConflict, APIError{CodeSessionExpired, "The clock has run out"}}
	case errors.Is(err, model.ErrSubmissionPending):
		return &httpError{http.StatusConflict, APIError{CodeSubmissionPending, "A word is still being checked"}}
	case errors.Is(err, model.ErrNoSelection):
		return &httpError{http.StatusConflict, APIError{CodeNoSelection, "No selection in progress"}}
	case errors.Is(err, model.ErrInvalidPosition):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidPosition, "Invalid grid position"}}
	case errors.Is(err, model.ErrNoWordFound):
		return &httpError{http.StatusNotFound, APIError{CodeNoWordFound, "No word found on the grid"}}
	case errors.Is(err, model.ErrUnknownStrategy):
		return &httpError{http.StatusBadRequest, APIError{CodeUnknownStrategy, "Unknown bot strategy"}}
	case errors.Is(err, model.ErrDictionaryNotLoaded):
		return &httpError{http.StatusServiceUnavailable, APIError{CodeDictionaryUnavailable, "Dictionary not loaded"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
