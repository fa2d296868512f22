package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/pointsrummy/internal/model"
	"github.com/mcoot/pointsrummy/internal/services/auth"
)

// APIError represents an API error response
type APIError struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeInvalidAmount      = "INVALID_AMOUNT"
	CodeBalanceLimit       = "BALANCE_LIMIT"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeForbidden          = "FORBIDDEN"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeEmailExists        = "EMAIL_EXISTS"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeInsufficientCoins  = "INSUFFICIENT_COINS"
	CodeRoundNotFound      = "ROUND_NOT_FOUND"
	CodeRoundInProgress    = "ROUND_IN_PROGRESS"
	CodeRoundOver          = "ROUND_OVER"
	CodeNotYourTurn        = "NOT_YOUR_TURN"
	CodeDeckEmpty          = "DECK_EMPTY"
	CodeCardNotInHand      = "CARD_NOT_IN_HAND"
	CodeInternalError      = "INTERNAL_ERROR"
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

// Status returns the HTTP status an error maps to
func Status(err error) int {
	return toHTTPError(err).status
}

// Message returns the user-facing message an error maps to
func Message(err error) string {
	return toHTTPError(err).apiError.Message
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrUserNotFound):
		return &httpError{http.StatusNotFound, APIError{Code: CodeUserNotFound, Message: "User not found"}}
	case errors.Is(err, model.ErrEmailTaken):
		return &httpError{http.StatusConflict, APIError{Code: CodeEmailExists, Message: "Email already exists"}}
	case errors.Is(err, model.ErrInsufficientCoins):
		return &httpError{http.StatusConflict, APIError{Code: CodeInsufficientCoins, Message: "Insufficient coins to start game"}}
	case errors.Is(err, model.ErrInvalidAmount):
		return &httpError{http.StatusBadRequest, APIError{Code: CodeInvalidAmount, Message: "Amount must be positive"}}
	case errors.Is(err, model.ErrBalanceLimit):
		return &httpError{http.StatusConflict, APIError{Code: CodeBalanceLimit, Message: "Balance would exceed the maximum"}}
	case errors.Is(err, model.ErrRoundNotFound):
		return &httpError{http.StatusNotFound, APIError{Code: CodeRoundNotFound, Message: "No round in progress"}}
	case errors.Is(err, model.ErrRoundInProgress):
		return &httpError{http.StatusConflict, APIError{Code: CodeRoundInProgress, Message: "A round is already in progress"}}
	case errors.Is(err, model.ErrRoundOver):
		return &httpError{http.StatusConflict, APIError{Code: CodeRoundOver, Message: "Round is over"}}
	case errors.Is(err, model.ErrNotYourTurn):
		return &httpError{http.StatusConflict, APIError{Code: CodeNotYourTurn, Message: "Not your turn"}}
	case errors.Is(err, model.ErrDeckEmpty):
		return &httpError{http.StatusConflict, APIError{Code: CodeDeckEmpty, Message: "Draw pile is empty"}}
	case errors.Is(err, model.ErrCardNotInHand):
		return &httpError{http.StatusBadRequest, APIError{Code: CodeCardNotInHand, Message: "Card is not in your hand"}}
	case errors.Is(err, model.ErrForbidden):
		return &httpError{http.StatusForbidden, APIError{Code: CodeForbidden, Message: "Admin access required"}}

	// Map auth errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{Code: CodeInvalidCredentials, Message: "Invalid email or password"}}
	case errors.Is(err, auth.ErrInvalidSession):
		return &httpError{http.StatusUnauthorized, APIError{Code: CodeUnauthorized, Message: "Invalid or expired session"}}
	case errors.Is(err, auth.ErrEmailExists):
		return &httpError{http.StatusConflict, APIError{Code: CodeEmailExists, Message: "Email already exists"}}
	case errors.Is(err, auth.ErrMissingFields):
		return &httpError{http.StatusBadRequest, APIError{Code: CodeInvalidRequest, Message: "Name, email and password are required"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{Code: CodeInternalError, Message: "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{Code: CodeInvalidRequest, Message: message}}
}

// NewValidationError creates an invalid request error with per-field details
func NewValidationError(details map[string]string) error {
	return &httpError{http.StatusBadRequest, APIError{Code: CodeInvalidRequest, Message: "validation failed", Details: details}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{Code: CodeUnauthorized, Message: "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{Code: CodeInternalError, Message: "Internal server error"}}
}
