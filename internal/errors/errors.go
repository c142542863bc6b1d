package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrTaskNotFound is returned when a task does not exist or is not owned by the caller.
	ErrTaskNotFound = errors.New("task not found")
	// ErrCommentNotFound is returned when a comment does not exist or its task is not owned by the caller.
	ErrCommentNotFound = errors.New("comment not found")
	// ErrUsernameTaken is returned when registering an already used username.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrInvalidCredentials is returned when username or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrInvalidRefreshToken is returned when a refresh token is invalid, expired or revoked.
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Ownership failures arrive
// here already collapsed into the not-found sentinels, so absence and foreign
// ownership produce identical responses.
func MapErrorToHTTP(err error) *HTTPError {
	switch err {
	case ErrTaskNotFound:
		return NewHTTPError(http.StatusNotFound, err.Error(), "TASK_NOT_FOUND")
	case ErrCommentNotFound:
		return NewHTTPError(http.StatusNotFound, err.Error(), "COMMENT_NOT_FOUND")
	case ErrUsernameTaken:
		return NewHTTPError(http.StatusBadRequest, err.Error(), "USERNAME_TAKEN")
	case ErrInvalidCredentials:
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	case ErrInvalidRefreshToken:
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_REFRESH_TOKEN")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
