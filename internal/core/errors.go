// AngelaMos | 2026
// errors.go

package core

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrNotFound      = errors.New("resource not found")
	ErrDuplicateKey  = errors.New("duplicate key")
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrTokenExpired  = errors.New("token expired")
	ErrTokenInvalid  = errors.New("token invalid")
	ErrUnavailable   = errors.New("service unavailable")
	ErrUpstreamError = errors.New("upstream error")
)

// AppError is an error that already knows how it should be rendered.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
	Hint       string `json:"hint,omitempty"`
	StatusCode int    `json:"-"`
	Err        error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code, message string, status int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: status,
		Err:        err,
	}
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func BadRequestError(message string) *AppError {
	return NewAppError("BAD_REQUEST", message, http.StatusBadRequest, ErrInvalidInput)
}

func NotFoundError(resource string) *AppError {
	return NewAppError(
		"NOT_FOUND",
		fmt.Sprintf("%s not found", resource),
		http.StatusNotFound,
		ErrNotFound,
	)
}

func UnauthorizedError(message string) *AppError {
	return NewAppError("UNAUTHORIZED", message, http.StatusUnauthorized, ErrUnauthorized)
}

func ForbiddenError(message string) *AppError {
	return NewAppError("FORBIDDEN", message, http.StatusForbidden, ErrForbidden)
}

func TokenExpiredError() *AppError {
	return NewAppError("TOKEN_EXPIRED", "access token expired", http.StatusUnauthorized, ErrTokenExpired)
}

func TokenInvalidError() *AppError {
	return NewAppError("TOKEN_INVALID", "access token invalid", http.StatusUnauthorized, ErrTokenInvalid)
}

func UnavailableError(message string) *AppError {
	return NewAppError("SERVICE_UNAVAILABLE", message, http.StatusServiceUnavailable, ErrUnavailable)
}

func InternalError(err error) *AppError {
	return NewAppError(
		"INTERNAL_ERROR",
		"an unexpected error occurred",
		http.StatusInternalServerError,
		err,
	)
}

// FormatValidationError flattens validator output into a single readable line.
func FormatValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid request"
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "uuid", "uuid4":
			msgs = append(msgs, field+" must be a valid UUID")
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of [%s]", field, fe.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s", field, fe.Param()))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s", field, fe.Param()))
		case "url":
			msgs = append(msgs, field+" must be a valid URL")
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s validation", field, fe.Tag()))
		}
	}

	return strings.Join(msgs, "; ")
}
