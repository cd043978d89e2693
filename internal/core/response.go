// AngelaMos | 2026
// response.go

package core

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Envelope is the body of every API response: data on success, error on
// failure, never both.
type Envelope struct {
	Data  any       `json:"data"`
	Error *AppError `json:"error"`
}

func JSON(w http.ResponseWriter, status int, body Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // best-effort response write
	_ = json.NewEncoder(w).Encode(body)
}

func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, Envelope{Data: data})
}

func Created(w http.ResponseWriter, data any) {
	JSON(w, http.StatusCreated, Envelope{Data: data})
}

// JSONError renders err in the envelope. Errors that are not AppErrors are
// reported as internal errors and logged.
func JSONError(w http.ResponseWriter, err error) {
	JSONErrorWithData(w, err, nil)
}

// JSONErrorWithData renders err alongside the operation's safe default data.
func JSONErrorWithData(w http.ResponseWriter, err error, data any) {
	appErr, ok := AsAppError(err)
	if !ok {
		slog.Error("unhandled error", "error", err)
		appErr = InternalError(err)
	}

	status := appErr.StatusCode
	if status == 0 {
		status = http.StatusInternalServerError
	}

	JSON(w, status, Envelope{Data: data, Error: appErr})
}

func BadRequest(w http.ResponseWriter, message string) {
	JSONError(w, BadRequestError(message))
}

func NotFound(w http.ResponseWriter, resource string) {
	JSONError(w, NotFoundError(resource))
}

func Unauthorized(w http.ResponseWriter, message string) {
	JSONError(w, UnauthorizedError(message))
}

func Forbidden(w http.ResponseWriter, message string) {
	JSONError(w, ForbiddenError(message))
}

func InternalServerError(w http.ResponseWriter, err error) {
	JSONError(w, err)
}
