// AngelaMos | 2026
// client.go

package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/carterperez-dev/ummah-social/internal/query"
)

var ErrNoRows = errors.New("no rows returned")

// Client is the hosted backend's table and function interface. Reads and
// mutations answer with a JSON array of rows; RPC answers with the
// function's JSON value.
type Client interface {
	Select(ctx context.Context, q query.Query) (json.RawMessage, error)
	Insert(ctx context.Context, q query.Query, row map[string]any) (json.RawMessage, error)
	Update(ctx context.Context, q query.Query, set map[string]any) (json.RawMessage, error)
	Delete(ctx context.Context, q query.Query) (int64, error)
	RPC(ctx context.Context, fn string, args map[string]any) (json.RawMessage, error)
}

// RemoteError is a failure reported by the backend itself, shaped like the
// hosted REST layer's error body.
type RemoteError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	Hint    string `json:"hint,omitempty"`
	Err     error  `json:"-"`
}

func (e *RemoteError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Code)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

func AsRemoteError(err error) (*RemoteError, bool) {
	var re *RemoteError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}

const CodeSingleRow = "PGRST116"

func singleRowError(n int) *RemoteError {
	return &RemoteError{
		Code:    CodeSingleRow,
		Message: "JSON object requested, multiple (or no) rows returned",
		Details: fmt.Sprintf("The result contains %d rows", n),
		Err:     ErrNoRows,
	}
}

// DecodeError means the backend answered with something that does not fit
// the expected shape.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return "decode response: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Many decodes a row array into dest, a pointer to a slice.
func Many(raw json.RawMessage, dest any) error {
	if err := json.Unmarshal(raw, dest); err != nil {
		return &DecodeError{Err: err}
	}
	return nil
}

// One decodes a row array that must contain exactly one row.
func One(raw json.RawMessage, dest any) error {
	var rows []json.RawMessage
	if err := json.Unmarshal(raw, &rows); err != nil {
		return &DecodeError{Err: err}
	}

	if len(rows) != 1 {
		return singleRowError(len(rows))
	}

	if err := json.Unmarshal(rows[0], dest); err != nil {
		return &DecodeError{Err: err}
	}
	return nil
}

// First decodes the first row of the array if there is one.
func First(raw json.RawMessage, dest any) (bool, error) {
	var rows []json.RawMessage
	if err := json.Unmarshal(raw, &rows); err != nil {
		return false, &DecodeError{Err: err}
	}

	if len(rows) == 0 {
		return false, nil
	}

	if err := json.Unmarshal(rows[0], dest); err != nil {
		return false, &DecodeError{Err: err}
	}
	return true, nil
}
