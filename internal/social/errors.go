// AngelaMos | 2026
// errors.go

package social

import (
	"errors"
	"fmt"

	"github.com/carterperez-dev/ummah-social/internal/core"
	"github.com/carterperez-dev/ummah-social/internal/remote"
)

//nolint:staticcheck // surfaced to clients verbatim
var ErrNotConfigured = errors.New("Supabase not configured")

var (
	ErrInvalidTarget = fmt.Errorf(
		"%w: exactly one of post_id or dua_request_id is required",
		core.ErrInvalidInput,
	)
	ErrEmptyUpdate = fmt.Errorf("%w: no fields to update", core.ErrInvalidInput)
)

// UnexpectedError wraps anything that went wrong around a remote call rather
// than inside it: malformed responses, query construction failures and
// recovered panics.
type UnexpectedError struct {
	Op  string
	Err error
}

func (e *UnexpectedError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UnexpectedError) Unwrap() error {
	return e.Err
}

// classify keeps backend and input errors as they are and wraps the rest.
func classify(op string, err error) error {
	if _, ok := remote.AsRemoteError(err); ok {
		return err
	}
	if errors.Is(err, ErrNotConfigured) || errors.Is(err, core.ErrInvalidInput) {
		return err
	}

	var unexpected *UnexpectedError
	if errors.As(err, &unexpected) {
		return err
	}
	return &UnexpectedError{Op: op, Err: err}
}
