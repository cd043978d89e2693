// AngelaMos | 2026
// status.go

package social

import (
	"errors"
	"net/http"
	"strings"

	"github.com/carterperez-dev/ummah-social/internal/core"
	"github.com/carterperez-dev/ummah-social/internal/remote"
)

// remoteStatus maps a PostgreSQL SQLSTATE to the closest HTTP status.
var remoteStatus = map[string]int{
	"23505": http.StatusConflict,
	"23503": http.StatusBadRequest,
	"23502": http.StatusBadRequest,
	"23514": http.StatusBadRequest,
	"22P02": http.StatusBadRequest,
	"22001": http.StatusBadRequest,
	"42501": http.StatusForbidden,
	"57014": http.StatusGatewayTimeout,
}

func remoteError(err error) (*core.AppError, bool) {
	re, ok := remote.AsRemoteError(err)
	if !ok {
		return nil, false
	}

	status, known := remoteStatus[re.Code]
	switch {
	case errors.Is(err, remote.ErrNoRows):
		status = http.StatusNotFound
	case known:
	case strings.HasPrefix(re.Code, "08"), re.Code == "":
		status = http.StatusBadGateway
	default:
		status = http.StatusInternalServerError
	}

	code := re.Code
	if code == "" {
		code = "UPSTREAM_ERROR"
	}

	return &core.AppError{
		Code:       code,
		Message:    re.Message,
		Details:    re.Details,
		Hint:       re.Hint,
		StatusCode: status,
		Err:        err,
	}, true
}
