// AngelaMos | 2026
// admin.go

package middleware

import (
	"context"
	"net/http"

	"github.com/carterperez-dev/ummah-social/internal/core"
)

// AdminCheck resolves whether a user may reach admin routes. Roles live in
// the users table rather than in the access token.
type AdminCheck func(ctx context.Context, userID string) (bool, error)

// RequireAdmin must run after Authenticator.
func RequireAdmin(check AdminCheck) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := GetUserID(r.Context())
			if userID == "" {
				core.Unauthorized(w, "authentication required")
				return
			}

			ok, err := check(r.Context(), userID)
			if err != nil {
				core.JSONError(w, core.UnavailableError("role lookup failed"))
				return
			}
			if !ok {
				core.Forbidden(w, "admin access required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
