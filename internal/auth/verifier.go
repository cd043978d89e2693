// AngelaMos | 2026
// verifier.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/carterperez-dev/ummah-social/internal/config"
	"github.com/carterperez-dev/ummah-social/internal/core"
	"github.com/carterperez-dev/ummah-social/internal/middleware"
)

// Audience is the aud claim Supabase Auth puts on tokens of signed-in users.
const Audience = "authenticated"

var ErrMissingSecret = errors.New("auth: jwt secret not configured")

// Verifier checks access tokens issued by the project's Supabase Auth,
// which signs them with HS256 using the project JWT secret.
type Verifier struct {
	secret []byte
	issuer string
}

func NewVerifier(cfg config.SupabaseConfig) (*Verifier, error) {
	if cfg.JWTSecret == "" {
		return nil, ErrMissingSecret
	}

	v := &Verifier{secret: []byte(cfg.JWTSecret)}
	if cfg.URL != "" {
		v.issuer = strings.TrimRight(cfg.URL, "/") + "/auth/v1"
	}
	return v, nil
}

func (v *Verifier) VerifyAccessToken(
	_ context.Context,
	tokenString string,
) (*middleware.AccessTokenClaims, error) {
	opts := []jwt.ParseOption{
		jwt.WithKey(jwa.HS256(), v.secret),
		jwt.WithValidate(true),
		jwt.WithAudience(Audience),
		jwt.WithAcceptableSkew(30 * time.Second),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	token, err := jwt.Parse([]byte(tokenString), opts...)
	if err != nil {
		if isTokenExpiredError(err) {
			return nil, fmt.Errorf("verify token: %w", core.ErrTokenExpired)
		}
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenInvalid)
	}

	subject, ok := token.Subject()
	if !ok || uuid.Validate(subject) != nil {
		return nil, fmt.Errorf(
			"verify token: missing or malformed subject: %w",
			core.ErrTokenInvalid,
		)
	}

	claims := &middleware.AccessTokenClaims{UserID: subject}

	//nolint:errcheck // email and role are optional claims
	_ = token.Get("email", &claims.Email)
	//nolint:errcheck // email and role are optional claims
	_ = token.Get("role", &claims.Role)

	return claims, nil
}

// Sign issues a token the way Supabase Auth would. It backs tests and the
// CLI's token command for local development.
func (v *Verifier) Sign(userID, email string, ttl time.Duration) (string, error) {
	now := time.Now()

	b := jwt.NewBuilder().
		Subject(userID).
		Audience([]string{Audience}).
		IssuedAt(now).
		Expiration(now.Add(ttl)).
		Claim("email", email).
		Claim("role", Audience)
	if v.issuer != "" {
		b = b.Issuer(v.issuer)
	}

	token, err := b.Build()
	if err != nil {
		return "", fmt.Errorf("build token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256(), v.secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return string(signed), nil
}

func isTokenExpiredError(err error) bool {
	return errors.Is(err, jwt.TokenExpiredError())
}

// Reject refuses every token. It stands in for a Verifier when no JWT secret
// is configured so that authenticated routes answer 401 instead of panicking.
type Reject struct{}

func (Reject) VerifyAccessToken(context.Context, string) (*middleware.AccessTokenClaims, error) {
	return nil, fmt.Errorf("verify token: %w: %w", ErrMissingSecret, core.ErrTokenInvalid)
}
