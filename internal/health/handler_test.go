// AngelaMos | 2026
// handler_test.go

package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type checkerFunc func(ctx context.Context) error

func (f checkerFunc) Ping(ctx context.Context) error { return f(ctx) }

func healthy() Checker {
	return checkerFunc(func(context.Context) error { return nil })
}

func readiness(t *testing.T, h *Handler) (int, ReadinessResponse) {
	t.Helper()

	r := chi.NewRouter()
	h.RegisterRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	var body ReadinessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestReadiness(t *testing.T) {
	t.Run("configured and healthy", func(t *testing.T) {
		h := NewHandler(true).AddCheck("database", healthy()).AddCheck("redis", healthy())

		code, body := readiness(t, h)
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "ok", body.Status)
		assert.True(t, body.Configured)
		assert.Len(t, body.Checks, 2)
	})

	t.Run("degraded without credentials", func(t *testing.T) {
		h := NewHandler(false).AddCheck("redis", nil)

		code, body := readiness(t, h)
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "degraded", body.Status)
		assert.False(t, body.Configured)
		assert.Empty(t, body.Checks)
	})

	t.Run("failing dependency", func(t *testing.T) {
		h := NewHandler(true).
			AddCheck("database", checkerFunc(func(context.Context) error {
				return errors.New("connection refused")
			})).
			AddCheck("redis", healthy())

		code, body := readiness(t, h)
		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Equal(t, "unhealthy", body.Status)
		require.Len(t, body.Checks, 2)
		assert.False(t, body.Checks[0].Healthy)
		assert.Equal(t, "ping failed", body.Checks[0].Message)
	})
}

func TestLivenessDuringShutdown(t *testing.T) {
	h := NewHandler(true)
	r := chi.NewRouter()
	h.RegisterRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/livez", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	h.SetShutdown(true)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
