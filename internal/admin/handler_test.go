// AngelaMos | 2026
// handler_test.go

package admin

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/ummah-social/internal/activity"
)

func passthrough(next http.Handler) http.Handler { return next }

func serve(t *testing.T, h *Handler, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	r := chi.NewRouter()
	h.RegisterRoutes(r, passthrough, passthrough)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestGetSystemStats_Degraded(t *testing.T) {
	rec, body := serve(t, NewHandler(HandlerConfig{}), "/admin/stats")
	require.Equal(t, http.StatusOK, rec.Code)

	data := body["data"].(map[string]any)
	assert.Equal(t, false, data["supabase_configured"])
	assert.Equal(t, map[string]any{"enabled": false, "healthy": false}, data["database"])
	assert.NotContains(t, data, "activity")
	assert.Contains(t, data["runtime"], "go_version")
}

func TestGetSystemStats_Connected(t *testing.T) {
	h := NewHandler(HandlerConfig{
		Configured: true,
		DBStats:    func() sql.DBStats { return sql.DBStats{OpenConnections: 3, InUse: 1} },
		DBPing:     func(context.Context) error { return nil },
		RedisStats: func() *redis.PoolStats { return &redis.PoolStats{Hits: 7} },
		RedisPing:  func(context.Context) error { return errors.New("timeout") },
		ActivityStats: func() activity.PublisherStats {
			return activity.PublisherStats{Topic: "social-activity", Messages: 4}
		},
	})

	rec, body := serve(t, h, "/admin/stats")
	require.Equal(t, http.StatusOK, rec.Code)

	data := body["data"].(map[string]any)
	db := data["database"].(map[string]any)
	assert.Equal(t, true, db["healthy"])
	assert.Equal(t, float64(3), db["stats"].(map[string]any)["open_connections"])

	rdb := data["redis"].(map[string]any)
	assert.Equal(t, true, rdb["enabled"])
	assert.Equal(t, false, rdb["healthy"])

	assert.Equal(t, float64(4), data["activity"].(map[string]any)["messages"])
}

func TestGetStats_MissingSource(t *testing.T) {
	h := NewHandler(HandlerConfig{})

	for _, path := range []string{"/admin/stats/db", "/admin/stats/redis", "/admin/stats/activity"} {
		rec, body := serve(t, h, path)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, path)
		assert.NotNil(t, body["error"], path)
	}
}
