// AngelaMos | 2026
// handler.go

package admin

import (
	"context"
	"database/sql"
	"net/http"
	"runtime"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/ummah-social/internal/activity"
	"github.com/carterperez-dev/ummah-social/internal/core"
)

// Handler reports on the backend connections behind the social API. Every
// source is optional since the service runs degraded without them.
type Handler struct {
	configured    bool
	dbStats       func() sql.DBStats
	dbPing        func(ctx context.Context) error
	redisStats    func() *redis.PoolStats
	redisPing     func(ctx context.Context) error
	activityStats func() activity.PublisherStats
}

type HandlerConfig struct {
	Configured    bool
	DBStats       func() sql.DBStats
	DBPing        func(ctx context.Context) error
	RedisStats    func() *redis.PoolStats
	RedisPing     func(ctx context.Context) error
	ActivityStats func() activity.PublisherStats
}

func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		configured:    cfg.Configured,
		dbStats:       cfg.DBStats,
		dbPing:        cfg.DBPing,
		redisStats:    cfg.RedisStats,
		redisPing:     cfg.RedisPing,
		activityStats: cfg.ActivityStats,
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/stats", h.GetSystemStats)
		r.Get("/stats/db", h.GetDatabaseStats)
		r.Get("/stats/redis", h.GetRedisStats)
		r.Get("/stats/activity", h.GetActivityStats)
	})
}

func (h *Handler) GetSystemStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	core.OK(w, SystemStatsResponse{
		Configured: h.configured,
		Database: ConnectionStatus[DBPoolStats]{
			Enabled: h.dbPing != nil,
			Healthy: healthy(ctx, h.dbPing),
			Stats:   h.getDBStats(),
		},
		Redis: ConnectionStatus[RedisPoolStats]{
			Enabled: h.redisPing != nil,
			Healthy: healthy(ctx, h.redisPing),
			Stats:   h.getRedisStats(),
		},
		Activity: h.getActivityStats(),
		Runtime:  readRuntime(),
	})
}

func (h *Handler) GetDatabaseStats(w http.ResponseWriter, r *http.Request) {
	stats := h.getDBStats()
	if stats == nil {
		core.JSONError(w, core.UnavailableError("database not connected"))
		return
	}
	core.OK(w, stats)
}

func (h *Handler) GetRedisStats(w http.ResponseWriter, r *http.Request) {
	stats := h.getRedisStats()
	if stats == nil {
		core.JSONError(w, core.UnavailableError("redis not connected"))
		return
	}
	core.OK(w, stats)
}

func (h *Handler) GetActivityStats(w http.ResponseWriter, r *http.Request) {
	stats := h.getActivityStats()
	if stats == nil {
		core.JSONError(w, core.UnavailableError("activity publishing disabled"))
		return
	}
	core.OK(w, stats)
}

// healthy treats a missing dependency as unhealthy.
func healthy(ctx context.Context, ping func(context.Context) error) bool {
	return ping != nil && ping(ctx) == nil
}

func (h *Handler) getDBStats() *DBPoolStats {
	if h.dbStats == nil {
		return nil
	}

	stats := h.dbStats()
	return &DBPoolStats{
		MaxOpenConnections: stats.MaxOpenConnections,
		OpenConnections:    stats.OpenConnections,
		InUse:              stats.InUse,
		Idle:               stats.Idle,
		WaitCount:          stats.WaitCount,
		WaitDuration:       stats.WaitDuration.String(),
		MaxIdleClosed:      stats.MaxIdleClosed,
		MaxLifetimeClosed:  stats.MaxLifetimeClosed,
	}
}

func (h *Handler) getRedisStats() *RedisPoolStats {
	if h.redisStats == nil {
		return nil
	}

	stats := h.redisStats()
	return &RedisPoolStats{
		Hits:       stats.Hits,
		Misses:     stats.Misses,
		Timeouts:   stats.Timeouts,
		TotalConns: stats.TotalConns,
		IdleConns:  stats.IdleConns,
	}
}

func (h *Handler) getActivityStats() *activity.PublisherStats {
	if h.activityStats == nil {
		return nil
	}
	stats := h.activityStats()
	return &stats
}

func readRuntime() RuntimeStats {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return RuntimeStats{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		MemAlloc:     mem.Alloc,
		NumGC:        mem.NumGC,
	}
}

type SystemStatsResponse struct {
	Configured bool                             `json:"supabase_configured"`
	Database   ConnectionStatus[DBPoolStats]    `json:"database"`
	Redis      ConnectionStatus[RedisPoolStats] `json:"redis"`
	Activity   *activity.PublisherStats         `json:"activity,omitempty"`
	Runtime    RuntimeStats                     `json:"runtime"`
}

type ConnectionStatus[T any] struct {
	Enabled bool `json:"enabled"`
	Healthy bool `json:"healthy"`
	Stats   *T   `json:"stats,omitempty"`
}

type DBPoolStats struct {
	MaxOpenConnections int    `json:"max_open_connections"`
	OpenConnections    int    `json:"open_connections"`
	InUse              int    `json:"in_use"`
	Idle               int    `json:"idle"`
	WaitCount          int64  `json:"wait_count"`
	WaitDuration       string `json:"wait_duration"`
	MaxIdleClosed      int64  `json:"max_idle_closed"`
	MaxLifetimeClosed  int64  `json:"max_lifetime_closed"`
}

type RedisPoolStats struct {
	Hits       uint32 `json:"hits"`
	Misses     uint32 `json:"misses"`
	Timeouts   uint32 `json:"timeouts"`
	TotalConns uint32 `json:"total_conns"`
	IdleConns  uint32 `json:"idle_conns"`
}

type RuntimeStats struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutine"`
	MemAlloc     uint64 `json:"mem_alloc_bytes"`
	NumGC        uint32 `json:"num_gc"`
}
