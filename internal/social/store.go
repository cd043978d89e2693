// AngelaMos | 2026
// store.go

package social

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/carterperez-dev/ummah-social/internal/core"
	"github.com/carterperez-dev/ummah-social/internal/query"
	"github.com/carterperez-dev/ummah-social/internal/remote"
)

const tracerName = "github.com/carterperez-dev/ummah-social/internal/social"

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Store is the data access layer for the social app. Every method checks the
// configuration first and never issues a remote call in degraded mode.
// Methods return the operation's safe default alongside any error: nil for
// single records and an empty slice for lists.
//
// Toggles and DeletePost issue a read followed by a write without a
// transaction. Concurrent calls against the same target may interleave.
type Store struct {
	client     remote.Client
	configured bool
	logger     *slog.Logger
	tracer     trace.Tracer
}

// NewStore builds a Store. When configured is false client may be nil and
// every method fails with ErrNotConfigured.
func NewStore(client remote.Client, configured bool, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		client:     client,
		configured: configured && client != nil,
		logger:     logger,
		tracer:     otel.Tracer(tracerName),
	}
}

func (s *Store) IsConfigured() bool {
	return s.configured
}

func run[T any](
	ctx context.Context,
	s *Store,
	op string,
	empty T,
	fn func(ctx context.Context) (T, error),
) (result T, err error) {
	if !s.configured {
		return empty, ErrNotConfigured
	}

	ctx, span := s.tracer.Start(ctx, "social."+op)
	defer span.End()

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = &UnexpectedError{Op: op, Err: fmt.Errorf("panic: %v", r)}
		}
		if err != nil {
			result = empty
			core.SetSpanError(span, err)
		}
		s.logger.DebugContext(ctx, "social call",
			slog.String("op", op),
			slog.Duration("duration", time.Since(start)),
			slog.Any("error", err),
		)
	}()

	result, err = fn(ctx)
	if err != nil {
		return empty, classify(op, err)
	}
	return result, nil
}

// Target names the post or dua request a like, bookmark or comment is
// attached to.
type Target struct {
	PostID       string
	DuaRequestID string
}

func ForPost(id string) Target {
	return Target{PostID: id}
}

func ForDuaRequest(id string) Target {
	return Target{DuaRequestID: id}
}

func (t Target) validate() error {
	if (t.PostID == "") == (t.DuaRequestID == "") {
		return ErrInvalidTarget
	}
	return nil
}

// filter matches rows attached to the target. The post wins when both are
// set; an empty target matches everything.
func (t Target) filter() (query.Filter, bool) {
	switch {
	case t.PostID != "":
		return query.Eq("post_id", t.PostID), true
	case t.DuaRequestID != "":
		return query.Eq("dua_request_id", t.DuaRequestID), true
	}
	return query.Filter{}, false
}

func (t Target) columns() map[string]any {
	return map[string]any{
		"post_id":        nullable(t.PostID),
		"dua_request_id": nullable(t.DuaRequestID),
	}
}

func (t Target) attributes() []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("social.post_id", t.PostID),
		attribute.String("social.dua_request_id", t.DuaRequestID),
	}
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func normalizePage(limit, offset int) (int, int) {
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// toRow converts an input struct into insert columns. Fields tagged
// omitempty and left empty are dropped so the backend applies its defaults.
func toRow(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode row: %w", err)
	}

	row := map[string]any{}
	if err := json.Unmarshal(raw, &row); err != nil {
		return nil, fmt.Errorf("encode row: %w", err)
	}
	for col, val := range row {
		if list, ok := val.([]any); ok {
			if strs, ok := stringSlice(list); ok {
				row[col] = strs
			}
		}
	}
	return row, nil
}

// stringSlice restores a decoded JSON array to []string so it binds as a
// text[] parameter rather than an untyped array.
func stringSlice(list []any) ([]string, bool) {
	out := make([]string, 0, len(list))
	for _, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

// toggle deletes the user's row matching match if there is one, otherwise
// inserts row and returns it.
func toggle[T any](
	ctx context.Context,
	s *Store,
	table string,
	match []query.Filter,
	row map[string]any,
) (*T, error) {
	lookup := query.From(table).Select("id").Where(match...).Limit(1).Query()

	raw, err := s.client.Select(ctx, lookup)
	if err != nil {
		return nil, err
	}

	var existing struct {
		ID string `json:"id"`
	}
	found, err := remote.First(raw, &existing)
	if err != nil {
		return nil, err
	}

	if found {
		if _, err := s.client.Delete(ctx, query.From(table).Eq("id", existing.ID).Query()); err != nil {
			return nil, err
		}
		return nil, nil
	}

	raw, err = s.client.Insert(ctx, query.From(table).Query(), row)
	if err != nil {
		return nil, err
	}

	var created T
	if err := remote.One(raw, &created); err != nil {
		return nil, err
	}
	return &created, nil
}
