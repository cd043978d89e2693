// AngelaMos | 2026
// postgres.go

package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/carterperez-dev/ummah-social/internal/core"
	"github.com/carterperez-dev/ummah-social/internal/query"
)

const tracerName = "github.com/carterperez-dev/ummah-social/internal/remote"

// Postgres talks to the Supabase project's database directly. Each call is a
// single statement; rows are serialised to JSON server side.
type Postgres struct {
	db     core.DBTX
	tracer trace.Tracer
}

func NewPostgres(db core.DBTX) *Postgres {
	return &Postgres{
		db:     db,
		tracer: otel.Tracer(tracerName),
	}
}

func (p *Postgres) Select(ctx context.Context, q query.Query) (json.RawMessage, error) {
	stmt, args, err := q.SelectSQL()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}
	return p.queryJSON(ctx, "remote.select", q.Table, stmt, args)
}

func (p *Postgres) Insert(
	ctx context.Context,
	q query.Query,
	row map[string]any,
) (json.RawMessage, error) {
	stmt, args, err := q.InsertSQL(row)
	if err != nil {
		return nil, fmt.Errorf("build insert: %w", err)
	}
	return p.queryJSON(ctx, "remote.insert", q.Table, stmt, args)
}

func (p *Postgres) Update(
	ctx context.Context,
	q query.Query,
	set map[string]any,
) (json.RawMessage, error) {
	stmt, args, err := q.UpdateSQL(set)
	if err != nil {
		return nil, fmt.Errorf("build update: %w", err)
	}
	return p.queryJSON(ctx, "remote.update", q.Table, stmt, args)
}

func (p *Postgres) Delete(ctx context.Context, q query.Query) (int64, error) {
	stmt, args, err := q.DeleteSQL()
	if err != nil {
		return 0, fmt.Errorf("build delete: %w", err)
	}

	ctx, span := p.tracer.Start(ctx, "remote.delete",
		trace.WithAttributes(attribute.String("db.sql.table", q.Table)),
	)
	defer span.End()

	result, err := p.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return 0, p.fail(span, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, p.fail(span, err)
	}

	span.SetAttributes(attribute.Int64("db.rows_affected", rows))
	return rows, nil
}

func (p *Postgres) RPC(
	ctx context.Context,
	fn string,
	args map[string]any,
) (json.RawMessage, error) {
	stmt, params, err := query.CallSQL(fn, args)
	if err != nil {
		return nil, fmt.Errorf("build rpc: %w", err)
	}
	return p.queryJSON(ctx, "remote.rpc", fn, stmt, params)
}

func (p *Postgres) queryJSON(
	ctx context.Context,
	spanName, target, stmt string,
	args []any,
) (json.RawMessage, error) {
	ctx, span := p.tracer.Start(ctx, spanName,
		trace.WithAttributes(attribute.String("db.sql.table", target)),
	)
	defer span.End()

	var raw []byte
	if err := p.db.GetContext(ctx, &raw, stmt, args...); err != nil {
		return nil, p.fail(span, err)
	}

	if raw == nil {
		return json.RawMessage("null"), nil
	}
	return json.RawMessage(raw), nil
}

func (p *Postgres) fail(span trace.Span, err error) error {
	core.SetSpanError(span, err)
	return translate(err)
}

func translate(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return &RemoteError{
			Code:    pgErr.Code,
			Message: pgErr.Message,
			Details: pgErr.Detail,
			Hint:    pgErr.Hint,
			Err:     err,
		}
	}

	return &RemoteError{
		Message: err.Error(),
		Err:     err,
	}
}
