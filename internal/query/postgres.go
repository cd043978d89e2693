// AngelaMos | 2026
// postgres.go

package query

import (
	"errors"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

var (
	ErrInvalidIdentifier = errors.New("invalid identifier")
	ErrEmptyMutation     = errors.New("no columns to write")
	ErrUnfilteredDelete  = errors.New("delete requires at least one filter")
	ErrEmptyGroup        = errors.New("or group has no filters")
)

var identPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

const (
	mutatedAlias = "mutated"
	resultAlias  = "t"
)

type compiler struct {
	args []any
}

func (c *compiler) bind(v any) string {
	c.args = append(c.args, v)
	return "$" + strconv.Itoa(len(c.args))
}

func checkIdent(names ...string) error {
	for _, n := range names {
		if !identPattern.MatchString(n) {
			return fmt.Errorf("%w: %q", ErrInvalidIdentifier, n)
		}
	}
	return nil
}

// SelectSQL renders the query as a single statement returning one JSON
// array of rows, embedded relations nested as objects.
func (q Query) SelectSQL() (string, []any, error) {
	if err := q.check(); err != nil {
		return "", nil, err
	}

	c := &compiler{}
	var sb strings.Builder

	sb.WriteString("SELECT ")
	sb.WriteString(q.projection(q.Table))
	sb.WriteString(" FROM ")
	sb.WriteString(q.Table)
	sb.WriteString(q.joins(q.Table))

	where, err := c.where(q.Table, q.Filters)
	if err != nil {
		return "", nil, err
	}
	sb.WriteString(where)

	if len(q.Orders) > 0 {
		parts := make([]string, 0, len(q.Orders))
		for _, o := range q.Orders {
			dir := "DESC"
			if o.Ascending {
				dir = "ASC"
			}
			parts = append(parts, q.Table+"."+o.Column+" "+dir)
		}
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(parts, ", "))
	}

	if q.Limit > 0 {
		sb.WriteString(" LIMIT " + c.bind(q.Limit))
	}
	if q.Offset > 0 {
		sb.WriteString(" OFFSET " + c.bind(q.Offset))
	}

	return wrapJSON(sb.String()), c.args, nil
}

// InsertSQL inserts one row and returns it shaped by the query's columns and
// embeds.
func (q Query) InsertSQL(row map[string]any) (string, []any, error) {
	if err := q.check(); err != nil {
		return "", nil, err
	}
	if len(row) == 0 {
		return "", nil, ErrEmptyMutation
	}

	cols := slices.Sorted(maps.Keys(row))
	if err := checkIdent(cols...); err != nil {
		return "", nil, err
	}

	c := &compiler{}
	placeholders := make([]string, len(cols))
	for i, col := range cols {
		placeholders[i] = c.bind(row[col])
	}

	mutation := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) RETURNING *",
		q.Table,
		strings.Join(cols, ", "),
		strings.Join(placeholders, ", "),
	)

	return q.returning(mutation), c.args, nil
}

// UpdateSQL applies set to every row matching the filters and returns the
// updated rows.
func (q Query) UpdateSQL(set map[string]any) (string, []any, error) {
	if err := q.check(); err != nil {
		return "", nil, err
	}
	if len(set) == 0 {
		return "", nil, ErrEmptyMutation
	}

	cols := slices.Sorted(maps.Keys(set))
	if err := checkIdent(cols...); err != nil {
		return "", nil, err
	}

	c := &compiler{}
	assignments := make([]string, len(cols))
	for i, col := range cols {
		assignments[i] = col + " = " + c.bind(set[col])
	}

	where, err := c.where(q.Table, q.Filters)
	if err != nil {
		return "", nil, err
	}

	mutation := fmt.Sprintf(
		"UPDATE %s SET %s%s RETURNING *",
		q.Table,
		strings.Join(assignments, ", "),
		where,
	)

	return q.returning(mutation), c.args, nil
}

// DeleteSQL removes every row matching the filters. Unfiltered deletes are
// refused.
func (q Query) DeleteSQL() (string, []any, error) {
	if err := q.check(); err != nil {
		return "", nil, err
	}
	if len(q.Filters) == 0 {
		return "", nil, ErrUnfilteredDelete
	}

	c := &compiler{}
	where, err := c.where(q.Table, q.Filters)
	if err != nil {
		return "", nil, err
	}

	return "DELETE FROM " + q.Table + where, c.args, nil
}

// CallSQL invokes a database function with named arguments and returns its
// result as JSON.
func CallSQL(fn string, args map[string]any) (string, []any, error) {
	if err := checkIdent(fn); err != nil {
		return "", nil, err
	}

	names := slices.Sorted(maps.Keys(args))
	if err := checkIdent(names...); err != nil {
		return "", nil, err
	}

	c := &compiler{}
	params := make([]string, len(names))
	for i, name := range names {
		params[i] = name + " => " + c.bind(args[name])
	}

	return fmt.Sprintf("SELECT to_json(%s(%s))", fn, strings.Join(params, ", ")), c.args, nil
}

func (q Query) check() error {
	if err := checkIdent(q.Table); err != nil {
		return err
	}
	if err := checkIdent(q.Columns...); err != nil {
		return err
	}
	for _, e := range q.Embeds {
		if err := checkIdent(e.Relation, e.ForeignKey); err != nil {
			return err
		}
		if err := checkIdent(e.Columns...); err != nil {
			return err
		}
	}
	for _, o := range q.Orders {
		if err := checkIdent(o.Column); err != nil {
			return err
		}
	}
	return checkFilters(q.Filters)
}

func checkFilters(filters []Filter) error {
	for _, f := range filters {
		if f.IsGroup() {
			if err := checkFilters(f.Any); err != nil {
				return err
			}
			continue
		}
		if f.Operator == "" && f.Column == "" {
			return ErrEmptyGroup
		}
		if err := checkIdent(f.Column); err != nil {
			return err
		}
	}
	return nil
}

func (q Query) projection(base string) string {
	parts := make([]string, 0, len(q.Columns)+len(q.Embeds))

	if len(q.Columns) == 0 {
		parts = append(parts, base+".*")
	}
	for _, col := range q.Columns {
		parts = append(parts, base+"."+col)
	}

	for _, e := range q.Embeds {
		parts = append(parts, embedExpr(e)+" AS "+e.Relation)
	}

	return strings.Join(parts, ", ")
}

func embedExpr(e Embed) string {
	if len(e.Columns) == 0 {
		return fmt.Sprintf(
			"CASE WHEN %[1]s.id IS NULL THEN NULL ELSE row_to_json(%[1]s.*) END",
			e.Relation,
		)
	}

	pairs := make([]string, 0, len(e.Columns))
	for _, col := range e.Columns {
		pairs = append(pairs, fmt.Sprintf("'%s', %s.%s", col, e.Relation, col))
	}

	return fmt.Sprintf(
		"CASE WHEN %s.id IS NULL THEN NULL ELSE json_build_object(%s) END",
		e.Relation,
		strings.Join(pairs, ", "),
	)
}

func (q Query) joins(base string) string {
	var sb strings.Builder
	for _, e := range q.Embeds {
		fmt.Fprintf(&sb, " LEFT JOIN %[1]s ON %[1]s.id = %[2]s.%[3]s", e.Relation, base, e.ForeignKey)
	}
	return sb.String()
}

func (q Query) returning(mutation string) string {
	inner := "SELECT " + q.projection(mutatedAlias) + " FROM " + mutatedAlias + q.joins(mutatedAlias)
	return "WITH " + mutatedAlias + " AS (" + mutation + ") " + wrapJSON(inner)
}

func wrapJSON(inner string) string {
	return "SELECT coalesce(json_agg(" + resultAlias + "), '[]'::json) FROM (" +
		inner + ") " + resultAlias
}

func (c *compiler) where(table string, filters []Filter) (string, error) {
	if len(filters) == 0 {
		return "", nil
	}

	parts := make([]string, 0, len(filters))
	for _, f := range filters {
		sql, err := c.filter(table, f)
		if err != nil {
			return "", err
		}
		parts = append(parts, sql)
	}

	return " WHERE " + strings.Join(parts, " AND "), nil
}

func (c *compiler) filter(table string, f Filter) (string, error) {
	if f.IsGroup() {
		parts := make([]string, 0, len(f.Any))
		for _, sub := range f.Any {
			sql, err := c.filter(table, sub)
			if err != nil {
				return "", err
			}
			parts = append(parts, sql)
		}
		return "(" + strings.Join(parts, " OR ") + ")", nil
	}

	col := table + "." + f.Column

	switch f.Operator {
	case OpEq:
		if f.Value == nil {
			return col + " IS NULL", nil
		}
		return col + " = " + c.bind(f.Value), nil
	case OpNeq:
		if f.Value == nil {
			return col + " IS NOT NULL", nil
		}
		return col + " <> " + c.bind(f.Value), nil
	case OpIsNull:
		return col + " IS NULL", nil
	case OpNotNull:
		return col + " IS NOT NULL", nil
	case OpContains:
		return col + " @> " + c.bind(f.Value) + "::text[]", nil
	case OpILike:
		return col + " ILIKE " + c.bind(f.Value), nil
	default:
		return "", fmt.Errorf("unsupported operator %q", f.Operator)
	}
}
