// AngelaMos | 2026
// fake.go

package remotetest

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/carterperez-dev/ummah-social/internal/query"
	"github.com/carterperez-dev/ummah-social/internal/remote"
)

// RPCFunc implements a database function against the fake's tables. It runs
// with the fake locked, so it must use the Tx helpers rather than the Client
// methods.
type RPCFunc func(tx *Tx, args map[string]any) (any, error)

// Fake is an in-memory remote.Client. Inserted rows receive the same server
// side defaults as the reference schema, with created_at values drawn from a
// clock that advances one second per insert.
type Fake struct {
	mu        sync.Mutex
	tables    map[string][]map[string]any
	defaults  map[string]func(now string) map[string]any
	rpcs      map[string]RPCFunc
	calls     int
	failures  []error
	responses []json.RawMessage
	clock     time.Time
}

var _ remote.Client = (*Fake)(nil)

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func New() *Fake {
	f := &Fake{
		tables:   make(map[string][]map[string]any),
		defaults: schemaDefaults(),
		rpcs:     make(map[string]RPCFunc),
		clock:    epoch,
	}
	for table := range f.defaults {
		f.tables[table] = nil
	}
	f.rpcs["increment_post_shares"] = incrementPostShares
	return f
}

// Calls reports how many Client methods have been invoked.
func (f *Fake) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// FailNext makes the next Client call return err without touching state.
func (f *Fake) FailNext(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures = append(f.failures, err)
}

// RespondNext makes the next Client call answer with raw verbatim.
func (f *Fake) RespondNext(raw json.RawMessage) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses = append(f.responses, raw)
}

func (f *Fake) HandleRPC(name string, fn RPCFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rpcs[name] = fn
}

// Seed inserts a row directly, applying defaults, and returns the stored
// row. It does not count as a call.
func (f *Fake) Seed(table string, row map[string]any) map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()

	stored, err := f.insert(table, row)
	if err != nil {
		panic(err)
	}
	return clone(stored)
}

// Rows returns a copy of every row currently stored in table.
func (f *Fake) Rows(table string) []map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]map[string]any, 0, len(f.tables[table]))
	for _, r := range f.tables[table] {
		out = append(out, clone(r))
	}
	return out
}

func (f *Fake) Select(_ context.Context, q query.Query) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if raw, done, err := f.intercept(); done {
		return raw, err
	}
	if err := f.checkTable(q.Table); err != nil {
		return nil, err
	}

	var matched []map[string]any
	for _, r := range f.tables[q.Table] {
		if matchAll(r, q.Filters) {
			matched = append(matched, r)
		}
	}

	sortRows(matched, q.Orders)

	if q.Offset > 0 {
		if q.Offset >= len(matched) {
			matched = nil
		} else {
			matched = matched[q.Offset:]
		}
	}
	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}

	return f.render(q, matched)
}

func (f *Fake) Insert(
	_ context.Context,
	q query.Query,
	row map[string]any,
) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if raw, done, err := f.intercept(); done {
		return raw, err
	}
	if err := f.checkTable(q.Table); err != nil {
		return nil, err
	}

	stored, err := f.insert(q.Table, row)
	if err != nil {
		return nil, err
	}
	return f.render(q, []map[string]any{stored})
}

func (f *Fake) Update(
	_ context.Context,
	q query.Query,
	set map[string]any,
) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if raw, done, err := f.intercept(); done {
		return raw, err
	}
	if err := f.checkTable(q.Table); err != nil {
		return nil, err
	}

	values, err := normalizeRow(set)
	if err != nil {
		return nil, err
	}

	var updated []map[string]any
	for _, r := range f.tables[q.Table] {
		if !matchAll(r, q.Filters) {
			continue
		}
		for k, v := range values {
			r[k] = v
		}
		updated = append(updated, r)
	}

	return f.render(q, updated)
}

func (f *Fake) Delete(_ context.Context, q query.Query) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, done, err := f.intercept(); done {
		return 0, err
	}
	if err := f.checkTable(q.Table); err != nil {
		return 0, err
	}
	if len(q.Filters) == 0 {
		return 0, query.ErrUnfilteredDelete
	}

	kept := f.tables[q.Table][:0]
	var deleted int64
	for _, r := range f.tables[q.Table] {
		if matchAll(r, q.Filters) {
			deleted++
			continue
		}
		kept = append(kept, r)
	}
	f.tables[q.Table] = kept

	return deleted, nil
}

func (f *Fake) RPC(
	_ context.Context,
	fn string,
	args map[string]any,
) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if raw, done, err := f.intercept(); done {
		return raw, err
	}

	handler, ok := f.rpcs[fn]
	if !ok {
		return nil, &remote.RemoteError{
			Code:    "42883",
			Message: fmt.Sprintf("function %s does not exist", fn),
		}
	}

	normalized, err := normalizeRow(args)
	if err != nil {
		return nil, err
	}

	result, err := handler(&Tx{f: f}, normalized)
	if err != nil {
		return nil, err
	}
	return json.Marshal(result)
}

// Tx exposes table access to RPC handlers.
type Tx struct {
	f *Fake
}

// Find returns the first stored row of table matching every filter. The row
// is live: mutations are visible to later calls.
func (tx *Tx) Find(table string, filters ...query.Filter) map[string]any {
	for _, r := range tx.f.tables[table] {
		if matchAll(r, filters) {
			return r
		}
	}
	return nil
}

func incrementPostShares(tx *Tx, args map[string]any) (any, error) {
	post := tx.Find("posts", query.Eq("id", args["post_id"]))
	if post == nil {
		return nil, nil
	}

	count, _ := post["shares_count"].(float64)
	post["shares_count"] = count + 1
	return post["shares_count"], nil
}

func (f *Fake) intercept() (json.RawMessage, bool, error) {
	f.calls++

	if len(f.failures) > 0 {
		err := f.failures[0]
		f.failures = f.failures[1:]
		return nil, true, err
	}
	if len(f.responses) > 0 {
		raw := f.responses[0]
		f.responses = f.responses[1:]
		return raw, true, nil
	}
	return nil, false, nil
}

func (f *Fake) checkTable(table string) error {
	if _, ok := f.tables[table]; !ok {
		return &remote.RemoteError{
			Code:    "42P01",
			Message: fmt.Sprintf("relation %q does not exist", table),
		}
	}
	return nil
}

func (f *Fake) insert(table string, row map[string]any) (map[string]any, error) {
	values, err := normalizeRow(row)
	if err != nil {
		return nil, err
	}

	f.clock = f.clock.Add(time.Second)
	now := f.clock.Format(time.RFC3339Nano)

	stored := map[string]any{}
	if defaults, ok := f.defaults[table]; ok {
		base, err := normalizeRow(defaults(now))
		if err != nil {
			return nil, err
		}
		stored = base
	}
	for k, v := range values {
		stored[k] = v
	}

	f.tables[table] = append(f.tables[table], stored)
	return stored, nil
}

func (f *Fake) render(q query.Query, rows []map[string]any) (json.RawMessage, error) {
	out := make([]map[string]any, 0, len(rows))
	for _, r := range rows {
		out = append(out, f.project(q, r))
	}
	return json.Marshal(out)
}

func (f *Fake) project(q query.Query, r map[string]any) map[string]any {
	var shaped map[string]any
	if len(q.Columns) == 0 {
		shaped = clone(r)
	} else {
		shaped = make(map[string]any, len(q.Columns))
		for _, col := range q.Columns {
			shaped[col] = r[col]
		}
	}

	for _, e := range q.Embeds {
		shaped[e.Relation] = f.embed(e, r[e.ForeignKey])
	}
	return shaped
}

func (f *Fake) embed(e query.Embed, key any) any {
	if key == nil {
		return nil
	}

	for _, related := range f.tables[e.Relation] {
		if !reflect.DeepEqual(related["id"], key) {
			continue
		}
		if len(e.Columns) == 0 {
			return clone(related)
		}
		picked := make(map[string]any, len(e.Columns))
		for _, col := range e.Columns {
			picked[col] = related[col]
		}
		return picked
	}
	return nil
}

func matchAll(r map[string]any, filters []query.Filter) bool {
	for _, flt := range filters {
		if !match(r, flt) {
			return false
		}
	}
	return true
}

func match(r map[string]any, flt query.Filter) bool {
	if flt.IsGroup() {
		return slices.ContainsFunc(flt.Any, func(sub query.Filter) bool {
			return match(r, sub)
		})
	}

	v := r[flt.Column]

	switch flt.Operator {
	case query.OpEq:
		if flt.Value == nil {
			return v == nil
		}
		return v != nil && reflect.DeepEqual(v, normalize(flt.Value))
	case query.OpNeq:
		if flt.Value == nil {
			return v != nil
		}
		return v != nil && !reflect.DeepEqual(v, normalize(flt.Value))
	case query.OpIsNull:
		return v == nil
	case query.OpNotNull:
		return v != nil
	case query.OpContains:
		have, ok := v.([]any)
		if !ok {
			return false
		}
		want, _ := normalize(flt.Value).([]any)
		for _, w := range want {
			if !slices.ContainsFunc(have, func(h any) bool { return reflect.DeepEqual(h, w) }) {
				return false
			}
		}
		return true
	case query.OpILike:
		s, ok := v.(string)
		pattern, _ := flt.Value.(string)
		return ok && likePattern(pattern).MatchString(s)
	}
	return false
}

func likePattern(pattern string) *regexp.Regexp {
	var sb strings.Builder
	sb.WriteString(`(?is)^`)

	escaped := false
	for _, r := range pattern {
		switch {
		case escaped:
			sb.WriteString(regexp.QuoteMeta(string(r)))
			escaped = false
		case r == '\\':
			escaped = true
		case r == '%':
			sb.WriteString(".*")
		case r == '_':
			sb.WriteString(".")
		default:
			sb.WriteString(regexp.QuoteMeta(string(r)))
		}
	}

	sb.WriteString(`$`)
	return regexp.MustCompile(sb.String())
}

// sortRows orders like PostgreSQL: nulls sort after every value ascending
// and before every value descending.
func sortRows(rows []map[string]any, orders []query.Order) {
	if len(orders) == 0 {
		return
	}

	sort.SliceStable(rows, func(i, j int) bool {
		for _, o := range orders {
			c := compare(rows[i][o.Column], rows[j][o.Column])
			if c == 0 {
				continue
			}
			if o.Ascending {
				return c < 0
			}
			return c > 0
		}
		return false
	})
}

func compare(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}

	switch av := a.(type) {
	case float64:
		bv, _ := b.(float64)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	case bool:
		bv, _ := b.(bool)
		switch {
		case av == bv:
			return 0
		case !av:
			return -1
		}
		return 1
	case string:
		bv, _ := b.(string)
		at, aErr := time.Parse(time.RFC3339Nano, av)
		bt, bErr := time.Parse(time.RFC3339Nano, bv)
		if aErr == nil && bErr == nil {
			return at.Compare(bt)
		}
		return strings.Compare(av, bv)
	}
	return 0
}

func normalize(v any) any {
	raw, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return v
	}
	return out
}

func normalizeRow(row map[string]any) (map[string]any, error) {
	raw, err := json.Marshal(row)
	if err != nil {
		return nil, fmt.Errorf("encode row: %w", err)
	}
	out := map[string]any{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode row: %w", err)
	}
	return out, nil
}

func clone(r map[string]any) map[string]any {
	out, err := normalizeRow(r)
	if err != nil {
		return map[string]any{}
	}
	return out
}

func schemaDefaults() map[string]func(now string) map[string]any {
	id := func() string { return uuid.NewString() }

	return map[string]func(now string) map[string]any{
		"users": func(now string) map[string]any {
			return map[string]any{
				"id": id(), "avatar_url": nil, "bio": nil, "location": nil,
				"website": nil, "verified": false, "role": "user",
				"created_at": now, "updated_at": now,
			}
		},
		"posts": func(now string) map[string]any {
			return map[string]any{
				"id": id(), "type": "text", "media_url": nil, "category": "general",
				"tags": []string{}, "likes_count": 0, "comments_count": 0,
				"shares_count": 0, "created_at": now, "updated_at": now,
			}
		},
		"dua_requests": func(now string) map[string]any {
			return map[string]any{
				"id": id(), "category": "general", "is_urgent": false,
				"is_anonymous": false, "tags": []string{}, "prayers_count": 0,
				"comments_count": 0, "created_at": now, "updated_at": now,
			}
		},
		"likes": func(now string) map[string]any {
			return map[string]any{
				"id": id(), "post_id": nil, "dua_request_id": nil, "created_at": now,
			}
		},
		"bookmarks": func(now string) map[string]any {
			return map[string]any{
				"id": id(), "post_id": nil, "dua_request_id": nil, "created_at": now,
			}
		},
		"comments": func(now string) map[string]any {
			return map[string]any{
				"id": id(), "post_id": nil, "dua_request_id": nil, "is_prayer": false,
				"created_at": now, "updated_at": now,
			}
		},
		"communities": func(now string) map[string]any {
			return map[string]any{
				"id": id(), "is_private": false, "cover_image": nil, "location": nil,
				"member_count": 0, "created_at": now, "updated_at": now,
			}
		},
		"community_members": func(now string) map[string]any {
			return map[string]any{"id": id(), "role": "member", "joined_at": now}
		},
		"events": func(now string) map[string]any {
			return map[string]any{
				"id": id(), "organizer_contact": nil, "capacity": 0,
				"attendees_count": 0, "price": 0, "is_online": false,
				"image_url": nil, "tags": []string{}, "requirements": []string{},
				"created_at": now, "updated_at": now,
			}
		},
		"event_attendees": func(now string) map[string]any {
			return map[string]any{"id": id(), "registered_at": now}
		},
	}
}
