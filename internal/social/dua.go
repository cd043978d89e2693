// AngelaMos | 2026
// dua.go

package social

import (
	"context"

	"github.com/carterperez-dev/ummah-social/internal/query"
	"github.com/carterperez-dev/ummah-social/internal/remote"
)

type DuaFilter struct {
	Limit      int
	Offset     int
	Tag        string
	UrgentOnly bool
}

type NewDuaRequest struct {
	UserID      string   `json:"user_id"`
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	Category    string   `json:"category,omitempty"`
	IsUrgent    bool     `json:"is_urgent,omitempty"`
	IsAnonymous bool     `json:"is_anonymous,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

func duaWithAuthor() *query.Builder {
	return query.From("dua_requests").Embed("users", "user_id", authorColumns...)
}

func (s *Store) GetDuaRequests(ctx context.Context, filter DuaFilter) ([]DuaRequest, error) {
	return run(ctx, s, "get_dua_requests", []DuaRequest{}, func(ctx context.Context) ([]DuaRequest, error) {
		limit, offset := normalizePage(filter.Limit, filter.Offset)

		b := duaWithAuthor().
			Order("created_at", false).
			Range(offset, offset+limit-1)

		if filter.UrgentOnly {
			b.Eq("is_urgent", true)
		}
		if filter.Tag != "" {
			b.Or(
				query.Contains("tags", filter.Tag),
				query.ILike("category", query.Substring(filter.Tag)),
				query.ILike("title", query.Substring(filter.Tag)),
				query.ILike("content", query.Substring(filter.Tag)),
			)
		}

		raw, err := s.client.Select(ctx, b.Query())
		if err != nil {
			return nil, err
		}

		requests := []DuaRequest{}
		if err := remote.Many(raw, &requests); err != nil {
			return nil, err
		}
		for i := range requests {
			requests[i].redact()
		}
		return requests, nil
	})
}

func (s *Store) CreateDuaRequest(ctx context.Context, req NewDuaRequest) (*DuaRequest, error) {
	return run(ctx, s, "create_dua_request", (*DuaRequest)(nil), func(ctx context.Context) (*DuaRequest, error) {
		row, err := toRow(req)
		if err != nil {
			return nil, err
		}

		raw, err := s.client.Insert(ctx, duaWithAuthor().Query(), row)
		if err != nil {
			return nil, err
		}

		var created DuaRequest
		if err := remote.One(raw, &created); err != nil {
			return nil, err
		}
		created.redact()
		return &created, nil
	})
}
