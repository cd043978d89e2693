// AngelaMos | 2026
// engagement.go

package social

import (
	"context"
	"errors"

	"github.com/carterperez-dev/ummah-social/internal/core"
	"github.com/carterperez-dev/ummah-social/internal/query"
	"github.com/carterperez-dev/ummah-social/internal/remote"
)

type NewComment struct {
	UserID       string  `json:"user_id"`
	PostID       *string `json:"post_id,omitempty"`
	DuaRequestID *string `json:"dua_request_id,omitempty"`
	Content      string  `json:"content"`
	IsPrayer     bool    `json:"is_prayer,omitempty"`
}

func (c NewComment) target() Target {
	var t Target
	if c.PostID != nil {
		t.PostID = *c.PostID
	}
	if c.DuaRequestID != nil {
		t.DuaRequestID = *c.DuaRequestID
	}
	return t
}

// ToggleLike likes the target for the user, or removes the like if it is
// already there.
func (s *Store) ToggleLike(ctx context.Context, userID string, target Target) (*LikeToggle, error) {
	result, err := run(ctx, s, "toggle_like", (*LikeToggle)(nil), func(ctx context.Context) (*LikeToggle, error) {
		like, err := s.toggleEngagement(ctx, "likes", userID, target)
		if err != nil {
			return nil, err
		}
		return &LikeToggle{Liked: like != nil, Like: (*Like)(like)}, nil
	})
	if err != nil && !errors.Is(err, ErrNotConfigured) {
		s.logger.Error("toggle like failed",
			"user_id", userID,
			"post_id", target.PostID,
			"dua_request_id", target.DuaRequestID,
			"error", err,
		)
	}
	return result, err
}

// ToggleBookmark follows the same flip law as ToggleLike on its own table.
func (s *Store) ToggleBookmark(
	ctx context.Context,
	userID string,
	target Target,
) (*BookmarkToggle, error) {
	result, err := run(ctx, s, "toggle_bookmark", (*BookmarkToggle)(nil), func(ctx context.Context) (*BookmarkToggle, error) {
		row, err := s.toggleEngagement(ctx, "bookmarks", userID, target)
		if err != nil {
			return nil, err
		}
		return &BookmarkToggle{Bookmarked: row != nil, Bookmark: (*Bookmark)(row)}, nil
	})
	if err != nil && !errors.Is(err, ErrNotConfigured) {
		s.logger.Error("toggle bookmark failed",
			"user_id", userID,
			"post_id", target.PostID,
			"dua_request_id", target.DuaRequestID,
			"error", err,
		)
	}
	return result, err
}

// engagementRow is the shared shape of likes and bookmarks.
type engagementRow Like

func (s *Store) toggleEngagement(
	ctx context.Context,
	table, userID string,
	target Target,
) (*engagementRow, error) {
	if err := target.validate(); err != nil {
		return nil, err
	}
	core.SpanFromContext(ctx).SetAttributes(target.attributes()...)

	targetFilter, _ := target.filter()
	match := []query.Filter{query.Eq("user_id", userID), targetFilter}

	row := target.columns()
	row["user_id"] = userID

	return toggle[engagementRow](ctx, s, table, match, row)
}

// GetComments lists comments on the target, oldest first. An empty target
// lists every comment.
func (s *Store) GetComments(ctx context.Context, target Target) ([]Comment, error) {
	return run(ctx, s, "get_comments", []Comment{}, func(ctx context.Context) ([]Comment, error) {
		b := query.From("comments").
			Embed("users", "user_id", authorColumns...).
			Order("created_at", true)

		if f, ok := target.filter(); ok {
			b.Where(f)
		}

		raw, err := s.client.Select(ctx, b.Query())
		if err != nil {
			return nil, err
		}

		comments := []Comment{}
		if err := remote.Many(raw, &comments); err != nil {
			return nil, err
		}
		return comments, nil
	})
}

func (s *Store) CreateComment(ctx context.Context, comment NewComment) (*Comment, error) {
	return run(ctx, s, "create_comment", (*Comment)(nil), func(ctx context.Context) (*Comment, error) {
		if err := comment.target().validate(); err != nil {
			return nil, err
		}

		row, err := toRow(comment)
		if err != nil {
			return nil, err
		}

		q := query.From("comments").Embed("users", "user_id", authorColumns...).Query()

		raw, err := s.client.Insert(ctx, q, row)
		if err != nil {
			return nil, err
		}

		var created Comment
		if err := remote.One(raw, &created); err != nil {
			return nil, err
		}
		return &created, nil
	})
}
