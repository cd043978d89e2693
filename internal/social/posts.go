// AngelaMos | 2026
// posts.go

package social

import (
	"context"
	"encoding/json"

	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/ummah-social/internal/core"
	"github.com/carterperez-dev/ummah-social/internal/query"
	"github.com/carterperez-dev/ummah-social/internal/remote"
)

type PostFilter struct {
	Limit  int
	Offset int
	// Tag matches posts carrying the tag or mentioning it in their category
	// or content, case insensitively.
	Tag string
}

type NewPost struct {
	UserID   string   `json:"user_id"`
	Content  string   `json:"content"`
	Type     string   `json:"type,omitempty"`
	MediaURL *string  `json:"media_url,omitempty"`
	Category string   `json:"category,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}

func postsWithAuthor() *query.Builder {
	return query.From("posts").Embed("users", "user_id", authorColumns...)
}

// GetPosts returns a page of posts, newest first.
func (s *Store) GetPosts(ctx context.Context, filter PostFilter) ([]Post, error) {
	return run(ctx, s, "get_posts", []Post{}, func(ctx context.Context) ([]Post, error) {
		limit, offset := normalizePage(filter.Limit, filter.Offset)

		b := postsWithAuthor().
			Order("created_at", false).
			Range(offset, offset+limit-1)

		if filter.Tag != "" {
			b.Or(
				query.Contains("tags", filter.Tag),
				query.ILike("category", query.Substring(filter.Tag)),
				query.ILike("content", query.Substring(filter.Tag)),
			)
		}

		raw, err := s.client.Select(ctx, b.Query())
		if err != nil {
			return nil, err
		}

		posts := []Post{}
		if err := remote.Many(raw, &posts); err != nil {
			return nil, err
		}
		return posts, nil
	})
}

func (s *Store) CreatePost(ctx context.Context, post NewPost) (*Post, error) {
	return run(ctx, s, "create_post", (*Post)(nil), func(ctx context.Context) (*Post, error) {
		row, err := toRow(post)
		if err != nil {
			return nil, err
		}

		raw, err := s.client.Insert(ctx, postsWithAuthor().Query(), row)
		if err != nil {
			return nil, err
		}

		var created Post
		if err := remote.One(raw, &created); err != nil {
			return nil, err
		}
		return &created, nil
	})
}

// DeletePost removes the post when the requester owns it or is an admin. A
// requester with neither right deletes nothing and gets a zero count.
func (s *Store) DeletePost(
	ctx context.Context,
	postID, userID string,
) (*DeleteResult, error) {
	return run(ctx, s, "delete_post", (*DeleteResult)(nil), func(ctx context.Context) (*DeleteResult, error) {
		admin, err := s.isAdmin(ctx, userID)
		if err != nil {
			return nil, err
		}

		allowed := []query.Filter{query.Eq("user_id", userID)}
		if admin {
			allowed = append(allowed, query.NotNull("user_id"))
		}

		q := query.From("posts").Eq("id", postID).Or(allowed...).Query()

		n, err := s.client.Delete(ctx, q)
		if err != nil {
			return nil, err
		}

		core.SpanFromContext(ctx).SetAttributes(
			attribute.Bool("social.admin", admin),
			attribute.Int64("social.deleted", n),
		)
		return &DeleteResult{Deleted: n}, nil
	})
}

// IncrementShareCount bumps the post's share counter server side and returns
// the new count, or nil when the post does not exist.
func (s *Store) IncrementShareCount(ctx context.Context, postID string) (*int64, error) {
	return run(ctx, s, "increment_share_count", (*int64)(nil), func(ctx context.Context) (*int64, error) {
		raw, err := s.client.RPC(ctx, "increment_post_shares", map[string]any{"post_id": postID})
		if err != nil {
			return nil, err
		}

		var count *int64
		if err := json.Unmarshal(raw, &count); err != nil {
			return nil, &remote.DecodeError{Err: err}
		}
		return count, nil
	})
}
