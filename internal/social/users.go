// AngelaMos | 2026
// users.go

package social

import (
	"context"
	"errors"

	"github.com/carterperez-dev/ummah-social/internal/query"
	"github.com/carterperez-dev/ummah-social/internal/remote"
)

// UserUpdate carries the profile fields a user may change. Nil fields are
// left untouched.
type UserUpdate struct {
	Name      *string `json:"name,omitempty"`
	Username  *string `json:"username,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
	Bio       *string `json:"bio,omitempty"`
	Location  *string `json:"location,omitempty"`
	Website   *string `json:"website,omitempty"`
}

func (s *Store) GetUser(ctx context.Context, userID string) (*User, error) {
	return run(ctx, s, "get_user", (*User)(nil), func(ctx context.Context) (*User, error) {
		raw, err := s.client.Select(ctx, query.From("users").Eq("id", userID).Query())
		if err != nil {
			return nil, err
		}

		var u User
		if err := remote.One(raw, &u); err != nil {
			return nil, err
		}
		return &u, nil
	})
}

func (s *Store) UpdateUser(
	ctx context.Context,
	userID string,
	update UserUpdate,
) (*User, error) {
	return run(ctx, s, "update_user", (*User)(nil), func(ctx context.Context) (*User, error) {
		set, err := toRow(update)
		if err != nil {
			return nil, err
		}
		if len(set) == 0 {
			return nil, ErrEmptyUpdate
		}

		raw, err := s.client.Update(ctx, query.From("users").Eq("id", userID).Query(), set)
		if err != nil {
			return nil, err
		}

		var u User
		if err := remote.One(raw, &u); err != nil {
			return nil, err
		}
		return &u, nil
	})
}

// isAdmin looks up the requester's role. An unknown requester is not an
// admin.
func (s *Store) isAdmin(ctx context.Context, userID string) (bool, error) {
	raw, err := s.client.Select(ctx, query.From("users").Select("role").Eq("id", userID).Query())
	if err != nil {
		return false, err
	}

	var u User
	if err := remote.One(raw, &u); err != nil {
		if errors.Is(err, remote.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return u.IsAdmin(), nil
}

// IsAdmin reports whether the user holds the admin role.
func (s *Store) IsAdmin(ctx context.Context, userID string) (bool, error) {
	return run(ctx, s, "is_admin", false, func(ctx context.Context) (bool, error) {
		return s.isAdmin(ctx, userID)
	})
}
