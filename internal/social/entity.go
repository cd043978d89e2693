// AngelaMos | 2026
// entity.go

package social

import (
	"time"
)

const (
	RoleUser      = "user"
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
)

const (
	PostTypeText  = "text"
	PostTypeImage = "image"
	PostTypeVideo = "video"
)

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Username  string    `json:"username"`
	AvatarURL *string   `json:"avatar_url"`
	Bio       *string   `json:"bio"`
	Location  *string   `json:"location"`
	Website   *string   `json:"website"`
	Verified  bool      `json:"verified"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// AuthorSummary is the slice of a user embedded in posts, dua requests and
// comments under the "users" key.
type AuthorSummary struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Username  string  `json:"username"`
	AvatarURL *string `json:"avatar_url"`
	Verified  bool    `json:"verified"`
	Role      string  `json:"role"`
}

var authorColumns = []string{"id", "name", "username", "avatar_url", "verified", "role"}

type Post struct {
	ID            string         `json:"id"`
	UserID        string         `json:"user_id"`
	Content       string         `json:"content"`
	Type          string         `json:"type"`
	MediaURL      *string        `json:"media_url"`
	Category      string         `json:"category"`
	Tags          []string       `json:"tags"`
	LikesCount    int            `json:"likes_count"`
	CommentsCount int            `json:"comments_count"`
	SharesCount   int            `json:"shares_count"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	Author        *AuthorSummary `json:"users"`
}

// DuaRequest is a prayer request. Anonymous requests are returned without
// their author.
type DuaRequest struct {
	ID            string         `json:"id"`
	UserID        string         `json:"user_id,omitempty"`
	Title         string         `json:"title"`
	Content       string         `json:"content"`
	Category      string         `json:"category"`
	IsUrgent      bool           `json:"is_urgent"`
	IsAnonymous   bool           `json:"is_anonymous"`
	Tags          []string       `json:"tags"`
	PrayersCount  int            `json:"prayers_count"`
	CommentsCount int            `json:"comments_count"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	Author        *AuthorSummary `json:"users"`
}

func (d *DuaRequest) redact() {
	if d.IsAnonymous {
		d.UserID = ""
		d.Author = nil
	}
}

type Like struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	PostID       *string   `json:"post_id"`
	DuaRequestID *string   `json:"dua_request_id"`
	CreatedAt    time.Time `json:"created_at"`
}

type Bookmark struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	PostID       *string   `json:"post_id"`
	DuaRequestID *string   `json:"dua_request_id"`
	CreatedAt    time.Time `json:"created_at"`
}

type Comment struct {
	ID           string         `json:"id"`
	UserID       string         `json:"user_id"`
	PostID       *string        `json:"post_id"`
	DuaRequestID *string        `json:"dua_request_id"`
	Content      string         `json:"content"`
	IsPrayer     bool           `json:"is_prayer"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	Author       *AuthorSummary `json:"users"`
}

type CommunityMember struct {
	ID          string    `json:"id"`
	CommunityID string    `json:"community_id"`
	UserID      string    `json:"user_id"`
	Role        string    `json:"role"`
	JoinedAt    time.Time `json:"joined_at"`
}

type EventAttendee struct {
	ID           string    `json:"id"`
	EventID      string    `json:"event_id"`
	UserID       string    `json:"user_id"`
	RegisteredAt time.Time `json:"registered_at"`
}

// LikeToggle reports the state after a toggle. When a like was created its
// row is flattened alongside the flag.
type LikeToggle struct {
	Liked bool `json:"liked"`
	*Like
}

type BookmarkToggle struct {
	Bookmarked bool `json:"bookmarked"`
	*Bookmark
}

type MembershipToggle struct {
	Member bool `json:"member"`
	*CommunityMember
}

type AttendanceToggle struct {
	Attending bool `json:"attending"`
	*EventAttendee
}

// DeleteResult counts removed rows. Zero means the requester was not allowed
// to delete the post or it did not exist.
type DeleteResult struct {
	Deleted int64 `json:"deleted"`
}
