//go:build integration

// AngelaMos | 2026
// integration_test.go

package social_test

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/carterperez-dev/ummah-social/internal/config"
	"github.com/carterperez-dev/ummah-social/internal/core"
	"github.com/carterperez-dev/ummah-social/internal/remote"
	"github.com/carterperez-dev/ummah-social/internal/schema"
	"github.com/carterperez-dev/ummah-social/internal/social"
)

func setupDatabase(t *testing.T, simpleProtocol bool) *sqlx.DB {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("ummah"),
		postgres.WithUsername("ummah"),
		postgres.WithPassword("ummah"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := core.NewDatabase(ctx,
		config.SupabaseConfig{DatabaseURL: dsn, ClientInfo: "integration-test"},
		config.DatabaseConfig{
			MaxOpenConns:    5,
			MaxIdleConns:    2,
			ConnMaxLifetime: time.Hour,
			ConnMaxIdleTime: time.Minute,
			SimpleProtocol:  simpleProtocol,
		},
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, schema.Apply(ctx, db.DB))
	require.NoError(t, schema.Apply(ctx, db.DB), "schema must be reapplicable")
	return db.DB
}

func insertID(t *testing.T, db *sqlx.DB, query string, args ...any) string {
	t.Helper()

	var id string
	require.NoError(t, db.GetContext(context.Background(), &id, query, args...))
	return id
}

func TestIntegration_Facade(t *testing.T) {
	db := setupDatabase(t, false)
	ctx := context.Background()
	store := social.NewStore(remote.NewPostgres(db), true, nil)

	const userSQL = `INSERT INTO users (email, name, username, role) VALUES ($1, $2, $3, $4) RETURNING id`
	alice := insertID(t, db, userSQL, "alice@example.com", "Alice", "alice", social.RoleUser)
	bob := insertID(t, db, userSQL, "bob@example.com", "Bob", "bob", social.RoleUser)
	admin := insertID(t, db, userSQL, "admin@example.com", "Admin", "admin", social.RoleAdmin)

	t.Run("users", func(t *testing.T) {
		user, err := store.GetUser(ctx, alice)
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)

		bio := "Hafiz in training"
		user, err = store.UpdateUser(ctx, alice, social.UserUpdate{Bio: &bio})
		require.NoError(t, err)
		assert.Equal(t, bio, *user.Bio)
		assert.True(t, user.UpdatedAt.After(user.CreatedAt) || user.UpdatedAt.Equal(user.CreatedAt))

		_, err = store.GetUser(ctx, "00000000-0000-0000-0000-000000000000")
		re, ok := remote.AsRemoteError(err)
		require.True(t, ok)
		assert.Equal(t, remote.CodeSingleRow, re.Code)

		isAdmin, err := store.IsAdmin(ctx, admin)
		require.NoError(t, err)
		assert.True(t, isAdmin)
	})

	var postID string
	t.Run("posts", func(t *testing.T) {
		post, err := store.CreatePost(ctx, social.NewPost{
			UserID:  alice,
			Content: "Ramadan Mubarak to everyone",
			Tags:    []string{"ramadan"},
		})
		require.NoError(t, err)
		assert.Equal(t, social.PostTypeText, post.Type)
		assert.Equal(t, "general", post.Category)
		postID = post.ID

		_, err = store.CreatePost(ctx, social.NewPost{UserID: bob, Content: "Study circle tonight"})
		require.NoError(t, err)

		posts, err := store.GetPosts(ctx, social.PostFilter{Limit: 10})
		require.NoError(t, err)
		require.Len(t, posts, 2)
		assert.Equal(t, "Study circle tonight", posts[0].Content)
		require.NotNil(t, posts[1].Author)
		assert.Equal(t, "alice", posts[1].Author.Username)

		tagged, err := store.GetPosts(ctx, social.PostFilter{Tag: "ramadan"})
		require.NoError(t, err)
		require.Len(t, tagged, 1)
		assert.Equal(t, postID, tagged[0].ID)

		page, err := store.GetPosts(ctx, social.PostFilter{Limit: 1, Offset: 1})
		require.NoError(t, err)
		require.Len(t, page, 1)
		assert.Equal(t, postID, page[0].ID)
	})

	t.Run("engagement", func(t *testing.T) {
		target := social.ForPost(postID)

		liked, err := store.ToggleLike(ctx, bob, target)
		require.NoError(t, err)
		assert.True(t, liked.Liked)

		posts, err := store.GetPosts(ctx, social.PostFilter{Tag: "ramadan"})
		require.NoError(t, err)
		assert.Equal(t, 1, posts[0].LikesCount)

		unliked, err := store.ToggleLike(ctx, bob, target)
		require.NoError(t, err)
		assert.False(t, unliked.Liked)
		assert.Nil(t, unliked.Like)

		bookmarked, err := store.ToggleBookmark(ctx, bob, target)
		require.NoError(t, err)
		assert.True(t, bookmarked.Bookmarked)

		_, err = store.CreateComment(ctx, social.NewComment{UserID: bob, PostID: &postID, Content: "Ameen"})
		require.NoError(t, err)

		comments, err := store.GetComments(ctx, target)
		require.NoError(t, err)
		require.Len(t, comments, 1)
		require.NotNil(t, comments[0].Author)
		assert.Equal(t, "bob", comments[0].Author.Username)

		_, err = store.CreateComment(ctx, social.NewComment{UserID: bob, Content: "orphan"})
		assert.ErrorIs(t, err, social.ErrInvalidTarget)
	})

	t.Run("shares", func(t *testing.T) {
		count, err := store.IncrementShareCount(ctx, postID)
		require.NoError(t, err)
		require.NotNil(t, count)
		assert.Equal(t, int64(1), *count)

		count, err = store.IncrementShareCount(ctx, "00000000-0000-0000-0000-000000000000")
		require.NoError(t, err)
		assert.Nil(t, count)
	})

	t.Run("dua requests", func(t *testing.T) {
		dua, err := store.CreateDuaRequest(ctx, social.NewDuaRequest{
			UserID:      alice,
			Title:       "Exams",
			Content:     "Please pray for my finals",
			Category:    "education",
			IsUrgent:    true,
			IsAnonymous: true,
		})
		require.NoError(t, err)

		liked, err := store.ToggleLike(ctx, bob, social.ForDuaRequest(dua.ID))
		require.NoError(t, err)
		assert.True(t, liked.Liked)

		urgent, err := store.GetDuaRequests(ctx, social.DuaFilter{UrgentOnly: true})
		require.NoError(t, err)
		require.Len(t, urgent, 1)
		assert.Empty(t, urgent[0].UserID)
		assert.Nil(t, urgent[0].Author)
		assert.Equal(t, 1, urgent[0].PrayersCount)
	})

	t.Run("communities and events", func(t *testing.T) {
		communityID := insertID(t, db,
			`INSERT INTO communities (name, description, category, created_by)
			 VALUES ('Masjid Youth', 'Weekly halaqa', 'youth', $1) RETURNING id`, admin)
		eventID := insertID(t, db,
			`INSERT INTO events (title, description, type, date, "time", location_name,
			 location_address, location_city, organizer_name, created_by)
			 VALUES ('Iftar', 'Community iftar', 'social', '2026-03-01', '18:30',
			 'Main hall', '1 Crescent Rd', 'Leeds', 'Youth committee', $1) RETURNING id`, admin)

		member, err := store.ToggleCommunityMembership(ctx, bob, communityID)
		require.NoError(t, err)
		assert.True(t, member.Member)
		assert.Equal(t, "member", member.Role)

		attending, err := store.ToggleEventAttendance(ctx, bob, eventID)
		require.NoError(t, err)
		assert.True(t, attending.Attending)

		var count int
		require.NoError(t, db.GetContext(ctx, &count,
			`SELECT attendees_count FROM events WHERE id = $1`, eventID))
		assert.Equal(t, 1, count)

		left, err := store.ToggleCommunityMembership(ctx, bob, communityID)
		require.NoError(t, err)
		assert.False(t, left.Member)
	})

	t.Run("delete", func(t *testing.T) {
		result, err := store.DeletePost(ctx, postID, bob)
		require.NoError(t, err)
		assert.Zero(t, result.Deleted)

		result, err = store.DeletePost(ctx, postID, admin)
		require.NoError(t, err)
		assert.Equal(t, int64(1), result.Deleted)

		comments, err := store.GetComments(ctx, social.ForPost(postID))
		require.NoError(t, err)
		assert.Empty(t, comments)
	})

	t.Run("constraint violations surface as remote errors", func(t *testing.T) {
		_, err := store.CreatePost(ctx, social.NewPost{
			UserID:  "00000000-0000-0000-0000-000000000000",
			Content: "ghost",
		})
		re, ok := remote.AsRemoteError(err)
		require.True(t, ok)
		assert.Equal(t, "23503", re.Code)
	})
}

// Connection poolers such as PgBouncer in transaction mode need the simple
// protocol, where every parameter is encoded client side.
func TestIntegration_SimpleProtocol(t *testing.T) {
	db := setupDatabase(t, true)
	ctx := context.Background()
	store := social.NewStore(remote.NewPostgres(db), true, nil)

	alice := insertID(t, db,
		`INSERT INTO users (email, name, username, role) VALUES ($1, $2, $3, $4) RETURNING id`,
		"alice@example.com", "Alice", "alice", social.RoleUser)

	post, err := store.CreatePost(ctx, social.NewPost{
		UserID:  alice,
		Content: "Last ten nights",
		Tags:    []string{"ramadan", "qadr"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"ramadan", "qadr"}, post.Tags)

	dua, err := store.CreateDuaRequest(ctx, social.NewDuaRequest{
		UserID: alice, Title: "Exams", Content: "Pray for my exams", Tags: []string{"study"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"study"}, dua.Tags)

	tagged, err := store.GetPosts(ctx, social.PostFilter{Tag: "qadr"})
	require.NoError(t, err)
	require.Len(t, tagged, 1)
	assert.Equal(t, post.ID, tagged[0].ID)

	duas, err := store.GetDuaRequests(ctx, social.DuaFilter{Tag: "study"})
	require.NoError(t, err)
	require.Len(t, duas, 1)
	assert.Equal(t, dua.ID, duas[0].ID)

	liked, err := store.ToggleLike(ctx, alice, social.ForPost(post.ID))
	require.NoError(t, err)
	assert.True(t, liked.Liked)
}
