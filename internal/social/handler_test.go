// AngelaMos | 2026
// handler_test.go

package social

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/ummah-social/internal/activity"
	"github.com/carterperez-dev/ummah-social/internal/auth"
	"github.com/carterperez-dev/ummah-social/internal/config"
	"github.com/carterperez-dev/ummah-social/internal/middleware"
	"github.com/carterperez-dev/ummah-social/internal/remote"
)

type apiFixture struct {
	*fixture
	router   chi.Router
	events   *activity.Recorder
	verifier *auth.Verifier
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details string `json:"details"`
	} `json:"error"`
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	fx := newFixture(t)
	return mountAPI(t, fx, fx.store)
}

func mountAPI(t *testing.T, fx *fixture, store *Store) *apiFixture {
	t.Helper()

	verifier, err := auth.NewVerifier(config.SupabaseConfig{
		URL:       "https://abcdefghijklmnopqrst.supabase.co",
		JWTSecret: "handler-test-secret-at-least-32-bytes",
	})
	require.NoError(t, err)

	events := &activity.Recorder{}
	h := NewHandler(store, events, slog.New(slog.NewTextHandler(io.Discard, nil)))

	r := chi.NewRouter()
	h.RegisterRoutes(
		r,
		middleware.Authenticator(verifier),
		middleware.OptionalAuth(verifier),
	)

	return &apiFixture{fixture: fx, router: r, events: events, verifier: verifier}
}

func (a *apiFixture) do(
	t *testing.T,
	method, path, userID string,
	body any,
) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if userID != "" {
		token, err := a.verifier.Sign(userID, "member@example.com", time.Minute)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

func TestHandler_CreateAndListPosts(t *testing.T) {
	a := newAPIFixture(t)

	rec, env := a.do(t, http.MethodPost, "/posts", a.alice, map[string]any{
		"content": "Jumu'ah reminder",
		"tags":    []string{"friday"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Nil(t, env.Error)

	var post Post
	require.NoError(t, json.Unmarshal(env.Data, &post))
	assert.Equal(t, a.alice, post.UserID)
	assert.Equal(t, PostTypeText, post.Type)

	rec, env = a.do(t, http.MethodGet, "/posts?limit=5&tag=friday", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var posts []Post
	require.NoError(t, json.Unmarshal(env.Data, &posts))
	require.Len(t, posts, 1)
	assert.Equal(t, post.ID, posts[0].ID)
	require.NotNil(t, posts[0].Author)
	assert.Equal(t, "alice", posts[0].Author.Username)

	assert.Equal(t, []string{activity.PostCreated}, a.events.Types())
}

func TestHandler_CreatePostValidation(t *testing.T) {
	a := newAPIFixture(t)

	tests := []struct {
		name string
		body any
	}{
		{"missing content", map[string]any{"type": "text"}},
		{"unknown type", map[string]any{"content": "x", "type": "poll"}},
		{"bad media url", map[string]any{"content": "x", "media_url": "not a url"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := a.do(t, http.MethodPost, "/posts", a.alice, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			require.NotNil(t, env.Error)
			assert.Equal(t, "BAD_REQUEST", env.Error.Code)
		})
	}

	req := httptest.NewRequest(http.MethodPost, "/posts", strings.NewReader("{"))
	token, err := a.verifier.Sign(a.alice, "", time.Minute)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Empty(t, a.fake.Rows("posts"))
}

func TestHandler_WritesRequireAuth(t *testing.T) {
	a := newAPIFixture(t)
	postID := a.seedPost(t, a.alice, "hello")

	rec, env := a.do(t, http.MethodPost, "/posts/"+postID+"/like", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	require.NotNil(t, env.Error)
	assert.Empty(t, a.fake.Rows("likes"))
}

func TestHandler_ToggleLike(t *testing.T) {
	a := newAPIFixture(t)
	postID := a.seedPost(t, a.alice, "hello")

	rec, env := a.do(t, http.MethodPost, "/posts/"+postID+"/like", a.bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var first map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &first))
	assert.Equal(t, true, first["liked"])
	assert.Equal(t, postID, first["post_id"])
	assert.Equal(t, a.bob, first["user_id"])

	rec, env = a.do(t, http.MethodPost, "/posts/"+postID+"/like", a.bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"liked":false}`, string(env.Data))

	require.Len(t, a.events.Events(), 2)
	assert.Equal(t, postID, a.events.Events()[1].SubjectID)
	assert.Equal(t, map[string]any{"liked": false}, a.events.Events()[1].Payload)
}

func TestHandler_DuaRequestBookmarkAndComments(t *testing.T) {
	a := newAPIFixture(t)

	rec, env := a.do(t, http.MethodPost, "/dua-requests", a.alice, map[string]any{
		"title":        "Shifa",
		"content":      "Please pray for my mother",
		"is_anonymous": true,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var dua DuaRequest
	require.NoError(t, json.Unmarshal(env.Data, &dua))

	rec, env = a.do(t, http.MethodPost, "/dua-requests/"+dua.ID+"/bookmark", a.bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var bookmark map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &bookmark))
	assert.Equal(t, true, bookmark["bookmarked"])
	assert.Equal(t, dua.ID, bookmark["dua_request_id"])

	rec, _ = a.do(t, http.MethodPost, "/dua-requests/"+dua.ID+"/comments", a.bob, map[string]any{
		"content":   "Ameen",
		"is_prayer": true,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env = a.do(t, http.MethodGet, "/dua-requests/"+dua.ID+"/comments", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var comments []Comment
	require.NoError(t, json.Unmarshal(env.Data, &comments))
	require.Len(t, comments, 1)
	assert.True(t, comments[0].IsPrayer)
	require.NotNil(t, comments[0].DuaRequestID)
	assert.Equal(t, dua.ID, *comments[0].DuaRequestID)

	rec, env = a.do(t, http.MethodGet, "/dua-requests", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &listed))
	require.Len(t, listed, 1)
	assert.NotContains(t, listed[0], "user_id")
}

func TestHandler_DeletePost(t *testing.T) {
	a := newAPIFixture(t)
	postID := a.seedPost(t, a.alice, "hello")

	rec, env := a.do(t, http.MethodDelete, "/posts/"+postID, a.bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"deleted":0}`, string(env.Data))
	assert.Empty(t, a.events.Types())

	rec, env = a.do(t, http.MethodDelete, "/posts/"+postID, a.admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"deleted":1}`, string(env.Data))
	assert.Equal(t, []string{activity.PostDeleted}, a.events.Types())
}

func TestHandler_SharePost(t *testing.T) {
	a := newAPIFixture(t)
	postID := a.seedPost(t, a.alice, "hello")

	rec, env := a.do(t, http.MethodPost, "/posts/"+postID+"/share", a.bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"post_id":"`+postID+`","shares_count":1}`, string(env.Data))

	rec, env = a.do(t, http.MethodPost, "/posts/"+uuid.NewString()+"/share", a.bob, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestHandler_InvalidPathID(t *testing.T) {
	a := newAPIFixture(t)

	rec, env := a.do(t, http.MethodPost, "/posts/not-a-uuid/like", a.bob, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Contains(t, env.Error.Message, "postID")
	assert.Zero(t, a.fake.Calls())
}

func TestHandler_UserProfile(t *testing.T) {
	a := newAPIFixture(t)

	rec, _ := a.do(t, http.MethodPatch, "/users/me", a.alice, map[string]any{
		"location": "Cairo",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env := a.do(t, http.MethodGet, "/users/"+a.alice, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var user User
	require.NoError(t, json.Unmarshal(env.Data, &user))
	require.NotNil(t, user.Location)
	assert.Equal(t, "Cairo", *user.Location)

	rec, env = a.do(t, http.MethodPatch, "/users/me", a.alice, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)

	rec, env = a.do(t, http.MethodGet, "/users/"+uuid.NewString(), "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, remote.CodeSingleRow, env.Error.Code)
}

func TestHandler_Community(t *testing.T) {
	a := newAPIFixture(t)
	communityID := uuid.NewString()
	eventID := uuid.NewString()

	rec, env := a.do(t, http.MethodPost, "/communities/"+communityID+"/membership", a.bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var member map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &member))
	assert.Equal(t, true, member["member"])

	rec, env = a.do(t, http.MethodPost, "/events/"+eventID+"/attendance", a.bob, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var attendance map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &attendance))
	assert.Equal(t, true, attendance["attending"])

	assert.Equal(t,
		[]string{activity.MembershipToggled, activity.AttendanceToggled},
		a.events.Types(),
	)
}

func TestHandler_NotConfigured(t *testing.T) {
	fx := newFixture(t)
	a := mountAPI(t, fx, NewStore(fx.fake, false, nil))

	rec, env := a.do(t, http.MethodGet, "/posts", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `[]`, string(env.Data))
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_CONFIGURED", env.Error.Code)
	assert.Equal(t, "Supabase not configured", env.Error.Message)

	rec, env = a.do(t, http.MethodPost, "/posts/"+uuid.NewString()+"/like", a.bob, nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_CONFIGURED", env.Error.Code)
	assert.Zero(t, a.fake.Calls())
}

func TestHandler_RemoteErrorStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{
			name:   "unique violation",
			err:    &remote.RemoteError{Code: "23505", Message: "duplicate key"},
			status: http.StatusConflict,
			code:   "23505",
		},
		{
			name:   "rls denied",
			err:    &remote.RemoteError{Code: "42501", Message: "permission denied"},
			status: http.StatusForbidden,
			code:   "42501",
		},
		{
			name:   "transport failure",
			err:    &remote.RemoteError{Message: "connection refused"},
			status: http.StatusBadGateway,
			code:   "UPSTREAM_ERROR",
		},
		{
			name:   "unknown sqlstate",
			err:    &remote.RemoteError{Code: "XX000", Message: "internal"},
			status: http.StatusInternalServerError,
			code:   "XX000",
		},
		{
			name:   "unexpected",
			err:    errors.New("boom"),
			status: http.StatusInternalServerError,
			code:   "INTERNAL_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newAPIFixture(t)
			a.fake.FailNext(tt.err)

			rec, env := a.do(t, http.MethodGet, "/posts", "", nil)
			assert.Equal(t, tt.status, rec.Code)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.code, env.Error.Code)
			assert.JSONEq(t, `[]`, string(env.Data))
		})
	}
}

func TestHandler_PublishFailureDoesNotFailRequest(t *testing.T) {
	fx := newFixture(t)
	logs := &bytes.Buffer{}
	h := NewHandler(fx.store, failingPublisher{}, slog.New(slog.NewJSONHandler(logs, nil)))

	r := chi.NewRouter()
	h.RegisterRoutes(r, injectUser(fx.bob), injectUser(""))

	postID := fx.seedPost(t, fx.alice, "hello")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/posts/"+postID+"/bookmark", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, logs.String(), "publish activity failed")
	assert.Len(t, fx.fake.Rows("bookmarks"), 1)
}

type failingPublisher struct{}

func (failingPublisher) Publish(context.Context, activity.Event) error {
	return errors.New("broker down")
}

func (failingPublisher) Close() error { return nil }

func injectUser(userID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if userID != "" {
				r = r.WithContext(middleware.WithUserID(r.Context(), userID))
			}
			next.ServeHTTP(w, r)
		})
	}
}
