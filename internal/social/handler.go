// AngelaMos | 2026
// handler.go

package social

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/carterperez-dev/ummah-social/internal/activity"
	"github.com/carterperez-dev/ummah-social/internal/core"
	"github.com/carterperez-dev/ummah-social/internal/middleware"
)

type Handler struct {
	store     *Store
	publisher activity.Publisher
	logger    *slog.Logger
	validator *validator.Validate
}

func NewHandler(store *Store, publisher activity.Publisher, logger *slog.Logger) *Handler {
	if publisher == nil {
		publisher = activity.Noop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		store:     store,
		publisher: publisher,
		logger:    logger,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// RegisterRoutes mounts reads behind optional authentication and writes
// behind mandatory authentication.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, optionalAuth func(http.Handler) http.Handler,
) {
	r.Group(func(r chi.Router) {
		r.Use(optionalAuth)

		r.Get("/users/{userID}", h.GetUser)
		r.Get("/posts", h.ListPosts)
		r.Get("/posts/{postID}/comments", h.ListComments)
		r.Get("/dua-requests", h.ListDuaRequests)
		r.Get("/dua-requests/{duaID}/comments", h.ListComments)
	})

	r.Group(func(r chi.Router) {
		r.Use(authenticator)

		r.Patch("/users/me", h.UpdateMe)

		r.Post("/posts", h.CreatePost)
		r.Delete("/posts/{postID}", h.DeletePost)
		r.Post("/posts/{postID}/like", h.ToggleLike)
		r.Post("/posts/{postID}/bookmark", h.ToggleBookmark)
		r.Post("/posts/{postID}/share", h.SharePost)
		r.Post("/posts/{postID}/comments", h.CreateComment)

		r.Post("/dua-requests", h.CreateDuaRequest)
		r.Post("/dua-requests/{duaID}/like", h.ToggleLike)
		r.Post("/dua-requests/{duaID}/bookmark", h.ToggleBookmark)
		r.Post("/dua-requests/{duaID}/comments", h.CreateComment)

		r.Post("/communities/{communityID}/membership", h.ToggleMembership)
		r.Post("/events/{eventID}/attendance", h.ToggleAttendance)
	})
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "userID")
	if !ok {
		return
	}

	user, err := h.store.GetUser(r.Context(), userID)
	if err != nil {
		writeError(w, err, nil)
		return
	}

	core.OK(w, user)
}

func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req UpdateProfileRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, err := h.store.UpdateUser(r.Context(), userID, req.toUpdate())
	if err != nil {
		writeError(w, err, nil)
		return
	}

	core.OK(w, user)
}

func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.store.GetPosts(r.Context(), PostFilter{
		Limit:  parseIntQuery(r, "limit", DefaultPageSize),
		Offset: parseIntQuery(r, "offset", 0),
		Tag:    r.URL.Query().Get("tag"),
	})
	if err != nil {
		writeError(w, err, posts)
		return
	}

	core.OK(w, posts)
}

func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req CreatePostRequest
	if !h.decode(w, r, &req) {
		return
	}

	post, err := h.store.CreatePost(r.Context(), req.toPost(userID))
	if err != nil {
		writeError(w, err, nil)
		return
	}

	h.publish(r.Context(), activity.NewEvent(activity.PostCreated, userID, post.ID, post))
	core.Created(w, post)
}

func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	postID, ok := pathID(w, r, "postID")
	if !ok {
		return
	}

	result, err := h.store.DeletePost(r.Context(), postID, userID)
	if err != nil {
		writeError(w, err, nil)
		return
	}

	if result.Deleted > 0 {
		h.publish(r.Context(), activity.NewEvent(activity.PostDeleted, userID, postID, nil))
	}
	core.OK(w, result)
}

func (h *Handler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	target, ok := pathTarget(w, r)
	if !ok {
		return
	}

	result, err := h.store.ToggleLike(r.Context(), userID, target)
	if err != nil {
		writeError(w, err, nil)
		return
	}

	h.publish(r.Context(), activity.NewEvent(
		activity.LikeToggled, userID, target.id(), map[string]any{"liked": result.Liked},
	))
	core.OK(w, result)
}

func (h *Handler) ToggleBookmark(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	target, ok := pathTarget(w, r)
	if !ok {
		return
	}

	result, err := h.store.ToggleBookmark(r.Context(), userID, target)
	if err != nil {
		writeError(w, err, nil)
		return
	}

	h.publish(r.Context(), activity.NewEvent(
		activity.BookmarkToggled, userID, target.id(), map[string]any{"bookmarked": result.Bookmarked},
	))
	core.OK(w, result)
}

func (h *Handler) SharePost(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	postID, ok := pathID(w, r, "postID")
	if !ok {
		return
	}

	count, err := h.store.IncrementShareCount(r.Context(), postID)
	if err != nil {
		writeError(w, err, nil)
		return
	}
	if count == nil {
		core.NotFound(w, "post")
		return
	}

	resp := ShareResponse{PostID: postID, SharesCount: *count}
	h.publish(r.Context(), activity.NewEvent(activity.PostShared, userID, postID, resp))
	core.OK(w, resp)
}

func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	target, ok := pathTarget(w, r)
	if !ok {
		return
	}

	comments, err := h.store.GetComments(r.Context(), target)
	if err != nil {
		writeError(w, err, comments)
		return
	}

	core.OK(w, comments)
}

func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	target, ok := pathTarget(w, r)
	if !ok {
		return
	}

	var req CreateCommentRequest
	if !h.decode(w, r, &req) {
		return
	}

	comment := NewComment{
		UserID:   userID,
		Content:  req.Content,
		IsPrayer: req.IsPrayer,
	}
	if target.PostID != "" {
		comment.PostID = &target.PostID
	} else {
		comment.DuaRequestID = &target.DuaRequestID
	}

	created, err := h.store.CreateComment(r.Context(), comment)
	if err != nil {
		writeError(w, err, nil)
		return
	}

	h.publish(r.Context(), activity.NewEvent(activity.CommentCreated, userID, target.id(), created))
	core.Created(w, created)
}

func (h *Handler) ListDuaRequests(w http.ResponseWriter, r *http.Request) {
	urgent, _ := strconv.ParseBool(r.URL.Query().Get("urgent"))

	requests, err := h.store.GetDuaRequests(r.Context(), DuaFilter{
		Limit:      parseIntQuery(r, "limit", DefaultPageSize),
		Offset:     parseIntQuery(r, "offset", 0),
		Tag:        r.URL.Query().Get("tag"),
		UrgentOnly: urgent,
	})
	if err != nil {
		writeError(w, err, requests)
		return
	}

	core.OK(w, requests)
}

func (h *Handler) CreateDuaRequest(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req CreateDuaRequestRequest
	if !h.decode(w, r, &req) {
		return
	}

	created, err := h.store.CreateDuaRequest(r.Context(), req.toDuaRequest(userID))
	if err != nil {
		writeError(w, err, nil)
		return
	}

	h.publish(r.Context(), activity.NewEvent(activity.DuaCreated, userID, created.ID, nil))
	core.Created(w, created)
}

func (h *Handler) ToggleMembership(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	communityID, ok := pathID(w, r, "communityID")
	if !ok {
		return
	}

	result, err := h.store.ToggleCommunityMembership(r.Context(), userID, communityID)
	if err != nil {
		writeError(w, err, nil)
		return
	}

	h.publish(r.Context(), activity.NewEvent(
		activity.MembershipToggled, userID, communityID, map[string]any{"member": result.Member},
	))
	core.OK(w, result)
}

func (h *Handler) ToggleAttendance(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	eventID, ok := pathID(w, r, "eventID")
	if !ok {
		return
	}

	result, err := h.store.ToggleEventAttendance(r.Context(), userID, eventID)
	if err != nil {
		writeError(w, err, nil)
		return
	}

	h.publish(r.Context(), activity.NewEvent(
		activity.AttendanceToggled, userID, eventID, map[string]any{"attending": result.Attending},
	))
	core.OK(w, result)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		core.BadRequest(w, "invalid request body")
		return false
	}

	if err := h.validator.Struct(dst); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return false
	}
	return true
}

// publish reports a completed write. Failures are logged and never reach
// the client since the write itself already succeeded.
func (h *Handler) publish(ctx context.Context, e activity.Event) {
	if err := h.publisher.Publish(ctx, e); err != nil {
		h.logger.Warn("publish activity failed",
			"type", e.Type,
			"subject_id", e.SubjectID,
			"error", err,
		)
	}
}

func (t Target) id() string {
	if t.PostID != "" {
		return t.PostID
	}
	return t.DuaRequestID
}

func pathID(w http.ResponseWriter, r *http.Request, param string) (string, bool) {
	id := chi.URLParam(r, param)
	if err := uuid.Validate(id); err != nil {
		core.BadRequest(w, "invalid "+param)
		return "", false
	}
	return id, true
}

// pathTarget reads whichever of postID or duaID the route carries.
func pathTarget(w http.ResponseWriter, r *http.Request) (Target, bool) {
	if chi.URLParam(r, "postID") != "" {
		id, ok := pathID(w, r, "postID")
		return ForPost(id), ok
	}

	id, ok := pathID(w, r, "duaID")
	return ForDuaRequest(id), ok
}

func parseIntQuery(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}

	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return parsed
}

// writeError renders a store error with the operation's safe default data.
func writeError(w http.ResponseWriter, err error, data any) {
	core.JSONErrorWithData(w, toAppError(err), data)
}

func toAppError(err error) error {
	switch {
	case errors.Is(err, ErrNotConfigured):
		return core.NewAppError("NOT_CONFIGURED", err.Error(), http.StatusServiceUnavailable, err)
	case errors.Is(err, core.ErrInvalidInput):
		return core.NewAppError("BAD_REQUEST", err.Error(), http.StatusBadRequest, err)
	}

	if re, ok := remoteError(err); ok {
		return re
	}

	var unexpected *UnexpectedError
	if errors.As(err, &unexpected) {
		return core.InternalError(err)
	}
	return err
}
