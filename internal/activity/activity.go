// AngelaMos | 2026
// activity.go

package activity

import (
	"context"
	"sync"
	"time"
)

const (
	PostCreated       = "post.created"
	PostDeleted       = "post.deleted"
	PostShared        = "post.shared"
	LikeToggled       = "like.toggled"
	BookmarkToggled   = "bookmark.toggled"
	CommentCreated    = "comment.created"
	DuaCreated        = "dua_request.created"
	MembershipToggled = "membership.toggled"
	AttendanceToggled = "attendance.toggled"
)

// Event describes a write that already succeeded against the backend.
type Event struct {
	Type       string    `json:"type"`
	ActorID    string    `json:"actor_id"`
	SubjectID  string    `json:"subject_id"`
	Payload    any       `json:"payload,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewEvent(eventType, actorID, subjectID string, payload any) Event {
	return Event{
		Type:       eventType,
		ActorID:    actorID,
		SubjectID:  subjectID,
		Payload:    payload,
		OccurredAt: time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }

func (Noop) Close() error { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *Recorder) Close() error { return nil }

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func (r *Recorder) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	types := make([]string, 0, len(r.events))
	for _, e := range r.events {
		types = append(types, e.Type)
	}
	return types
}
