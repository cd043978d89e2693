// AngelaMos | 2026
// community.go

package social

import (
	"context"

	"github.com/carterperez-dev/ummah-social/internal/query"
)

// ToggleCommunityMembership joins the community, or leaves it when the user
// is already a member.
func (s *Store) ToggleCommunityMembership(
	ctx context.Context,
	userID, communityID string,
) (*MembershipToggle, error) {
	return run(ctx, s, "toggle_community_membership", (*MembershipToggle)(nil), func(ctx context.Context) (*MembershipToggle, error) {
		member, err := toggle[CommunityMember](ctx, s, "community_members",
			[]query.Filter{query.Eq("user_id", userID), query.Eq("community_id", communityID)},
			map[string]any{"user_id": userID, "community_id": communityID},
		)
		if err != nil {
			return nil, err
		}
		return &MembershipToggle{Member: member != nil, CommunityMember: member}, nil
	})
}

// ToggleEventAttendance registers for the event, or cancels an existing
// registration.
func (s *Store) ToggleEventAttendance(
	ctx context.Context,
	userID, eventID string,
) (*AttendanceToggle, error) {
	return run(ctx, s, "toggle_event_attendance", (*AttendanceToggle)(nil), func(ctx context.Context) (*AttendanceToggle, error) {
		attendee, err := toggle[EventAttendee](ctx, s, "event_attendees",
			[]query.Filter{query.Eq("user_id", userID), query.Eq("event_id", eventID)},
			map[string]any{"user_id": userID, "event_id": eventID},
		)
		if err != nil {
			return nil, err
		}
		return &AttendanceToggle{Attending: attendee != nil, EventAttendee: attendee}, nil
	})
}
