// AngelaMos | 2026
// schema_test.go

package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTables(t *testing.T) {
	assert.Equal(t, []string{
		"users",
		"posts",
		"dua_requests",
		"likes",
		"bookmarks",
		"comments",
		"communities",
		"community_members",
		"events",
		"event_attendees",
	}, Tables())
}

func TestSQL_DeclaresShareFunction(t *testing.T) {
	assert.Contains(t, SQL, "FUNCTION increment_post_shares(post_id uuid) RETURNS integer")
}

func TestSQL_EngagementTargetsAreExclusive(t *testing.T) {
	assert.Equal(t, 3, strings.Count(SQL, "CHECK (num_nonnulls(post_id, dua_request_id) = 1)"))
}

