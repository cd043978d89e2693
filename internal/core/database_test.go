// AngelaMos | 2026
// database_test.go

package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestJitteredDuration(t *testing.T) {
	t.Run("zero lifetime stays unlimited", func(t *testing.T) {
		assert.NotPanics(t, func() {
			assert.Equal(t, time.Duration(0), jitteredDuration(0))
		})
	})

	t.Run("values too small to spread are unchanged", func(t *testing.T) {
		for _, base := range []time.Duration{1, 3, 6} {
			assert.NotPanics(t, func() {
				assert.Equal(t, base, jitteredDuration(base))
			})
		}
	})

	t.Run("negative lifetime is unchanged", func(t *testing.T) {
		assert.Equal(t, -time.Second, jitteredDuration(-time.Second))
	})

	t.Run("jitter stays within a seventh", func(t *testing.T) {
		base := time.Hour
		for range 100 {
			got := jitteredDuration(base)
			assert.GreaterOrEqual(t, got, base)
			assert.Less(t, got, base+base/7)
		}
	})
}
