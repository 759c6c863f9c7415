package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterAllowsWithinLimit(t *testing.T) {
	r := NewRateLimiter(3, time.Minute)
	defer r.Stop()

	for i := 0; i < 3; i++ {
		assert.True(t, r.allow("1.2.3.4"))
	}
	assert.False(t, r.allow("1.2.3.4"))
	assert.True(t, r.allow("5.6.7.8"), "limits are per key")
}

func TestRateLimiterWindowSlides(t *testing.T) {
	r := NewRateLimiter(1, 20*time.Millisecond)
	defer r.Stop()

	assert.True(t, r.allow("1.2.3.4"))
	assert.False(t, r.allow("1.2.3.4"))

	time.Sleep(30 * time.Millisecond)
	assert.True(t, r.allow("1.2.3.4"), "old hits fall out of the window")
}
