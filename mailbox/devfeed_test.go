package mailbox

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDevFeedList(t *testing.T) {
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	feed := NewDevFeed(now)

	all := feed.List("")
	assert.Len(t, all, 8)
	assert.Equal(t, now.Add(-5*time.Minute), all[0].Timestamp)

	ci := feed.List("ci-cd")
	assert.Len(t, ci, 3)
	for _, n := range ci {
		assert.Equal(t, "ci-cd", n.Type)
	}

	assert.Len(t, feed.List("sentry"), 2)
	assert.Len(t, feed.List("security"), 1)
	assert.Empty(t, feed.List("slack"))
}
