package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBroadcastSkipsFullSubscribers(t *testing.T) {
	hub := NewNotificationHandler()
	id, ch := hub.Subscribe()
	assert.Equal(t, 1, hub.SubscriberCount())

	for i := 0; i < 15; i++ {
		hub.NotifyFlagChanged(NotifyMessageRead, "1", true)
	}
	assert.Len(t, ch, 10)

	first := <-ch
	assert.NotEmpty(t, first.ID)
	assert.False(t, first.Time.IsZero())

	hub.Unsubscribe(id)
	hub.Unsubscribe(id)
	assert.Equal(t, 0, hub.SubscriberCount())

	for range ch {
	}
	_, open := <-ch
	assert.False(t, open)
}
