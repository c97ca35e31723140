package mailbox

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xmail/models"
)

func TestSavedSearchesAppendOnly(t *testing.T) {
	r := NewSavedSearches()
	fixed := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return fixed }

	first := r.Save("urgent", "priority:high", models.FilterSet{})
	second := r.Save("urgent", "", models.FilterSet{IsUnread: true})

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, fixed, first.CreatedAt)

	list := r.List()
	require.Len(t, list, 2)
	assert.Equal(t, first, list[0])
	assert.Equal(t, second, list[1])

	// the returned slice is a copy
	list[0].Name = "renamed"
	got, err := r.Get(first.ID)
	require.NoError(t, err)
	assert.Equal(t, "urgent", got.Name)
}

func TestSavedSearchesGetMissing(t *testing.T) {
	_, err := NewSavedSearches().Get("nope")
	assert.ErrorIs(t, err, ErrSearchNotFound)
}
