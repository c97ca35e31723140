package mailbox

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xmail/models"
)

func newTestWorkspace(t *testing.T, tr Transport) *Workspace {
	t.Helper()
	return NewWorkspace(Options{Seed: SeedMessages(), Transport: tr})
}

func TestWorkspaceInitialState(t *testing.T) {
	w := newTestWorkspace(t, nil)
	st := w.State()

	assert.Equal(t, FolderInbox, st.Folder)
	assert.Equal(t, []string{"4", "2", "1", "3", "5"}, ids(st.View))
	assert.Empty(t, st.Selected)
	assert.Nil(t, st.Current)
	assert.Equal(t, 3, st.UnreadCount)
	assert.Equal(t, 5, st.Total)
}

func TestWorkspaceKeyboardFlow(t *testing.T) {
	w := newTestWorkspace(t, nil)

	st, err := w.HandleKey("j")
	require.NoError(t, err)
	assert.Equal(t, "4", st.Selected)

	st, err = w.HandleKey("j")
	require.NoError(t, err)
	assert.Equal(t, "2", st.Selected)

	st, err = w.HandleKey("s")
	require.NoError(t, err)
	assert.True(t, st.Current.IsStarred)

	st, err = w.HandleKey("Enter")
	require.NoError(t, err)
	assert.True(t, st.Current.IsRead)
	assert.True(t, st.Panels.AIVisible)
	assert.Equal(t, 2, st.UnreadCount)

	st, err = w.HandleKey("Escape")
	require.NoError(t, err)
	assert.Empty(t, st.Selected)

	_, err = w.HandleKey("x")
	assert.ErrorIs(t, err, ErrUnknownKey)
}

func TestWorkspacePanels(t *testing.T) {
	w := newTestWorkspace(t, nil)

	st, err := w.Dispatch(ActionCompose)
	require.NoError(t, err)
	assert.True(t, st.Panels.ComposeOpen)

	st, _ = w.Dispatch(ActionSearchFocus)
	assert.True(t, st.Panels.SearchFocused)

	st, _ = w.Dispatch(ActionShowShortcuts)
	assert.True(t, st.Panels.ShortcutsVisible)

	st, _ = w.Dispatch(ActionToggleDevTools)
	assert.True(t, st.Panels.DevToolsVisible)
	st, _ = w.Dispatch(ActionToggleDevTools)
	assert.False(t, st.Panels.DevToolsVisible)

	st, _ = w.Dispatch(ActionToggleAI)
	assert.True(t, st.Panels.AIVisible)

	_, err = w.Dispatch(ActionRefresh)
	assert.NoError(t, err)

	st = w.ClosePanels()
	assert.False(t, st.Panels.ComposeOpen)
	assert.False(t, st.Panels.SearchFocused)
	assert.False(t, st.Panels.ShortcutsVisible)

	_, err = w.Dispatch(Action("explode"))
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestWorkspaceBackClosesOverlaysFirst(t *testing.T) {
	w := newTestWorkspace(t, nil)

	_, err := w.Dispatch(ActionNext)
	require.NoError(t, err)
	_, err = w.Dispatch(ActionShowShortcuts)
	require.NoError(t, err)
	st, err := w.Dispatch(ActionCompose)
	require.NoError(t, err)
	require.True(t, st.Panels.ComposeOpen)
	require.True(t, st.Panels.ShortcutsVisible)

	st, err = w.HandleKey("Escape")
	require.NoError(t, err)
	assert.False(t, st.Panels.ComposeOpen)
	assert.False(t, st.Panels.ShortcutsVisible)
	assert.Equal(t, "4", st.Selected)

	st, err = w.HandleKey("Escape")
	require.NoError(t, err)
	assert.Empty(t, st.Selected)
}

func TestWorkspaceOpenOnEmptyView(t *testing.T) {
	w := NewWorkspace(Options{})

	st, err := w.Dispatch(ActionOpen)
	require.NoError(t, err)
	assert.Empty(t, st.Selected)
	assert.False(t, st.Panels.AIVisible)
}

func TestWorkspaceStarMovesOutOfStarredView(t *testing.T) {
	w := newTestWorkspace(t, nil)
	w.SetQuery(Query{Folder: FolderStarred})

	st, err := w.Dispatch(ActionNext)
	require.NoError(t, err)
	require.Equal(t, "1", st.Selected)

	st, err = w.Dispatch(ActionStar)
	require.NoError(t, err)
	assert.Equal(t, []string{"3"}, ids(st.View))
	assert.False(t, st.Current.IsStarred)
}

func TestWorkspaceSearchAndSavedSearches(t *testing.T) {
	w := newTestWorkspace(t, nil)

	st := w.Search("has:code", models.FilterSet{IsUnread: true})
	assert.Equal(t, []string{"4", "2", "1"}, ids(st.View))

	saved := w.SaveSearch("unread code", st.Query, st.Filters)
	w.Search("", models.FilterSet{})

	st, err := w.LoadSearch(saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "has:code", st.Query)
	assert.Equal(t, []string{"4", "2", "1"}, ids(st.View))
	assert.Len(t, w.SavedSearches(), 1)

	_, err = w.LoadSearch("missing")
	assert.ErrorIs(t, err, ErrSearchNotFound)
}

func TestWorkspaceSetQueryKeepsFolder(t *testing.T) {
	w := newTestWorkspace(t, nil)
	w.SetQuery(Query{Folder: FolderCICD})

	st := w.SetQuery(Query{Text: "vercel"})
	assert.Equal(t, FolderCICD, st.Folder)
	assert.Equal(t, []string{"5"}, ids(st.View))
}

func TestWorkspaceSelectAndToggleStar(t *testing.T) {
	w := newTestWorkspace(t, nil)

	st, err := w.Select("4")
	require.NoError(t, err)
	assert.Equal(t, "4", st.Selected)
	assert.True(t, st.Current.IsRead)
	assert.Equal(t, models.CategoryAlerts, st.Current.Category)

	_, err = w.ToggleStar("5")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "3", "5"}, ids(w.View(Query{Folder: FolderStarred})))

	_, err = w.Select("missing")
	assert.ErrorIs(t, err, ErrMessageNotFound)
	_, err = w.ToggleStar("missing")
	assert.ErrorIs(t, err, ErrMessageNotFound)
}

func TestWorkspaceComposeSuccess(t *testing.T) {
	w := newTestWorkspace(t, NewMockTransport(0, 0))
	w.Dispatch(ActionCompose)

	sent, err := w.Compose(context.Background(), Draft{To: "bob@corp.com", Subject: "Re: hello", Body: "hi"})
	require.NoError(t, err)

	assert.Equal(t, "You", sent.From.Name)
	assert.Equal(t, "you@email.com", sent.From.Email)
	assert.True(t, sent.IsRead)
	assert.False(t, sent.IsStarred)
	assert.Equal(t, models.PriorityNormal, sent.Priority)
	assert.Equal(t, models.CategoryPrimary, sent.Category)
	assert.NotEmpty(t, sent.ID)
	assert.NotEmpty(t, sent.ThreadID)

	st := w.State()
	assert.Equal(t, 6, st.Total)
	assert.False(t, st.Panels.ComposeOpen)
	assert.True(t, w.Store().Has(sent.ID))
}

func TestWorkspaceComposeFailureLeavesStore(t *testing.T) {
	w := newTestWorkspace(t, NewMockTransport(0, 1))

	_, err := w.Compose(context.Background(), Draft{To: "bob@corp.com", Subject: "hello", Body: "hi"})
	assert.ErrorIs(t, err, ErrSendFailed)
	assert.Equal(t, 5, w.State().Total)
}

func TestWorkspaceComposeRejectsInvalidDraft(t *testing.T) {
	w := newTestWorkspace(t, nil)

	tests := []struct {
		name  string
		draft Draft
	}{
		{"no recipient", Draft{Subject: "hello", Body: "hi"}},
		{"blank recipient", Draft{To: "   ", Subject: "hello", Body: "hi"}},
		{"bad recipient", Draft{To: "not an address", Subject: "hello", Body: "hi"}},
		{"no subject", Draft{To: "bob@corp.com", Subject: " ", Body: "hi"}},
		{"no body", Draft{To: "bob@corp.com", Subject: "hello"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := w.Compose(context.Background(), tt.draft)
			assert.ErrorIs(t, err, ErrInvalidDraft)
		})
	}
	assert.Equal(t, 5, w.State().Total)
}

func TestWorkspaceComposeRecipientList(t *testing.T) {
	w := newTestWorkspace(t, NewMockTransport(0, 0))

	sent, err := w.Compose(context.Background(), Draft{To: "a@x.com, Bob <b@y.com>", Subject: "hello", Body: "hi"})
	require.NoError(t, err)
	assert.Equal(t, []models.Contact{
		{Email: "a@x.com"},
		{Name: "Bob", Email: "b@y.com"},
	}, sent.To)
}

func TestWorkspaceComposeHTML(t *testing.T) {
	w := newTestWorkspace(t, nil)

	m := w.NewMessage(Draft{
		To:      "bob@corp.com",
		Subject: "snippet",
		Body:    `<p>Try this</p><pre><code class="language-go">x := 1</code></pre><script>alert(1)</script>`,
		IsHTML:  true,
	})

	assert.NotContains(t, m.HTMLBody, "<script>")
	assert.Contains(t, m.HTMLBody, `class="language-go"`)
	assert.Contains(t, m.Body, "Try this")
	assert.True(t, HasCode(m.Body))
}

func TestWorkspaceConcurrentDispatch(t *testing.T) {
	w := newTestWorkspace(t, nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = w.Dispatch(ActionNext)
			_ = w.State()
		}()
	}
	wg.Wait()

	st := w.State()
	assert.Equal(t, "5", st.Selected)
}
