package api

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xmail/mailbox"
	"xmail/models"
)

func TestSavedSearches(t *testing.T) {
	env := newTestEnv(t, nil)

	resp := env.do(t, http.MethodPost, "/api/searches", `{"name":"unread code","query":"has:code","filters":{"is_unread":true}}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	saved := decode[models.SavedSearch](t, resp)
	assert.NotEmpty(t, saved.ID)
	assert.True(t, saved.Filters.IsUnread)

	resp = env.do(t, http.MethodPost, "/api/searches", `{"name":"unread code","query":"is:starred"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = env.do(t, http.MethodGet, "/api/searches", "")
	list := decode[[]models.SavedSearch](t, resp)
	require.Len(t, list, 2)
	assert.Equal(t, saved.ID, list[0].ID)

	resp = env.do(t, http.MethodPost, "/api/searches/"+saved.ID+"/load", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	state := decode[mailbox.State](t, resp)
	assert.Equal(t, "has:code", state.Query)
	assert.Equal(t, []string{"4", "2", "1"}, viewIDs(state))

	resp = env.do(t, http.MethodPost, "/api/searches/missing/load", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = env.do(t, http.MethodPost, "/api/searches", `{"name":"  "}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSavedSearchFormSurvivesLaterRequests(t *testing.T) {
	env := newTestEnv(t, nil)

	resp := env.postForm(t, "/api/searches", url.Values{"name": {"errors"}, "query": {"has:code"}})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	for i := 0; i < 5; i++ {
		resp = env.postForm(t, "/api/searches", url.Values{"name": {"XXXXXX"}, "query": {"YYYYYYYY"}})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
		resp = env.do(t, http.MethodGet, "/api/messages?folder=zzzzzz&q=qqqqqqqq", "")
		resp.Body.Close()
	}

	list := env.ws.SavedSearches()
	require.Len(t, list, 6)
	assert.Equal(t, "errors", list[0].Name)
	assert.Equal(t, "has:code", list[0].Query)
}
