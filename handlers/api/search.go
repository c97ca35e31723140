package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"xmail/mailbox"
	"xmail/models"
	"xmail/utils"
)

// SearchHandler manages saved searches
type SearchHandler struct {
	ws *mailbox.Workspace
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(ws *mailbox.Workspace) *SearchHandler {
	return &SearchHandler{ws: ws}
}

// SaveSearchRequest names a query and filter snapshot
type SaveSearchRequest struct {
	Name    string           `json:"name" form:"name"`
	Query   string           `json:"query" form:"query"`
	Filters models.FilterSet `json:"filters" form:"-"`
}

// ListSearches returns saved searches in save order
func (h *SearchHandler) ListSearches(c *fiber.Ctx) error {
	return c.JSON(h.ws.SavedSearches())
}

// SaveSearch records a named search. Duplicate names are allowed.
func (h *SearchHandler) SaveSearch(c *fiber.Ctx) error {
	var req SaveSearchRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequestError(utils.T(localizer(c), "error_400"), err)
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return utils.BadRequestError(utils.T(localizer(c), "error_400"), nil)
	}

	saved := h.ws.SaveSearch(req.Name, req.Query, req.Filters)
	utils.Log.Info("Search saved: name='%s' query='%s'", saved.Name, saved.Query)

	return c.Status(fiber.StatusCreated).JSON(saved)
}

// LoadSearch makes a saved search the active query
func (h *SearchHandler) LoadSearch(c *fiber.Ctx) error {
	state, err := h.ws.LoadSearch(c.Params("id"))
	if err != nil {
		return mailboxError(c, err)
	}
	return c.JSON(state)
}
