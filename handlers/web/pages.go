package web

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/nicksnyder/go-i18n/v2/i18n"

	"xmail/handlers/api"
	"xmail/mailbox"
	"xmail/middleware"
	"xmail/utils"
)

// folderLink is one entry of the sidebar
type folderLink struct {
	Name  string
	Label string
}

var folders = []folderLink{
	{mailbox.FolderInbox, "nav_inbox"},
	{mailbox.FolderStarred, "nav_starred"},
	{mailbox.FolderGitHub, "nav_github"},
	{mailbox.FolderCICD, "nav_cicd"},
	{mailbox.FolderAlerts, "nav_alerts"},
	{mailbox.FolderCodeReviews, "nav_code_reviews"},
	{mailbox.FolderSent, "nav_sent"},
	{mailbox.FolderDrafts, "nav_drafts"},
	{mailbox.FolderArchive, "nav_archive"},
	{mailbox.FolderTrash, "nav_trash"},
}

// PageHandler renders the HTML pages
type PageHandler struct {
	ws     *mailbox.Workspace
	themes *api.ThemeHandler
	csrf   middleware.CSRFConfig
}

// NewPageHandler creates a page handler. csrf must match the config given
// to middleware.CSRFProtection.
func NewPageHandler(ws *mailbox.Workspace, themes *api.ThemeHandler, csrf middleware.CSRFConfig) *PageHandler {
	return &PageHandler{ws: ws, themes: themes, csrf: csrf}
}

// pageData holds the values every page and the layout need
func (h *PageHandler) pageData(c *fiber.Ctx, title string) fiber.Map {
	theme := h.themes.Current(c)
	lang, _ := c.Locals("lang").(string)
	if lang == "" {
		lang = "en"
	}

	return fiber.Map{
		"Title":     title,
		"Lang":      lang,
		"Localizer": localizer(c),
		"Theme":     theme.Name,
		"ThemeCSS":  theme.CSS(),
		"Themes":    h.themes.Registry().List(),
		"CSRFToken": middleware.GenerateCSRFToken(c, h.csrf),
		"Path":      c.OriginalURL(),
	}
}

// Landing renders the landing page
func (h *PageHandler) Landing(c *fiber.Ctx) error {
	rememberLang(c)
	return c.Render("landing", h.pageData(c, ""))
}

// Inbox renders the mail view. ?folder= and ?q= replace the active query;
// the structured filters of the workspace are kept.
func (h *PageHandler) Inbox(c *fiber.Ctx) error {
	rememberLang(c)

	state := h.ws.State()
	folder := c.Query("folder")
	_, hasQuery := c.Queries()["q"]
	if folder != "" || hasQuery {
		q := mailbox.Query{Folder: folder, Text: state.Query, Filters: state.Filters}
		if hasQuery {
			q.Text = strings.TrimSpace(c.Query("q"))
		}
		state = h.ws.SetQuery(q)
	}

	data := h.pageData(c, utils.T(localizer(c), folderLabel(state.Folder)))
	data["State"] = state
	data["Folders"] = folders
	data["Searches"] = h.ws.SavedSearches()
	data["Shortcuts"] = h.ws.Keymap().Shortcuts()
	return c.Render("inbox", data)
}

// SetTheme stores the submitted theme and redirects back. An empty theme
// field cycles to the next theme.
func (h *PageHandler) SetTheme(c *fiber.Ctx) error {
	name := c.FormValue("theme")
	if name == "" {
		name = h.themes.Registry().Next(h.themes.Current(c).Name).Name
	}

	if _, err := h.themes.Store(c, name); err != nil {
		return utils.InternalServerError(utils.T(localizer(c), "error_500"), err)
	}
	return c.Redirect(safeRedirect(c.FormValue("redirect")), fiber.StatusSeeOther)
}

// ErrorPage renders the error template with the given status
func (h *PageHandler) ErrorPage(c *fiber.Ctx, code int, message string) error {
	data := h.pageData(c, message)
	data["Code"] = code
	data["Error"] = message
	return c.Status(code).Render("error", data)
}

// HandleError is the fiber error handler for page requests
func (h *PageHandler) HandleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := utils.T(localizer(c), "error_500")

	var appErr *utils.AppError
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &appErr):
		code = appErr.Code
		message = appErr.Message
		if code >= fiber.StatusInternalServerError {
			utils.Log.WithFields(appErr.Context).Error("Page error on %s: %v", c.Path(), appErr)
		}
	case errors.As(err, &fiberErr):
		code = fiberErr.Code
		if code == fiber.StatusNotFound {
			message = utils.T(localizer(c), "error_404")
		} else {
			message = fiberErr.Message
		}
	default:
		utils.Log.Error("Unhandled page error on %s: %v", c.Path(), err)
	}

	if renderErr := h.ErrorPage(c, code, message); renderErr != nil {
		utils.Log.Error("Failed to render error page: %v", renderErr)
		return c.Status(code).SendString(message)
	}
	return nil
}

func folderLabel(folder string) string {
	for _, f := range folders {
		if f.Name == folder {
			return f.Label
		}
	}
	return "nav_inbox"
}

// safeRedirect only allows local paths
func safeRedirect(target string) string {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return "/app"
	}
	return target
}

// rememberLang persists an explicit ?lang= choice in the lang cookie
func rememberLang(c *fiber.Ctx) {
	lang := c.Query("lang")
	if lang == "" || !utils.IsSupportedLang(lang) {
		return
	}
	c.Cookie(&fiber.Cookie{
		Name:  "lang",
		Value: lang,
		Path:  "/",
	})
}

func localizer(c *fiber.Ctx) *i18n.Localizer {
	if loc, ok := c.Locals("localizer").(*i18n.Localizer); ok {
		return loc
	}
	return utils.Localizer
}
