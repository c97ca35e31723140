package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"xmail/storage"
	"xmail/themes"
	"xmail/utils"
)

const themeSessionKey = "theme"

// ThemeHandler reads and stores the active theme in the browser session.
// Requests with a bearer token also read and write the user's saved theme.
type ThemeHandler struct {
	sessions *session.Store
	themes   *themes.Registry
	users    *storage.UserStorage
	tokens   *TokenIssuer
}

// NewThemeHandler creates a new theme handler. users and tokens may be nil,
// in which case themes live in the session only.
func NewThemeHandler(sessions *session.Store, registry *themes.Registry, users *storage.UserStorage, tokens *TokenIssuer) *ThemeHandler {
	return &ThemeHandler{sessions: sessions, themes: registry, users: users, tokens: tokens}
}

// Current returns the session theme, or the default when none is stored
func (h *ThemeHandler) Current(c *fiber.Ctx) themes.Theme {
	sess, err := h.sessions.Get(c)
	if err != nil {
		utils.Log.Warn("Failed to read session: %v", err)
		return h.themes.Default()
	}
	name, _ := sess.Get(themeSessionKey).(string)
	return h.themes.Resolve(name)
}

// Store resolves name and saves it in the session. Unknown names store the
// default theme.
func (h *ThemeHandler) Store(c *fiber.Ctx, name string) (themes.Theme, error) {
	theme := h.themes.Resolve(name)

	sess, err := h.sessions.Get(c)
	if err != nil {
		return theme, err
	}
	sess.Set(themeSessionKey, theme.Name)
	return theme, sess.Save()
}

// Registry returns the themes served by this handler
func (h *ThemeHandler) Registry() *themes.Registry {
	return h.themes
}

// ListThemes returns every available theme
func (h *ThemeHandler) ListThemes(c *fiber.Ctx) error {
	return c.JSON(h.themes.List())
}

// GetTheme returns the active theme. A signed-in user's saved theme wins
// over the session.
func (h *ThemeHandler) GetTheme(c *fiber.Ctx) error {
	userID, err := h.tokenUser(c)
	if err != nil {
		return err
	}
	if userID != "" {
		user, err := h.users.GetUser(userID)
		if err != nil {
			return h.userError(c, err)
		}
		if user.Theme != "" {
			return c.JSON(h.themes.Resolve(user.Theme))
		}
	}
	return c.JSON(h.Current(c))
}

// SetTheme stores the theme named in {"name": ...}
func (h *ThemeHandler) SetTheme(c *fiber.Ctx) error {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return utils.BadRequestError(utils.T(localizer(c), "error_400"), err)
	}

	userID, err := h.tokenUser(c)
	if err != nil {
		return err
	}

	theme, err := h.Store(c, req.Name)
	if err != nil {
		return utils.InternalServerError(utils.T(localizer(c), "error_500"), err)
	}
	if userID != "" {
		if err := h.users.UpdateTheme(userID, theme.Name); err != nil {
			return h.userError(c, err)
		}
	}
	return c.JSON(theme)
}

// tokenUser returns the user id of a valid bearer token, or "" when the
// request has none. An invalid token is an error.
func (h *ThemeHandler) tokenUser(c *fiber.Ctx) (string, error) {
	if h.users == nil || h.tokens == nil {
		return "", nil
	}
	claims, err := h.tokens.FromRequest(c)
	if errors.Is(err, ErrNoToken) {
		return "", nil
	}
	if err != nil {
		return "", utils.UnauthorizedError(utils.T(localizer(c), "auth_token_required"), err)
	}
	return claims.Subject, nil
}

func (h *ThemeHandler) userError(c *fiber.Ctx, err error) error {
	if errors.Is(err, storage.ErrUserNotFound) {
		return utils.UnauthorizedError(utils.T(localizer(c), "auth_token_required"), err)
	}
	return utils.InternalServerError(utils.T(localizer(c), "error_500"), err)
}
