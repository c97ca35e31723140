package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// Handlers groups every API handler for route registration
type Handlers struct {
	Mail          *MailHandler
	Search        *SearchHandler
	Assistant     *AssistantHandler
	Theme         *ThemeHandler
	Auth          *AuthHandler
	I18n          *I18nHandler
	Notifications *NotificationHandler
}

// Mount registers the JSON API under r, typically the /api group
func (h *Handlers) Mount(r fiber.Router) {
	// Messages and workspace state
	r.Get("/messages", h.Mail.ListMessages)
	r.Get("/messages/:id", h.Mail.GetMessage)
	r.Post("/messages/:id/star", h.Mail.ToggleStar)
	r.Post("/messages/:id/open", h.Mail.OpenMessage)
	r.Put("/view", h.Mail.SetView)
	r.Get("/state", h.Mail.GetState)
	r.Post("/actions/:action", h.Mail.Dispatch)
	r.Post("/panels/close", h.Mail.ClosePanels)
	r.Post("/keys/:key", h.Mail.HandleKey)
	r.Get("/shortcuts", h.Mail.Shortcuts)
	r.Post("/compose", h.Mail.Compose)

	// Saved searches
	r.Get("/searches", h.Search.ListSearches)
	r.Post("/searches", h.Search.SaveSearch)
	r.Post("/searches/:id/load", h.Search.LoadSearch)

	// Assistant and dev tools
	r.Get("/assistant/compose-help", h.Assistant.ComposeHelp)
	r.Get("/assistant/enhance", h.Assistant.EnhanceSearch)
	r.Get("/assistant/:id", h.Assistant.Analyze)
	r.Get("/devtools/notifications", h.Assistant.DevNotifications)

	// Themes and translations
	r.Get("/themes", h.Theme.ListThemes)
	r.Get("/theme", h.Theme.GetTheme)
	r.Put("/theme", h.Theme.SetTheme)
	r.Get("/i18n/:lang", h.I18n.GetTranslations)

	// Real-time notifications
	r.Get("/notifications/sse", h.Notifications.HandleSSE)
	r.Use("/notifications/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	r.Get("/notifications/ws", websocket.New(h.Notifications.HandleWebSocket))

	// Auth backend
	auth := r.Group("/auth")
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)
	auth.Get("/me", h.Auth.RequireToken(), h.Auth.Me)
	r.Get("/users", h.Auth.RequireToken(), h.Auth.ListUsers)
}
