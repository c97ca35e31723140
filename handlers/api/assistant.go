package api

import (
	"github.com/gofiber/fiber/v2"

	"xmail/assistant"
	"xmail/mailbox"
)

// AssistantHandler serves the assistant panel and the dev tools feed
type AssistantHandler struct {
	ws   *mailbox.Workspace
	feed *mailbox.DevFeed
}

// NewAssistantHandler creates a new assistant handler
func NewAssistantHandler(ws *mailbox.Workspace, feed *mailbox.DevFeed) *AssistantHandler {
	return &AssistantHandler{ws: ws, feed: feed}
}

// Analyze returns the assistant summary for a message
func (h *AssistantHandler) Analyze(c *fiber.Ctx) error {
	msg, err := h.ws.Message(c.Params("id"))
	if err != nil {
		return mailboxError(c, err)
	}
	return c.JSON(assistant.Summarize(&msg))
}

// ComposeHelp suggests reply openings for ?context=
func (h *AssistantHandler) ComposeHelp(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"suggestions": assistant.ComposeHelp(c.Query("context")),
	})
}

// EnhanceSearch proposes smart tokens for ?q=
func (h *AssistantHandler) EnhanceSearch(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"enhancements": assistant.EnhanceSearch(c.Query("q")),
	})
}

// DevNotifications lists the dev tools feed, optionally filtered by ?type=
func (h *AssistantHandler) DevNotifications(c *fiber.Ctx) error {
	return c.JSON(h.feed.List(c.Query("type")))
}
