package api

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"

	"xmail/mailbox"
	"xmail/models"
	"xmail/utils"
)

// MailHandler exposes the shared workspace over JSON
type MailHandler struct {
	ws          *mailbox.Workspace
	hub         *NotificationHandler
	sendTimeout time.Duration
	sends       sync.WaitGroup
}

// NewMailHandler creates a new mail handler
func NewMailHandler(ws *mailbox.Workspace, hub *NotificationHandler, sendTimeout time.Duration) *MailHandler {
	if sendTimeout <= 0 {
		sendTimeout = 10 * time.Second
	}
	return &MailHandler{ws: ws, hub: hub, sendTimeout: sendTimeout}
}

// viewParams is the query string of GET /api/messages
type viewParams struct {
	Folder     string `query:"folder"`
	Query      string `query:"q"`
	From       string `query:"from"`
	Category   string `query:"category"`
	Priority   string `query:"priority"`
	HasCode    bool   `query:"hasCode"`
	IsStarred  bool   `query:"isStarred"`
	IsUnread   bool   `query:"isUnread"`
	Repository string `query:"repository"`
}

func (p viewParams) toQuery() mailbox.Query {
	folder := p.Folder
	if folder == "" {
		folder = mailbox.FolderInbox
	}
	return mailbox.Query{
		Folder: folder,
		Text:   p.Query,
		Filters: models.FilterSet{
			From:       p.From,
			Category:   models.Category(p.Category),
			Priority:   models.Priority(p.Priority),
			HasCode:    p.HasCode,
			IsStarred:  p.IsStarred,
			IsUnread:   p.IsUnread,
			Repository: p.Repository,
		},
	}
}

// ListMessages runs the pipeline for the query string without changing the
// active view
func (h *MailHandler) ListMessages(c *fiber.Ctx) error {
	var params viewParams
	if err := c.QueryParser(&params); err != nil {
		return utils.BadRequestError(utils.T(localizer(c), "error_400"), err)
	}

	view := h.ws.View(params.toQuery())
	return c.JSON(fiber.Map{
		"messages": view,
		"total":    len(view),
	})
}

// GetMessage returns one classified message
func (h *MailHandler) GetMessage(c *fiber.Ctx) error {
	msg, err := h.ws.Message(c.Params("id"))
	if err != nil {
		return mailboxError(c, err)
	}
	return c.JSON(msg)
}

// ToggleStar flips the starred flag of a message
func (h *MailHandler) ToggleStar(c *fiber.Ctx) error {
	id := c.Params("id")
	state, err := h.ws.ToggleStar(id)
	if err != nil {
		return mailboxError(c, err)
	}

	if msg, err := h.ws.Message(id); err == nil {
		h.hub.NotifyFlagChanged(NotifyMessageStarred, id, msg.IsStarred)
	}
	return c.JSON(state)
}

// OpenMessage selects a message and marks it read
func (h *MailHandler) OpenMessage(c *fiber.Ctx) error {
	id := c.Params("id")
	state, err := h.ws.Select(id)
	if err != nil {
		return mailboxError(c, err)
	}

	h.hub.NotifyFlagChanged(NotifyMessageRead, id, true)
	return c.JSON(state)
}

// SetView replaces the active folder, query and filters
func (h *MailHandler) SetView(c *fiber.Ctx) error {
	var q mailbox.Query
	if err := c.BodyParser(&q); err != nil {
		return utils.BadRequestError(utils.T(localizer(c), "error_400"), err)
	}
	return c.JSON(h.ws.SetQuery(q))
}

// GetState returns the current workspace snapshot
func (h *MailHandler) GetState(c *fiber.Ctx) error {
	return c.JSON(h.ws.State())
}

// Dispatch applies a named action
func (h *MailHandler) Dispatch(c *fiber.Ctx) error {
	state, err := h.ws.Dispatch(mailbox.Action(c.Params("action")))
	if err != nil {
		return mailboxError(c, err)
	}
	return c.JSON(state)
}

// HandleKey resolves a key press through the keymap. Keys such as "/" and
// "?" arrive percent-encoded.
func (h *MailHandler) HandleKey(c *fiber.Ctx) error {
	key, err := url.PathUnescape(c.Params("key"))
	if err != nil {
		return utils.BadRequestError(utils.T(localizer(c), "error_400"), err)
	}

	state, err := h.ws.HandleKey(key)
	if err != nil {
		return mailboxError(c, err)
	}
	return c.JSON(state)
}

// Shortcuts lists the key bindings
func (h *MailHandler) Shortcuts(c *fiber.Ctx) error {
	return c.JSON(h.ws.Keymap().Shortcuts())
}

// Compose validates a draft and sends it in the background. The outcome is
// announced through the notification hub.
func (h *MailHandler) Compose(c *fiber.Ctx) error {
	loc := localizer(c)

	var draft mailbox.Draft
	if err := c.BodyParser(&draft); err != nil {
		return utils.BadRequestError(utils.T(loc, "error_400"), err)
	}
	if err := draft.Validate(); err != nil {
		return utils.BadRequestError(utils.T(loc, "compose_missing_fields"), err)
	}

	h.sends.Add(1)
	go func() {
		defer h.sends.Done()

		ctx, cancel := context.WithTimeout(context.Background(), h.sendTimeout)
		defer cancel()

		msg, err := h.ws.Compose(ctx, draft)
		if err != nil {
			utils.Log.Warn("Send failed: %v", err)
			h.hub.NotifySendFailed(draft.Subject, err)
			return
		}
		utils.Log.Info("Message %s sent to %s", msg.ID, draft.To)
		h.hub.NotifySent(msg)
	}()

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"success": true,
		"message": utils.T(loc, "message_queued"),
	})
}

// ClosePanels hides the compose, shortcuts and search overlays
func (h *MailHandler) ClosePanels(c *fiber.Ctx) error {
	return c.JSON(h.ws.ClosePanels())
}

// Wait blocks until background sends have finished
func (h *MailHandler) Wait() {
	h.sends.Wait()
}
