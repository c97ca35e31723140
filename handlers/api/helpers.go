package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/nicksnyder/go-i18n/v2/i18n"

	"xmail/mailbox"
	"xmail/utils"
)

// BaseConfig returns the fiber settings every xmail app starts from.
// Handlers keep query, form and param strings in the shared workspace and
// read them from background sends, so request buffers must not be reused.
func BaseConfig() fiber.Config {
	return fiber.Config{
		Immutable:    true,
		ErrorHandler: ErrorHandler,
	}
}

// localizer returns the request localizer set by the locale middleware
func localizer(c *fiber.Ctx) *i18n.Localizer {
	if loc, ok := c.Locals("localizer").(*i18n.Localizer); ok {
		return loc
	}
	return utils.Localizer
}

// mailboxError maps core errors to HTTP errors
func mailboxError(c *fiber.Ctx, err error) *utils.AppError {
	loc := localizer(c)
	switch {
	case errors.Is(err, mailbox.ErrMessageNotFound), errors.Is(err, mailbox.ErrSearchNotFound):
		return utils.NotFoundError(utils.T(loc, "error_404"), err)
	case errors.Is(err, mailbox.ErrUnknownAction), errors.Is(err, mailbox.ErrUnknownKey):
		return utils.BadRequestError(utils.T(loc, "error_400"), err)
	}
	return utils.InternalServerError(utils.T(loc, "error_500"), err)
}

// ErrorHandler renders errors returned by API handlers as {"error": message}
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := utils.T(localizer(c), "error_500")

	var appErr *utils.AppError
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &appErr):
		code = appErr.Code
		message = appErr.Message
		if code >= fiber.StatusInternalServerError {
			utils.Log.WithFields(appErr.Context).Error("Application error on %s: %v", c.Path(), appErr)
		} else {
			utils.Log.Debug("Request error on %s: %v", c.Path(), appErr)
		}
	case errors.As(err, &fiberErr):
		code = fiberErr.Code
		message = fiberErr.Message
	default:
		utils.Log.Error("Unhandled error on %s: %v", c.Path(), err)
	}

	return c.Status(code).JSON(fiber.Map{
		"error": message,
	})
}
