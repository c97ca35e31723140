package api

import (
	"github.com/gofiber/fiber/v2"

	"xmail/utils"
)

// clientMessages are the ids the browser script needs
var clientMessages = []string{
	"message_sent_success",
	"message_send_failed",
	"message_queued",
	"message_error",
	"message_connection_error",
	"search_saved",
	"compose_missing_fields",
	"theme_saved",
	"email_loading",
	"email_no_messages",
	"error_network",
	"error_404",
	"error_500",
}

// I18nHandler handles i18n-related requests
type I18nHandler struct{}

// GetTranslations returns translations for the client-side JavaScript.
// Unsupported languages get English.
func (h *I18nHandler) GetTranslations(c *fiber.Ctx) error {
	lang := c.Params("lang")
	if !utils.IsSupportedLang(lang) {
		lang = "en"
	}

	return c.JSON(utils.Translations(utils.GetLocalizer(lang), clientMessages))
}
