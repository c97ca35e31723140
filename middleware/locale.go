package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	"xmail/utils"
)

var supportedTags = []language.Tag{language.English, language.Japanese}

var matcher = language.NewMatcher(supportedTags)

// LocaleMiddleware picks the request language from ?lang=, the lang cookie
// or Accept-Language, in that order, and stores "lang" and "localizer" locals
func LocaleMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		lang := c.Query("lang")
		if lang == "" {
			lang = c.Cookies("lang")
		}
		if lang == "" || !utils.IsSupportedLang(lang) {
			lang = matchAcceptLanguage(c.Get(fiber.HeaderAcceptLanguage))
		}

		c.Locals("localizer", utils.GetLocalizer(lang))
		c.Locals("lang", lang)

		utils.Log.Debug("Locale detected: %s for path: %s", lang, c.Path())
		return c.Next()
	}
}

func matchAcceptLanguage(header string) string {
	if header == "" {
		return "en"
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return "en"
	}
	_, index, _ := matcher.Match(tags...)
	base, _ := supportedTags[index].Base()
	return base.String()
}

func localizerFrom(c *fiber.Ctx) *i18n.Localizer {
	if loc, ok := c.Locals("localizer").(*i18n.Localizer); ok {
		return loc
	}
	return utils.Localizer
}
