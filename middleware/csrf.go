package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"

	"github.com/gofiber/fiber/v2"

	"xmail/utils"
)

// CSRFConfig holds CSRF protection configuration
type CSRFConfig struct {
	TokenLength  int
	CookieName   string
	HeaderName   string
	FormField    string
	ContextKey   string
	CookieMaxAge int
	Secure       bool
	Skipper      func(*fiber.Ctx) bool
}

// DefaultCSRFConfig returns default CSRF configuration
func DefaultCSRFConfig() CSRFConfig {
	return CSRFConfig{
		TokenLength:  32,
		CookieName:   "csrf_token",
		HeaderName:   "X-CSRF-Token",
		FormField:    "_csrf",
		ContextKey:   "csrf",
		CookieMaxAge: 3600, // 1 hour
	}
}

// CSRFProtection checks the double-submit token on unsafe methods. The token
// may come from the header or, for HTML forms, from the form field.
func CSRFProtection(config ...CSRFConfig) fiber.Handler {
	cfg := DefaultCSRFConfig()
	if len(config) > 0 {
		cfg = config[0]
	}

	return func(c *fiber.Ctx) error {
		if cfg.Skipper != nil && cfg.Skipper(c) {
			return c.Next()
		}

		switch c.Method() {
		case fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions:
			return c.Next()
		}

		cookieToken := c.Cookies(cfg.CookieName)
		submitted := c.Get(cfg.HeaderName)
		if submitted == "" && cfg.FormField != "" {
			submitted = c.FormValue(cfg.FormField)
		}

		if cookieToken == "" || submitted == "" {
			return utils.ForbiddenError("CSRF token missing", nil)
		}
		if !tokensEqual(cookieToken, submitted) {
			return utils.ForbiddenError("CSRF token mismatch", nil)
		}

		return c.Next()
	}
}

// GenerateCSRFToken returns the request's CSRF token, issuing a new cookie
// when the client has none
func GenerateCSRFToken(c *fiber.Ctx, config ...CSRFConfig) string {
	cfg := DefaultCSRFConfig()
	if len(config) > 0 {
		cfg = config[0]
	}

	token := c.Cookies(cfg.CookieName)
	if token == "" {
		token = generateToken(cfg.TokenLength)
		c.Cookie(&fiber.Cookie{
			Name:     cfg.CookieName,
			Value:    token,
			MaxAge:   cfg.CookieMaxAge,
			HTTPOnly: true,
			SameSite: "Strict",
			Secure:   cfg.Secure,
		})
	}

	c.Locals(cfg.ContextKey, token)
	return token
}

// generateToken generates a random token
func generateToken(length int) string {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return ""
	}
	return base64.URLEncoding.EncodeToString(b)
}

// tokensEqual performs constant-time comparison of tokens
func tokensEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
