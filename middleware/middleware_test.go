package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xmail/locales"
	"xmail/utils"
)

func TestMain(m *testing.M) {
	utils.Log.SetWriter(io.Discard)
	if err := utils.InitI18n(locales.FS, locales.Supported); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func errorHandler(c *fiber.Ctx, err error) error {
	if appErr, ok := err.(*utils.AppError); ok {
		return c.Status(appErr.Code).JSON(fiber.Map{"error": appErr.Message})
	}
	return fiber.DefaultErrorHandler(c, err)
}

func TestRateLimiter(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: errorHandler})
	app.Use(LocaleMiddleware())
	app.Use(RateLimiter(2, time.Hour))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "Too many requests")
}

func TestLocaleMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(LocaleMiddleware())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("lang").(string) + "|" + utils.T(localizerFrom(c), "nav_inbox"))
	})

	tests := []struct {
		name   string
		target string
		header map[string]string
		want   string
	}{
		{"default", "/", nil, "en|Inbox"},
		{"query", "/?lang=ja", nil, "ja|受信トレイ"},
		{"cookie", "/", map[string]string{"Cookie": "lang=ja"}, "ja|受信トレイ"},
		{"accept language", "/", map[string]string{"Accept-Language": "ja-JP,ja;q=0.9,en;q=0.8"}, "ja|受信トレイ"},
		{"unsupported query falls back", "/?lang=fr", map[string]string{"Accept-Language": "fr-FR"}, "en|Inbox"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			body, _ := io.ReadAll(resp.Body)
			assert.Equal(t, tt.want, string(body))
		})
	}
}

func TestCSRFProtection(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: errorHandler})
	app.Use(CSRFProtection())
	app.Get("/form", func(c *fiber.Ctx) error { return c.SendString(GenerateCSRFToken(c)) })
	app.Post("/submit", func(c *fiber.Ctx) error { return c.SendString("ok") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/form", nil))
	require.NoError(t, err)
	tokenBytes, _ := io.ReadAll(resp.Body)
	token := string(tokenBytes)
	require.NotEmpty(t, token)

	var cookie string
	for _, c := range resp.Cookies() {
		if c.Name == "csrf_token" {
			cookie = c.Name + "=" + c.Value
		}
	}
	require.NotEmpty(t, cookie)

	post := func(form url.Values, headers map[string]string) int {
		req := httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp.StatusCode
	}

	assert.Equal(t, http.StatusForbidden, post(url.Values{}, nil))
	assert.Equal(t, http.StatusForbidden, post(url.Values{"_csrf": {"wrong"}}, map[string]string{"Cookie": cookie}))
	assert.Equal(t, http.StatusOK, post(url.Values{"_csrf": {token}}, map[string]string{"Cookie": cookie}))
	assert.Equal(t, http.StatusOK, post(url.Values{}, map[string]string{"Cookie": cookie, "X-CSRF-Token": token}))
}
