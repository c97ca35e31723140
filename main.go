package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/session"

	"xmail/config"
	"xmail/handlers/api"
	"xmail/handlers/web"
	"xmail/locales"
	"xmail/mailbox"
	"xmail/middleware"
	"xmail/storage"
	"xmail/templates"
	"xmail/themes"
	"xmail/utils"
)

// isAPIRequest reports whether errors should be rendered as JSON
func isAPIRequest(c *fiber.Ctx) bool {
	if c == nil {
		return false
	}
	return strings.HasPrefix(c.Path(), "/api") || strings.Contains(c.Get(fiber.HeaderAccept), fiber.MIMEApplicationJSON)
}

func main() {
	configPath := flag.String("config", "config.toml", "path to the TOML config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		utils.Log.Error("Failed to load config: %v", err)
		os.Exit(1)
	}
	utils.Log.SetLevel(utils.ParseLogLevel(cfg.Log.Level))
	utils.Log.Info("Initializing xmail...")

	if err := utils.InitI18n(locales.FS, locales.Supported); err != nil {
		utils.Log.Error("Failed to initialize i18n: %v", err)
		os.Exit(1)
	}

	// Storage: users and sessions share one bbolt file
	db, err := storage.InitDB(cfg.Storage.DataDir)
	if err != nil {
		utils.Log.Error("Failed to open database: %v", err)
		os.Exit(1)
	}
	defer db.Close()

	sessionStorage := storage.NewSessionStorage(db)
	if n, err := sessionStorage.Purge(); err != nil {
		utils.Log.Warn("Failed to purge expired sessions: %v", err)
	} else if n > 0 {
		utils.Log.Info("Purged %d expired sessions", n)
	}

	store := session.New(session.Config{
		Storage:        sessionStorage,
		Expiration:     cfg.SessionExpiry(),
		CookieSecure:   cfg.Server.SecureCookies,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
	})

	// Themes
	registry := themes.Builtin()
	if cfg.UI.ThemesFile != "" {
		if registry, err = themes.LoadFile(cfg.UI.ThemesFile); err != nil {
			utils.Log.Error("Failed to load themes: %v", err)
			os.Exit(1)
		}
	}
	if cfg.UI.DefaultTheme != "" {
		if err := registry.SetDefault(cfg.UI.DefaultTheme); err != nil {
			utils.Log.Warn("Ignoring default theme: %v", err)
		}
	}

	// Mail workspace
	keymap, err := mailbox.NewKeymap(cfg.UI.Keys)
	if err != nil {
		utils.Log.Error("Invalid key bindings: %v", err)
		os.Exit(1)
	}
	ws := mailbox.NewWorkspace(mailbox.Options{
		Seed: mailbox.SeedMessages(),
		Classifier: mailbox.NewClassifier(mailbox.ClassifierConfig{
			CISenders:    cfg.Classifier.CISenders,
			AlertSenders: cfg.Classifier.AlertSenders,
		}),
		Keymap:        keymap,
		Transport:     mailbox.NewMockTransport(cfg.SendDelay(), cfg.Transport.FailureRate),
		DefaultFolder: cfg.UI.DefaultFolder,
	})

	// Handlers
	hub := api.NewNotificationHandler()
	users := storage.NewUserStorage(db)
	tokens := api.NewTokenIssuer(cfg.JWT.Secret, cfg.TokenTTL())
	themeHandler := api.NewThemeHandler(store, registry, users, tokens)
	handlers := &api.Handlers{
		Mail:          api.NewMailHandler(ws, hub, cfg.SendTimeout()),
		Search:        api.NewSearchHandler(ws),
		Assistant:     api.NewAssistantHandler(ws, mailbox.NewDevFeed(time.Now())),
		Theme:         themeHandler,
		Auth:          api.NewAuthHandler(users, tokens),
		I18n:          &api.I18nHandler{},
		Notifications: hub,
	}

	csrfConfig := middleware.DefaultCSRFConfig()
	csrfConfig.Secure = cfg.Server.SecureCookies
	pages := web.NewPageHandler(ws, themeHandler, csrfConfig)

	appConfig := api.BaseConfig()
	appConfig.Views = templates.NewEngine(cfg.Server.TemplatesDir)
	appConfig.ViewsLayout = "layouts/main"
	appConfig.ErrorHandler = func(c *fiber.Ctx, err error) error {
		if isAPIRequest(c) {
			return api.ErrorHandler(c, err)
		}
		return pages.HandleError(c, err)
	}
	app := fiber.New(appConfig)

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())
	app.Use(helmet.New(helmet.Config{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "SAMEORIGIN",
		ReferrerPolicy:        "no-referrer",
		ContentSecurityPolicy: "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; connect-src 'self' ws: wss:;",
	}))
	if headers := cfg.GetSecurityHeaders(); len(headers) > 0 {
		app.Use(func(c *fiber.Ctx) error {
			for k, v := range headers {
				c.Set(k, v)
			}
			return c.Next()
		})
	}
	app.Use(middleware.LocaleMiddleware())
	app.Use(middleware.RateLimiter(cfg.RateLimit.Requests, cfg.RateWindow()))

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":   "ok",
			"time":     time.Now().Format(time.RFC3339),
			"messages": ws.Store().Len(),
		})
	})

	// Web pages
	app.Get("/", pages.Landing)
	app.Get("/app", pages.Inbox)
	app.Post("/theme", middleware.CSRFProtection(csrfConfig), pages.SetTheme)

	// JSON API
	handlers.Mount(app.Group("/api"))

	// 404 Handler for undefined routes
	app.Use(func(c *fiber.Ctx) error {
		return fiber.ErrNotFound
	})

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		var err error
		if cfg.SSL.Enabled {
			utils.Log.Info("Starting HTTPS server on port %d...", cfg.Server.Port)
			err = app.ListenTLS(addr, cfg.SSL.CertFile, cfg.SSL.KeyFile)
		} else {
			utils.Log.Info("Starting server on port %d...", cfg.Server.Port)
			err = app.Listen(addr)
		}
		if err != nil {
			utils.Log.Error("Error starting server: %v", err)
			os.Exit(1)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	utils.Log.Info("Shutting down...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		utils.Log.Error("Error during shutdown: %v", err)
	}
	handlers.Mail.Wait()
}
