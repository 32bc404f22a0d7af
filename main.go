package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"
	"github.com/gofiber/websocket/v2"

	"beforeafter/config"
	"beforeafter/dom"
	"beforeafter/handlers/api"
	"beforeafter/handlers/web"
	"beforeafter/locales"
	"beforeafter/middleware"
	"beforeafter/models"
	"beforeafter/storage"
	"beforeafter/templates"
	"beforeafter/utils"
	"beforeafter/widget"
)

// Helper function to determine if request is an API request
func isAPIRequest(c *fiber.Ctx) bool {
	if c == nil {
		return false
	}
	return strings.HasPrefix(c.Path(), "/api")
}

// server bundles the app with what must be drained on shutdown
type server struct {
	app       *fiber.App
	registry  *widget.Registry
	probes    *storage.Cache[models.Size]
	persister *widget.Client
	bridge    *api.Bridge
}

func (s *server) Shutdown() {
	s.registry.Close()
	s.probes.Close()
	s.persister.Wait()
	if err := s.app.Shutdown(); err != nil {
		utils.Log.Error("Error shutting down server: %v", err)
	}
}

func newServer(cfg *config.Config, table *utils.LocaleTable) *server {
	engine := html.NewFileSystem(http.FS(templates.FS), ".html")

	app := fiber.New(fiber.Config{
		Views:       engine,
		ViewsLayout: "layouts/main",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := utils.StatusOf(err)
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			if code >= fiber.StatusInternalServerError {
				utils.Log.Error("Application error on %s: %v", c.Path(), err)
			} else {
				utils.Log.Debug("Request error on %s: %v", c.Path(), err)
			}

			message := err.Error()
			if appErr, ok := err.(*utils.AppError); ok {
				message = appErr.Message
			}

			if isAPIRequest(c) {
				return c.Status(code).JSON(fiber.Map{
					"error": message,
				})
			}
			return c.Status(code).Render("error", fiber.Map{
				"Title": message,
				"Lang":  middleware.GetLang(c),
				"Error": message,
				"Code":  code,
			})
		},
	})

	bridge := api.NewBridge()
	persister := widget.NewClient(cfg.Persistence.Endpoint, cfg.Persistence.Timeout.Duration)
	probeCache := storage.NewCache[models.Size](cfg.Widget.RegistryTTL.Duration)
	if ttl := cfg.Widget.RegistryTTL.Duration; ttl > 0 {
		probeCache.StartCleanup(ttl / 4)
	}
	prober := widget.NewImageProber(probeCache, cfg.Widget.ProbeTimeout.Duration, cfg.Widget.MaxRenderWidth)
	prober.AllowedHosts = cfg.Widget.MediaHosts
	prober.AllowPrivate = cfg.Widget.AllowPrivateMedia

	registry := widget.NewRegistry(cfg.Widget.RegistryTTL.Duration, func(id string) (*widget.Widget, error) {
		w, err := widget.New(id, widget.Options{
			Host:      bridge.Host(id),
			Measurer:  prober,
			Persister: persister,
			Resizer: widget.ResizerOptions{
				Delay:              cfg.Widget.ResizeDebounce.Duration,
				FullWidthThreshold: cfg.Widget.FullWidthThreshold,
				Timeout:            cfg.Widget.ProbeTimeout.Duration,
			},
			OnPatches: func(b dom.Batch) { bridge.SendPatches(b) },
		})
		if err != nil {
			return nil, err
		}
		w.Resizer().OnFullWidth(func(size models.Size) { bridge.NotifyFullWidth(id, size) })
		return w, nil
	}, bridge.Forget)

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())
	app.Use(func(c *fiber.Ctx) error {
		for k, v := range cfg.GetSecurityHeaders() {
			c.Set(k, v)
		}
		return c.Next()
	})
	app.Use(middleware.InstanceMiddleware(cfg.Host.AppSecret, false))
	app.Use(middleware.LocaleMiddleware(table))

	pages := web.NewPageHandler(cfg, engine, table, registry, bridge)
	widgets := api.NewWidgetHandler(registry, bridge, persister)
	i18nHandler := api.NewI18nHandler(table, cfg.Host.TrialDays)

	app.Get("/widget", pages.ShowWidget)
	app.Get("/settings", pages.ShowSettings)

	apiRoutes := app.Group("/api", middleware.RateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window.Duration))
	{
		apiRoutes.Get("/i18n/:lang", i18nHandler.GetTranslations)

		// Host events change state and must carry a signed instance
		events := apiRoutes.Group("/widget", middleware.InstanceMiddleware(cfg.Host.AppSecret, true))
		events.Get("/:id", widgets.State)
		events.Post("/:id/settings", widgets.UpdateSettings)
		events.Post("/:id/save", widgets.Save)
		events.Delete("/:id", widgets.Delete)
	}

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/widget/:id", websocket.New(bridge.HandleWebSocket))

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"widgets": registry.Len(),
			"locales": table.Tags(),
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	// 404 Handler for undefined routes
	app.Use(func(c *fiber.Ctx) error {
		return utils.NotFoundError(table.T(middleware.GetLang(c), "error-404"), nil)
	})

	return &server{app: app, registry: registry, probes: probeCache, persister: persister, bridge: bridge}
}

func main() {
	configPath := flag.String("config", "config.toml", "path to the TOML configuration")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		utils.Log.Error("Failed to load config: %v", err)
		os.Exit(1)
	}
	utils.ConfigureLogger(cfg.Log.Level, cfg.Log.Format)
	defer utils.Log.Sync()

	if err := utils.InitI18n(locales.FS); err != nil {
		utils.Log.Error("Failed to initialize i18n: %v", err)
		os.Exit(1)
	}

	srv := newServer(cfg, utils.Locales)

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		utils.Log.Info("Shutting down...")
		srv.Shutdown()
	}()

	utils.Log.Info("Starting server on port %d...", cfg.Server.Port)
	if err := srv.app.Listen(fmt.Sprintf(":%d", cfg.Server.Port)); err != nil {
		utils.Log.Error("Error starting server: %v", err)
	}
}
