package web

import (
	"context"
	"embed"
	"fmt"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

//go:embed static
var static embed.FS

// RegisterRoutes registers the form page, its actions and the local
// health and metrics endpoints.
func RegisterRoutes(app *fiber.App, h *Handler) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api", SameOrigin)
	api.Post("/login", h.Login)
	api.Post("/signup", h.Signup)
	api.Post("/repurpose", h.Repurpose)
	api.Post("/upgrade", h.Upgrade)
	api.Get("/health", h.RemoteHealth)

	app.Use("/", filesystem.New(filesystem.Config{
		Root:       http.FS(static),
		PathPrefix: "static",
		Index:      "index.html",
	}))
}

// NewApp builds the fiber app with routes registered.
func NewApp(h *Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          2 * time.Minute,
	})
	RegisterRoutes(app, h)
	return app
}

// Serve listens on 127.0.0.1:port until ctx is cancelled, then shuts the app
// down.
func Serve(ctx context.Context, logger *zap.Logger, app *fiber.App, port int) error {
	addr := fmt.Sprintf("127.0.0.1:%d", port)
	errCh := make(chan error, 1)
	go func() {
		logger.Info("web.listening", zap.String("addr", "http://"+addr))
		errCh <- app.Listen(addr)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Warn("web.shutdown_failed", zap.Error(err))
		return err
	}
	return nil
}
