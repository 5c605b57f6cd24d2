package api

import (
	"time"

	"github.com/bilgisen/nytproxy/internal/config"
	"github.com/bilgisen/nytproxy/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// SetupRoutes configures all the routes for the application
func SetupRoutes(app *fiber.App, cfg *config.Config, client NewsClient) {
	handlers := NewHandlers(cfg, client)

	app.Get("/health", handlers.HealthCheck)

	nytimes := app.Group("/nytimes")
	{
		nytimes.Get("/topstories", handlers.TopStories)
		nytimes.Get("/articlesearch", middleware.ValidateQuery[ArticleSearchQuery](), handlers.ArticleSearch)
	}

	// 404 Handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Endpoint not found",
		})
	})
}

// NewApp creates the Fiber app with the service's error handling and
// request logging installed, and registers all routes.
func NewApp(cfg *config.Config, client NewsClient) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:           cfg.HTTPTimeout,
		WriteTimeout:          cfg.HTTPTimeout,
		IdleTimeout:           120 * time.Second,
		ErrorHandler:          middleware.ErrorHandler,
		DisableStartupMessage: !cfg.IsDevelopment(),
	})

	app.Use(recover.New())
	app.Use(middleware.RequestLogger())

	SetupRoutes(app, cfg, client)
	return app
}
