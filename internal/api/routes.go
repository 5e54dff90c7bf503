package api

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	config "github.com/maheshrc27/clipstudio/configs"
	"github.com/maheshrc27/clipstudio/internal/api/handlers"
	"github.com/maheshrc27/clipstudio/internal/service"
)

type Handlers struct {
	Layers      *handlers.LayerHandler
	Connections *handlers.ConnectionHandler
	Clips       *handlers.ClipHandler
	Publish     *handlers.PublishHandler
}

func NewApp(cfg config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Minute,
		WriteTimeout: 10 * time.Minute,
		BodyLimit:    service.MaxClipSize + 1024*1024,
		ErrorHandler: errorHandler,
	})

	// Credentials cannot be combined with a wildcard origin.
	origins, credentials := cfg.FrontendURL, true
	if origins == "" {
		origins, credentials = "*", false
	}

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: credentials,
		MaxAge:           3600,
	}))

	return app
}

// errorHandler keeps fiber's own status errors and hides everything else
// behind a generic 500.
func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}

	slog.Error("unhandled request error", "method", c.Method(), "path", c.Path(), "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
}

func SetupRoutes(app *fiber.App, h Handlers, auth fiber.Handler) {
	user := app.Group("/user", auth)
	user.Post("/connection/:connectionType", h.Connections.CreateConnection)
	user.Delete("/connection/:connectionType", h.Connections.DeleteConnection)
	user.Get("/allowed-connections", h.Connections.ListAllowedConnections)

	api := app.Group("/api", auth)
	api.Post("/layers/add", h.Layers.AddLayer)

	api.Post("/clips", h.Clips.UploadClip)

	api.Get("/tiktok/creator-info", h.Publish.CreatorInfo)
	api.Get("/tiktok/publish-form", h.Publish.PublishForm)

	api.Post("/publish", h.Publish.StartPublish)
	api.Get("/publish/history", h.Publish.ListHistory)
	api.Get("/publish/:id", h.Publish.GetPublish)
	api.Post("/publish/:id/reset", h.Publish.ResetPublish)
}
