package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/clipstudio/internal/layers"
	"github.com/maheshrc27/clipstudio/internal/transfer"
)

type LayerHandler struct{}

func NewLayerHandler() *LayerHandler {
	return &LayerHandler{}
}

func (h *LayerHandler) AddLayer(c *fiber.Ctx) error {
	var req transfer.LayersRequest
	if err := c.BodyParser(&req); err != nil {
		slog.Info(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := layers.Validate(req.Layers); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(transfer.LayersRequest{
		Layers: layers.AddLayer(req.Layers),
	})
}
