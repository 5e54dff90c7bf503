package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/clipstudio/internal/service"
)

type ClipHandler struct {
	s service.ClipService
}

func NewClipHandler(service service.ClipService) *ClipHandler {
	return &ClipHandler{s: service}
}

func (h *ClipHandler) UploadClip(c *fiber.Ctx) error {
	userID := GetUserID(c)

	file, err := c.FormFile("file")
	if err != nil {
		slog.Info(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No file selected",
		})
	}

	clip, err := h.s.Upload(c.Context(), userID, file)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(clip)
}
