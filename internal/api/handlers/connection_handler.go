package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/clipstudio/internal/service"
	"github.com/maheshrc27/clipstudio/internal/transfer"
)

type ConnectionHandler struct {
	s service.ConnectionService
}

func NewConnectionHandler(service service.ConnectionService) *ConnectionHandler {
	return &ConnectionHandler{s: service}
}

func (h *ConnectionHandler) CreateConnection(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var req transfer.ConnectionCreation
	if err := c.BodyParser(&req); err != nil {
		slog.Info(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := h.s.Create(c.Context(), userID, c.Params("connectionType"), req.Code, req.RedirectURL); err != nil {
		return errorResponse(c, err)
	}

	return c.SendStatus(fiber.StatusCreated)
}

func (h *ConnectionHandler) DeleteConnection(c *fiber.Ctx) error {
	userID := GetUserID(c)

	if err := h.s.Delete(c.Context(), userID, c.Params("connectionType")); err != nil {
		return errorResponse(c, err)
	}

	return c.SendStatus(fiber.StatusOK)
}

func (h *ConnectionHandler) ListAllowedConnections(c *fiber.Ctx) error {
	userID := GetUserID(c)

	connections, err := h.s.ListAllowed(c.Context(), userID)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(connections)
}
