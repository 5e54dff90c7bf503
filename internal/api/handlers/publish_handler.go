package handlers

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/clipstudio/internal/queue"
	"github.com/maheshrc27/clipstudio/internal/service"
	"github.com/maheshrc27/clipstudio/internal/transfer"
)

type PublishHandler struct {
	s           service.PublishService
	enqueuer    queue.Enqueuer
	taskTimeout time.Duration
}

func NewPublishHandler(service service.PublishService, enqueuer queue.Enqueuer, taskTimeout time.Duration) *PublishHandler {
	return &PublishHandler{s: service, enqueuer: enqueuer, taskTimeout: taskTimeout}
}

func (h *PublishHandler) CreatorInfo(c *fiber.Ctx) error {
	userID := GetUserID(c)

	perms, err := h.s.CreatorInfo(c.Context(), userID)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(perms)
}

func (h *PublishHandler) PublishForm(c *fiber.Ctx) error {
	userID := GetUserID(c)

	duration := 0.0
	if raw := c.Query("duration"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "duration must be a positive number of seconds",
			})
		}
		duration = parsed
	}

	return c.Status(fiber.StatusOK).JSON(h.s.PublishForm(c.Context(), userID, duration))
}

func (h *PublishHandler) StartPublish(c *fiber.Ctx) error {
	userID := GetUserID(c)

	var req transfer.PublishCreation
	if err := c.BodyParser(&req); err != nil {
		slog.Info(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	session, err := h.s.Start(c.Context(), userID, &req)
	if err != nil {
		return errorResponse(c, err)
	}

	err = queue.EnqueuePublish(h.enqueuer, queue.PublishVideoPayload{SessionID: session.ID}, h.taskTimeout)
	if err != nil {
		slog.Error("unable to enqueue publish", "session", session.ID, "error", err)
		if derr := h.s.Discard(c.Context(), userID, session.ID); derr != nil {
			slog.Error("unable to discard publish session", "session", session.ID, "error", derr)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Error scheduling publish",
		})
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"session_id": session.ID,
	})
}

func (h *PublishHandler) GetPublish(c *fiber.Ctx) error {
	userID := GetUserID(c)

	session, err := h.s.Session(c.Context(), userID, c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(session)
}

func (h *PublishHandler) ResetPublish(c *fiber.Ctx) error {
	userID := GetUserID(c)

	session, err := h.s.Reset(c.Context(), userID, c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(session)
}

func (h *PublishHandler) ListHistory(c *fiber.Ctx) error {
	userID := GetUserID(c)

	history, err := h.s.History(c.Context(), userID)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(history)
}
