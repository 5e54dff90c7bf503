package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/clipstudio/internal/models"
	"github.com/maheshrc27/clipstudio/internal/publish"
	"github.com/maheshrc27/clipstudio/internal/repository"
	"github.com/maheshrc27/clipstudio/internal/service"
)

func GetUserID(c *fiber.Ctx) string {
	userID, _ := c.Locals("user_id").(string)
	return userID
}

// errorResponse maps known errors to a JSON error body. Anything else is
// returned to the app ErrorHandler.
func errorResponse(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := ""

	var perr *publish.ProviderError
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, models.ErrUnsupportedConnection),
		errors.Is(err, publish.ErrPrivacyRequired),
		errors.Is(err, publish.ErrPrivacyNotAllowed),
		errors.Is(err, publish.ErrDurationExceeded):
		status, message = fiber.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrNotVideo):
		status, message = fiber.StatusUnsupportedMediaType, err.Error()
	case errors.Is(err, service.ErrNotConnected):
		status, message = fiber.StatusPreconditionFailed, "Connect your TikTok account first"
	case errors.Is(err, publish.ErrUnauthorized):
		status, message = fiber.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, repository.ErrSessionNotFound),
		errors.Is(err, service.ErrSessionForbidden):
		status, message = fiber.StatusNotFound, "Publish session not found"
	case errors.Is(err, publish.ErrInvalidTransition):
		status, message = fiber.StatusConflict, err.Error()
	case errors.As(err, &perr):
		status, message = fiber.StatusBadGateway, perr.Message
		if message == "" {
			message = "TikTok rejected the request"
		}
	default:
		return err
	}

	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}
