package handler

import (
	"errors"

	"go-pos-backend/internal/apperr"
	"go-pos-backend/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// errorResponse maps the core's typed errors to HTTP status codes. Business
// failures keep enough detail for the POS client to render an actionable
// message; unexpected errors are logged here and masked.
func errorResponse(c *fiber.Ctx, err error) error {
	var notFound *apperr.NotFoundError
	if errors.As(err, &notFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": notFound.Error()})
	}

	var unauthorized *apperr.UnauthorizedError
	if errors.As(err, &unauthorized) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": unauthorized.Error()})
	}

	var insufficient *apperr.InsufficientStockError
	if errors.As(err, &insufficient) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":      insufficient.Error(),
			"product_id": insufficient.ProductID,
			"available":  insufficient.Available,
			"requested":  insufficient.Requested,
		})
	}

	var alreadyOpen *apperr.AlreadyOpenError
	if errors.As(err, &alreadyOpen) {
		resp := fiber.Map{"error": alreadyOpen.Error()}
		if alreadyOpen.ShiftID != uuid.Nil {
			resp["shift_id"] = alreadyOpen.ShiftID
		}
		return c.Status(fiber.StatusBadRequest).JSON(resp)
	}

	switch {
	case errors.Is(err, apperr.ErrEmptyCart),
		errors.Is(err, apperr.ErrInvalidQuantity),
		errors.Is(err, apperr.ErrInvalidDelta),
		errors.Is(err, apperr.ErrInvalidReason),
		errors.Is(err, apperr.ErrAlreadyClosed):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})

	case errors.Is(err, apperr.ErrStorageConflict):
		// The whole operation rolled back; the client may retry from scratch.
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error":     "operation aborted by a concurrent update, please retry",
			"retryable": true,
		})
	}

	logger.Logger.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal Server Error"})
}

func validationError(c *fiber.Ctx, field, tag string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "Validation failed: field '" + field + "' failed on tag '" + tag + "'",
	})
}
