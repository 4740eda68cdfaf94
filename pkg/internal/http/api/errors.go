package api

import (
	"errors"

	"github.com/athlinked/server/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// remapEngineError translates the engine's error taxonomy into HTTP statuses.
// A denied visibility check never reaches this; it is reported upstream as a
// plain 404 so the existence of private content stays undisclosed.
func remapEngineError(err error) error {
	switch {
	case errors.Is(err, services.ErrSelfFollow),
		errors.Is(err, services.ErrNotPending),
		errors.Is(err, services.ErrUnsupportedKind):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrEdgeExists):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, services.ErrForbidden):
		return fiber.NewError(fiber.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrEdgeNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}
