package stop

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts stop creation under journeys and stop updates
// under their own path, both relative to the /api group.
func RegisterRoutes(api fiber.Router, svc *Service) {
	api.Post("/journeys/:journeyId/stops", func(c *fiber.Ctx) error {
		var req CreateInput
		_ = c.BodyParser(&req)

		st, err := svc.Create(c.Context(), c.Params("journeyId"), req)
		if err != nil {
			return mapStopError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(st)
	})

	api.Patch("/stops/:stopId", func(c *fiber.Ctx) error {
		var req UpdateInput
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		st, err := svc.Update(c.Context(), c.Params("stopId"), req)
		if err != nil {
			return mapStopError(err)
		}
		return c.JSON(st)
	})
}

func mapStopError(err error) error {
	var vErr ValidationError
	switch {
	case errors.As(err, &vErr):
		return fiber.NewError(fiber.StatusBadRequest, vErr.Error())
	case errors.Is(err, ErrJourneyNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Journey not found")
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Stop not found")
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
	}
}
