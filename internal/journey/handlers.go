package journey

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service) {
	r.Post("/", func(c *fiber.Ctx) error {
		var req struct {
			Title string `json:"title"`
		}
		_ = c.BodyParser(&req)
		if req.Title == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Title is required")
		}
		j, err := svc.Create(c.Context(), req.Title)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"id":    j.ID,
			"title": j.Title,
		})
	})

	// The two /public routes must stay registered ahead of /:id so
	// fiber does not treat "public" as a journey id.
	r.Get("/public", func(c *fiber.Ctx) error {
		summaries, err := svc.PublicSummaries(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
		}
		return c.JSON(summaries)
	})

	r.Get("/public/:journeyId", func(c *fiber.Ctx) error {
		summary, err := svc.PublicSummaryByID(c.Context(), c.Params("journeyId"))
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Journey not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
		}
		return c.JSON(summary)
	})

	r.Get("/:id", func(c *fiber.Ctx) error {
		j, err := svc.Get(c.Context(), c.Params("id"))
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Journey not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
		}
		return c.JSON(j)
	})
}

// RegisterRevealRoutes exposes paid journeys by shareable token. The
// response never carries the token and the handler answers 404 for
// unknown and unpaid tokens alike.
func RegisterRevealRoutes(r fiber.Router, svc *Service) {
	r.Get("/:shareableToken", func(c *fiber.Ctx) error {
		j, err := svc.GetByToken(c.Context(), c.Params("shareableToken"))
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Journey not found")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
		}
		return c.JSON(j)
	})
}
