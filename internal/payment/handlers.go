package payment

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes mounts the three payment surfaces on the /api group:
// checkout session creation, the status poll and the webhook receiver.
// The webhook handler works on c.Body() directly since the signature is
// computed over the raw bytes.
func RegisterRoutes(api fiber.Router, svc *Service) {
	api.Post("/journeys/:journeyId/create-checkout-session", func(c *fiber.Ctx) error {
		sessionID, err := svc.CreateCheckoutSession(c.Context(), c.Params("journeyId"))
		if err != nil {
			switch {
			case errors.Is(err, ErrJourneyNotFound):
				return fiber.NewError(fiber.StatusNotFound, "Journey not found")
			case errors.Is(err, ErrAlreadyPaid):
				return fiber.NewError(fiber.StatusBadRequest, "Journey is already paid for")
			default:
				return fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
			}
		}
		return c.JSON(fiber.Map{"id": sessionID})
	})

	api.Get("/checkout-session/:sessionId", func(c *fiber.Ctx) error {
		result, err := svc.CheckSessionStatus(c.Context(), c.Params("sessionId"))
		if err != nil {
			switch {
			case errors.Is(err, ErrSessionNotFound):
				return fiber.NewError(fiber.StatusNotFound, "Checkout session not found")
			case errors.Is(err, ErrInvalidMetadata):
				return fiber.NewError(fiber.StatusInternalServerError, "Invalid session metadata")
			case errors.Is(err, ErrJourneyNotFound):
				return fiber.NewError(fiber.StatusInternalServerError, "Journey not found")
			default:
				return fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
			}
		}
		return c.JSON(result)
	})

	api.Post("/webhooks/stripe", func(c *fiber.Ctx) error {
		signature := c.Get("Stripe-Signature")
		if signature == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Missing stripe-signature header")
		}
		if err := svc.HandleWebhook(c.Context(), c.Body(), signature); err != nil {
			switch {
			case errors.Is(err, ErrInvalidSignature):
				return fiber.NewError(fiber.StatusBadRequest, "Invalid signature")
			case errors.Is(err, ErrMissingMetadata):
				return fiber.NewError(fiber.StatusBadRequest, "No journeyId in metadata")
			default:
				return fiber.NewError(fiber.StatusInternalServerError, "Failed to update journey")
			}
		}
		return c.JSON(fiber.Map{"received": true})
	})
}
