package webhook

import (
	"errors"

	"superfan/helpers"
	"superfan/providers/payments"
	"superfan/services"

	"github.com/gofiber/fiber/v2"
)

type Controller struct {
	Purchases *services.PurchaseService
}

func NewController(purchases *services.PurchaseService) *Controller {
	return &Controller{Purchases: purchases}
}

// HandlePaymentEvent consumes a signature-verified provider event. Duplicates
// and unhandled event types are acknowledged with 200 so the provider stops
// retrying; store failures return 500 so it retries the whole delivery.
func (ct *Controller) HandlePaymentEvent(c *fiber.Ctx) error {
	evt, ok := c.Locals("payment_event").(*payments.Event)
	if !ok {
		return helpers.JSONError(c, "MISSING_EVENT")
	}

	switch evt.Type {
	case payments.EventPaymentCompleted:
		out, err := ct.Purchases.ApplyEvent(evt)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrInvalidBundle),
				errors.Is(err, services.ErrValidation),
				errors.Is(err, services.ErrSupplyExceeded):
				// The provider must not retry a payload that can never apply.
				return helpers.JSONStatusError(c, fiber.StatusUnprocessableEntity, err.Error())
			default:
				return helpers.JSONStatusError(c, fiber.StatusInternalServerError, "STORE_FAILURE")
			}
		}
		if !out.Applied {
			return helpers.JSONSuccess(c, "Event already processed", nil)
		}
		return helpers.JSONSuccess(c, "Event applied", fiber.Map{
			"bundle":     out.Bundle,
			"settlement": out.Breakdown,
		})

	case payments.EventPaymentFailed:
		// Nothing to roll forward: no points were granted yet.
		return helpers.JSONSuccess(c, "Event acknowledged", nil)

	default:
		return helpers.JSONSuccess(c, "Event ignored", nil)
	}
}
