package middlewares

import (
	"time"

	"superfan/providers/payments"

	"github.com/gofiber/fiber/v2"
)

// PaymentWebhookAuth verifies the provider signature over the raw body before
// any processing and stashes the typed event for the handler. Missing or
// invalid signatures are a 400; the provider retries on non-2xx.
func PaymentWebhookAuth(secret string, tolerance time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("X-Payment-Signature")
		if header == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "MISSING_SIGNATURE",
			})
		}

		body := c.Body()
		if err := payments.VerifySignature(body, header, secret, tolerance, time.Now()); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "INVALID_SIGNATURE",
			})
		}

		evt, err := payments.ParseEvent(body)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "INVALID_EVENT",
			})
		}

		c.Locals("payment_event", evt)
		return c.Next()
	}
}
