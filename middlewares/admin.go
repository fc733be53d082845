package middlewares

import "github.com/gofiber/fiber/v2"

// AdminAuth gates the admin/cron trigger routes with a shared key. Whether a
// user may act is decided upstream; this only checks the operator channel.
func AdminAuth(key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Get("X-Admin-Key") != key {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "INVALID_ADMIN_KEY",
			})
		}
		return c.Next()
	}
}
