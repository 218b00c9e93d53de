/**
 * @description
 * Shared-secret guard for job trigger endpoints.
 * External schedulers authenticate with the X-Job-Secret header.
 *
 * @dependencies
 * - github.com/gofiber/fiber/v2: HTTP Context
 *
 * @notes
 * - An empty secret leaves the route open (local development).
 */

package middleware

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
)

const JobSecretHeader = "X-Job-Secret"

// JobSecret rejects requests whose X-Job-Secret header does not match secret
func JobSecret(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if secret == "" {
			return c.Next()
		}

		provided := c.Get(JobSecretHeader)
		if provided == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing job secret",
			})
		}
		if subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Invalid job secret",
			})
		}
		return c.Next()
	}
}
