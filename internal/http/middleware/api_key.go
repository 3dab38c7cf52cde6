package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sifan077/ClipStash/internal/app/service"
	"go.uber.org/zap"
)

// APIKeyHeader carries the base64 transport form of an issued API key.
const APIKeyHeader = "x-api-key"

// APIKeyRequired rejects requests without a valid API key before any clip
// handler runs.
func APIKeyRequired(keys service.APIKeyService, logger *zap.Logger) fiber.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *fiber.Ctx) error {
		key := c.Get(APIKeyHeader)
		if key == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing api key",
			})
		}

		ok, err := keys.Validate(c.UserContext(), key)
		if err != nil {
			logger.Error("api key validation failed", zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid api key",
			})
		}
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid api key",
			})
		}

		return c.Next()
	}
}
