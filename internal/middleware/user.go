package middleware

import (
	"context"
	"strings"

	common_models "crm-analytics/internal/common/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

const UserIDHeader = "X-User-Id"

// UserMiddleware reads the caller id from X-User-Id, falling back to the
// default user, and stores it in Locals and the user context.
func UserMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Header values alias the request buffer; the id outlives the request in async logs.
		userID := utils.CopyString(strings.TrimSpace(c.Get(UserIDHeader)))
		if userID == "" {
			userID = common_models.DefaultUserID
		}
		c.Locals(string(common_models.UserIDKey), userID)
		c.SetUserContext(context.WithValue(c.UserContext(), common_models.UserIDKey, userID))
		return c.Next()
	}
}
