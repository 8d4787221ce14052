package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/clipdeck/clipdeck/internal/db/models"
	"github.com/clipdeck/clipdeck/internal/web/handler"
	"github.com/clipdeck/clipdeck/internal/web/session"
)

// CurrentUserKey is the fiber.Locals key holding the authenticated user.
const CurrentUserKey = "CurrentUser"

// Required rejects requests without a valid session and stores the
// authenticated user in fiber.Locals for handlers downstream.
func Required(c *fiber.Ctx) error {
	cookie := c.Cookies(session.CookieName)
	if cookie == "" {
		return handler.Error(c, fiber.StatusUnauthorized, handler.MsgUnauthorized)
	}

	sessData := new(session.Data)
	if err := sessData.Read(cookie); err != nil || sessData.User.ID == 0 {
		return handler.Error(c, fiber.StatusUnauthorized, handler.MsgUnauthorized)
	}

	c.Locals(CurrentUserKey, sessData.User)

	return c.Next()
}

// AdminOnly rejects requests from callers without the admin role. Must run
// after Required.
func AdminOnly(c *fiber.Ctx) error {
	user, ok := CurrentUser(c)
	if !ok {
		return handler.Error(c, fiber.StatusUnauthorized, handler.MsgUnauthorized)
	}

	if !user.IsAdmin() {
		return handler.Error(c, fiber.StatusForbidden, handler.MsgForbidden)
	}

	return c.Next()
}

// CurrentUser returns the authenticated user stored by Required.
func CurrentUser(c *fiber.Ctx) (models.User, bool) {
	user, ok := c.Locals(CurrentUserKey).(models.User)
	return user, ok
}
