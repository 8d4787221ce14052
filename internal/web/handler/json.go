// Package handler contains shared helpers and constants for the JSON API
// handlers.
package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// Error writes the JSON error envelope used by every API failure response.
func Error(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"error": msg})
}

// ParamID parses a positive numeric route parameter.
func ParamID(c *fiber.Ctx, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}

	return id, true
}
