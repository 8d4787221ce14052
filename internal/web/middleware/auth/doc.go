// Package auth provides authentication middleware for the JSON API.
//
// The middleware validates the session cookie against the session store and
// adds the current user to fiber.Locals for use in handlers. Requests
// without a valid session receive a 401 JSON error; AdminOnly additionally
// enforces the admin role with a 403.
//
// Usage:
//
//	app.Get("/videos/liked", auth.Required, handler)
//	app.Delete("/videos/:videoId", auth.Required, auth.AdminOnly, handler)
package auth
