// Package account provides registration, login and session endpoints.
// Credential verification and session issuance live entirely here; the rest
// of the API only ever sees the authenticated user placed in fiber.Locals by
// the auth middleware.
package account

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/clipdeck/clipdeck/internal/config"
	"github.com/clipdeck/clipdeck/internal/db/models"
	"github.com/clipdeck/clipdeck/internal/web/handler"
	authmw "github.com/clipdeck/clipdeck/internal/web/middleware/auth"
	"github.com/clipdeck/clipdeck/internal/web/session"
)

const (
	// Path is the base path for account routes.
	Path = "/auth"
)

type registerInput struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=1,max=100"`
	Password string `json:"password" validate:"required,min=1"`
}

type loginInput struct {
	EmailOrUsername string `json:"emailOrUsername" validate:"required"`
	Password        string `json:"password" validate:"required"`
}

// Service is the account handler service.
type Service struct {
	cfg       *config.Config
	db        *gorm.DB
	validator *validator.Validate
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.db = db
	s.validator = validator.New()

	app.Post(Path+"/register", s.Register)
	app.Post(Path+"/login", s.Login)
	app.Post(Path+"/logout", s.Logout)
	app.Get(Path+"/me", authmw.Required, s.Me)
}

// Register creates a new account and logs it in.
func (s *Service) Register(c *fiber.Ctx) error {
	var input registerInput
	if err := c.BodyParser(&input); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, "All fields required")
	}

	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Username = strings.TrimSpace(input.Username)

	if err := s.validator.Struct(input); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, "All fields required")
	}

	var taken int64

	err := s.db.Model(&models.User{}).
		Where("LOWER(email) = ? OR LOWER(username) = ?", input.Email, strings.ToLower(input.Username)).
		Count(&taken).Error
	if err != nil {
		log.Error().Err(err).Msg("failed to check account availability")
		return handler.Error(c, fiber.StatusInternalServerError, "Registration failed")
	}

	if taken > 0 {
		return handler.Error(c, fiber.StatusBadRequest, "Email or username already exists")
	}

	user := models.User{
		Email:    input.Email,
		Username: input.Username,
		Password: models.HashPassword(input.Password),
		Role:     models.RoleUser,
	}

	if err := s.db.Create(&user).Error; err != nil {
		// The unique constraint is the race-breaker for concurrent
		// registrations that both pass the availability check.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return handler.Error(c, fiber.StatusBadRequest, "Email or username already exists")
		}

		log.Error().Err(err).Msg("failed to create user")

		return handler.Error(c, fiber.StatusInternalServerError, "Registration failed")
	}

	if err := s.startSession(c, user); err != nil {
		log.Error().Err(err).Msg("failed to start session")
		return handler.Error(c, fiber.StatusInternalServerError, "Registration failed")
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

// Login verifies credentials and starts a session.
func (s *Service) Login(c *fiber.Ctx) error {
	var input loginInput
	if err := c.BodyParser(&input); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, "Missing credentials")
	}

	if err := s.validator.Struct(input); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, "Missing credentials")
	}

	lookup := strings.ToLower(strings.TrimSpace(input.EmailOrUsername))

	var user models.User

	err := s.db.Where("LOWER(email) = ? OR LOWER(username) = ?", lookup, lookup).
		First(&user).Error
	if err != nil {
		return handler.Error(c, fiber.StatusUnauthorized, "Invalid credentials")
	}

	if !user.VerifyPassword(input.Password) {
		return handler.Error(c, fiber.StatusUnauthorized, "Invalid credentials")
	}

	if err := s.startSession(c, user); err != nil {
		log.Error().Err(err).Msg("failed to start session")
		return handler.Error(c, fiber.StatusInternalServerError, "Login failed")
	}

	return c.JSON(user)
}

// Logout destroys the caller's session.
func (s *Service) Logout(c *fiber.Ctx) error {
	if cookie := c.Cookies(session.CookieName); cookie != "" {
		if err := session.Delete(cookie); err != nil {
			log.Warn().Err(err).Msg("failed to delete session")
		}
	}

	c.Cookie(&fiber.Cookie{
		Name:     session.CookieName,
		Value:    "",
		MaxAge:   -1,
		HTTPOnly: true,
		SameSite: "Lax",
	})

	return c.JSON(fiber.Map{"message": "Logged out"})
}

// Me returns the authenticated caller.
func (s *Service) Me(c *fiber.Ctx) error {
	user, ok := authmw.CurrentUser(c)
	if !ok {
		return handler.Error(c, fiber.StatusUnauthorized, handler.MsgUnauthorized)
	}

	return c.JSON(user)
}

// startSession writes a fresh session for user and sets the session cookie.
func (s *Service) startSession(c *fiber.Ctx, user models.User) error {
	sessionID, err := session.GenerateSessionID()
	if err != nil {
		return err
	}

	userSession := &session.Data{User: user}
	if err := userSession.Write(sessionID, s.cfg.Webserver.Session.ExpiryTime); err != nil {
		return err
	}

	cookie := &fiber.Cookie{
		Name:     session.CookieName,
		Value:    sessionID,
		MaxAge:   int(s.cfg.Webserver.Session.ExpiryTime.Seconds()),
		Secure:   true,
		HTTPOnly: true,
		SameSite: "Lax",
	}

	if s.cfg.DevMode {
		cookie.Secure = false
	}

	c.Cookie(cookie)

	return nil
}
