// Package accesscodes provides handlers for creating, joining and listing
// access-code groups.
package accesscodes

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/clipdeck/clipdeck/internal/config"
	"github.com/clipdeck/clipdeck/internal/db/controller/accesscode"
	"github.com/clipdeck/clipdeck/internal/web/handler"
	authmw "github.com/clipdeck/clipdeck/internal/web/middleware/auth"
)

const (
	// Path is the base path for access-code routes.
	Path = "/access-codes"

	// ErrNameRequired is returned when the group name is missing or empty.
	ErrNameRequired = "Name required"
	// ErrCodeRequired is returned when the join code is missing or empty.
	ErrCodeRequired = "Code required"
	// ErrGroupNotFound is returned when no group matches the given code.
	ErrGroupNotFound = "Group not found"
	// ErrAlreadyJoined is returned when the caller is already a member.
	ErrAlreadyJoined = "Already joined"
	// ErrCreationFailed is returned when group creation fails.
	ErrCreationFailed = "Creation failed"
)

type createInput struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

type joinInput struct {
	Code string `json:"code" validate:"required"`
}

// Service provides access-code group operations.
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

	app.Get(Path, authmw.Required, s.List)
	app.Post(Path+"/create", authmw.Required, s.Create)
	app.Post(Path+"/join", authmw.Required, s.Join)
}

// List returns all groups the caller belongs to, newest first.
func (s *Service) List(c *fiber.Ctx) error {
	user, _ := authmw.CurrentUser(c)

	groups, err := accesscode.ListForUser(s.db, user.ID)
	if err != nil {
		log.Error().Err(err).Uint64("user_id", user.ID).Msg("failed to list groups")
		return handler.Error(c, fiber.StatusInternalServerError, "Failed to fetch groups")
	}

	return c.JSON(groups)
}

// Create makes a new group with a fresh code and the caller as owner.
func (s *Service) Create(c *fiber.Ctx) error {
	user, _ := authmw.CurrentUser(c)

	var input createInput
	if err := c.BodyParser(&input); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, ErrNameRequired)
	}

	if err := s.validator.Struct(input); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, ErrNameRequired)
	}

	group, err := accesscode.Create(s.db, user.ID, input.Name)

	switch {
	case errors.Is(err, accesscode.ErrNameEmpty):
		return handler.Error(c, fiber.StatusBadRequest, ErrNameRequired)
	case errors.Is(err, accesscode.ErrCodeSpaceExhausted):
		log.Error().Err(err).Msg("access code generation exhausted retries")
		return handler.Error(c, fiber.StatusInternalServerError, ErrCreationFailed)
	case err != nil:
		log.Error().Err(err).Msg("failed to create group")
		return handler.Error(c, fiber.StatusInternalServerError, ErrCreationFailed)
	}

	return c.Status(fiber.StatusCreated).JSON(group)
}

// Join adds the caller to the group identified by the submitted code.
func (s *Service) Join(c *fiber.Ctx) error {
	user, _ := authmw.CurrentUser(c)

	var input joinInput
	if err := c.BodyParser(&input); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, ErrCodeRequired)
	}

	if err := s.validator.Struct(input); err != nil {
		return handler.Error(c, fiber.StatusBadRequest, ErrCodeRequired)
	}

	group, err := accesscode.Join(s.db, user.ID, input.Code)

	switch {
	case errors.Is(err, accesscode.ErrCodeEmpty):
		return handler.Error(c, fiber.StatusBadRequest, ErrCodeRequired)
	case errors.Is(err, accesscode.ErrCodeNotFound):
		return handler.Error(c, fiber.StatusNotFound, ErrGroupNotFound)
	case errors.Is(err, accesscode.ErrAlreadyMember):
		return handler.Error(c, fiber.StatusBadRequest, ErrAlreadyJoined)
	case err != nil:
		log.Error().Err(err).Msg("failed to join group")
		return handler.Error(c, fiber.StatusInternalServerError, "Join failed")
	}

	return c.JSON(group)
}
