// Package upload handles multipart uploads: video clips committed into a
// destination group and profile pictures. File bytes go to object storage;
// only the resulting public URL is persisted.
package upload

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/clipdeck/clipdeck/internal/config"
	"github.com/clipdeck/clipdeck/internal/db/controller/accesscode"
	"github.com/clipdeck/clipdeck/internal/db/controller/video"
	"github.com/clipdeck/clipdeck/internal/db/models"
	"github.com/clipdeck/clipdeck/internal/objstore"
	"github.com/clipdeck/clipdeck/internal/web/handler"
	authmw "github.com/clipdeck/clipdeck/internal/web/middleware/auth"
	"github.com/clipdeck/clipdeck/internal/web/session"
)

const (
	// Path is the base path for upload routes.
	Path = "/upload"

	// maxProfilePicSize caps profile picture uploads at 5 MB.
	maxProfilePicSize = 5 << 20
)

// Service provides upload operations.
type Service struct {
	cfg   *config.Config
	db    *gorm.DB
	store *objstore.Client
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers routes.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, store *objstore.Client) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.db = db
	s.store = store

	app.Post(Path+"/video", authmw.Required, s.Video)
	app.Post(Path+"/profile-pic", authmw.Required, s.ProfilePic)
}

// Video commits a clip upload: the destination group is mandatory and the
// caller must be one of its members. Only mp4 video is accepted.
func (s *Service) Video(c *fiber.Ctx) error {
	user, _ := authmw.CurrentUser(c)

	fileHeader, err := c.FormFile("video")
	if err != nil {
		return handler.Error(c, fiber.StatusBadRequest, "No file uploaded")
	}

	accessCodeID, err := strconv.ParseUint(c.FormValue("access_code_id"), 10, 64)
	if err != nil || accessCodeID == 0 {
		return handler.Error(c, fiber.StatusBadRequest, "Destination group required")
	}

	member, err := accesscode.IsMember(s.db, user.ID, accessCodeID)
	if err != nil {
		log.Error().Err(err).Msg("failed to check group membership")
		return handler.Error(c, fiber.StatusInternalServerError, "Upload failed")
	}

	if !member {
		return handler.Error(c, fiber.StatusForbidden, "Not a member of this group")
	}

	contentType := objstore.ResolveContentType(fileHeader.Filename, fileHeader.Header.Get("Content-Type"))
	if contentType != "video/mp4" {
		return handler.Error(c, fiber.StatusBadRequest, "Only mp4 videos are allowed")
	}

	title := strings.TrimSpace(c.FormValue("title"))
	if title == "" {
		title = fileHeader.Filename
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Error().Err(err).Msg("failed to open uploaded file")
		return handler.Error(c, fiber.StatusInternalServerError, "Upload failed")
	}
	defer file.Close()

	key := objstore.NewKey("videos", fileHeader.Filename)

	fileURL, err := s.store.Upload(c.Context(), key, file, fileHeader.Size, contentType)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to upload video")
		return handler.Error(c, fiber.StatusInternalServerError, "Upload failed")
	}

	if _, err := video.Create(s.db, user.ID, accessCodeID, title, fileURL); err != nil {
		log.Error().Err(err).Msg("failed to create video row")

		// The upload committed but the row did not; remove the orphan object.
		if delErr := s.store.Delete(c.Context(), key); delErr != nil {
			log.Warn().Err(delErr).Str("key", key).Msg("failed to delete orphaned object")
		}

		return handler.Error(c, fiber.StatusInternalServerError, "Upload failed")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "fileUrl": fileURL})
}

// ProfilePic replaces the caller's profile picture. The previous object is
// deleted best-effort before the new URL is stored.
func (s *Service) ProfilePic(c *fiber.Ctx) error {
	user, _ := authmw.CurrentUser(c)

	fileHeader, err := c.FormFile("profilePic")
	if err != nil {
		return handler.Error(c, fiber.StatusBadRequest, "No file uploaded")
	}

	if fileHeader.Size > maxProfilePicSize {
		return handler.Error(c, fiber.StatusBadRequest, "File too large")
	}

	contentType := objstore.ResolveContentType(fileHeader.Filename, fileHeader.Header.Get("Content-Type"))
	if !strings.HasPrefix(contentType, "image/") {
		return handler.Error(c, fiber.StatusBadRequest, "Only image files are allowed")
	}

	var current models.User
	if err := s.db.First(&current, user.ID).Error; err != nil {
		log.Error().Err(err).Uint64("user_id", user.ID).Msg("failed to load user")
		return handler.Error(c, fiber.StatusInternalServerError, "Failed to upload profile picture")
	}

	if key, ok := s.store.KeyFromURL(current.ProfilePicURL); ok {
		if err := s.store.Delete(c.Context(), key); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("failed to delete old profile picture")
		}
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Error().Err(err).Msg("failed to open uploaded file")
		return handler.Error(c, fiber.StatusInternalServerError, "Failed to upload profile picture")
	}
	defer file.Close()

	key := objstore.NewKey("profile-pics", fileHeader.Filename)

	fileURL, err := s.store.Upload(c.Context(), key, file, fileHeader.Size, contentType)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to upload profile picture")
		return handler.Error(c, fiber.StatusInternalServerError, "Failed to upload profile picture")
	}

	err = s.db.Model(&models.User{}).
		Where("id = ?", user.ID).
		Update("profile_pic_url", fileURL).Error
	if err != nil {
		log.Error().Err(err).Uint64("user_id", user.ID).Msg("failed to store profile picture url")
		return handler.Error(c, fiber.StatusInternalServerError, "Failed to upload profile picture")
	}

	// Keep the session snapshot in sync so /auth/me reflects the change.
	if cookie := c.Cookies(session.CookieName); cookie != "" {
		sessData := new(session.Data)
		if readErr := sessData.Read(cookie); readErr == nil {
			sessData.User.ProfilePicURL = fileURL
			if writeErr := sessData.Write(cookie, s.cfg.Webserver.Session.ExpiryTime); writeErr != nil {
				log.Warn().Err(writeErr).Msg("failed to refresh session")
			}
		}
	}

	return c.JSON(fiber.Map{"success": true, "profilePicUrl": fileURL})
}
