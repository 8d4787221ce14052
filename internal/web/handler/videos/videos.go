// Package videos provides the feed and engagement handlers: paginated fetch,
// per-uploader and liked listings, view/like recording and admin deletion.
package videos

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/clipdeck/clipdeck/internal/config"
	"github.com/clipdeck/clipdeck/internal/db/controller/engagement"
	"github.com/clipdeck/clipdeck/internal/db/controller/feed"
	"github.com/clipdeck/clipdeck/internal/db/controller/video"
	"github.com/clipdeck/clipdeck/internal/objstore"
	"github.com/clipdeck/clipdeck/internal/web/handler"
	authmw "github.com/clipdeck/clipdeck/internal/web/middleware/auth"
)

const (
	// Path is the base path for video routes.
	Path = "/videos"

	// ErrVideoNotFound is returned when no video matches the given id.
	ErrVideoNotFound = "Video not found"
)

// Service provides feed and engagement operations.
type Service struct {
	cfg   *config.Config
	db    *gorm.DB
	store *objstore.Client
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers routes. The object storage client may be nil in tests; it
// is only used for best-effort cleanup on delete.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, store *objstore.Client) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.cfg = cfg
	s.db = db
	s.store = store

	app.Get(Path+"/fetchAll", authmw.Required, s.FetchAll)
	app.Get(Path+"/fetchByUser/:userId", authmw.Required, s.FetchByUser)
	app.Get(Path+"/liked", authmw.Required, s.Liked)
	app.Post(Path+"/:videoId/view", authmw.Required, s.View)
	app.Post(Path+"/:videoId/like", authmw.Required, s.Like)
	app.Delete(Path+"/:videoId", authmw.Required, authmw.AdminOnly, s.Delete)
}

// FetchAll returns one page of the caller's membership-scoped feed.
func (s *Service) FetchAll(c *fiber.Ctx) error {
	user, _ := authmw.CurrentUser(c)

	limit := c.QueryInt("limit", 0)
	offset := c.QueryInt("offset", 0)

	page, err := feed.Fetch(s.db, user.ID, limit, offset)
	if err != nil {
		log.Error().Err(err).Uint64("user_id", user.ID).Msg("failed to fetch feed")
		return handler.Error(c, fiber.StatusInternalServerError, "Failed to fetch videos")
	}

	return c.JSON(page)
}

// FetchByUser returns all videos by one uploader, newest first.
func (s *Service) FetchByUser(c *fiber.Ctx) error {
	user, _ := authmw.CurrentUser(c)

	uploaderID, ok := handler.ParamID(c, "userId")
	if !ok {
		return handler.Error(c, fiber.StatusBadRequest, handler.MsgInvalidID)
	}

	items, err := feed.ByUploader(s.db, user.ID, uploaderID)
	if err != nil {
		log.Error().Err(err).Uint64("uploader_id", uploaderID).Msg("failed to fetch uploader videos")
		return handler.Error(c, fiber.StatusInternalServerError, "Failed to fetch user videos")
	}

	return c.JSON(items)
}

// Liked returns the caller's liked videos, most recently liked first.
func (s *Service) Liked(c *fiber.Ctx) error {
	user, _ := authmw.CurrentUser(c)

	items, err := feed.Liked(s.db, user.ID)
	if err != nil {
		log.Error().Err(err).Uint64("user_id", user.ID).Msg("failed to fetch liked videos")
		return handler.Error(c, fiber.StatusInternalServerError, "Failed to fetch liked clips")
	}

	return c.JSON(items)
}

// View records that the caller watched the video. Duplicate reports are
// silently absorbed.
func (s *Service) View(c *fiber.Ctx) error {
	user, _ := authmw.CurrentUser(c)

	videoID, ok := handler.ParamID(c, "videoId")
	if !ok {
		return handler.Error(c, fiber.StatusBadRequest, handler.MsgInvalidID)
	}

	if err := engagement.RecordView(s.db, user.ID, videoID); err != nil {
		log.Error().Err(err).Uint64("video_id", videoID).Msg("failed to record view")
		return handler.Error(c, fiber.StatusInternalServerError, "Failed to record view")
	}

	return c.JSON(fiber.Map{"success": true})
}

// Like toggles the caller's like on the video and reports the new state.
func (s *Service) Like(c *fiber.Ctx) error {
	user, _ := authmw.CurrentUser(c)

	videoID, ok := handler.ParamID(c, "videoId")
	if !ok {
		return handler.Error(c, fiber.StatusBadRequest, handler.MsgInvalidID)
	}

	liked, err := engagement.ToggleLike(s.db, user.ID, videoID)
	if err != nil {
		log.Error().Err(err).Uint64("video_id", videoID).Msg("failed to toggle like")
		return handler.Error(c, fiber.StatusInternalServerError, "Failed to toggle like")
	}

	return c.JSON(fiber.Map{"liked": liked})
}

// Delete removes a video (admin only). Engagement rows go with it via the
// cascade constraints; the stored object is deleted best-effort afterwards
// since the row is the source of truth for feeds.
func (s *Service) Delete(c *fiber.Ctx) error {
	videoID, ok := handler.ParamID(c, "videoId")
	if !ok {
		return handler.Error(c, fiber.StatusBadRequest, handler.MsgInvalidID)
	}

	v, err := video.Get(s.db, videoID)
	if err != nil {
		if errors.Is(err, video.ErrVideoNotFound) {
			return handler.Error(c, fiber.StatusNotFound, ErrVideoNotFound)
		}

		log.Error().Err(err).Uint64("video_id", videoID).Msg("failed to load video")

		return handler.Error(c, fiber.StatusInternalServerError, "Failed to delete video")
	}

	if err := video.Delete(s.db, videoID); err != nil {
		if errors.Is(err, video.ErrVideoNotFound) {
			return handler.Error(c, fiber.StatusNotFound, ErrVideoNotFound)
		}

		log.Error().Err(err).Uint64("video_id", videoID).Msg("failed to delete video")

		return handler.Error(c, fiber.StatusInternalServerError, "Failed to delete video")
	}

	if s.store != nil {
		if key, ok := s.store.KeyFromURL(v.FileURL); ok {
			if err := s.store.Delete(c.Context(), key); err != nil {
				log.Warn().Err(err).Str("key", key).Msg("failed to delete stored object")
			}
		}
	}

	return c.JSON(fiber.Map{"success": true})
}
