// Package video provides the content registry: creation and deletion of
// video metadata rows. File bytes live in external object storage; rows hold
// the opaque locator.
package video

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/clipdeck/clipdeck/internal/db/models"
)

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrVideoNotFound is returned when no video matches the given id.
	ErrVideoNotFound = errors.New("video not found")
	// ErrTitleEmpty is returned when attempting to create a video without a title.
	ErrTitleEmpty = errors.New("video title cannot be empty")
	// ErrAccessCodeRequired is returned when the destination group is missing.
	// Every video must be scoped to a group; there is no legacy unscoped path.
	ErrAccessCodeRequired = errors.New("video requires a destination access code group")
	// ErrFileURLEmpty is returned when the storage locator is missing.
	ErrFileURLEmpty = errors.New("video file url cannot be empty")
)

// Create inserts a new video row for a committed upload.
func Create(db *gorm.DB, uploaderID, accessCodeID uint64, title, fileURL string) (*models.Video, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrTitleEmpty
	}

	if accessCodeID == 0 {
		return nil, ErrAccessCodeRequired
	}

	if fileURL == "" {
		return nil, ErrFileURLEmpty
	}

	v := &models.Video{
		UploaderID:   uploaderID,
		AccessCodeID: accessCodeID,
		Title:        title,
		FileURL:      fileURL,
	}

	if err := db.Create(v).Error; err != nil {
		return nil, err
	}

	return v, nil
}

// Get retrieves a video by id.
func Get(db *gorm.DB, id uint64) (*models.Video, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var v models.Video
	if err := db.First(&v, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVideoNotFound
		}

		return nil, err
	}

	return &v, nil
}

// Delete removes a video row. Engagement rows referencing the video are
// removed by the ON DELETE CASCADE constraints on video_views and
// video_likes, so nothing dangling can resurface in a feed.
func Delete(db *gorm.DB, id uint64) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Delete(&models.Video{}, id)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrVideoNotFound
	}

	return nil
}
