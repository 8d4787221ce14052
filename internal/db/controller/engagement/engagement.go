// Package engagement records per-user view and like facts against videos and
// serves the aggregates the feed decorates items with. All writes are single
// atomic conditional operations: duplicate views collapse on the composite
// primary key, and like toggling is a conditional delete-or-insert inside one
// transaction, so any interleaving of concurrent requests settles into a
// state some sequential ordering would have produced.
package engagement

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/clipdeck/clipdeck/internal/db/models"
)

// ErrDBNil is returned when the database connection is nil.
var ErrDBNil = errors.New("database connection is nil")

// RecordView stores the fact that the user has watched the video. The insert
// is insert-if-absent; duplicates (double-tap, retry) are silently absorbed.
func RecordView(db *gorm.DB, userID, videoID uint64) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.View{
		UserID:  userID,
		VideoID: videoID,
	}).Error
}

// ToggleLike flips the like state for the (user, video) pair and reports the
// resulting state. The delete-else-insert runs in one transaction; a
// concurrent toggle that wins the insert is absorbed by the conflict clause
// instead of corrupting the 0-or-1 presence invariant.
func ToggleLike(db *gorm.DB, userID, videoID uint64) (bool, error) {
	if db == nil {
		return false, ErrDBNil
	}

	var liked bool

	err := db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_id = ? AND video_id = ?", userID, videoID).
			Delete(&models.Like{})
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected > 0 {
			liked = false
			return nil
		}

		insert := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.Like{
			UserID:  userID,
			VideoID: videoID,
		})
		if insert.Error != nil {
			return insert.Error
		}

		liked = true

		return nil
	})

	return liked, err
}

// CountViews returns how many distinct users have viewed the video.
func CountViews(db *gorm.DB, videoID uint64) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	var count int64

	err := db.Model(&models.View{}).Where("video_id = ?", videoID).Count(&count).Error

	return count, err
}

// CountLikes returns how many users currently like the video.
func CountLikes(db *gorm.DB, videoID uint64) (int64, error) {
	if db == nil {
		return 0, ErrDBNil
	}

	var count int64

	err := db.Model(&models.Like{}).Where("video_id = ?", videoID).Count(&count).Error

	return count, err
}

// HasLiked reports whether the user currently likes the video.
func HasLiked(db *gorm.DB, userID, videoID uint64) (bool, error) {
	if db == nil {
		return false, ErrDBNil
	}

	var count int64

	err := db.Model(&models.Like{}).
		Where("user_id = ? AND video_id = ?", userID, videoID).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}
