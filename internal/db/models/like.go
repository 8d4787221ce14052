package models

import "time"

// Like records that a user currently likes a video. Presence of the row means
// liked, absence means not liked; toggling is a conditional delete-or-insert,
// never an accumulating log. At most one row exists per (user, video) pair.
type Like struct {
	// UserID is the ID of the liking user.
	UserID uint64 `gorm:"primaryKey;column:user_id"`
	// VideoID is the ID of the liked video.
	VideoID uint64 `gorm:"primaryKey;column:video_id"`
	// User is the associated user (loaded via foreign key).
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	// Video is the associated video (loaded via foreign key).
	// When a video is deleted, its like records are removed (CASCADE).
	Video Video `gorm:"foreignKey:VideoID;constraint:OnDelete:CASCADE"`
	// CreatedAt is when the like was set; the liked feed is ordered by it.
	CreatedAt time.Time
}

// TableName specifies the database table name for the Like model.
func (Like) TableName() string {
	return "video_likes"
}
