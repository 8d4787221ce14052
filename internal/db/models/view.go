package models

import "time"

// View records that a user has watched a video. At most one row exists per
// (user, video) pair; the composite primary key absorbs duplicate inserts so
// repeated or concurrent view reports never inflate the count.
type View struct {
	// UserID is the ID of the viewing user.
	UserID uint64 `gorm:"primaryKey;column:user_id"`
	// VideoID is the ID of the viewed video.
	VideoID uint64 `gorm:"primaryKey;column:video_id"`
	// User is the associated user (loaded via foreign key).
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	// Video is the associated video (loaded via foreign key).
	// When a video is deleted, its view records are removed (CASCADE).
	Video Video `gorm:"foreignKey:VideoID;constraint:OnDelete:CASCADE"`
	// CreatedAt is the timestamp when the view was first recorded (managed by GORM).
	CreatedAt time.Time
}

// TableName specifies the database table name for the View model.
func (View) TableName() string {
	return "video_views"
}
