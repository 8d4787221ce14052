package models

import "time"

// Video represents an uploaded clip. Every video belongs to exactly one
// access-code group, which decides who sees it in the feed. The stored
// FileURL is an opaque locator into external object storage.
type Video struct {
	// ID is the unique identifier for the video.
	ID uint64 `gorm:"primaryKey" json:"id"`
	// UploaderID is the user who uploaded the video.
	UploaderID uint64 `gorm:"not null;index" json:"uploader_id"`
	// Uploader is the associated user (loaded via foreign key).
	Uploader User `gorm:"foreignKey:UploaderID;constraint:OnDelete:CASCADE" json:"-"`
	// AccessCodeID is the owning group. Required: uploads without a
	// resolvable destination group are rejected.
	AccessCodeID uint64 `gorm:"not null;index" json:"access_code_id"`
	// AccessCode is the associated group (loaded via foreign key).
	// When a group is deleted, its videos are removed (CASCADE).
	AccessCode AccessCode `gorm:"foreignKey:AccessCodeID;constraint:OnDelete:CASCADE" json:"-"`
	// Title is the display title of the video.
	Title string `gorm:"size:255;not null" json:"title"`
	// FileURL is the publicly resolvable object storage locator.
	FileURL string `gorm:"size:512;not null" json:"file_url"`
	// UploadedAt is the timestamp when the upload was committed.
	UploadedAt time.Time `gorm:"autoCreateTime;index" json:"uploaded_at"`
}

// TableName specifies the database table name for the Video model.
func (Video) TableName() string {
	return "videos"
}
