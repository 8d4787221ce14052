package video

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/clipdeck/clipdeck/internal/db/models"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1) // keep the single in-memory database

	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.AccessCode{},
		&models.Membership{},
		&models.Video{},
		&models.View{},
		&models.Like{},
	))

	return db
}

func seed(t *testing.T, db *gorm.DB) (*models.User, *models.AccessCode) {
	t.Helper()

	u := &models.User{Username: "uploader", Email: "uploader@example.com", Password: "x"}
	require.NoError(t, db.Create(u).Error)

	group := &models.AccessCode{Code: "TESTCODE", Name: "test", OwnerID: u.ID}
	require.NoError(t, db.Create(group).Error)

	return u, group
}

func TestCreate(t *testing.T) {
	db := testDB(t)
	uploader, group := seed(t, db)

	v, err := Create(db, uploader.ID, group.ID, "  My Clip  ", "https://cdn.example.com/clip.mp4")
	require.NoError(t, err)
	require.NotNil(t, v)

	assert.NotZero(t, v.ID)
	assert.Equal(t, "My Clip", v.Title)
	assert.Equal(t, uploader.ID, v.UploaderID)
	assert.Equal(t, group.ID, v.AccessCodeID)
	assert.False(t, v.UploadedAt.IsZero())
}

func TestCreateValidation(t *testing.T) {
	db := testDB(t)
	uploader, group := seed(t, db)

	tests := []struct {
		name         string
		title        string
		accessCodeID uint64
		fileURL      string
		wantErr      error
	}{
		{"empty title", "", group.ID, "https://cdn.example.com/clip.mp4", ErrTitleEmpty},
		{"whitespace title", "   ", group.ID, "https://cdn.example.com/clip.mp4", ErrTitleEmpty},
		{"missing group", "clip", 0, "https://cdn.example.com/clip.mp4", ErrAccessCodeRequired},
		{"missing file url", "clip", group.ID, "", ErrFileURLEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Create(db, uploader.ID, tt.accessCodeID, tt.title, tt.fileURL)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err := Create(nil, uploader.ID, group.ID, "clip", "https://cdn.example.com/clip.mp4")
	assert.ErrorIs(t, err, ErrDBNil)
}

func TestGet(t *testing.T) {
	db := testDB(t)
	uploader, group := seed(t, db)

	created, err := Create(db, uploader.ID, group.ID, "clip", "https://cdn.example.com/clip.mp4")
	require.NoError(t, err)

	got, err := Get(db, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "clip", got.Title)

	_, err = Get(db, created.ID+1000)
	assert.ErrorIs(t, err, ErrVideoNotFound)

	_, err = Get(nil, created.ID)
	assert.ErrorIs(t, err, ErrDBNil)
}

func TestDelete(t *testing.T) {
	db := testDB(t)
	uploader, group := seed(t, db)

	created, err := Create(db, uploader.ID, group.ID, "clip", "https://cdn.example.com/clip.mp4")
	require.NoError(t, err)

	require.NoError(t, Delete(db, created.ID))

	_, err = Get(db, created.ID)
	assert.ErrorIs(t, err, ErrVideoNotFound)

	assert.ErrorIs(t, Delete(db, created.ID), ErrVideoNotFound)
	assert.ErrorIs(t, Delete(nil, created.ID), ErrDBNil)
}

func TestDeleteCascadesEngagement(t *testing.T) {
	db := testDB(t)
	uploader, group := seed(t, db)

	kept, err := Create(db, uploader.ID, group.ID, "kept", "https://cdn.example.com/kept.mp4")
	require.NoError(t, err)
	doomed, err := Create(db, uploader.ID, group.ID, "doomed", "https://cdn.example.com/doomed.mp4")
	require.NoError(t, err)

	for _, videoID := range []uint64{kept.ID, doomed.ID} {
		require.NoError(t, db.Create(&models.View{UserID: uploader.ID, VideoID: videoID}).Error)
		require.NoError(t, db.Create(&models.Like{UserID: uploader.ID, VideoID: videoID}).Error)
	}

	require.NoError(t, Delete(db, doomed.ID))

	// engagement rows of the deleted video are gone, the rest untouched
	var viewCount, likeCount int64

	require.NoError(t, db.Model(&models.View{}).Where("video_id = ?", doomed.ID).Count(&viewCount).Error)
	require.NoError(t, db.Model(&models.Like{}).Where("video_id = ?", doomed.ID).Count(&likeCount).Error)
	assert.Zero(t, viewCount)
	assert.Zero(t, likeCount)

	require.NoError(t, db.Model(&models.View{}).Where("video_id = ?", kept.ID).Count(&viewCount).Error)
	require.NoError(t, db.Model(&models.Like{}).Where("video_id = ?", kept.ID).Count(&likeCount).Error)
	assert.Equal(t, int64(1), viewCount)
	assert.Equal(t, int64(1), likeCount)
}
