package engagement

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

func createUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()

	u := &models.User{Username: name, Email: name + "@example.com", Password: "x"}
	require.NoError(t, db.Create(u).Error)

	return u
}

func createVideo(t *testing.T, db *gorm.DB, uploader *models.User) *models.Video {
	t.Helper()

	group := &models.AccessCode{Code: "TESTCODE", Name: "test", OwnerID: uploader.ID}
	require.NoError(t, db.Create(group).Error)

	v := &models.Video{
		UploaderID:   uploader.ID,
		AccessCodeID: group.ID,
		Title:        "clip",
		FileURL:      "https://cdn.example.com/clip.mp4",
	}
	require.NoError(t, db.Create(v).Error)

	return v
}

func TestRecordViewIdempotent(t *testing.T) {
	db := testDB(t)
	user := createUser(t, db, "viewer")
	v := createVideo(t, db, user)

	// a double-tap or retried request must not inflate the count
	require.NoError(t, RecordView(db, user.ID, v.ID))
	require.NoError(t, RecordView(db, user.ID, v.ID))
	require.NoError(t, RecordView(db, user.ID, v.ID))

	count, err := CountViews(db, v.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestCountViewsDistinctUsers(t *testing.T) {
	db := testDB(t)
	uploader := createUser(t, db, "uploader")
	v := createVideo(t, db, uploader)

	other := createUser(t, db, "other")

	require.NoError(t, RecordView(db, uploader.ID, v.ID))
	require.NoError(t, RecordView(db, other.ID, v.ID))

	count, err := CountViews(db, v.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestToggleLike(t *testing.T) {
	db := testDB(t)
	user := createUser(t, db, "liker")
	v := createVideo(t, db, user)

	liked, err := ToggleLike(db, user.ID, v.ID)
	require.NoError(t, err)
	assert.True(t, liked)

	has, err := HasLiked(db, user.ID, v.ID)
	require.NoError(t, err)
	assert.True(t, has)

	count, err := CountLikes(db, v.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// toggling again removes the like
	liked, err = ToggleLike(db, user.ID, v.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	has, err = HasLiked(db, user.ID, v.ID)
	require.NoError(t, err)
	assert.False(t, has)

	count, err = CountLikes(db, v.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	// and once more restores it
	liked, err = ToggleLike(db, user.ID, v.ID)
	require.NoError(t, err)
	assert.True(t, liked)
}

func TestLikesArePerUser(t *testing.T) {
	db := testDB(t)
	uploader := createUser(t, db, "uploader")
	v := createVideo(t, db, uploader)

	other := createUser(t, db, "other")

	_, err := ToggleLike(db, uploader.ID, v.ID)
	require.NoError(t, err)
	_, err = ToggleLike(db, other.ID, v.ID)
	require.NoError(t, err)

	count, err := CountLikes(db, v.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	// one user unliking leaves the other's like alone
	_, err = ToggleLike(db, other.ID, v.ID)
	require.NoError(t, err)

	has, err := HasLiked(db, uploader.ID, v.ID)
	require.NoError(t, err)
	assert.True(t, has)

	count, err = CountLikes(db, v.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestNilDB(t *testing.T) {
	assert.ErrorIs(t, RecordView(nil, 1, 1), ErrDBNil)

	_, err := ToggleLike(nil, 1, 1)
	assert.ErrorIs(t, err, ErrDBNil)

	_, err = CountViews(nil, 1)
	assert.ErrorIs(t, err, ErrDBNil)

	_, err = CountLikes(nil, 1)
	assert.ErrorIs(t, err, ErrDBNil)

	_, err = HasLiked(nil, 1, 1)
	assert.ErrorIs(t, err, ErrDBNil)
}
