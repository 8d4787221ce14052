package feed

import (
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/clipdeck/clipdeck/internal/db/controller/engagement"
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

func createGroup(t *testing.T, db *gorm.DB, owner *models.User, code string, members ...*models.User) *models.AccessCode {
	t.Helper()

	group := &models.AccessCode{Code: code, Name: "group " + code, OwnerID: owner.ID}
	require.NoError(t, db.Create(group).Error)

	for _, m := range members {
		require.NoError(t, db.Create(&models.Membership{
			UserID:       m.ID,
			AccessCodeID: group.ID,
		}).Error)
	}

	return group
}

func addVideo(t *testing.T, db *gorm.DB, uploader *models.User, group *models.AccessCode, title string, at time.Time) *models.Video {
	t.Helper()

	v := &models.Video{
		UploaderID:   uploader.ID,
		AccessCodeID: group.ID,
		Title:        title,
		FileURL:      fmt.Sprintf("https://cdn.example.com/%s.mp4", title),
		UploadedAt:   at,
	}
	require.NoError(t, db.Create(v).Error)

	return v
}

func itemIDs(items []Item) []uint64 {
	ids := make([]uint64, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}

	return ids
}

func TestFetchScopesToMemberships(t *testing.T) {
	db := testDB(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	shared := createGroup(t, db, bob, "SHARED00", alice, bob)
	private := createGroup(t, db, bob, "PRIVATE0", bob)

	inShared := addVideo(t, db, bob, shared, "shared-clip", base)
	addVideo(t, db, bob, private, "private-clip", base.Add(time.Hour))

	page, err := Fetch(db, alice.ID, 0, 0)
	require.NoError(t, err)

	require.Len(t, page.Videos, 1)
	assert.Equal(t, inShared.ID, page.Videos[0].ID)
	assert.False(t, page.HasMore)
}

func TestFetchNoMemberships(t *testing.T) {
	db := testDB(t)
	alice := createUser(t, db, "alice")
	loner := createUser(t, db, "loner")

	group := createGroup(t, db, alice, "SHARED00", alice)
	addVideo(t, db, alice, group, "clip", time.Now())

	page, err := Fetch(db, loner.ID, 0, 0)
	require.NoError(t, err)

	// empty slice, not nil, so the JSON field stays [] instead of null
	require.NotNil(t, page.Videos)
	assert.Empty(t, page.Videos)
	assert.False(t, page.HasMore)
}

func TestFetchOrdering(t *testing.T) {
	db := testDB(t)
	alice := createUser(t, db, "alice")

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	group := createGroup(t, db, alice, "SHARED00", alice)

	oldest := addVideo(t, db, alice, group, "oldest", base)
	newest := addVideo(t, db, alice, group, "newest", base.Add(2*time.Hour))
	middle := addVideo(t, db, alice, group, "middle", base.Add(time.Hour))

	page, err := Fetch(db, alice.ID, 0, 0)
	require.NoError(t, err)

	assert.Equal(t, []uint64{newest.ID, middle.ID, oldest.ID}, itemIDs(page.Videos))
}

func TestFetchPagination(t *testing.T) {
	db := testDB(t)
	alice := createUser(t, db, "alice")

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	group := createGroup(t, db, alice, "SHARED00", alice)

	v1 := addVideo(t, db, alice, group, "one", base)
	v2 := addVideo(t, db, alice, group, "two", base.Add(time.Hour))
	v3 := addVideo(t, db, alice, group, "three", base.Add(2*time.Hour))

	first, err := Fetch(db, alice.ID, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, []uint64{v3.ID, v2.ID}, itemIDs(first.Videos))
	assert.True(t, first.HasMore)

	second, err := Fetch(db, alice.ID, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, []uint64{v1.ID}, itemIDs(second.Videos))
	assert.False(t, second.HasMore)
}

func TestFetchLimitClamping(t *testing.T) {
	db := testDB(t)
	alice := createUser(t, db, "alice")

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	group := createGroup(t, db, alice, "SHARED00", alice)

	for i := 0; i < DefaultLimit+1; i++ {
		addVideo(t, db, alice, group, fmt.Sprintf("clip-%d", i), base.Add(time.Duration(i)*time.Minute))
	}

	// zero and negative fall back to the default page size
	page, err := Fetch(db, alice.ID, 0, 0)
	require.NoError(t, err)
	assert.Len(t, page.Videos, DefaultLimit)
	assert.True(t, page.HasMore)

	page, err = Fetch(db, alice.ID, -5, -5)
	require.NoError(t, err)
	assert.Len(t, page.Videos, DefaultLimit)

	// oversized limits clamp instead of scanning unbounded
	page, err = Fetch(db, alice.ID, MaxLimit+1000, 0)
	require.NoError(t, err)
	assert.Len(t, page.Videos, DefaultLimit+1)
	assert.False(t, page.HasMore)
}

func TestFetchDecoration(t *testing.T) {
	db := testDB(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	group := createGroup(t, db, bob, "SHARED00", alice, bob)

	liked := addVideo(t, db, bob, group, "liked-clip", base)
	plain := addVideo(t, db, bob, group, "plain-clip", base.Add(time.Hour))

	require.NoError(t, engagement.RecordView(db, bob.ID, liked.ID))

	_, err := engagement.ToggleLike(db, alice.ID, liked.ID)
	require.NoError(t, err)
	_, err = engagement.ToggleLike(db, bob.ID, liked.ID)
	require.NoError(t, err)

	page, err := Fetch(db, alice.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, page.Videos, 2)

	// newest first: plain-clip, then liked-clip
	first, second := page.Videos[0], page.Videos[1]

	assert.Equal(t, plain.ID, first.ID)
	assert.Equal(t, "bob", first.Uploader)
	assert.Equal(t, int64(0), first.Views)
	assert.Equal(t, int64(0), first.Likes)
	assert.False(t, first.LikedByMe)

	assert.Equal(t, liked.ID, second.ID)
	assert.Equal(t, "liked-clip", second.Title)
	assert.Equal(t, "https://cdn.example.com/liked-clip.mp4", second.FileURL)
	assert.Equal(t, int64(1), second.Views)
	assert.Equal(t, int64(2), second.Likes)
	assert.True(t, second.LikedByMe)

	// the liked flag is per caller
	page, err = Fetch(db, bob.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, page.Videos, 2)
	assert.True(t, page.Videos[1].LikedByMe)
}

func TestByUploaderIsUnscoped(t *testing.T) {
	db := testDB(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	shared := createGroup(t, db, bob, "SHARED00", alice, bob)
	private := createGroup(t, db, bob, "PRIVATE0", bob)

	inShared := addVideo(t, db, bob, shared, "shared-clip", base)
	inPrivate := addVideo(t, db, bob, private, "private-clip", base.Add(time.Hour))
	addVideo(t, db, alice, shared, "alice-clip", base.Add(2*time.Hour))

	// uploader pages are browsable regardless of group membership
	items, err := ByUploader(db, alice.ID, bob.ID)
	require.NoError(t, err)

	assert.Equal(t, []uint64{inPrivate.ID, inShared.ID}, itemIDs(items))
}

func TestLiked(t *testing.T) {
	db := testDB(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	group := createGroup(t, db, bob, "SHARED00", alice, bob)

	first := addVideo(t, db, bob, group, "first", base)
	second := addVideo(t, db, bob, group, "second", base.Add(time.Hour))
	addVideo(t, db, bob, group, "unliked", base.Add(2*time.Hour))

	// like second before first so like time disagrees with upload time
	require.NoError(t, db.Create(&models.Like{
		UserID: alice.ID, VideoID: second.ID, CreatedAt: base.Add(3 * time.Hour),
	}).Error)
	require.NoError(t, db.Create(&models.Like{
		UserID: alice.ID, VideoID: first.ID, CreatedAt: base.Add(4 * time.Hour),
	}).Error)

	items, err := Liked(db, alice.ID)
	require.NoError(t, err)

	// most recently liked first
	assert.Equal(t, []uint64{first.ID, second.ID}, itemIDs(items))

	for _, it := range items {
		assert.True(t, it.LikedByMe)
	}

	// another caller's liked list is independent
	items, err = Liked(db, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestNilDB(t *testing.T) {
	_, err := Fetch(nil, 1, 0, 0)
	assert.ErrorIs(t, err, ErrDBNil)

	_, err = ByUploader(nil, 1, 1)
	assert.ErrorIs(t, err, ErrDBNil)

	_, err = Liked(nil, 1)
	assert.ErrorIs(t, err, ErrDBNil)
}
