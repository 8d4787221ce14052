// Package feed assembles membership-scoped, recency-ordered pages of videos
// decorated with aggregate and per-caller engagement state. Counts and the
// caller's liked flag are produced by correlated subqueries inside the page
// query itself, so the cost is bounded by page size rather than corpus size.
package feed

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/clipdeck/clipdeck/internal/db/models"
)

const (
	// DefaultLimit is the page size used when the caller supplies none.
	DefaultLimit = 9
	// MaxLimit clamps the page size upper bound.
	MaxLimit = 100
)

// ErrDBNil is returned when the database connection is nil.
var ErrDBNil = errors.New("database connection is nil")

// Item is one feed entry: video metadata joined with the uploader's display
// name, aggregate counts and the caller's own liked flag.
type Item struct {
	ID         uint64    `json:"id"`
	Title      string    `json:"title"`
	FileURL    string    `gorm:"column:file_url" json:"file_url"`
	UploadedAt time.Time `json:"uploaded_at"`
	Uploader   string    `json:"uploader"`
	Views      int64     `json:"views"`
	Likes      int64     `json:"likes"`
	LikedByMe  bool      `gorm:"column:liked_by_me" json:"liked_by_me"`
}

// Page is one paginated slice of the feed. HasMore is the source-compatible
// heuristic: true iff the page came back full, a lower bound on "more exist".
type Page struct {
	Videos  []Item `json:"videos"`
	HasMore bool   `json:"hasMore"`
}

// itemColumns decorates each video row; the first bound parameter is always
// the caller id for the liked_by_me subquery.
const itemColumns = `
	v.id, v.title, v.file_url, v.uploaded_at,
	u.username AS uploader,
	(SELECT COUNT(*) FROM video_views vv WHERE vv.video_id = v.id) AS views,
	(SELECT COUNT(*) FROM video_likes vl WHERE vl.video_id = v.id) AS likes,
	(EXISTS (SELECT 1 FROM video_likes vl WHERE vl.video_id = v.id AND vl.user_id = ?)) AS liked_by_me`

// Fetch returns one page of the caller's feed: videos from all groups the
// caller is a member of, newest first. A caller with no memberships gets an
// empty page without the videos table being queried at all.
func Fetch(db *gorm.DB, callerID uint64, limit, offset int) (Page, error) {
	if db == nil {
		return Page{}, ErrDBNil
	}

	if limit <= 0 {
		limit = DefaultLimit
	}

	if limit > MaxLimit {
		limit = MaxLimit
	}

	if offset < 0 {
		offset = 0
	}

	var codeIDs []uint64

	err := db.Model(&models.Membership{}).
		Where("user_id = ?", callerID).
		Pluck("access_code_id", &codeIDs).Error
	if err != nil {
		return Page{}, err
	}

	if len(codeIDs) == 0 {
		return Page{Videos: []Item{}, HasMore: false}, nil
	}

	items := []Item{}

	err = db.Raw(`SELECT`+itemColumns+`
		FROM videos v
		JOIN users u ON u.id = v.uploader_id
		WHERE v.access_code_id IN ?
		ORDER BY v.uploaded_at DESC, v.id DESC
		LIMIT ? OFFSET ?`,
		callerID, codeIDs, limit, offset,
	).Scan(&items).Error
	if err != nil {
		return Page{}, err
	}

	return Page{Videos: items, HasMore: len(items) == limit}, nil
}

// ByUploader returns all videos by one uploader, newest first, unpaginated.
// Visibility is deliberately not scoped by group membership: any
// authenticated caller may browse an uploader's page.
func ByUploader(db *gorm.DB, callerID, uploaderID uint64) ([]Item, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	items := []Item{}

	err := db.Raw(`SELECT`+itemColumns+`
		FROM videos v
		JOIN users u ON u.id = v.uploader_id
		WHERE v.uploader_id = ?
		ORDER BY v.uploaded_at DESC, v.id DESC`,
		callerID, uploaderID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}

	return items, nil
}

// Liked returns all videos the caller currently likes, most recently liked
// first. Every returned item has LikedByMe true by construction.
func Liked(db *gorm.DB, callerID uint64) ([]Item, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	items := []Item{}

	err := db.Raw(`SELECT`+itemColumns+`
		FROM videos v
		JOIN users u ON u.id = v.uploader_id
		JOIN video_likes l ON l.video_id = v.id
		WHERE l.user_id = ?
		ORDER BY l.created_at DESC, v.id DESC`,
		callerID, callerID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}

	return items, nil
}
