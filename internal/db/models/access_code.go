// Package models contains database model definitions.
package models

import "time"

// AccessCode represents a visibility group identified by a short shareable
// code. All videos are scoped to exactly one access-code group and are only
// visible in the feed of its members.
type AccessCode struct {
	// ID is the unique identifier for the group.
	ID uint64 `gorm:"primaryKey" json:"id"`
	// Code is the short human-shareable token. Globally unique across groups
	// and immutable once issued; the unique index is the race-breaker for
	// concurrent creation.
	Code string `gorm:"size:8;not null;uniqueIndex" json:"code"`
	// Name is the display name of the group.
	Name string `gorm:"size:100;not null" json:"name"`
	// OwnerID is the user who created the group. Ownership is administrative
	// only; read access is granted by membership.
	OwnerID uint64 `gorm:"not null" json:"owner_id"`
	// Owner is the associated user (loaded via foreign key).
	Owner User `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
	// CreatedAt is the timestamp when the group was created (managed by GORM).
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the database table name for the AccessCode model.
func (AccessCode) TableName() string {
	return "access_codes"
}
