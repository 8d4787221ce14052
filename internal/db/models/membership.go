package models

import "time"

// Membership represents the many-to-many relationship between users and
// access-code groups. The composite primary key makes the (user, group) pair
// unique, so a user can never join the same group twice; concurrent duplicate
// joins collapse on the constraint instead of racing.
type Membership struct {
	// UserID is the ID of the user in this membership.
	UserID uint64 `gorm:"primaryKey;column:user_id"`
	// AccessCodeID is the ID of the group in this membership.
	AccessCodeID uint64 `gorm:"primaryKey;column:access_code_id"`
	// User is the associated user (loaded via foreign key).
	// When a user is deleted, all their memberships are removed (CASCADE).
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	// AccessCode is the associated group (loaded via foreign key).
	// When a group is deleted, all memberships in it are removed (CASCADE).
	AccessCode AccessCode `gorm:"foreignKey:AccessCodeID;constraint:OnDelete:CASCADE"`
	// CreatedAt is the timestamp when the user joined the group (managed by GORM).
	CreatedAt time.Time
}

// TableName specifies the database table name for the Membership model.
func (Membership) TableName() string {
	return "access_code_members"
}
