// Package accesscode provides the registry of visibility groups and their
// memberships. Groups are identified by short unique codes; joining a group
// by code grants read access to its videos.
package accesscode

import (
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/clipdeck/clipdeck/internal/codegen"
	"github.com/clipdeck/clipdeck/internal/db/models"
)

// createAttempts bounds how many codes are tried before creation fails.
// One regeneration after a collision mirrors the odds of the code space:
// two consecutive collisions indicate something worse than bad luck.
const createAttempts = 2

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrNameEmpty is returned when attempting to create a group with an empty name.
	ErrNameEmpty = errors.New("group name cannot be empty")
	// ErrCodeEmpty is returned when attempting to join with an empty code.
	ErrCodeEmpty = errors.New("access code cannot be empty")
	// ErrCodeNotFound is returned when no group matches the given code.
	ErrCodeNotFound = errors.New("access code not found")
	// ErrAlreadyMember is returned when the user already belongs to the group.
	ErrAlreadyMember = errors.New("user is already a member of the group")
	// ErrCodeSpaceExhausted is returned when code generation collided on every
	// bounded attempt.
	ErrCodeSpaceExhausted = errors.New("could not generate a unique access code")
)

// Normalize canonicalizes a shared code for lookup: codes are issued
// uppercase, so pasted lowercase input must still resolve.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Create generates a new group with a fresh code and enrolls the owner as its
// first member. Both inserts run in one transaction so a failed membership
// insert never leaves an ownerless group visible to the feed. A duplicate
// generated code is an expected outcome: the insert is retried once with a
// fresh code, and a second collision fails with ErrCodeSpaceExhausted.
func Create(db *gorm.DB, ownerID uint64, name string) (*models.AccessCode, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameEmpty
	}

	for attempt := 0; attempt < createAttempts; attempt++ {
		ac := &models.AccessCode{
			Code:    codegen.New(),
			Name:    name,
			OwnerID: ownerID,
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(ac).Error; err != nil {
				return err
			}

			return tx.Create(&models.Membership{
				UserID:       ownerID,
				AccessCodeID: ac.ID,
			}).Error
		})

		if err == nil {
			return ac, nil
		}

		if errors.Is(err, gorm.ErrDuplicatedKey) {
			continue
		}

		return nil, err
	}

	return nil, ErrCodeSpaceExhausted
}

// Join adds the user to the group identified by code. The membership insert
// is a single insert-if-absent; a pair that already exists is reported as
// ErrAlreadyMember, never as a constraint failure.
func Join(db *gorm.DB, userID uint64, code string) (*models.AccessCode, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	code = Normalize(code)
	if code == "" {
		return nil, ErrCodeEmpty
	}

	var ac models.AccessCode
	if err := db.Where("code = ?", code).First(&ac).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCodeNotFound
		}

		return nil, err
	}

	result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.Membership{
		UserID:       userID,
		AccessCodeID: ac.ID,
	})
	if result.Error != nil {
		return nil, result.Error
	}

	if result.RowsAffected == 0 {
		return nil, ErrAlreadyMember
	}

	return &ac, nil
}

// ListForUser returns all groups the user is a member of, most recently
// created first.
func ListForUser(db *gorm.DB, userID uint64) ([]models.AccessCode, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var groups []models.AccessCode

	err := db.
		Joins("JOIN access_code_members m ON m.access_code_id = access_codes.id").
		Where("m.user_id = ?", userID).
		Order("access_codes.created_at DESC, access_codes.id DESC").
		Find(&groups).Error
	if err != nil {
		return nil, err
	}

	return groups, nil
}

// IsMember reports whether the user belongs to the given group.
func IsMember(db *gorm.DB, userID, accessCodeID uint64) (bool, error) {
	if db == nil {
		return false, ErrDBNil
	}

	var count int64

	err := db.Model(&models.Membership{}).
		Where("user_id = ? AND access_code_id = ?", userID, accessCodeID).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}
