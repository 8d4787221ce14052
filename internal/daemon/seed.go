package daemon

import (
	"gorm.io/gorm"

	"github.com/clipdeck/clipdeck/internal/config"
	"github.com/clipdeck/clipdeck/internal/db/models"
)

func seed(_ *config.Config, db *gorm.DB) {
	// Seed initial admin if the user table is empty

	var count int64
	db.Model(&models.User{}).Count(&count)

	if count == 0 {
		db.Create(
			&models.User{
				Username: "admin",
				Email:    "admin@localhost",
				Password: models.HashPassword("changeme"),
				Role:     models.RoleAdmin,
			},
		)
	}
}
