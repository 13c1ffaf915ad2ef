package database

import (
	"gorm.io/gorm"

	"github.com/boyuanitsm/fort/models"
)

// Migrate runs database migrations for all fort models
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.SecurityApp{},
		&models.SecurityGroup{},
		&models.SecurityRole{},
		&models.SecurityResourceEntity{},
		&models.SecurityNav{},
		&models.SecurityUser{},
		&models.SecurityLoginEvent{},
	)
}
