package repository

import (
	"gorm.io/gorm"

	"github.com/boyuanitsm/fort/models"
)

// UserRepository is the GORM repository for SecurityUser. Reads eagerly load
// the owning app plus the user's roles and groups, the payload returned to
// SDK authentication.
type UserRepository struct {
	*CrudRepository[models.SecurityUser]
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{NewCrudRepository[models.SecurityUser](db, "App", "Roles", "Groups")}
}

// FindByAppAndLogin finds a user by login within one app. Logins are only
// unique per app.
func (r *UserRepository) FindByAppAndLogin(appID int64, login string) (*models.SecurityUser, error) {
	return r.findOneBy("app_id = ? AND login = ?", appID, login)
}
