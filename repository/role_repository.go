package repository

import (
	"gorm.io/gorm"

	"github.com/boyuanitsm/fort/models"
)

// RoleRepository is the GORM repository for SecurityRole. Reads eagerly load
// the owning app and the granted resources, the relationships SDK clients
// cache.
type RoleRepository struct {
	*CrudRepository[models.SecurityRole]
	db *gorm.DB
}

// NewRoleRepository creates a new RoleRepository.
func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{
		CrudRepository: NewCrudRepository[models.SecurityRole](db, "App", "Resources"),
		db:             db,
	}
}

// FindByAppAndName finds a role by name within one app.
func (r *RoleRepository) FindByAppAndName(appID int64, name string) (*models.SecurityRole, error) {
	return r.findOneBy("app_id = ? AND name = ?", appID, name)
}

// FindAllByAppKey returns every role of the app identified by appKey with
// eager relationships, the full authorization snapshot an SDK client loads on
// startup.
func (r *RoleRepository) FindAllByAppKey(appKey string) ([]models.SecurityRole, error) {
	var roles []models.SecurityRole
	err := r.db.
		Preload("App").
		Preload("Resources").
		Joins("JOIN security_app ON security_app.id = security_role.app_id").
		Where("security_app.app_key = ?", appKey).
		Find(&roles).Error
	if err != nil {
		return nil, err
	}
	return roles, nil
}
