package repository

import (
	"gorm.io/gorm"

	"github.com/boyuanitsm/fort/models"
)

// GroupRepository is the GORM repository for SecurityGroup.
type GroupRepository struct {
	*CrudRepository[models.SecurityGroup]
}

// NewGroupRepository creates a new GroupRepository.
func NewGroupRepository(db *gorm.DB) *GroupRepository {
	return &GroupRepository{NewCrudRepository[models.SecurityGroup](db, "App")}
}

// FindByAppAndName finds a group by name within one app. Group names are only
// unique per app.
func (r *GroupRepository) FindByAppAndName(appID int64, name string) (*models.SecurityGroup, error) {
	return r.findOneBy("app_id = ? AND name = ?", appID, name)
}
