package repository

import (
	"gorm.io/gorm"

	"github.com/boyuanitsm/fort/models"
)

// ResourceRepository is the GORM repository for SecurityResourceEntity.
type ResourceRepository struct {
	*CrudRepository[models.SecurityResourceEntity]
	db *gorm.DB
}

// NewResourceRepository creates a new ResourceRepository.
func NewResourceRepository(db *gorm.DB) *ResourceRepository {
	return &ResourceRepository{
		CrudRepository: NewCrudRepository[models.SecurityResourceEntity](db, "App"),
		db:             db,
	}
}

// FindByAppAndUrl finds a resource by URL within one app. Resource URLs are
// only unique per app.
func (r *ResourceRepository) FindByAppAndUrl(appID int64, url string) (*models.SecurityResourceEntity, error) {
	return r.findOneBy("app_id = ? AND url = ?", appID, url)
}

// FindAllByAppKey returns every resource of the app identified by appKey, the
// set an SDK client matches request URLs against.
func (r *ResourceRepository) FindAllByAppKey(appKey string) ([]models.SecurityResourceEntity, error) {
	var resources []models.SecurityResourceEntity
	err := r.db.
		Preload("App").
		Joins("JOIN security_app ON security_app.id = security_resource_entity.app_id").
		Where("security_app.app_key = ?", appKey).
		Find(&resources).Error
	if err != nil {
		return nil, err
	}
	return resources, nil
}
