package repository

import (
	"gorm.io/gorm"

	"github.com/boyuanitsm/fort/models"
)

// NavRepository is the GORM repository for SecurityNav.
type NavRepository struct {
	*CrudRepository[models.SecurityNav]
	db *gorm.DB
}

// NewNavRepository creates a new NavRepository.
func NewNavRepository(db *gorm.DB) *NavRepository {
	return &NavRepository{
		CrudRepository: NewCrudRepository[models.SecurityNav](db, "App", "Resource"),
		db:             db,
	}
}

// FindByParentID returns the direct children of one nav, ordered by position.
func (r *NavRepository) FindByParentID(parentID int64) ([]models.SecurityNav, error) {
	var navs []models.SecurityNav
	err := r.scoped().Where("parent_id = ?", parentID).Order("position").Find(&navs).Error
	if err != nil {
		return nil, err
	}
	return navs, nil
}

// FindByResourceID returns the navs guarded by one resource.
func (r *NavRepository) FindByResourceID(resourceID int64) ([]models.SecurityNav, error) {
	var navs []models.SecurityNav
	err := r.scoped().Where("resource_id = ?", resourceID).Order("position").Find(&navs).Error
	if err != nil {
		return nil, err
	}
	return navs, nil
}
