package repository

import (
	"gorm.io/gorm"

	"github.com/boyuanitsm/fort/models"
)

// AppRepository is the GORM repository for SecurityApp.
type AppRepository struct {
	*CrudRepository[models.SecurityApp]
}

// NewAppRepository creates a new AppRepository.
func NewAppRepository(db *gorm.DB) *AppRepository {
	return &AppRepository{NewCrudRepository[models.SecurityApp](db)}
}

// FindByAppName finds an app by its unique name.
func (r *AppRepository) FindByAppName(name string) (*models.SecurityApp, error) {
	return r.findOneBy("app_name = ?", name)
}

// FindByAppKey finds an app by its public key. This is the tenant lookup on
// every SDK request.
func (r *AppRepository) FindByAppKey(appKey string) (*models.SecurityApp, error) {
	return r.findOneBy("app_key = ?", appKey)
}
