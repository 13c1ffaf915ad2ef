// Package core defines the interfaces between the service layer and its
// collaborators (repositories, search mirror, update notifier) so services
// can be tested against map-backed mocks.
package core

import (
	"github.com/boyuanitsm/fort/models"
	"github.com/boyuanitsm/fort/search"
	"github.com/boyuanitsm/fort/utils"
)

// AppRepository is the persistence port for SecurityApp.
type AppRepository interface {
	Save(app *models.SecurityApp) error
	FindByID(id int64) (*models.SecurityApp, error)
	FindByIDs(ids []int64) ([]models.SecurityApp, error)
	FindAll(page utils.Pageable) ([]models.SecurityApp, int64, error)
	FindByAppName(name string) (*models.SecurityApp, error)
	FindByAppKey(appKey string) (*models.SecurityApp, error)
	Delete(id int64) error
}

// GroupRepository is the persistence port for SecurityGroup.
type GroupRepository interface {
	Save(group *models.SecurityGroup) error
	FindByID(id int64) (*models.SecurityGroup, error)
	FindByIDs(ids []int64) ([]models.SecurityGroup, error)
	FindAll(page utils.Pageable) ([]models.SecurityGroup, int64, error)
	FindAllByAppID(page utils.Pageable, appID int64) ([]models.SecurityGroup, int64, error)
	FindByAppAndName(appID int64, name string) (*models.SecurityGroup, error)
	Delete(id int64) error
}

// RoleRepository is the persistence port for SecurityRole.
type RoleRepository interface {
	Save(role *models.SecurityRole) error
	FindByID(id int64) (*models.SecurityRole, error)
	FindByIDs(ids []int64) ([]models.SecurityRole, error)
	FindAll(page utils.Pageable) ([]models.SecurityRole, int64, error)
	FindAllByAppID(page utils.Pageable, appID int64) ([]models.SecurityRole, int64, error)
	FindAllByAppKey(appKey string) ([]models.SecurityRole, error)
	FindByAppAndName(appID int64, name string) (*models.SecurityRole, error)
	Delete(id int64) error
}

// NavRepository is the persistence port for SecurityNav.
type NavRepository interface {
	Save(nav *models.SecurityNav) error
	FindByID(id int64) (*models.SecurityNav, error)
	FindByIDs(ids []int64) ([]models.SecurityNav, error)
	FindAll(page utils.Pageable) ([]models.SecurityNav, int64, error)
	FindAllByAppID(page utils.Pageable, appID int64) ([]models.SecurityNav, int64, error)
	FindByParentID(parentID int64) ([]models.SecurityNav, error)
	FindByResourceID(resourceID int64) ([]models.SecurityNav, error)
	Delete(id int64) error
}

// ResourceRepository is the persistence port for SecurityResourceEntity.
type ResourceRepository interface {
	Save(resource *models.SecurityResourceEntity) error
	FindByID(id int64) (*models.SecurityResourceEntity, error)
	FindByIDs(ids []int64) ([]models.SecurityResourceEntity, error)
	FindAll(page utils.Pageable) ([]models.SecurityResourceEntity, int64, error)
	FindAllByAppID(page utils.Pageable, appID int64) ([]models.SecurityResourceEntity, int64, error)
	FindAllByAppKey(appKey string) ([]models.SecurityResourceEntity, error)
	FindByAppAndUrl(appID int64, url string) (*models.SecurityResourceEntity, error)
	Delete(id int64) error
}

// UserRepository is the persistence port for SecurityUser.
type UserRepository interface {
	Save(user *models.SecurityUser) error
	FindByID(id int64) (*models.SecurityUser, error)
	FindByIDs(ids []int64) ([]models.SecurityUser, error)
	FindAll(page utils.Pageable) ([]models.SecurityUser, int64, error)
	FindAllByAppID(page utils.Pageable, appID int64) ([]models.SecurityUser, int64, error)
	FindByAppAndLogin(appID int64, login string) (*models.SecurityUser, error)
	Delete(id int64) error
}

// LoginEventRepository is the persistence port for SecurityLoginEvent.
type LoginEventRepository interface {
	Save(event *models.SecurityLoginEvent) error
	FindAll(page utils.Pageable) ([]models.SecurityLoginEvent, int64, error)
	FindAllByUserID(page utils.Pageable, userID int64) ([]models.SecurityLoginEvent, int64, error)
	FindBySt(st string) (*models.SecurityLoginEvent, error)
}

// Searcher is the search-index mirror port for one entity kind. The mirror is
// best-effort: services log failures and never surface them to the caller.
type Searcher interface {
	Save(id int64, doc interface{}) error
	Delete(id int64) error
	Search(q search.Query, page utils.Pageable) ([]int64, uint64, error)
}
