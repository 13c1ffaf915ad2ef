package service

import (
	"errors"

	"github.com/techmaster-vietnam/goerrorkit"
	"gorm.io/gorm"

	"github.com/boyuanitsm/fort/core"
	"github.com/boyuanitsm/fort/models"
	"github.com/boyuanitsm/fort/search"
	"github.com/boyuanitsm/fort/update"
	"github.com/boyuanitsm/fort/utils"
)

// RoleService manages SecurityRole. Roles carry the resource grants SDK
// clients cache, so every mutation ends with an update event for the owning
// app.
type RoleService struct {
	repo       core.RoleRepository
	searchRepo core.Searcher
	notifier   core.Notifier
}

// NewRoleService creates a new RoleService.
func NewRoleService(repo core.RoleRepository, searchRepo core.Searcher, notifier core.Notifier) *RoleService {
	return &RoleService{repo: repo, searchRepo: searchRepo, notifier: notifier}
}

// Save persists a role, stamping the tenant app from the request context when
// one is resolved. Search mirror and update notification run after the store
// write and cannot fail it.
func (s *RoleService) Save(rc *RequestContext, role *models.SecurityRole) (*models.SecurityRole, error) {
	op := update.OperationPost
	if role.ID != 0 {
		op = update.OperationPut
	}

	if app := rc.CurrentApp(); app != nil {
		role.App = app
		role.AppID = app.ID
	}

	if err := s.repo.Save(role); err != nil {
		return nil, goerrorkit.WrapWithMessage(err, "failed to save security role").WithData(map[string]interface{}{
			"name": role.Name,
		})
	}

	saved, err := s.repo.FindByID(role.ID)
	if err != nil {
		return nil, goerrorkit.WrapWithMessage(err, "failed to reload security role after save").WithData(map[string]interface{}{
			"id": role.ID,
		})
	}

	s.mirror(saved)
	s.notifier.Send(op, update.KindSecurityRole, saved)
	return saved, nil
}

// FindAll returns one page of roles, scoped to one app when appID is set.
func (s *RoleService) FindAll(page utils.Pageable, appID int64) ([]models.SecurityRole, int64, error) {
	if appID != 0 {
		return s.repo.FindAllByAppID(page, appID)
	}
	return s.repo.FindAll(page)
}

// FindOne returns one role with eager relationships, or nil when it does not
// exist.
func (s *RoleService) FindOne(id int64) (*models.SecurityRole, error) {
	role, err := s.repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, goerrorkit.WrapWithMessage(err, "failed to load security role").WithData(map[string]interface{}{
			"id": id,
		})
	}
	return role, nil
}

// FindByAppAndName returns the role with this name inside one app, or nil.
func (s *RoleService) FindByAppAndName(appID int64, name string) (*models.SecurityRole, error) {
	role, err := s.repo.FindByAppAndName(appID, name)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, goerrorkit.WrapWithMessage(err, "failed to look up security role by name").WithData(map[string]interface{}{
			"appId": appID,
			"name":  name,
		})
	}
	return role, nil
}

// FindAllByAppKey returns every role of one app with eager relationships,
// the authorization snapshot SDK clients load on startup.
func (s *RoleService) FindAllByAppKey(appKey string) ([]models.SecurityRole, error) {
	roles, err := s.repo.FindAllByAppKey(appKey)
	if err != nil {
		return nil, goerrorkit.WrapWithMessage(err, "failed to load security roles for app").WithData(map[string]interface{}{
			"appKey": appKey,
		})
	}
	return roles, nil
}

// Delete removes a role from the store and the search index and sends a
// DELETE event. The owning appKey is captured before the row is removed.
func (s *RoleService) Delete(id int64) error {
	appKey := ""
	if role, err := s.repo.FindByID(id); err == nil {
		appKey = role.GetAppKey()
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		goerrorkit.LogError(goerrorkit.WrapWithMessage(err, "could not resolve owning app before deleting security role").WithData(map[string]interface{}{
			"id": id,
		}), "")
	}

	if err := s.repo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return goerrorkit.WrapWithMessage(err, "failed to delete security role").WithData(map[string]interface{}{
			"id": id,
		})
	}

	s.unmirror(id)
	s.notifier.Send(update.OperationDelete, update.KindSecurityRole, update.Tombstone{ID: id, AppKey: appKey})
	return nil
}

// Search resolves a search query against the role index and loads the hits
// from the store in relevance order.
func (s *RoleService) Search(query string, page utils.Pageable) ([]models.SecurityRole, int64, error) {
	q, err := search.ParseQuery(query)
	if err != nil {
		return nil, 0, err
	}

	ids, total, err := s.searchRepo.Search(q, page)
	if err != nil {
		return nil, 0, goerrorkit.WrapWithMessage(err, "search failed for security roles").WithData(map[string]interface{}{
			"query": query,
		})
	}

	roles, err := s.repo.FindByIDs(ids)
	if err != nil {
		return nil, 0, goerrorkit.WrapWithMessage(err, "failed to load security roles for search hits")
	}
	return roles, int64(total), nil
}

func (s *RoleService) mirror(role *models.SecurityRole) {
	if err := s.searchRepo.Save(role.ID, role); err != nil {
		goerrorkit.LogError(goerrorkit.WrapWithMessage(err, "failed to mirror security role to search index").WithData(map[string]interface{}{
			"id": role.ID,
		}), "")
	}
}

func (s *RoleService) unmirror(id int64) {
	if err := s.searchRepo.Delete(id); err != nil {
		goerrorkit.LogError(goerrorkit.WrapWithMessage(err, "failed to remove security role from search index").WithData(map[string]interface{}{
			"id": id,
		}), "")
	}
}
