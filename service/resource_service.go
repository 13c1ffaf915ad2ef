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

// ResourceService manages SecurityResourceEntity, the URL-matched resources
// SDK clients guard.
type ResourceService struct {
	repo       core.ResourceRepository
	searchRepo core.Searcher
	notifier   core.Notifier
}

// NewResourceService creates a new ResourceService.
func NewResourceService(repo core.ResourceRepository, searchRepo core.Searcher, notifier core.Notifier) *ResourceService {
	return &ResourceService{repo: repo, searchRepo: searchRepo, notifier: notifier}
}

// Save persists a resource, stamping the tenant app from the request context
// when one is resolved. On create a fresh st token is generated for it.
func (s *ResourceService) Save(rc *RequestContext, resource *models.SecurityResourceEntity) (*models.SecurityResourceEntity, error) {
	op := update.OperationPost
	if resource.ID != 0 {
		op = update.OperationPut
	}

	if app := rc.CurrentApp(); app != nil {
		resource.App = app
		resource.AppID = app.ID
	}

	if resource.ID == 0 && resource.St == "" {
		st, err := utils.GenerateSt()
		if err != nil {
			return nil, goerrorkit.WrapWithMessage(err, "failed to generate resource token")
		}
		resource.St = st
	}

	if err := s.repo.Save(resource); err != nil {
		return nil, goerrorkit.WrapWithMessage(err, "failed to save security resource").WithData(map[string]interface{}{
			"url": resource.Url,
		})
	}

	saved, err := s.repo.FindByID(resource.ID)
	if err != nil {
		return nil, goerrorkit.WrapWithMessage(err, "failed to reload security resource after save").WithData(map[string]interface{}{
			"id": resource.ID,
		})
	}

	s.mirror(saved)
	s.notifier.Send(op, update.KindSecurityResourceEntity, saved)
	return saved, nil
}

// FindAll returns one page of resources, scoped to one app when appID is set.
func (s *ResourceService) FindAll(page utils.Pageable, appID int64) ([]models.SecurityResourceEntity, int64, error) {
	if appID != 0 {
		return s.repo.FindAllByAppID(page, appID)
	}
	return s.repo.FindAll(page)
}

// FindOne returns one resource, or nil when it does not exist.
func (s *ResourceService) FindOne(id int64) (*models.SecurityResourceEntity, error) {
	resource, err := s.repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, goerrorkit.WrapWithMessage(err, "failed to load security resource").WithData(map[string]interface{}{
			"id": id,
		})
	}
	return resource, nil
}

// FindByAppAndUrl returns the resource with this URL inside one app, or nil.
func (s *ResourceService) FindByAppAndUrl(appID int64, url string) (*models.SecurityResourceEntity, error) {
	resource, err := s.repo.FindByAppAndUrl(appID, url)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, goerrorkit.WrapWithMessage(err, "failed to look up security resource by url").WithData(map[string]interface{}{
			"appId": appID,
			"url":   url,
		})
	}
	return resource, nil
}

// FindAllByAppKey returns every resource of one app, the set SDK clients
// match request URLs against.
func (s *ResourceService) FindAllByAppKey(appKey string) ([]models.SecurityResourceEntity, error) {
	resources, err := s.repo.FindAllByAppKey(appKey)
	if err != nil {
		return nil, goerrorkit.WrapWithMessage(err, "failed to load security resources for app").WithData(map[string]interface{}{
			"appKey": appKey,
		})
	}
	return resources, nil
}

// Delete removes a resource from the store and the search index and sends a
// DELETE event. The owning appKey is captured before the row is removed.
func (s *ResourceService) Delete(id int64) error {
	appKey := ""
	if resource, err := s.repo.FindByID(id); err == nil {
		appKey = resource.GetAppKey()
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		goerrorkit.LogError(goerrorkit.WrapWithMessage(err, "could not resolve owning app before deleting security resource").WithData(map[string]interface{}{
			"id": id,
		}), "")
	}

	if err := s.repo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return goerrorkit.WrapWithMessage(err, "failed to delete security resource").WithData(map[string]interface{}{
			"id": id,
		})
	}

	s.unmirror(id)
	s.notifier.Send(update.OperationDelete, update.KindSecurityResourceEntity, update.Tombstone{ID: id, AppKey: appKey})
	return nil
}

// Search resolves a search query against the resource index and loads the
// hits from the store in relevance order.
func (s *ResourceService) Search(query string, page utils.Pageable) ([]models.SecurityResourceEntity, int64, error) {
	q, err := search.ParseQuery(query)
	if err != nil {
		return nil, 0, err
	}

	ids, total, err := s.searchRepo.Search(q, page)
	if err != nil {
		return nil, 0, goerrorkit.WrapWithMessage(err, "search failed for security resources").WithData(map[string]interface{}{
			"query": query,
		})
	}

	resources, err := s.repo.FindByIDs(ids)
	if err != nil {
		return nil, 0, goerrorkit.WrapWithMessage(err, "failed to load security resources for search hits")
	}
	return resources, int64(total), nil
}

func (s *ResourceService) mirror(resource *models.SecurityResourceEntity) {
	if err := s.searchRepo.Save(resource.ID, resource); err != nil {
		goerrorkit.LogError(goerrorkit.WrapWithMessage(err, "failed to mirror security resource to search index").WithData(map[string]interface{}{
			"id": resource.ID,
		}), "")
	}
}

func (s *ResourceService) unmirror(id int64) {
	if err := s.searchRepo.Delete(id); err != nil {
		goerrorkit.LogError(goerrorkit.WrapWithMessage(err, "failed to remove security resource from search index").WithData(map[string]interface{}{
			"id": id,
		}), "")
	}
}
