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

// NavService manages SecurityNav, the navigation tree of an app's console.
type NavService struct {
	repo       core.NavRepository
	searchRepo core.Searcher
	notifier   core.Notifier
}

// NewNavService creates a new NavService.
func NewNavService(repo core.NavRepository, searchRepo core.Searcher, notifier core.Notifier) *NavService {
	return &NavService{repo: repo, searchRepo: searchRepo, notifier: notifier}
}

// Save persists a nav, stamping the tenant app from the request context when
// one is resolved.
func (s *NavService) Save(rc *RequestContext, nav *models.SecurityNav) (*models.SecurityNav, error) {
	op := update.OperationPost
	if nav.ID != 0 {
		op = update.OperationPut
	}

	if app := rc.CurrentApp(); app != nil {
		nav.App = app
		nav.AppID = app.ID
	}

	if err := s.repo.Save(nav); err != nil {
		return nil, goerrorkit.WrapWithMessage(err, "failed to save security nav").WithData(map[string]interface{}{
			"name": nav.Name,
		})
	}

	saved, err := s.repo.FindByID(nav.ID)
	if err != nil {
		return nil, goerrorkit.WrapWithMessage(err, "failed to reload security nav after save").WithData(map[string]interface{}{
			"id": nav.ID,
		})
	}

	s.mirror(saved)
	s.notifier.Send(op, update.KindSecurityNav, saved)
	return saved, nil
}

// FindAll returns one page of navs, scoped to one app when appID is set.
func (s *NavService) FindAll(page utils.Pageable, appID int64) ([]models.SecurityNav, int64, error) {
	if appID != 0 {
		return s.repo.FindAllByAppID(page, appID)
	}
	return s.repo.FindAll(page)
}

// FindOne returns one nav, or nil when it does not exist.
func (s *NavService) FindOne(id int64) (*models.SecurityNav, error) {
	nav, err := s.repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, goerrorkit.WrapWithMessage(err, "failed to load security nav").WithData(map[string]interface{}{
			"id": id,
		})
	}
	return nav, nil
}

// FindByParentID returns the direct children of one nav in display order.
func (s *NavService) FindByParentID(parentID int64) ([]models.SecurityNav, error) {
	navs, err := s.repo.FindByParentID(parentID)
	if err != nil {
		return nil, goerrorkit.WrapWithMessage(err, "failed to load child navs").WithData(map[string]interface{}{
			"parentId": parentID,
		})
	}
	return navs, nil
}

// FindByResourceID returns the navs guarded by one resource.
func (s *NavService) FindByResourceID(resourceID int64) ([]models.SecurityNav, error) {
	navs, err := s.repo.FindByResourceID(resourceID)
	if err != nil {
		return nil, goerrorkit.WrapWithMessage(err, "failed to load navs by resource").WithData(map[string]interface{}{
			"resourceId": resourceID,
		})
	}
	return navs, nil
}

// Delete removes a nav from the store and the search index and sends a
// DELETE event. The owning appKey is captured before the row is removed.
func (s *NavService) Delete(id int64) error {
	appKey := ""
	if nav, err := s.repo.FindByID(id); err == nil {
		appKey = nav.GetAppKey()
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		goerrorkit.LogError(goerrorkit.WrapWithMessage(err, "could not resolve owning app before deleting security nav").WithData(map[string]interface{}{
			"id": id,
		}), "")
	}

	if err := s.repo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return goerrorkit.WrapWithMessage(err, "failed to delete security nav").WithData(map[string]interface{}{
			"id": id,
		})
	}

	s.unmirror(id)
	s.notifier.Send(update.OperationDelete, update.KindSecurityNav, update.Tombstone{ID: id, AppKey: appKey})
	return nil
}

// Search resolves a search query against the nav index and loads the hits
// from the store in relevance order.
func (s *NavService) Search(query string, page utils.Pageable) ([]models.SecurityNav, int64, error) {
	q, err := search.ParseQuery(query)
	if err != nil {
		return nil, 0, err
	}

	ids, total, err := s.searchRepo.Search(q, page)
	if err != nil {
		return nil, 0, goerrorkit.WrapWithMessage(err, "search failed for security navs").WithData(map[string]interface{}{
			"query": query,
		})
	}

	navs, err := s.repo.FindByIDs(ids)
	if err != nil {
		return nil, 0, goerrorkit.WrapWithMessage(err, "failed to load security navs for search hits")
	}
	return navs, int64(total), nil
}

func (s *NavService) mirror(nav *models.SecurityNav) {
	if err := s.searchRepo.Save(nav.ID, nav); err != nil {
		goerrorkit.LogError(goerrorkit.WrapWithMessage(err, "failed to mirror security nav to search index").WithData(map[string]interface{}{
			"id": nav.ID,
		}), "")
	}
}

func (s *NavService) unmirror(id int64) {
	if err := s.searchRepo.Delete(id); err != nil {
		goerrorkit.LogError(goerrorkit.WrapWithMessage(err, "failed to remove security nav from search index").WithData(map[string]interface{}{
			"id": id,
		}), "")
	}
}
