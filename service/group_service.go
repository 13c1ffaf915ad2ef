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

// GroupService manages SecurityGroup: relational write, best-effort search
// mirror, best-effort update notification, in that order.
type GroupService struct {
	repo       core.GroupRepository
	searchRepo core.Searcher
	notifier   core.Notifier
}

// NewGroupService creates a new GroupService.
func NewGroupService(repo core.GroupRepository, searchRepo core.Searcher, notifier core.Notifier) *GroupService {
	return &GroupService{repo: repo, searchRepo: searchRepo, notifier: notifier}
}

// Save persists a group. When the request context carries a resolved tenant
// app the group is stamped with it, overriding whatever the payload claims.
// After the store write succeeds the group is mirrored to the search index
// and a POST/PUT update event is sent; neither side effect can fail the save.
func (s *GroupService) Save(rc *RequestContext, group *models.SecurityGroup) (*models.SecurityGroup, error) {
	op := update.OperationPost
	if group.ID != 0 {
		op = update.OperationPut
	}

	if app := rc.CurrentApp(); app != nil {
		group.App = app
		group.AppID = app.ID
	}

	if err := s.repo.Save(group); err != nil {
		return nil, goerrorkit.WrapWithMessage(err, "failed to save security group").WithData(map[string]interface{}{
			"name": group.Name,
		})
	}

	saved, err := s.repo.FindByID(group.ID)
	if err != nil {
		return nil, goerrorkit.WrapWithMessage(err, "failed to reload security group after save").WithData(map[string]interface{}{
			"id": group.ID,
		})
	}

	s.mirror(saved)
	s.notifier.Send(op, update.KindSecurityGroup, saved)
	return saved, nil
}

// FindAll returns one page of groups, scoped to one app when appID is set.
func (s *GroupService) FindAll(page utils.Pageable, appID int64) ([]models.SecurityGroup, int64, error) {
	if appID != 0 {
		return s.repo.FindAllByAppID(page, appID)
	}
	return s.repo.FindAll(page)
}

// FindOne returns one group, or nil when it does not exist.
func (s *GroupService) FindOne(id int64) (*models.SecurityGroup, error) {
	group, err := s.repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, goerrorkit.WrapWithMessage(err, "failed to load security group").WithData(map[string]interface{}{
			"id": id,
		})
	}
	return group, nil
}

// FindByAppAndName returns the group with this name inside one app, or nil.
func (s *GroupService) FindByAppAndName(appID int64, name string) (*models.SecurityGroup, error) {
	group, err := s.repo.FindByAppAndName(appID, name)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, goerrorkit.WrapWithMessage(err, "failed to look up security group by name").WithData(map[string]interface{}{
			"appId": appID,
			"name":  name,
		})
	}
	return group, nil
}

// Delete removes a group from the store and the search index and sends a
// DELETE event. The owning appKey is captured before the row is removed; if
// it cannot be resolved the delete still proceeds and the event is dropped
// by the notifier with a logged warning.
func (s *GroupService) Delete(id int64) error {
	appKey := ""
	if group, err := s.repo.FindByID(id); err == nil {
		appKey = group.GetAppKey()
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		goerrorkit.LogError(goerrorkit.WrapWithMessage(err, "could not resolve owning app before deleting security group").WithData(map[string]interface{}{
			"id": id,
		}), "")
	}

	if err := s.repo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return goerrorkit.WrapWithMessage(err, "failed to delete security group").WithData(map[string]interface{}{
			"id": id,
		})
	}

	s.unmirror(id)
	s.notifier.Send(update.OperationDelete, update.KindSecurityGroup, update.Tombstone{ID: id, AppKey: appKey})
	return nil
}

// Search resolves a search query against the group index and loads the hits
// from the store in relevance order.
func (s *GroupService) Search(query string, page utils.Pageable) ([]models.SecurityGroup, int64, error) {
	q, err := search.ParseQuery(query)
	if err != nil {
		return nil, 0, err
	}

	ids, total, err := s.searchRepo.Search(q, page)
	if err != nil {
		return nil, 0, goerrorkit.WrapWithMessage(err, "search failed for security groups").WithData(map[string]interface{}{
			"query": query,
		})
	}

	groups, err := s.repo.FindByIDs(ids)
	if err != nil {
		return nil, 0, goerrorkit.WrapWithMessage(err, "failed to load security groups for search hits")
	}
	return groups, int64(total), nil
}

func (s *GroupService) mirror(group *models.SecurityGroup) {
	if err := s.searchRepo.Save(group.ID, group); err != nil {
		goerrorkit.LogError(goerrorkit.WrapWithMessage(err, "failed to mirror security group to search index").WithData(map[string]interface{}{
			"id": group.ID,
		}), "")
	}
}

func (s *GroupService) unmirror(id int64) {
	if err := s.searchRepo.Delete(id); err != nil {
		goerrorkit.LogError(goerrorkit.WrapWithMessage(err, "failed to remove security group from search index").WithData(map[string]interface{}{
			"id": id,
		}), "")
	}
}
