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

// AppService manages SecurityApp, the tenant boundary. Creating an app mints
// its appKey/appSecret credentials server-side; clients never choose them.
type AppService struct {
	repo       core.AppRepository
	searchRepo core.Searcher
	notifier   core.Notifier
}

// NewAppService creates a new AppService.
func NewAppService(repo core.AppRepository, searchRepo core.Searcher, notifier core.Notifier) *AppService {
	return &AppService{repo: repo, searchRepo: searchRepo, notifier: notifier}
}

// Save persists an app. On create the appKey, appSecret and session token
// salt are generated; on update the existing credentials are left untouched
// unless the caller already carries them.
func (s *AppService) Save(app *models.SecurityApp) (*models.SecurityApp, error) {
	op := update.OperationPost
	if app.ID != 0 {
		op = update.OperationPut
	}

	if app.ID == 0 {
		if err := s.generateCredentials(app); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Save(app); err != nil {
		return nil, goerrorkit.WrapWithMessage(err, "failed to save security app").WithData(map[string]interface{}{
			"appName": app.AppName,
		})
	}

	s.mirror(app)
	s.notifier.Send(op, update.KindSecurityApp, app)
	return app, nil
}

// FindAll returns one page of apps.
func (s *AppService) FindAll(page utils.Pageable) ([]models.SecurityApp, int64, error) {
	return s.repo.FindAll(page)
}

// FindOne returns one app, or nil when it does not exist.
func (s *AppService) FindOne(id int64) (*models.SecurityApp, error) {
	app, err := s.repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, goerrorkit.WrapWithMessage(err, "failed to load security app").WithData(map[string]interface{}{
			"id": id,
		})
	}
	return app, nil
}

// FindByAppName returns the app with this name, or nil.
func (s *AppService) FindByAppName(name string) (*models.SecurityApp, error) {
	app, err := s.repo.FindByAppName(name)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, goerrorkit.WrapWithMessage(err, "failed to look up security app by name").WithData(map[string]interface{}{
			"appName": name,
		})
	}
	return app, nil
}

// FindByAppKey returns the app identified by appKey, or nil. This is the
// tenant lookup behind every SDK request.
func (s *AppService) FindByAppKey(appKey string) (*models.SecurityApp, error) {
	app, err := s.repo.FindByAppKey(appKey)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, goerrorkit.WrapWithMessage(err, "failed to look up security app by appKey").WithData(map[string]interface{}{
			"appKey": appKey,
		})
	}
	return app, nil
}

// Delete removes an app from the store and the search index and sends a
// DELETE event routed by the app's own key, captured before the row is
// removed.
func (s *AppService) Delete(id int64) error {
	appKey := ""
	if app, err := s.repo.FindByID(id); err == nil {
		appKey = app.AppKey
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		goerrorkit.LogError(goerrorkit.WrapWithMessage(err, "could not resolve appKey before deleting security app").WithData(map[string]interface{}{
			"id": id,
		}), "")
	}

	if err := s.repo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return goerrorkit.WrapWithMessage(err, "failed to delete security app").WithData(map[string]interface{}{
			"id": id,
		})
	}

	s.unmirror(id)
	s.notifier.Send(update.OperationDelete, update.KindSecurityApp, update.Tombstone{ID: id, AppKey: appKey})
	return nil
}

// Search resolves a search query against the app index and loads the hits
// from the store in relevance order.
func (s *AppService) Search(query string, page utils.Pageable) ([]models.SecurityApp, int64, error) {
	q, err := search.ParseQuery(query)
	if err != nil {
		return nil, 0, err
	}

	ids, total, err := s.searchRepo.Search(q, page)
	if err != nil {
		return nil, 0, goerrorkit.WrapWithMessage(err, "search failed for security apps").WithData(map[string]interface{}{
			"query": query,
		})
	}

	apps, err := s.repo.FindByIDs(ids)
	if err != nil {
		return nil, 0, goerrorkit.WrapWithMessage(err, "failed to load security apps for search hits")
	}
	return apps, int64(total), nil
}

func (s *AppService) generateCredentials(app *models.SecurityApp) error {
	key, err := utils.GenerateAppKey()
	if err != nil {
		return goerrorkit.WrapWithMessage(err, "failed to generate appKey")
	}
	secret, err := utils.GenerateAppSecret()
	if err != nil {
		return goerrorkit.WrapWithMessage(err, "failed to generate appSecret")
	}
	st, err := utils.GenerateSt()
	if err != nil {
		return goerrorkit.WrapWithMessage(err, "failed to generate session token salt")
	}
	app.AppKey = key
	app.AppSecret = secret
	app.St = st
	return nil
}

func (s *AppService) mirror(app *models.SecurityApp) {
	if err := s.searchRepo.Save(app.ID, app); err != nil {
		goerrorkit.LogError(goerrorkit.WrapWithMessage(err, "failed to mirror security app to search index").WithData(map[string]interface{}{
			"id": app.ID,
		}), "")
	}
}

func (s *AppService) unmirror(id int64) {
	if err := s.searchRepo.Delete(id); err != nil {
		goerrorkit.LogError(goerrorkit.WrapWithMessage(err, "failed to remove security app from search index").WithData(map[string]interface{}{
			"id": id,
		}), "")
	}
}
