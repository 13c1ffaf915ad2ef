package service

import (
	"errors"
	"time"

	"github.com/techmaster-vietnam/goerrorkit"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/boyuanitsm/fort/core"
	"github.com/boyuanitsm/fort/models"
	"github.com/boyuanitsm/fort/search"
	"github.com/boyuanitsm/fort/update"
	"github.com/boyuanitsm/fort/utils"
)

// UserService manages SecurityUser and performs SDK user authentication.
type UserService struct {
	repo       core.UserRepository
	loginRepo  core.LoginEventRepository
	searchRepo core.Searcher
	notifier   core.Notifier
}

// NewUserService creates a new UserService.
func NewUserService(repo core.UserRepository, loginRepo core.LoginEventRepository, searchRepo core.Searcher, notifier core.Notifier) *UserService {
	return &UserService{repo: repo, loginRepo: loginRepo, searchRepo: searchRepo, notifier: notifier}
}

// Save persists a user. password is the plain-text password to set; it is
// required on create and optional on update (empty keeps the current hash).
func (s *UserService) Save(rc *RequestContext, user *models.SecurityUser, password string) (*models.SecurityUser, error) {
	op := update.OperationPost
	if user.ID != 0 {
		op = update.OperationPut
	}

	if user.ID == 0 && password == "" {
		return nil, goerrorkit.NewValidationError("password is required for a new user", map[string]interface{}{
			"login": user.Login,
		})
	}

	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, goerrorkit.WrapWithMessage(err, "failed to hash password")
		}
		user.PasswordHash = string(hash)
	} else if user.ID != 0 && user.PasswordHash == "" {
		current, err := s.repo.FindByID(user.ID)
		if err != nil {
			return nil, goerrorkit.WrapWithMessage(err, "failed to load current password hash").WithData(map[string]interface{}{
				"id": user.ID,
			})
		}
		user.PasswordHash = current.PasswordHash
	}

	if app := rc.CurrentApp(); app != nil {
		user.App = app
		user.AppID = app.ID
	}

	if err := s.repo.Save(user); err != nil {
		return nil, goerrorkit.WrapWithMessage(err, "failed to save security user").WithData(map[string]interface{}{
			"login": user.Login,
		})
	}

	saved, err := s.repo.FindByID(user.ID)
	if err != nil {
		return nil, goerrorkit.WrapWithMessage(err, "failed to reload security user after save").WithData(map[string]interface{}{
			"id": user.ID,
		})
	}

	s.mirror(saved)
	s.notifier.Send(op, update.KindSecurityUser, saved)
	return saved, nil
}

// FindAll returns one page of users, scoped to one app when appID is set.
func (s *UserService) FindAll(page utils.Pageable, appID int64) ([]models.SecurityUser, int64, error) {
	if appID != 0 {
		return s.repo.FindAllByAppID(page, appID)
	}
	return s.repo.FindAll(page)
}

// FindOne returns one user with roles and groups, or nil when it does not
// exist.
func (s *UserService) FindOne(id int64) (*models.SecurityUser, error) {
	user, err := s.repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, goerrorkit.WrapWithMessage(err, "failed to load security user").WithData(map[string]interface{}{
			"id": id,
		})
	}
	return user, nil
}

// FindByAppAndLogin returns the user with this login inside one app, or nil.
func (s *UserService) FindByAppAndLogin(appID int64, login string) (*models.SecurityUser, error) {
	user, err := s.repo.FindByAppAndLogin(appID, login)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, goerrorkit.WrapWithMessage(err, "failed to look up security user by login").WithData(map[string]interface{}{
			"appId": appID,
			"login": login,
		})
	}
	return user, nil
}

// Authenticate verifies an SDK user's credentials against one app, records a
// login event with a fresh session token and returns the user with roles and
// groups plus the token. The login-event write is best-effort; a failure is
// logged and the authentication still succeeds.
func (s *UserService) Authenticate(app *models.SecurityApp, login, password, ip, userAgent string, tokenTTL time.Duration) (*models.SecurityUser, string, error) {
	user, err := s.repo.FindByAppAndLogin(app.ID, login)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", goerrorkit.NewAuthError(401, "invalid login or password")
		}
		return nil, "", goerrorkit.WrapWithMessage(err, "failed to load user for authentication").WithData(map[string]interface{}{
			"login": login,
		})
	}

	if !user.Activated {
		return nil, "", goerrorkit.NewAuthError(403, "user account is deactivated").WithData(map[string]interface{}{
			"login": login,
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", goerrorkit.NewAuthError(401, "invalid login or password")
	}

	st, err := utils.GenerateSt()
	if err != nil {
		return nil, "", goerrorkit.WrapWithMessage(err, "failed to generate session token")
	}

	event := &models.SecurityLoginEvent{
		UserID:           user.ID,
		IP:               ip,
		UserAgent:        userAgent,
		St:               st,
		TokenOverdueTime: time.Now().Add(tokenTTL),
	}
	if err := s.loginRepo.Save(event); err != nil {
		goerrorkit.LogError(goerrorkit.WrapWithMessage(err, "failed to record login event").WithData(map[string]interface{}{
			"login": login,
		}), "")
	}

	return user, st, nil
}

// Delete removes a user from the store and the search index and sends a
// DELETE event. The owning appKey is captured before the row is removed.
func (s *UserService) Delete(id int64) error {
	appKey := ""
	if user, err := s.repo.FindByID(id); err == nil {
		appKey = user.GetAppKey()
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		goerrorkit.LogError(goerrorkit.WrapWithMessage(err, "could not resolve owning app before deleting security user").WithData(map[string]interface{}{
			"id": id,
		}), "")
	}

	if err := s.repo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return goerrorkit.WrapWithMessage(err, "failed to delete security user").WithData(map[string]interface{}{
			"id": id,
		})
	}

	s.unmirror(id)
	s.notifier.Send(update.OperationDelete, update.KindSecurityUser, update.Tombstone{ID: id, AppKey: appKey})
	return nil
}

// Search resolves a search query against the user index and loads the hits
// from the store in relevance order.
func (s *UserService) Search(query string, page utils.Pageable) ([]models.SecurityUser, int64, error) {
	q, err := search.ParseQuery(query)
	if err != nil {
		return nil, 0, err
	}

	ids, total, err := s.searchRepo.Search(q, page)
	if err != nil {
		return nil, 0, goerrorkit.WrapWithMessage(err, "search failed for security users").WithData(map[string]interface{}{
			"query": query,
		})
	}

	users, err := s.repo.FindByIDs(ids)
	if err != nil {
		return nil, 0, goerrorkit.WrapWithMessage(err, "failed to load security users for search hits")
	}
	return users, int64(total), nil
}

func (s *UserService) mirror(user *models.SecurityUser) {
	if err := s.searchRepo.Save(user.ID, user); err != nil {
		goerrorkit.LogError(goerrorkit.WrapWithMessage(err, "failed to mirror security user to search index").WithData(map[string]interface{}{
			"id": user.ID,
		}), "")
	}
}

func (s *UserService) unmirror(id int64) {
	if err := s.searchRepo.Delete(id); err != nil {
		goerrorkit.LogError(goerrorkit.WrapWithMessage(err, "failed to remove security user from search index").WithData(map[string]interface{}{
			"id": id,
		}), "")
	}
}
