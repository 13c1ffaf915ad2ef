package service

import (
	"errors"

	"github.com/techmaster-vietnam/goerrorkit"
	"gorm.io/gorm"

	"github.com/boyuanitsm/fort/core"
	"github.com/boyuanitsm/fort/models"
	"github.com/boyuanitsm/fort/utils"
)

// LoginEventService exposes the read-only login event history. Events are
// written by UserService.Authenticate only.
type LoginEventService struct {
	repo core.LoginEventRepository
}

// NewLoginEventService creates a new LoginEventService.
func NewLoginEventService(repo core.LoginEventRepository) *LoginEventService {
	return &LoginEventService{repo: repo}
}

// FindAll returns one page of login events, newest first, scoped to one user
// when userID is set.
func (s *LoginEventService) FindAll(page utils.Pageable, userID int64) ([]models.SecurityLoginEvent, int64, error) {
	if userID != 0 {
		return s.repo.FindAllByUserID(page, userID)
	}
	return s.repo.FindAll(page)
}

// FindBySt returns the login event that issued a session token, or nil.
func (s *LoginEventService) FindBySt(st string) (*models.SecurityLoginEvent, error) {
	event, err := s.repo.FindBySt(st)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, goerrorkit.WrapWithMessage(err, "failed to look up login event by token")
	}
	return event, nil
}
