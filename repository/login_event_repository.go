package repository

import (
	"gorm.io/gorm"

	"github.com/boyuanitsm/fort/models"
	"github.com/boyuanitsm/fort/utils"
)

// LoginEventRepository is the GORM repository for SecurityLoginEvent.
// Login events are append-only, so there is no update or delete.
type LoginEventRepository struct {
	db *gorm.DB
}

// NewLoginEventRepository creates a new LoginEventRepository.
func NewLoginEventRepository(db *gorm.DB) *LoginEventRepository {
	return &LoginEventRepository{db: db}
}

// Save appends one login event.
func (r *LoginEventRepository) Save(event *models.SecurityLoginEvent) error {
	return r.db.Create(event).Error
}

// FindAll returns one page of login events, newest first.
func (r *LoginEventRepository) FindAll(page utils.Pageable) ([]models.SecurityLoginEvent, int64, error) {
	var total int64
	if err := r.db.Model(&models.SecurityLoginEvent{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var events []models.SecurityLoginEvent
	err := r.db.Preload("User").
		Order("id DESC").Offset(page.Offset()).Limit(page.Size).
		Find(&events).Error
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

// FindAllByUserID returns one page of login events of one user, newest first.
func (r *LoginEventRepository) FindAllByUserID(page utils.Pageable, userID int64) ([]models.SecurityLoginEvent, int64, error) {
	var total int64
	if err := r.db.Model(&models.SecurityLoginEvent{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var events []models.SecurityLoginEvent
	err := r.db.Preload("User").Where("user_id = ?", userID).
		Order("id DESC").Offset(page.Offset()).Limit(page.Size).
		Find(&events).Error
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

// FindBySt finds the login event that issued a session token.
func (r *LoginEventRepository) FindBySt(st string) (*models.SecurityLoginEvent, error) {
	var event models.SecurityLoginEvent
	if err := r.db.Preload("User").Where("st = ?", st).First(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}
