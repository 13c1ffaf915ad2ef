package models

import (
	"time"
)

// SecurityRole represents a role inside one app. A role grants access to a set
// of resources; SDK clients cache the role → resource mapping and rely on
// update events to invalidate it.
type SecurityRole struct {
	ID          int64                  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string                 `gorm:"type:varchar(50);not null;uniqueIndex:idx_role_app_name" json:"name"`
	Description string                 `gorm:"type:varchar(200)" json:"description"`
	AppID       int64                  `gorm:"uniqueIndex:idx_role_app_name;index" json:"appId"`
	App         *SecurityApp           `gorm:"foreignKey:AppID" json:"app,omitempty"`
	Resources   []SecurityResourceEntity `gorm:"many2many:security_role_resources" json:"resources,omitempty"`
	CreatedAt   time.Time              `json:"createdAt"`
	UpdatedAt   time.Time              `json:"updatedAt"`
}

// TableName specifies the table name
func (SecurityRole) TableName() string {
	return "security_role"
}

// GetID returns the primary key
func (r *SecurityRole) GetID() int64 {
	return r.ID
}

// GetAppKey returns the owning app's key, or "" when the association is not
// loaded.
func (r *SecurityRole) GetAppKey() string {
	if r.App == nil {
		return ""
	}
	return r.App.AppKey
}
