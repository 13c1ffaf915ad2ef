package models

import (
	"time"
)

// SecurityResourceEntity represents a protected resource of an app, matched by
// URL pattern on the client side. Resource URLs are unique per app.
type SecurityResourceEntity struct {
	ID          int64        `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string       `gorm:"type:varchar(50);not null" json:"name"`
	Description string       `gorm:"type:varchar(200)" json:"description"`
	Url         string       `gorm:"type:varchar(200);not null;uniqueIndex:idx_resource_app_url" json:"url"`
	St          string       `gorm:"type:varchar(60)" json:"st"`
	AppID       int64        `gorm:"uniqueIndex:idx_resource_app_url;index" json:"appId"`
	App         *SecurityApp `gorm:"foreignKey:AppID" json:"app,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// TableName specifies the table name
func (SecurityResourceEntity) TableName() string {
	return "security_resource_entity"
}

// GetID returns the primary key
func (e *SecurityResourceEntity) GetID() int64 {
	return e.ID
}

// GetAppKey returns the owning app's key, or "" when the association is not
// loaded.
func (e *SecurityResourceEntity) GetAppKey() string {
	if e.App == nil {
		return ""
	}
	return e.App.AppKey
}
