package models

import (
	"time"
)

// SecurityGroup represents a group of users inside one app.
// Group names are unique per app, not globally.
type SecurityGroup struct {
	ID        int64        `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string       `gorm:"type:varchar(50);not null;uniqueIndex:idx_group_app_name" json:"name"`
	AppID     int64        `gorm:"uniqueIndex:idx_group_app_name;index" json:"appId"`
	App       *SecurityApp `gorm:"foreignKey:AppID" json:"app,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// TableName specifies the table name
func (SecurityGroup) TableName() string {
	return "security_group"
}

// GetID returns the primary key
func (g *SecurityGroup) GetID() int64 {
	return g.ID
}

// GetAppKey returns the owning app's key, or "" when the association is not
// loaded.
func (g *SecurityGroup) GetAppKey() string {
	if g.App == nil {
		return ""
	}
	return g.App.AppKey
}
