package models

import (
	"time"
)

// SecurityNav represents a navigation item of an app's console. Navs form a
// tree via ParentID and may point at a resource that guards them.
type SecurityNav struct {
	ID          int64                   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string                  `gorm:"type:varchar(50);not null" json:"name"`
	Icon        string                  `gorm:"type:varchar(100)" json:"icon"`
	Description string                  `gorm:"type:varchar(200)" json:"description"`
	Position    float64                 `gorm:"default:0" json:"position"`
	St          string                  `gorm:"type:varchar(60)" json:"st"`
	ParentID    *int64                  `gorm:"index" json:"parentId,omitempty"`
	Parent      *SecurityNav            `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
	ResourceID  *int64                  `gorm:"index" json:"resourceId,omitempty"`
	Resource    *SecurityResourceEntity `gorm:"foreignKey:ResourceID" json:"resource,omitempty"`
	AppID       int64                   `gorm:"index" json:"appId"`
	App         *SecurityApp            `gorm:"foreignKey:AppID" json:"app,omitempty"`
	CreatedAt   time.Time               `json:"createdAt"`
	UpdatedAt   time.Time               `json:"updatedAt"`
}

// TableName specifies the table name
func (SecurityNav) TableName() string {
	return "security_nav"
}

// GetID returns the primary key
func (n *SecurityNav) GetID() int64 {
	return n.ID
}

// GetAppKey returns the owning app's key, or "" when the association is not
// loaded.
func (n *SecurityNav) GetAppKey() string {
	if n.App == nil {
		return ""
	}
	return n.App.AppKey
}
