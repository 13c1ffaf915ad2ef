package models

import (
	"time"
)

// SecurityUser represents an end user of one app, authenticated by SDK clients
// through the /api/sdk endpoints. Logins are unique per app.
type SecurityUser struct {
	ID           int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Login        string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_user_app_login" json:"login"`
	PasswordHash string          `gorm:"type:varchar(100);not null" json:"-"`
	Activated    bool            `gorm:"default:true" json:"activated"`
	St           string          `gorm:"type:varchar(60)" json:"st"`
	AppID        int64           `gorm:"uniqueIndex:idx_user_app_login;index" json:"appId"`
	App          *SecurityApp    `gorm:"foreignKey:AppID" json:"app,omitempty"`
	Roles        []SecurityRole  `gorm:"many2many:security_user_roles" json:"roles,omitempty"`
	Groups       []SecurityGroup `gorm:"many2many:security_user_groups" json:"groups,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// TableName specifies the table name
func (SecurityUser) TableName() string {
	return "security_user"
}

// GetID returns the primary key
func (u *SecurityUser) GetID() int64 {
	return u.ID
}

// GetAppKey returns the owning app's key, or "" when the association is not
// loaded.
func (u *SecurityUser) GetAppKey() string {
	if u.App == nil {
		return ""
	}
	return u.App.AppKey
}
