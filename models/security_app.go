package models

import (
	"time"
)

// SecurityApp represents a tenant application. Every other security entity is
// owned by exactly one app; the appKey/appSecret pair is the credential SDK
// clients authenticate with.
type SecurityApp struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	AppName   string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"appName"`
	AppKey    string    `gorm:"type:varchar(20);uniqueIndex" json:"appKey"`
	AppSecret string    `gorm:"type:varchar(20)" json:"appSecret"`
	St        string    `gorm:"type:varchar(60)" json:"st"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name
func (SecurityApp) TableName() string {
	return "security_app"
}

// GetID returns the primary key
func (a *SecurityApp) GetID() int64 {
	return a.ID
}

// GetAppKey returns the app's own key. A SecurityApp is its own owner for
// update-event routing purposes.
func (a *SecurityApp) GetAppKey() string {
	return a.AppKey
}
