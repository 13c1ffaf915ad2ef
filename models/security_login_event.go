package models

import (
	"time"
)

// SecurityLoginEvent records one successful SDK authentication. Login events
// are append-only; they are never updated and never mirrored to the update
// notifier.
type SecurityLoginEvent struct {
	ID               int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID           int64         `gorm:"index;not null" json:"userId"`
	User             *SecurityUser `gorm:"foreignKey:UserID" json:"user,omitempty"`
	IP               string        `gorm:"type:varchar(45)" json:"ip"`
	UserAgent        string        `gorm:"type:varchar(255)" json:"userAgent"`
	St               string        `gorm:"type:varchar(60);index" json:"st"`
	TokenOverdueTime time.Time     `json:"tokenOverdueTime"`
	CreatedAt        time.Time     `json:"createdAt"`
}

// TableName specifies the table name
func (SecurityLoginEvent) TableName() string {
	return "security_login_event"
}
