package models

import "time"

// Notification represents system notifications for users
type Notification struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	UserID uint `json:"userID" gorm:"not null;index"`
	User   User `json:"-" gorm:"foreignKey:UserID"`

	Type    string `json:"type" gorm:"size:32;index"` // event_reminder, friend_request, etc.
	Title   string `json:"title" gorm:"size:100"`
	Message string `json:"message" gorm:"size:500"`

	// Reference data
	RefType string `json:"refType" gorm:"size:32"` // event, friend_request
	RefID   uint   `json:"refID"`
	// DedupKey prevents the reminder scanner from re-notifying the same
	// occurrence (event id + occurrence date).
	DedupKey string `json:"-" gorm:"size:64;uniqueIndex"`

	IsRead    bool       `json:"isRead" gorm:"default:false"`
	CreatedAt time.Time  `json:"createdAt"`
	ReadAt    *time.Time `json:"readAt"`
}
