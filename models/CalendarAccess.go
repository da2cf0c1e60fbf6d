package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CalendarAccess grants read-only access to one owner's calendar to anyone
// holding the token. Tokens are UUIDs; anything that does not parse as a
// UUID is rejected before the store is queried.
type CalendarAccess struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	UserID uint `json:"userID" gorm:"not null;index"`
	User   User `json:"-" gorm:"foreignKey:UserID"`

	Token     string     `json:"token" gorm:"uniqueIndex;size:36;not null"`
	ExpiresAt *time.Time `json:"expiresAt"`

	CreatedAt time.Time `json:"createdAt"`
}

func (c *CalendarAccess) BeforeCreate(tx *gorm.DB) error {
	if c.Token == "" {
		c.Token = uuid.NewString()
	}
	return nil
}

func (c *CalendarAccess) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && c.ExpiresAt.Before(now)
}
