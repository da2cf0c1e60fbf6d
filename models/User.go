package models

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Username  string `json:"username" gorm:"uniqueIndex;size:150;not null"`
	Email     string `json:"email" gorm:"uniqueIndex;size:254;not null"`
	Password  string `json:"-"`
	AvatarURL string `json:"avatarURL"`
}

// PublicUser is the projection returned to other users (search, friend
// lists); it never carries the password hash or email.
type PublicUser struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatarURL"`
}

func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username, AvatarURL: u.AvatarURL}
}
