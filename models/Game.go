package models

import (
	"time"

	"gorm.io/gorm"
)

// Platform and color values accepted for a game. The color is used by the
// calendar UI to tint event cells belonging to this game.
var (
	GamePlatforms = []string{"PC", "PS", "XBOX", "NS"}
	GameColors    = []string{
		"#FF5733", "#FFA500", "#FFFF33", "#33FF57",
		"#3357FF", "#FF33FF", "#800080", "#FFFFFF",
	}
)

type Game struct {
	gorm.Model
	UserID      uint       `json:"userID" gorm:"not null;index"`
	User        User       `json:"-" gorm:"foreignKey:UserID"`
	Name        string     `json:"name" gorm:"size:200;not null"`
	Genre       string     `json:"genre" gorm:"size:100"`
	Platform    string     `json:"platform" gorm:"size:50"`
	Developer   string     `json:"developer" gorm:"size:100"`
	ReleaseDate *time.Time `json:"releaseDate"`
	Color       string     `json:"color" gorm:"size:7;default:#FFFFFF"`
	PictureLink string     `json:"pictureLink" gorm:"size:1000"`
}
