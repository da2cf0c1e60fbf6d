package models

import (
	"time"

	"gorm.io/gorm"
)

// Recurrence rules supported by the expander.
const (
	RecurrenceNone    = "none"
	RecurrenceDaily   = "daily"
	RecurrenceWeekly  = "weekly"
	RecurrenceMonthly = "monthly"
)

// Event priorities, low to high.
const (
	PriorityLow    = 1
	PriorityMedium = 2
	PriorityHigh   = 3
)

type Event struct {
	gorm.Model
	UserID      uint   `json:"userID" gorm:"not null;index"`
	User        User   `json:"-" gorm:"foreignKey:UserID"`
	Title       string `json:"title" gorm:"size:200;not null"`
	Description string `json:"description"`

	StartTime time.Time `json:"startTime" gorm:"not null;index"`
	EndTime   time.Time `json:"endTime" gorm:"not null"`

	Priority int   `json:"priority" gorm:"default:2"`
	GameID   *uint `json:"gameID"`
	Game     *Game `json:"game,omitempty" gorm:"foreignKey:GameID"`

	// Recurrence is one of none/daily/weekly/monthly. RecurrenceEnd bounds
	// the repetition by calendar date; nil means unbounded.
	Recurrence    string     `json:"recurrence" gorm:"size:20;default:none;index"`
	RecurrenceEnd *time.Time `json:"recurrenceEnd"`
}

func (e *Event) Recurring() bool {
	return e.Recurrence != "" && e.Recurrence != RecurrenceNone
}

// StartDate is the civil date of the first occurrence, at midnight UTC.
func (e *Event) StartDate() time.Time {
	y, m, d := e.StartTime.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ValidRecurrence(rule string) bool {
	switch rule {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly:
		return true
	}
	return false
}
