package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"gameplan-server/models"
)

// CalendarEntry is one occurrence rendered into a day cell.
type CalendarEntry struct {
	EventID   uint      `json:"eventID"`
	Title     string    `json:"title"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
	Priority  int       `json:"priority"`
	Recurring bool      `json:"recurring"`
	GameName  string    `json:"gameName,omitempty"`
	GameColor string    `json:"gameColor,omitempty"`
}

// DayCell is one day of the month grid. Day 0 marks padding cells outside
// the month, mirroring how calendar week rows are usually laid out.
type DayCell struct {
	Day     int             `json:"day"`
	Date    *time.Time      `json:"date,omitempty"`
	Entries []CalendarEntry `json:"entries"`
}

// MonthGrid is the day-by-day structure the rendering layer consumes.
type MonthGrid struct {
	Year      int         `json:"year"`
	Month     int         `json:"month"`
	Days      int         `json:"days"`
	Weeks     [][]DayCell `json:"weeks"`
	PrevMonth string      `json:"prevMonth"`
	NextMonth string      `json:"nextMonth"`
}

// BuildMonth expands the given events over one calendar month and lays them
// out in Monday-first week rows. Entries within a day are ordered by start
// time, ties broken by event ID, so rendering is deterministic.
func BuildMonth(year int, month time.Month, events []models.Event) *MonthGrid {
	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)
	days := monthEnd.Day()

	entriesByDay := make(map[int][]CalendarEntry, days)
	for i := range events {
		ev := events[i]
		for _, date := range Expand(ev, monthStart, monthEnd) {
			start, end := OccurrenceTimes(ev, date)
			entry := CalendarEntry{
				EventID:   ev.ID,
				Title:     ev.Title,
				StartTime: start,
				EndTime:   end,
				Priority:  ev.Priority,
				Recurring: ev.Recurring(),
			}
			if ev.Game != nil {
				entry.GameName = ev.Game.Name
				entry.GameColor = ev.Game.Color
			}
			entriesByDay[date.Day()] = append(entriesByDay[date.Day()], entry)
		}
	}

	for day, entries := range entriesByDay {
		sort.SliceStable(entries, func(i, j int) bool {
			if !entries[i].StartTime.Equal(entries[j].StartTime) {
				return entries[i].StartTime.Before(entries[j].StartTime)
			}
			return entries[i].EventID < entries[j].EventID
		})
		entriesByDay[day] = entries
	}

	grid := &MonthGrid{
		Year:      year,
		Month:     int(month),
		Days:      days,
		PrevMonth: prevMonthToken(monthStart),
		NextMonth: nextMonthToken(monthStart),
	}

	// Monday-first alignment: time.Weekday has Sunday == 0.
	offset := (int(monthStart.Weekday()) + 6) % 7

	week := make([]DayCell, 0, 7)
	for i := 0; i < offset; i++ {
		week = append(week, DayCell{})
	}
	for day := 1; day <= days; day++ {
		date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
		entries := entriesByDay[day]
		if entries == nil {
			entries = []CalendarEntry{}
		}
		week = append(week, DayCell{Day: day, Date: &date, Entries: entries})
		if len(week) == 7 {
			grid.Weeks = append(grid.Weeks, week)
			week = make([]DayCell, 0, 7)
		}
	}
	if len(week) > 0 {
		for len(week) < 7 {
			week = append(week, DayCell{})
		}
		grid.Weeks = append(grid.Weeks, week)
	}

	return grid
}

func prevMonthToken(monthStart time.Time) string {
	prev := monthStart.AddDate(0, 0, -1)
	return fmt.Sprintf("%d-%d", prev.Year(), int(prev.Month()))
}

func nextMonthToken(monthStart time.Time) string {
	next := monthStart.AddDate(0, 1, 0)
	return fmt.Sprintf("%d-%d", next.Year(), int(next.Month()))
}

// ParseMonthToken parses a "YYYY-M" navigation token. Anything unparseable
// falls back to the month containing fallback.
func ParseMonthToken(token string, fallback time.Time) (int, time.Month) {
	parts := strings.SplitN(token, "-", 2)
	if len(parts) == 2 {
		year, errY := strconv.Atoi(parts[0])
		month, errM := strconv.Atoi(parts[1])
		if errY == nil && errM == nil && month >= 1 && month <= 12 && year >= 1 {
			return year, time.Month(month)
		}
	}
	return fallback.Year(), fallback.Month()
}
