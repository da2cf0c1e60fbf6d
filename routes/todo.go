package routes

import (
	"sort"
	"time"

	"gameplan-server/models"
	"gameplan-server/services"
	"gameplan-server/storage"
	"gameplan-server/utils"

	"github.com/kataras/iris/v12"
)

type todoGroup struct {
	GameName      string                   `json:"gameName"`
	GameColor     string                   `json:"gameColor,omitempty"`
	Entries       []services.CalendarEntry `json:"entries"`
	earliestStart time.Time
	topPriority   int
}

// GetTodoList returns today's agenda grouped by game: one-off events dated
// today plus today's occurrences of recurring events. Groups are ordered by
// earliest start, then highest priority; events without a game come under
// "No Game".
func GetTodoList(ctx iris.Context) {
	userID, ok := utils.RequireUserID(ctx)
	if !ok {
		return
	}

	today := services.Date(time.Now().UTC())

	var events []models.Event
	storage.DB.Preload("Game").
		Where("user_id = ? AND ((start_time >= ? AND start_time < ?) OR (recurrence <> ? AND start_time < ?))",
			userID, today, today.AddDate(0, 0, 1), models.RecurrenceNone, today.AddDate(0, 0, 1)).
		Find(&events)

	groups := make(map[string]*todoGroup)
	for i := range events {
		ev := events[i]
		for _, date := range services.Expand(ev, today, today) {
			start, end := services.OccurrenceTimes(ev, date)

			name := "No Game"
			color := ""
			if ev.Game != nil {
				name = ev.Game.Name
				color = ev.Game.Color
			}

			group, exists := groups[name]
			if !exists {
				group = &todoGroup{GameName: name, GameColor: color, earliestStart: start, topPriority: ev.Priority}
				groups[name] = group
			}
			group.Entries = append(group.Entries, services.CalendarEntry{
				EventID:   ev.ID,
				Title:     ev.Title,
				StartTime: start,
				EndTime:   end,
				Priority:  ev.Priority,
				Recurring: ev.Recurring(),
				GameName:  name,
				GameColor: color,
			})
			if start.Before(group.earliestStart) {
				group.earliestStart = start
			}
			if ev.Priority > group.topPriority {
				group.topPriority = ev.Priority
			}
		}
	}

	out := make([]*todoGroup, 0, len(groups))
	for _, group := range groups {
		sort.SliceStable(group.Entries, func(i, j int) bool {
			if !group.Entries[i].StartTime.Equal(group.Entries[j].StartTime) {
				return group.Entries[i].StartTime.Before(group.Entries[j].StartTime)
			}
			return group.Entries[i].Priority > group.Entries[j].Priority
		})
		out = append(out, group)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].earliestStart.Equal(out[j].earliestStart) {
			return out[i].earliestStart.Before(out[j].earliestStart)
		}
		return out[i].topPriority > out[j].topPriority
	})

	ctx.JSON(iris.Map{"date": today.Format("2006-01-02"), "groups": out})
}
