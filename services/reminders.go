package services

import (
	"fmt"
	"log"
	"time"

	"gameplan-server/models"
	"gameplan-server/storage"

	"github.com/robfig/cron/v3"
)

// ReminderService periodically scans for events starting soon and writes a
// Notification row per upcoming occurrence. Delivery (push, email) is a
// separate concern; this only materializes the reminders.
type ReminderService struct {
	cron   *cron.Cron
	window time.Duration
}

func NewReminderService() *ReminderService {
	return &ReminderService{cron: cron.New(), window: time.Hour}
}

// Start schedules the scan every 15 minutes.
func (rs *ReminderService) Start() error {
	if _, err := rs.cron.AddFunc("*/15 * * * *", func() { rs.ScanUpcoming(time.Now()) }); err != nil {
		return err
	}
	rs.cron.Start()
	return nil
}

func (rs *ReminderService) Stop() {
	rs.cron.Stop()
}

// ScanUpcoming finds every occurrence starting within the window after now
// and records a reminder notification for its owner. The notification dedup
// key is (event, occurrence date), so re-scans are idempotent.
func (rs *ReminderService) ScanUpcoming(now time.Time) {
	now = now.UTC()
	windowEnd := now.Add(rs.window)

	// One-off events starting inside the window, plus every recurring event
	// already underway; the expander decides whether a recurring event
	// actually lands today or tomorrow.
	var events []models.Event
	err := storage.DB.
		Where("(recurrence = ? AND start_time BETWEEN ? AND ?) OR (recurrence <> ? AND start_time <= ?)",
			models.RecurrenceNone, now, windowEnd, models.RecurrenceNone, windowEnd).
		Find(&events).Error
	if err != nil {
		log.Printf("reminders: scan query failed: %v", err)
		return
	}

	for i := range events {
		ev := events[i]
		for _, date := range Expand(ev, now, windowEnd) {
			start, _ := OccurrenceTimes(ev, date)
			if start.Before(now) || start.After(windowEnd) {
				continue
			}
			rs.record(ev, date, start)
		}
	}
}

func (rs *ReminderService) record(ev models.Event, date, start time.Time) {
	notification := models.Notification{
		UserID:   ev.UserID,
		Type:     "event_reminder",
		Title:    "Upcoming event",
		Message:  fmt.Sprintf("%s starts at %s", ev.Title, start.Format("15:04")),
		RefType:  "event",
		RefID:    ev.ID,
		DedupKey: fmt.Sprintf("event:%d:%s", ev.ID, date.Format("2006-01-02")),
	}
	result := storage.DB.Where("dedup_key = ?", notification.DedupKey).FirstOrCreate(&notification)
	if result.Error != nil {
		log.Printf("reminders: failed to record notification for event %d: %v", ev.ID, result.Error)
	}
}
