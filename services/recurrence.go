package services

import (
	"time"

	"gameplan-server/models"

	"github.com/teambition/rrule-go"
)

// Date truncates t to its civil date at midnight UTC. All expansion happens
// on this granularity.
func Date(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Expand returns every date in [rangeStart, rangeEnd] (inclusive, midnight
// UTC) on which the event occurs. Unbounded recurrences are clipped to the
// query window, so the result is always finite.
//
// Monthly recurrence keeps the start date's day-of-month and skips months
// that lack it: an event on the 31st never lands in February. That follows
// RFC 5545 / dateutil semantics, which rrule-go implements.
func Expand(ev models.Event, rangeStart, rangeEnd time.Time) []time.Time {
	rangeStart = Date(rangeStart)
	rangeEnd = Date(rangeEnd)
	if rangeEnd.Before(rangeStart) {
		return nil
	}

	start := ev.StartDate()

	if !ev.Recurring() {
		if start.Before(rangeStart) || start.After(rangeEnd) {
			return nil
		}
		return []time.Time{start}
	}

	if start.After(rangeEnd) {
		return nil
	}

	var freq rrule.Frequency
	switch ev.Recurrence {
	case models.RecurrenceDaily:
		freq = rrule.DAILY
	case models.RecurrenceWeekly:
		freq = rrule.WEEKLY
	case models.RecurrenceMonthly:
		freq = rrule.MONTHLY
	default:
		return nil
	}

	opt := rrule.ROption{Freq: freq, Dtstart: start}
	if ev.RecurrenceEnd != nil {
		until := Date(*ev.RecurrenceEnd)
		if until.Before(rangeStart) {
			return nil
		}
		opt.Until = until
	}

	r, err := rrule.NewRRule(opt)
	if err != nil {
		return nil
	}

	return r.Between(rangeStart, rangeEnd, true)
}

// OccurrenceTimes maps an occurrence date back to concrete start/end times,
// preserving the event's time of day and duration.
func OccurrenceTimes(ev models.Event, date time.Time) (time.Time, time.Time) {
	st := ev.StartTime.UTC()
	start := time.Date(date.Year(), date.Month(), date.Day(),
		st.Hour(), st.Minute(), st.Second(), 0, time.UTC)
	end := start.Add(ev.EndTime.Sub(ev.StartTime))
	return start, end
}
