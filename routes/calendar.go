package routes

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"gameplan-server/models"
	"gameplan-server/services"
	"gameplan-server/storage"
	"gameplan-server/utils"

	ics "github.com/arran4/golang-ical"
	"github.com/kataras/iris/v12"
)

// GetCalendar renders one month of an owner's calendar for whoever the
// access gate lets through: the owner, an accepted friend, or a share-token
// holder. Anonymous callers without a valid token get 401, authenticated
// non-friends 403.
func GetCalendar(ctx iris.Context) {
	owner, level, ok := gateCalendarRequest(ctx)
	if !ok {
		return
	}

	year, month := services.ParseMonthToken(ctx.URLParamDefault("month", ""), time.Now().UTC())
	grid := services.BuildMonth(year, month, monthEvents(owner.ID, year, month))

	ctx.JSON(iris.Map{
		"owner":    owner.Public(),
		"viewer":   level.String(),
		"calendar": grid,
	})
}

type ShareCalendarInput struct {
	ExpiresInHours int `json:"expiresInHours" validate:"omitempty,min=1,max=8760"`
}

// CreateShareLink issues a share token for the caller's own calendar,
// optionally expiring, the same way invite links carry an optional
// expiration.
func CreateShareLink(ctx iris.Context) {
	userID, ok := utils.RequireUserID(ctx)
	if !ok {
		return
	}

	var input ShareCalendarInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var expiresAt *time.Time
	if input.ExpiresInHours > 0 {
		exp := time.Now().UTC().Add(time.Duration(input.ExpiresInHours) * time.Hour)
		expiresAt = &exp
	}

	access := models.CalendarAccess{UserID: userID, ExpiresAt: expiresAt}
	if err := storage.DB.Create(&access).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{
		"token":     access.Token,
		"shareLink": fmt.Sprintf("/api/users/%d/calendar?token=%s", userID, access.Token),
		"expiresAt": access.ExpiresAt,
	})
}

// ExportCalendarICS serves the owner's events as an iCalendar feed, with
// RRULE lines for recurring events so subscribing clients expand them
// natively. Access follows the same gate as the month view.
func ExportCalendarICS(ctx iris.Context) {
	owner, _, ok := gateCalendarRequest(ctx)
	if !ok {
		return
	}

	var events []models.Event
	storage.DB.Where("user_id = ?", owner.ID).Order("start_time").Find(&events)

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//GamePlan//Calendar//EN")

	for i := range events {
		ev := events[i]
		vevent := cal.AddEvent(fmt.Sprintf("event-%d@gameplan", ev.ID))
		vevent.SetCreatedTime(ev.CreatedAt)
		vevent.SetModifiedAt(ev.UpdatedAt)
		vevent.SetStartAt(ev.StartTime.UTC())
		vevent.SetEndAt(ev.EndTime.UTC())
		vevent.SetSummary(ev.Title)
		if ev.Description != "" {
			vevent.SetDescription(ev.Description)
		}
		if ev.Recurring() {
			rule := "FREQ=" + strings.ToUpper(ev.Recurrence)
			if ev.RecurrenceEnd != nil {
				rule += ";UNTIL=" + services.Date(*ev.RecurrenceEnd).Format("20060102T150405Z")
			}
			vevent.AddRrule(rule)
		}
	}

	ctx.ContentType("text/calendar")
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", owner.Username+".ics"))
	ctx.WriteString(cal.Serialize())
}

// gateCalendarRequest resolves the owner from the route and classifies the
// caller. A non-numeric or unknown owner id is 404; a denied caller is 401
// when anonymous and 403 otherwise.
func gateCalendarRequest(ctx iris.Context) (*models.User, services.AccessLevel, bool) {
	ownerID, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateNotFound(ctx, "calendar not found")
		return nil, services.AccessDenied, false
	}

	var owner models.User
	if storage.DB.First(&owner, ownerID).Error != nil {
		utils.CreateNotFound(ctx, "calendar not found")
		return nil, services.AccessDenied, false
	}

	viewerID := utils.CurrentUserID(ctx)
	token := ctx.URLParamDefault("token", "")

	level := services.ClassifyCalendarAccess(viewerID, owner.ID, token)
	if level == services.AccessDenied {
		// A presented-but-bad token is a lookup miss, not a permission call.
		if token != "" {
			utils.CreateNotFound(ctx, "invalid or expired share token")
		} else if viewerID == nil {
			utils.JSONError(ctx, http.StatusUnauthorized, "unauthenticated", "log in or present a share token")
		} else {
			utils.CreateForbidden(ctx, "you are not friends with this calendar's owner")
		}
		return nil, services.AccessDenied, false
	}

	return &owner, level, true
}

// monthEvents loads everything that can land in the month: one-off events
// starting inside it plus recurring events that began on or before its last
// day. The expander trims recurrence ends.
func monthEvents(ownerID uint, year int, month time.Month) []models.Event {
	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	nextMonth := monthStart.AddDate(0, 1, 0)

	var events []models.Event
	storage.DB.Preload("Game").
		Where("user_id = ? AND ((start_time >= ? AND start_time < ?) OR (recurrence <> ? AND start_time < ?))",
			ownerID, monthStart, nextMonth, models.RecurrenceNone, nextMonth).
		Find(&events)
	return events
}
