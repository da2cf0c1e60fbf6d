package routes

import (
	"time"

	"gameplan-server/models"
	"gameplan-server/services"
	"gameplan-server/storage"
	"gameplan-server/utils"

	"github.com/kataras/iris/v12"
)

type EventInput struct {
	Title         string     `json:"title" validate:"required,max=200"`
	Description   string     `json:"description"`
	StartTime     time.Time  `json:"startTime" validate:"required"`
	EndTime       time.Time  `json:"endTime" validate:"required"`
	Priority      int        `json:"priority" validate:"omitempty,min=1,max=3"`
	GameID        *uint      `json:"gameID"`
	Recurrence    string     `json:"recurrence"`
	RecurrenceEnd *time.Time `json:"recurrenceEnd"`
}

// validateEventInput enforces the event invariants: end after start, a known
// recurrence rule, and a recurrence end no earlier than the start date.
func validateEventInput(input *EventInput, ctx iris.Context) bool {
	if input.EndTime.Before(input.StartTime) {
		utils.CreateValidationError(ctx, "endTime must not precede startTime")
		return false
	}
	if input.Recurrence == "" {
		input.Recurrence = models.RecurrenceNone
	}
	if !models.ValidRecurrence(input.Recurrence) {
		utils.CreateValidationError(ctx, "recurrence must be one of none, daily, weekly, monthly")
		return false
	}
	if input.Recurrence == models.RecurrenceNone && input.RecurrenceEnd != nil {
		utils.CreateValidationError(ctx, "recurrenceEnd requires a recurrence rule")
		return false
	}
	if input.RecurrenceEnd != nil {
		if services.Date(*input.RecurrenceEnd).Before(services.Date(input.StartTime)) {
			utils.CreateValidationError(ctx, "recurrenceEnd must not precede the start date")
			return false
		}
	}
	if input.Priority == 0 {
		input.Priority = models.PriorityMedium
	}
	return true
}

// ownGame verifies that a referenced game exists and belongs to the user.
func ownGame(userID uint, gameID *uint, ctx iris.Context) bool {
	if gameID == nil {
		return true
	}
	var game models.Game
	if storage.DB.Where("id = ? AND user_id = ?", *gameID, userID).First(&game).Error != nil {
		utils.CreateNotFound(ctx, "game not found")
		return false
	}
	return true
}

func CreateEvent(ctx iris.Context) {
	userID, ok := utils.RequireUserID(ctx)
	if !ok {
		return
	}

	var input EventInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}
	if !validateEventInput(&input, ctx) || !ownGame(userID, input.GameID, ctx) {
		return
	}

	event := models.Event{
		UserID:        userID,
		Title:         input.Title,
		Description:   input.Description,
		StartTime:     input.StartTime.UTC(),
		EndTime:       input.EndTime.UTC(),
		Priority:      input.Priority,
		GameID:        input.GameID,
		Recurrence:    input.Recurrence,
		RecurrenceEnd: input.RecurrenceEnd,
	}
	if err := storage.DB.Create(&event).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(event)
}

// GetEvent returns one event. Visibility follows the calendar partition: the
// owner, an accepted friend, or a share-token holder for the owner's
// calendar.
func GetEvent(ctx iris.Context) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateNotFound(ctx, "event not found")
		return
	}

	var event models.Event
	if storage.DB.Preload("Game").First(&event, id).Error != nil {
		utils.CreateNotFound(ctx, "event not found")
		return
	}

	viewerID := utils.CurrentUserID(ctx)
	token := ctx.URLParamDefault("token", "")
	if !services.CanViewEvent(viewerID, &event, token) {
		utils.CreateForbidden(ctx, "you may not view this event")
		return
	}

	ctx.JSON(event)
}

func UpdateEvent(ctx iris.Context) {
	userID, ok := utils.RequireUserID(ctx)
	if !ok {
		return
	}

	event, found := eventOwnedBy(userID, ctx)
	if !found {
		return
	}

	var input EventInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}
	if !validateEventInput(&input, ctx) || !ownGame(userID, input.GameID, ctx) {
		return
	}

	event.Title = input.Title
	event.Description = input.Description
	event.StartTime = input.StartTime.UTC()
	event.EndTime = input.EndTime.UTC()
	event.Priority = input.Priority
	event.GameID = input.GameID
	event.Recurrence = input.Recurrence
	event.RecurrenceEnd = input.RecurrenceEnd

	if err := storage.DB.Save(event).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.JSON(event)
}

func DeleteEvent(ctx iris.Context) {
	userID, ok := utils.RequireUserID(ctx)
	if !ok {
		return
	}

	event, found := eventOwnedBy(userID, ctx)
	if !found {
		return
	}

	if err := storage.DB.Delete(&models.Event{}, event.ID).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	ctx.StatusCode(iris.StatusNoContent)
}

// eventOwnedBy loads the event from the id route parameter and enforces
// ownership: unknown ids are 404, someone else's event is 403. Mutations only.
func eventOwnedBy(userID uint, ctx iris.Context) (*models.Event, bool) {
	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateNotFound(ctx, "event not found")
		return nil, false
	}

	var event models.Event
	if storage.DB.First(&event, id).Error != nil {
		utils.CreateNotFound(ctx, "event not found")
		return nil, false
	}
	if event.UserID != userID {
		utils.CreateForbidden(ctx, "you do not own this event")
		return nil, false
	}
	return &event, true
}
