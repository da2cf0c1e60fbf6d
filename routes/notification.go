package routes

import (
	"time"

	"gameplan-server/models"
	"gameplan-server/storage"
	"gameplan-server/utils"

	"github.com/kataras/iris/v12"
)

// ListNotifications returns the caller's notifications, unread first.
func ListNotifications(ctx iris.Context) {
	userID, ok := utils.RequireUserID(ctx)
	if !ok {
		return
	}

	var notifications []models.Notification
	storage.DB.
		Where("user_id = ?", userID).
		Order("is_read ASC, created_at DESC").
		Limit(100).
		Find(&notifications)

	ctx.JSON(iris.Map{"notifications": notifications})
}

// MarkNotificationRead marks one of the caller's notifications as read.
// Repeat calls are no-ops.
func MarkNotificationRead(ctx iris.Context) {
	userID, ok := utils.RequireUserID(ctx)
	if !ok {
		return
	}

	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateNotFound(ctx, "notification not found")
		return
	}

	var notification models.Notification
	if storage.DB.Where("id = ? AND user_id = ?", id, userID).First(&notification).Error != nil {
		utils.CreateNotFound(ctx, "notification not found")
		return
	}

	if !notification.IsRead {
		now := time.Now().UTC()
		notification.IsRead = true
		notification.ReadAt = &now
		storage.DB.Save(&notification)
	}
	ctx.JSON(notification)
}
