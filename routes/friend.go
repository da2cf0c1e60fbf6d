package routes

import (
	"time"

	"gameplan-server/models"
	"gameplan-server/services"
	"gameplan-server/storage"
	"gameplan-server/utils"

	"github.com/kataras/iris/v12"
)

type SendFriendRequestInput struct {
	ToUserID uint `json:"toUserID" validate:"required"`
}

// SendFriendRequest moves the (from, to) pair from none to pending. Guards:
// no self-requests, no duplicate pending request, no request between
// existing friends. A reversed pending request (B already asked A) collapses
// straight into a friendship instead of leaving two crossing requests.
func SendFriendRequest(ctx iris.Context) {
	userID, ok := utils.RequireUserID(ctx)
	if !ok {
		return
	}

	var input SendFriendRequestInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if input.ToUserID == userID {
		utils.CreateValidationError(ctx, "you cannot send a friend request to yourself")
		return
	}

	var target models.User
	if storage.DB.First(&target, input.ToUserID).Error != nil {
		utils.CreateNotFound(ctx, "user not found")
		return
	}

	if services.AreFriends(userID, input.ToUserID) {
		utils.CreateConflict(ctx, "you are already friends")
		return
	}

	// Reversed pending request: accept it rather than creating a crossing one.
	var reversed models.FriendRequest
	err := storage.DB.
		Where("from_user_id = ? AND to_user_id = ? AND status = ?", input.ToUserID, userID, models.FriendStatusPending).
		First(&reversed).Error
	if err == nil {
		if resolvePending(reversed.ID, userID, models.FriendStatusAccepted) {
			ctx.JSON(iris.Map{"status": models.FriendStatusAccepted, "message": "friend request accepted"})
			return
		}
		utils.CreateConflict(ctx, "friend request already resolved")
		return
	}

	var existing models.FriendRequest
	err = storage.DB.
		Where("from_user_id = ? AND to_user_id = ?", userID, input.ToUserID).
		First(&existing).Error
	if err == nil {
		switch existing.Status {
		case models.FriendStatusPending:
			utils.CreateConflict(ctx, "friend request already sent")
		case models.FriendStatusAccepted:
			utils.CreateConflict(ctx, "you are already friends")
		default:
			// A previously declined request may be re-sent; reuse the row so
			// the pair index keeps holding.
			now := time.Now().UTC()
			storage.DB.Model(&existing).Updates(map[string]interface{}{
				"status":       models.FriendStatusPending,
				"responded_at": nil,
				"created_at":   now,
			})
			ctx.StatusCode(iris.StatusCreated)
			ctx.JSON(iris.Map{"status": models.FriendStatusPending, "requestID": existing.ID})
		}
		return
	}

	request := models.FriendRequest{
		FromUserID: userID,
		ToUserID:   input.ToUserID,
		Status:     models.FriendStatusPending,
	}
	if err := storage.DB.Create(&request).Error; err != nil {
		// Pair unique index lost a race with a concurrent send.
		utils.CreateConflict(ctx, "friend request already sent")
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"status": models.FriendStatusPending, "requestID": request.ID})
}

// ListIncomingRequests returns pending requests addressed to the caller.
func ListIncomingRequests(ctx iris.Context) {
	userID, ok := utils.RequireUserID(ctx)
	if !ok {
		return
	}

	var requests []models.FriendRequest
	storage.DB.Preload("FromUser").
		Where("to_user_id = ? AND status = ?", userID, models.FriendStatusPending).
		Order("created_at DESC").
		Find(&requests)

	out := make([]iris.Map, 0, len(requests))
	for i := range requests {
		out = append(out, iris.Map{
			"requestID": requests[i].ID,
			"fromUser":  requests[i].FromUser.Public(),
			"createdAt": requests[i].CreatedAt,
		})
	}
	ctx.JSON(iris.Map{"requests": out})
}

// AcceptFriendRequest resolves a pending request addressed to the caller.
// The transition is a guarded update on status=pending: of two concurrent
// accepts exactly one flips the row, the other sees not-found.
func AcceptFriendRequest(ctx iris.Context) {
	userID, ok := utils.RequireUserID(ctx)
	if !ok {
		return
	}

	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateNotFound(ctx, "friend request not found")
		return
	}

	if !resolvePending(id, userID, models.FriendStatusAccepted) {
		utils.CreateNotFound(ctx, "friend request not found")
		return
	}
	ctx.JSON(iris.Map{"status": models.FriendStatusAccepted})
}

// DeclineFriendRequest marks a pending request declined. Declining a request
// that is already gone reports not-found; a repeat call is harmless.
func DeclineFriendRequest(ctx iris.Context) {
	userID, ok := utils.RequireUserID(ctx)
	if !ok {
		return
	}

	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateNotFound(ctx, "friend request not found")
		return
	}

	if !resolvePending(id, userID, models.FriendStatusDeclined) {
		utils.CreateNotFound(ctx, "friend request already absent")
		return
	}
	ctx.JSON(iris.Map{"status": models.FriendStatusDeclined})
}

// CancelFriendRequest lets the sender withdraw a still-pending request.
func CancelFriendRequest(ctx iris.Context) {
	userID, ok := utils.RequireUserID(ctx)
	if !ok {
		return
	}

	id, err := ctx.Params().GetUint("id")
	if err != nil {
		utils.CreateNotFound(ctx, "friend request not found")
		return
	}

	result := storage.DB.
		Where("id = ? AND from_user_id = ? AND status = ?", id, userID, models.FriendStatusPending).
		Delete(&models.FriendRequest{})
	if result.RowsAffected == 0 {
		utils.CreateNotFound(ctx, "friend request not found")
		return
	}
	ctx.StatusCode(iris.StatusNoContent)
}

// ListFriends returns the caller's accepted friends from both directions of
// the relation.
func ListFriends(ctx iris.Context) {
	userID, ok := utils.RequireUserID(ctx)
	if !ok {
		return
	}

	var requests []models.FriendRequest
	storage.DB.Preload("FromUser").Preload("ToUser").
		Where("(from_user_id = ? OR to_user_id = ?) AND status = ?", userID, userID, models.FriendStatusAccepted).
		Find(&requests)

	friends := make([]models.PublicUser, 0, len(requests))
	for i := range requests {
		if requests[i].FromUserID == userID {
			friends = append(friends, requests[i].ToUser.Public())
		} else {
			friends = append(friends, requests[i].FromUser.Public())
		}
	}
	ctx.JSON(iris.Map{"friends": friends})
}

// DeleteFriend removes an accepted friendship in whichever direction it was
// stored. A second delete finds nothing and reports not-found, never a fault.
func DeleteFriend(ctx iris.Context) {
	userID, ok := utils.RequireUserID(ctx)
	if !ok {
		return
	}

	friendID, err := ctx.Params().GetUint("userID")
	if err != nil {
		utils.CreateNotFound(ctx, "friend not found")
		return
	}

	result := storage.DB.
		Where("((from_user_id = ? AND to_user_id = ?) OR (from_user_id = ? AND to_user_id = ?)) AND status = ?",
			userID, friendID, friendID, userID, models.FriendStatusAccepted).
		Delete(&models.FriendRequest{})
	if result.RowsAffected == 0 {
		utils.CreateNotFound(ctx, "no friendship found")
		return
	}
	ctx.StatusCode(iris.StatusNoContent)
}

// resolvePending flips one pending request addressed to userID into the
// given terminal status. Returns false when no pending row matched, which
// covers unknown ids, requests addressed to someone else, and lost races.
func resolvePending(requestID, userID uint, status string) bool {
	now := time.Now().UTC()
	result := storage.DB.Model(&models.FriendRequest{}).
		Where("id = ? AND to_user_id = ? AND status = ?", requestID, userID, models.FriendStatusPending).
		Updates(map[string]interface{}{"status": status, "responded_at": now})
	return result.RowsAffected > 0
}

// friendStatusLabel summarizes the relation between two users for search
// results, mirroring the send-request guards.
func friendStatusLabel(viewerID, otherID uint) string {
	if services.AreFriends(viewerID, otherID) {
		return "friends"
	}
	var count int64
	storage.DB.Model(&models.FriendRequest{}).
		Where("((from_user_id = ? AND to_user_id = ?) OR (from_user_id = ? AND to_user_id = ?)) AND status = ?",
			viewerID, otherID, otherID, viewerID, models.FriendStatusPending).
		Count(&count)
	if count > 0 {
		return "pending"
	}
	return "none"
}
