package services

import (
	"time"

	"gameplan-server/models"
	"gameplan-server/storage"

	"github.com/google/uuid"
)

// AccessLevel classifies a calendar view request. The gate is read-only: it
// never mutates state, it only decides.
type AccessLevel int

const (
	AccessDenied AccessLevel = iota
	AccessOwner
	AccessFriend
	AccessToken
)

func (l AccessLevel) String() string {
	switch l {
	case AccessOwner:
		return "owner"
	case AccessFriend:
		return "friend"
	case AccessToken:
		return "token"
	}
	return "denied"
}

// AreFriends reports whether an accepted friend request links the two users
// in either direction.
func AreFriends(a, b uint) bool {
	var count int64
	storage.DB.Model(&models.FriendRequest{}).
		Where("((from_user_id = ? AND to_user_id = ?) OR (from_user_id = ? AND to_user_id = ?)) AND status = ?",
			a, b, b, a, models.FriendStatusAccepted).
		Count(&count)
	return count > 0
}

// ResolveShareToken parses and looks up a share token. A malformed token
// never reaches the store: uuid.Parse rejects it first, and both that and an
// unknown or expired token come back as (nil, false), not an error.
func ResolveShareToken(token string) (*models.CalendarAccess, bool) {
	if _, err := uuid.Parse(token); err != nil {
		return nil, false
	}
	var access models.CalendarAccess
	if err := storage.DB.Where("token = ?", token).First(&access).Error; err != nil {
		return nil, false
	}
	if access.Expired(time.Now()) {
		return nil, false
	}
	return &access, true
}

// ClassifyCalendarAccess decides how the viewer may see the owner's
// calendar: as the owner, as an accepted friend, via a valid share token, or
// not at all.
func ClassifyCalendarAccess(viewerID *uint, ownerID uint, token string) AccessLevel {
	if viewerID != nil && *viewerID == ownerID {
		return AccessOwner
	}
	if viewerID != nil && AreFriends(*viewerID, ownerID) {
		return AccessFriend
	}
	if token != "" {
		if access, ok := ResolveShareToken(token); ok && access.UserID == ownerID {
			return AccessToken
		}
	}
	return AccessDenied
}

// CanViewEvent applies the same partition to a single event.
func CanViewEvent(viewerID *uint, ev *models.Event, token string) bool {
	return ClassifyCalendarAccess(viewerID, ev.UserID, token) != AccessDenied
}
