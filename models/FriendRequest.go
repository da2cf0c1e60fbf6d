package models

import "time"

// Friend request states. A friendship is an accepted request in either
// direction; there is no separate friendship table.
const (
	FriendStatusPending  = "pending"
	FriendStatusAccepted = "accepted"
	FriendStatusDeclined = "declined"
)

// FriendRequest is the single relation behind both pending requests and
// friendships. The composite unique index keeps at most one row per ordered
// pair, so a duplicate send or a concurrent accept hits a constraint or a
// guarded update instead of duplicating state. Rows are hard-deleted on
// cancel and unfriend so the pair index stays reusable.
type FriendRequest struct {
	ID uint `json:"id" gorm:"primaryKey"`

	FromUserID uint `json:"fromUserID" gorm:"not null;index;uniqueIndex:idx_friend_pair"`
	FromUser   User `json:"fromUser" gorm:"foreignKey:FromUserID"`

	ToUserID uint `json:"toUserID" gorm:"not null;index;uniqueIndex:idx_friend_pair"`
	ToUser   User `json:"toUser" gorm:"foreignKey:ToUserID"`

	Status string `json:"status" gorm:"size:16;index;default:pending"`

	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	RespondedAt *time.Time `json:"respondedAt"`
}
