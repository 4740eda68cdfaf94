package models

import "time"

const (
	NotificationKindFollow         = "follow"
	NotificationKindFollowRequest  = "follow-request"
	NotificationKindFollowAccepted = "follow-accepted"
	NotificationKindLike           = "like"
	NotificationKindComment        = "comment"
)

// NotificationEvent rows are deduplicated by the composite unique index over
// (recipient, actor, kind, post, edge). PostID and EdgeID default to zero
// instead of NULL; nullable columns would make the index useless for
// deduplication since SQL treats NULLs as distinct.
type NotificationEvent struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	RecipientID uint   `json:"recipient_id" gorm:"uniqueIndex:idx_notification_dedupe"`
	ActorID     uint   `json:"actor_id" gorm:"uniqueIndex:idx_notification_dedupe"`
	Kind        string `json:"kind" gorm:"uniqueIndex:idx_notification_dedupe"`
	PostID      uint   `json:"post_id,omitempty" gorm:"uniqueIndex:idx_notification_dedupe;default:0"`
	EdgeID      uint   `json:"edge_id,omitempty" gorm:"uniqueIndex:idx_notification_dedupe;default:0"`

	Read bool `json:"read" gorm:"index"`
}

// NotificationPreference mutes a kind for a recipient. Absence means the
// kind is delivered.
type NotificationPreference struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	RecipientID uint   `json:"recipient_id" gorm:"uniqueIndex:idx_notification_preference"`
	Kind        string `json:"kind" gorm:"uniqueIndex:idx_notification_preference"`
	Muted       bool   `json:"muted"`
}
