package models

import "time"

const (
	EngagementKindLike = "like"
	EngagementKindSave = "save"
)

// EngagementMembership is one actor's like or save on one post. The
// composite unique index is the correctness mechanism for the whole counter
// service: two racing adds from the same actor collapse into a single row,
// and the duplicate-key error tells the loser the membership already exists.
type EngagementMembership struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	Kind string `json:"kind" gorm:"uniqueIndex:idx_engagement_membership"`

	PostID uint `json:"post_id" gorm:"uniqueIndex:idx_engagement_membership"`
	Post   Post `json:"post"`

	ActorID uint    `json:"actor_id" gorm:"uniqueIndex:idx_engagement_membership"`
	Actor   Profile `json:"actor" gorm:"foreignKey:ActorID"`
}
