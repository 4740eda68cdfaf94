package models

import "time"

type RelationshipStatus = int8

const (
	RelationshipPending = RelationshipStatus(iota)
	RelationshipAccepted
	RelationshipRejected
)

// RelationshipEdge is the single source of truth for "is X following Y".
// At most one edge exists per ordered (source, target) pair. Edges are
// hard-deleted on unfollow so a later re-follow starts fresh; there is no
// soft-delete column on purpose, a tombstone would trip the unique index.
type RelationshipEdge struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	SourceID uint    `json:"source_id" gorm:"uniqueIndex:idx_relationship_pair"`
	Source   Profile `json:"source" gorm:"foreignKey:SourceID"`
	TargetID uint    `json:"target_id" gorm:"uniqueIndex:idx_relationship_pair"`
	Target   Profile `json:"target" gorm:"foreignKey:TargetID"`

	Status  RelationshipStatus `json:"status"`
	Message *string            `json:"message"`
}
