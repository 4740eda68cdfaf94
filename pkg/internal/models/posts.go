package models

import (
	"time"

	"gorm.io/datatypes"
)

type Post struct {
	BaseModel

	Type     string            `json:"type"`
	Body     datatypes.JSONMap `json:"body"`
	Language string            `json:"language"`

	// Post visibility is independent of the author's profile visibility.
	// Both are checked when deciding whether a viewer may see it.
	Visibility VisibilityLevel `json:"visibility"`

	EditedAt *time.Time `json:"edited_at"`
	PinnedAt *time.Time `json:"pinned_at"`

	TotalLikes    int64 `json:"total_likes"`
	TotalSaves    int64 `json:"total_saves"`
	TotalComments int64 `json:"total_comments"`

	AuthorID uint    `json:"author_id"`
	Author   Profile `json:"author"`
}

type PostStoryBody struct {
	Thumbnail   *string  `json:"thumbnail"`
	Title       *string  `json:"title"`
	Content     string   `json:"content"`
	Location    *string  `json:"location"`
	Attachments []string `json:"attachments"`
}
