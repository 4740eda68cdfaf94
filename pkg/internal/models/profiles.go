package models

import (
	"gorm.io/datatypes"
)

type VisibilityLevel = int8

const (
	VisibilityPublic = VisibilityLevel(iota)
	VisibilityPrivate
)

type Profile struct {
	BaseModel

	Name        string `json:"name" gorm:"uniqueIndex"`
	Nick        string `json:"nick"`
	Description string `json:"description"`
	Avatar      string `json:"avatar"`
	Sport       string `json:"sport"`

	// Organization tags (school, club, team) grant visibility on their own,
	// independent of any follow edge.
	Organizations datatypes.JSONSlice[string] `json:"organizations"`

	Visibility VisibilityLevel `json:"visibility"`

	Posts []Post `json:"posts" gorm:"foreignKey:AuthorID"`

	TotalFollowers int64 `json:"total_followers"`
	TotalFollowing int64 `json:"total_following"`
	TotalPosts     int64 `json:"total_posts"`

	AccountID uint `json:"account_id" gorm:"uniqueIndex"`
}
