package models

type Comment struct {
	BaseModel

	Content string `json:"content"`

	PostID uint `json:"post_id"`
	Post   Post `json:"post"`

	AuthorID uint    `json:"author_id"`
	Author   Profile `json:"author"`
}
