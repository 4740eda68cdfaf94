package services

import (
	"github.com/athlinked/server/pkg/internal/database"
	"github.com/athlinked/server/pkg/internal/models"
	"gorm.io/gorm"
)

// NewComment attaches a comment to a post the author can already see;
// handlers gate that through the visibility policy before calling in.
// Comments are additive, not a toggle, so the counter moves with plain
// increments and the reconciliation sweep keeps it honest.
func NewComment(author models.Profile, post models.Post, content string) (models.Comment, error) {
	comment := models.Comment{
		Content:  content,
		PostID:   post.ID,
		AuthorID: author.ID,
	}

	err := database.C.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&comment).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Post{}).Where("id = ?", post.ID).
			Update("total_comments", gorm.Expr("total_comments + ?", 1)).Error; err != nil {
			return err
		}

		return DispatchNotification(tx, models.NotificationEvent{
			RecipientID: post.AuthorID,
			ActorID:     author.ID,
			Kind:        models.NotificationKindComment,
			PostID:      post.ID,
		})
	})

	return comment, err
}

func GetComment(id uint) (models.Comment, error) {
	var comment models.Comment
	if err := database.C.
		Preload("Author").
		Where("id = ?", id).
		First(&comment).Error; err != nil {
		return comment, err
	}
	return comment, nil
}

func ListComments(post models.Post, take int, offset int) ([]models.Comment, error) {
	if take > 100 {
		take = 100
	}

	var comments []models.Comment
	if err := database.C.
		Where("post_id = ?", post.ID).
		Preload("Author").
		Limit(take).Offset(offset).
		Order("created_at ASC").
		Find(&comments).Error; err != nil {
		return comments, err
	}
	return comments, nil
}

// DeleteComment may be called by the comment author or the post owner;
// handlers check that. The matching comment notification is removed with it.
func DeleteComment(comment models.Comment) error {
	return database.C.Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&comment)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Already deleted; the counter moved with the first delete.
			return nil
		}

		if err := tx.Model(&models.Post{}).Where("id = ?", comment.PostID).
			Update("total_comments", gorm.Expr("total_comments - ?", 1)).Error; err != nil {
			return err
		}

		return tx.Delete(&models.NotificationEvent{},
			"actor_id = ? AND kind = ? AND post_id = ?",
			comment.AuthorID, models.NotificationKindComment, comment.PostID,
		).Error
	})
}
