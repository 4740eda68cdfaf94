package services

import (
	"time"

	"github.com/athlinked/server/pkg/internal/database"
	"github.com/athlinked/server/pkg/internal/models"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

func GetPost(tx *gorm.DB, id uint) (models.Post, error) {
	var item models.Post
	if err := tx.
		Preload("Author").
		Where("id = ?", id).
		First(&item).Error; err != nil {
		return item, err
	}

	return item, nil
}

func CountPost(tx *gorm.DB) (int64, error) {
	var count int64
	if err := tx.Model(&models.Post{}).Count(&count).Error; err != nil {
		return count, err
	}

	return count, nil
}

func NewPost(author models.Profile, item models.Post) (models.Post, error) {
	item.AuthorID = author.ID

	log.Debug().Any("body", item.Body).Msg("Posting a post...")
	start := time.Now()

	err := database.C.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&item).Error; err != nil {
			return err
		}
		return tx.Model(&models.Profile{}).Where("id = ?", author.ID).
			Update("total_posts", gorm.Expr("total_posts + ?", 1)).Error
	})
	if err != nil {
		return item, err
	}
	invalidateProfileCache(author.ID)

	log.Debug().Dur("elapsed", time.Since(start)).Msg("The post is posted.")
	return item, nil
}

func EditPost(item models.Post) (models.Post, error) {
	now := time.Now()
	item.EditedAt = &now

	err := database.C.Save(&item).Error

	return item, err
}

// DeletePost removes the post along with every engagement membership,
// comment and notification that references it, in one transaction so no
// dangling engagement can resurrect a counter.
func DeletePost(item models.Post) error {
	return database.C.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.EngagementMembership{}, "post_id = ?", item.ID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Comment{}, "post_id = ?", item.ID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.NotificationEvent{}, "post_id = ?", item.ID).Error; err != nil {
			return err
		}

		res := tx.Delete(&item)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		if err := tx.Model(&models.Profile{}).Where("id = ?", item.AuthorID).
			Update("total_posts", gorm.Expr("total_posts - ?", 1)).Error; err != nil {
			return err
		}
		invalidateProfileCache(item.AuthorID)
		return nil
	})
}
