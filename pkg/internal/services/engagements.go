package services

import (
	"errors"
	"fmt"

	"github.com/athlinked/server/pkg/internal/database"
	"github.com/athlinked/server/pkg/internal/models"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Denormalized counter column per engagement kind. The membership table is
// authoritative; these columns exist for O(1) reads and get repaired by
// ReconcileEngagementCounters when they drift.
var engagementCounterColumns = map[string]string{
	models.EngagementKindLike: "total_likes",
	models.EngagementKindSave: "total_saves",
}

// ToggleEngagement flips the actor's like or save on a post. Two calls in a
// row always produce add-then-remove; two racing adds from the same actor
// serialize on the membership unique index and the loser observes the
// duplicate-key error as "already added" instead of double counting. The
// membership write, counter update and notification insert commit together.
func ToggleEngagement(kind string, post models.Post, actor models.Profile) (bool, int64, error) {
	column, ok := engagementCounterColumns[kind]
	if !ok {
		return false, 0, ErrUnsupportedKind
	}

	var active bool
	err := database.C.Transaction(func(tx *gorm.DB) error {
		var membership models.EngagementMembership
		err := tx.Where("kind = ? AND post_id = ? AND actor_id = ?", kind, post.ID, actor.ID).
			First(&membership).Error

		if err == nil {
			res := tx.Delete(&models.EngagementMembership{}, "id = ?", membership.ID)
			if res.Error != nil {
				return res.Error
			}
			active = false
			if res.RowsAffected == 0 {
				// A concurrent remove got the row first and already
				// decremented; counting it again would undershoot.
				return nil
			}
			return applyEngagementCounter(tx, post.ID, column, -1)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		membership = models.EngagementMembership{
			Kind:    kind,
			PostID:  post.ID,
			ActorID: actor.ID,
		}
		if err := tx.Create(&membership).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// A concurrent duplicate add won the race and already
				// incremented; report the membership as present.
				active = true
				return nil
			}
			return err
		}
		active = true

		if err := applyEngagementCounter(tx, post.ID, column, 1); err != nil {
			return err
		}

		if kind == models.EngagementKindLike {
			return DispatchNotification(tx, models.NotificationEvent{
				RecipientID: post.AuthorID,
				ActorID:     actor.ID,
				Kind:        models.NotificationKindLike,
				PostID:      post.ID,
			})
		}
		return nil
	})
	if err != nil {
		return active, 0, err
	}

	count, err := readEngagementCounter(post.ID, column)
	if err != nil {
		return active, 0, err
	}

	log.Debug().Uint("post", post.ID).Uint("actor", actor.ID).Str("kind", kind).Bool("active", active).Msg("Engagement toggled.")
	return active, count, nil
}

func applyEngagementCounter(tx *gorm.DB, postId uint, column string, delta int) error {
	return tx.Model(&models.Post{}).Where("id = ?", postId).
		Update(column, gorm.Expr(column+" + ?", delta)).Error
}

func readEngagementCounter(postId uint, column string) (int64, error) {
	var count int64
	if err := database.C.Model(&models.Post{}).
		Select(column).
		Where("id = ?", postId).
		Scan(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountEngagements returns the true cardinality of the membership set, the
// value the denormalized counter must always equal.
func CountEngagements(postId uint, kind string) (int64, error) {
	var count int64
	if err := database.C.Model(&models.EngagementMembership{}).
		Where("post_id = ? AND kind = ?", postId, kind).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func GetEngagement(postId, actorId uint, kind string) (*models.EngagementMembership, error) {
	var membership models.EngagementMembership
	if err := database.C.Where("kind = ? AND post_id = ? AND actor_id = ?", kind, postId, actorId).
		First(&membership).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("unable to get engagement: %w", err)
	}
	return &membership, nil
}

// ListEngagedPosts pages the posts an actor liked or saved, newest
// engagement first, re-filtered through the visibility policy since the
// author may have gone private after the engagement happened.
func ListEngagedPosts(actor models.Profile, kind string, take int, offset int) ([]models.Post, error) {
	if _, ok := engagementCounterColumns[kind]; !ok {
		return nil, ErrUnsupportedKind
	}
	if take > 100 {
		take = 100
	}

	var items []models.Post
	if err := database.C.
		Joins("JOIN engagement_memberships ON engagement_memberships.post_id = posts.id").
		Where("engagement_memberships.actor_id = ? AND engagement_memberships.kind = ?", actor.ID, kind).
		Order("engagement_memberships.created_at DESC").
		Limit(take).Offset(offset).
		Preload("Author").
		Find(&items).Error; err != nil {
		return items, err
	}

	return FilterVisiblePosts(&actor, items)
}

// ReconcilePostCounters recomputes every denormalized counter of one post
// from its authoritative sources. Used as the on-demand repair path.
func ReconcilePostCounters(post models.Post) error {
	return database.C.Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{}
		for kind, column := range engagementCounterColumns {
			var count int64
			if err := tx.Model(&models.EngagementMembership{}).
				Where("post_id = ? AND kind = ?", post.ID, kind).
				Count(&count).Error; err != nil {
				return err
			}
			updates[column] = count
		}

		var comments int64
		if err := tx.Model(&models.Comment{}).
			Where("post_id = ?", post.ID).
			Count(&comments).Error; err != nil {
			return err
		}
		updates["total_comments"] = comments

		return tx.Model(&models.Post{}).Where("id = ?", post.ID).Updates(updates).Error
	})
}

// ReconcileEngagementCounters sweeps the whole posts table and resets every
// engagement counter to the membership count. Historical drift from the
// find-then-save era is a documented failure mode, so the sweep stays
// mandatory maintenance, not optional hardening.
func ReconcileEngagementCounters() error {
	for kind, column := range engagementCounterColumns {
		if err := database.C.Exec(
			fmt.Sprintf(`UPDATE posts SET %s = (
				SELECT COUNT(*) FROM engagement_memberships
				WHERE engagement_memberships.post_id = posts.id
				AND engagement_memberships.kind = ?
			)`, column),
			kind,
		).Error; err != nil {
			return fmt.Errorf("unable to reconcile %s counters: %w", kind, err)
		}
	}

	if err := database.C.Exec(
		`UPDATE posts SET total_comments = (
			SELECT COUNT(*) FROM comments
			WHERE comments.post_id = posts.id AND comments.deleted_at IS NULL
		)`,
	).Error; err != nil {
		return fmt.Errorf("unable to reconcile comment counters: %w", err)
	}

	if err := database.C.Exec(
		`UPDATE profiles SET total_posts = (
			SELECT COUNT(*) FROM posts
			WHERE posts.author_id = profiles.id AND posts.deleted_at IS NULL
		)`,
	).Error; err != nil {
		return fmt.Errorf("unable to reconcile post counters: %w", err)
	}

	log.Info().Msg("Engagement counters reconciled.")
	return nil
}
