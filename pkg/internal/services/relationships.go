package services

import (
	"errors"
	"fmt"

	"github.com/athlinked/server/pkg/internal/database"
	"github.com/athlinked/server/pkg/internal/models"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

func GetRelationship(sourceId, targetId uint) (*models.RelationshipEdge, error) {
	var edge models.RelationshipEdge
	if err := database.C.Where("source_id = ? AND target_id = ?", sourceId, targetId).First(&edge).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("unable to get relationship: %w", err)
	}
	return &edge, nil
}

// RequestFollow creates the edge for source following target. Following a
// public profile is accepted instantly; a private profile leaves the edge
// pending until the target responds. A previously rejected edge persists and
// blocks re-requests until the source cancels it via Unfollow.
func RequestFollow(source, target models.Profile, message *string) (models.RelationshipEdge, error) {
	var edge models.RelationshipEdge
	if source.ID == target.ID {
		return edge, ErrSelfFollow
	}

	if existing, err := GetRelationship(source.ID, target.ID); err != nil {
		return edge, err
	} else if existing != nil {
		return edge, ErrEdgeExists
	}

	edge = models.RelationshipEdge{
		SourceID: source.ID,
		TargetID: target.ID,
		Status: lo.Ternary(
			target.Visibility == models.VisibilityPublic,
			models.RelationshipAccepted,
			models.RelationshipPending,
		),
		Message: message,
	}

	err := database.C.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&edge).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// Two racing requests for the same pair; the unique index
				// leaves exactly one.
				return ErrEdgeExists
			}
			return err
		}

		if edge.Status == models.RelationshipAccepted {
			if err := applyFollowerCounters(tx, source.ID, target.ID, 1); err != nil {
				return err
			}
		}

		return DispatchNotification(tx, models.NotificationEvent{
			RecipientID: target.ID,
			ActorID:     source.ID,
			Kind: lo.Ternary(
				edge.Status == models.RelationshipAccepted,
				models.NotificationKindFollow,
				models.NotificationKindFollowRequest,
			),
			EdgeID: edge.ID,
		})
	})
	if err != nil {
		return edge, err
	}

	log.Debug().Uint("source", source.ID).Uint("target", target.ID).Int8("status", edge.Status).Msg("Follow requested.")
	return edge, nil
}

// RespondFollow lets the target of a pending edge accept or reject it. Only
// acceptance notifies the requester; a rejection stays silent.
func RespondFollow(edgeId uint, acting models.Profile, accept bool) (models.RelationshipEdge, error) {
	var edge models.RelationshipEdge
	if err := database.C.Where("id = ?", edgeId).First(&edge).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return edge, ErrEdgeNotFound
		}
		return edge, fmt.Errorf("unable to get relationship: %w", err)
	}

	if edge.TargetID != acting.ID {
		return edge, ErrForbidden
	}
	if edge.Status != models.RelationshipPending {
		return edge, ErrNotPending
	}

	err := database.C.Transaction(func(tx *gorm.DB) error {
		edge.Status = lo.Ternary(accept, models.RelationshipAccepted, models.RelationshipRejected)
		if err := tx.Save(&edge).Error; err != nil {
			return err
		}

		if !accept {
			return nil
		}

		if err := applyFollowerCounters(tx, edge.SourceID, edge.TargetID, 1); err != nil {
			return err
		}

		return DispatchNotification(tx, models.NotificationEvent{
			RecipientID: edge.SourceID,
			ActorID:     edge.TargetID,
			Kind:        models.NotificationKindFollowAccepted,
			EdgeID:      edge.ID,
		})
	})

	return edge, err
}

// Unfollow removes the source-owned edge toward target, whatever its state:
// an accepted edge is an unfollow, a pending one a cancellation, a rejected
// one clears the block on re-requesting. Absence is a no-op success so the
// operation stays idempotent.
func Unfollow(source, target models.Profile) error {
	edge, err := GetRelationship(source.ID, target.ID)
	if err != nil {
		return err
	}
	if edge == nil {
		return nil
	}

	return deleteEdge(*edge)
}

// RemoveFollower lets the target sever an accepted edge from source.
func RemoveFollower(target, source models.Profile) error {
	edge, err := GetRelationship(source.ID, target.ID)
	if err != nil {
		return err
	}
	if edge == nil || edge.Status != models.RelationshipAccepted {
		return nil
	}

	return deleteEdge(*edge)
}

func deleteEdge(edge models.RelationshipEdge) error {
	return database.C.Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.RelationshipEdge{}, "id = ?", edge.ID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Someone else removed the edge and moved the counters already.
			return nil
		}
		if edge.Status == models.RelationshipAccepted {
			return applyFollowerCounters(tx, edge.SourceID, edge.TargetID, -1)
		}
		return nil
	})
}

func applyFollowerCounters(tx *gorm.DB, sourceId, targetId uint, delta int) error {
	if err := tx.Model(&models.Profile{}).Where("id = ?", targetId).
		Update("total_followers", gorm.Expr("total_followers + ?", delta)).Error; err != nil {
		return err
	}
	if err := tx.Model(&models.Profile{}).Where("id = ?", sourceId).
		Update("total_following", gorm.Expr("total_following + ?", delta)).Error; err != nil {
		return err
	}

	invalidateProfileCache(sourceId)
	invalidateProfileCache(targetId)
	return nil
}

func ListFollowers(target models.Profile, take int, offset int) ([]models.RelationshipEdge, error) {
	var edges []models.RelationshipEdge
	if err := database.C.
		Where("target_id = ? AND status = ?", target.ID, models.RelationshipAccepted).
		Preload("Source").
		Limit(take).Offset(offset).
		Order("created_at DESC").
		Find(&edges).Error; err != nil {
		return edges, err
	}
	return edges, nil
}

func ListFollowing(source models.Profile, take int, offset int) ([]models.RelationshipEdge, error) {
	var edges []models.RelationshipEdge
	if err := database.C.
		Where("source_id = ? AND status = ?", source.ID, models.RelationshipAccepted).
		Preload("Target").
		Limit(take).Offset(offset).
		Order("created_at DESC").
		Find(&edges).Error; err != nil {
		return edges, err
	}
	return edges, nil
}

func ListPendingRequests(target models.Profile, take int, offset int) ([]models.RelationshipEdge, error) {
	var edges []models.RelationshipEdge
	if err := database.C.
		Where("target_id = ? AND status = ?", target.ID, models.RelationshipPending).
		Preload("Source").
		Limit(take).Offset(offset).
		Order("created_at ASC").
		Find(&edges).Error; err != nil {
		return edges, err
	}
	return edges, nil
}
