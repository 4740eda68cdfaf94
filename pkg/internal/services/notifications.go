package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	localCache "github.com/athlinked/server/pkg/internal/cache"
	"github.com/athlinked/server/pkg/internal/database"
	"github.com/athlinked/server/pkg/internal/models"
	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/marshaler"
	"github.com/eko/gocache/lib/v4/store"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DispatchNotification creates the event for a relationship or engagement
// transition, inside the same transaction as the mutation that caused it.
// Self-caused events and muted kinds are dropped before any insert, and the
// dedupe index makes a replayed mutation insert nothing at all.
func DispatchNotification(tx *gorm.DB, event models.NotificationEvent) error {
	if event.RecipientID == event.ActorID {
		return nil
	}

	if muted, err := IsNotificationMuted(tx, event.RecipientID, event.Kind); err != nil {
		return err
	} else if muted {
		log.Debug().Uint("recipient", event.RecipientID).Str("kind", event.Kind).Msg("Notification muted, skipping...")
		return nil
	}

	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&event).Error; err != nil {
		return fmt.Errorf("unable to dispatch notification: %w", err)
	}

	invalidateUnreadCache(event.RecipientID)
	return nil
}

func IsNotificationMuted(tx *gorm.DB, recipientId uint, kind string) (bool, error) {
	var preference models.NotificationPreference
	if err := tx.Where("recipient_id = ? AND kind = ?", recipientId, kind).First(&preference).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("unable to check notification preference: %w", err)
	}
	return preference.Muted, nil
}

func SetNotificationPreference(recipient models.Profile, kind string, muted bool) (models.NotificationPreference, error) {
	preference := models.NotificationPreference{
		RecipientID: recipient.ID,
		Kind:        kind,
		Muted:       muted,
	}

	err := database.C.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "recipient_id"}, {Name: "kind"}},
		DoUpdates: clause.AssignmentColumns([]string{"muted", "updated_at"}),
	}).Create(&preference).Error

	return preference, err
}

func ListNotificationPreferences(recipient models.Profile) ([]models.NotificationPreference, error) {
	var preferences []models.NotificationPreference
	if err := database.C.Where("recipient_id = ?", recipient.ID).Find(&preferences).Error; err != nil {
		return preferences, err
	}
	return preferences, nil
}

// ListNotifications pages a recipient's events newest first. The cursor is
// the id of the last event of the previous page; a nil next cursor means the
// listing is exhausted.
func ListNotifications(recipient models.Profile, cursor *uint, take int, unreadOnly bool) ([]models.NotificationEvent, *uint, error) {
	if take <= 0 || take > 100 {
		take = 25
	}

	tx := database.C.Where("recipient_id = ?", recipient.ID)
	if cursor != nil {
		tx = tx.Where("id < ?", *cursor)
	}
	if unreadOnly {
		tx = tx.Where("read = ?", false)
	}

	var events []models.NotificationEvent
	if err := tx.
		Limit(take + 1).
		Order("id DESC").
		Find(&events).Error; err != nil {
		return events, nil, err
	}

	var next *uint
	if len(events) > take {
		events = events[:take]
		next = &events[len(events)-1].ID
	}

	return events, next, nil
}

// MarkNotificationsRead flips the given events to read and reports how many
// actually changed. Events belonging to someone else are silently ignored.
func MarkNotificationsRead(recipient models.Profile, idx []uint) (int64, error) {
	if len(idx) == 0 {
		return 0, nil
	}

	result := database.C.Model(&models.NotificationEvent{}).
		Where("recipient_id = ? AND id IN ? AND read = ?", recipient.ID, idx, false).
		Update("read", true)
	if result.Error != nil {
		return 0, result.Error
	}

	invalidateUnreadCache(recipient.ID)
	return result.RowsAffected, nil
}

func unreadCacheKey(recipientId uint) string {
	return fmt.Sprintf("notification-unread-count#%d", recipientId)
}

func CountUnreadNotifications(recipient models.Profile) (int64, error) {
	cacheManager := cache.New[any](localCache.S)
	marshal := marshaler.New(cacheManager)
	ctx := context.Background()

	if hit, err := marshal.Get(ctx, unreadCacheKey(recipient.ID), new(int64)); err == nil {
		return *hit.(*int64), nil
	}

	var count int64
	if err := database.C.Model(&models.NotificationEvent{}).
		Where("recipient_id = ? AND read = ?", recipient.ID, false).
		Count(&count).Error; err != nil {
		return count, err
	}

	_ = marshal.Set(
		ctx,
		unreadCacheKey(recipient.ID),
		count,
		store.WithExpiration(time.Minute),
		store.WithTags([]string{"notification-unread-count", fmt.Sprintf("profile#%d", recipient.ID)}),
	)

	return count, nil
}

func invalidateUnreadCache(recipientId uint) {
	cacheManager := cache.New[any](localCache.S)
	marshal := marshaler.New(cacheManager)
	_ = marshal.Delete(context.Background(), unreadCacheKey(recipientId))
}
