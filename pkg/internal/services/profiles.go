package services

import (
	"context"
	"fmt"
	"time"

	localCache "github.com/athlinked/server/pkg/internal/cache"
	"github.com/athlinked/server/pkg/internal/database"
	"github.com/athlinked/server/pkg/internal/models"
	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/marshaler"
	"github.com/eko/gocache/lib/v4/store"
)

func profileCacheKey(id uint) string {
	return fmt.Sprintf("profile-query#%d", id)
}

// GetProfileWithID keeps a short-lived local copy of profile attributes.
// Relationship edges are deliberately never cached; only the profile's own
// fields, which change rarely, are.
func GetProfileWithID(id uint) (models.Profile, error) {
	cacheManager := cache.New[any](localCache.S)
	marshal := marshaler.New(cacheManager)
	ctx := context.Background()

	if hit, err := marshal.Get(ctx, profileCacheKey(id), new(models.Profile)); err == nil {
		return *hit.(*models.Profile), nil
	}

	var profile models.Profile
	if err := database.C.Where("id = ?", id).First(&profile).Error; err != nil {
		return profile, fmt.Errorf("unable to get profile by id: %w", err)
	}

	_ = marshal.Set(
		ctx,
		profileCacheKey(id),
		profile,
		store.WithExpiration(5*time.Minute),
		store.WithTags([]string{"profile-query", fmt.Sprintf("profile#%d", id)}),
	)

	return profile, nil
}

func GetProfileWithName(name string) (models.Profile, error) {
	var profile models.Profile
	if err := database.C.Where("name = ?", name).First(&profile).Error; err != nil {
		return profile, fmt.Errorf("unable to get profile by name: %w", err)
	}
	return profile, nil
}

func GetProfileWithAccount(accountId uint) (models.Profile, error) {
	var profile models.Profile
	if err := database.C.Where("account_id = ?", accountId).First(&profile).Error; err != nil {
		return profile, fmt.Errorf("unable to get profile by account: %w", err)
	}
	return profile, nil
}

func NewProfile(profile models.Profile) (models.Profile, error) {
	if err := database.C.Create(&profile).Error; err != nil {
		return profile, err
	}
	return profile, nil
}

// UpdateProfileVisibility flips the profile between public and private.
// Only the owner may do this; handlers enforce that by passing the
// authenticated profile itself.
func UpdateProfileVisibility(profile models.Profile, visibility models.VisibilityLevel) (models.Profile, error) {
	profile.Visibility = visibility
	if err := database.C.Model(&profile).Update("visibility", visibility).Error; err != nil {
		return profile, err
	}

	invalidateProfileCache(profile.ID)
	return profile, nil
}

func invalidateProfileCache(id uint) {
	cacheManager := cache.New[any](localCache.S)
	marshal := marshaler.New(cacheManager)
	_ = marshal.Delete(context.Background(), profileCacheKey(id))
}
