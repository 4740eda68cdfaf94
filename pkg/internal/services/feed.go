package services

import (
	"context"
	"fmt"

	"github.com/athlinked/server/pkg/internal/database"
	"github.com/athlinked/server/pkg/internal/models"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

func FilterPostWithAuthor(tx *gorm.DB, authorId uint) *gorm.DB {
	return tx.Where("author_id = ?", authorId)
}

func FilterPostWithType(tx *gorm.DB, t string) *gorm.DB {
	return tx.Where("type = ?", t)
}

// FilterVisiblePosts applies the visibility policy across a candidate page.
// The output preserves input order and only removes denied items. Edge and
// profile facts are fetched with one query each over the distinct authors of
// the page, so a page of fifty posts from ten authors costs two lookups, not
// fifty.
func FilterVisiblePosts(viewer *models.Profile, items []models.Post) ([]models.Post, error) {
	if len(items) == 0 {
		return items, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout())
	defer cancel()

	authorIdx := lo.Uniq(lo.Map(items, func(item models.Post, index int) uint {
		return item.AuthorID
	}))

	var authors []models.Profile
	if err := database.C.WithContext(ctx).
		Where("id IN ?", authorIdx).
		Find(&authors).Error; err != nil {
		return nil, fmt.Errorf("unable to load post authors: %w", err)
	}
	authorMap := lo.SliceToMap(authors, func(item models.Profile) (uint, models.Profile) {
		return item.ID, item
	})

	edgeMap := make(map[uint]*models.RelationshipEdge)
	if viewer != nil {
		var edges []models.RelationshipEdge
		if err := database.C.WithContext(ctx).
			Where("source_id = ? AND target_id IN ?", viewer.ID, authorIdx).
			Find(&edges).Error; err != nil {
			return nil, fmt.Errorf("unable to load relationships: %w", err)
		}
		for idx, edge := range edges {
			edgeMap[edge.TargetID] = &edges[idx]
		}
	}

	out := make([]models.Post, 0, len(items))
	for _, item := range items {
		author, ok := authorMap[item.AuthorID]
		if !ok {
			// Orphaned post, owner is gone. Deny rather than leak.
			continue
		}
		if CanViewPost(viewer, author, item, edgeMap[item.AuthorID]) {
			out = append(out, item)
		}
	}

	return out, nil
}

// ListFeedPosts pulls a page of candidates ordered by recency and filters it
// down to what the viewer may see. The returned page can be shorter than
// take; callers paginate with the offset.
func ListFeedPosts(tx *gorm.DB, viewer *models.Profile, take int, offset int) ([]models.Post, error) {
	if take > 100 {
		take = 100
	}

	var items []models.Post
	if err := tx.
		Preload("Author").
		Limit(take).Offset(offset).
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		return items, err
	}

	return FilterVisiblePosts(viewer, items)
}
