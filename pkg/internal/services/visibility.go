package services

import (
	"context"
	"errors"
	"time"

	"github.com/athlinked/server/pkg/internal/database"
	"github.com/athlinked/server/pkg/internal/models"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/spf13/viper"
	"gorm.io/gorm"
)

// CanViewPost is the single place the visibility policy lives. Every read
// path (feed, profile page, single post) goes through it or FilterVisiblePosts;
// never re-derive these rules inline. First match wins, in this order:
//
//  1. The owner always sees their own content, whatever the flags say.
//  2. A public post by a public profile is visible to everyone.
//  3. An accepted follower sees all of the owner's content, even private
//     posts on a private profile. Pending or rejected edges grant nothing.
//  4. A shared organization tag grants visibility, even to a private post by
//     a private profile. That reach is intentional product behavior (team
//     mates see each other's training posts), not an oversight.
//  5. Otherwise deny.
func CanViewPost(viewer *models.Profile, owner models.Profile, post models.Post, edge *models.RelationshipEdge) bool {
	if viewer != nil && viewer.ID == owner.ID {
		return true
	}
	if post.Visibility == models.VisibilityPublic && owner.Visibility == models.VisibilityPublic {
		return true
	}
	if viewer != nil && edge != nil &&
		edge.Status == models.RelationshipAccepted &&
		edge.SourceID == viewer.ID && edge.TargetID == owner.ID {
		return true
	}
	if viewer != nil && SharesOrganization(*viewer, owner) {
		return true
	}
	return false
}

// SharesOrganization reports whether two profiles carry at least one common
// organization tag.
func SharesOrganization(a, b models.Profile) bool {
	return len(lo.Intersect(a.Organizations, b.Organizations)) > 0
}

func lookupTimeout() time.Duration {
	if timeout := viper.GetDuration("performance.lookup_timeout"); timeout > 0 {
		return timeout
	}
	return 3 * time.Second
}

// CanViewPostWithID resolves the post, its owner and the viewer's edge, then
// evaluates the policy. Lookups run under a bounded timeout and any store
// failure denies rather than hangs or defaults open.
func CanViewPostWithID(viewer *models.Profile, postId uint) bool {
	ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout())
	defer cancel()

	var post models.Post
	if err := database.C.WithContext(ctx).
		Preload("Author").
		Where("id = ?", postId).
		First(&post).Error; err != nil {
		return false
	}

	var edge *models.RelationshipEdge
	if viewer != nil && viewer.ID != post.AuthorID {
		var record models.RelationshipEdge
		err := database.C.WithContext(ctx).
			Where("source_id = ? AND target_id = ?", viewer.ID, post.AuthorID).
			First(&record).Error
		if err == nil {
			edge = &record
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			// Fail closed on anything but a clean miss.
			log.Warn().Err(err).Uint("post", postId).Msg("Relationship lookup failed, denying visibility...")
			return false
		}
	}

	return CanViewPost(viewer, post.Author, post, edge)
}
