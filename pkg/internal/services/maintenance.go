package services

import (
	"github.com/athlinked/server/pkg/internal/database"
	"github.com/athlinked/server/pkg/internal/models"
	"github.com/rs/zerolog/log"
)

// DoAutoDatabaseCleanup sweeps records whose referent vanished: engagements
// and comments pointing at hard-deleted posts, notifications whose edge is
// gone. Runs on the shared cron schedule.
func DoAutoDatabaseCleanup() {
	log.Debug().Msg("Now cleaning up entire database...")

	var count int64

	for _, deletion := range []struct {
		model any
		cond  string
	}{
		{&models.EngagementMembership{}, "post_id NOT IN (SELECT id FROM posts WHERE deleted_at IS NULL)"},
		{&models.Comment{}, "post_id NOT IN (SELECT id FROM posts WHERE deleted_at IS NULL)"},
		{&models.NotificationEvent{}, "edge_id != 0 AND edge_id NOT IN (SELECT id FROM relationship_edges)"},
	} {
		result := database.C.Unscoped().Where(deletion.cond).Delete(deletion.model)
		if result.Error != nil {
			log.Error().Err(result.Error).Msg("An error occurred when running database cleanup...")
			continue
		}
		count += result.RowsAffected
	}

	log.Debug().Int64("affected", count).Msg("Clean up entire database accomplished.")
}
