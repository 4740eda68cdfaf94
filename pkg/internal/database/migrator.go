package database

import (
	"github.com/athlinked/server/pkg/internal/models"
	"gorm.io/gorm"
)

var AutoMaintainRange = []any{
	&models.Profile{},
	&models.Post{},
	&models.Comment{},
	&models.RelationshipEdge{},
	&models.EngagementMembership{},
	&models.NotificationPreference{},
}

func RunMigration(source *gorm.DB) error {
	if err := source.AutoMigrate(
		append(
			AutoMaintainRange,
			&models.NotificationEvent{},
		)...,
	); err != nil {
		return err
	}

	return nil
}
