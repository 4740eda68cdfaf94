package services

import (
	"fmt"
	"testing"

	localCache "github.com/athlinked/server/pkg/internal/cache"
	"github.com/athlinked/server/pkg/internal/database"
	"github.com/athlinked/server/pkg/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"
)

func setupTestDatabase(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         glogger.Default.LogMode(glogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	// Every pooled connection gets its own :memory: database; keep one.
	if sqlDB, err := db.DB(); err != nil {
		t.Fatalf("Failed to get test database handle: %v", err)
	} else {
		sqlDB.SetMaxOpenConns(1)
	}

	if err := database.RunMigration(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	// Fresh cache store per test; ids restart at one in every test database
	// so entries must not survive between tests.
	if err := localCache.NewStore(); err != nil {
		t.Fatalf("Failed to set up local cache: %v", err)
	}

	database.C = db
	return db
}

var testProfileSeq int

func createTestProfile(t *testing.T, visibility models.VisibilityLevel, organizations ...string) models.Profile {
	t.Helper()

	testProfileSeq++
	profile := models.Profile{
		Name:          fmt.Sprintf("athlete%d", testProfileSeq),
		Nick:          fmt.Sprintf("Athlete %d", testProfileSeq),
		Visibility:    visibility,
		Organizations: organizations,
		AccountID:     uint(10000 + testProfileSeq),
	}
	if err := database.C.Create(&profile).Error; err != nil {
		t.Fatalf("Failed to create test profile: %v", err)
	}
	return profile
}

func createTestPost(t *testing.T, author models.Profile, visibility models.VisibilityLevel) models.Post {
	t.Helper()

	post, err := NewPost(author, models.Post{
		Type:       "story",
		Body:       map[string]any{"content": "morning training session"},
		Visibility: visibility,
	})
	if err != nil {
		t.Fatalf("Failed to create test post: %v", err)
	}
	post.Author = author
	return post
}

func countNotifications(t *testing.T, recipientId uint, kind string) int64 {
	t.Helper()

	var count int64
	if err := database.C.Model(&models.NotificationEvent{}).
		Where("recipient_id = ? AND kind = ?", recipientId, kind).
		Count(&count).Error; err != nil {
		t.Fatalf("Failed to count notifications: %v", err)
	}
	return count
}
