package services

import (
	"testing"
	"time"

	"github.com/Decoding-DataScience/NutridecodeProd/config"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func testSettings() *config.Settings {
	return &config.Settings{
		TokensPerMinute:     90000,
		DuplicateSaveWindow: time.Hour,
		HistoryDedupWindow:  60 * time.Second,
	}
}
