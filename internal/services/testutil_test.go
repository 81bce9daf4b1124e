package services

import (
	"testing"

	"classengage-backend/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	// Every :memory: connection is its own database; cap the pool so all
	// statements hit the one that was migrated.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to access sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.SessionParticipant{},
		&models.Question{},
		&models.QuestionVote{},
		&models.HealthCheck{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// userByName fetches a user created through the service layer.
func userByName(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()

	var user models.User
	if err := db.Where("display_name = ?", name).First(&user).Error; err != nil {
		t.Fatalf("failed to find user %q: %v", name, err)
	}
	return &user
}
