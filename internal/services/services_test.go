package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/calvora/recsys-backend/internal/logger"
	"github.com/calvora/recsys-backend/internal/repos"
	"github.com/calvora/recsys-backend/internal/types"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("opening sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("getting sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&types.User{}, &types.UserActivity{}, &types.RecommendationRecord{}); err != nil {
		t.Fatalf("migrating: %v", err)
	}
	return db
}

func testLogger() *logger.Logger {
	return logger.NewNop()
}

func createUser(t *testing.T, db *gorm.DB) uuid.UUID {
	t.Helper()
	userRepo := repos.NewUserRepo(db, testLogger())
	users, err := userRepo.Create(context.Background(), nil, []*types.User{{
		Email: uuid.New().String() + "@example.com",
	}})
	if err != nil {
		t.Fatalf("creating user: %v", err)
	}
	return users[0].ID
}

func seedViews(t *testing.T, db *gorm.DB, userID uuid.UUID, items []string) {
	t.Helper()
	activityRepo := repos.NewUserActivityRepo(db, testLogger())
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, item := range items {
		itemID := item
		_, err := activityRepo.Create(context.Background(), nil, []*types.UserActivity{{
			UserID:       userID,
			ActivityType: "view",
			ItemID:       &itemID,
			CreatedAt:    base.Add(time.Duration(i) * time.Second),
		}})
		if err != nil {
			t.Fatalf("seeding view %q: %v", item, err)
		}
	}
}
