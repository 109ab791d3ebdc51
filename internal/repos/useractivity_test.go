package repos

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/calvora/recsys-backend/internal/types"
)

func strptr(s string) *string { return &s }

func insertActivity(t *testing.T, repo UserActivityRepo, userID uuid.UUID, activityType string, itemID *string, at time.Time) {
	t.Helper()
	_, err := repo.Create(context.Background(), nil, []*types.UserActivity{{
		UserID:       userID,
		ActivityType: activityType,
		ItemID:       itemID,
		CreatedAt:    at,
	}})
	if err != nil {
		t.Fatalf("inserting activity: %v", err)
	}
}

func TestRecentItemIDsNewestFirst(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserActivityRepo(db, testLogger())
	userID := uuid.New()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, item := range []string{"a", "b", "c", "d", "e", "f"} {
		insertActivity(t, repo, userID, "view", strptr(item), base.Add(time.Duration(i)*time.Second))
	}
	// Different type and nil item rows must not show up in view results.
	insertActivity(t, repo, userID, "click", strptr("x"), base.Add(10*time.Second))
	insertActivity(t, repo, userID, "view", nil, base.Add(11*time.Second))

	items, err := repo.RecentItemIDs(context.Background(), nil, userID, "view", 10)
	if err != nil {
		t.Fatalf("RecentItemIDs: %v", err)
	}
	want := []string{"f", "e", "d", "c", "b", "a"}
	if !reflect.DeepEqual(items, want) {
		t.Fatalf("got %v, want %v", items, want)
	}
}

func TestRecentItemIDsLimit(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserActivityRepo(db, testLogger())
	userID := uuid.New()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, item := range []string{"a", "b", "c", "d"} {
		insertActivity(t, repo, userID, "view", strptr(item), base.Add(time.Duration(i)*time.Second))
	}

	items, err := repo.RecentItemIDs(context.Background(), nil, userID, "view", 2)
	if err != nil {
		t.Fatalf("RecentItemIDs: %v", err)
	}
	want := []string{"d", "c"}
	if !reflect.DeepEqual(items, want) {
		t.Fatalf("got %v, want %v", items, want)
	}
}

func TestRecentItemIDsKeepsDuplicates(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserActivityRepo(db, testLogger())
	userID := uuid.New()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	insertActivity(t, repo, userID, "view", strptr("a"), base)
	insertActivity(t, repo, userID, "view", strptr("a"), base.Add(time.Second))

	items, err := repo.RecentItemIDs(context.Background(), nil, userID, "view", 10)
	if err != nil {
		t.Fatalf("RecentItemIDs: %v", err)
	}
	want := []string{"a", "a"}
	if !reflect.DeepEqual(items, want) {
		t.Fatalf("got %v, want %v", items, want)
	}
}

func TestRecentItemIDsIdempotentRead(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserActivityRepo(db, testLogger())
	userID := uuid.New()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, item := range []string{"a", "b", "c"} {
		insertActivity(t, repo, userID, "view", strptr(item), base.Add(time.Duration(i)*time.Second))
	}

	first, err := repo.RecentItemIDs(context.Background(), nil, userID, "view", 10)
	if err != nil {
		t.Fatalf("first read: %v", err)
	}
	second, err := repo.RecentItemIDs(context.Background(), nil, userID, "view", 10)
	if err != nil {
		t.Fatalf("second read: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("reads differ: %v vs %v", first, second)
	}
}

func TestRecentItemIDsNoActivity(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserActivityRepo(db, testLogger())

	items, err := repo.RecentItemIDs(context.Background(), nil, uuid.New(), "view", 10)
	if err != nil {
		t.Fatalf("RecentItemIDs: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty result, got %v", items)
	}
}

func TestCreateFillsIDAndTimestamp(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserActivityRepo(db, testLogger())
	userID := uuid.New()

	created, err := repo.Create(context.Background(), nil, []*types.UserActivity{{
		UserID:       userID,
		ActivityType: "view",
		ItemID:       strptr("a"),
	}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created[0].ID == uuid.Nil {
		t.Fatalf("expected generated id")
	}
	if created[0].CreatedAt.IsZero() {
		t.Fatalf("expected creation timestamp")
	}
}

func TestStats(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserActivityRepo(db, testLogger())
	userID := uuid.New()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	insertActivity(t, repo, userID, "view", strptr("a"), base)
	insertActivity(t, repo, userID, "view", strptr("b"), base.Add(time.Second))
	insertActivity(t, repo, userID, "purchase", strptr("a"), base.Add(2*time.Second))

	stats, err := repo.Stats(context.Background(), nil, userID)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalActivities != 3 {
		t.Fatalf("total = %d, want 3", stats.TotalActivities)
	}
	if stats.ActivityTypes["view"] != 2 || stats.ActivityTypes["purchase"] != 1 {
		t.Fatalf("unexpected type counts: %v", stats.ActivityTypes)
	}
	if stats.LastActivity == nil || !stats.LastActivity.Equal(base.Add(2*time.Second)) {
		t.Fatalf("unexpected last activity: %v", stats.LastActivity)
	}
}

func TestStatsNoActivity(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserActivityRepo(db, testLogger())

	stats, err := repo.Stats(context.Background(), nil, uuid.New())
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TotalActivities != 0 {
		t.Fatalf("total = %d, want 0", stats.TotalActivities)
	}
	if len(stats.ActivityTypes) != 0 {
		t.Fatalf("expected no type counts, got %v", stats.ActivityTypes)
	}
	if stats.LastActivity != nil {
		t.Fatalf("expected no last activity, got %v", stats.LastActivity)
	}
}

func TestGetByUserIDNewestFirst(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserActivityRepo(db, testLogger())
	userID := uuid.New()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	insertActivity(t, repo, userID, "view", strptr("a"), base)
	insertActivity(t, repo, userID, "click", strptr("b"), base.Add(time.Second))

	activities, err := repo.GetByUserID(context.Background(), nil, userID, 100)
	if err != nil {
		t.Fatalf("GetByUserID: %v", err)
	}
	if len(activities) != 2 {
		t.Fatalf("got %d activities, want 2", len(activities))
	}
	if activities[0].ActivityType != "click" || activities[1].ActivityType != "view" {
		t.Fatalf("unexpected order: %s, %s", activities[0].ActivityType, activities[1].ActivityType)
	}
}
