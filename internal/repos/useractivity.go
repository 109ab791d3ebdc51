package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/calvora/recsys-backend/internal/logger"
	"github.com/calvora/recsys-backend/internal/types"
)

// ActivityStats aggregates a user's interaction log.
type ActivityStats struct {
	TotalActivities int64            `json:"total_activities"`
	ActivityTypes   map[string]int64 `json:"activity_types"`
	LastActivity    *time.Time       `json:"last_activity,omitempty"`
}

type UserActivityRepo interface {
	Create(ctx context.Context, tx *gorm.DB, activities []*types.UserActivity) ([]*types.UserActivity, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.UserActivity, error)
	RecentItemIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID, activityType string, limit int) ([]string, error)
	Stats(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*ActivityStats, error)
}

type userActivityRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserActivityRepo(db *gorm.DB, baseLog *logger.Logger) UserActivityRepo {
	repoLog := baseLog.With("repo", "UserActivityRepo")
	return &userActivityRepo{db: db, log: repoLog}
}

func (r *userActivityRepo) Create(ctx context.Context, tx *gorm.DB, activities []*types.UserActivity) ([]*types.UserActivity, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(activities) == 0 {
		return []*types.UserActivity{}, nil
	}

	now := time.Now().UTC()
	for _, a := range activities {
		if a.ID == uuid.Nil {
			a.ID = uuid.New()
		}
		if a.CreatedAt.IsZero() {
			a.CreatedAt = now
		}
	}

	if err := transaction.WithContext(ctx).Create(&activities).Error; err != nil {
		return nil, err
	}
	return activities, nil
}

func (r *userActivityRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.UserActivity, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.UserActivity
	if userID == uuid.Nil {
		return results, nil
	}
	if limit <= 0 {
		limit = 100
	}

	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *userActivityRepo) RecentItemIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID, activityType string, limit int) ([]string, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	items := []string{}
	if userID == uuid.Nil || activityType == "" || limit <= 0 {
		return items, nil
	}

	if err := transaction.WithContext(ctx).
		Model(&types.UserActivity{}).
		Where("user_id = ? AND activity_type = ? AND item_id IS NOT NULL", userID, activityType).
		Order("created_at DESC").
		Limit(limit).
		Pluck("item_id", &items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *userActivityRepo) Stats(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*ActivityStats, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	stats := &ActivityStats{ActivityTypes: map[string]int64{}}
	if userID == uuid.Nil {
		return stats, nil
	}

	if err := transaction.WithContext(ctx).
		Model(&types.UserActivity{}).
		Where("user_id = ?", userID).
		Count(&stats.TotalActivities).Error; err != nil {
		return nil, err
	}

	type typeCount struct {
		ActivityType string
		Count        int64
	}
	var byType []typeCount
	if err := transaction.WithContext(ctx).
		Model(&types.UserActivity{}).
		Select("activity_type, COUNT(id) AS count").
		Where("user_id = ?", userID).
		Group("activity_type").
		Scan(&byType).Error; err != nil {
		return nil, err
	}
	for _, tc := range byType {
		stats.ActivityTypes[tc.ActivityType] = tc.Count
	}

	if stats.TotalActivities > 0 {
		var last types.UserActivity
		if err := transaction.WithContext(ctx).
			Where("user_id = ?", userID).
			Order("created_at DESC").
			First(&last).Error; err != nil {
			return nil, err
		}
		t := last.CreatedAt
		stats.LastActivity = &t
	}

	return stats, nil
}
