package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/calvora/recsys-backend/internal/apierr"
	"github.com/calvora/recsys-backend/internal/logger"
	"github.com/calvora/recsys-backend/internal/repos"
	"github.com/calvora/recsys-backend/internal/types"
)

type TrackActivityInput struct {
	UserID       string         `json:"user_id"`
	ActivityType string         `json:"activity_type"`
	ItemID       string         `json:"item_id,omitempty"`
	Details      map[string]any `json:"details,omitempty"`
	Duration     *int           `json:"duration,omitempty"`
}

type ActivityService interface {
	Track(ctx context.Context, tx *gorm.DB, input TrackActivityInput) (*types.UserActivity, error)
	Recent(ctx context.Context, userID string, limit int) ([]*types.UserActivity, error)
	Stats(ctx context.Context, userID string) (*repos.ActivityStats, error)
}

type activityService struct {
	db        *gorm.DB
	log       *logger.Logger
	repo      repos.UserActivityRepo
	publisher ActivityPublisher
}

// NewActivityService wires the interaction log. publisher may be nil; when
// set, every tracked activity is also announced on it after the insert
// commits.
func NewActivityService(db *gorm.DB, baseLog *logger.Logger, repo repos.UserActivityRepo, publisher ActivityPublisher) ActivityService {
	return &activityService{
		db:        db,
		log:       baseLog.With("service", "ActivityService"),
		repo:      repo,
		publisher: publisher,
	}
}

func (s *activityService) Track(ctx context.Context, tx *gorm.DB, input TrackActivityInput) (*types.UserActivity, error) {
	userID, err := parseUserID(input.UserID)
	if err != nil {
		return nil, err
	}

	activityType := strings.TrimSpace(strings.ToLower(input.ActivityType))
	if activityType == "" {
		return nil, apierr.BadRequest(fmt.Errorf("activity type is required"))
	}
	if input.Duration != nil && *input.Duration < 0 {
		return nil, apierr.BadRequest(fmt.Errorf("duration must be non-negative"))
	}

	activity := &types.UserActivity{
		ID:           uuid.New(),
		UserID:       userID,
		ActivityType: activityType,
		Duration:     input.Duration,
	}
	if itemID := strings.TrimSpace(input.ItemID); itemID != "" {
		activity.ItemID = &itemID
	}
	if len(input.Details) > 0 {
		raw, err := json.Marshal(input.Details)
		if err != nil {
			return nil, apierr.BadRequest(fmt.Errorf("details are not serializable: %w", err))
		}
		activity.Details = datatypes.JSON(raw)
	}

	created, err := s.repo.Create(ctx, tx, []*types.UserActivity{activity})
	if err != nil {
		s.log.Error("Failed to track activity", "user_id", input.UserID, "error", err)
		return nil, apierr.Internal(fmt.Errorf("failed to track activity"))
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, created[0]); err != nil {
			s.log.Warn("Failed to publish activity event", "user_id", input.UserID, "error", err)
		}
	}
	return created[0], nil
}

func (s *activityService) Recent(ctx context.Context, userID string, limit int) ([]*types.UserActivity, error) {
	id, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}

	activities, err := s.repo.GetByUserID(ctx, nil, id, limit)
	if err != nil {
		s.log.Error("Failed to fetch activities", "user_id", userID, "error", err)
		return nil, apierr.Internal(fmt.Errorf("failed to fetch activities"))
	}
	return activities, nil
}

func (s *activityService) Stats(ctx context.Context, userID string) (*repos.ActivityStats, error) {
	id, err := parseUserID(userID)
	if err != nil {
		return nil, err
	}

	stats, err := s.repo.Stats(ctx, nil, id)
	if err != nil {
		s.log.Error("Failed to compute activity stats", "user_id", userID, "error", err)
		return nil, apierr.Internal(fmt.Errorf("failed to compute activity stats"))
	}
	return stats, nil
}

func parseUserID(raw string) (uuid.UUID, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return uuid.Nil, apierr.BadRequest(fmt.Errorf("user id is required"))
	}
	id, err := uuid.Parse(trimmed)
	if err != nil {
		return uuid.Nil, apierr.BadRequest(fmt.Errorf("user id is not a valid uuid"))
	}
	return id, nil
}
