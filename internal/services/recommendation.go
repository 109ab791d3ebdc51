package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/calvora/recsys-backend/internal/apierr"
	"github.com/calvora/recsys-backend/internal/logger"
	"github.com/calvora/recsys-backend/internal/repos"
	"github.com/calvora/recsys-backend/internal/types"
)

// DefaultTopK is used when the caller omits top_k or requests a
// non-positive value.
const DefaultTopK = 10

// Recommendation is the response-facing value. It is mapped into a
// RecommendationRecord for storage, never persisted directly.
type Recommendation struct {
	ItemID    string         `json:"item_id"`
	Score     float64        `json:"score"`
	Reason    string         `json:"reason,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// NewRecommendation validates the score bound at construction; scores
// outside [0, 1] never reach a response.
func NewRecommendation(itemID string, score float64, reason string, metadata map[string]any) (Recommendation, error) {
	if itemID == "" {
		return Recommendation{}, fmt.Errorf("item id is required")
	}
	if score < 0.0 || score > 1.0 {
		return Recommendation{}, fmt.Errorf("score %v outside [0.0, 1.0]", score)
	}
	if metadata == nil {
		metadata = map[string]any{}
	}
	return Recommendation{
		ItemID:    itemID,
		Score:     score,
		Reason:    reason,
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	}, nil
}

type GetRecommendationsResponse struct {
	UserID          string           `json:"user_id"`
	Recommendations []Recommendation `json:"recommendations"`
	TotalCount      int              `json:"total_count"`
	GeneratedAt     time.Time        `json:"generated_at"`
	Pagination      map[string]any   `json:"pagination,omitempty"`
}

type RecommendationService interface {
	GetRecommendations(ctx context.Context, userID string, topK int) (*GetRecommendationsResponse, error)
}

type recommendationService struct {
	db        *gorm.DB
	log       *logger.Logger
	userRepo  repos.UserRepo
	recRepo   repos.RecommendationRepo
	generator CandidateGenerator
}

func NewRecommendationService(db *gorm.DB, baseLog *logger.Logger, userRepo repos.UserRepo, recRepo repos.RecommendationRepo, generator CandidateGenerator) RecommendationService {
	return &recommendationService{
		db:        db,
		log:       baseLog.With("service", "RecommendationService"),
		userRepo:  userRepo,
		recRepo:   recRepo,
		generator: generator,
	}
}

// GetRecommendations validates the request, checks the user exists,
// generates candidates from the user's activity, persists the full batch
// and returns the list truncated to topK. The persisted batch is the
// pre-truncation one: generation history is retained even when the caller
// asks for fewer items. On failure the returned response carries an empty
// list alongside the typed error.
func (s *recommendationService) GetRecommendations(ctx context.Context, userID string, topK int) (*GetRecommendationsResponse, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}

	id, err := parseUserID(userID)
	if err != nil {
		return emptyResponse(userID), err
	}

	var candidates []Candidate
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := s.userRepo.Exists(ctx, tx, id)
		if err != nil {
			s.log.Error("User lookup failed", "user_id", userID, "error", err)
			return apierr.Internal(fmt.Errorf("failed to look up user"))
		}
		if !exists {
			return apierr.NotFound(fmt.Errorf("user with id %s not found", userID))
		}

		candidates, err = s.generator.Generate(ctx, tx, id)
		if err != nil {
			s.log.Error("Candidate generation failed", "user_id", userID, "error", err)
			return apierr.Internal(fmt.Errorf("failed to generate recommendations"))
		}

		records, err := candidateRecords(id, candidates)
		if err != nil {
			return apierr.Internal(fmt.Errorf("failed to generate recommendations"))
		}
		if _, err := s.recRepo.Create(ctx, tx, records); err != nil {
			s.log.Error("Failed to persist recommendations", "user_id", userID, "error", err)
			return apierr.Internal(fmt.Errorf("failed to persist recommendations"))
		}
		return nil
	})
	if txErr != nil {
		return emptyResponse(userID), apierr.From(txErr)
	}

	returned := candidates
	if len(returned) > topK {
		returned = returned[:topK]
	}

	recommendations := make([]Recommendation, 0, len(returned))
	for _, c := range returned {
		rec, err := NewRecommendation(c.ItemID, c.Score, c.Reason, c.Metadata)
		if err != nil {
			s.log.Error("Generated candidate failed validation", "user_id", userID, "item_id", c.ItemID, "error", err)
			return emptyResponse(userID), apierr.Internal(fmt.Errorf("failed to generate recommendations"))
		}
		recommendations = append(recommendations, rec)
	}

	return &GetRecommendationsResponse{
		UserID:          userID,
		Recommendations: recommendations,
		TotalCount:      len(recommendations),
		GeneratedAt:     time.Now().UTC(),
	}, nil
}

func candidateRecords(userID uuid.UUID, candidates []Candidate) ([]*types.RecommendationRecord, error) {
	records := make([]*types.RecommendationRecord, 0, len(candidates))
	for _, c := range candidates {
		record := &types.RecommendationRecord{
			ID:     uuid.New(),
			UserID: userID,
			ItemID: c.ItemID,
			Score:  c.Score,
		}
		if c.Reason != "" {
			reason := c.Reason
			record.Reason = &reason
		}
		if len(c.Metadata) > 0 {
			raw, err := json.Marshal(c.Metadata)
			if err != nil {
				return nil, fmt.Errorf("marshaling candidate metadata: %w", err)
			}
			record.ItemMetadata = datatypes.JSON(raw)
		}
		records = append(records, record)
	}
	return records, nil
}

func emptyResponse(userID string) *GetRecommendationsResponse {
	return &GetRecommendationsResponse{
		UserID:          userID,
		Recommendations: []Recommendation{},
		TotalCount:      0,
		GeneratedAt:     time.Now().UTC(),
	}
}
