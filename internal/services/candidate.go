package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/calvora/recsys-backend/internal/logger"
	"github.com/calvora/recsys-backend/internal/repos"
)

// Candidate is a scored, not-yet-persisted recommendation produced by the
// generator before truncation.
type Candidate struct {
	ItemID   string
	Score    float64
	Reason   string
	Metadata map[string]any
}

// CandidateGenerator turns a user's interaction history into an ordered
// list of scored candidates. The current implementation is a deterministic
// heuristic standing in for a real ranking model; the boundary (history in,
// scored candidates out) is the part meant to survive a model swap.
type CandidateGenerator interface {
	Generate(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]Candidate, error)
}

const (
	recentViewLimit     = 10
	recentClickLimit    = 10
	recentPurchaseLimit = 5
	similarSourceLimit  = 5
)

type activityCandidateGenerator struct {
	log          *logger.Logger
	activityRepo repos.UserActivityRepo
}

func NewActivityCandidateGenerator(baseLog *logger.Logger, activityRepo repos.UserActivityRepo) CandidateGenerator {
	return &activityCandidateGenerator{
		log:          baseLog.With("service", "CandidateGenerator"),
		activityRepo: activityRepo,
	}
}

func (g *activityCandidateGenerator) Generate(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]Candidate, error) {
	views, err := g.activityRepo.RecentItemIDs(ctx, tx, userID, "view", recentViewLimit)
	if err != nil {
		return nil, fmt.Errorf("fetching recent views: %w", err)
	}
	clicks, err := g.activityRepo.RecentItemIDs(ctx, tx, userID, "click", recentClickLimit)
	if err != nil {
		return nil, fmt.Errorf("fetching recent clicks: %w", err)
	}
	purchases, err := g.activityRepo.RecentItemIDs(ctx, tx, userID, "purchase", recentPurchaseLimit)
	if err != nil {
		return nil, fmt.Errorf("fetching recent purchases: %w", err)
	}

	// Views first, then clicks, then purchases: the concatenation order
	// decides which interactions survive the similarSourceLimit cut.
	interactions := make([]string, 0, len(views)+len(clicks)+len(purchases))
	interactions = append(interactions, views...)
	interactions = append(interactions, clicks...)
	interactions = append(interactions, purchases...)

	if len(interactions) == 0 {
		g.log.Debug("No interaction history, using cold start candidates", "user_id", userID)
		return coldStartCandidates(), nil
	}
	return activityCandidates(interactions), nil
}

// activityCandidates builds up to five similarity candidates from the most
// recent interactions, ranked score-descending, followed by two fixed
// popularity fallbacks.
func activityCandidates(interactions []string) []Candidate {
	sources := interactions
	if len(sources) > similarSourceLimit {
		sources = sources[:similarSourceLimit]
	}

	similar := make([]Candidate, 0, len(sources))
	for i, itemID := range sources {
		similar = append(similar, Candidate{
			ItemID: "similar_to_" + itemID,
			Score:  0.9 - 0.1*float64(i),
			Reason: "Similar to items you recently interacted with",
			Metadata: map[string]any{
				"based_on": itemID,
				"type":     "similar_item",
			},
		})
	}
	rankCandidates(similar)

	return append(similar,
		Candidate{
			ItemID:   "popular_1",
			Score:    0.85,
			Reason:   "Popular among users with similar activity",
			Metadata: map[string]any{"type": "popular"},
		},
		Candidate{
			ItemID:   "popular_2",
			Score:    0.82,
			Reason:   "Trending in categories you're interested in",
			Metadata: map[string]any{"type": "trending"},
		},
	)
}

func coldStartCandidates() []Candidate {
	return []Candidate{
		{
			ItemID:   "1",
			Score:    0.95,
			Reason:   "Highly popular among all users",
			Metadata: map[string]any{"category": "electronics"},
		},
		{
			ItemID:   "2",
			Score:    0.88,
			Reason:   "New arrival that's getting great reviews",
			Metadata: map[string]any{"category": "books"},
		},
		{
			ItemID:   "3",
			Score:    0.82,
			Reason:   "Best seller in your region",
			Metadata: map[string]any{"category": "clothing"},
		},
	}
}

// rankCandidates orders by score descending, breaking ties by item id
// ascending so identical inputs always yield identical output.
func rankCandidates(cands []Candidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].Score != cands[j].Score {
			return cands[i].Score > cands[j].Score
		}
		return cands[i].ItemID < cands[j].ItemID
	})
}
