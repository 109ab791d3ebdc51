package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// RecommendationRecord is one generated recommendation for a user. A
// generation batch writes one row per candidate; batches for the same
// user accumulate over time, there is no upsert.
type RecommendationRecord struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	User         *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	ItemID       string         `gorm:"column:item_id;size:100;not null" json:"item_id"`
	Score        float64        `gorm:"column:score;not null" json:"score"`
	Reason       *string        `gorm:"column:reason" json:"reason,omitempty"`
	ItemMetadata datatypes.JSON `gorm:"type:jsonb;column:item_metadata" json:"item_metadata,omitempty"`
	CreatedAt    time.Time      `gorm:"not null;index" json:"created_at"`
}

func (RecommendationRecord) TableName() string { return "recommendation_record" }
