package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// UserActivity is one row of the append-only interaction log. Rows are
// never updated or deleted once written.
type UserActivity struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	User         *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	ActivityType string         `gorm:"column:activity_type;size:50;not null;index" json:"activity_type"`
	ItemID       *string        `gorm:"column:item_id;size:100;index" json:"item_id,omitempty"`
	Details      datatypes.JSON `gorm:"type:jsonb;column:details" json:"details,omitempty"`
	Duration     *int           `gorm:"column:duration" json:"duration,omitempty"`
	CreatedAt    time.Time      `gorm:"not null;index" json:"created_at"`
}

func (UserActivity) TableName() string { return "user_activity" }
