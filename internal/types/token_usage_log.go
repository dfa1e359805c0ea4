package types

import (
	"time"

	"github.com/google/uuid"
)

// TokenUsageLog is an append-only record of metered usage, written on every
// usage event regardless of whether a quota warning fires.
type TokenUsageLog struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User   *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`

	Kind           string `gorm:"not null;column:kind" json:"kind"`
	UnitsUsed      int64  `gorm:"not null;column:units_used" json:"units_used"`
	UnitsRemaining int64  `gorm:"not null;column:units_remaining" json:"units_remaining"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (TokenUsageLog) TableName() string { return "token_usage_log" }
