package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ActivityCategory string

const (
	ActivityTutorUsage ActivityCategory = "tutor_usage"
	ActivityToolUsage  ActivityCategory = "tool_usage"
	ActivityUpload     ActivityCategory = "upload"
	ActivityLogin      ActivityCategory = "login"
	ActivitySession    ActivityCategory = "session"
)

// ActivityRecord is append-only. The behavioral scanner and quota monitor only
// ever read the most recent row per (user, category[, tutor]).
type ActivityRecord struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User   *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`

	Category ActivityCategory `gorm:"not null;index;column:category" json:"category"`
	TutorID  *uuid.UUID       `gorm:"type:uuid;index;column:tutor_id" json:"tutor_id,omitempty"`
	ToolType string           `gorm:"column:tool_type" json:"tool_type,omitempty"`
	Subject  string           `gorm:"column:subject" json:"subject,omitempty"`
	Metadata datatypes.JSON   `gorm:"type:jsonb;column:metadata" json:"metadata,omitempty"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

func (ActivityRecord) TableName() string { return "user_activity_tracking" }
