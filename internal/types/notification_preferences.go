package types

import (
	"time"

	"github.com/google/uuid"
)

// NotificationPreferences is one row per user with upsert semantics. Rows are
// created lazily; a user without one gets DefaultNotificationPreferences.
type NotificationPreferences struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	User   *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`

	PushEnabled  bool `gorm:"not null;column:push_enabled" json:"push_enabled"`
	EmailEnabled bool `gorm:"not null;column:email_enabled" json:"email_enabled"`
	InAppEnabled bool `gorm:"not null;column:in_app_enabled" json:"in_app_enabled"`

	CalendarRemindersEnabled bool `gorm:"not null;column:calendar_reminders_enabled" json:"calendar_reminders_enabled"`
	CalendarLeadMinutes      int  `gorm:"not null;column:calendar_lead_minutes" json:"calendar_lead_minutes"`

	BehavioralHintsEnabled bool `gorm:"not null;column:behavioral_hints_enabled" json:"behavioral_hints_enabled"`
	TutorDisuseDays        int  `gorm:"not null;column:tutor_disuse_days" json:"tutor_disuse_days"`
	ToolDisuseDays         int  `gorm:"not null;column:tool_disuse_days" json:"tool_disuse_days"`
	UploadNudgeDays        int  `gorm:"not null;column:upload_nudge_days" json:"upload_nudge_days"`

	QuotaWarningsEnabled bool `gorm:"not null;column:quota_warnings_enabled" json:"quota_warnings_enabled"`
	QuotaThresholdPct    int  `gorm:"not null;column:quota_threshold_pct" json:"quota_threshold_pct"`

	QuietHoursEnabled bool   `gorm:"not null;column:quiet_hours_enabled" json:"quiet_hours_enabled"`
	QuietHoursStart   string `gorm:"not null;column:quiet_hours_start" json:"quiet_hours_start"`
	QuietHoursEnd     string `gorm:"not null;column:quiet_hours_end" json:"quiet_hours_end"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (NotificationPreferences) TableName() string { return "notification_preferences" }

// DefaultNotificationPreferences is what a user without a stored row gets:
// every channel on, 15-minute calendar lead, 30/14/7-day behavioral
// thresholds, 10% quota threshold, quiet hours 22:00-08:00 enabled.
func DefaultNotificationPreferences(userID uuid.UUID) *NotificationPreferences {
	return &NotificationPreferences{
		UserID:                   userID,
		PushEnabled:              true,
		EmailEnabled:             true,
		InAppEnabled:             true,
		CalendarRemindersEnabled: true,
		CalendarLeadMinutes:      15,
		BehavioralHintsEnabled:   true,
		TutorDisuseDays:          30,
		ToolDisuseDays:           14,
		UploadNudgeDays:          7,
		QuotaWarningsEnabled:     true,
		QuotaThresholdPct:        10,
		QuietHoursEnabled:        true,
		QuietHoursStart:          "22:00",
		QuietHoursEnd:            "08:00",
	}
}
