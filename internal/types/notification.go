package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type NotificationClass string

const (
	NotificationClassCalendarReminder NotificationClass = "calendar_reminder"
	NotificationClassBehavioralTip    NotificationClass = "behavioral_tip"
	NotificationClassToolReminder     NotificationClass = "tool_reminder"
	NotificationClassUploadNudge      NotificationClass = "upload_nudge"
	NotificationClassQuotaWarning     NotificationClass = "quota_warning"
	NotificationClassAchievement      NotificationClass = "achievement"
	NotificationClassSystem           NotificationClass = "system"
)

type NotificationStatus string

const (
	NotificationStatusPending    NotificationStatus = "pending"
	NotificationStatusInProgress NotificationStatus = "in_progress"
	NotificationStatusDelivered  NotificationStatus = "delivered"
	NotificationStatusFailed     NotificationStatus = "failed"
	NotificationStatusCancelled  NotificationStatus = "cancelled"
)

// NotificationQueueItem is one scheduled unit of notification work. The
// per-channel flags are frozen at enqueue time from the preferences current
// then; a later preference change does not alter an already-queued item.
// Status is owned by the queue repo: producers insert pending rows, the
// dispatcher claims and finishes them, and rescheduling cancels them. Nothing
// else writes status.
type NotificationQueueItem struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User   *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`

	Class  NotificationClass  `gorm:"not null;index;column:class" json:"class"`
	Status NotificationStatus `gorm:"not null;default:'pending';index;column:status" json:"status"`

	SendPush  bool `gorm:"not null;default:false;column:send_push" json:"send_push"`
	SendEmail bool `gorm:"not null;default:false;column:send_email" json:"send_email"`
	SendInApp bool `gorm:"not null;default:false;column:send_in_app" json:"send_in_app"`

	Title    string `gorm:"not null;column:title" json:"title"`
	Body     string `gorm:"not null;column:body" json:"body"`
	DeepLink string `gorm:"column:deep_link" json:"deep_link,omitempty"`
	Icon     string `gorm:"column:icon" json:"icon,omitempty"`

	ScheduledFor time.Time `gorm:"not null;index;column:scheduled_for" json:"scheduled_for"`

	CalendarEventID *uuid.UUID     `gorm:"type:uuid;index;column:calendar_event_id" json:"calendar_event_id,omitempty"`
	TutorID         *uuid.UUID     `gorm:"type:uuid;index;column:tutor_id" json:"tutor_id,omitempty"`
	Subject         string         `gorm:"column:subject" json:"subject,omitempty"`
	Metadata        datatypes.JSON `gorm:"type:jsonb;column:metadata" json:"metadata,omitempty"`

	DeliveredAt *time.Time `gorm:"column:delivered_at" json:"delivered_at,omitempty"`
	CreatedAt   time.Time  `gorm:"not null;index" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updated_at"`
}

func (NotificationQueueItem) TableName() string { return "notifications_queue" }
