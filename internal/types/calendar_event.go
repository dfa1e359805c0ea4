package types

import (
	"time"

	"github.com/google/uuid"
)

type CalendarEventCategory string

const (
	CalendarCategoryStudy      CalendarEventCategory = "study"
	CalendarCategoryExam       CalendarEventCategory = "exam"
	CalendarCategoryAssignment CalendarEventCategory = "assignment"
	CalendarCategoryRevision   CalendarEventCategory = "revision"
	CalendarCategoryBreak      CalendarEventCategory = "break"
)

type CalendarEvent struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User   *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`

	Title     string                `gorm:"not null;column:title" json:"title"`
	Category  CalendarEventCategory `gorm:"not null;column:category" json:"category"`
	Subject   string                `gorm:"column:subject" json:"subject,omitempty"`
	StartTime time.Time             `gorm:"not null;index;column:start_time" json:"start_time"`
	EndTime   time.Time             `gorm:"not null;column:end_time" json:"end_time"`

	ReminderScheduled bool `gorm:"not null;default:false;column:reminder_scheduled" json:"reminder_scheduled"`
	ReminderSent      bool `gorm:"not null;default:false;column:reminder_sent" json:"reminder_sent"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (CalendarEvent) TableName() string { return "calendar_events" }
