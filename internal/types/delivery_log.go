package types

import (
	"time"

	"github.com/google/uuid"
)

type DeliveryChannel string

const (
	ChannelPush  DeliveryChannel = "push"
	ChannelEmail DeliveryChannel = "email"
	ChannelInApp DeliveryChannel = "in_app"
)

type DeliveryOutcome string

const (
	DeliveryOutcomeSent    DeliveryOutcome = "sent"
	DeliveryOutcomeFailed  DeliveryOutcome = "failed"
	DeliveryOutcomeSkipped DeliveryOutcome = "skipped"
	DeliveryOutcomeOpened  DeliveryOutcome = "opened"
)

// DeliveryLogEntry is an append-only audit row: one per channel attempt from
// the dispatcher, plus one "opened" row when the user marks an item read.
type DeliveryLogEntry struct {
	ID             uuid.UUID              `gorm:"type:uuid;primaryKey" json:"id"`
	NotificationID uuid.UUID              `gorm:"type:uuid;not null;index" json:"notification_id"`
	Notification   *NotificationQueueItem `gorm:"constraint:OnDelete:CASCADE;foreignKey:NotificationID;references:ID" json:"notification,omitempty"`
	UserID         uuid.UUID              `gorm:"type:uuid;not null;index" json:"user_id"`

	Channel     DeliveryChannel `gorm:"not null;column:channel" json:"channel"`
	Outcome     DeliveryOutcome `gorm:"not null;column:outcome" json:"outcome"`
	ErrorDetail string          `gorm:"column:error_detail" json:"error_detail,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (DeliveryLogEntry) TableName() string { return "notification_delivery_log" }
