package types

import (
	"time"

	"github.com/google/uuid"
)

// NotificationSubscription is a push endpoint registration. A user without an
// active row simply gets no push delivery; that is not an error.
type NotificationSubscription struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User   *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`

	Endpoint   string `gorm:"not null;column:endpoint" json:"endpoint"`
	P256dhKey  string `gorm:"column:p256dh_key" json:"p256dh_key,omitempty"`
	AuthKey    string `gorm:"column:auth_key" json:"auth_key,omitempty"`
	DeviceName string `gorm:"column:device_name" json:"device_name,omitempty"`
	Active     bool   `gorm:"not null;column:active" json:"active"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (NotificationSubscription) TableName() string { return "notification_subscriptions" }
