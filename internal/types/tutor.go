package types

import (
	"time"

	"github.com/google/uuid"
)

// Tutor is an AI tutor identity. The behavioral scanner walks the active set
// when evaluating tutor disuse.
type Tutor struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"not null;column:name" json:"name"`
	Subject   string    `gorm:"column:subject" json:"subject,omitempty"`
	Active    bool      `gorm:"not null;column:active" json:"active"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Tutor) TableName() string { return "tutor" }
