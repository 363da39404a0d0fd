package model

import (
	"time"

	"github.com/google/uuid"
)

// ActivityLog is one row in the append-only audit trail of domain events
// ("Shop Opened", "Shop Closed", ...). Rows are never updated or deleted.
type ActivityLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	EventName   string    `gorm:"type:varchar(100);not null;index" json:"event_name"`
	SubjectType string    `gorm:"type:varchar(50);index" json:"subject_type"`
	SubjectID   uuid.UUID `gorm:"type:uuid;index" json:"subject_id"`

	// Key figures of the event, JSON-encoded.
	Properties string `gorm:"type:text" json:"properties"`

	CausedBy string `gorm:"type:varchar(255)" json:"caused_by"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}
