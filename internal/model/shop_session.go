package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Session lifecycle states. A session only ever moves open -> closed.
const (
	SessionStatusOpen   = "open"
	SessionStatusClosed = "closed"
)

// ShopSession is one operator's cash-drawer shift: opened with a starting
// float, filled with consignment items during the day, and closed exactly
// once by the reconciliation operation. At most one open session may exist
// per operator.
type ShopSession struct {
	BaseModel
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id" validate:"uuid_required"`
	User   *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`

	StartCash decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"start_cash"`
	// ActualCash stays nil until the session is closed.
	ActualCash *decimal.Decimal `gorm:"type:decimal(12,2)" json:"actual_cash,omitempty"`

	Status    string     `gorm:"type:varchar(10);not null;default:'open';index" json:"status"`
	StartedAt time.Time  `gorm:"not null;index" json:"started_at"`
	ClosedAt  *time.Time `json:"closed_at,omitempty"`

	// Notes holds the human-readable reconciliation summary written at close.
	Notes string `gorm:"type:text" json:"notes"`

	Items []ConsignmentItem `gorm:"foreignKey:ShopSessionID" json:"items,omitempty"`
}

func (ShopSession) TableName() string {
	return "shop_sessions"
}

func (s *ShopSession) IsOpen() bool {
	return s.Status == SessionStatusOpen && s.ClosedAt == nil
}
