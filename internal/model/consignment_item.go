package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item lifecycle mirrors the session's: open while the shop trades,
// closed exactly once by the owning session's reconciliation.
const (
	ItemStatusOpen   = "open"
	ItemStatusClosed = "closed"
)

// Disposition records the fate of unsold remaining stock.
// An empty string means no disposition was recorded.
const (
	DispositionNone     = ""
	DispositionReturned = "returned"
	DispositionDonated  = "donated"
)

// ConsignmentItem is one product entrusted to the shop for a single day,
// sold on margin. Created when the operator registers stock against an open
// session; its derived fields (quantity sold, revenue, profit) are written
// in bulk by the closing operation and frozen afterwards.
type ConsignmentItem struct {
	BaseModel
	// Nullable because legacy rows predate sessions, but reconciliation
	// only ever touches items that carry a session reference.
	ShopSessionID *uuid.UUID   `gorm:"type:uuid;index" json:"shop_session_id,omitempty"`
	ShopSession   *ShopSession `gorm:"foreignKey:ShopSessionID" json:"-"`

	Date time.Time `gorm:"type:date;not null;index" json:"date"`

	PartnerID         *uuid.UUID `gorm:"type:uuid;index" json:"partner_id,omitempty"`
	Partner           *Partner   `gorm:"foreignKey:PartnerID" json:"partner,omitempty"`
	ManualPartnerName string     `gorm:"type:varchar(255)" json:"manual_partner_name,omitempty"`

	ProductName      string          `gorm:"type:varchar(255);not null" json:"product_name" validate:"required"`
	InitialStock     int             `gorm:"not null" json:"initial_stock" validate:"gte=0"`
	BasePrice        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"base_price"`
	MarkupPercentage int             `gorm:"default:0" json:"markup_percentage" validate:"gte=0"`
	SellingPrice     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"selling_price"`

	RemainingStock int             `gorm:"default:0" json:"remaining_stock"`
	QuantitySold   int             `gorm:"default:0" json:"quantity_sold"`
	TotalRevenue   decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"total_revenue"`
	TotalProfit    decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"total_profit"`

	Status      string `gorm:"type:varchar(10);not null;default:'open';index" json:"status"`
	Disposition string `gorm:"type:varchar(10)" json:"disposition,omitempty"`
	Notes       string `gorm:"type:text" json:"notes,omitempty"`

	InputByUserID uuid.UUID `gorm:"type:uuid;not null" json:"input_by_user_id"`
	InputByUser   *User     `gorm:"foreignKey:InputByUserID" json:"input_by_user,omitempty"`
}

func (ConsignmentItem) TableName() string {
	return "consignment_items"
}

// DeriveSellingPrice computes base_price + base_price * markup / 100.
// Pure computation, called by the write path; nothing derives prices on save.
func DeriveSellingPrice(basePrice decimal.Decimal, markupPercent int) decimal.Decimal {
	markup := basePrice.Mul(decimal.NewFromInt(int64(markupPercent))).Div(decimal.NewFromInt(100))
	return basePrice.Add(markup)
}

// PartnerDisplayName prefers the linked partner, falling back to the
// manually entered supplier name.
func (i *ConsignmentItem) PartnerDisplayName() string {
	if i.Partner != nil && i.Partner.Name != "" {
		return i.Partner.Name
	}
	return i.ManualPartnerName
}
