package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Box order states. pending -> paid -> completed, with cancellation
// allowed from any non-completed state.
const (
	BoxOrderPending   = "pending"
	BoxOrderPaid      = "paid"
	BoxOrderCompleted = "completed"
	BoxOrderCancelled = "cancelled"
)

// BoxOrderStatuses lists every valid state, used for input validation.
var BoxOrderStatuses = []string{BoxOrderPending, BoxOrderPaid, BoxOrderCompleted, BoxOrderCancelled}

// BoxOrder is a pre-order for gift boxes with a scheduled pickup and a
// payment-proof upload. Separate from the daily consignment flow.
type BoxOrder struct {
	BaseModel
	CustomerName string          `gorm:"type:varchar(255);not null" json:"customer_name" validate:"required"`
	Quantity     int             `gorm:"not null;default:1" json:"quantity" validate:"gt=0"`
	TotalPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_price"`
	PickupAt     time.Time       `gorm:"not null;index" json:"pickup_at"`
	Status       string          `gorm:"type:varchar(10);not null;default:'pending';index" json:"status"`

	// Relative path of the uploaded payment proof, empty until uploaded.
	PaymentProof       string `gorm:"type:varchar(255)" json:"payment_proof,omitempty"`
	CancellationReason string `gorm:"type:text" json:"cancellation_reason,omitempty"`

	Items []BoxOrderItem `gorm:"foreignKey:BoxOrderID" json:"items,omitempty"`
}

func (BoxOrder) TableName() string {
	return "box_orders"
}

// BoxOrderItem is one line inside a box order.
type BoxOrderItem struct {
	BaseModel
	BoxOrderID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"box_order_id"`
	ProductName string          `gorm:"type:varchar(255);not null" json:"product_name" validate:"required"`
	Quantity    int             `gorm:"not null" json:"quantity" validate:"gt=0"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
}

func (BoxOrderItem) TableName() string {
	return "box_order_items"
}

// Subtotal is quantity * unit price. Computed on demand; never stored.
func (i *BoxOrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
