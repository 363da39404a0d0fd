package service

import (
	"errors"
	"fmt"
	"time"

	"go-consign-pos/internal/audit"
	"go-consign-pos/internal/model"
	"go-consign-pos/internal/repository"
	"go-consign-pos/pkg/pdfgen"
	"go-consign-pos/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrBoxOrderNotFound      = errors.New("box order not found")
	ErrInvalidOrderStatus    = errors.New("invalid box order status")
	ErrOrderAlreadyCancelled = errors.New("box order is already cancelled")
	ErrCompletedOrderCancel  = errors.New("completed box order cannot be cancelled")
	ErrCancelReasonRequired  = errors.New("cancellation reason is required")
)

type BoxOrderService interface {
	CreateOrder(req *CreateBoxOrderRequest, operatorID string) (*model.BoxOrder, error)
	GetOrder(id uuid.UUID) (*model.BoxOrder, error)
	TodayOrders() ([]model.BoxOrder, error)
	UpcomingOrders() ([]model.BoxOrder, error)
	UpdateStatus(id uuid.UUID, status string, operatorID string) (*model.BoxOrder, error)
	CancelWithReason(id uuid.UUID, reason string, operatorID string) (*model.BoxOrder, error)
	AttachPaymentProof(id uuid.UUID, proofPath string, operatorID string) (*model.BoxOrder, error)
	GenerateReceipt(id uuid.UUID) (string, error)
}

type CreateBoxOrderItem struct {
	ProductName string          `json:"product_name" validate:"required"`
	Quantity    int             `json:"quantity" validate:"gt=0"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

type CreateBoxOrderRequest struct {
	CustomerName string               `json:"customer_name" validate:"required"`
	Quantity     int                  `json:"quantity" validate:"gt=0"`
	PickupAt     time.Time            `json:"pickup_at" validate:"required"`
	Items        []CreateBoxOrderItem `json:"items" validate:"required,min=1,dive"`
}

type boxOrderService struct {
	orderRepo   repository.BoxOrderRepository
	recorder    audit.Recorder
	storagePath string
}

func NewBoxOrderService(orderRepo repository.BoxOrderRepository, recorder audit.Recorder, storagePath string) BoxOrderService {
	return &boxOrderService{
		orderRepo:   orderRepo,
		recorder:    recorder,
		storagePath: storagePath,
	}
}

// CreateOrder registers a box pre-order. The total price is always the sum
// of line subtotals, never taken from the client.
func (s *boxOrderService) CreateOrder(req *CreateBoxOrderRequest, operatorID string) (*model.BoxOrder, error) {
	// 1. Struct validation
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	total := decimal.Zero
	items := make([]model.BoxOrderItem, 0, len(req.Items))
	for _, line := range req.Items {
		if line.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("%w: unit price for %q", ErrNegativePrice, line.ProductName)
		}
		item := model.BoxOrderItem{
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
		}
		item.CreatedBy = operatorID
		item.UpdatedBy = operatorID
		total = total.Add(item.Subtotal())
		items = append(items, item)
	}

	order := &model.BoxOrder{
		CustomerName: req.CustomerName,
		Quantity:     req.Quantity,
		TotalPrice:   total,
		PickupAt:     req.PickupAt,
		Status:       model.BoxOrderPending,
		Items:        items,
	}
	order.CreatedBy = operatorID
	order.UpdatedBy = operatorID

	if err := s.orderRepo.Create(order); err != nil {
		return nil, err
	}

	go s.recorder.Record("Box Order Created", "box_order", order.ID, operatorID, map[string]interface{}{
		"customer_name": order.CustomerName,
		"total_price":   order.TotalPrice,
	})

	return order, nil
}

func (s *boxOrderService) GetOrder(id uuid.UUID) (*model.BoxOrder, error) {
	order, err := s.orderRepo.FindByID(id)
	if err != nil {
		return nil, ErrBoxOrderNotFound
	}
	return order, nil
}

func (s *boxOrderService) TodayOrders() ([]model.BoxOrder, error) {
	return s.orderRepo.FindToday(time.Now())
}

func (s *boxOrderService) UpcomingOrders() ([]model.BoxOrder, error) {
	return s.orderRepo.FindUpcoming(time.Now())
}

// UpdateStatus moves an order along pending -> paid -> completed.
// Cancellation goes through CancelWithReason, not here.
func (s *boxOrderService) UpdateStatus(id uuid.UUID, status string, operatorID string) (*model.BoxOrder, error) {
	known := false
	for _, valid := range model.BoxOrderStatuses {
		if status == valid {
			known = true
			break
		}
	}
	if !known {
		return nil, fmt.Errorf("%w: %q", ErrInvalidOrderStatus, status)
	}
	if status != model.BoxOrderPaid && status != model.BoxOrderCompleted {
		return nil, fmt.Errorf("%w: %q cannot be set directly", ErrInvalidOrderStatus, status)
	}

	order, err := s.orderRepo.FindByID(id)
	if err != nil {
		return nil, ErrBoxOrderNotFound
	}
	if order.Status == model.BoxOrderCancelled {
		return nil, ErrOrderAlreadyCancelled
	}
	// paid requires pending, completed requires paid
	if status == model.BoxOrderPaid && order.Status != model.BoxOrderPending {
		return nil, fmt.Errorf("%w: cannot mark %s order as paid", ErrInvalidOrderStatus, order.Status)
	}
	if status == model.BoxOrderCompleted && order.Status != model.BoxOrderPaid {
		return nil, fmt.Errorf("%w: cannot complete %s order", ErrInvalidOrderStatus, order.Status)
	}

	order.Status = status
	order.UpdatedBy = operatorID
	if err := s.orderRepo.Update(order); err != nil {
		return nil, err
	}

	go s.recorder.Record("Box Order Status Changed", "box_order", order.ID, operatorID, map[string]interface{}{
		"status": status,
	})

	return order, nil
}

func (s *boxOrderService) CancelWithReason(id uuid.UUID, reason string, operatorID string) (*model.BoxOrder, error) {
	if reason == "" {
		return nil, ErrCancelReasonRequired
	}

	order, err := s.orderRepo.FindByID(id)
	if err != nil {
		return nil, ErrBoxOrderNotFound
	}
	if order.Status == model.BoxOrderCancelled {
		return nil, ErrOrderAlreadyCancelled
	}
	if order.Status == model.BoxOrderCompleted {
		return nil, ErrCompletedOrderCancel
	}

	order.Status = model.BoxOrderCancelled
	order.CancellationReason = reason
	order.UpdatedBy = operatorID
	if err := s.orderRepo.Update(order); err != nil {
		return nil, err
	}

	go s.recorder.Record("Box Order Cancelled", "box_order", order.ID, operatorID, map[string]interface{}{
		"reason": reason,
	})

	return order, nil
}

func (s *boxOrderService) AttachPaymentProof(id uuid.UUID, proofPath string, operatorID string) (*model.BoxOrder, error) {
	order, err := s.orderRepo.FindByID(id)
	if err != nil {
		return nil, ErrBoxOrderNotFound
	}
	if order.Status == model.BoxOrderCancelled {
		return nil, ErrOrderAlreadyCancelled
	}

	order.PaymentProof = proofPath
	order.UpdatedBy = operatorID
	if err := s.orderRepo.Update(order); err != nil {
		return nil, err
	}
	return order, nil
}

func (s *boxOrderService) GenerateReceipt(id uuid.UUID) (string, error) {
	order, err := s.orderRepo.FindByID(id)
	if err != nil {
		return "", ErrBoxOrderNotFound
	}
	return pdfgen.GenerateBoxOrderReceipt(order, s.storagePath)
}
