package service

import (
	"os"
	"testing"
	"time"

	"go-consign-pos/internal/audit"
	"go-consign-pos/internal/model"
	"go-consign-pos/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newBoxOrderService(t *testing.T, db *gorm.DB) BoxOrderService {
	t.Helper()

	recorder := audit.NewRecorder(repository.NewActivityLogRepo(db), nil)
	return NewBoxOrderService(repository.NewBoxOrderRepo(db), recorder, t.TempDir())
}

func TestCreateBoxOrder(t *testing.T) {
	db := setupTestDB(t)
	svc := newBoxOrderService(t, db)
	operator := uuid.New().String()

	t.Run("computes total from line items", func(t *testing.T) {
		order, err := svc.CreateOrder(&CreateBoxOrderRequest{
			CustomerName: "Ibu Rina",
			Quantity:     2,
			PickupAt:     time.Now().Add(48 * time.Hour),
			Items: []CreateBoxOrderItem{
				{ProductName: "Risol Mayo", Quantity: 10, UnitPrice: dec("1500")},
				{ProductName: "Lemper", Quantity: 5, UnitPrice: dec("2000")},
			},
		}, operator)
		require.NoError(t, err)

		assert.Equal(t, model.BoxOrderPending, order.Status)
		// 10*1500 + 5*2000
		assert.True(t, order.TotalPrice.Equal(dec("25000")), "total: %s", order.TotalPrice)
		assert.Len(t, order.Items, 2)
	})

	t.Run("rejects empty items", func(t *testing.T) {
		_, err := svc.CreateOrder(&CreateBoxOrderRequest{
			CustomerName: "Ibu Rina",
			Quantity:     1,
			PickupAt:     time.Now().Add(24 * time.Hour),
		}, operator)
		assert.Error(t, err)
	})

	t.Run("rejects negative unit price", func(t *testing.T) {
		_, err := svc.CreateOrder(&CreateBoxOrderRequest{
			CustomerName: "Ibu Rina",
			Quantity:     1,
			PickupAt:     time.Now().Add(24 * time.Hour),
			Items: []CreateBoxOrderItem{
				{ProductName: "Risol", Quantity: 1, UnitPrice: dec("-10")},
			},
		}, operator)
		assert.ErrorIs(t, err, ErrNegativePrice)
	})
}

func TestBoxOrderStatusFlow(t *testing.T) {
	db := setupTestDB(t)
	svc := newBoxOrderService(t, db)
	operator := uuid.New().String()

	order, err := svc.CreateOrder(&CreateBoxOrderRequest{
		CustomerName: "Pak Budi",
		Quantity:     1,
		PickupAt:     time.Now().Add(24 * time.Hour),
		Items: []CreateBoxOrderItem{
			{ProductName: "Nasi Box", Quantity: 20, UnitPrice: dec("25000")},
		},
	}, operator)
	require.NoError(t, err)

	t.Run("cannot complete a pending order", func(t *testing.T) {
		_, err := svc.UpdateStatus(order.ID, model.BoxOrderCompleted, operator)
		assert.ErrorIs(t, err, ErrInvalidOrderStatus)
	})

	t.Run("pending to paid to completed", func(t *testing.T) {
		updated, err := svc.UpdateStatus(order.ID, model.BoxOrderPaid, operator)
		require.NoError(t, err)
		assert.Equal(t, model.BoxOrderPaid, updated.Status)

		updated, err = svc.UpdateStatus(order.ID, model.BoxOrderCompleted, operator)
		require.NoError(t, err)
		assert.Equal(t, model.BoxOrderCompleted, updated.Status)
	})

	t.Run("completed order cannot be cancelled", func(t *testing.T) {
		_, err := svc.CancelWithReason(order.ID, "customer no-show", operator)
		assert.ErrorIs(t, err, ErrCompletedOrderCancel)
	})

	t.Run("cancel requires a reason", func(t *testing.T) {
		other, err := svc.CreateOrder(&CreateBoxOrderRequest{
			CustomerName: "Ibu Sari",
			Quantity:     1,
			PickupAt:     time.Now().Add(24 * time.Hour),
			Items: []CreateBoxOrderItem{
				{ProductName: "Snack Box", Quantity: 5, UnitPrice: dec("15000")},
			},
		}, operator)
		require.NoError(t, err)

		_, err = svc.CancelWithReason(other.ID, "", operator)
		assert.ErrorIs(t, err, ErrCancelReasonRequired)

		cancelled, err := svc.CancelWithReason(other.ID, "customer cancelled by phone", operator)
		require.NoError(t, err)
		assert.Equal(t, model.BoxOrderCancelled, cancelled.Status)
		assert.Equal(t, "customer cancelled by phone", cancelled.CancellationReason)

		// cancelled stays cancelled
		_, err = svc.UpdateStatus(other.ID, model.BoxOrderPaid, operator)
		assert.ErrorIs(t, err, ErrOrderAlreadyCancelled)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		_, err := svc.UpdateStatus(order.ID, "shipped", operator)
		assert.ErrorIs(t, err, ErrInvalidOrderStatus)
	})

	t.Run("cancelled is a known status but not settable here", func(t *testing.T) {
		_, err := svc.UpdateStatus(order.ID, model.BoxOrderCancelled, operator)
		assert.ErrorIs(t, err, ErrInvalidOrderStatus)
	})
}

func TestBoxOrderQueries(t *testing.T) {
	db := setupTestDB(t)
	svc := newBoxOrderService(t, db)
	operator := uuid.New().String()

	today, err := svc.CreateOrder(&CreateBoxOrderRequest{
		CustomerName: "Hari Ini",
		Quantity:     1,
		PickupAt:     time.Now().Add(time.Hour),
		Items:        []CreateBoxOrderItem{{ProductName: "Box A", Quantity: 1, UnitPrice: dec("10000")}},
	}, operator)
	require.NoError(t, err)

	upcoming, err := svc.CreateOrder(&CreateBoxOrderRequest{
		CustomerName: "Minggu Depan",
		Quantity:     1,
		PickupAt:     time.Now().AddDate(0, 0, 7),
		Items:        []CreateBoxOrderItem{{ProductName: "Box B", Quantity: 1, UnitPrice: dec("10000")}},
	}, operator)
	require.NoError(t, err)

	todayOrders, err := svc.TodayOrders()
	require.NoError(t, err)
	todayIDs := orderIDs(todayOrders)
	assert.Contains(t, todayIDs, today.ID)
	assert.NotContains(t, todayIDs, upcoming.ID)

	upcomingOrders, err := svc.UpcomingOrders()
	require.NoError(t, err)
	assert.Contains(t, orderIDs(upcomingOrders), upcoming.ID)
}

func TestBoxOrderPaymentProofAndReceipt(t *testing.T) {
	db := setupTestDB(t)
	svc := newBoxOrderService(t, db)
	operator := uuid.New().String()

	order, err := svc.CreateOrder(&CreateBoxOrderRequest{
		CustomerName: "Ibu Rina",
		Quantity:     1,
		PickupAt:     time.Now().Add(24 * time.Hour),
		Items:        []CreateBoxOrderItem{{ProductName: "Box A", Quantity: 2, UnitPrice: dec("50000")}},
	}, operator)
	require.NoError(t, err)

	updated, err := svc.AttachPaymentProof(order.ID, "proof_abc.jpg", operator)
	require.NoError(t, err)
	assert.Equal(t, "proof_abc.jpg", updated.PaymentProof)

	path, err := svc.GenerateReceipt(order.ID)
	require.NoError(t, err)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	_, err = svc.GenerateReceipt(uuid.New())
	assert.ErrorIs(t, err, ErrBoxOrderNotFound)
}

func orderIDs(orders []model.BoxOrder) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(orders))
	for i := range orders {
		ids = append(ids, orders[i].ID)
	}
	return ids
}
