package repository

import (
	"time"

	"go-consign-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BoxOrderRepository interface {
	Create(order *model.BoxOrder) error
	Update(order *model.BoxOrder) error
	FindByID(id uuid.UUID) (*model.BoxOrder, error)
	FindToday(now time.Time) ([]model.BoxOrder, error)
	FindUpcoming(now time.Time) ([]model.BoxOrder, error)
	FindPaidBetween(start, end time.Time) ([]model.BoxOrder, error)
}

type boxOrderRepo struct {
	db *gorm.DB
}

func NewBoxOrderRepo(db *gorm.DB) BoxOrderRepository {
	return &boxOrderRepo{db}
}

// Create persists the order header and its items in one insert
func (r *boxOrderRepo) Create(order *model.BoxOrder) error {
	return r.db.Create(order).Error
}

func (r *boxOrderRepo) Update(order *model.BoxOrder) error {
	return r.db.Save(order).Error
}

func (r *boxOrderRepo) FindByID(id uuid.UUID) (*model.BoxOrder, error) {
	var order model.BoxOrder
	if err := r.db.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// FindToday returns orders picked up today plus any order already paid or
// completed, excluding cancelled ones
func (r *boxOrderRepo) FindToday(now time.Time) ([]model.BoxOrder, error) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	var orders []model.BoxOrder
	err := r.db.Preload("Items").
		Where(
			r.db.Where("pickup_at >= ? AND pickup_at < ?", dayStart, dayEnd).
				Or("status IN ?", []string{model.BoxOrderPaid, model.BoxOrderCompleted}),
		).
		Where("status != ?", model.BoxOrderCancelled).
		Order("pickup_at ASC").
		Find(&orders).Error
	return orders, err
}

func (r *boxOrderRepo) FindUpcoming(now time.Time) ([]model.BoxOrder, error) {
	var orders []model.BoxOrder
	err := r.db.Preload("Items").
		Where("pickup_at > ? AND status = ?", now, model.BoxOrderPending).
		Order("pickup_at ASC").
		Find(&orders).Error
	return orders, err
}

func (r *boxOrderRepo) FindPaidBetween(start, end time.Time) ([]model.BoxOrder, error) {
	var orders []model.BoxOrder
	err := r.db.
		Where("status IN ? AND created_at BETWEEN ? AND ?",
			[]string{model.BoxOrderPaid, model.BoxOrderCompleted}, start, end).
		Order("created_at ASC").
		Find(&orders).Error
	return orders, err
}
