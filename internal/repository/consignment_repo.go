package repository

import (
	"time"

	"go-consign-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ConsignmentRepository interface {
	Create(item *model.ConsignmentItem) error
	FindByID(id uuid.UUID) (*model.ConsignmentItem, error)
	FindBySession(sessionID uuid.UUID) ([]model.ConsignmentItem, error)
	FindOpenBySession(sessionID uuid.UUID) ([]model.ConsignmentItem, error)
	FindByDateRange(start, end time.Time) ([]model.ConsignmentItem, error)
	// CloseItem runs inside the reconciliation transaction
	CloseItem(tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
}

type consignmentRepo struct {
	db *gorm.DB
}

func NewConsignmentRepo(db *gorm.DB) ConsignmentRepository {
	return &consignmentRepo{db}
}

func (r *consignmentRepo) Create(item *model.ConsignmentItem) error {
	return r.db.Create(item).Error
}

func (r *consignmentRepo) FindByID(id uuid.UUID) (*model.ConsignmentItem, error) {
	var item model.ConsignmentItem
	if err := r.db.Preload("Partner").First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *consignmentRepo) FindBySession(sessionID uuid.UUID) ([]model.ConsignmentItem, error) {
	var items []model.ConsignmentItem
	err := r.db.Preload("Partner").
		Where("shop_session_id = ?", sessionID).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

func (r *consignmentRepo) FindOpenBySession(sessionID uuid.UUID) ([]model.ConsignmentItem, error) {
	var items []model.ConsignmentItem
	err := r.db.Preload("Partner").
		Where("shop_session_id = ? AND status = ?", sessionID, model.ItemStatusOpen).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

func (r *consignmentRepo) FindByDateRange(start, end time.Time) ([]model.ConsignmentItem, error) {
	var items []model.ConsignmentItem
	err := r.db.Preload("Partner").
		Where("date BETWEEN ? AND ?", start, end).
		Order("date ASC").
		Find(&items).Error
	return items, err
}

func (r *consignmentRepo) CloseItem(tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	return tx.Model(&model.ConsignmentItem{}).
		Where("id = ?", id).
		Updates(updates).Error
}
