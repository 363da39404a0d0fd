package repository

import (
	"go-consign-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PartnerRepository interface {
	Create(partner *model.Partner) error
	Update(partner *model.Partner) error
	Delete(id uuid.UUID, deletedBy string) error
	FindByID(id uuid.UUID) (*model.Partner, error)
	FindByName(name string) (*model.Partner, error)
	FindAll() ([]model.Partner, error)
	FindActive() ([]model.Partner, error)
}

type partnerRepo struct {
	db *gorm.DB
}

func NewPartnerRepo(db *gorm.DB) PartnerRepository {
	return &partnerRepo{db}
}

func (r *partnerRepo) Create(partner *model.Partner) error {
	return r.db.Create(partner).Error
}

func (r *partnerRepo) Update(partner *model.Partner) error {
	return r.db.Save(partner).Error
}

func (r *partnerRepo) Delete(id uuid.UUID, deletedBy string) error {
	return r.db.Model(&model.Partner{}).Where("id = ?", id).Updates(map[string]interface{}{
		"deleted_at": gorm.Expr("CURRENT_TIMESTAMP"),
		"deleted_by": deletedBy,
	}).Error
}

func (r *partnerRepo) FindByID(id uuid.UUID) (*model.Partner, error) {
	var partner model.Partner
	if err := r.db.First(&partner, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &partner, nil
}

func (r *partnerRepo) FindByName(name string) (*model.Partner, error) {
	var partner model.Partner
	if err := r.db.First(&partner, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &partner, nil
}

func (r *partnerRepo) FindAll() ([]model.Partner, error) {
	var partners []model.Partner
	err := r.db.Order("name ASC").Find(&partners).Error
	return partners, err
}

func (r *partnerRepo) FindActive() ([]model.Partner, error) {
	var partners []model.Partner
	err := r.db.Where("is_active = ?", true).Order("name ASC").Find(&partners).Error
	return partners, err
}
