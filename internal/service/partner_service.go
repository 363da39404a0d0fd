package service

import (
	"errors"
	"fmt"

	"go-consign-pos/internal/model"
	"go-consign-pos/internal/repository"
	"go-consign-pos/pkg/validator"

	"github.com/google/uuid"
)

var ErrPartnerNameExists = errors.New("partner with this name already exists")

type PartnerService interface {
	CreatePartner(req *PartnerRequest, operatorID string) (*model.Partner, error)
	UpdatePartner(id uuid.UUID, req *PartnerRequest, operatorID string) (*model.Partner, error)
	DeletePartner(id uuid.UUID, operatorID string) error
	GetPartner(id uuid.UUID) (*model.Partner, error)
	ListPartners(activeOnly bool) ([]model.Partner, error)
}

type PartnerRequest struct {
	Name        string `json:"name" validate:"required"`
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address"`
	IsActive    *bool  `json:"is_active"`
}

type partnerService struct {
	partnerRepo repository.PartnerRepository
}

func NewPartnerService(partnerRepo repository.PartnerRepository) PartnerService {
	return &partnerService{partnerRepo: partnerRepo}
}

func (s *partnerService) CreatePartner(req *PartnerRequest, operatorID string) (*model.Partner, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	existing, _ := s.partnerRepo.FindByName(req.Name)
	if existing != nil {
		return nil, ErrPartnerNameExists
	}

	partner := &model.Partner{
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
		Address:     req.Address,
		IsActive:    true,
	}
	if req.IsActive != nil {
		partner.IsActive = *req.IsActive
	}
	partner.CreatedBy = operatorID
	partner.UpdatedBy = operatorID

	if err := s.partnerRepo.Create(partner); err != nil {
		return nil, err
	}
	return partner, nil
}

func (s *partnerService) UpdatePartner(id uuid.UUID, req *PartnerRequest, operatorID string) (*model.Partner, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	partner, err := s.partnerRepo.FindByID(id)
	if err != nil {
		return nil, ErrPartnerNotFound
	}

	if req.Name != partner.Name {
		existing, _ := s.partnerRepo.FindByName(req.Name)
		if existing != nil {
			return nil, ErrPartnerNameExists
		}
	}

	partner.Name = req.Name
	partner.PhoneNumber = req.PhoneNumber
	partner.Address = req.Address
	if req.IsActive != nil {
		partner.IsActive = *req.IsActive
	}
	partner.UpdatedBy = operatorID

	if err := s.partnerRepo.Update(partner); err != nil {
		return nil, err
	}
	return partner, nil
}

func (s *partnerService) DeletePartner(id uuid.UUID, operatorID string) error {
	if _, err := s.partnerRepo.FindByID(id); err != nil {
		return ErrPartnerNotFound
	}
	return s.partnerRepo.Delete(id, operatorID)
}

func (s *partnerService) GetPartner(id uuid.UUID) (*model.Partner, error) {
	partner, err := s.partnerRepo.FindByID(id)
	if err != nil {
		return nil, ErrPartnerNotFound
	}
	return partner, nil
}

func (s *partnerService) ListPartners(activeOnly bool) ([]model.Partner, error) {
	if activeOnly {
		return s.partnerRepo.FindActive()
	}
	return s.partnerRepo.FindAll()
}
