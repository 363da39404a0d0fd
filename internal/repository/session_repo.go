package repository

import (
	"time"

	"go-consign-pos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SessionRepository interface {
	// Create accepts a tx so the single-open-session check and the insert
	// share one transaction
	Create(tx *gorm.DB, session *model.ShopSession) error
	FindByID(id uuid.UUID) (*model.ShopSession, error)
	FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.ShopSession, error)
	FindOpenByUserID(userID uuid.UUID) (*model.ShopSession, error)
	HasOpenSession(tx *gorm.DB, userID uuid.UUID) (bool, error)
	Close(tx *gorm.DB, id uuid.UUID, actualCash decimal.Decimal, closedAt time.Time, notes, updatedBy string) error
	FindAll() ([]model.ShopSession, error)
	FindClosedBetween(start, end time.Time) ([]model.ShopSession, error)
}

type sessionRepo struct {
	db *gorm.DB
}

func NewSessionRepo(db *gorm.DB) SessionRepository {
	return &sessionRepo{db}
}

func (r *sessionRepo) Create(tx *gorm.DB, session *model.ShopSession) error {
	return tx.Create(session).Error
}

func (r *sessionRepo) FindByID(id uuid.UUID) (*model.ShopSession, error) {
	var session model.ShopSession
	if err := r.db.Preload("User").First(&session, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

// FindByIDForUpdate locks the session row for the duration of the caller's
// transaction so concurrent closers are serialized
func (r *sessionRepo) FindByIDForUpdate(tx *gorm.DB, id uuid.UUID) (*model.ShopSession, error) {
	var session model.ShopSession
	if err := tx.Set("gorm:query_option", "FOR UPDATE").First(&session, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepo) FindOpenByUserID(userID uuid.UUID) (*model.ShopSession, error) {
	var session model.ShopSession
	err := r.db.Preload("User").
		Where("user_id = ? AND status = ?", userID, model.SessionStatusOpen).
		First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepo) HasOpenSession(tx *gorm.DB, userID uuid.UUID) (bool, error) {
	var count int64
	err := tx.Model(&model.ShopSession{}).
		Where("user_id = ? AND status = ?", userID, model.SessionStatusOpen).
		Count(&count).Error
	return count > 0, err
}

func (r *sessionRepo) Close(tx *gorm.DB, id uuid.UUID, actualCash decimal.Decimal, closedAt time.Time, notes, updatedBy string) error {
	return tx.Model(&model.ShopSession{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"actual_cash": actualCash,
			"closed_at":   closedAt,
			"status":      model.SessionStatusClosed,
			"notes":       notes,
			"updated_by":  updatedBy,
		}).Error
}

func (r *sessionRepo) FindAll() ([]model.ShopSession, error) {
	var sessions []model.ShopSession
	err := r.db.Preload("User").Order("started_at DESC").Find(&sessions).Error
	return sessions, err
}

func (r *sessionRepo) FindClosedBetween(start, end time.Time) ([]model.ShopSession, error) {
	var sessions []model.ShopSession
	err := r.db.Preload("Items").
		Where("status = ? AND started_at BETWEEN ? AND ?", model.SessionStatusClosed, start, end).
		Order("started_at ASC").
		Find(&sessions).Error
	return sessions, err
}
