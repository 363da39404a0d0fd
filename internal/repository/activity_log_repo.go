package repository

import (
	"go-consign-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ActivityLogRepository is append-only; the audit trail is never rewritten.
type ActivityLogRepository interface {
	Append(entry *model.ActivityLog) error
	FindRecent(limit int) ([]model.ActivityLog, error)
	FindBySubject(subjectType string, subjectID uuid.UUID) ([]model.ActivityLog, error)
}

type activityLogRepo struct {
	db *gorm.DB
}

func NewActivityLogRepo(db *gorm.DB) ActivityLogRepository {
	return &activityLogRepo{db}
}

func (r *activityLogRepo) Append(entry *model.ActivityLog) error {
	return r.db.Create(entry).Error
}

func (r *activityLogRepo) FindRecent(limit int) ([]model.ActivityLog, error) {
	var entries []model.ActivityLog
	err := r.db.Order("created_at DESC").Limit(limit).Find(&entries).Error
	return entries, err
}

func (r *activityLogRepo) FindBySubject(subjectType string, subjectID uuid.UUID) ([]model.ActivityLog, error) {
	var entries []model.ActivityLog
	err := r.db.
		Where("subject_type = ? AND subject_id = ?", subjectType, subjectID).
		Order("created_at ASC").
		Find(&entries).Error
	return entries, err
}
