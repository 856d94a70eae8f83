package repository

import (
	"context"
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type PerformanceRepository struct {
	DB *gorm.DB
}

func NewPerformanceRepository(db *gorm.DB) *PerformanceRepository {
	return &PerformanceRepository{DB: db}
}

func (r *PerformanceRepository) ListByUser(ctx context.Context, userID uint) ([]model.Performance, error) {
	var records []model.Performance
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("unit_id ASC").
		Find(&records).Error
	return records, err
}
