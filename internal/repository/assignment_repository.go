package repository

import (
	"context"
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type AssignmentRepository struct {
	DB *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) *AssignmentRepository {
	return &AssignmentRepository{DB: db}
}

func (r *AssignmentRepository) Create(ctx context.Context, a *model.Assignment) error {
	return r.DB.WithContext(ctx).Create(a).Error
}

func (r *AssignmentRepository) FindByID(ctx context.Context, id uint) (*model.Assignment, error) {
	var a model.Assignment
	err := r.DB.WithContext(ctx).Preload("Unit").First(&a, id).Error
	return &a, err
}

func (r *AssignmentRepository) ListByUnit(ctx context.Context, unitID uint) ([]model.Assignment, error) {
	var assignments []model.Assignment
	err := r.DB.WithContext(ctx).
		Where("unit_id = ?", unitID).
		Order("due_date IS NULL").
		Order("due_date ASC").
		Order("id ASC").
		Find(&assignments).Error
	return assignments, err
}
