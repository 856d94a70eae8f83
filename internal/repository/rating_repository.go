package repository

import (
	"context"
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type RatingRepository struct {
	DB *gorm.DB
}

func NewRatingRepository(db *gorm.DB) *RatingRepository {
	return &RatingRepository{DB: db}
}

func (r *RatingRepository) Create(ctx context.Context, rating *model.Rating) error {
	return r.DB.WithContext(ctx).Create(rating).Error
}
