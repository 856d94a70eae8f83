package repository

import (
	"context"
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type ProfileRepository struct {
	DB *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{DB: db}
}

func (r *ProfileRepository) FindByUserID(ctx context.Context, userID uint) (*model.ProfileSettings, error) {
	var settings model.ProfileSettings
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).First(&settings).Error
	return &settings, err
}

// SaveWithUser 在同一事务中保存用户资料和设置
func (r *ProfileRepository) SaveWithUser(ctx context.Context, user *model.User, settings *model.ProfileSettings) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(user).Updates(map[string]interface{}{
			"username": user.Username,
			"bio":      user.Bio,
		}).Error; err != nil {
			return err
		}
		// Save 对零值 bool 同样写入
		return tx.Save(settings).Error
	})
}
