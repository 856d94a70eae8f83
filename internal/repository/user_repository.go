package repository

import (
	"context"
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

// TeacherSummary 首页推荐教师
type TeacherSummary struct {
	ID             uint   `json:"id"`
	Username       string `json:"name"`
	Bio            string `json:"bio"`
	Qualifications string `json:"qualifications"`
	TotalUnits     int64  `json:"total_units"`
	TotalStudents  int64  `json:"total_students"`
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	return r.DB.WithContext(ctx).Create(user).Error
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).First(&user, id).Error
	return &user, err
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error
	return &user, err
}

func (r *UserRepository) FindTeacher(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).
		Where("id = ? AND role = ?", id, model.Teacher).
		First(&user).Error
	return &user, err
}

func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) Update(ctx context.Context, user *model.User) error {
	return r.DB.WithContext(ctx).Save(user).Error
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id uint, hash string) error {
	return r.DB.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Update("password", hash).Error
}

// FeaturedTeachers 按开设单元数排序的教师，没有单元的教师不参与排序
func (r *UserRepository) FeaturedTeachers(ctx context.Context, limit int) ([]TeacherSummary, error) {
	var teachers []TeacherSummary
	err := r.DB.WithContext(ctx).Model(&model.User{}).
		Select("users.id, users.username, users.bio, users.qualifications, "+
			"COUNT(DISTINCT units.id) AS total_units, COUNT(enrollments.id) AS total_students").
		Joins("JOIN units ON units.teacher_id = users.id AND units.deleted_at IS NULL").
		Joins("LEFT JOIN enrollments ON enrollments.unit_id = units.id").
		Where("users.role = ?", model.Teacher).
		Group("users.id, users.username, users.bio, users.qualifications").
		Order("total_units DESC").
		Order("users.id ASC").
		Limit(limit).
		Scan(&teachers).Error
	return teachers, err
}
