package repository

import (
	"context"
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type SubmissionRepository struct {
	DB *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{DB: db}
}

func (r *SubmissionRepository) Create(ctx context.Context, s *model.Submission) error {
	return r.DB.WithContext(ctx).Create(s).Error
}

func (r *SubmissionRepository) FindByID(ctx context.Context, id uint) (*model.Submission, error) {
	var s model.Submission
	err := r.DB.WithContext(ctx).
		Preload("Assignment.Unit").
		Preload("Student").
		First(&s, id).Error
	return &s, err
}

func (r *SubmissionRepository) SaveGrade(ctx context.Context, s *model.Submission) error {
	return r.DB.WithContext(ctx).Model(s).
		Select("grade", "feedback", "graded_at").
		Updates(map[string]interface{}{
			"grade":     s.Grade,
			"feedback":  s.Feedback,
			"graded_at": s.GradedAt,
		}).Error
}

// ListByUnit 单元下所有作业的提交，最新在前
func (r *SubmissionRepository) ListByUnit(ctx context.Context, unitID uint) ([]model.Submission, error) {
	var submissions []model.Submission
	err := r.DB.WithContext(ctx).
		Joins("JOIN assignments ON assignments.id = submissions.assignment_id AND assignments.deleted_at IS NULL").
		Where("assignments.unit_id = ?", unitID).
		Preload("Assignment").
		Preload("Student").
		Order("submissions.submitted_at DESC").
		Order("submissions.id DESC").
		Find(&submissions).Error
	return submissions, err
}

func (r *SubmissionRepository) ListByStudent(ctx context.Context, studentID uint) ([]model.Submission, error) {
	var submissions []model.Submission
	err := r.DB.WithContext(ctx).
		Where("student_id = ?", studentID).
		Preload("Assignment.Unit").
		Order("submitted_at DESC").
		Order("id DESC").
		Find(&submissions).Error
	return submissions, err
}

// SubmittedAssignmentIDs 学生在单元中已提交过的作业
func (r *SubmissionRepository) SubmittedAssignmentIDs(ctx context.Context, studentID, unitID uint) ([]uint, error) {
	var ids []uint
	err := r.DB.WithContext(ctx).Model(&model.Submission{}).
		Joins("JOIN assignments ON assignments.id = submissions.assignment_id").
		Where("submissions.student_id = ? AND assignments.unit_id = ?", studentID, unitID).
		Distinct().
		Pluck("submissions.assignment_id", &ids).Error
	return ids, err
}
