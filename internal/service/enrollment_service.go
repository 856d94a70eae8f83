package service

import (
	"context"
	"errors"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"lms_backend/pkg/coursework"
	"lms_backend/pkg/monitoring"
	"time"

	"gorm.io/gorm"
)

type EnrollmentService struct {
	EnrollmentRepo *repository.EnrollmentRepository
	UnitRepo       *repository.UnitRepository
	Cache          ListingCache
}

func NewEnrollmentService(enrollmentRepo *repository.EnrollmentRepository, unitRepo *repository.UnitRepository, cache ListingCache) *EnrollmentService {
	return &EnrollmentService{
		EnrollmentRepo: enrollmentRepo,
		UnitRepo:       unitRepo,
		Cache:          cache,
	}
}

type EnrollInput struct {
	UnitID uint `json:"unit_id" binding:"required"`
}

// ProgressInput progress 必须是整数，使用浮点接收后再校验
type ProgressInput struct {
	Progress *float64 `json:"progress"`
}

type EnrolledUnit struct {
	ID             uint      `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Category       string    `json:"category"`
	Teacher        string    `json:"teacher"`
	TeacherID      uint      `json:"teacher_id"`
	Progress       int       `json:"progress"`
	EnrollmentDate time.Time `json:"enrollment_date"`
}

type ProgressUnit struct {
	ID       uint   `json:"id"`
	Title    string `json:"title"`
	Teacher  string `json:"teacher"`
	Progress int    `json:"progress"`
}

func (s *EnrollmentService) Enroll(ctx context.Context, studentID, unitID uint) error {
	if _, err := s.UnitRepo.FindByID(ctx, unitID); errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrUnitNotFound
	} else if err != nil {
		return err
	}

	exists, err := s.EnrollmentRepo.Exists(ctx, studentID, unitID)
	if err != nil {
		return err
	}
	if exists {
		return util.ErrAlreadyEnrolled
	}

	e := &model.Enrollment{
		StudentID:      studentID,
		UnitID:         unitID,
		EnrollmentDate: time.Now().UTC(),
	}
	if err := s.EnrollmentRepo.Create(ctx, e); err != nil {
		return err
	}
	monitoring.Enrollments.Inc()
	s.Cache.Invalidate(ctx)
	return nil
}

func (s *EnrollmentService) UpdateProgress(ctx context.Context, studentID, unitID uint, progress int) (int, error) {
	if !coursework.ValidProgress(progress) {
		return 0, util.ErrInvalidProgress
	}
	e, err := s.EnrollmentRepo.Find(ctx, studentID, unitID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, util.ErrNotEnrolled
	} else if err != nil {
		return 0, err
	}
	if err := s.EnrollmentRepo.UpdateProgress(ctx, e.ID, progress); err != nil {
		return 0, err
	}
	return progress, nil
}

func (s *EnrollmentService) Unenroll(ctx context.Context, studentID, unitID uint) error {
	deleted, err := s.EnrollmentRepo.Delete(ctx, studentID, unitID)
	if err != nil {
		return err
	}
	if !deleted {
		return util.ErrNotEnrolled
	}
	s.Cache.Invalidate(ctx)
	return nil
}

func (s *EnrollmentService) StudentUnits(ctx context.Context, studentID uint) ([]EnrolledUnit, error) {
	enrollments, err := s.EnrollmentRepo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	units := make([]EnrolledUnit, 0, len(enrollments))
	for _, e := range enrollments {
		units = append(units, EnrolledUnit{
			ID:             e.Unit.ID,
			Title:          e.Unit.Title,
			Description:    e.Unit.Description,
			Category:       e.Unit.Category,
			Teacher:        e.Unit.Teacher.Username,
			TeacherID:      e.Unit.TeacherID,
			Progress:       e.Progress,
			EnrollmentDate: e.EnrollmentDate,
		})
	}
	return units, nil
}

// InProgress 进度超过阈值的单元
func (s *EnrollmentService) InProgress(ctx context.Context, studentID uint) ([]ProgressUnit, error) {
	enrollments, err := s.EnrollmentRepo.ListInProgress(ctx, studentID, util.InProgressThreshold)
	if err != nil {
		return nil, err
	}
	units := make([]ProgressUnit, 0, len(enrollments))
	for _, e := range enrollments {
		units = append(units, ProgressUnit{
			ID:       e.Unit.ID,
			Title:    e.Unit.Title,
			Teacher:  e.Unit.Teacher.Username,
			Progress: e.Progress,
		})
	}
	return units, nil
}
