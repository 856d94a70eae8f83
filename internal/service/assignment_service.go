package service

import (
	"context"
	"errors"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"strings"
	"time"

	"gorm.io/gorm"
)

type AssignmentService struct {
	AssignmentRepo *repository.AssignmentRepository
	UnitRepo       *repository.UnitRepository
	EnrollmentRepo *repository.EnrollmentRepository
	SubmissionRepo *repository.SubmissionRepository
}

func NewAssignmentService(
	assignmentRepo *repository.AssignmentRepository,
	unitRepo *repository.UnitRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	submissionRepo *repository.SubmissionRepository,
) *AssignmentService {
	return &AssignmentService{
		AssignmentRepo: assignmentRepo,
		UnitRepo:       unitRepo,
		EnrollmentRepo: enrollmentRepo,
		SubmissionRepo: submissionRepo,
	}
}

type CreateAssignmentInput struct {
	UnitID      uint     `json:"unit_id" binding:"required"`
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	DueDate     string   `json:"due_date"`
	MaxScore    *float64 `json:"max_score"`
}

type AssignmentView struct {
	ID          uint       `json:"id"`
	UnitID      uint       `json:"unit_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	MaxScore    float64    `json:"max_score"`
}

// StudentAssignment completed 由提交记录推导
type StudentAssignment struct {
	AssignmentView
	Completed bool `json:"completed"`
}

func newAssignmentView(a *model.Assignment) AssignmentView {
	return AssignmentView{
		ID:          a.ID,
		UnitID:      a.UnitID,
		Title:       a.Title,
		Description: a.Description,
		DueDate:     a.DueDate,
		MaxScore:    a.MaxScore,
	}
}

func (s *AssignmentService) Create(ctx context.Context, teacherID uint, in CreateAssignmentInput) (*AssignmentView, error) {
	if _, err := s.UnitRepo.FindOwned(ctx, in.UnitID, teacherID); errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrPermissionDenied
	} else if err != nil {
		return nil, err
	}

	due, err := util.ParseDueDate(strings.TrimSpace(in.DueDate))
	if err != nil {
		return nil, util.ErrInvalidDate
	}
	maxScore := 0.0
	if in.MaxScore != nil {
		if *in.MaxScore < 0 {
			return nil, util.ErrInvalidMaxScore
		}
		maxScore = *in.MaxScore
	}

	a := &model.Assignment{
		UnitID:      in.UnitID,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		DueDate:     due,
		MaxScore:    maxScore,
	}
	if err := s.AssignmentRepo.Create(ctx, a); err != nil {
		return nil, err
	}
	view := newAssignmentView(a)
	return &view, nil
}

// StudentAssignments 学生必须已选该单元
func (s *AssignmentService) StudentAssignments(ctx context.Context, studentID, unitID uint) ([]StudentAssignment, error) {
	enrolled, err := s.EnrollmentRepo.Exists(ctx, studentID, unitID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, util.ErrNotEnrolled
	}

	assignments, err := s.AssignmentRepo.ListByUnit(ctx, unitID)
	if err != nil {
		return nil, err
	}
	submitted, err := s.SubmissionRepo.SubmittedAssignmentIDs(ctx, studentID, unitID)
	if err != nil {
		return nil, err
	}
	done := make(map[uint]bool, len(submitted))
	for _, id := range submitted {
		done[id] = true
	}

	result := make([]StudentAssignment, 0, len(assignments))
	for i := range assignments {
		result = append(result, StudentAssignment{
			AssignmentView: newAssignmentView(&assignments[i]),
			Completed:      done[assignments[i].ID],
		})
	}
	return result, nil
}
