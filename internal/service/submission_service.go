package service

import (
	"context"
	"errors"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"lms_backend/pkg/coursework"
	"lms_backend/pkg/logger"
	"lms_backend/pkg/monitoring"
	"math"
	"mime/multipart"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type SubmissionService struct {
	SubmissionRepo *repository.SubmissionRepository
	AssignmentRepo *repository.AssignmentRepository
	UnitRepo       *repository.UnitRepository
	EnrollmentRepo *repository.EnrollmentRepository
	Storage        *StorageService
}

func NewSubmissionService(
	submissionRepo *repository.SubmissionRepository,
	assignmentRepo *repository.AssignmentRepository,
	unitRepo *repository.UnitRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	storage *StorageService,
) *SubmissionService {
	return &SubmissionService{
		SubmissionRepo: submissionRepo,
		AssignmentRepo: assignmentRepo,
		UnitRepo:       unitRepo,
		EnrollmentRepo: enrollmentRepo,
		Storage:        storage,
	}
}

// SubmitInput 三种提交方式只能填写一种
type SubmitInput struct {
	AssignmentID uint
	Text         string
	Link         string
	File         *multipart.FileHeader
}

type GradeSubmissionInput struct {
	Grade    *float64 `json:"grade" binding:"required"`
	Feedback string   `json:"feedback"`
}

type SubmissionView struct {
	ID              uint       `json:"id"`
	AssignmentID    uint       `json:"assignment_id"`
	AssignmentTitle string     `json:"assignment_title"`
	StudentID       uint       `json:"student_id"`
	StudentName     string     `json:"student_name"`
	Mode            string     `json:"mode"`
	SubmissionText  string     `json:"submission_text,omitempty"`
	DocumentURL     string     `json:"document_url,omitempty"`
	SubmissionLink  string     `json:"submission_link,omitempty"`
	SubmittedAt     time.Time  `json:"submitted_at"`
	Grade           *float64   `json:"grade"`
	Feedback        string     `json:"feedback"`
	GradedAt        *time.Time `json:"graded_at"`
}

type StudentSubmission struct {
	SubmissionID    uint      `json:"submission_id"`
	AssignmentID    uint      `json:"assignment_id"`
	AssignmentTitle string    `json:"assignment_title"`
	UnitID          uint      `json:"unit_id"`
	UnitTitle       string    `json:"unit_title"`
	SubmittedAt     time.Time `json:"submitted_at"`
	Grade           *float64  `json:"grade"`
	Feedback        string    `json:"feedback"`
}

func newSubmissionView(s *model.Submission) SubmissionView {
	return SubmissionView{
		ID:              s.ID,
		AssignmentID:    s.AssignmentID,
		AssignmentTitle: s.Assignment.Title,
		StudentID:       s.StudentID,
		StudentName:     s.Student.Username,
		Mode:            string(s.Mode()),
		SubmissionText:  s.SubmissionText,
		DocumentURL:     s.DocumentURL,
		SubmissionLink:  s.SubmissionLink,
		SubmittedAt:     s.SubmittedAt,
		Grade:           s.Grade,
		Feedback:        s.Feedback,
		GradedAt:        s.GradedAt,
	}
}

func (s *SubmissionService) Submit(ctx context.Context, studentID uint, in SubmitInput) (*SubmissionView, error) {
	mode, err := coursework.DetectMode(in.Text, in.Link, in.File != nil)
	if err != nil {
		return nil, err
	}

	assignment, err := s.AssignmentRepo.FindByID(ctx, in.AssignmentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrAssignmentNotFound
	} else if err != nil {
		return nil, err
	}
	enrolled, err := s.EnrollmentRepo.Exists(ctx, studentID, assignment.UnitID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, util.ErrNotEnrolled
	}

	sub := &model.Submission{
		AssignmentID: assignment.ID,
		StudentID:    studentID,
		SubmittedAt:  time.Now().UTC(),
	}
	switch mode {
	case coursework.ModeText:
		sub.SubmissionText = strings.TrimSpace(in.Text)
	case coursework.ModeLink:
		link, err := coursework.NormalizeLink(in.Link)
		if err != nil {
			return nil, err
		}
		sub.SubmissionLink = link
	case coursework.ModeFile:
		url, err := s.Storage.SaveDocument(ctx, in.File)
		if err != nil {
			return nil, err
		}
		sub.DocumentURL = url
	}

	if err := s.SubmissionRepo.Create(ctx, sub); err != nil {
		return nil, err
	}
	monitoring.Submissions.WithLabelValues(string(mode)).Inc()
	logger.Log.Info("Submission received",
		zap.Uint("assignment_id", sub.AssignmentID),
		zap.Uint("student_id", studentID),
		zap.String("mode", string(mode)))

	sub.Assignment = *assignment
	view := newSubmissionView(sub)
	return &view, nil
}

// UnitSubmissions 只能查看自己单元的提交
func (s *SubmissionService) UnitSubmissions(ctx context.Context, teacherID, unitID uint) ([]SubmissionView, error) {
	if _, err := s.UnitRepo.FindOwned(ctx, unitID, teacherID); errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUnitNotFound
	} else if err != nil {
		return nil, err
	}

	submissions, err := s.SubmissionRepo.ListByUnit(ctx, unitID)
	if err != nil {
		return nil, err
	}
	views := make([]SubmissionView, 0, len(submissions))
	for i := range submissions {
		views = append(views, newSubmissionView(&submissions[i]))
	}
	return views, nil
}

// Grade 分数范围为 [0, 作业满分]
func (s *SubmissionService) Grade(ctx context.Context, teacherID, submissionID uint, in GradeSubmissionInput) (*SubmissionView, error) {
	sub, err := s.SubmissionRepo.FindByID(ctx, submissionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrSubmissionNotFound
	} else if err != nil {
		return nil, err
	}
	if sub.Assignment.Unit.TeacherID != teacherID {
		return nil, util.ErrPermissionDenied
	}

	g := *in.Grade
	if math.IsNaN(g) || g < 0 || g > sub.Assignment.GradeCeiling() {
		return nil, util.ErrInvalidGrade
	}

	now := time.Now().UTC()
	sub.Grade = &g
	sub.Feedback = strings.TrimSpace(in.Feedback)
	sub.GradedAt = &now
	if err := s.SubmissionRepo.SaveGrade(ctx, sub); err != nil {
		return nil, err
	}
	view := newSubmissionView(sub)
	return &view, nil
}

func (s *SubmissionService) StudentSubmissions(ctx context.Context, studentID uint) ([]StudentSubmission, error) {
	submissions, err := s.SubmissionRepo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	result := make([]StudentSubmission, 0, len(submissions))
	for _, sub := range submissions {
		result = append(result, StudentSubmission{
			SubmissionID:    sub.ID,
			AssignmentID:    sub.AssignmentID,
			AssignmentTitle: sub.Assignment.Title,
			UnitID:          sub.Assignment.UnitID,
			UnitTitle:       sub.Assignment.Unit.Title,
			SubmittedAt:     sub.SubmittedAt,
			Grade:           sub.Grade,
			Feedback:        sub.Feedback,
		})
	}
	return result, nil
}
