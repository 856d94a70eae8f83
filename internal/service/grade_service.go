package service

import (
	"context"
	"errors"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"lms_backend/pkg/coursework"
	"lms_backend/pkg/monitoring"
	"lms_backend/pkg/tracing"
	"time"

	"gorm.io/gorm"
)

type GradeService struct {
	EnrollmentRepo *repository.EnrollmentRepository
	UnitRepo       *repository.UnitRepository
}

func NewGradeService(enrollmentRepo *repository.EnrollmentRepository, unitRepo *repository.UnitRepository) *GradeService {
	return &GradeService{
		EnrollmentRepo: enrollmentRepo,
		UnitRepo:       unitRepo,
	}
}

// GradeUpdateInput 只更新请求中出现的字段
type GradeUpdateInput struct {
	UnitID          uint     `json:"unit_id" binding:"required"`
	AssignmentScore *float64 `json:"assignment_score"`
	CatScore        *float64 `json:"cat_score"`
	ExamScore       *float64 `json:"exam_score"`
}

func (in GradeUpdateInput) scores() coursework.Scores {
	return coursework.Scores{
		Assignment: in.AssignmentScore,
		CAT:        in.CatScore,
		Exam:       in.ExamScore,
	}
}

type GradeRow struct {
	repository.StudentGradeRow
	Total        float64 `json:"total"`
	TotalPercent string  `json:"total_percent"`
}

func newGradeRow(r repository.StudentGradeRow) GradeRow {
	scores := coursework.Scores{Assignment: r.AssignmentScore, CAT: r.CatScore, Exam: r.ExamScore}
	return GradeRow{
		StudentGradeRow: r,
		Total:           scores.Total(),
		TotalPercent:    scores.Percent(),
	}
}

// UnitGrades 教师查看自己单元的成绩表
func (s *GradeService) UnitGrades(ctx context.Context, teacherID, unitID uint) ([]GradeRow, error) {
	if _, err := s.UnitRepo.FindOwned(ctx, unitID, teacherID); errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUnitNotFound
	} else if err != nil {
		return nil, err
	}

	rows, err := s.EnrollmentRepo.GradeRows(ctx, unitID)
	if err != nil {
		return nil, err
	}
	result := make([]GradeRow, 0, len(rows))
	for _, r := range rows {
		result = append(result, newGradeRow(r))
	}
	return result, nil
}

// UpdateGrades 校验每个出现的字段，只有单元的授课教师可以修改
func (s *GradeService) UpdateGrades(ctx context.Context, teacherID, studentID uint, in GradeUpdateInput) (*GradeRow, error) {
	ctx, span := tracing.StartSpan(ctx, "GradeService.UpdateGrades")
	defer span.End()

	patch := in.scores()
	present := 0
	for _, f := range coursework.ScoreFields() {
		v := patch.Get(f)
		if v == nil {
			continue
		}
		present++
		if err := f.Check(*v); err != nil {
			monitoring.GradeUpdates.WithLabelValues("invalid").Inc()
			return nil, err
		}
	}
	if present == 0 {
		return nil, util.ErrNoGradeFields
	}

	unit, err := s.UnitRepo.FindOwned(ctx, in.UnitID, teacherID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotEnrolled
	} else if err != nil {
		return nil, err
	}
	e, err := s.EnrollmentRepo.Find(ctx, studentID, unit.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotEnrolled
	} else if err != nil {
		return nil, err
	}

	// 只写入请求中出现的字段，之后 e 为数据库中的整行
	if _, err := s.EnrollmentRepo.SaveScores(ctx, e, patch, time.Now().UTC()); err != nil {
		monitoring.GradeUpdates.WithLabelValues("error").Inc()
		return nil, err
	}
	monitoring.GradeUpdates.WithLabelValues("ok").Inc()

	row := newGradeRow(repository.StudentGradeRow{
		StudentID:       e.StudentID,
		UnitID:          unit.ID,
		UnitTitle:       unit.Title,
		AssignmentScore: e.AssignmentScore,
		CatScore:        e.CatScore,
		ExamScore:       e.ExamScore,
	})
	return &row, nil
}
