package service

import (
	"context"
	"fmt"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"math"
)

type DashboardService struct {
	EnrollmentRepo  *repository.EnrollmentRepository
	UnitRepo        *repository.UnitRepository
	PerformanceRepo *repository.PerformanceRepository
}

func NewDashboardService(
	enrollmentRepo *repository.EnrollmentRepository,
	unitRepo *repository.UnitRepository,
	performanceRepo *repository.PerformanceRepository,
) *DashboardService {
	return &DashboardService{
		EnrollmentRepo:  enrollmentRepo,
		UnitRepo:        unitRepo,
		PerformanceRepo: performanceRepo,
	}
}

type Activity struct {
	Description string `json:"description"`
	Date        string `json:"date"`
}

type StudentDashboard struct {
	EnrolledCourses  int64      `json:"enrolledCourses"`
	CompletedCourses int64      `json:"completedCourses"`
	AverageScore     float64    `json:"averageScore"`
	RecentActivities []Activity `json:"recentActivities"`
}

type TeacherDashboard struct {
	TotalUnits       int64      `json:"totalUnits"`
	TotalStudents    int64      `json:"totalStudents"`
	RecentActivities []Activity `json:"recentActivities"`
}

type UnitResult struct {
	UnitID          uint     `json:"unit_id"`
	UnitTitle       string   `json:"unit_title"`
	AssignmentScore *float64 `json:"assignment_score"`
	CatScore        *float64 `json:"cat_score"`
	ExamScore       *float64 `json:"exam_score"`
	OverallScore    float64  `json:"overall_score"`
	OverallPercent  string   `json:"overall_percent"`
}

type TrendSummary struct {
	UnitID    uint               `json:"unit_id"`
	UnitTitle string             `json:"unit_title"`
	Score     float64            `json:"score"`
	Points    []model.TrendPoint `json:"points"`
}

type StudentResults struct {
	Results      []UnitResult   `json:"results"`
	TrendSummary []TrendSummary `json:"trend_summary"`
}

// StudentDashboard averageScore 为已评分单元总分的平均值
func (s *DashboardService) StudentDashboard(ctx context.Context, studentID uint) (*StudentDashboard, error) {
	enrollments, err := s.EnrollmentRepo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	d := &StudentDashboard{
		EnrolledCourses:  int64(len(enrollments)),
		RecentActivities: []Activity{},
	}
	var sum float64
	var graded int
	for i := range enrollments {
		e := &enrollments[i]
		if e.Progress == 100 {
			d.CompletedCourses++
		}
		if e.HasScores() {
			sum += e.Scores().Total()
			graded++
		}
		if len(d.RecentActivities) < util.RecentActivityLimit {
			d.RecentActivities = append(d.RecentActivities, Activity{
				Description: "Enrolled in " + e.Unit.Title,
				Date:        e.EnrollmentDate.Format("2006-01-02 15:04"),
			})
		}
	}
	if graded > 0 {
		d.AverageScore = math.Round(sum/float64(graded)*10) / 10
	}
	return d, nil
}

func (s *DashboardService) TeacherDashboard(ctx context.Context, teacherID uint) (*TeacherDashboard, error) {
	totalUnits, err := s.UnitRepo.CountByTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	totalStudents, err := s.EnrollmentRepo.CountStudentsForTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	daily, err := s.EnrollmentRepo.DailyEnrollments(ctx, teacherID, util.ActivityDays)
	if err != nil {
		return nil, err
	}

	activities := make([]Activity, 0, len(daily))
	for _, d := range daily {
		date := d.Date
		if len(date) > len(util.DateFormat) {
			date = date[:len(util.DateFormat)]
		}
		activities = append(activities, Activity{
			Date:        date,
			Description: fmt.Sprintf("%d new enrollments", d.Count),
		})
	}
	return &TeacherDashboard{
		TotalUnits:       totalUnits,
		TotalStudents:    totalStudents,
		RecentActivities: activities,
	}, nil
}

func (s *DashboardService) EnrolledStudents(ctx context.Context, teacherID uint) ([]repository.EnrolledStudentRow, error) {
	rows, err := s.EnrollmentRepo.EnrolledStudents(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []repository.EnrolledStudentRow{}
	}
	return rows, nil
}

func (s *DashboardService) StudentResults(ctx context.Context, studentID uint) (*StudentResults, error) {
	enrollments, err := s.EnrollmentRepo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	records, err := s.PerformanceRepo.ListByUser(ctx, studentID)
	if err != nil {
		return nil, err
	}

	titles := make(map[uint]string, len(enrollments))
	out := &StudentResults{
		Results:      make([]UnitResult, 0, len(enrollments)),
		TrendSummary: make([]TrendSummary, 0, len(records)),
	}
	for i := range enrollments {
		e := &enrollments[i]
		titles[e.UnitID] = e.Unit.Title
		scores := e.Scores()
		out.Results = append(out.Results, UnitResult{
			UnitID:          e.UnitID,
			UnitTitle:       e.Unit.Title,
			AssignmentScore: e.AssignmentScore,
			CatScore:        e.CatScore,
			ExamScore:       e.ExamScore,
			OverallScore:    scores.Total(),
			OverallPercent:  scores.Percent(),
		})
	}
	for i := range records {
		r := &records[i]
		title, ok := titles[r.UnitID]
		if !ok {
			continue
		}
		out.TrendSummary = append(out.TrendSummary, TrendSummary{
			UnitID:    r.UnitID,
			UnitTitle: title,
			Score:     r.Score,
			Points:    r.Trend(),
		})
	}
	return out, nil
}
