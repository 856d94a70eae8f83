package repository

import (
	"context"
	"lms_backend/internal/model"
	"lms_backend/pkg/coursework"
	"time"

	"gorm.io/gorm"
)

type EnrollmentRepository struct {
	DB *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{DB: db}
}

// StudentGradeRow 教师成绩表中的一行
type StudentGradeRow struct {
	StudentID       uint     `json:"student_id"`
	FullName        string   `json:"full_name"`
	UnitID          uint     `json:"unit_id"`
	UnitTitle       string   `json:"unit_title"`
	AssignmentScore *float64 `json:"assignment_score"`
	CatScore        *float64 `json:"cat_score"`
	ExamScore       *float64 `json:"exam_score"`
}

// EnrolledStudentRow 教师名下所有选课记录
type EnrolledStudentRow struct {
	EnrollmentID uint      `json:"enrollment_id"`
	StudentID    uint      `json:"student_id"`
	StudentName  string    `json:"student_name"`
	Email        string    `json:"username"`
	UnitID       uint      `json:"unit_id"`
	UnitTitle    string    `json:"unit_title"`
	Progress     int       `json:"progress"`
	EnrolledAt   time.Time `json:"enrollment_date"`
}

func (r *EnrollmentRepository) Create(ctx context.Context, e *model.Enrollment) error {
	return r.DB.WithContext(ctx).Create(e).Error
}

func (r *EnrollmentRepository) Find(ctx context.Context, studentID, unitID uint) (*model.Enrollment, error) {
	var e model.Enrollment
	err := r.DB.WithContext(ctx).
		Where("student_id = ? AND unit_id = ?", studentID, unitID).
		First(&e).Error
	return &e, err
}

func (r *EnrollmentRepository) Exists(ctx context.Context, studentID, unitID uint) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Enrollment{}).
		Where("student_id = ? AND unit_id = ?", studentID, unitID).
		Count(&count).Error
	return count > 0, err
}

// ListByStudent 最近选课在前
func (r *EnrollmentRepository) ListByStudent(ctx context.Context, studentID uint) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.DB.WithContext(ctx).
		Joins("JOIN units ON units.id = enrollments.unit_id AND units.deleted_at IS NULL").
		Preload("Unit.Teacher").
		Where("enrollments.student_id = ?", studentID).
		Order("enrollments.enrollment_date DESC").
		Order("enrollments.id DESC").
		Find(&enrollments).Error
	return enrollments, err
}

func (r *EnrollmentRepository) ListInProgress(ctx context.Context, studentID uint, threshold int) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.DB.WithContext(ctx).
		Joins("JOIN units ON units.id = enrollments.unit_id AND units.deleted_at IS NULL").
		Preload("Unit.Teacher").
		Where("enrollments.student_id = ? AND enrollments.progress > ?", studentID, threshold).
		Order("enrollments.id ASC").
		Find(&enrollments).Error
	return enrollments, err
}

func (r *EnrollmentRepository) UpdateProgress(ctx context.Context, id uint, progress int) error {
	return r.DB.WithContext(ctx).Model(&model.Enrollment{}).
		Where("id = ?", id).
		Update("progress", progress).Error
}

// Delete 返回是否删除了记录
func (r *EnrollmentRepository) Delete(ctx context.Context, studentID, unitID uint) (bool, error) {
	res := r.DB.WithContext(ctx).
		Where("student_id = ? AND unit_id = ?", studentID, unitID).
		Delete(&model.Enrollment{})
	return res.RowsAffected > 0, res.Error
}

func (r *EnrollmentRepository) CountByStudent(ctx context.Context, studentID uint) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Enrollment{}).
		Where("student_id = ?", studentID).
		Count(&count).Error
	return count, err
}

func (r *EnrollmentRepository) CountCompleted(ctx context.Context, studentID uint) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Enrollment{}).
		Where("student_id = ? AND progress = ?", studentID, 100).
		Count(&count).Error
	return count, err
}

// GradeRows 单元的成绩表，按学生 ID 排序
func (r *EnrollmentRepository) GradeRows(ctx context.Context, unitID uint) ([]StudentGradeRow, error) {
	var rows []StudentGradeRow
	err := r.DB.WithContext(ctx).Model(&model.Enrollment{}).
		Select("users.id AS student_id, users.username AS full_name, units.id AS unit_id, units.title AS unit_title, "+
			"enrollments.assignment_score, enrollments.cat_score, enrollments.exam_score").
		Joins("JOIN users ON users.id = enrollments.student_id AND users.deleted_at IS NULL").
		Joins("JOIN units ON units.id = enrollments.unit_id").
		Where("enrollments.unit_id = ?", unitID).
		Order("users.id ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *EnrollmentRepository) EnrolledStudents(ctx context.Context, teacherID uint) ([]EnrolledStudentRow, error) {
	var rows []EnrolledStudentRow
	err := r.DB.WithContext(ctx).Model(&model.Enrollment{}).
		Select("enrollments.id AS enrollment_id, users.id AS student_id, users.username AS student_name, users.email AS email, "+
			"units.id AS unit_id, units.title AS unit_title, enrollments.progress, enrollments.enrollment_date AS enrolled_at").
		Joins("JOIN units ON units.id = enrollments.unit_id AND units.deleted_at IS NULL").
		Joins("JOIN users ON users.id = enrollments.student_id AND users.deleted_at IS NULL").
		Where("units.teacher_id = ?", teacherID).
		Order("enrollments.id ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *EnrollmentRepository) CountStudentsForTeacher(ctx context.Context, teacherID uint) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Enrollment{}).
		Joins("JOIN units ON units.id = enrollments.unit_id AND units.deleted_at IS NULL").
		Where("units.teacher_id = ?", teacherID).
		Distinct("enrollments.student_id").
		Count(&count).Error
	return count, err
}

// DailyCount 某天的选课数量
type DailyCount struct {
	Date  string
	Count int64
}

// DailyEnrollments 教师单元最近有选课的若干天
func (r *EnrollmentRepository) DailyEnrollments(ctx context.Context, teacherID uint, days int) ([]DailyCount, error) {
	var counts []DailyCount
	err := r.DB.WithContext(ctx).Model(&model.Enrollment{}).
		Select("DATE(enrollments.enrollment_date) AS date, COUNT(*) AS count").
		Joins("JOIN units ON units.id = enrollments.unit_id AND units.deleted_at IS NULL").
		Where("units.teacher_id = ?", teacherID).
		Group("DATE(enrollments.enrollment_date)").
		Order("date DESC").
		Limit(days).
		Scan(&counts).Error
	return counts, err
}

// SaveScores 事务内只写入 patch 中出现的成绩字段，重新读取整行后追加成绩快照。
// 未出现的字段保持数据库中的值，不同字段的并发修改互不覆盖。
func (r *EnrollmentRepository) SaveScores(ctx context.Context, e *model.Enrollment, patch coursework.Scores, at time.Time) (*model.Performance, error) {
	updates := make(map[string]interface{}, 3)
	for _, f := range coursework.ScoreFields() {
		if v := patch.Get(f); v != nil {
			updates[string(f)] = *v
		}
	}

	var perf model.Performance
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&model.Enrollment{}).Where("id = ?", e.ID).Updates(updates).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("id = ?", e.ID).First(e).Error; err != nil {
			return err
		}

		err := tx.Where("user_id = ? AND unit_id = ?", e.StudentID, e.UnitID).
			Attrs(model.Performance{UserID: e.StudentID, UnitID: e.UnitID}).
			FirstOrInit(&perf).Error
		if err != nil {
			return err
		}
		scores := e.Scores()
		if err := perf.Record(scores.Total(), at); err != nil {
			return err
		}
		return tx.Save(&perf).Error
	})
	if err != nil {
		return nil, err
	}
	return &perf, nil
}
