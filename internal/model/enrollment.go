package model

import (
	"lms_backend/pkg/coursework"
	"time"
)

// Enrollment 学生与单元的选课关系，同时记录进度和三项成绩。
// 退课直接删除记录，因此不使用软删除。
type Enrollment struct {
	ID              uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	StudentID       uint      `gorm:"not null;uniqueIndex:idx_enrollment_student_unit" json:"student_id"`
	UnitID          uint      `gorm:"not null;uniqueIndex:idx_enrollment_student_unit;index" json:"unit_id"`
	EnrollmentDate  time.Time `json:"enrollment_date"`
	Progress        int       `gorm:"not null;default:0" json:"progress"`
	Grade           *float64  `json:"grade"`
	Feedback        string    `gorm:"type:text" json:"feedback"`
	AssignmentScore *float64  `json:"assignment_score"`
	CatScore        *float64  `json:"cat_score"`
	ExamScore       *float64  `json:"exam_score"`
	Student         User      `gorm:"foreignKey:StudentID" json:"-"`
	Unit            Unit      `gorm:"foreignKey:UnitID" json:"-"`
	CreatedAt       time.Time `json:"-"`
	UpdatedAt       time.Time `json:"-"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

func (e *Enrollment) Scores() coursework.Scores {
	return coursework.Scores{
		Assignment: e.AssignmentScore,
		CAT:        e.CatScore,
		Exam:       e.ExamScore,
	}
}

func (e *Enrollment) SetScores(s coursework.Scores) {
	e.AssignmentScore = s.Assignment
	e.CatScore = s.CAT
	e.ExamScore = s.Exam
}

// HasScores 是否已录入任意一项成绩
func (e *Enrollment) HasScores() bool {
	return e.AssignmentScore != nil || e.CatScore != nil || e.ExamScore != nil
}
