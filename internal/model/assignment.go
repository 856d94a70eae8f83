package model

import (
	"lms_backend/pkg/coursework"
	"time"
)

// swagger:model Assignment
type Assignment struct {
	BaseModel
	UnitID      uint         `gorm:"index;not null" json:"unit_id"`
	Title       string       `gorm:"size:120;not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	DueDate     *time.Time   `json:"due_date"`
	MaxScore    float64      `json:"max_score"`
	Unit        Unit         `gorm:"foreignKey:UnitID" json:"-"`
	Submissions []Submission `gorm:"foreignKey:AssignmentID" json:"-"`
}

func (Assignment) TableName() string {
	return "assignments"
}

// GradeCeiling 作业评分上限，未设置满分时按百分制
func (a *Assignment) GradeCeiling() float64 {
	if a.MaxScore > 0 {
		return a.MaxScore
	}
	return 100
}

// swagger:model Submission
type Submission struct {
	BaseModel
	AssignmentID   uint       `gorm:"index;not null" json:"assignment_id"`
	StudentID      uint       `gorm:"index;not null" json:"student_id"`
	SubmissionText string     `gorm:"type:text" json:"submission_text,omitempty"`
	DocumentURL    string     `gorm:"size:255" json:"document_url,omitempty"`
	SubmissionLink string     `gorm:"size:255" json:"submission_link,omitempty"`
	SubmittedAt    time.Time  `json:"submitted_at"`
	Grade          *float64   `json:"grade"`
	Feedback       string     `gorm:"type:text" json:"feedback"`
	GradedAt       *time.Time `json:"graded_at"`
	Assignment     Assignment `gorm:"foreignKey:AssignmentID" json:"-"`
	Student        User       `gorm:"foreignKey:StudentID" json:"-"`
}

func (Submission) TableName() string {
	return "submissions"
}

// Mode 根据已填写的字段推断提交方式
func (s *Submission) Mode() coursework.SubmissionMode {
	switch {
	case s.SubmissionText != "":
		return coursework.ModeText
	case s.DocumentURL != "":
		return coursework.ModeFile
	case s.SubmissionLink != "":
		return coursework.ModeLink
	}
	return ""
}
