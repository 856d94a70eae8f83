package model

import "time"

// swagger:model Unit
type Unit struct {
	BaseModel
	Title       string       `gorm:"size:120;not null;index" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	Category    string       `gorm:"size:50;index" json:"category"`
	VideoURL    string       `gorm:"size:505" json:"video_url"`
	StartDate   *time.Time   `json:"start_date"`
	EndDate     *time.Time   `json:"end_date"`
	TeacherID   uint         `gorm:"index;not null" json:"teacher_id"`
	Teacher     User         `gorm:"foreignKey:TeacherID" json:"-"`
	Assignments []Assignment `gorm:"foreignKey:UnitID" json:"-"`
}

func (Unit) TableName() string {
	return "units"
}

// UnitStats 由评分和选课记录聚合得到的统计值
type UnitStats struct {
	UnitID        uint    `json:"-"`
	AverageRating float64 `json:"average_rating"`
	RatingCount   int64   `json:"rating_count"`
	TotalEnrolled int64   `json:"total_enrolled"`
}

// Rating 学生对单元的评分（1-5）
type Rating struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	StudentID uint      `gorm:"index;not null" json:"student_id"`
	UnitID    uint      `gorm:"index;not null" json:"unit_id"`
	Score     int       `gorm:"not null" json:"score"`
	Comment   string    `gorm:"type:text" json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

func (Rating) TableName() string {
	return "ratings"
}
