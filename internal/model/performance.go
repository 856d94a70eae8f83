package model

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// maxTrendPoints 趋势数据最多保留的历史点数
const maxTrendPoints = 12

// TrendPoint 一次成绩变更后的总分快照
type TrendPoint struct {
	Date  time.Time `json:"date"`
	Score float64   `json:"score"`
}

// Performance 每个学生在每个单元一条记录，成绩变更时追加趋势点
type Performance struct {
	ID           uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID       uint           `gorm:"not null;uniqueIndex:idx_performance_user_unit" json:"user_id"`
	UnitID       uint           `gorm:"not null;uniqueIndex:idx_performance_user_unit" json:"unit_id"`
	Score        float64        `json:"score"`
	TrendData    datatypes.JSON `json:"trend_data"`
	DateRecorded time.Time      `json:"date_recorded"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

func (Performance) TableName() string {
	return "performances"
}

func (p *Performance) Trend() []TrendPoint {
	points := []TrendPoint{}
	if len(p.TrendData) == 0 {
		return points
	}
	if err := json.Unmarshal(p.TrendData, &points); err != nil {
		return []TrendPoint{}
	}
	return points
}

// Record 更新当前总分并追加趋势点
func (p *Performance) Record(score float64, at time.Time) error {
	points := append(p.Trend(), TrendPoint{Date: at, Score: score})
	if len(points) > maxTrendPoints {
		points = points[len(points)-maxTrendPoints:]
	}
	data, err := json.Marshal(points)
	if err != nil {
		return err
	}
	p.Score = score
	p.DateRecorded = at
	p.TrendData = datatypes.JSON(data)
	return nil
}
