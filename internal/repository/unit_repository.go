package repository

import (
	"context"
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

const (
	SortByTitle  = "title"
	SortByRating = "rating"
	SortByDate   = "date"
)

// ratingOrder 按平均评分降序，没有评分的单元视为 0
const ratingOrder = "(SELECT COALESCE(AVG(ratings.score), 0) FROM ratings WHERE ratings.unit_id = units.id) DESC"

type UnitRepository struct {
	DB *gorm.DB
}

func NewUnitRepository(db *gorm.DB) *UnitRepository {
	return &UnitRepository{DB: db}
}

// UnitQuery 分页列表查询条件
type UnitQuery struct {
	Category string
	SortBy   string
	Offset   int
	Limit    int
}

func (r *UnitRepository) Create(ctx context.Context, unit *model.Unit) error {
	return r.DB.WithContext(ctx).Create(unit).Error
}

func (r *UnitRepository) FindByID(ctx context.Context, id uint) (*model.Unit, error) {
	var unit model.Unit
	err := r.DB.WithContext(ctx).
		Preload("Teacher").
		Preload("Assignments", func(db *gorm.DB) *gorm.DB {
			return db.Order("assignments.id ASC")
		}).
		First(&unit, id).Error
	return &unit, err
}

// FindOwned 查找属于指定教师的单元
func (r *UnitRepository) FindOwned(ctx context.Context, id, teacherID uint) (*model.Unit, error) {
	var unit model.Unit
	err := r.DB.WithContext(ctx).
		Where("id = ? AND teacher_id = ?", id, teacherID).
		First(&unit).Error
	return &unit, err
}

func (r *UnitRepository) List(ctx context.Context, q UnitQuery) ([]model.Unit, int64, error) {
	db := r.DB.WithContext(ctx).Model(&model.Unit{})
	if q.Category != "" {
		db = db.Where("category = ?", q.Category)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch q.SortBy {
	case SortByRating:
		db = db.Order(ratingOrder)
	case SortByDate:
		db = db.Order("start_date DESC")
	default:
		db = db.Order("title ASC")
	}

	var units []model.Unit
	err := db.Order("id ASC").
		Preload("Teacher").
		Offset(q.Offset).
		Limit(q.Limit).
		Find(&units).Error
	return units, total, err
}

func (r *UnitRepository) Latest(ctx context.Context, limit int) ([]model.Unit, error) {
	var units []model.Unit
	err := r.DB.WithContext(ctx).
		Preload("Teacher").
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&units).Error
	return units, err
}

// Popular 只包含有选课记录的单元，按选课数再按评分排序
func (r *UnitRepository) Popular(ctx context.Context, limit int) ([]model.Unit, error) {
	var units []model.Unit
	err := r.DB.WithContext(ctx).
		Select("units.*").
		Joins("JOIN enrollments ON enrollments.unit_id = units.id").
		Group("units.id").
		Order("COUNT(enrollments.id) DESC").
		Order(ratingOrder).
		Order("units.id ASC").
		Limit(limit).
		Preload("Teacher").
		Find(&units).Error
	return units, err
}

func (r *UnitRepository) Recommended(ctx context.Context, limit int) ([]model.Unit, error) {
	var units []model.Unit
	err := r.DB.WithContext(ctx).
		Preload("Teacher").
		Order(ratingOrder).
		Order("id ASC").
		Limit(limit).
		Find(&units).Error
	return units, err
}

func (r *UnitRepository) Related(ctx context.Context, unit *model.Unit, limit int) ([]model.Unit, error) {
	var units []model.Unit
	err := r.DB.WithContext(ctx).
		Preload("Teacher").
		Where("category = ? AND id <> ?", unit.Category, unit.ID).
		Order("id ASC").
		Limit(limit).
		Find(&units).Error
	return units, err
}

func (r *UnitRepository) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	err := r.DB.WithContext(ctx).Model(&model.Unit{}).
		Where("category <> ''").
		Distinct().
		Order("category ASC").
		Pluck("category", &categories).Error
	return categories, err
}

func (r *UnitRepository) FindByTeacher(ctx context.Context, teacherID uint) ([]model.Unit, error) {
	var units []model.Unit
	err := r.DB.WithContext(ctx).
		Preload("Teacher").
		Where("teacher_id = ?", teacherID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&units).Error
	return units, err
}

func (r *UnitRepository) CountByTeacher(ctx context.Context, teacherID uint) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Unit{}).
		Where("teacher_id = ?", teacherID).
		Count(&count).Error
	return count, err
}

type ratingAggregate struct {
	UnitID  uint
	Average float64
	Total   int64
}

type enrollmentAggregate struct {
	UnitID uint
	Total  int64
}

// Stats 批量计算评分与选课统计
func (r *UnitRepository) Stats(ctx context.Context, ids []uint) (map[uint]model.UnitStats, error) {
	stats := make(map[uint]model.UnitStats, len(ids))
	if len(ids) == 0 {
		return stats, nil
	}
	for _, id := range ids {
		stats[id] = model.UnitStats{UnitID: id}
	}

	var ratings []ratingAggregate
	err := r.DB.WithContext(ctx).Model(&model.Rating{}).
		Select("unit_id, AVG(score) AS average, COUNT(*) AS total").
		Where("unit_id IN ?", ids).
		Group("unit_id").
		Scan(&ratings).Error
	if err != nil {
		return nil, err
	}
	for _, a := range ratings {
		s := stats[a.UnitID]
		s.AverageRating = a.Average
		s.RatingCount = a.Total
		stats[a.UnitID] = s
	}

	var enrollments []enrollmentAggregate
	err = r.DB.WithContext(ctx).Model(&model.Enrollment{}).
		Select("unit_id, COUNT(*) AS total").
		Where("unit_id IN ?", ids).
		Group("unit_id").
		Scan(&enrollments).Error
	if err != nil {
		return nil, err
	}
	for _, a := range enrollments {
		s := stats[a.UnitID]
		s.TotalEnrolled = a.Total
		stats[a.UnitID] = s
	}
	return stats, nil
}

// TeacherRating 教师全部单元的平均评分
func (r *UnitRepository) TeacherRating(ctx context.Context, teacherID uint) (float64, int64, error) {
	var agg struct {
		Average float64
		Total   int64
	}
	err := r.DB.WithContext(ctx).Model(&model.Rating{}).
		Select("COALESCE(AVG(ratings.score), 0) AS average, COUNT(ratings.id) AS total").
		Joins("JOIN units ON units.id = ratings.unit_id AND units.deleted_at IS NULL").
		Where("units.teacher_id = ?", teacherID).
		Scan(&agg).Error
	return agg.Average, agg.Total, err
}
