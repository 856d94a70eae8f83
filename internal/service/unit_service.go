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

type UnitService struct {
	UnitRepo       *repository.UnitRepository
	UserRepo       *repository.UserRepository
	EnrollmentRepo *repository.EnrollmentRepository
	RatingRepo     *repository.RatingRepository
	Cache          ListingCache
}

func NewUnitService(
	unitRepo *repository.UnitRepository,
	userRepo *repository.UserRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	ratingRepo *repository.RatingRepository,
	cache ListingCache,
) *UnitService {
	return &UnitService{
		UnitRepo:       unitRepo,
		UserRepo:       userRepo,
		EnrollmentRepo: enrollmentRepo,
		RatingRepo:     ratingRepo,
		Cache:          cache,
	}
}

type TeacherRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Bio  string `json:"bio,omitempty"`
}

type UnitSummary struct {
	ID            uint       `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Category      string     `json:"category"`
	StartDate     *string    `json:"start_date"`
	EndDate       *string    `json:"end_date"`
	Teacher       TeacherRef `json:"teacher"`
	AverageRating float64    `json:"average_rating"`
	RatingCount   int64      `json:"rating_count"`
	TotalEnrolled int64      `json:"total_enrolled"`
}

type AssignmentRef struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

type UnitDetail struct {
	UnitSummary
	VideoURL     string          `json:"video_url"`
	IsEnrolled   bool            `json:"is_enrolled"`
	Assignments  []AssignmentRef `json:"assignments"`
	RelatedUnits []UnitSummary   `json:"related_units"`
}

type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

type TeacherDetail struct {
	ID             uint          `json:"id"`
	Username       string        `json:"username"`
	Bio            string        `json:"bio"`
	Qualifications string        `json:"qualifications"`
	Units          []UnitSummary `json:"units"`
	Ratings        RatingSummary `json:"ratings"`
}

type ListUnitsQuery struct {
	Page     int    `form:"page"`
	PerPage  int    `form:"per_page"`
	SortBy   string `form:"sort_by"`
	Category string `form:"-"`
}

type CreateUnitInput struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
	Category    string `json:"category" binding:"required"`
	VideoURL    string `json:"video_url" binding:"required,youtube_url"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
}

type RatingInput struct {
	UnitID  uint   `json:"unit_id" binding:"required"`
	Score   int    `json:"score" binding:"required"`
	Comment string `json:"comment"`
}

// NormalizePage 页码小于 1 视为第一页，每页数量默认 12，上限 100
func NormalizePage(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = util.DefaultPerPage
	}
	if perPage > util.MaxPerPage {
		perPage = util.MaxPerPage
	}
	return page, perPage
}

func (s *UnitService) List(ctx context.Context, q ListUnitsQuery) (*util.PageResponse, error) {
	page, perPage := NormalizePage(q.Page, q.PerPage)
	units, total, err := s.UnitRepo.List(ctx, repository.UnitQuery{
		Category: q.Category,
		SortBy:   q.SortBy,
		Offset:   (page - 1) * perPage,
		Limit:    perPage,
	})
	if err != nil {
		return nil, err
	}
	summaries, err := s.summarize(ctx, units)
	if err != nil {
		return nil, err
	}
	resp := util.NewPageResponse(summaries, total, page, perPage)
	return &resp, nil
}

// Detail viewerID 为 0 表示匿名访问
func (s *UnitService) Detail(ctx context.Context, id, viewerID uint) (*UnitDetail, error) {
	unit, err := s.UnitRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUnitNotFound
	} else if err != nil {
		return nil, err
	}

	summaries, err := s.summarize(ctx, []model.Unit{*unit})
	if err != nil {
		return nil, err
	}
	detail := &UnitDetail{
		UnitSummary:  summaries[0],
		VideoURL:     unit.VideoURL,
		Assignments:  make([]AssignmentRef, 0, len(unit.Assignments)),
		RelatedUnits: []UnitSummary{},
	}
	detail.Teacher.Bio = unit.Teacher.Bio

	for _, a := range unit.Assignments {
		detail.Assignments = append(detail.Assignments, AssignmentRef{ID: a.ID, Title: a.Title})
	}

	if viewerID != 0 {
		enrolled, err := s.EnrollmentRepo.Exists(ctx, viewerID, unit.ID)
		if err != nil {
			return nil, err
		}
		detail.IsEnrolled = enrolled
	}

	related, err := s.UnitRepo.Related(ctx, unit, util.RelatedUnitsLimit)
	if err != nil {
		return nil, err
	}
	if detail.RelatedUnits, err = s.summarize(ctx, related); err != nil {
		return nil, err
	}
	return detail, nil
}

func (s *UnitService) Latest(ctx context.Context) ([]UnitSummary, error) {
	return s.cachedList(ctx, ListingLatest, func() ([]model.Unit, error) {
		return s.UnitRepo.Latest(ctx, util.LatestUnitsLimit)
	})
}

func (s *UnitService) Popular(ctx context.Context) ([]UnitSummary, error) {
	return s.cachedList(ctx, ListingPopular, func() ([]model.Unit, error) {
		return s.UnitRepo.Popular(ctx, util.PopularUnitsLimit)
	})
}

func (s *UnitService) Recommended(ctx context.Context) ([]UnitSummary, error) {
	return s.cachedList(ctx, ListingRecommended, func() ([]model.Unit, error) {
		return s.UnitRepo.Recommended(ctx, util.RecommendedUnitsLimit)
	})
}

func (s *UnitService) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	if s.Cache.Get(ctx, ListingCategories, &categories) {
		return categories, nil
	}
	categories, err := s.UnitRepo.Categories(ctx)
	if err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []string{}
	}
	s.Cache.Set(ctx, ListingCategories, categories)
	return categories, nil
}

func (s *UnitService) FeaturedTeachers(ctx context.Context) ([]repository.TeacherSummary, error) {
	teachers, err := s.UserRepo.FeaturedTeachers(ctx, util.FeaturedTeachersLimit)
	if err != nil {
		return nil, err
	}
	if teachers == nil {
		teachers = []repository.TeacherSummary{}
	}
	return teachers, nil
}

func (s *UnitService) TeacherDetail(ctx context.Context, teacherID uint) (*TeacherDetail, error) {
	teacher, err := s.UserRepo.FindTeacher(ctx, teacherID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrTeacherNotFound
	} else if err != nil {
		return nil, err
	}

	units, err := s.TeacherUnits(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	avg, count, err := s.UnitRepo.TeacherRating(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	return &TeacherDetail{
		ID:             teacher.ID,
		Username:       teacher.Username,
		Bio:            teacher.Bio,
		Qualifications: teacher.Qualifications,
		Units:          units,
		Ratings:        RatingSummary{Average: avg, Count: count},
	}, nil
}

func (s *UnitService) TeacherUnits(ctx context.Context, teacherID uint) ([]UnitSummary, error) {
	units, err := s.UnitRepo.FindByTeacher(ctx, teacherID)
	if err != nil {
		return nil, err
	}
	return s.summarize(ctx, units)
}

func (s *UnitService) Create(ctx context.Context, teacherID uint, in CreateUnitInput) (*UnitSummary, error) {
	start, err := util.ParseDate(strings.TrimSpace(in.StartDate))
	if err != nil {
		return nil, util.ErrInvalidDate
	}
	end, err := util.ParseDate(strings.TrimSpace(in.EndDate))
	if err != nil {
		return nil, util.ErrInvalidDate
	}
	if start != nil && end != nil && end.Before(*start) {
		return nil, util.ErrInvalidDateRange
	}

	unit := &model.Unit{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Category:    strings.TrimSpace(in.Category),
		VideoURL:    strings.TrimSpace(in.VideoURL),
		StartDate:   start,
		EndDate:     end,
		TeacherID:   teacherID,
	}
	if err := s.UnitRepo.Create(ctx, unit); err != nil {
		return nil, err
	}
	s.Cache.Invalidate(ctx)

	created, err := s.UnitRepo.FindByID(ctx, unit.ID)
	if err != nil {
		return nil, err
	}
	summaries, err := s.summarize(ctx, []model.Unit{*created})
	if err != nil {
		return nil, err
	}
	return &summaries[0], nil
}

func (s *UnitService) Rate(ctx context.Context, studentID uint, in RatingInput) error {
	if in.Score < 1 || in.Score > 5 {
		return util.ErrInvalidRating
	}
	if _, err := s.UnitRepo.FindByID(ctx, in.UnitID); errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrUnitNotFound
	} else if err != nil {
		return err
	}

	rating := &model.Rating{
		StudentID: studentID,
		UnitID:    in.UnitID,
		Score:     in.Score,
		Comment:   strings.TrimSpace(in.Comment),
		CreatedAt: time.Now(),
	}
	if err := s.RatingRepo.Create(ctx, rating); err != nil {
		return err
	}
	s.Cache.Invalidate(ctx)
	return nil
}

func (s *UnitService) cachedList(ctx context.Context, key string, load func() ([]model.Unit, error)) ([]UnitSummary, error) {
	var summaries []UnitSummary
	if s.Cache.Get(ctx, key, &summaries) {
		return summaries, nil
	}
	units, err := load()
	if err != nil {
		return nil, err
	}
	if summaries, err = s.summarize(ctx, units); err != nil {
		return nil, err
	}
	s.Cache.Set(ctx, key, summaries)
	return summaries, nil
}

func (s *UnitService) summarize(ctx context.Context, units []model.Unit) ([]UnitSummary, error) {
	ids := make([]uint, 0, len(units))
	for _, u := range units {
		ids = append(ids, u.ID)
	}
	stats, err := s.UnitRepo.Stats(ctx, ids)
	if err != nil {
		return nil, err
	}

	summaries := make([]UnitSummary, 0, len(units))
	for _, u := range units {
		st := stats[u.ID]
		summaries = append(summaries, UnitSummary{
			ID:            u.ID,
			Title:         u.Title,
			Description:   u.Description,
			Category:      u.Category,
			StartDate:     datePtr(u.StartDate),
			EndDate:       datePtr(u.EndDate),
			Teacher:       TeacherRef{ID: u.TeacherID, Name: u.Teacher.Username},
			AverageRating: st.AverageRating,
			RatingCount:   st.RatingCount,
			TotalEnrolled: st.TotalEnrolled,
		})
	}
	return summaries, nil
}

func datePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := util.FormatDate(t)
	return &s
}
