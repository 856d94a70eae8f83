// 导入演示数据
//
// 用法: go run scripts/seed.go [-file scripts/seed.yaml]
//
// 已存在的账号（按邮箱）和单元（按标题）会被跳过，可重复执行。

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"lms_backend/internal/config"
	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"
	"lms_backend/pkg/coursework"
	"lms_backend/pkg/database"
	"lms_backend/pkg/logger"
	"log"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

type userFixture struct {
	Username       string `yaml:"username"`
	Email          string `yaml:"email"`
	Bio            string `yaml:"bio"`
	Qualifications string `yaml:"qualifications"`
}

type assignmentFixture struct {
	Title       string  `yaml:"title"`
	Description string  `yaml:"description"`
	DueDate     string  `yaml:"due_date"`
	MaxScore    float64 `yaml:"max_score"`
}

type unitFixture struct {
	Title       string              `yaml:"title"`
	Description string              `yaml:"description"`
	Category    string              `yaml:"category"`
	VideoURL    string              `yaml:"video_url"`
	Teacher     string              `yaml:"teacher"`
	StartDate   string              `yaml:"start_date"`
	EndDate     string              `yaml:"end_date"`
	Assignments []assignmentFixture `yaml:"assignments"`
}

type enrollmentFixture struct {
	Student         string   `yaml:"student"`
	Unit            string   `yaml:"unit"`
	Progress        int      `yaml:"progress"`
	AssignmentScore *float64 `yaml:"assignment_score"`
	CatScore        *float64 `yaml:"cat_score"`
	ExamScore       *float64 `yaml:"exam_score"`
}

type ratingFixture struct {
	Student string `yaml:"student"`
	Unit    string `yaml:"unit"`
	Score   int    `yaml:"score"`
	Comment string `yaml:"comment"`
}

type fixtures struct {
	Password    string              `yaml:"password"`
	Teachers    []userFixture       `yaml:"teachers"`
	Students    []userFixture       `yaml:"students"`
	Units       []unitFixture       `yaml:"units"`
	Enrollments []enrollmentFixture `yaml:"enrollments"`
	Ratings     []ratingFixture     `yaml:"ratings"`
}

func loadFixtures(path string) (*fixtures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var fx fixtures
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("解析 %s 失败: %w", path, err)
	}
	if fx.Password == "" {
		fx.Password = "password123"
	}
	return &fx, nil
}

type seeder struct {
	db          *gorm.DB
	users       *repository.UserRepository
	units       *repository.UnitRepository
	assignments *repository.AssignmentRepository
	enrollments *repository.EnrollmentRepository
	ratings     *repository.RatingRepository

	userIDs map[string]uint
	unitIDs map[string]uint
}

func newSeeder(db *gorm.DB) *seeder {
	return &seeder{
		db:          db,
		users:       repository.NewUserRepository(db),
		units:       repository.NewUnitRepository(db),
		assignments: repository.NewAssignmentRepository(db),
		enrollments: repository.NewEnrollmentRepository(db),
		ratings:     repository.NewRatingRepository(db),
		userIDs:     make(map[string]uint),
		unitIDs:     make(map[string]uint),
	}
}

func (s *seeder) run(ctx context.Context, fx *fixtures) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(fx.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	for _, u := range fx.Teachers {
		if err := s.ensureUser(ctx, u, model.Teacher, string(hash)); err != nil {
			return err
		}
	}
	for _, u := range fx.Students {
		if err := s.ensureUser(ctx, u, model.Student, string(hash)); err != nil {
			return err
		}
	}

	for _, u := range fx.Units {
		if err := s.ensureUnit(ctx, u); err != nil {
			return err
		}
	}

	now := time.Now()
	for _, e := range fx.Enrollments {
		if err := s.ensureEnrollment(ctx, e, now); err != nil {
			return err
		}
	}

	for _, r := range fx.Ratings {
		studentID, unitID, err := s.lookup(r.Student, r.Unit)
		if err != nil {
			return err
		}
		if err := s.ratings.Create(ctx, &model.Rating{
			StudentID: studentID,
			UnitID:    unitID,
			Score:     r.Score,
			Comment:   r.Comment,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (s *seeder) ensureUser(ctx context.Context, f userFixture, role model.UserRole, hash string) error {
	existing, err := s.users.FindByEmail(ctx, f.Email)
	if err == nil {
		s.userIDs[f.Email] = existing.ID
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	user := &model.User{
		Username:       f.Username,
		Email:          f.Email,
		Password:       hash,
		Role:           role,
		Bio:            f.Bio,
		Qualifications: f.Qualifications,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return fmt.Errorf("创建用户 %s 失败: %w", f.Email, err)
	}
	s.userIDs[f.Email] = user.ID
	return nil
}

func (s *seeder) ensureUnit(ctx context.Context, f unitFixture) error {
	var existing model.Unit
	err := s.db.WithContext(ctx).Where("title = ?", f.Title).First(&existing).Error
	if err == nil {
		s.unitIDs[f.Title] = existing.ID
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	teacherID, ok := s.userIDs[f.Teacher]
	if !ok {
		return fmt.Errorf("单元 %q 的教师 %s 不存在", f.Title, f.Teacher)
	}
	start, err := util.ParseDate(f.StartDate)
	if err != nil {
		return fmt.Errorf("单元 %q: %w", f.Title, err)
	}
	end, err := util.ParseDate(f.EndDate)
	if err != nil {
		return fmt.Errorf("单元 %q: %w", f.Title, err)
	}

	unit := &model.Unit{
		Title:       f.Title,
		Description: f.Description,
		Category:    f.Category,
		VideoURL:    f.VideoURL,
		TeacherID:   teacherID,
		StartDate:   start,
		EndDate:     end,
	}
	if err := s.units.Create(ctx, unit); err != nil {
		return err
	}
	s.unitIDs[f.Title] = unit.ID

	for _, a := range f.Assignments {
		due, err := util.ParseDueDate(a.DueDate)
		if err != nil {
			return fmt.Errorf("作业 %q: %w", a.Title, err)
		}
		if err := s.assignments.Create(ctx, &model.Assignment{
			UnitID:      unit.ID,
			Title:       a.Title,
			Description: a.Description,
			DueDate:     due,
			MaxScore:    a.MaxScore,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (s *seeder) ensureEnrollment(ctx context.Context, f enrollmentFixture, now time.Time) error {
	studentID, unitID, err := s.lookup(f.Student, f.Unit)
	if err != nil {
		return err
	}
	exists, err := s.enrollments.Exists(ctx, studentID, unitID)
	if err != nil || exists {
		return err
	}

	e := &model.Enrollment{
		StudentID:      studentID,
		UnitID:         unitID,
		EnrollmentDate: now,
		Progress:       f.Progress,
	}
	if err := s.enrollments.Create(ctx, e); err != nil {
		return err
	}

	scores := coursework.Scores{Assignment: f.AssignmentScore, CAT: f.CatScore, Exam: f.ExamScore}
	if scores.Assignment == nil && scores.CAT == nil && scores.Exam == nil {
		return nil
	}
	_, err = s.enrollments.SaveScores(ctx, e, scores, now)
	return err
}

func (s *seeder) lookup(email, title string) (uint, uint, error) {
	studentID, ok := s.userIDs[email]
	if !ok {
		return 0, 0, fmt.Errorf("用户 %s 不存在", email)
	}
	unitID, ok := s.unitIDs[title]
	if !ok {
		return 0, 0, fmt.Errorf("单元 %q 不存在", title)
	}
	return studentID, unitID, nil
}

func main() {
	file := flag.String("file", "scripts/seed.yaml", "演示数据文件")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("数据库迁移失败: %v", err)
	}

	fx, err := loadFixtures(*file)
	if err != nil {
		log.Fatalf("读取演示数据失败: %v", err)
	}

	if err := newSeeder(db).run(context.Background(), fx); err != nil {
		logger.Log.Error("导入演示数据失败", zap.Error(err))
		os.Exit(1)
	}
	logger.Log.Info("演示数据导入完成",
		zap.Int("teachers", len(fx.Teachers)),
		zap.Int("students", len(fx.Students)),
		zap.Int("units", len(fx.Units)))
}
