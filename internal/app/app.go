package app

import (
	"context"
	"lms_backend/internal/config"
	"lms_backend/internal/controller"
	"lms_backend/internal/repository"
	"lms_backend/internal/service"
	"lms_backend/internal/util"
	"lms_backend/pkg/configwatcher"
	"lms_backend/pkg/database"
	"lms_backend/pkg/logger"
	"lms_backend/pkg/monitoring"
	"lms_backend/pkg/security"
	"lms_backend/pkg/tracing"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const configFile = "configs/config.yaml"

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	origins         *security.OriginList
	limiter         *security.RateLimiter
	tracer          *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user        *repository.UserRepository
	unit        *repository.UnitRepository
	rating      *repository.RatingRepository
	profile     *repository.ProfileRepository
	enrollment  *repository.EnrollmentRepository
	assignment  *repository.AssignmentRepository
	submission  *repository.SubmissionRepository
	performance *repository.PerformanceRepository
}

type services struct {
	blacklist  service.TokenBlacklist
	cache      service.ListingCache
	auth       *service.AuthService
	storage    *service.StorageService
	unit       *service.UnitService
	enrollment *service.EnrollmentService
	grade      *service.GradeService
	assignment *service.AssignmentService
	submission *service.SubmissionService
	profile    *service.ProfileService
	dashboard  *service.DashboardService
}

type controllers struct {
	auth       *controller.AuthController
	unit       *controller.UnitController
	enrollment *controller.EnrollmentController
	grade      *controller.GradeController
	assignment *controller.AssignmentController
	profile    *controller.ProfileController
	dashboard  *controller.DashboardController
	home       *controller.HomeController
	health     *controller.HealthController
}

// RegisterConfigCallback 配置文件变更后依次回调
func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) applyConfig(cfg *config.Config) {
	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:        repository.NewUserRepository(db),
		unit:        repository.NewUnitRepository(db),
		rating:      repository.NewRatingRepository(db),
		profile:     repository.NewProfileRepository(db),
		enrollment:  repository.NewEnrollmentRepository(db),
		assignment:  repository.NewAssignmentRepository(db),
		submission:  repository.NewSubmissionRepository(db),
		performance: repository.NewPerformanceRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.blacklist = service.NewTokenBlacklist(rdb)
	s.cache = service.NewListingCache(rdb, cfg.Redis.CacheTTL)
	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, s.blacklist, cfg)
	s.unit = service.NewUnitService(repos.unit, repos.user, repos.enrollment, repos.rating, s.cache)
	s.enrollment = service.NewEnrollmentService(repos.enrollment, repos.unit, s.cache)
	s.grade = service.NewGradeService(repos.enrollment, repos.unit)
	s.assignment = service.NewAssignmentService(repos.assignment, repos.unit, repos.enrollment, repos.submission)
	s.submission = service.NewSubmissionService(repos.submission, repos.assignment, repos.unit, repos.enrollment, s.storage)
	s.profile = service.NewProfileService(repos.profile, repos.user)
	s.dashboard = service.NewDashboardService(repos.enrollment, repos.unit, repos.performance)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:       controller.NewAuthController(s.auth),
		unit:       controller.NewUnitController(s.unit),
		enrollment: controller.NewEnrollmentController(s.enrollment),
		grade:      controller.NewGradeController(s.grade),
		assignment: controller.NewAssignmentController(s.assignment, s.submission),
		profile:    controller.NewProfileController(s.profile),
		dashboard:  controller.NewDashboardController(s.dashboard),
		home:       controller.NewHomeController(),
		health:     controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(a.origins))
	router.Use(security.Secure())
	router.Use(a.limiter.Middleware())

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// Build 在已建立的连接上装配路由，rdb 可为 nil
func Build(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *App {
	if err := util.RegisterValidators(); err != nil {
		logger.Log.Error("Failed to register validators", zap.Error(err))
	}
	monitoring.Init()

	app := &App{
		Config:  cfg,
		DB:      db,
		Redis:   rdb,
		origins: security.NewOriginList(cfg.CORS.AllowedOrigins),
		limiter: security.NewRateLimiter(cfg.RateLimit.MaxRequests, cfg.RateLimit.RateWindow()),
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, db, rdb)

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == util.StorageLocal && cfg.Storage.LocalPath != "" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	app.RegisterConfigCallback(func(c *config.Config) {
		app.origins.Update(c.CORS.AllowedOrigins)
		app.limiter.SetLimit(c.RateLimit.MaxRequests, c.RateLimit.RateWindow())
		logger.Log.Info("Runtime settings updated",
			zap.Strings("allowed_origins", c.CORS.AllowedOrigins),
			zap.Int("max_requests", c.RateLimit.MaxRequests))
	})

	return app
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")
	gin.SetMode(cfg.Server.Mode)

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// release 模式下只有显式指定时才迁移
	if cfg.Server.Mode != gin.ReleaseMode || cfg.ForceMigrate {
		if err := database.Migrate(db); err != nil {
			logger.Log.Fatal("Failed to migrate database", zap.Error(err))
		}
	}
	if cfg.MigrateOnly {
		return &App{Config: cfg, DB: db}
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := Build(cfg, db, rdb)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("lms-backend", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	return app
}

func (a *App) startBackgroundTasks(ctx context.Context) {
	go a.limiter.Cleanup(ctx.Done())

	path, err := filepath.Abs(configFile)
	if err != nil {
		logger.Log.Warn("Config watcher disabled", zap.Error(err))
		return
	}
	go func() {
		if err := configwatcher.WatchConfig(ctx, path, a.applyConfig); err != nil {
			logger.Log.Warn("Config watcher stopped", zap.Error(err))
		}
	}()
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	bgCtx, stopBackground := context.WithCancel(context.Background())
	a.startBackgroundTasks(bgCtx)

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	stopBackground()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}

	log.Println("Server exiting")
}
