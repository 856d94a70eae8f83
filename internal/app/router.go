package app

import (
	"lms_backend/docs"
	"lms_backend/internal/config"
	"lms_backend/internal/middleware"
	"lms_backend/internal/model"
	"lms_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/health", c.health.HealthCheck)
	router.GET("/", c.home.Welcome)

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c, cfg)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg, a.services.blacklist))
	{
		// 学生/通用 授权接口
		a.registerStudentRoutes(authGroup, c)

		// 教师相关接口
		a.registerTeacherRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	public := router.Group("/api")
	{
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
		public.POST("/teacher/register", c.auth.TeacherRegister)
		public.POST("/teacher/login", c.auth.TeacherLogin)
		public.GET("/testimonials", c.home.Testimonials)

		// 单元目录
		public.GET("/units", c.unit.ListUnits)
		public.GET("/units/latest", c.unit.Latest)
		public.GET("/units/popular", c.unit.Popular)
		public.GET("/units/recommended", c.unit.Recommended)
		public.GET("/units/categories", c.unit.Categories)
		public.GET("/units/category/:category", c.unit.ListByCategory)
		// 登录用户额外返回是否已选课
		public.GET("/units/:id", middleware.TryAuthMiddleware(cfg, a.services.blacklist), c.unit.GetUnit)

		// 教师展示
		public.GET("/teacher/", c.unit.FeaturedTeachers)
		public.GET("/teacher/:id", c.unit.TeacherDetail)
	}
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	self := middleware.SelfOnly("id")

	// 账号
	rg.POST("/logout", c.auth.Logout)
	rg.GET("/me", c.auth.Me)
	rg.GET("/users/:id", self, c.auth.GetUser)
	rg.PATCH("/change-password/:id", self, c.auth.ChangePassword)

	// 个人设置
	rg.GET("/profile/:id", self, c.profile.GetProfile)
	rg.POST("/profile/:id", self, c.profile.CreateProfile)
	rg.PUT("/profile/:id", self, c.profile.UpdateProfile)

	// 选课与进度
	rg.POST("/enrollments", c.enrollment.Enroll)
	rg.POST("/ratings", c.unit.Rate)
	rg.GET("/units/progress", c.enrollment.InProgress)
	rg.GET("/student/units/:id", self, c.enrollment.StudentUnits)
	rg.GET("/student/:id/units", self, c.enrollment.StudentUnits)
	rg.PUT("/student/units/:id/:unitId/progress", self, c.enrollment.UpdateProgress)
	rg.DELETE("/student/units/:id/:unitId", self, c.enrollment.Unenroll)
	rg.GET("/student-enrolled-units/:id", self, c.enrollment.EnrolledUnits)
	rg.DELETE("/student-enrolled-units/:id/:unitId", self, c.enrollment.Unenroll)

	// 作业
	rg.GET("/student/units/:id/assignments", c.assignment.StudentAssignments)
	rg.POST("/submissions", c.assignment.Submit)
	rg.GET("/student/submissions", c.assignment.StudentSubmissions)

	// 仪表盘
	rg.GET("/student/dashboard/:id", self, c.dashboard.StudentDashboard)
	rg.GET("/student/results/:id", self, c.dashboard.StudentResults)
}

func (a *App) registerTeacherRoutes(rg *gin.RouterGroup, c *controllers) {
	teacher := rg.Group("")
	teacher.Use(middleware.RoleMiddleware(model.Teacher))
	{
		self := middleware.SelfOnly("id")

		teacher.POST("/units/create", c.unit.CreateUnit)
		teacher.GET("/teacher/units", c.unit.MyUnits)
		teacher.GET("/teacher/:id/units", self, c.unit.MyUnits)

		// 成绩册
		teacher.GET("/teacher/units/:unitId/students", c.grade.UnitStudents)
		teacher.PUT("/teacher/students/:studentId/grades", c.grade.UpdateGrades)

		// 作业与批改
		teacher.POST("/assignments", c.assignment.CreateAssignment)
		teacher.GET("/teacher/units/:unitId/submissions", c.assignment.UnitSubmissions)
		teacher.POST("/submissions/:id/grade", c.assignment.GradeSubmission)

		teacher.GET("/teacher/dashboard/:id", self, c.dashboard.TeacherDashboard)
		teacher.GET("/teacher/enrolled-students/:id", self, c.dashboard.EnrolledStudents)
	}
}
