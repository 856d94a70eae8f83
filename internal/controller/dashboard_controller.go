package controller

import (
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	DashboardService *service.DashboardService
}

func NewDashboardController(dashboardService *service.DashboardService) *DashboardController {
	return &DashboardController{DashboardService: dashboardService}
}

// StudentDashboard godoc
// @Summary 学生仪表盘
// @Tags 仪表盘
// @Security BearerAuth
// @Produce  json
// @Param   id path int true "学生ID"
// @Success 200 {object} util.Response{data=service.StudentDashboard}
// @Router /api/student/dashboard/{id} [get]
func (c *DashboardController) StudentDashboard(ctx *gin.Context) {
	d, err := c.DashboardService.StudentDashboard(ctx.Request.Context(), currentUserID(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, d)
}

// TeacherDashboard godoc
// @Summary 教师仪表盘
// @Tags 仪表盘
// @Security BearerAuth
// @Produce  json
// @Param   id path int true "教师ID"
// @Success 200 {object} util.Response{data=service.TeacherDashboard}
// @Router /api/teacher/dashboard/{id} [get]
func (c *DashboardController) TeacherDashboard(ctx *gin.Context) {
	d, err := c.DashboardService.TeacherDashboard(ctx.Request.Context(), currentUserID(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, d)
}

// EnrolledStudents godoc
// @Summary 教师名下的选课学生
// @Tags 仪表盘
// @Security BearerAuth
// @Produce  json
// @Param   id path int true "教师ID"
// @Success 200 {object} util.Response
// @Router /api/teacher/enrolled-students/{id} [get]
func (c *DashboardController) EnrolledStudents(ctx *gin.Context) {
	rows, err := c.DashboardService.EnrolledStudents(ctx.Request.Context(), currentUserID(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"enrolled_students": rows})
}

// StudentResults godoc
// @Summary 学生各单元成绩与趋势
// @Tags 仪表盘
// @Security BearerAuth
// @Produce  json
// @Param   id path int true "学生ID"
// @Success 200 {object} util.Response{data=service.StudentResults}
// @Router /api/student/results/{id} [get]
func (c *DashboardController) StudentResults(ctx *gin.Context) {
	results, err := c.DashboardService.StudentResults(ctx.Request.Context(), currentUserID(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, results)
}
