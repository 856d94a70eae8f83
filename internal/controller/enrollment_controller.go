package controller

import (
	"lms_backend/internal/service"
	"lms_backend/internal/util"
	"math"

	"github.com/gin-gonic/gin"
)

type EnrollmentController struct {
	EnrollmentService *service.EnrollmentService
}

func NewEnrollmentController(enrollmentService *service.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{EnrollmentService: enrollmentService}
}

// Enroll godoc
// @Summary 选课
// @Tags 选课
// @Security BearerAuth
// @Accept  json
// @Produce  json
// @Param   body body service.EnrollInput true "单元"
// @Success 201 {object} util.Response
// @Failure 404 {object} util.Response "单元不存在"
// @Failure 409 {object} util.Response "重复选课"
// @Router /api/enrollments [post]
func (c *EnrollmentController) Enroll(ctx *gin.Context) {
	var req service.EnrollInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "unit_id is required")
		return
	}

	if err := c.EnrollmentService.Enroll(ctx.Request.Context(), currentUserID(ctx), req.UnitID); err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, gin.H{"message": "Enrollment successful"})
}

// UpdateProgress godoc
// @Summary 更新学习进度
// @Tags 选课
// @Security BearerAuth
// @Accept  json
// @Produce  json
// @Param   id path int true "学生ID"
// @Param   unitId path int true "单元ID"
// @Param   body body service.ProgressInput true "进度 0-100"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response "进度无效"
// @Failure 404 {object} util.Response "未选该单元"
// @Router /api/student/units/{id}/{unitId}/progress [put]
func (c *EnrollmentController) UpdateProgress(ctx *gin.Context) {
	unitID, ok := paramID(ctx, "unitId")
	if !ok {
		return
	}
	var req service.ProgressInput
	if err := ctx.ShouldBindJSON(&req); err != nil || req.Progress == nil {
		util.BadRequest(ctx, "Invalid progress value")
		return
	}
	p := *req.Progress
	if p != math.Trunc(p) {
		util.BadRequest(ctx, "Invalid progress value")
		return
	}

	progress, err := c.EnrollmentService.UpdateProgress(ctx.Request.Context(), currentUserID(ctx), unitID, int(p))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.SuccessWithMessage(ctx, "Progress updated successfully", gin.H{"progress": progress})
}

// Unenroll godoc
// @Summary 退课
// @Tags 选课
// @Security BearerAuth
// @Produce  json
// @Param   id path int true "学生ID"
// @Param   unitId path int true "单元ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/student/units/{id}/{unitId} [delete]
func (c *EnrollmentController) Unenroll(ctx *gin.Context) {
	unitID, ok := paramID(ctx, "unitId")
	if !ok {
		return
	}
	if err := c.EnrollmentService.Unenroll(ctx.Request.Context(), currentUserID(ctx), unitID); err != nil {
		respondError(ctx, err)
		return
	}
	util.SuccessWithMessage(ctx, "Successfully unenrolled from the unit", nil)
}

// StudentUnits godoc
// @Summary 学生已选单元
// @Tags 选课
// @Security BearerAuth
// @Produce  json
// @Param   id path int true "学生ID"
// @Success 200 {object} util.Response{data=[]service.EnrolledUnit}
// @Router /api/student/units/{id} [get]
func (c *EnrollmentController) StudentUnits(ctx *gin.Context) {
	units, err := c.EnrollmentService.StudentUnits(ctx.Request.Context(), currentUserID(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, units)
}

// EnrolledUnits godoc
// @Summary 学生已选单元（包装在 units 字段中）
// @Tags 选课
// @Security BearerAuth
// @Produce  json
// @Param   id path int true "学生ID"
// @Success 200 {object} util.Response
// @Router /api/student-enrolled-units/{id} [get]
func (c *EnrollmentController) EnrolledUnits(ctx *gin.Context) {
	units, err := c.EnrollmentService.StudentUnits(ctx.Request.Context(), currentUserID(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"units": units})
}

// InProgress godoc
// @Summary 进度超过 30% 的单元
// @Tags 选课
// @Security BearerAuth
// @Produce  json
// @Success 200 {object} util.Response{data=[]service.ProgressUnit}
// @Router /api/units/progress [get]
func (c *EnrollmentController) InProgress(ctx *gin.Context) {
	units, err := c.EnrollmentService.InProgress(ctx.Request.Context(), currentUserID(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, units)
}
