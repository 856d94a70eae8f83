package controller

import (
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type GradeController struct {
	GradeService *service.GradeService
}

func NewGradeController(gradeService *service.GradeService) *GradeController {
	return &GradeController{GradeService: gradeService}
}

// UnitStudents godoc
// @Summary 单元学生成绩表
// @Tags 成绩
// @Security BearerAuth
// @Produce  json
// @Param   unitId path int true "单元ID"
// @Success 200 {object} util.Response{data=[]service.GradeRow}
// @Failure 404 {object} util.Response "单元不存在或不属于当前教师"
// @Router /api/teacher/units/{unitId}/students [get]
func (c *GradeController) UnitStudents(ctx *gin.Context) {
	unitID, ok := paramID(ctx, "unitId")
	if !ok {
		return
	}
	rows, err := c.GradeService.UnitGrades(ctx.Request.Context(), currentUserID(ctx), unitID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, rows)
}

// UpdateGrades godoc
// @Summary 更新学生成绩
// @Description 只更新请求中出现的字段；assignment_score 0-10，cat_score 0-20，exam_score 0-70
// @Tags 成绩
// @Security BearerAuth
// @Accept  json
// @Produce  json
// @Param   studentId path int true "学生ID"
// @Param   body body service.GradeUpdateInput true "成绩"
// @Success 200 {object} util.Response{data=service.GradeRow}
// @Failure 404 {object} util.Response "选课记录不存在"
// @Failure 422 {object} util.Response "分数超出范围"
// @Router /api/teacher/students/{studentId}/grades [put]
func (c *GradeController) UpdateGrades(ctx *gin.Context) {
	studentID, ok := paramID(ctx, "studentId")
	if !ok {
		return
	}
	var req service.GradeUpdateInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "unit_id is required")
		return
	}

	row, err := c.GradeService.UpdateGrades(ctx.Request.Context(), currentUserID(ctx), studentID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.SuccessWithMessage(ctx, "Grades updated successfully", row)
}
