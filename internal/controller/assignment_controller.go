package controller

import (
	"errors"
	"lms_backend/internal/service"
	"lms_backend/internal/util"
	"net/http"

	"github.com/gin-gonic/gin"
)

type AssignmentController struct {
	AssignmentService *service.AssignmentService
	SubmissionService *service.SubmissionService
}

func NewAssignmentController(assignmentService *service.AssignmentService, submissionService *service.SubmissionService) *AssignmentController {
	return &AssignmentController{
		AssignmentService: assignmentService,
		SubmissionService: submissionService,
	}
}

// CreateAssignment godoc
// @Summary 创建作业
// @Description due_date 支持 YYYY-MM-DD HH:MM、YYYY-MM-DDTHH:MM 与 RFC3339
// @Tags 作业
// @Security BearerAuth
// @Accept  json
// @Produce  json
// @Param   body body service.CreateAssignmentInput true "作业信息"
// @Success 201 {object} util.Response{data=service.AssignmentView}
// @Failure 403 {object} util.Response "单元不属于当前教师"
// @Router /api/assignments [post]
func (c *AssignmentController) CreateAssignment(ctx *gin.Context) {
	var req service.CreateAssignmentInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Missing required fields")
		return
	}

	a, err := c.AssignmentService.Create(ctx.Request.Context(), currentUserID(ctx), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, a)
}

// StudentAssignments godoc
// @Summary 学生查看单元作业
// @Tags 作业
// @Security BearerAuth
// @Produce  json
// @Param   id path int true "单元ID"
// @Success 200 {object} util.Response{data=[]service.StudentAssignment}
// @Failure 403 {object} util.Response "未选该单元"
// @Router /api/student/units/{id}/assignments [get]
func (c *AssignmentController) StudentAssignments(ctx *gin.Context) {
	unitID, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	assignments, err := c.AssignmentService.StudentAssignments(ctx.Request.Context(), currentUserID(ctx), unitID)
	if errors.Is(err, util.ErrNotEnrolled) {
		util.Error(ctx, http.StatusForbidden, "You are not enrolled in this unit")
		return
	}
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, assignments)
}

// Submit godoc
// @Summary 提交作业
// @Description 文本、文件、链接三选一
// @Tags 作业
// @Security BearerAuth
// @Accept  multipart/form-data
// @Produce  json
// @Param   assignment_id formData int true "作业ID"
// @Param   submission_text formData string false "文本"
// @Param   submission_link formData string false "链接"
// @Param   document formData file false "文档"
// @Success 201 {object} util.Response{data=service.SubmissionView}
// @Failure 400 {object} util.Response "提交内容无效"
// @Router /api/submissions [post]
func (c *AssignmentController) Submit(ctx *gin.Context) {
	assignmentID, ok := util.ParseUintParam(ctx.PostForm("assignment_id"))
	if !ok {
		util.BadRequest(ctx, "assignment_id is required")
		return
	}

	in := service.SubmitInput{
		AssignmentID: assignmentID,
		Text:         ctx.PostForm("submission_text"),
		Link:         ctx.PostForm("submission_link"),
	}
	if file, err := ctx.FormFile("document"); err == nil {
		in.File = file
	} else if !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart) {
		util.BadRequest(ctx, "invalid document upload")
		return
	}

	sub, err := c.SubmissionService.Submit(ctx.Request.Context(), currentUserID(ctx), in)
	if errors.Is(err, util.ErrNotEnrolled) {
		util.Error(ctx, http.StatusForbidden, "You are not enrolled in this unit")
		return
	}
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, sub)
}

// UnitSubmissions godoc
// @Summary 教师查看单元提交
// @Tags 作业
// @Security BearerAuth
// @Produce  json
// @Param   unitId path int true "单元ID"
// @Success 200 {object} util.Response{data=[]service.SubmissionView}
// @Router /api/teacher/units/{unitId}/submissions [get]
func (c *AssignmentController) UnitSubmissions(ctx *gin.Context) {
	unitID, ok := paramID(ctx, "unitId")
	if !ok {
		return
	}
	subs, err := c.SubmissionService.UnitSubmissions(ctx.Request.Context(), currentUserID(ctx), unitID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, subs)
}

// GradeSubmission godoc
// @Summary 批改提交
// @Tags 作业
// @Security BearerAuth
// @Accept  json
// @Produce  json
// @Param   id path int true "提交ID"
// @Param   body body service.GradeSubmissionInput true "分数与评语"
// @Success 200 {object} util.Response{data=service.SubmissionView}
// @Failure 422 {object} util.Response "分数超出范围"
// @Router /api/submissions/{id}/grade [post]
func (c *AssignmentController) GradeSubmission(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	var req service.GradeSubmissionInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "grade is required")
		return
	}

	sub, err := c.SubmissionService.Grade(ctx.Request.Context(), currentUserID(ctx), id, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, sub)
}

// StudentSubmissions godoc
// @Summary 学生的提交与成绩
// @Tags 作业
// @Security BearerAuth
// @Produce  json
// @Success 200 {object} util.Response{data=[]service.StudentSubmission}
// @Router /api/student/submissions [get]
func (c *AssignmentController) StudentSubmissions(ctx *gin.Context) {
	subs, err := c.SubmissionService.StudentSubmissions(ctx.Request.Context(), currentUserID(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, subs)
}
