package controller

import (
	"errors"
	"lms_backend/internal/service"
	"lms_backend/internal/util"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type UnitController struct {
	UnitService *service.UnitService
}

func NewUnitController(unitService *service.UnitService) *UnitController {
	return &UnitController{UnitService: unitService}
}

// ListUnits godoc
// @Summary 分页获取单元列表
// @Tags 单元
// @Produce  json
// @Param   page query int false "页码" default(1)
// @Param   per_page query int false "每页数量" default(12)
// @Param   sort_by query string false "排序字段" Enums(title, rating, date)
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/units [get]
func (c *UnitController) ListUnits(ctx *gin.Context) {
	c.list(ctx, "")
}

// ListByCategory godoc
// @Summary 按分类分页获取单元
// @Tags 单元
// @Produce  json
// @Param   category path string true "分类"
// @Param   page query int false "页码"
// @Param   per_page query int false "每页数量"
// @Param   sort_by query string false "排序字段"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/units/category/{category} [get]
func (c *UnitController) ListByCategory(ctx *gin.Context) {
	category := strings.TrimSpace(ctx.Param("category"))
	if category == "" {
		util.BadRequest(ctx, util.ErrCategoryRequired.Error())
		return
	}
	c.list(ctx, category)
}

func (c *UnitController) list(ctx *gin.Context, category string) {
	var q service.ListUnitsQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		util.BadRequest(ctx, "invalid pagination parameters")
		return
	}
	q.Category = category

	page, err := c.UnitService.List(ctx.Request.Context(), q)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, page)
}

// GetUnit godoc
// @Summary 单元详情
// @Description 携带令牌时返回 is_enrolled
// @Tags 单元
// @Produce  json
// @Param   id path int true "单元ID"
// @Success 200 {object} util.Response{data=service.UnitDetail}
// @Failure 404 {object} util.Response
// @Router /api/units/{id} [get]
func (c *UnitController) GetUnit(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}

	detail, err := c.UnitService.Detail(ctx.Request.Context(), id, currentUserID(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, detail)
}

// Latest godoc
// @Summary 最新单元
// @Tags 单元
// @Produce  json
// @Success 200 {object} util.Response{data=[]service.UnitSummary}
// @Router /api/units/latest [get]
func (c *UnitController) Latest(ctx *gin.Context) {
	units, err := c.UnitService.Latest(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, units)
}

// Popular godoc
// @Summary 热门单元
// @Tags 单元
// @Produce  json
// @Success 200 {object} util.Response{data=[]service.UnitSummary}
// @Router /api/units/popular [get]
func (c *UnitController) Popular(ctx *gin.Context) {
	units, err := c.UnitService.Popular(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, units)
}

// Recommended godoc
// @Summary 推荐单元
// @Tags 单元
// @Produce  json
// @Success 200 {object} util.Response{data=[]service.UnitSummary}
// @Router /api/units/recommended [get]
func (c *UnitController) Recommended(ctx *gin.Context) {
	units, err := c.UnitService.Recommended(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, units)
}

// Categories godoc
// @Summary 全部分类
// @Tags 单元
// @Produce  json
// @Success 200 {object} util.Response
// @Router /api/units/categories [get]
func (c *UnitController) Categories(ctx *gin.Context) {
	categories, err := c.UnitService.Categories(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"categories": categories})
}

// CreateUnit godoc
// @Summary 教师创建单元
// @Tags 单元
// @Security BearerAuth
// @Accept  json
// @Produce  json
// @Param   body body service.CreateUnitInput true "单元信息"
// @Success 201 {object} util.Response{data=service.UnitSummary}
// @Failure 422 {object} util.Response "校验失败"
// @Router /api/units/create [post]
func (c *UnitController) CreateUnit(ctx *gin.Context) {
	var req service.CreateUnitInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			util.UnprocessableEntity(ctx, "Validation failed", util.ValidationDetails(verrs))
			return
		}
		util.UnprocessableEntity(ctx, "No data provided", nil)
		return
	}

	unit, err := c.UnitService.Create(ctx.Request.Context(), currentUserID(ctx), req)
	if errors.Is(err, util.ErrInvalidDate) {
		util.UnprocessableEntity(ctx, "Invalid date format. Use YYYY-MM-DD", nil)
		return
	}
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, unit)
}

// Rate godoc
// @Summary 为单元评分
// @Tags 单元
// @Security BearerAuth
// @Accept  json
// @Produce  json
// @Param   body body service.RatingInput true "评分"
// @Success 201 {object} util.Response
// @Router /api/ratings [post]
func (c *UnitController) Rate(ctx *gin.Context) {
	var req service.RatingInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "unit_id and score are required")
		return
	}

	if err := c.UnitService.Rate(ctx.Request.Context(), currentUserID(ctx), req); err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, gin.H{"message": "Rating submitted successfully"})
}

// FeaturedTeachers godoc
// @Summary 推荐教师
// @Tags 教师
// @Produce  json
// @Success 200 {object} util.Response{data=[]repository.TeacherSummary}
// @Router /api/teacher/ [get]
func (c *UnitController) FeaturedTeachers(ctx *gin.Context) {
	teachers, err := c.UnitService.FeaturedTeachers(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, teachers)
}

// TeacherDetail godoc
// @Summary 教师详情
// @Tags 教师
// @Produce  json
// @Param   id path int true "教师ID"
// @Success 200 {object} util.Response{data=service.TeacherDetail}
// @Router /api/teacher/{id} [get]
func (c *UnitController) TeacherDetail(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	detail, err := c.UnitService.TeacherDetail(ctx.Request.Context(), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, detail)
}

// MyUnits godoc
// @Summary 当前教师的单元
// @Tags 教师
// @Security BearerAuth
// @Produce  json
// @Success 200 {object} util.Response{data=[]service.UnitSummary}
// @Router /api/teacher/units [get]
func (c *UnitController) MyUnits(ctx *gin.Context) {
	units, err := c.UnitService.TeacherUnits(ctx.Request.Context(), currentUserID(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, units)
}
