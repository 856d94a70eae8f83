package controller

import (
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProfileController struct {
	ProfileService *service.ProfileService
}

func NewProfileController(profileService *service.ProfileService) *ProfileController {
	return &ProfileController{ProfileService: profileService}
}

// GetProfile godoc
// @Summary 获取个人设置
// @Description 设置不存在时返回 404，客户端据此改为创建
// @Tags 个人资料
// @Security BearerAuth
// @Produce  json
// @Param   id path int true "用户ID"
// @Success 200 {object} util.Response{data=service.ProfileView}
// @Failure 404 {object} util.Response
// @Router /api/profile/{id} [get]
func (c *ProfileController) GetProfile(ctx *gin.Context) {
	profile, err := c.ProfileService.Get(ctx.Request.Context(), currentUserID(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, profile)
}

// CreateProfile godoc
// @Summary 创建个人设置
// @Tags 个人资料
// @Security BearerAuth
// @Accept  json
// @Produce  json
// @Param   id path int true "用户ID"
// @Param   body body service.ProfileInput false "设置"
// @Success 201 {object} util.Response{data=service.ProfileView}
// @Failure 409 {object} util.Response "已存在"
// @Router /api/profile/{id} [post]
func (c *ProfileController) CreateProfile(ctx *gin.Context) {
	var req service.ProfileInput
	if ctx.Request.ContentLength != 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			util.BadRequest(ctx, "invalid profile data")
			return
		}
	}

	profile, err := c.ProfileService.Create(ctx.Request.Context(), currentUserID(ctx), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, profile)
}

// UpdateProfile godoc
// @Summary 更新个人设置
// @Tags 个人资料
// @Security BearerAuth
// @Accept  json
// @Produce  json
// @Param   id path int true "用户ID"
// @Param   body body service.ProfileInput true "设置"
// @Success 200 {object} util.Response{data=service.ProfileView}
// @Router /api/profile/{id} [put]
func (c *ProfileController) UpdateProfile(ctx *gin.Context) {
	var req service.ProfileInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "No data provided")
		return
	}

	profile, err := c.ProfileService.Update(ctx.Request.Context(), currentUserID(ctx), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.SuccessWithMessage(ctx, "Profile updated successfully", profile)
}
