package controller

import (
	"lms_backend/internal/model"
	"lms_backend/internal/service"
	"lms_backend/internal/util"
	"net/http"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

// Register godoc
// @Summary 学生注册
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body service.RegisterInput true "注册信息"
// @Success 201 {object} util.Response{data=service.AuthResult}
// @Failure 400 {object} util.Response "缺少必填字段"
// @Failure 409 {object} util.Response "邮箱已被注册"
// @Router /api/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	c.register(ctx, model.Student)
}

// TeacherRegister godoc
// @Summary 教师注册
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body service.RegisterInput true "注册信息"
// @Success 201 {object} util.Response{data=service.AuthResult}
// @Failure 409 {object} util.Response "邮箱已被注册"
// @Router /api/teacher/register [post]
func (c *AuthController) TeacherRegister(ctx *gin.Context) {
	c.register(ctx, model.Teacher)
}

func (c *AuthController) register(ctx *gin.Context, role model.UserRole) {
	var req service.RegisterInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Missing required fields")
		return
	}

	result, err := c.AuthService.Register(ctx.Request.Context(), req, role)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, result)
}

// Login godoc
// @Summary 用户登录
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body service.LoginInput true "登录凭证"
// @Success 200 {object} util.Response{data=service.AuthResult}
// @Failure 401 {object} util.Response "凭证错误"
// @Router /api/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req service.LoginInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Missing credentials")
		return
	}

	result, err := c.AuthService.Login(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// TeacherLogin godoc
// @Summary 教师登录
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body service.LoginInput true "登录凭证"
// @Success 200 {object} util.Response{data=service.AuthResult}
// @Failure 404 {object} util.Response "教师账号不存在"
// @Router /api/teacher/login [post]
func (c *AuthController) TeacherLogin(ctx *gin.Context) {
	var req service.LoginInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Missing credentials")
		return
	}

	result, err := c.AuthService.TeacherLogin(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// Logout godoc
// @Summary 注销当前令牌
// @Tags 认证
// @Security BearerAuth
// @Produce  json
// @Success 200 {object} util.Response
// @Router /api/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	if err := c.AuthService.Logout(ctx.Request.Context(), util.GetUserFromContext(ctx)); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.SuccessWithMessage(ctx, "Successfully logged out", nil)
}

// ChangePassword godoc
// @Summary 修改密码
// @Tags 认证
// @Security BearerAuth
// @Accept  json
// @Produce  json
// @Param   id path int true "用户ID"
// @Param   body body service.ChangePasswordInput true "密码信息"
// @Success 200 {object} util.Response
// @Failure 401 {object} util.Response "邮箱或当前密码错误"
// @Router /api/change-password/{id} [patch]
func (c *AuthController) ChangePassword(ctx *gin.Context) {
	var req service.ChangePasswordInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Current password, new password and email are required")
		return
	}

	if err := c.AuthService.ChangePassword(ctx.Request.Context(), currentUserID(ctx), req); err != nil {
		respondError(ctx, err)
		return
	}
	util.SuccessWithMessage(ctx, "Password updated successfully", nil)
}

// GetUser godoc
// @Summary 获取用户信息
// @Tags 用户
// @Security BearerAuth
// @Produce  json
// @Param   id path int true "用户ID"
// @Success 200 {object} util.Response{data=service.UserDetail}
// @Router /api/users/{id} [get]
func (c *AuthController) GetUser(ctx *gin.Context) {
	user, err := c.AuthService.GetUser(ctx.Request.Context(), currentUserID(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

// Me godoc
// @Summary 当前令牌对应的用户
// @Tags 认证
// @Security BearerAuth
// @Produce  json
// @Success 200 {object} util.Response
// @Router /api/me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Error(ctx, http.StatusUnauthorized, "Unauthorized")
		return
	}
	util.Success(ctx, gin.H{"user_id": claims.UserID, "role": claims.Role})
}
