package controller

import (
	"errors"
	"lms_backend/internal/util"
	"lms_backend/pkg/coursework"
	"net/http"

	"github.com/gin-gonic/gin"
)

var errorStatus = map[error]int{
	util.ErrUserNotFound:            http.StatusNotFound,
	util.ErrTeacherNotFound:         http.StatusNotFound,
	util.ErrUnitNotFound:            http.StatusNotFound,
	util.ErrNotEnrolled:             http.StatusNotFound,
	util.ErrAssignmentNotFound:      http.StatusNotFound,
	util.ErrSubmissionNotFound:      http.StatusNotFound,
	util.ErrProfileNotFound:         http.StatusNotFound,
	util.ErrEmailRegistered:         http.StatusConflict,
	util.ErrUsernameTaken:           http.StatusConflict,
	util.ErrAlreadyEnrolled:         http.StatusConflict,
	util.ErrProfileExists:           http.StatusConflict,
	util.ErrInvalidCredentials:      http.StatusUnauthorized,
	util.ErrEmailMismatch:           http.StatusUnauthorized,
	util.ErrWrongPassword:           http.StatusUnauthorized,
	util.ErrPermissionDenied:        http.StatusForbidden,
	util.ErrPasswordTooShort:        http.StatusBadRequest,
	util.ErrInvalidProgress:         http.StatusBadRequest,
	util.ErrInvalidRating:           http.StatusBadRequest,
	util.ErrInvalidMaxScore:         http.StatusBadRequest,
	util.ErrInvalidFile:             http.StatusBadRequest,
	util.ErrInvalidDate:             http.StatusBadRequest,
	util.ErrNoGradeFields:           http.StatusBadRequest,
	util.ErrFileTooLarge:            http.StatusRequestEntityTooLarge,
	util.ErrInvalidGrade:            http.StatusUnprocessableEntity,
	util.ErrInvalidDateRange:        http.StatusUnprocessableEntity,
	coursework.ErrEmptySubmission:   http.StatusBadRequest,
	coursework.ErrInvalidURL:        http.StatusBadRequest,
	coursework.ErrMultipleModes:     http.StatusBadRequest,
	coursework.ErrUnknownSubmission: http.StatusBadRequest,
}

// respondError 将业务错误映射为 HTTP 状态码，未知错误记录日志后返回 500
func respondError(ctx *gin.Context, err error) {
	var scoreErr *coursework.ScoreError
	if errors.As(err, &scoreErr) {
		util.UnprocessableEntity(ctx, scoreErr.Error(), map[string]string{
			string(scoreErr.Field): scoreErr.Message,
		})
		return
	}

	for target, status := range errorStatus {
		if errors.Is(err, target) {
			util.Error(ctx, status, err.Error())
			return
		}
	}
	util.LogInternalError(ctx, err)
}

// currentUserID 已通过 AuthMiddleware 的请求一定有用户
func currentUserID(ctx *gin.Context) uint {
	if claims := util.GetUserFromContext(ctx); claims != nil {
		return claims.UserID
	}
	return 0
}

func paramID(ctx *gin.Context, name string) (uint, bool) {
	id, ok := util.ParseUintParam(ctx.Param(name))
	if !ok {
		util.BadRequest(ctx, "invalid "+name)
	}
	return id, ok
}
