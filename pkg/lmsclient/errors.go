package lmsclient

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

var (
	ErrNotLoggedIn      = errors.New("not logged in")
	ErrUnknownStudent   = errors.New("student is not in the grade book")
	ErrUnknownUnit      = errors.New("unit is not in the enrolled list")
	ErrPageOutOfRange   = errors.New("page out of range")
	ErrPasswordTooShort = errors.New("Password must be at least 6 characters long")
)

// APIError 服务端返回的非 2xx 响应
type APIError struct {
	Status  int
	Message string
	Details map[string]string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("lms api: %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("lms api: %d %s", e.Status, e.Message)
}

func (e *APIError) IsUnauthorized() bool { return e.Status == http.StatusUnauthorized }
func (e *APIError) IsForbidden() bool    { return e.Status == http.StatusForbidden }
func (e *APIError) IsNotFound() bool     { return e.Status == http.StatusNotFound }
func (e *APIError) IsConflict() bool     { return e.Status == http.StatusConflict }

// ValidationError 本地校验失败，请求不会发出
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// AsAPIError 取出错误链中的 *APIError
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
