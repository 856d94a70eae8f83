package middleware

import (
	"context"
	"lms_backend/internal/config"
	"lms_backend/internal/model"
	"lms_backend/internal/util"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type revokedSet map[string]bool

func (r revokedSet) IsRevoked(_ context.Context, jti string) (bool, error) {
	return r[jti], nil
}

var testCfg = &config.Config{JWT: config.JWTConfig{Secret: "test-secret", ExpireTime: time.Hour}}

func tokenFor(t *testing.T, id uint, role model.UserRole) (string, *util.Claims) {
	t.Helper()
	user := &model.User{Role: role}
	user.ID = id
	token, err := util.GenerateJWT(user, testCfg.JWT.Secret, time.Hour)
	require.NoError(t, err)
	claims, err := util.ParseJWT(token, testCfg.JWT.Secret)
	require.NoError(t, err)
	return token, claims
}

func newRouter(checker TokenRevocationChecker) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	ok := func(c *gin.Context) {
		if claims := util.GetUserFromContext(c); claims != nil {
			c.String(http.StatusOK, "user")
			return
		}
		c.String(http.StatusOK, "anonymous")
	}

	auth := r.Group("/", AuthMiddleware(testCfg, checker))
	auth.GET("/private", ok)
	auth.GET("/teacher", RoleMiddleware(model.Teacher), ok)
	auth.GET("/users/:id", SelfOnly("id"), ok)
	r.GET("/public", TryAuthMiddleware(testCfg, checker), ok)
	return r
}

func get(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	token, claims := tokenFor(t, 3, model.Student)
	revoked := revokedSet{}
	r := newRouter(revoked)

	w := get(r, "/private", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Token is missing")

	w = get(r, "/private", "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid token")

	w = get(r, "/private", token)
	assert.Equal(t, http.StatusOK, w.Code)

	revoked[claims.ID] = true
	w = get(r, "/private", token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Token has been revoked")
}

func TestRoleMiddleware(t *testing.T) {
	r := newRouter(nil)
	student, _ := tokenFor(t, 3, model.Student)
	teacher, _ := tokenFor(t, 4, model.Teacher)

	assert.Equal(t, http.StatusForbidden, get(r, "/teacher", student).Code)
	assert.Equal(t, http.StatusOK, get(r, "/teacher", teacher).Code)
}

func TestSelfOnly(t *testing.T) {
	r := newRouter(nil)
	token, _ := tokenFor(t, 3, model.Student)

	assert.Equal(t, http.StatusOK, get(r, "/users/3", token).Code)
	assert.Equal(t, http.StatusForbidden, get(r, "/users/4", token).Code)
	assert.Equal(t, http.StatusForbidden, get(r, "/users/abc", token).Code)
}

func TestTryAuthMiddleware(t *testing.T) {
	r := newRouter(nil)
	token, _ := tokenFor(t, 3, model.Student)

	assert.Equal(t, "anonymous", get(r, "/public", "").Body.String())
	assert.Equal(t, "anonymous", get(r, "/public", "garbage").Body.String())
	assert.Equal(t, "user", get(r, "/public", token).Body.String())
}
