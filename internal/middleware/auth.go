package middleware

import (
	"context"
	"lms_backend/internal/config"
	"lms_backend/internal/model"
	"lms_backend/internal/util"
	"lms_backend/pkg/logger"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TokenRevocationChecker 查询令牌是否已注销
type TokenRevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func authenticate(c *gin.Context, cfg *config.Config, checker TokenRevocationChecker) (*util.Claims, string) {
	tokenString := bearerToken(c)
	if tokenString == "" {
		return nil, "Token is missing"
	}

	claims, err := util.ParseJWT(tokenString, cfg.JWT.Secret)
	if err != nil {
		logger.Log.Debug("JWT parse failed", zap.Error(err))
		return nil, "Invalid token"
	}

	if checker != nil && claims.ID != "" {
		revoked, err := checker.IsRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			// 黑名单不可用时放行，令牌本身仍在有效期内
			logger.Log.Warn("Token blacklist lookup failed", zap.Error(err))
		} else if revoked {
			return nil, "Token has been revoked"
		}
	}
	return claims, ""
}

func AuthMiddleware(cfg *config.Config, checker TokenRevocationChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, reason := authenticate(c, cfg, checker)
		if claims == nil {
			util.Error(c, http.StatusUnauthorized, reason)
			c.Abort()
			return
		}

		c.Set("user", claims)
		c.Set("token", bearerToken(c))
		c.Next()
	}
}

// TryAuthMiddleware 有合法令牌时写入用户信息，否则按匿名继续
func TryAuthMiddleware(cfg *config.Config, checker TokenRevocationChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, _ := authenticate(c, cfg, checker); claims != nil {
			c.Set("user", claims)
		}
		c.Next()
	}
}

func RoleMiddleware(roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := util.GetUserFromContext(c)
		if user == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}

		util.Forbidden(c)
		c.Abort()
	}
}

// SelfOnly 路径参数中的用户 ID 必须是当前用户
func SelfOnly(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := util.GetUserFromContext(c)
		if user == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}
		id, ok := util.ParseUintParam(c.Param(param))
		if !ok || id != user.UserID {
			util.Error(c, http.StatusForbidden, "Unauthorized access")
			c.Abort()
			return
		}
		c.Next()
	}
}
