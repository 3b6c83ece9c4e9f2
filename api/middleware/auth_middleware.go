package middleware

import (
	"net/http"
	"strings"

	"github.com/anoixa/fish-bed/api/common"
	"github.com/anoixa/fish-bed/internal/auth"
	"github.com/anoixa/fish-bed/internal/i18n"
	"github.com/gin-gonic/gin"
)

const (
	ContextUserIDKey   = "user_id"
	ContextUsernameKey = "username"
	ContextRoleKey     = "role"
	AuthTypeKey        = "auth_type"

	AuthTypeJWT = "jwt"
)

// BearerToken 从 Authorization 头取出 Bearer 令牌
func BearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	scheme, token, ok := strings.Cut(authHeader, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// Auth 校验访问令牌，失败时中断请求，后续处理器不会执行
func Auth(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		if token == "" {
			common.RespondErrorAbort(c, http.StatusUnauthorized, common.T(c, i18n.MsgAuthRequired))
			return
		}

		claims, err := jwtService.ValidateAccessToken(token)
		if err != nil {
			common.RespondErrorAbort(c, http.StatusUnauthorized, common.T(c, i18n.MsgInvalidToken))
			return
		}

		role := claims.Role
		if role == "" {
			role = "user"
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextUsernameKey, claims.Username)
		c.Set(ContextRoleKey, role)
		c.Set(AuthTypeKey, AuthTypeJWT)

		c.Next()
	}
}
