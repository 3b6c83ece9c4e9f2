package middleware

import (
	"context"

	"github.com/anoixa/fish-bed/api/common"
	"github.com/anoixa/fish-bed/internal/i18n"
	"github.com/gin-gonic/gin"
)

// Language 按 Accept-Language 选择响应语言
func Language() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(common.ContextLangKey, i18n.Match(c.GetHeader("Accept-Language")))
		c.Next()
	}
}

// LanguageResolver 读取用户保存的语言
type LanguageResolver interface {
	Language(ctx context.Context, userID uint) string
}

// PreferredLanguage 已登录时以用户设置覆盖请求头，需放在 Auth 之后
func PreferredLanguage(resolver LanguageResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint(ContextUserIDKey)
		if userID != 0 {
			if lang, ok := i18n.Normalize(resolver.Language(c.Request.Context(), userID)); ok {
				c.Set(common.ContextLangKey, lang)
			}
		}
		c.Next()
	}
}
