package middleware

import (
	"net/http"

	"github.com/anoixa/fish-bed/api/common"
	"github.com/gin-gonic/gin"
)

// MaxBytesReader 限制请求体大小
// Content-Length 已超限时直接 413，否则读取超过 limit 字节时报错
func MaxBytesReader(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit <= 0 || c.Request.Body == nil {
			c.Next()
			return
		}
		if c.Request.ContentLength > limit {
			common.RespondErrorAbort(c, http.StatusRequestEntityTooLarge, http.StatusText(http.StatusRequestEntityTooLarge))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
