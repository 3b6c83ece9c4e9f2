package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/anoixa/fish-bed/api/common"
	"github.com/anoixa/fish-bed/internal/i18n"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/semaphore"
)

type ConcurrencyLimiter struct {
	sem *semaphore.Weighted
}

// NewConcurrencyLimiter 并发限制器
func NewConcurrencyLimiter(maxConcurrency int64) *ConcurrencyLimiter {
	if maxConcurrency <= 0 {
		maxConcurrency = 100
	}
	return &ConcurrencyLimiter{
		sem: semaphore.NewWeighted(maxConcurrency),
	}
}

// Middleware 无空闲槽位时立即返回 503
func (cl *ConcurrencyLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cl.sem.TryAcquire(1) {
			common.RespondErrorAbort(c, http.StatusServiceUnavailable, common.T(c, i18n.MsgServerBusy))
			return
		}
		defer cl.sem.Release(1)

		c.Next()
	}
}

// MiddlewareWithBlock 最多等待 timeout 再拒绝，用于上传这类慢请求
func (cl *ConcurrencyLimiter) MiddlewareWithBlock(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		if err := cl.sem.Acquire(ctx, 1); err != nil {
			common.RespondErrorAbort(c, http.StatusServiceUnavailable, common.T(c, i18n.MsgServerBusy))
			return
		}
		defer cl.sem.Release(1)

		c.Next()
	}
}
