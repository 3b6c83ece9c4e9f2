package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/anoixa/fish-bed/api/common"
	"github.com/anoixa/fish-bed/internal/i18n"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type clientLimiter struct {
	limiter  *rate.Limiter
	mu       sync.Mutex
	lastSeen time.Time
}

func (cl *clientLimiter) touch(now time.Time) {
	cl.mu.Lock()
	cl.lastSeen = now
	cl.mu.Unlock()
}

func (cl *clientLimiter) idleSince(now time.Time) time.Duration {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	return now.Sub(cl.lastSeen)
}

// IPRateLimiter 按客户端 IP 的令牌桶限流
type IPRateLimiter struct {
	rps        float64       // 每秒请求数
	burst      int           // 令牌桶的容量
	expireTime time.Duration // 空闲多久后回收
	limiterMap *sync.Map
	stopChan   chan struct{}
	stopOnce   sync.Once
}

// NewIPRateLimiter 创建限流器并启动后台清理，rps <= 0 表示不限流
func NewIPRateLimiter(rps float64, burst int, expireTime time.Duration) *IPRateLimiter {
	if expireTime <= 0 {
		expireTime = 10 * time.Minute
	}
	limiter := &IPRateLimiter{
		rps:        rps,
		burst:      burst,
		expireTime: expireTime,
		limiterMap: &sync.Map{},
		stopChan:   make(chan struct{}),
	}

	go limiter.cleanupStaleClients()

	return limiter
}

// Allow 判断该 IP 是否还有令牌
func (rl *IPRateLimiter) Allow(ip string) bool {
	now := time.Now()
	val, loaded := rl.limiterMap.Load(ip)
	if !loaded {
		limit := rate.Limit(rl.rps)
		if rl.rps <= 0 {
			limit = rate.Inf
		}
		val, _ = rl.limiterMap.LoadOrStore(ip, &clientLimiter{
			limiter:  rate.NewLimiter(limit, rl.burst),
			lastSeen: now,
		})
	}

	client := val.(*clientLimiter)
	client.touch(now)
	return client.limiter.Allow()
}

// Middleware 超出速率时返回 429
func (rl *IPRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Allow(getClientIP(c)) {
			common.RespondErrorAbort(c, http.StatusTooManyRequests, common.T(c, i18n.MsgTooManyRequests))
			return
		}
		c.Next()
	}
}

// StopCleanup 停止后台清理，可重复调用
func (rl *IPRateLimiter) StopCleanup() {
	rl.stopOnce.Do(func() {
		close(rl.stopChan)
	})
}

func (rl *IPRateLimiter) cleanupStaleClients() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.evict(time.Now())
		case <-rl.stopChan:
			return
		}
	}
}

func (rl *IPRateLimiter) evict(now time.Time) {
	rl.limiterMap.Range(func(key, value interface{}) bool {
		if value.(*clientLimiter).idleSince(now) > rl.expireTime {
			rl.limiterMap.Delete(key)
		}
		return true
	})
}

// getClientIP Get the client's real IP address
func getClientIP(c *gin.Context) string {
	if ip := c.GetHeader("X-Forwarded-For"); ip != "" {
		if first, _, _ := strings.Cut(ip, ","); strings.TrimSpace(first) != "" {
			return strings.TrimSpace(first)
		}
	}
	if ip := c.GetHeader("X-Real-IP"); ip != "" {
		return ip
	}
	return c.ClientIP()
}
