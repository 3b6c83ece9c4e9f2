package dashboard

import (
	"log"
	"net/http"

	"github.com/anoixa/fish-bed/api/common"
	"github.com/anoixa/fish-bed/api/middleware"
	"github.com/anoixa/fish-bed/internal/dashboard"
	"github.com/anoixa/fish-bed/internal/i18n"
	"github.com/gin-gonic/gin"
)

// Handler 仪表盘处理器
type Handler struct {
	svc *dashboard.Service
}

// NewHandler 创建仪表盘处理器
func NewHandler(svc *dashboard.Service) *Handler {
	return &Handler{
		svc: svc,
	}
}

// GetSummary 仪表盘首页：欢迎名、视图与统计
// GET /api/v1/dashboard
func (h *Handler) GetSummary(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserIDKey)
	summary, err := h.svc.GetSummary(c.Request.Context(), userID)
	if err != nil {
		log.Printf("[Dashboard] Failed to load summary for user %d: %v", userID, err)
		common.RespondError(c, http.StatusInternalServerError, common.T(c, i18n.MsgInternalError))
		return
	}

	common.RespondSuccessMessage(c, common.T(c, i18n.MsgWelcome, summary.DisplayName), summary)
}

// RefreshSummary 丢弃首页缓存
// POST /api/v1/dashboard/refresh
func (h *Handler) RefreshSummary(c *gin.Context) {
	if err := h.svc.RefreshCache(c.Request.Context(), c.GetUint(middleware.ContextUserIDKey)); err != nil {
		common.RespondError(c, http.StatusInternalServerError, err.Error())
		return
	}

	common.RespondSuccess(c, nil)
}

// SetupRoutes 注册仪表盘路由
func (h *Handler) SetupRoutes(router *gin.RouterGroup) {
	group := router.Group("/dashboard")
	{
		group.GET("", h.GetSummary)
		group.POST("/refresh", h.RefreshSummary)
	}
}
