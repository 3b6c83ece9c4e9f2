package projects

import (
	"errors"
	"log"
	"net/http"

	"github.com/anoixa/fish-bed/api/common"
	"github.com/anoixa/fish-bed/api/middleware"
	"github.com/anoixa/fish-bed/internal/i18n"
	"github.com/anoixa/fish-bed/internal/services/project"
	"github.com/gin-gonic/gin"
)

// Handler 项目处理器
type Handler struct {
	svc *project.Service
}

// NewHandler 创建项目处理器
func NewHandler(svc *project.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, project.ErrNotFound):
		common.RespondError(c, http.StatusNotFound, common.T(c, i18n.MsgProjectNotFound))
	case project.IsValidationError(err):
		common.RespondError(c, http.StatusBadRequest, err.Error())
	default:
		log.Printf("[Project] %s %s failed: %v", c.Request.Method, c.FullPath(), err)
		common.RespondError(c, http.StatusInternalServerError, common.T(c, i18n.MsgInternalError))
	}
}

// List GET /api/v1/projects
func (h *Handler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context(), c.GetUint(middleware.ContextUserIDKey))
	if err != nil {
		h.respondError(c, err)
		return
	}
	common.RespondSuccess(c, list)
}

// Create POST /api/v1/projects
func (h *Handler) Create(c *gin.Context) {
	var in project.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.svc.Create(c.Request.Context(), c.GetUint(middleware.ContextUserIDKey), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	common.RespondCreated(c, common.T(c, i18n.MsgProjectCreated), p)
}

// Get GET /api/v1/projects/:id
func (h *Handler) Get(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), c.GetUint(middleware.ContextUserIDKey), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	common.RespondSuccess(c, p)
}

// Update PUT /api/v1/projects/:id
func (h *Handler) Update(c *gin.Context) {
	var in project.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.svc.Update(c.Request.Context(), c.GetUint(middleware.ContextUserIDKey), c.Param("id"), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	common.RespondSuccessMessage(c, common.T(c, i18n.MsgProjectUpdated), p)
}

// Delete DELETE /api/v1/projects/:id
func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.GetUint(middleware.ContextUserIDKey), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	common.RespondSuccessMessage(c, common.T(c, i18n.MsgProjectDeleted), nil)
}

// SetupRoutes 注册项目路由
func (h *Handler) SetupRoutes(router *gin.RouterGroup) {
	group := router.Group("/projects")
	{
		group.GET("", h.List)
		group.POST("", h.Create)
		group.GET("/:id", h.Get)
		group.PUT("/:id", h.Update)
		group.DELETE("/:id", h.Delete)
	}
}
