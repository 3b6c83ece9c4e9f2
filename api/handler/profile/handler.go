package profile

import (
	"errors"
	"log"
	"net/http"

	"github.com/anoixa/fish-bed/api/common"
	"github.com/anoixa/fish-bed/api/middleware"
	"github.com/anoixa/fish-bed/internal/i18n"
	profileSvc "github.com/anoixa/fish-bed/internal/services/profile"
	"github.com/gin-gonic/gin"
)

// Handler 用户资料处理器
type Handler struct {
	svc *profileSvc.Service
}

// NewHandler 创建资料处理器
func NewHandler(svc *profileSvc.Service) *Handler {
	return &Handler{svc: svc}
}

type updateRequest struct {
	FullName string `json:"full_name"`
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, profileSvc.ErrNotFound):
		common.RespondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, profileSvc.ErrFullNameTooLong):
		common.RespondError(c, http.StatusBadRequest, err.Error())
	default:
		log.Printf("[Profile] %s failed: %v", c.Request.Method, err)
		common.RespondError(c, http.StatusInternalServerError, common.T(c, i18n.MsgInternalError))
	}
}

// Get GET /api/v1/profile
func (h *Handler) Get(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), c.GetUint(middleware.ContextUserIDKey))
	if err != nil {
		h.respondError(c, err)
		return
	}
	common.RespondSuccess(c, p)
}

// Update PUT /api/v1/profile
func (h *Handler) Update(c *gin.Context) {
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.svc.UpdateFullName(c.Request.Context(), c.GetUint(middleware.ContextUserIDKey), req.FullName)
	if err != nil {
		h.respondError(c, err)
		return
	}
	common.RespondSuccessMessage(c, common.T(c, i18n.MsgProfileUpdated), p)
}
