package images

import (
	"net/http"

	"github.com/anoixa/fish-bed/api/common"
	"github.com/anoixa/fish-bed/api/middleware"
	imageSvc "github.com/anoixa/fish-bed/internal/services/image"
	"github.com/gin-gonic/gin"
)

// ListImages 图库列表，创建时间倒序
func (h *Handler) ListImages(c *gin.Context) {
	var q imageSvc.ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.query.List(c.Request.Context(), c.GetUint(middleware.ContextUserIDKey), q)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	common.RespondSuccess(c, result)
}

// GetImage 单张图片详情
func (h *Handler) GetImage(c *gin.Context) {
	item, err := h.query.Get(c.Request.Context(), c.GetUint(middleware.ContextUserIDKey), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	common.RespondSuccess(c, item)
}
