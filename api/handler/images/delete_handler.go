package images

import (
	"net/http"

	"github.com/anoixa/fish-bed/api/common"
	"github.com/anoixa/fish-bed/api/middleware"
	"github.com/anoixa/fish-bed/internal/i18n"
	"github.com/gin-gonic/gin"
)

type deleteRequest struct {
	IDs []string `json:"ids" binding:"required,min=1"`
}

// DeleteImages 批量删除选中的图片，成功后选择集清空
func (h *Handler) DeleteImages(c *gin.Context) {
	var req deleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.deletes.DeleteBatch(c.Request.Context(), c.GetUint(middleware.ContextUserIDKey), req.IDs)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	common.RespondSuccessMessage(c, common.T(c, i18n.MsgDeleteSuccess, result.DeletedCount), result)
}

// DeleteImage 删除单张图片
func (h *Handler) DeleteImage(c *gin.Context) {
	result, err := h.deletes.DeleteSingle(c.Request.Context(), c.GetUint(middleware.ContextUserIDKey), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	common.RespondSuccessMessage(c, common.T(c, i18n.MsgDeleteSuccess, result.DeletedCount), result)
}
