package images

import (
	"io"
	"net/http"
	"strings"

	"github.com/anoixa/fish-bed/api/common"
	"github.com/anoixa/fish-bed/api/middleware"
	"github.com/anoixa/fish-bed/internal/i18n"
	"github.com/gin-gonic/gin"
)

// CaptureFrame 接收摄像头当前帧，multipart 字段 frame 或原始图片请求体
func (h *Handler) CaptureFrame(c *gin.Context) {
	var frame io.Reader

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("frame")
		if err != nil {
			common.RespondError(c, http.StatusBadRequest, common.T(c, i18n.MsgInvalidRequest))
			return
		}
		f, err := fh.Open()
		if err != nil {
			common.RespondError(c, http.StatusBadRequest, err.Error())
			return
		}
		defer f.Close()
		frame = f
	} else {
		frame = c.Request.Body
	}

	userID := c.GetUint(middleware.ContextUserIDKey)
	img, err := h.camera.Capture(c.Request.Context(), userID, frame)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	common.RespondSuccessMessage(c, common.T(c, i18n.MsgCaptureSuccess), h.query.ToItem(img))
}
