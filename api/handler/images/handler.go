package images

import (
	"errors"
	"log"
	"net/http"

	"github.com/anoixa/fish-bed/api/common"
	"github.com/anoixa/fish-bed/internal/i18n"
	imageSvc "github.com/anoixa/fish-bed/internal/services/image"
	"github.com/gin-gonic/gin"
)

// Handler 图片处理器：上传、拍摄、图库与删除
type Handler struct {
	uploads *imageSvc.UploadService
	camera  *imageSvc.CameraService
	query   *imageSvc.QueryService
	deletes *imageSvc.DeleteService
}

// NewHandler 创建图片处理器
func NewHandler(
	uploads *imageSvc.UploadService,
	camera *imageSvc.CameraService,
	query *imageSvc.QueryService,
	deletes *imageSvc.DeleteService,
) *Handler {
	return &Handler{
		uploads: uploads,
		camera:  camera,
		query:   query,
		deletes: deletes,
	}
}

// statusFor 将服务层错误映射为 HTTP 状态码
func statusFor(err error) int {
	switch {
	case errors.Is(err, imageSvc.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, imageSvc.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, imageSvc.ErrFileTooLarge), errors.Is(err, imageSvc.ErrBatchTooLarge), errors.Is(err, imageSvc.ErrFrameTooLarge):
		return http.StatusRequestEntityTooLarge
	case imageSvc.IsClientError(err):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// respondServiceError 失败提示携带底层错误信息
func respondServiceError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Printf("[Gallery] %s %s failed: %v", c.Request.Method, c.FullPath(), err)
	}
	if errors.Is(err, imageSvc.ErrNotFound) {
		common.RespondError(c, status, common.T(c, i18n.MsgImageNotFound))
		return
	}
	common.RespondError(c, status, err.Error())
}
