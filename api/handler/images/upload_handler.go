package images

import (
	"errors"
	"log"
	"net/http"

	"github.com/anoixa/fish-bed/api/common"
	"github.com/anoixa/fish-bed/api/middleware"
	"github.com/anoixa/fish-bed/internal/i18n"
	imageSvc "github.com/anoixa/fish-bed/internal/services/image"
	"github.com/gin-gonic/gin"
)

type uploadResultItem struct {
	FileName string              `json:"file_name"`
	Image    *imageSvc.ImageItem `json:"image,omitempty"`
	Error    string              `json:"error,omitempty"`
}

type uploadResponse struct {
	TotalFiles   int                 `json:"total_files"`
	SuccessCount int                 `json:"success_count"`
	ErrorCount   int                 `json:"error_count"`
	Results      []*uploadResultItem `json:"results"`
}

// UploadImages 处理本地选择的一张或多张图片
func (h *Handler) UploadImages(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			common.RespondError(c, http.StatusRequestEntityTooLarge, imageSvc.ErrBatchTooLarge.Error())
			return
		}
		common.RespondError(c, http.StatusBadRequest, common.T(c, i18n.MsgUploadFailed))
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		files = form.File["file"]
	}

	userID := c.GetUint(middleware.ContextUserIDKey)
	results, err := h.uploads.UploadBatch(c.Request.Context(), userID, files)
	if results == nil {
		respondServiceError(c, err)
		return
	}

	resp := h.buildUploadResponse(results)
	if err != nil {
		// 已成功的文件保留，提示第一个错误
		status := statusFor(err)
		msg := err.Error()
		if status == http.StatusInternalServerError {
			log.Printf("[Gallery] Upload batch failed for user %d: %v", userID, err)
			msg = common.T(c, i18n.MsgUploadFailed)
		}
		common.RespondErrorData(c, status, msg, resp)
		return
	}

	common.RespondSuccessMessage(c, common.T(c, i18n.MsgUploadSuccess, resp.SuccessCount), resp)
}

func (h *Handler) buildUploadResponse(results []*imageSvc.UploadResult) *uploadResponse {
	resp := &uploadResponse{
		TotalFiles: len(results),
		Results:    make([]*uploadResultItem, 0, len(results)),
	}
	for _, r := range results {
		item := &uploadResultItem{FileName: r.FileName, Error: r.Error}
		if r.Error == "" && r.Image != nil {
			item.Image = h.query.ToItem(r.Image)
			resp.SuccessCount++
		} else {
			resp.ErrorCount++
		}
		resp.Results = append(resp.Results, item)
	}
	return resp
}
