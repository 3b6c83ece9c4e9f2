package cloud

import (
	"errors"
	"log"
	"net/http"

	"github.com/anoixa/fish-bed/api/common"
	"github.com/anoixa/fish-bed/api/middleware"
	"github.com/anoixa/fish-bed/internal/i18n"
	cloudSvc "github.com/anoixa/fish-bed/internal/services/cloud"
	imageSvc "github.com/anoixa/fish-bed/internal/services/image"
	"github.com/gin-gonic/gin"
)

// Handler 云盘选择器处理器
type Handler struct {
	svc   *cloudSvc.Service
	query *imageSvc.QueryService
}

// NewHandler 创建云盘处理器
func NewHandler(svc *cloudSvc.Service, query *imageSvc.QueryService) *Handler {
	return &Handler{svc: svc, query: query}
}

type importResponse struct {
	Provider string                `json:"provider"`
	Imported []*imageSvc.ImageItem `json:"imported"`
}

// GetConfig 返回前端初始化选择器所需的公开配置
// GET /api/v1/cloud/config
func (h *Handler) GetConfig(c *gin.Context) {
	common.RespondSuccess(c, h.svc.PickerConfig())
}

// Import 导入选择器返回的文件
// POST /api/v1/cloud/:provider/import
func (h *Handler) Import(c *gin.Context) {
	provider := c.Param("provider")
	if err := h.svc.CheckConfigured(provider); err != nil {
		h.respondConfigError(c, provider, err)
		return
	}

	userID := c.GetUint(middleware.ContextUserIDKey)

	var (
		result *cloudSvc.ImportResult
		err    error
		source string
	)
	switch provider {
	case cloudSvc.ProviderGoogle:
		var req cloudSvc.GoogleImportRequest
		if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
			common.RespondError(c, http.StatusBadRequest, bindErr.Error())
			return
		}
		source = i18n.MsgGoogleDriveName
		result, err = h.svc.ImportGoogle(c.Request.Context(), userID, &req)
	case cloudSvc.ProviderDropbox:
		var req cloudSvc.DropboxImportRequest
		if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
			common.RespondError(c, http.StatusBadRequest, bindErr.Error())
			return
		}
		source = i18n.MsgDropboxName
		result, err = h.svc.ImportDropbox(c.Request.Context(), userID, &req)
	}

	resp := h.toResponse(result)
	if err != nil {
		status := http.StatusBadGateway
		if imageSvc.IsClientError(err) || errors.Is(err, cloudSvc.ErrInvalidLink) {
			status = http.StatusBadRequest
		}
		log.Printf("[Cloud] Import from %s failed for user %d: %v", provider, userID, err)
		common.RespondErrorData(c, status, err.Error(), resp)
		return
	}

	common.RespondSuccessMessage(c, common.T(c, i18n.MsgCloudImportSuccess, len(resp.Imported), source), resp)
}

func (h *Handler) respondConfigError(c *gin.Context, provider string, err error) {
	switch {
	case errors.Is(err, cloudSvc.ErrUnknownProvider):
		common.RespondError(c, http.StatusNotFound, err.Error())
	case provider == cloudSvc.ProviderGoogle:
		common.RespondErrorData(c, http.StatusServiceUnavailable, common.T(c, i18n.MsgGoogleNotConfigured), gin.H{"detail": err.Error()})
	default:
		common.RespondErrorData(c, http.StatusServiceUnavailable, common.T(c, i18n.MsgDropboxNotConfigured), gin.H{"detail": err.Error()})
	}
}

func (h *Handler) toResponse(result *cloudSvc.ImportResult) *importResponse {
	resp := &importResponse{Imported: []*imageSvc.ImageItem{}}
	if result == nil {
		return resp
	}
	resp.Provider = result.Provider
	for _, img := range result.Imported {
		resp.Imported = append(resp.Imported, h.query.ToItem(img))
	}
	return resp
}
