package settings

import (
	"log"
	"net/http"

	"github.com/anoixa/fish-bed/api/common"
	"github.com/anoixa/fish-bed/api/middleware"
	"github.com/anoixa/fish-bed/internal/i18n"
	settingsSvc "github.com/anoixa/fish-bed/internal/services/settings"
	"github.com/gin-gonic/gin"
)

// Handler 设置处理器
type Handler struct {
	svc *settingsSvc.Service
}

// NewHandler 创建设置处理器
func NewHandler(svc *settingsSvc.Service) *Handler {
	return &Handler{svc: svc}
}

type settingsResponse struct {
	Values      map[string]string       `json:"values"`
	Preferences settingsSvc.Preferences `json:"preferences"`
}

type valueRequest struct {
	Value string `json:"value"`
}

func (h *Handler) respondError(c *gin.Context, err error) {
	if settingsSvc.IsClientError(err) {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}
	log.Printf("[Settings] %s %s failed: %v", c.Request.Method, c.FullPath(), err)
	common.RespondError(c, http.StatusInternalServerError, common.T(c, i18n.MsgInternalError))
}

func newResponse(values map[string]string) settingsResponse {
	return settingsResponse{Values: values, Preferences: settingsSvc.PreferencesFrom(values)}
}

// GetAll GET /api/v1/settings
func (h *Handler) GetAll(c *gin.Context) {
	values, err := h.svc.GetAll(c.Request.Context(), c.GetUint(middleware.ContextUserIDKey))
	if err != nil {
		h.respondError(c, err)
		return
	}
	common.RespondSuccess(c, newResponse(values))
}

// Update PUT /api/v1/settings，请求体为部分字段
func (h *Handler) Update(c *gin.Context) {
	var body map[string]interface{}
	if err := c.ShouldBindJSON(&body); err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	patch, err := settingsSvc.DecodePatch(body)
	if err != nil {
		h.respondError(c, err)
		return
	}

	values, err := h.svc.Update(c.Request.Context(), c.GetUint(middleware.ContextUserIDKey), patch)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respondSaved(c, values)
}

// Get GET /api/v1/settings/:key
func (h *Handler) Get(c *gin.Context) {
	key := c.Param("key")
	value, err := h.svc.Get(c.Request.Context(), c.GetUint(middleware.ContextUserIDKey), key)
	if err != nil {
		h.respondError(c, err)
		return
	}
	common.RespondSuccess(c, gin.H{"key": key, "value": value})
}

// Set PUT /api/v1/settings/:key
func (h *Handler) Set(c *gin.Context) {
	var req valueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	values, err := h.svc.Set(c.Request.Context(), c.GetUint(middleware.ContextUserIDKey), c.Param("key"), req.Value)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respondSaved(c, values)
}

// respondSaved 以保存后的语言返回提示
func (h *Handler) respondSaved(c *gin.Context, values map[string]string) {
	if lang, ok := i18n.Normalize(values[settingsSvc.KeyLanguage]); ok {
		c.Set(common.ContextLangKey, lang)
	}
	common.RespondSuccessMessage(c, common.T(c, i18n.MsgSettingsSaved), newResponse(values))
}

// SetupRoutes 注册设置路由
func (h *Handler) SetupRoutes(router *gin.RouterGroup) {
	group := router.Group("/settings")
	{
		group.GET("", h.GetAll)
		group.PUT("", h.Update)
		group.GET("/:key", h.Get)
		group.PUT("/:key", h.Set)
	}
}
