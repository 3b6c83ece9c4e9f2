package files

import (
	"errors"
	"io"
	"log"
	"mime"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/anoixa/fish-bed/api/common"
	"github.com/anoixa/fish-bed/internal/i18n"
	"github.com/anoixa/fish-bed/storage"
	"github.com/gin-gonic/gin"
)

// Handler 按存储路径输出对象，路径不可猜测因此无需登录
type Handler struct {
	provider storage.Provider
}

// NewHandler 创建文件处理器
func NewHandler(provider storage.Provider) *Handler {
	return &Handler{provider: provider}
}

// Serve GET /files/*path
func (h *Handler) Serve(c *gin.Context) {
	storagePath := strings.TrimPrefix(c.Param("path"), "/")
	if !storage.IsValidStoragePath(storagePath) {
		common.RespondError(c, http.StatusNotFound, common.T(c, i18n.MsgImageNotFound))
		return
	}

	reader, err := h.provider.GetWithContext(c.Request.Context(), storagePath)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			common.RespondError(c, http.StatusNotFound, common.T(c, i18n.MsgImageNotFound))
			return
		}
		log.Printf("[Files] Failed to read %s: %v", storagePath, err)
		common.RespondError(c, http.StatusBadGateway, err.Error())
		return
	}
	if closer, ok := reader.(io.Closer); ok {
		defer closer.Close()
	}

	if ct := mime.TypeByExtension(path.Ext(storagePath)); ct != "" {
		c.Header("Content-Type", ct)
	}
	c.Header("Cache-Control", "public, max-age=31536000, immutable")
	c.Header("X-Content-Type-Options", "nosniff")

	http.ServeContent(c.Writer, c.Request, path.Base(storagePath), time.Time{}, reader)
}
