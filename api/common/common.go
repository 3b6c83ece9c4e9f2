package common

import (
	"net/http"

	"github.com/anoixa/fish-bed/internal/i18n"
	"github.com/gin-gonic/gin"
)

// ContextLangKey 当前请求的响应语言
const ContextLangKey = "lang"

type Response struct {
	Status string      `json:"status"`
	Msg    string      `json:"msg"`
	Data   interface{} `json:"data,omitempty"`
}

func Respond(c *gin.Context, httpStatus int, status string, message string, data interface{}) {
	c.JSON(httpStatus, Response{
		Status: status,
		Msg:    message,
		Data:   data,
	})
}

// RespondSuccess sends a success response with data.
func RespondSuccess(c *gin.Context, data interface{}) {
	Respond(c, http.StatusOK, "success", "", data)
}

// RespondSuccessMessage sends a success response with message and data.
func RespondSuccessMessage(c *gin.Context, message string, data interface{}) {
	Respond(c, http.StatusOK, "success", message, data)
}

// RespondCreated sends a 201 response with message and data.
func RespondCreated(c *gin.Context, message string, data interface{}) {
	Respond(c, http.StatusCreated, "success", message, data)
}

// RespondError sends an error response with message.
func RespondError(c *gin.Context, httpStatus int, message string) {
	Respond(c, httpStatus, "error", message, nil)
}

// RespondErrorData sends an error response that still carries data, e.g. partial batch results.
func RespondErrorData(c *gin.Context, httpStatus int, message string, data interface{}) {
	Respond(c, httpStatus, "error", message, data)
}

// RespondErrorAbort sends an error response and stops the handler chain.
func RespondErrorAbort(c *gin.Context, httpStatus int, message string) {
	c.AbortWithStatusJSON(httpStatus, Response{
		Status: "error",
		Msg:    message,
	})
}

// Lang 返回当前请求的语言，未设置时为默认语言
func Lang(c *gin.Context) string {
	if lang := c.GetString(ContextLangKey); lang != "" {
		return lang
	}
	return i18n.DefaultLanguage
}

// T 按当前请求语言翻译消息
func T(c *gin.Context, key string, args ...interface{}) string {
	return i18n.T(Lang(c), key, args...)
}
