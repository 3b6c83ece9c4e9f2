// Package i18n 响应消息本地化，支持 en、es、zh
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// DefaultLanguage 无法匹配时使用的语言
const DefaultLanguage = "en"

var supported = []language.Tag{
	language.English,
	language.Spanish,
	language.Chinese,
}

var codes = map[language.Tag]string{
	language.English: "en",
	language.Spanish: "es",
	language.Chinese: "zh",
}

// 消息键即英文原文
const (
	MsgUploadSuccess        = "%d image(s) uploaded successfully"
	MsgCloudImportSuccess   = "%d image(s) uploaded from %s"
	MsgUploadFailed         = "Upload failed"
	MsgCaptureSuccess       = "Photo captured and uploaded"
	MsgDeleteSuccess        = "%d image(s) deleted"
	MsgImageNotFound        = "Image not found"
	MsgGoogleNotConfigured  = "Google Drive not configured"
	MsgDropboxNotConfigured = "Dropbox not configured"
	MsgSettingsSaved        = "Settings saved"
	MsgProjectCreated       = "Project created"
	MsgProjectUpdated       = "Project updated"
	MsgProjectDeleted       = "Project deleted"
	MsgProjectNotFound      = "Project not found"
	MsgProfileUpdated       = "Profile updated"
	MsgAuthRequired         = "Authentication required"
	MsgInvalidToken         = "Invalid or expired token"
	MsgLogoutSuccess        = "Logged out"
	MsgRegisterSuccess      = "Account created"
	MsgInvalidCredentials   = "Invalid email or password"
	MsgInvalidRequest       = "Invalid request"
	MsgTooManyRequests      = "Too many requests, please try again later"
	MsgServerBusy           = "Server is busy, please try again later"
	MsgInternalError        = "Something went wrong"
	MsgWelcome              = "Welcome back, %s"
	MsgGoogleDriveName      = "Google Drive"
	MsgDropboxName          = "Dropbox"
)

var translations = map[language.Tag]map[string]string{
	language.Spanish: {
		MsgUploadSuccess:        "%d imagen(es) subida(s) correctamente",
		MsgCloudImportSuccess:   "%d imagen(es) subida(s) desde %s",
		MsgUploadFailed:         "Error al subir",
		MsgCaptureSuccess:       "Foto capturada y subida",
		MsgDeleteSuccess:        "%d imagen(es) eliminada(s)",
		MsgImageNotFound:        "Imagen no encontrada",
		MsgGoogleNotConfigured:  "Google Drive no está configurado",
		MsgDropboxNotConfigured: "Dropbox no está configurado",
		MsgSettingsSaved:        "Configuración guardada",
		MsgProjectCreated:       "Proyecto creado",
		MsgProjectUpdated:       "Proyecto actualizado",
		MsgProjectDeleted:       "Proyecto eliminado",
		MsgProjectNotFound:      "Proyecto no encontrado",
		MsgProfileUpdated:       "Perfil actualizado",
		MsgAuthRequired:         "Se requiere autenticación",
		MsgInvalidToken:         "Token inválido o caducado",
		MsgLogoutSuccess:        "Sesión cerrada",
		MsgRegisterSuccess:      "Cuenta creada",
		MsgInvalidCredentials:   "Correo o contraseña incorrectos",
		MsgInvalidRequest:       "Solicitud no válida",
		MsgTooManyRequests:      "Demasiadas solicitudes, inténtalo más tarde",
		MsgServerBusy:           "El servidor está ocupado, inténtalo más tarde",
		MsgInternalError:        "Algo salió mal",
		MsgWelcome:              "Bienvenido de nuevo, %s",
	},
	language.Chinese: {
		MsgUploadSuccess:        "成功上传 %d 张图片",
		MsgCloudImportSuccess:   "已上传 %d 张图片（来自 %s）",
		MsgUploadFailed:         "上传失败",
		MsgCaptureSuccess:       "照片已拍摄并上传",
		MsgDeleteSuccess:        "已删除 %d 张图片",
		MsgImageNotFound:        "图片不存在",
		MsgGoogleNotConfigured:  "Google Drive 未配置",
		MsgDropboxNotConfigured: "Dropbox 未配置",
		MsgSettingsSaved:        "设置已保存",
		MsgProjectCreated:       "项目已创建",
		MsgProjectUpdated:       "项目已更新",
		MsgProjectDeleted:       "项目已删除",
		MsgProjectNotFound:      "项目不存在",
		MsgProfileUpdated:       "资料已更新",
		MsgAuthRequired:         "需要登录",
		MsgInvalidToken:         "令牌无效或已过期",
		MsgLogoutSuccess:        "已退出登录",
		MsgRegisterSuccess:      "账户已创建",
		MsgInvalidCredentials:   "邮箱或密码错误",
		MsgInvalidRequest:       "请求无效",
		MsgTooManyRequests:      "请求过于频繁，请稍后再试",
		MsgServerBusy:           "服务器繁忙，请稍后再试",
		MsgInternalError:        "出错了",
		MsgWelcome:              "欢迎回来，%s",
	},
}

var cat = buildCatalog()

func buildCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, msgs := range translations {
		for key, msg := range msgs {
			if err := b.SetString(tag, key, msg); err != nil {
				panic(err)
			}
		}
	}
	return b
}

// IsSupported 判断语言代码是否受支持
func IsSupported(code string) bool {
	_, ok := Normalize(code)
	return ok
}

// Normalize 将 en-US、zh-Hans 等归一为 en/es/zh
func Normalize(code string) (string, bool) {
	tag, err := language.Parse(code)
	if err != nil {
		return "", false
	}
	base, _ := tag.Base()
	for _, t := range supported {
		if b, _ := t.Base(); b == base {
			return codes[t], true
		}
	}
	return "", false
}

// Match 按 Accept-Language 匹配支持的语言，无法匹配时返回 DefaultLanguage
func Match(acceptLanguage string) string {
	if acceptLanguage == "" {
		return DefaultLanguage
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return DefaultLanguage
	}
	// tags 已按 q 值降序
	for _, tag := range tags {
		if code, ok := Normalize(tag.String()); ok {
			return code
		}
	}
	return DefaultLanguage
}

// T 翻译消息键，未知语言回退英文
func T(lang, key string, args ...interface{}) string {
	code, ok := Normalize(lang)
	if !ok {
		code = DefaultLanguage
	}
	tag := language.Make(code)
	return message.NewPrinter(tag, message.Catalog(cat)).Sprintf(key, args...)
}
