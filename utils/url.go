package utils

import (
	"strings"
)

// FilesRoutePrefix 公开访问存储对象的路由前缀
const FilesRoutePrefix = "/files/"

// BuildFileURL 拼接存储对象的公开访问地址
func BuildFileURL(baseURL, filePath string) string {
	return strings.TrimRight(baseURL, "/") + FilesRoutePrefix + strings.TrimLeft(filePath, "/")
}
