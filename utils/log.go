package utils

import (
	"log"
	"strings"
	"unicode"

	"github.com/anoixa/fish-bed/config"
)

// SanitizeLogMessage 去掉用户输入中的控制字符，防止日志注入
func SanitizeLogMessage(msg string) string {
	var sb strings.Builder
	sb.Grow(len(msg))
	for _, r := range msg {
		if r == '\n' || r == '\t' {
			sb.WriteRune(' ')
		} else if unicode.IsPrint(r) || unicode.IsGraphic(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// LogIfDev 仅开发版本输出
func LogIfDev(msg string) {
	if config.IsDevelopment() {
		log.Println(msg)
	}
}

// LogIfDevf 仅开发版本输出（格式化）
func LogIfDevf(format string, args ...interface{}) {
	if config.IsDevelopment() {
		log.Printf(format, args...)
	}
}
