package format

import (
	"fmt"
)

const byteUnit = 1024

var units = []string{"B", "KB", "MB", "GB", "TB"}

// HumanReadableSize 将字节数转换为可读格式，如 1.50 MB
func HumanReadableSize(bytes int64) string {
	if bytes < byteUnit {
		return fmt.Sprintf("%d B", bytes)
	}

	value := float64(bytes)
	exp := 0
	for value >= byteUnit && exp < len(units)-1 {
		value /= byteUnit
		exp++
	}

	return fmt.Sprintf("%.2f %s", value, units[exp])
}
