package generator

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/anoixa/fish-bed/utils"
)

const (
	defaultExt   = "bin"
	maxExtLength = 10
)

// PathGenerator 生成用户目录下的存储路径：<user_id>/<毫秒时间戳>-<随机串>.<ext>
type PathGenerator struct {
	now func() time.Time
}

// NewPathGenerator 创建路径生成器
func NewPathGenerator() *PathGenerator {
	return &PathGenerator{now: time.Now}
}

// WithClock 替换时钟，测试使用
func (pg *PathGenerator) WithClock(now func() time.Time) *PathGenerator {
	pg.now = now
	return pg
}

// UploadPath 本地上传与云盘导入共用的路径
func (pg *PathGenerator) UploadPath(userID uint, fileName string) (string, error) {
	suffix, err := utils.RandomHex(8)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d/%d-%s.%s", userID, pg.now().UnixMilli(), suffix, Ext(fileName)), nil
}

// CameraCapture 相机拍摄的存储路径与展示文件名，展示名为 camera-<毫秒>.jpg
func (pg *PathGenerator) CameraCapture(userID uint) (filePath, fileName string, err error) {
	suffix, err := utils.RandomHex(8)
	if err != nil {
		return "", "", err
	}
	ms := pg.now().UnixMilli()
	return fmt.Sprintf("%d/%d-camera-%s.jpg", userID, ms, suffix), fmt.Sprintf("camera-%d.jpg", ms), nil
}

// Ext 取文件名最后一个点之后的部分，小写，只保留字母数字
func Ext(fileName string) string {
	base := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	idx := strings.LastIndex(base, ".")
	if idx < 0 || idx == len(base)-1 {
		return defaultExt
	}

	ext := strings.ToLower(base[idx+1:])
	var sb strings.Builder
	for _, r := range ext {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
		}
	}
	if sb.Len() == 0 || sb.Len() > maxExtLength {
		return defaultExt
	}
	return sb.String()
}
