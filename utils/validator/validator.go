package validator

import (
	"io"
	"net/http"
)

// SniffLength http.DetectContentType 读取的字节数
const SniffLength = 512

// allowedImageMimeTypes 允许入库的图片类型
var allowedImageMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
	"image/bmp":  true,
}

// IsImageBytes 根据文件头判断是否为允许的图片类型
func IsImageBytes(header []byte) (bool, string) {
	if len(header) == 0 {
		return false, ""
	}
	if len(header) > SniffLength {
		header = header[:SniffLength]
	}
	mimeType := http.DetectContentType(header)
	return allowedImageMimeTypes[mimeType], mimeType
}

// IsImage 读取文件头判断类型，并将读取位置复位
func IsImage(file io.ReadSeeker) (bool, string, error) {
	buffer := make([]byte, SniffLength)
	n, err := io.ReadFull(file, buffer)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return false, "", err
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return false, "", err
	}

	ok, mimeType := IsImageBytes(buffer[:n])
	return ok, mimeType, nil
}
