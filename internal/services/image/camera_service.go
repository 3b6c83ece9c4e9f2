package image

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"

	"github.com/anoixa/fish-bed/database/models"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

const (
	// CameraJPEGQuality 拍摄帧重新编码的 JPEG 质量
	CameraJPEGQuality = 95

	// DefaultMaxFrameDimension 帧宽高上限（像素）
	DefaultMaxFrameDimension = 4096
)

// CameraService 接收一帧静态画面，统一转为 JPEG 后登记
type CameraService struct {
	uploads      *UploadService
	maxDimension int
}

// NewCameraService 创建拍摄服务，maxDimension <= 0 时使用默认上限
func NewCameraService(uploads *UploadService, maxDimension int) *CameraService {
	if maxDimension <= 0 {
		maxDimension = DefaultMaxFrameDimension
	}
	return &CameraService{uploads: uploads, maxDimension: maxDimension}
}

// Capture 解码帧并以 upload_type=camera 登记
func (s *CameraService) Capture(ctx context.Context, userID uint, frame io.Reader) (*models.FishImage, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}

	var limited io.Reader = frame
	if max := s.uploads.opts.MaxFileSize; max > 0 {
		limited = io.LimitReader(frame, max+1)
	}
	raw, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("failed to read frame: %w", err)
	}
	if len(raw) == 0 {
		return nil, ErrEmptyFrame
	}
	if max := s.uploads.opts.MaxFileSize; max > 0 && int64(len(raw)) > max {
		return nil, ErrFileTooLarge
	}

	encoded, err := EncodeFrameJPEG(raw, s.maxDimension)
	if err != nil {
		return nil, err
	}

	filePath, fileName, err := s.uploads.paths.CameraCapture(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate capture path: %w", err)
	}
	return s.uploads.record(ctx, userID, fileName, filePath, bytes.NewReader(encoded), models.UploadTypeCamera)
}

// EncodeFrameJPEG 解码 jpeg/png/gif/bmp/webp 帧并重新编码为 JPEG
// 先读取头部尺寸，宽或高超过 maxDimension 时不解码像素
func EncodeFrameJPEG(raw []byte, maxDimension int) ([]byte, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedType, err)
	}
	if maxDimension > 0 && (cfg.Width > maxDimension || cfg.Height > maxDimension) {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d", ErrFrameTooLarge, cfg.Width, cfg.Height, maxDimension)
	}

	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedType, err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: CameraJPEGQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode %s frame as jpeg: %w", format, err)
	}
	return buf.Bytes(), nil
}
