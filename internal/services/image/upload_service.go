package image

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"sync"

	"github.com/anoixa/fish-bed/cache"
	"github.com/anoixa/fish-bed/database/models"
	"github.com/anoixa/fish-bed/database/repo/images"
	"github.com/anoixa/fish-bed/storage"
	"github.com/anoixa/fish-bed/utils"
	"github.com/anoixa/fish-bed/utils/generator"
	"github.com/anoixa/fish-bed/utils/pool"
	"github.com/anoixa/fish-bed/utils/validator"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// UploadOptions 上传限制
type UploadOptions struct {
	MaxFileSize   int64
	MaxBatchFiles int
	MaxBatchTotal int64
	TempDir       string
}

// UploadResult 批量上传中单个文件的结果
type UploadResult struct {
	Image    *models.FishImage `json:"image,omitempty"`
	FileName string            `json:"file_name"`
	Error    string            `json:"error,omitempty"`
}

// UploadService 上传并登记图片：写存储，再插入 fish_images 记录
type UploadService struct {
	repo        *images.Repository
	storage     storage.Provider
	cacheHelper *cache.Helper
	paths       *generator.PathGenerator
	opts        UploadOptions
}

// NewUploadService 创建上传服务
func NewUploadService(
	repo *images.Repository,
	provider storage.Provider,
	cacheHelper *cache.Helper,
	paths *generator.PathGenerator,
	opts UploadOptions,
) *UploadService {
	if paths == nil {
		paths = generator.NewPathGenerator()
	}
	return &UploadService{
		repo:        repo,
		storage:     provider,
		cacheHelper: cacheHelper,
		paths:       paths,
		opts:        opts,
	}
}

// Record 单文件上传登记，云盘导入与本地上传共用
func (s *UploadService) Record(ctx context.Context, userID uint, fileName string, src io.Reader, uploadType string) (*models.FishImage, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}

	filePath, err := s.paths.UploadPath(userID, fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to generate storage path: %w", err)
	}

	return s.record(ctx, userID, fileName, filePath, src, uploadType)
}

// record 落盘到临时文件、校验、写存储、插入记录；插入失败时删除刚写入的对象
func (s *UploadService) record(ctx context.Context, userID uint, fileName, filePath string, src io.Reader, uploadType string) (*models.FishImage, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}
	if !models.IsValidUploadType(uploadType) {
		return nil, fmt.Errorf("invalid upload type: %s", uploadType)
	}

	tempFile, err := s.createTemp()
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tempFile.Close()
		_ = os.Remove(tempFile.Name())
	}()

	buf := pool.GetBuffer()
	defer pool.PutBuffer(buf)

	limit := s.opts.MaxFileSize
	var reader io.Reader = src
	if limit > 0 {
		reader = io.LimitReader(src, limit+1)
	}

	size, err := io.CopyBuffer(tempFile, reader, *buf)
	if err != nil {
		return nil, fmt.Errorf("failed to process file stream: %w", err)
	}
	if limit > 0 && size > limit {
		return nil, ErrFileTooLarge
	}
	if size == 0 {
		return nil, ErrUnsupportedType
	}

	if _, err := tempFile.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to seek temp file: %w", err)
	}
	isImage, mimeType, err := validator.IsImage(tempFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read file header: %w", err)
	}
	if !isImage {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, mimeType)
	}

	if err := s.storage.SaveWithContext(ctx, filePath, tempFile); err != nil {
		return nil, fmt.Errorf("failed to save uploaded file: %w", err)
	}

	image := &models.FishImage{
		ID:         uuid.NewString(),
		UserID:     userID,
		FileName:   fileName,
		FilePath:   filePath,
		FileSize:   size,
		UploadType: uploadType,
	}

	if err := s.repo.WithContext(ctx).Create(image); err != nil {
		if delErr := s.storage.DeleteWithContext(context.Background(), filePath); delErr != nil {
			log.Printf("[Upload] Failed to remove orphaned object %s: %v", filePath, delErr)
		}
		return nil, fmt.Errorf("failed to save image metadata: %w", err)
	}

	imagesUploadedTotal.WithLabelValues(uploadType).Inc()
	uploadedBytesTotal.Add(float64(size))

	if s.cacheHelper != nil {
		if err := s.cacheHelper.InvalidateImages(ctx, userID); err != nil {
			log.Printf("[Upload] Failed to invalidate gallery cache for user %d: %v", userID, err)
		}
	}

	utils.LogIfDevf("[Upload] Recorded %s (%d bytes, %s) for user %d", filePath, size, uploadType, userID)
	return image, nil
}

func (s *UploadService) createTemp() (*os.File, error) {
	if s.opts.TempDir != "" {
		if err := os.MkdirAll(s.opts.TempDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create temp dir: %w", err)
		}
	}
	f, err := os.CreateTemp(s.opts.TempDir, "upload-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	return f, nil
}

// CheckBatch 校验批量上传的数量与总大小
func (s *UploadService) CheckBatch(files []*multipart.FileHeader) error {
	if len(files) == 0 {
		return ErrNoFiles
	}
	if s.opts.MaxBatchFiles > 0 && len(files) > s.opts.MaxBatchFiles {
		return fmt.Errorf("%w: %d > %d", ErrTooManyFiles, len(files), s.opts.MaxBatchFiles)
	}

	var total int64
	for _, fh := range files {
		if s.opts.MaxFileSize > 0 && fh.Size > s.opts.MaxFileSize {
			return fmt.Errorf("%w: %s", ErrFileTooLarge, fh.Filename)
		}
		total += fh.Size
	}
	if s.opts.MaxBatchTotal > 0 && total > s.opts.MaxBatchTotal {
		return ErrBatchTooLarge
	}
	return nil
}

// UploadBatch 并发上传多个文件，互不取消；返回每个文件的结果与第一个错误，已成功的不回滚
func (s *UploadService) UploadBatch(ctx context.Context, userID uint, files []*multipart.FileHeader) ([]*UploadResult, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}
	if err := s.CheckBatch(files); err != nil {
		return nil, err
	}

	results := make([]*UploadResult, len(files))
	var mu sync.Mutex

	var g errgroup.Group
	for i, fh := range files {
		g.Go(func() error {
			image, err := s.recordHeader(ctx, userID, fh)

			result := &UploadResult{FileName: fh.Filename}
			if err != nil {
				result.Error = err.Error()
				log.Printf("[Upload] Failed to upload %s: %v", utils.SanitizeLogMessage(fh.Filename), err)
			} else {
				result.Image = image
			}

			mu.Lock()
			results[i] = result
			mu.Unlock()
			return err
		})
	}

	return results, g.Wait()
}

func (s *UploadService) recordHeader(ctx context.Context, userID uint, fh *multipart.FileHeader) (*models.FishImage, error) {
	file, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return s.Record(ctx, userID, fh.Filename, file, models.UploadTypeUpload)
}

// SuccessCount 统计成功条数
func SuccessCount(results []*UploadResult) int {
	n := 0
	for _, r := range results {
		if r != nil && r.Error == "" {
			n++
		}
	}
	return n
}

// IsClientError 判断是否为请求内容导致的错误
func IsClientError(err error) bool {
	return errors.Is(err, ErrUnsupportedType) ||
		errors.Is(err, ErrFileTooLarge) ||
		errors.Is(err, ErrEmptyFrame) ||
		errors.Is(err, ErrFrameTooLarge) ||
		errors.Is(err, ErrNoFiles) ||
		errors.Is(err, ErrTooManyFiles) ||
		errors.Is(err, ErrBatchTooLarge) ||
		errors.Is(err, ErrInvalidFilter)
}
