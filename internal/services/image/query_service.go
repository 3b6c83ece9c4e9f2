package image

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/anoixa/fish-bed/cache"
	"github.com/anoixa/fish-bed/database/models"
	"github.com/anoixa/fish-bed/database/repo/images"
	"github.com/anoixa/fish-bed/utils"
	"gorm.io/gorm"
)

const (
	DefaultPageLimit = 50
	MaxPageLimit     = 100
)

// ImageItem 图库中的一项，附带公开访问地址
type ImageItem struct {
	ID         string    `json:"id"`
	FileName   string    `json:"file_name"`
	FilePath   string    `json:"file_path"`
	FileSize   int64     `json:"file_size"`
	UploadType string    `json:"upload_type"`
	CreatedAt  time.Time `json:"created_at"`
	URL        string    `json:"url"`
}

// ListQuery 图库查询参数，Page 为 0 时返回全部
type ListQuery struct {
	Page       int    `form:"page"`
	Limit      int    `form:"limit"`
	UploadType string `form:"upload_type"`
}

// ListResult 图库分页结果
type ListResult struct {
	Items []*ImageItem `json:"items"`
	Total int64        `json:"total"`
	Page  int          `json:"page"`
	Limit int          `json:"limit"`
}

// QueryService 图库查询服务
type QueryService struct {
	repo        *images.Repository
	cacheHelper *cache.Helper
	baseURL     string
}

// NewQueryService 创建查询服务
func NewQueryService(repo *images.Repository, cacheHelper *cache.Helper, baseURL string) *QueryService {
	return &QueryService{repo: repo, cacheHelper: cacheHelper, baseURL: baseURL}
}

// ToItem 转换为带 URL 的图库项
func (s *QueryService) ToItem(img *models.FishImage) *ImageItem {
	return &ImageItem{
		ID:         img.ID,
		FileName:   img.FileName,
		FilePath:   img.FilePath,
		FileSize:   img.FileSize,
		UploadType: img.UploadType,
		CreatedAt:  img.CreatedAt,
		URL:        utils.BuildFileURL(s.baseURL, img.FilePath),
	}
}

// normalize 校正分页参数
func (q ListQuery) normalize() ListQuery {
	if q.Page < 0 {
		q.Page = 0
	}
	if q.Page > 0 {
		if q.Limit <= 0 {
			q.Limit = DefaultPageLimit
		}
		if q.Limit > MaxPageLimit {
			q.Limit = MaxPageLimit
		}
	} else {
		q.Limit = 0
	}
	return q
}

func (q ListQuery) cacheKey() string {
	return fmt.Sprintf("p%d:l%d:t%s", q.Page, q.Limit, q.UploadType)
}

// List 列出用户图片，按创建时间倒序，结果按列表版本号缓存
func (s *QueryService) List(ctx context.Context, userID uint, q ListQuery) (*ListResult, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}
	if q.UploadType != "" && !models.IsValidUploadType(q.UploadType) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidFilter, q.UploadType)
	}
	q = q.normalize()

	var (
		version   int64
		cacheable bool
	)
	if s.cacheHelper != nil {
		version, cacheable = s.cacheHelper.GetImageListVersion(ctx, userID)
	}
	if cacheable {
		var cached ListResult
		if err := s.cacheHelper.GetCachedImageList(ctx, userID, version, q.cacheKey(), &cached); err == nil {
			return &cached, nil
		}
	}

	list, total, err := s.repo.WithContext(ctx).ListByUser(userID, images.ListFilter{
		UploadType: q.UploadType,
		Page:       q.Page,
		PageSize:   q.Limit,
	})
	if err != nil {
		return nil, err
	}

	result := &ListResult{
		Items: make([]*ImageItem, 0, len(list)),
		Total: total,
		Page:  q.Page,
		Limit: q.Limit,
	}
	for _, img := range list {
		result.Items = append(result.Items, s.ToItem(img))
	}

	if cacheable {
		if err := s.cacheHelper.CacheImageList(ctx, userID, version, q.cacheKey(), result); err != nil {
			log.Printf("[Gallery] Failed to cache image list for user %d: %v", userID, err)
		}
	}
	return result, nil
}

// Get 获取用户的单张图片
func (s *QueryService) Get(ctx context.Context, userID uint, id string) (*ImageItem, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}

	img, err := s.repo.WithContext(ctx).GetByIDAndUser(id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get image: %w", err)
	}
	return s.ToItem(img), nil
}
