package dashboard

import (
	"context"
	"fmt"
	"log"

	"github.com/anoixa/fish-bed/cache"
	"github.com/anoixa/fish-bed/database/models"
	"github.com/anoixa/fish-bed/database/repo/images"
	"github.com/anoixa/fish-bed/utils/format"
)

// 侧边栏视图，顺序即展示顺序
const (
	ViewUpload   = "upload"
	ViewCamera   = "camera"
	ViewGallery  = "gallery"
	ViewSettings = "settings"
)

// Views 仪表盘可切换的视图
var Views = []string{ViewUpload, ViewCamera, ViewGallery, ViewSettings}

// StatsRepository 首页所需的数据来源
type StatsRepository interface {
	GetUser(ctx context.Context, userID uint) (*models.User, error)
	ImageStats(ctx context.Context, userID uint) (*images.Stats, error)
	ProjectCount(ctx context.Context, userID uint) (int64, error)
}

// Service 仪表盘首页服务
type Service struct {
	repo  StatsRepository
	cache *cache.Helper
}

// NewService 创建仪表盘服务
func NewService(repo StatsRepository, cacheHelper *cache.Helper) *Service {
	return &Service{
		repo:  repo,
		cache: cacheHelper,
	}
}

// Summary 仪表盘首页数据
type Summary struct {
	DisplayName string         `json:"display_name"`
	Email       string         `json:"email"`
	Views       []string       `json:"views"`
	DefaultView string         `json:"default_view"`
	Images      ImageSummary   `json:"images"`
	Projects    ProjectSummary `json:"projects"`
}

// ImageSummary 图库统计
type ImageSummary struct {
	Total          int64            `json:"total"`
	TotalSize      int64            `json:"total_size"`
	TotalSizeHuman string           `json:"total_size_human"`
	ByUploadType   map[string]int64 `json:"by_upload_type"`
}

// ProjectSummary 项目统计
type ProjectSummary struct {
	Total int64 `json:"total"`
}

// GetSummary 获取用户的首页数据，优先读缓存
func (s *Service) GetSummary(ctx context.Context, userID uint) (*Summary, error) {
	var cached Summary
	if err := s.cache.GetCachedDashboard(ctx, userID, &cached); err == nil {
		return &cached, nil
	}

	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	stats, err := s.repo.ImageStats(ctx, userID)
	if err != nil {
		return nil, err
	}

	projects, err := s.repo.ProjectCount(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := buildSummary(user, stats, projects)
	if err := s.cache.CacheDashboard(ctx, userID, summary); err != nil {
		log.Printf("[Dashboard] Failed to cache summary for user %d: %v", userID, err)
	}

	return summary, nil
}

// RefreshCache 丢弃用户的首页缓存
func (s *Service) RefreshCache(ctx context.Context, userID uint) error {
	return s.cache.DeleteCachedDashboard(ctx, userID)
}

func buildSummary(user *models.User, stats *images.Stats, projects int64) *Summary {
	byType := make(map[string]int64, len(models.UploadTypes))
	for _, t := range models.UploadTypes {
		byType[t] = 0
	}
	for t, n := range stats.ByType {
		byType[t] = n
	}

	views := make([]string, len(Views))
	copy(views, Views)

	return &Summary{
		DisplayName: user.DisplayName(),
		Email:       user.Email,
		Views:       views,
		DefaultView: ViewUpload,
		Images: ImageSummary{
			Total:          stats.TotalImages,
			TotalSize:      stats.TotalSize,
			TotalSizeHuman: format.HumanReadableSize(stats.TotalSize),
			ByUploadType:   byType,
		},
		Projects: ProjectSummary{Total: projects},
	}
}
