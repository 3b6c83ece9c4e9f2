package images

import (
	"context"
	"fmt"

	"github.com/anoixa/fish-bed/database/models"
	"gorm.io/gorm"
)

// ListFilter 图库查询条件
type ListFilter struct {
	UploadType string
	Page       int
	PageSize   int
}

// Repository 图片仓库，除运维命令外所有查询都按 user_id 过滤
type Repository struct {
	db *gorm.DB
}

// NewRepository 创建新的图片仓库
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithContext 返回带上下文的仓库
func (r *Repository) WithContext(ctx context.Context) *Repository {
	return &Repository{db: r.db.WithContext(ctx)}
}

// Create 创建图片记录
func (r *Repository) Create(image *models.FishImage) error {
	if err := r.db.Create(image).Error; err != nil {
		return fmt.Errorf("failed to create image record: %w", err)
	}
	return nil
}

// ListByUser 按创建时间倒序分页查询，PageSize 为 0 时返回全部
func (r *Repository) ListByUser(userID uint, filter ListFilter) ([]*models.FishImage, int64, error) {
	var images []*models.FishImage
	var total int64

	query := r.db.Model(&models.FishImage{}).Where("user_id = ?", userID)
	if filter.UploadType != "" {
		query = query.Where("upload_type = ?", filter.UploadType)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count images: %w", err)
	}

	query = query.Order("created_at desc").Order("id desc")
	if filter.PageSize > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	if err := query.Find(&images).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list images: %w", err)
	}
	return images, total, nil
}

// GetByIDAndUser 获取用户的单张图片
func (r *Repository) GetByIDAndUser(id string, userID uint) (*models.FishImage, error) {
	var image models.FishImage
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&image).Error
	if err != nil {
		return nil, err
	}
	return &image, nil
}

// GetByIDsAndUser 批量查询用户的图片，非本人的 id 被忽略
func (r *Repository) GetByIDsAndUser(ids []string, userID uint) ([]*models.FishImage, error) {
	if len(ids) == 0 {
		return []*models.FishImage{}, nil
	}

	var images []*models.FishImage
	err := r.db.Where("id IN ? AND user_id = ?", ids, userID).Find(&images).Error
	return images, err
}

// DeleteByIDsAndUser 批量删除用户的图片记录
func (r *Repository) DeleteByIDsAndUser(ids []string, userID uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	result := r.db.Where("id IN ? AND user_id = ?", ids, userID).Delete(&models.FishImage{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete images: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// Stats 单个用户的图库统计
type Stats struct {
	TotalImages int64            `json:"total_images"`
	TotalSize   int64            `json:"total_size"`
	ByType      map[string]int64 `json:"by_upload_type"`
}

// StatsByUser 统计用户的图片数量、总大小与来源分布
func (r *Repository) StatsByUser(userID uint) (*Stats, error) {
	var rows []struct {
		UploadType string
		Count      int64
		Size       int64
	}

	err := r.db.Model(&models.FishImage{}).
		Select("upload_type, COUNT(*) AS count, COALESCE(SUM(file_size), 0) AS size").
		Where("user_id = ?", userID).
		Group("upload_type").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate image stats: %w", err)
	}

	stats := &Stats{ByType: make(map[string]int64, len(rows))}
	for _, row := range rows {
		stats.TotalImages += row.Count
		stats.TotalSize += row.Size
		stats.ByType[row.UploadType] = row.Count
	}
	return stats, nil
}

// ListBatch 按 id 顺序遍历全部记录，供清理命令使用
func (r *Repository) ListBatch(afterID string, limit int) ([]*models.FishImage, error) {
	var images []*models.FishImage
	err := r.db.Where("id > ?", afterID).Order("id asc").Limit(limit).Find(&images).Error
	return images, err
}

// DeleteByIDs 不区分用户删除记录，仅供运维命令使用
func (r *Repository) DeleteByIDs(ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.Where("id IN ?", ids).Delete(&models.FishImage{})
	return result.RowsAffected, result.Error
}
