package projects

import (
	"context"
	"fmt"

	"github.com/anoixa/fish-bed/database/models"
	"gorm.io/gorm"
)

// Repository 项目仓库
type Repository struct {
	db *gorm.DB
}

// NewRepository 创建新的项目仓库
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithContext 返回带上下文的仓库
func (r *Repository) WithContext(ctx context.Context) *Repository {
	return &Repository{db: r.db.WithContext(ctx)}
}

// Create 创建项目
func (r *Repository) Create(project *models.Project) error {
	if err := r.db.Create(project).Error; err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

// ListByUser 按更新时间倒序列出用户项目
func (r *Repository) ListByUser(userID uint) ([]*models.Project, error) {
	var list []*models.Project
	err := r.db.Where("user_id = ?", userID).Order("updated_at desc").Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return list, nil
}

// GetByIDAndUser 获取用户的单个项目
func (r *Repository) GetByIDAndUser(id string, userID uint) (*models.Project, error) {
	var project models.Project
	if err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// Update 更新名称与描述，UpdatedAt 由 gorm 自动刷新
func (r *Repository) Update(project *models.Project) error {
	result := r.db.Model(&models.Project{}).
		Where("id = ? AND user_id = ?", project.ID, project.UserID).
		Updates(map[string]interface{}{
			"name":        project.Name,
			"description": project.Description,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update project: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteByIDAndUser 删除用户的项目
func (r *Repository) DeleteByIDAndUser(id string, userID uint) error {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Project{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete project: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountByUser 统计用户项目数
func (r *Repository) CountByUser(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Project{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
