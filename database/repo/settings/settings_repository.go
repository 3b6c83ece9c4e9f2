package settings

import (
	"context"
	"fmt"
	"time"

	"github.com/anoixa/fish-bed/database/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository 用户设置仓库
type Repository struct {
	db *gorm.DB
}

// NewRepository 创建新的设置仓库
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithContext 返回带上下文的仓库
func (r *Repository) WithContext(ctx context.Context) *Repository {
	return &Repository{db: r.db.WithContext(ctx)}
}

// GetAll 返回用户已存储的全部设置
func (r *Repository) GetAll(userID uint) (map[string]string, error) {
	var rows []models.UserSetting
	if err := r.db.Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	values := make(map[string]string, len(rows))
	for _, row := range rows {
		values[row.Key] = row.Value
	}
	return values, nil
}

// Upsert 写入一组设置，(user_id, key) 冲突时覆盖 value
func (r *Repository) Upsert(userID uint, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}

	now := time.Now()
	rows := make([]models.UserSetting, 0, len(values))
	for key, value := range values {
		rows = append(rows, models.UserSetting{UserID: userID, Key: key, Value: value, UpdatedAt: now})
	}

	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&rows).Error
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
