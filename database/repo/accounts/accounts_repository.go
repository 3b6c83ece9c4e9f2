package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anoixa/fish-bed/database/models"
	"gorm.io/gorm"
)

// ErrUserNotFound 用户不存在错误
var ErrUserNotFound = errors.New("user not found")

// ErrEmailTaken 邮箱已被注册
var ErrEmailTaken = errors.New("email already registered")

// Repository 账户仓库
type Repository struct {
	db *gorm.DB
}

// NewRepository 创建新的账户仓库
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithContext 返回带上下文的仓库
func (r *Repository) WithContext(ctx context.Context) *Repository {
	return &Repository{db: r.db.WithContext(ctx)}
}

// NormalizeEmail 邮箱统一小写去空格
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUser 创建用户，邮箱重复返回 ErrEmailTaken
func (r *Repository) CreateUser(user *models.User) error {
	user.Email = NormalizeEmail(user.Email)

	exists, err := r.EmailExists(user.Email)
	if err != nil {
		return err
	}
	if exists {
		return ErrEmailTaken
	}

	if err := r.db.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// EmailExists 检查邮箱是否已注册
func (r *Repository) EmailExists(email string) (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("email = ?", NormalizeEmail(email)).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return count > 0, nil
}

// GetUserByEmail 通过邮箱获取用户
func (r *Repository) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Where("email = ?", NormalizeEmail(email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetUserByID 通过ID获取用户
func (r *Repository) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	err := r.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UpdateFullName 更新显示名称
func (r *Repository) UpdateFullName(userID uint, fullName string) error {
	result := r.db.Model(&models.User{}).Where("id = ?", userID).Update("full_name", strings.TrimSpace(fullName))
	if result.Error != nil {
		return fmt.Errorf("failed to update user %d: %w", userID, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// CountUsers 统计用户数量
func (r *Repository) CountUsers() (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Count(&count).Error
	return count, err
}
