package project

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/anoixa/fish-bed/cache"
	"github.com/anoixa/fish-bed/database/models"
	"github.com/anoixa/fish-bed/database/repo/projects"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MaxNameLength        = 100
	MaxDescriptionLength = 500
)

var (
	ErrNotFound           = errors.New("project not found")
	ErrNameRequired       = errors.New("project name is required")
	ErrNameTooLong        = fmt.Errorf("project name must be at most %d characters", MaxNameLength)
	ErrDescriptionTooLong = fmt.Errorf("project description must be at most %d characters", MaxDescriptionLength)
)

// Input 创建或更新项目的请求体
type Input struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// Service 项目管理服务
type Service struct {
	repo        *projects.Repository
	cacheHelper *cache.Helper
}

// NewService 创建项目服务
func NewService(repo *projects.Repository, cacheHelper *cache.Helper) *Service {
	return &Service{repo: repo, cacheHelper: cacheHelper}
}

// normalize 去除首尾空白，空描述存为 NULL
func normalize(in Input) (string, *string, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return "", nil, ErrNameRequired
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return "", nil, ErrNameTooLong
	}

	desc := strings.TrimSpace(in.Description)
	if utf8.RuneCountInString(desc) > MaxDescriptionLength {
		return "", nil, ErrDescriptionTooLong
	}
	if desc == "" {
		return name, nil, nil
	}
	return name, &desc, nil
}

// IsValidationError 判断是否为输入校验错误
func IsValidationError(err error) bool {
	return errors.Is(err, ErrNameRequired) || errors.Is(err, ErrNameTooLong) || errors.Is(err, ErrDescriptionTooLong)
}

func (s *Service) invalidate(ctx context.Context, userID uint) {
	if err := s.cacheHelper.DeleteCachedDashboard(ctx, userID); err != nil {
		log.Printf("[Project] Failed to invalidate dashboard cache for user %d: %v", userID, err)
	}
}

// Create 创建项目
func (s *Service) Create(ctx context.Context, userID uint, in Input) (*models.Project, error) {
	name, desc, err := normalize(in)
	if err != nil {
		return nil, err
	}

	project := &models.Project{
		ID:          uuid.NewString(),
		UserID:      userID,
		Name:        name,
		Description: desc,
	}
	if err := s.repo.WithContext(ctx).Create(project); err != nil {
		return nil, err
	}

	s.invalidate(ctx, userID)
	return project, nil
}

// List 按更新时间倒序列出用户项目
func (s *Service) List(ctx context.Context, userID uint) ([]*models.Project, error) {
	list, err := s.repo.WithContext(ctx).ListByUser(userID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []*models.Project{}
	}
	return list, nil
}

// Get 获取单个项目
func (s *Service) Get(ctx context.Context, userID uint, id string) (*models.Project, error) {
	project, err := s.repo.WithContext(ctx).GetByIDAndUser(id, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return project, nil
}

// Update 更新名称与描述
func (s *Service) Update(ctx context.Context, userID uint, id string, in Input) (*models.Project, error) {
	name, desc, err := normalize(in)
	if err != nil {
		return nil, err
	}

	repo := s.repo.WithContext(ctx)
	err = repo.Update(&models.Project{ID: id, UserID: userID, Name: name, Description: desc})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, userID, id)
}

// Delete 删除项目
func (s *Service) Delete(ctx context.Context, userID uint, id string) error {
	err := s.repo.WithContext(ctx).DeleteByIDAndUser(id, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	s.invalidate(ctx, userID)
	return nil
}
