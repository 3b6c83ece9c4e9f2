package profile

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/anoixa/fish-bed/cache"
	"github.com/anoixa/fish-bed/database/repo/accounts"
)

// MaxFullNameLength 与 users.full_name 列宽一致
const MaxFullNameLength = 100

var (
	ErrNotFound        = errors.New("user not found")
	ErrFullNameTooLong = fmt.Errorf("full name must be at most %d characters", MaxFullNameLength)
)

// Profile 当前用户资料
type Profile struct {
	ID          uint      `json:"id"`
	Email       string    `json:"email"`
	FullName    string    `json:"full_name"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
}

// Service 用户资料服务
type Service struct {
	repo        *accounts.Repository
	cacheHelper *cache.Helper
}

// NewService 创建资料服务
func NewService(repo *accounts.Repository, cacheHelper *cache.Helper) *Service {
	return &Service{repo: repo, cacheHelper: cacheHelper}
}

// Get 获取资料，优先读缓存
func (s *Service) Get(ctx context.Context, userID uint) (*Profile, error) {
	var cached Profile
	if err := s.cacheHelper.GetCachedUser(ctx, userID, &cached); err == nil {
		return &cached, nil
	}

	user, err := s.repo.WithContext(ctx).GetUserByID(userID)
	if errors.Is(err, accounts.ErrUserNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	p := &Profile{
		ID:          user.ID,
		Email:       user.Email,
		FullName:    user.FullName,
		DisplayName: user.DisplayName(),
		Role:        user.Role,
		CreatedAt:   user.CreatedAt,
	}
	if err := s.cacheHelper.CacheUser(ctx, userID, p); err != nil {
		log.Printf("[Profile] Failed to cache profile for user %d: %v", userID, err)
	}
	return p, nil
}

// UpdateFullName 修改全名，空字符串表示清除
func (s *Service) UpdateFullName(ctx context.Context, userID uint, fullName string) (*Profile, error) {
	fullName = strings.TrimSpace(fullName)
	if utf8.RuneCountInString(fullName) > MaxFullNameLength {
		return nil, ErrFullNameTooLong
	}

	err := s.repo.WithContext(ctx).UpdateFullName(userID, fullName)
	if errors.Is(err, accounts.ErrUserNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := s.cacheHelper.DeleteCachedUser(ctx, userID); err != nil {
		log.Printf("[Profile] Failed to invalidate profile cache for user %d: %v", userID, err)
	}
	if err := s.cacheHelper.DeleteCachedDashboard(ctx, userID); err != nil {
		log.Printf("[Profile] Failed to invalidate dashboard cache for user %d: %v", userID, err)
	}

	return s.Get(ctx, userID)
}
