package dashboard

import (
	"context"

	"github.com/anoixa/fish-bed/database/models"
	"github.com/anoixa/fish-bed/database/repo/accounts"
	"github.com/anoixa/fish-bed/database/repo/images"
	"github.com/anoixa/fish-bed/database/repo/projects"
)

// Repository 组合各仓库实现 StatsRepository
type Repository struct {
	accounts *accounts.Repository
	images   *images.Repository
	projects *projects.Repository
}

// NewRepository 创建统计仓库
func NewRepository(accountsRepo *accounts.Repository, imagesRepo *images.Repository, projectsRepo *projects.Repository) *Repository {
	return &Repository{
		accounts: accountsRepo,
		images:   imagesRepo,
		projects: projectsRepo,
	}
}

func (r *Repository) GetUser(ctx context.Context, userID uint) (*models.User, error) {
	return r.accounts.WithContext(ctx).GetUserByID(userID)
}

func (r *Repository) ImageStats(ctx context.Context, userID uint) (*images.Stats, error) {
	return r.images.WithContext(ctx).StatsByUser(userID)
}

func (r *Repository) ProjectCount(ctx context.Context, userID uint) (int64, error) {
	return r.projects.WithContext(ctx).CountByUser(userID)
}
