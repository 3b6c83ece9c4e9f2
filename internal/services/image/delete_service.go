package image

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/anoixa/fish-bed/cache"
	"github.com/anoixa/fish-bed/database/repo/images"
	"github.com/anoixa/fish-bed/storage"
	"golang.org/x/sync/errgroup"
)

// DeleteResult 删除结果，Selection 始终为空表示前端选择已清空
type DeleteResult struct {
	DeletedCount int64    `json:"deleted_count"`
	DeletedIDs   []string `json:"deleted_ids"`
	Selection    []string `json:"selection"`
}

// DeleteService 图片删除服务
type DeleteService struct {
	repo        *images.Repository
	storage     storage.Provider
	cacheHelper *cache.Helper
}

// NewDeleteService 创建删除服务
func NewDeleteService(repo *images.Repository, provider storage.Provider, cacheHelper *cache.Helper) *DeleteService {
	return &DeleteService{repo: repo, storage: provider, cacheHelper: cacheHelper}
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// DeleteBatch 删除选中的图片：先并发删除存储对象，任一失败则整体失败且不删记录，
// 全部成功后一次性删除记录。只处理属于该用户的 id
func (s *DeleteService) DeleteBatch(ctx context.Context, userID uint, ids []string) (*DeleteResult, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}

	ids = dedupe(ids)
	result := &DeleteResult{DeletedIDs: []string{}, Selection: []string{}}
	if len(ids) == 0 {
		return result, nil
	}

	repo := s.repo.WithContext(ctx)
	owned, err := repo.GetByIDsAndUser(ids, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load images: %w", err)
	}
	if len(owned) == 0 {
		return result, nil
	}

	var g errgroup.Group
	for _, img := range owned {
		g.Go(func() error {
			err := s.storage.DeleteWithContext(ctx, img.FilePath)
			if err != nil && !errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("failed to remove %s: %w", img.FileName, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ownedIDs := make([]string, 0, len(owned))
	for _, img := range owned {
		ownedIDs = append(ownedIDs, img.ID)
	}

	affected, err := repo.DeleteByIDsAndUser(ownedIDs, userID)
	if err != nil {
		return nil, err
	}

	imagesDeletedTotal.Add(float64(affected))

	if s.cacheHelper != nil {
		if err := s.cacheHelper.InvalidateImages(ctx, userID); err != nil {
			log.Printf("[Gallery] Failed to invalidate gallery cache for user %d: %v", userID, err)
		}
	}

	// 对象已删除，记录可能已被清理任务先行移除，仍按选中数量计
	result.DeletedCount = int64(len(ownedIDs))
	result.DeletedIDs = ownedIDs
	return result, nil
}

// DeleteSingle 删除单张图片，不存在或不属于该用户时返回 ErrNotFound
func (s *DeleteService) DeleteSingle(ctx context.Context, userID uint, id string) (*DeleteResult, error) {
	result, err := s.DeleteBatch(ctx, userID, []string{id})
	if err != nil {
		return nil, err
	}
	if result.DeletedCount == 0 {
		return nil, ErrNotFound
	}
	return result, nil
}
