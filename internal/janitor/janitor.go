// Package janitor 清理孤儿记录、过期会话与残留临时文件
package janitor

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/anoixa/fish-bed/cache"
	"github.com/anoixa/fish-bed/database/repo/accounts"
	"github.com/anoixa/fish-bed/database/repo/images"
	"github.com/anoixa/fish-bed/storage"
	"golang.org/x/sync/errgroup"
)

const (
	defaultBatchSize   = 200
	defaultConcurrency = 8
	defaultTempMaxAge  = 24 * time.Hour

	// 与上传服务创建的临时文件前缀一致
	tempFilePrefix = "upload-"
)

// Options 清理参数
type Options struct {
	TempDir     string
	TempMaxAge  time.Duration
	BatchSize   int
	Concurrency int
	DryRun      bool

	// SkipOrphans 不扫描孤儿记录，定时任务使用
	SkipOrphans bool
	// Force 整批对象都丢失时仍然删除记录
	Force bool
}

// Report 清理结果
type Report struct {
	ScannedImages  int      `json:"scanned_images"`
	MissingBlobs   []string `json:"missing_blobs"`
	RemovedRows    int64    `json:"removed_rows"`
	ExpiredDevices int64    `json:"expired_devices"`
	StaleTempFiles int      `json:"stale_temp_files"`
	DryRun         bool     `json:"dry_run"`
	OrphansAborted bool     `json:"orphans_aborted"`
}

// Janitor 维护任务
type Janitor struct {
	images      *images.Repository
	devices     *accounts.DeviceRepository
	storage     storage.Provider
	cacheHelper *cache.Helper
	now         func() time.Time
}

// New 创建清理器
func New(imagesRepo *images.Repository, devicesRepo *accounts.DeviceRepository, provider storage.Provider, cacheHelper *cache.Helper) *Janitor {
	return &Janitor{
		images:      imagesRepo,
		devices:     devicesRepo,
		storage:     provider,
		cacheHelper: cacheHelper,
		now:         time.Now,
	}
}

func (o Options) withDefaults() Options {
	if o.BatchSize <= 0 {
		o.BatchSize = defaultBatchSize
	}
	if o.Concurrency <= 0 {
		o.Concurrency = defaultConcurrency
	}
	if o.TempMaxAge <= 0 {
		o.TempMaxAge = defaultTempMaxAge
	}
	return o
}

// Run 依次执行全部清理
func (j *Janitor) Run(ctx context.Context, opts Options) (*Report, error) {
	opts = opts.withDefaults()
	report := &Report{MissingBlobs: []string{}, DryRun: opts.DryRun}

	if !opts.SkipOrphans {
		if err := j.pruneOrphans(ctx, opts, report); err != nil {
			return report, err
		}
	}
	if err := j.pruneDevices(ctx, opts, report); err != nil {
		return report, err
	}
	if err := j.pruneTempFiles(opts, report); err != nil {
		return report, err
	}

	log.Printf("[Janitor] scanned=%d missing=%d removed=%d aborted=%v devices=%d temp=%d dry_run=%v",
		report.ScannedImages, len(report.MissingBlobs), report.RemovedRows, report.OrphansAborted,
		report.ExpiredDevices, report.StaleTempFiles, report.DryRun)
	return report, nil
}

// pruneOrphans 删除存储对象已丢失的图片记录
// 存储不可用或整批对象都丢失时不删除，避免挂载错误清空图库
func (j *Janitor) pruneOrphans(ctx context.Context, opts Options, report *Report) error {
	if err := j.storage.Health(ctx); err != nil {
		return fmt.Errorf("storage %s is unhealthy, orphan scan skipped: %w", j.storage.Name(), err)
	}

	repo := j.images.WithContext(ctx)
	affectedUsers := make(map[uint]struct{})

	afterID := ""
	for {
		batch, err := repo.ListBatch(afterID, opts.BatchSize)
		if err != nil {
			return fmt.Errorf("failed to list images: %w", err)
		}
		if len(batch) == 0 {
			break
		}
		afterID = batch[len(batch)-1].ID
		report.ScannedImages += len(batch)

		var mu sync.Mutex
		var missing []string
		users := make(map[uint]struct{})

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(opts.Concurrency)
		for _, img := range batch {
			g.Go(func() error {
				exists, err := j.storage.Exists(gctx, img.FilePath)
				if err != nil {
					return fmt.Errorf("failed to stat %s: %w", img.FilePath, err)
				}
				if !exists {
					mu.Lock()
					missing = append(missing, img.ID)
					users[img.UserID] = struct{}{}
					mu.Unlock()
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		report.MissingBlobs = append(report.MissingBlobs, missing...)
		if opts.DryRun || len(missing) == 0 {
			continue
		}

		if len(missing) == len(batch) && !opts.Force {
			log.Printf("[Janitor] All %d blobs in batch are missing from %s, check storage configuration; orphan removal aborted", len(batch), j.storage.Name())
			report.OrphansAborted = true
			break
		}

		removed, err := repo.DeleteByIDs(missing)
		if err != nil {
			return fmt.Errorf("failed to delete orphan rows: %w", err)
		}
		report.RemovedRows += removed
		for userID := range users {
			affectedUsers[userID] = struct{}{}
		}
	}

	for userID := range affectedUsers {
		if err := j.cacheHelper.InvalidateImages(ctx, userID); err != nil {
			log.Printf("[Janitor] Failed to invalidate cache for user %d: %v", userID, err)
		}
	}
	return nil
}

func (j *Janitor) pruneDevices(ctx context.Context, opts Options, report *Report) error {
	repo := j.devices.WithContext(ctx)

	var (
		n   int64
		err error
	)
	if opts.DryRun {
		n, err = repo.CountExpired(j.now())
	} else {
		n, err = repo.DeleteExpired(j.now())
	}
	if err != nil {
		return fmt.Errorf("failed to prune expired devices: %w", err)
	}
	report.ExpiredDevices = n
	return nil
}

// pruneTempFiles 删除上传中断遗留的临时文件
func (j *Janitor) pruneTempFiles(opts Options, report *Report) error {
	if opts.TempDir == "" {
		return nil
	}

	entries, err := os.ReadDir(opts.TempDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read temp dir: %w", err)
	}

	cutoff := j.now().Add(-opts.TempMaxAge)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), tempFilePrefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}

		report.StaleTempFiles++
		if opts.DryRun {
			continue
		}
		if err := os.Remove(filepath.Join(opts.TempDir, entry.Name())); err != nil && !os.IsNotExist(err) {
			log.Printf("[Janitor] Failed to remove temp file %s: %v", entry.Name(), err)
		}
	}
	return nil
}
