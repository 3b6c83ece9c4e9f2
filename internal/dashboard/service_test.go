package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/anoixa/fish-bed/cache"
	"github.com/anoixa/fish-bed/database/dbtest"
	"github.com/anoixa/fish-bed/database/models"
	"github.com/anoixa/fish-bed/database/repo/accounts"
	"github.com/anoixa/fish-bed/database/repo/images"
	"github.com/anoixa/fish-bed/database/repo/projects"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockCache 模拟缓存
type mockCache struct {
	data map[string]interface{}
	sets int
}

func newMockCache() *mockCache {
	return &mockCache{
		data: make(map[string]interface{}),
	}
}

func (m *mockCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	m.data[key] = value
	m.sets++
	return nil
}

func (m *mockCache) Get(ctx context.Context, key string, dest interface{}) error {
	if val, ok := m.data[key]; ok {
		if summary, ok := val.(*Summary); ok {
			*dest.(*Summary) = *summary
			return nil
		}
	}
	return cache.ErrCacheMiss
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *mockCache) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := m.data[key]
	return ok, nil
}

func (m *mockCache) Close() error {
	return nil
}

func (m *mockCache) Name() string {
	return "mock"
}

// mockRepository 模拟仓库
type mockRepository struct {
	user     *models.User
	stats    *images.Stats
	projects int64
	calls    int
}

func (m *mockRepository) GetUser(ctx context.Context, userID uint) (*models.User, error) {
	m.calls++
	return m.user, nil
}

func (m *mockRepository) ImageStats(ctx context.Context, userID uint) (*images.Stats, error) {
	return m.stats, nil
}

func (m *mockRepository) ProjectCount(ctx context.Context, userID uint) (int64, error) {
	return m.projects, nil
}

func TestService_GetSummary(t *testing.T) {
	repo := &mockRepository{
		user: &models.User{ID: 1, Email: "marina@reef.org"},
		stats: &images.Stats{
			TotalImages: 3,
			TotalSize:   3 * 1024 * 1024,
			ByType:      map[string]int64{models.UploadTypeUpload: 2, models.UploadTypeCamera: 1},
		},
		projects: 2,
	}
	svc := NewService(repo, cache.NewHelper(newMockCache()))

	summary, err := svc.GetSummary(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, "marina", summary.DisplayName)
	assert.Equal(t, []string{"upload", "camera", "gallery", "settings"}, summary.Views)
	assert.Equal(t, ViewUpload, summary.DefaultView)
	assert.Equal(t, int64(3), summary.Images.Total)
	assert.Equal(t, "3.00 MB", summary.Images.TotalSizeHuman)
	assert.Equal(t, int64(2), summary.Images.ByUploadType[models.UploadTypeUpload])
	assert.Equal(t, int64(0), summary.Images.ByUploadType[models.UploadTypeDropbox])
	assert.Equal(t, int64(2), summary.Projects.Total)
}

func TestService_GetSummary_Cached(t *testing.T) {
	repo := &mockRepository{
		user:  &models.User{ID: 1, FullName: "Marina Reef"},
		stats: &images.Stats{ByType: map[string]int64{}},
	}
	mc := newMockCache()
	svc := NewService(repo, cache.NewHelper(mc))
	ctx := context.Background()

	first, err := svc.GetSummary(ctx, 1)
	require.NoError(t, err)
	second, err := svc.GetSummary(ctx, 1)
	require.NoError(t, err)

	assert.Equal(t, 1, repo.calls)
	assert.Equal(t, 1, mc.sets)
	assert.Equal(t, first.DisplayName, second.DisplayName)

	require.NoError(t, svc.RefreshCache(ctx, 1))
	_, err = svc.GetSummary(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.calls)
}

func TestRepository_Aggregates(t *testing.T) {
	db := dbtest.NewDB(t)
	accountsRepo := accounts.NewRepository(db)
	imagesRepo := images.NewRepository(db)
	projectsRepo := projects.NewRepository(db)

	user := &models.User{Email: "diver@reef.org", FullName: "Deep Diver", Password: "x"}
	require.NoError(t, accountsRepo.CreateUser(user))

	for i, size := range []int64{100, 250} {
		require.NoError(t, imagesRepo.Create(&models.FishImage{
			ID:         uuid.NewString(),
			UserID:     user.ID,
			FileName:   "fish.png",
			FilePath:   "users/1/" + uuid.NewString() + ".png",
			FileSize:   size,
			UploadType: models.UploadTypes[i],
		}))
	}
	require.NoError(t, projectsRepo.Create(&models.Project{ID: uuid.NewString(), UserID: user.ID, Name: "Reef survey"}))

	svc := NewService(NewRepository(accountsRepo, imagesRepo, projectsRepo), cache.NewHelper(nil))
	summary, err := svc.GetSummary(context.Background(), user.ID)
	require.NoError(t, err)

	assert.Equal(t, "Deep Diver", summary.DisplayName)
	assert.Equal(t, int64(2), summary.Images.Total)
	assert.Equal(t, int64(350), summary.Images.TotalSize)
	assert.Equal(t, int64(1), summary.Images.ByUploadType[models.UploadTypeCamera])
	assert.Equal(t, int64(1), summary.Projects.Total)
}
