package settings

import (
	"testing"

	"github.com/anoixa/fish-bed/database/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_UpsertOverwrites(t *testing.T) {
	db := dbtest.NewDB(t)
	repo := NewRepository(db)

	require.NoError(t, repo.Upsert(1, map[string]string{"app-theme": "dark", "app-notifications": "true"}))
	require.NoError(t, repo.Upsert(1, map[string]string{"app-theme": "light"}))
	require.NoError(t, repo.Upsert(2, map[string]string{"app-theme": "system"}))

	// 新建仓库实例模拟重新加载
	reloaded := NewRepository(db)
	got, err := reloaded.GetAll(1)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"app-theme": "light", "app-notifications": "true"}, got)

	other, err := reloaded.GetAll(2)
	require.NoError(t, err)
	assert.Equal(t, "system", other["app-theme"])
}

func TestRepository_EmptyUpsert(t *testing.T) {
	repo := NewRepository(dbtest.NewDB(t))
	require.NoError(t, repo.Upsert(1, nil))

	got, err := repo.GetAll(1)
	require.NoError(t, err)
	assert.Empty(t, got)
}
