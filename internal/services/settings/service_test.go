package settings

import (
	"context"
	"testing"

	"github.com/anoixa/fish-bed/cache"
	"github.com/anoixa/fish-bed/database/dbtest"
	"github.com/anoixa/fish-bed/database/repo/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newService(t *testing.T, db *gorm.DB) *Service {
	t.Helper()
	mem, err := cache.NewMemoryCache(cache.MemoryConfig{NumCounters: 1000, MaxCost: 1 << 20})
	require.NoError(t, err)
	t.Cleanup(func() { _ = mem.Close() })
	return NewService(settings.NewRepository(db), cache.NewHelper(mem))
}

func TestService_Defaults(t *testing.T) {
	svc := newService(t, dbtest.NewDB(t))

	values, err := svc.GetAll(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, Defaults, values)

	prefs := PreferencesFrom(values)
	assert.Equal(t, ThemeSystem, prefs.Theme)
	assert.False(t, prefs.Notifications)
	assert.True(t, prefs.ExpandOnClick)
}

func TestService_TogglePersistsAcrossReload(t *testing.T) {
	db := dbtest.NewDB(t)
	ctx := context.Background()

	svc := newService(t, db)
	_, err := svc.Set(ctx, 1, KeyNotifications, "true")
	require.NoError(t, err)
	_, err = svc.Set(ctx, 1, KeyExpandOnClick, "false")
	require.NoError(t, err)

	// 新实例、新缓存，相当于重新加载页面
	reloaded := newService(t, db)
	value, err := reloaded.Get(ctx, 1, KeyNotifications)
	require.NoError(t, err)
	assert.Equal(t, "true", value)

	prefs, err := reloaded.Preferences(ctx, 1)
	require.NoError(t, err)
	assert.True(t, prefs.Notifications)
	assert.False(t, prefs.ExpandOnClick)

	other, err := reloaded.Get(ctx, 2, KeyNotifications)
	require.NoError(t, err)
	assert.Equal(t, "false", other)
}

func TestService_SetInvalidatesCache(t *testing.T) {
	svc := newService(t, dbtest.NewDB(t))
	ctx := context.Background()

	assert.Equal(t, "en", svc.Language(ctx, 1))

	values, err := svc.Set(ctx, 1, KeyLanguage, "es-MX")
	require.NoError(t, err)
	assert.Equal(t, "es", values[KeyLanguage])
	assert.Equal(t, "es", svc.Language(ctx, 1))
}

func TestService_Validation(t *testing.T) {
	svc := newService(t, dbtest.NewDB(t))
	ctx := context.Background()

	_, err := svc.Set(ctx, 1, "app-unknown", "x")
	assert.ErrorIs(t, err, ErrUnknownKey)
	assert.True(t, IsClientError(err))

	_, err = svc.Set(ctx, 1, KeyTheme, "neon")
	assert.ErrorIs(t, err, ErrInvalidSetting)

	_, err = svc.Set(ctx, 1, KeyLanguage, "fr")
	assert.ErrorIs(t, err, ErrInvalidSetting)

	_, err = svc.Set(ctx, 1, KeyAutoAnalyze, "maybe")
	assert.ErrorIs(t, err, ErrInvalidSetting)

	_, err = svc.Get(ctx, 1, "app-unknown")
	assert.ErrorIs(t, err, ErrUnknownKey)
}

func TestDecodePatch(t *testing.T) {
	patch, err := DecodePatch(map[string]interface{}{
		"theme":           "dark",
		"notifications":   true,
		"expand_on_click": "false",
	})
	require.NoError(t, err)
	require.NotNil(t, patch.Theme)
	assert.Equal(t, "dark", *patch.Theme)
	require.NotNil(t, patch.Notifications)
	assert.True(t, *patch.Notifications)
	require.NotNil(t, patch.ExpandOnClick)
	assert.False(t, *patch.ExpandOnClick)
	assert.Nil(t, patch.Language)
	assert.Nil(t, patch.AutoAnalyze)

	_, err = DecodePatch(map[string]interface{}{"volume": 11})
	assert.ErrorIs(t, err, ErrInvalidSetting)
}

func TestService_UpdatePatch(t *testing.T) {
	svc := newService(t, dbtest.NewDB(t))
	ctx := context.Background()

	patch, err := DecodePatch(map[string]interface{}{"theme": "light", "auto_analyze": true})
	require.NoError(t, err)

	values, err := svc.Update(ctx, 1, patch)
	require.NoError(t, err)
	assert.Equal(t, ThemeLight, values[KeyTheme])
	assert.Equal(t, "true", values[KeyAutoAnalyze])
	assert.Equal(t, "true", values[KeyExpandOnClick])

	bad, err := DecodePatch(map[string]interface{}{"theme": "neon"})
	require.NoError(t, err)
	_, err = svc.Update(ctx, 1, bad)
	assert.ErrorIs(t, err, ErrInvalidSetting)
}
