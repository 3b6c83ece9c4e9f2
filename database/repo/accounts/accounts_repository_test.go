package accounts

import (
	"testing"
	"time"

	"github.com/anoixa/fish-bed/database/dbtest"
	"github.com/anoixa/fish-bed/database/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_CreateAndLookup(t *testing.T) {
	repo := NewRepository(dbtest.NewDB(t))

	user := &models.User{Email: "  Ada@Example.com ", Password: "hash", FullName: "Ada"}
	require.NoError(t, repo.CreateUser(user))
	assert.NotZero(t, user.ID)
	assert.Equal(t, "ada@example.com", user.Email)

	got, err := repo.GetUserByEmail("ADA@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	got, err = repo.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", got.FullName)

	_, err = repo.GetUserByID(999)
	assert.ErrorIs(t, err, ErrUserNotFound)

	err = repo.CreateUser(&models.User{Email: "ada@example.com", Password: "x"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	n, err := repo.CountUsers()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestRepository_UpdateFullName(t *testing.T) {
	repo := NewRepository(dbtest.NewDB(t))
	user := &models.User{Email: "bob@example.com", Password: "hash"}
	require.NoError(t, repo.CreateUser(user))

	require.NoError(t, repo.UpdateFullName(user.ID, "  Bob Marley "))
	got, err := repo.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bob Marley", got.FullName)

	assert.ErrorIs(t, repo.UpdateFullName(404, "x"), ErrUserNotFound)
}

func TestDeviceRepository_Lifecycle(t *testing.T) {
	repo := NewDeviceRepository(dbtest.NewDB(t))
	expiry := time.Now().Add(time.Hour)

	require.NoError(t, repo.SaveDevice(1, "device-a", "token-1", expiry))

	device, err := repo.GetDeviceByRefreshTokenAndDeviceID("token-1", "device-a")
	require.NoError(t, err)
	require.NotNil(t, device)
	assert.NotEqual(t, "token-1", device.RefreshToken)
	assert.Len(t, device.RefreshToken, 64)

	require.NoError(t, repo.RotateRefreshToken(1, "device-a", "token-2", expiry))

	device, err = repo.GetDeviceByRefreshTokenAndDeviceID("token-1", "device-a")
	require.NoError(t, err)
	assert.Nil(t, device)

	device, err = repo.GetDeviceByRefreshTokenAndDeviceID("token-2", "device-a")
	require.NoError(t, err)
	assert.NotNil(t, device)

	require.NoError(t, repo.DeleteDeviceByDeviceID("device-a"))
	device, err = repo.GetDeviceByRefreshTokenAndDeviceID("token-2", "device-a")
	require.NoError(t, err)
	assert.Nil(t, device)
}

func TestDeviceRepository_DeleteExpired(t *testing.T) {
	repo := NewDeviceRepository(dbtest.NewDB(t))
	now := time.Now()

	require.NoError(t, repo.SaveDevice(1, "old", "t-old", now.Add(-time.Minute)))
	require.NoError(t, repo.SaveDevice(1, "new", "t-new", now.Add(time.Hour)))

	n, err := repo.DeleteExpired(now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	device, err := repo.GetDeviceByRefreshTokenAndDeviceID("t-new", "new")
	require.NoError(t, err)
	assert.NotNil(t, device)
}
