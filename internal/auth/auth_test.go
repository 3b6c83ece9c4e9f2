package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/anoixa/fish-bed/database/dbtest"
	"github.com/anoixa/fish-bed/database/repo/accounts"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestJWT(t *testing.T) *JWTService {
	t.Helper()
	svc, err := NewJWTServiceWithConfig(TokenConfig{
		Secret:           []byte(testSecret),
		ExpiresIn:        time.Minute,
		RefreshExpiresIn: time.Hour,
	})
	require.NoError(t, err)
	return svc
}

func newTestLoginService(t *testing.T) *LoginService {
	t.Helper()
	db := dbtest.NewDB(t)
	return NewLoginService(accounts.NewRepository(db), accounts.NewDeviceRepository(db), newTestJWT(t))
}

func TestNewJWTServiceWithConfig_ShortSecret(t *testing.T) {
	_, err := NewJWTServiceWithConfig(TokenConfig{Secret: []byte("short")})
	assert.Error(t, err)
}

func TestJWTService_RoundTrip(t *testing.T) {
	svc := newTestJWT(t)

	token, expiry, err := svc.GenerateAccessToken("ada@example.com", 7, "user")
	require.NoError(t, err)
	assert.True(t, expiry.After(time.Now()))

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "ada@example.com", claims.Username)
	assert.Equal(t, "access", claims.Type)
}

func TestJWTService_RejectsForeignAndExpired(t *testing.T) {
	svc := newTestJWT(t)

	other, err := NewJWTServiceWithConfig(TokenConfig{Secret: []byte(strings.Repeat("z", 32))})
	require.NoError(t, err)
	foreign, _, err := other.GenerateAccessToken("x", 1, "user")
	require.NoError(t, err)
	_, err = svc.ValidateAccessToken(foreign)
	assert.Error(t, err)

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 1,
		"type":    "access",
		"exp":     time.Now().Add(-time.Minute).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = svc.ValidateAccessToken(expired)
	assert.Error(t, err)

	refreshTyped, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": 1,
		"type":    "refresh",
		"exp":     time.Now().Add(time.Minute).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = svc.ValidateAccessToken(refreshTyped)
	assert.Error(t, err)
}

func TestLoginService_RegisterValidation(t *testing.T) {
	svc := newTestLoginService(t)

	_, err := svc.Register("not-an-email", "longenough", "")
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = svc.Register("ada@example.com", "short", "")
	assert.ErrorIs(t, err, ErrWeakPassword)

	user, err := svc.Register("Ada@Example.com", "longenough", " Ada ")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, "Ada", user.FullName)
	assert.NotEqual(t, "longenough", user.Password)

	_, err = svc.Register("ada@example.com", "longenough", "")
	assert.ErrorIs(t, err, accounts.ErrEmailTaken)
}

func TestLoginService_LoginRefreshLogout(t *testing.T) {
	svc := newTestLoginService(t)
	_, err := svc.Register("ada@example.com", "longenough", "")
	require.NoError(t, err)

	_, err = svc.Login("ada@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login("nobody@example.com", "longenough")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	login, err := svc.Login("ada@example.com", "longenough")
	require.NoError(t, err)
	assert.NotEmpty(t, login.AccessToken)
	assert.NotEmpty(t, login.DeviceID)

	refreshed, err := svc.RefreshToken(login.RefreshToken, login.DeviceID)
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	// 旧令牌已轮换失效
	_, err = svc.RefreshToken(login.RefreshToken, login.DeviceID)
	assert.ErrorIs(t, err, ErrInvalidRefresh)

	require.NoError(t, svc.Logout(login.DeviceID))
	_, err = svc.RefreshToken(refreshed.RefreshToken, login.DeviceID)
	assert.ErrorIs(t, err, ErrInvalidRefresh)
}
