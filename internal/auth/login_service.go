package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anoixa/fish-bed/database/models"
	"github.com/anoixa/fish-bed/database/repo/accounts"
	cryptopackage "github.com/anoixa/fish-bed/utils/crypto"
	"github.com/google/uuid"
)

// MinPasswordLength 密码最小长度
const MinPasswordLength = 8

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidRefresh     = errors.New("invalid refresh token or device ID")
	ErrWeakPassword       = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	ErrInvalidEmail       = errors.New("a valid email address is required")
)

// LoginResult 登录结果
type LoginResult struct {
	User               *models.User
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
	DeviceID           string
}

// RefreshResult Token 刷新结果
type RefreshResult struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
	DeviceID           string
}

// LoginService 注册、登录与会话轮换
type LoginService struct {
	accountsRepo *accounts.Repository
	devicesRepo  *accounts.DeviceRepository
	jwtService   *JWTService
}

// NewLoginService 创建新的登录服务
func NewLoginService(
	accountsRepo *accounts.Repository,
	devicesRepo *accounts.DeviceRepository,
	jwtService *JWTService,
) *LoginService {
	return &LoginService{
		accountsRepo: accountsRepo,
		devicesRepo:  devicesRepo,
		jwtService:   jwtService,
	}
}

// Register 注册新用户
func (s *LoginService) Register(email, password, fullName string) (*models.User, error) {
	email = accounts.NormalizeEmail(email)
	if at := strings.Index(email, "@"); at < 1 || at == len(email)-1 {
		return nil, ErrInvalidEmail
	}
	if len(password) < MinPasswordLength {
		return nil, ErrWeakPassword
	}

	hashed, err := cryptopackage.GenerateFromPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:    email,
		FullName: strings.TrimSpace(fullName),
		Password: hashed,
		Role:     models.RoleUser,
	}
	if err := s.accountsRepo.CreateUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

// ValidateCredentials 验证用户凭据，用户不存在时返回 nil, false, nil
func (s *LoginService) ValidateCredentials(email, password string) (*models.User, bool, error) {
	user, err := s.accountsRepo.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, accounts.ErrUserNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get user: %w", err)
	}

	ok, err := cryptopackage.ComparePasswordAndHash(password, user.Password)
	if err != nil {
		return nil, false, fmt.Errorf("password comparison failed: %w", err)
	}
	return user, ok, nil
}

// Login 验证凭据并为新设备签发令牌
func (s *LoginService) Login(email, password string) (*LoginResult, error) {
	user, valid, err := s.ValidateCredentials(email, password)
	if err != nil {
		return nil, err
	}
	if !valid {
		return nil, ErrInvalidCredentials
	}

	pair, err := s.jwtService.GenerateTokens(user.Email, user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}

	deviceID := uuid.New().String()
	if err := s.devicesRepo.SaveDevice(user.ID, deviceID, pair.RefreshToken, pair.RefreshTokenExpiry); err != nil {
		return nil, fmt.Errorf("failed to store device token: %w", err)
	}

	return &LoginResult{
		User:               user,
		AccessToken:        pair.AccessToken,
		AccessTokenExpiry:  pair.AccessTokenExpiry,
		RefreshToken:       pair.RefreshToken,
		RefreshTokenExpiry: pair.RefreshTokenExpiry,
		DeviceID:           deviceID,
	}, nil
}

// RefreshToken 轮换刷新令牌并签发新的访问令牌
func (s *LoginService) RefreshToken(refreshToken, deviceID string) (*RefreshResult, error) {
	if refreshToken == "" || deviceID == "" {
		return nil, ErrInvalidRefresh
	}

	device, err := s.devicesRepo.GetDeviceByRefreshTokenAndDeviceID(refreshToken, deviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get device: %w", err)
	}
	if device == nil {
		return nil, ErrInvalidRefresh
	}

	user, err := s.accountsRepo.GetUserByID(device.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	newRefresh, newRefreshExpiry, err := s.jwtService.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}

	if err := s.devicesRepo.RotateRefreshToken(user.ID, device.DeviceID, newRefresh, newRefreshExpiry); err != nil {
		return nil, fmt.Errorf("failed to update device token: %w", err)
	}

	accessToken, accessExpiry, err := s.jwtService.GenerateAccessToken(user.Email, user.ID, user.Role)
	if err != nil {
		return nil, err
	}

	return &RefreshResult{
		AccessToken:        accessToken,
		AccessTokenExpiry:  accessExpiry,
		RefreshToken:       newRefresh,
		RefreshTokenExpiry: newRefreshExpiry,
		DeviceID:           deviceID,
	}, nil
}

// Logout 删除设备会话
func (s *LoginService) Logout(deviceID string) error {
	if deviceID == "" {
		return nil
	}
	return s.devicesRepo.DeleteDeviceByDeviceID(deviceID)
}
