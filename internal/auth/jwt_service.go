package auth

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/anoixa/fish-bed/config"
	"github.com/anoixa/fish-bed/utils"
	"github.com/golang-jwt/jwt/v5"
)

// TokenPair 包含访问令牌和刷新令牌
type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

// TokenClaims JWT 令牌声明
type TokenClaims struct {
	Username string
	UserID   uint
	Role     string
	Type     string
	Exp      int64
	Iat      int64
}

// TokenConfig 保存 JWT 配置
type TokenConfig struct {
	Secret           []byte
	ExpiresIn        time.Duration
	RefreshExpiresIn time.Duration
}

// JWTService JWT Token 服务
type JWTService struct {
	config TokenConfig
}

// NewJWTService 从应用配置创建 JWT 服务，未配置密钥时生成进程内随机密钥
func NewJWTService(cfg *config.Config) (*JWTService, error) {
	secret := cfg.JWTSecret
	if secret == "" {
		generated, err := utils.GenerateRandomToken(48)
		if err != nil {
			return nil, fmt.Errorf("failed to generate JWT secret: %w", err)
		}
		secret = generated
		log.Println("[JWT] WARNING: jwt_secret is not set, using a random secret; sessions will not survive a restart")
	}

	return NewJWTServiceWithConfig(TokenConfig{
		Secret:           []byte(secret),
		ExpiresIn:        cfg.JWTAccessTokenTTL,
		RefreshExpiresIn: cfg.JWTRefreshTokenTTL,
	})
}

// NewJWTServiceWithConfig 使用显式配置创建 JWT 服务
func NewJWTServiceWithConfig(tc TokenConfig) (*JWTService, error) {
	if len(tc.Secret) < 32 {
		return nil, fmt.Errorf("JWT secret must be at least 32 characters long, got %d", len(tc.Secret))
	}
	if tc.ExpiresIn <= 0 {
		tc.ExpiresIn = 30 * time.Minute
	}
	if tc.RefreshExpiresIn <= 0 {
		tc.RefreshExpiresIn = 7 * 24 * time.Hour
	}

	log.Printf("[JWT] Config loaded - Access: %v, Refresh: %v", tc.ExpiresIn, tc.RefreshExpiresIn)
	return &JWTService{config: tc}, nil
}

// RefreshExpiresIn 刷新令牌有效期
func (s *JWTService) RefreshExpiresIn() time.Duration {
	return s.config.RefreshExpiresIn
}

// GenerateTokens 生成访问令牌和刷新令牌
func (s *JWTService) GenerateTokens(username string, userID uint, role string) (*TokenPair, error) {
	accessToken, accessExpiry, err := s.GenerateAccessToken(username, userID, role)
	if err != nil {
		return nil, err
	}

	refreshToken, refreshExpiry, err := s.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:        accessToken,
		AccessTokenExpiry:  accessExpiry,
		RefreshToken:       refreshToken,
		RefreshTokenExpiry: refreshExpiry,
	}, nil
}

// GenerateAccessToken 仅生成访问令牌
func (s *JWTService) GenerateAccessToken(username string, userID uint, role string) (string, time.Time, error) {
	now := time.Now()
	expiry := now.Add(s.config.ExpiresIn)
	claims := jwt.MapClaims{
		"username": username,
		"user_id":  userID,
		"role":     role,
		"type":     "access",
		"exp":      expiry.Unix(),
		"iat":      now.Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.config.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate access token: %w", err)
	}
	return token, expiry, nil
}

// GenerateRefreshToken 生成不透明的刷新令牌
func (s *JWTService) GenerateRefreshToken() (string, time.Time, error) {
	token, err := utils.GenerateRandomToken(64)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return token, time.Now().Add(s.config.RefreshExpiresIn), nil
}

// ParseToken 解析和验证 JWT 令牌
func (s *JWTService) ParseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.config.Secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// ExtractClaims 从令牌中提取声明
func (s *JWTService) ExtractClaims(tokenString string) (*TokenClaims, error) {
	claims, err := s.ParseToken(tokenString)
	if err != nil {
		return nil, err
	}

	username, _ := claims["username"].(string)
	role, _ := claims["role"].(string)
	tokenType, _ := claims["type"].(string)
	userID, _ := claims["user_id"].(float64)
	exp, _ := claims["exp"].(float64)
	iat, _ := claims["iat"].(float64)

	return &TokenClaims{
		Username: username,
		UserID:   uint(userID),
		Role:     role,
		Type:     tokenType,
		Exp:      int64(exp),
		Iat:      int64(iat),
	}, nil
}

// ValidateAccessToken 验证令牌并要求类型为 access
func (s *JWTService) ValidateAccessToken(tokenString string) (*TokenClaims, error) {
	claims, err := s.ExtractClaims(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Type != "access" || claims.UserID == 0 {
		return nil, errors.New("not an access token")
	}
	return claims, nil
}
