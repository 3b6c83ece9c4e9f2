package auth

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/anoixa/fish-bed/api/common"
	"github.com/anoixa/fish-bed/api/middleware"
	"github.com/anoixa/fish-bed/config"
	"github.com/anoixa/fish-bed/database/repo/accounts"
	authSvc "github.com/anoixa/fish-bed/internal/auth"
	"github.com/anoixa/fish-bed/internal/i18n"
	"github.com/gin-gonic/gin"
)

const (
	cookiePath         = "/api/auth/"
	refreshTokenCookie = "refresh_token"
	deviceIDCookie     = "device_id"

	// 会话探测的跳转目标
	RedirectDashboard = "/dashboard"
	RedirectLanding   = "/"
)

// Handler 认证处理器
type Handler struct {
	loginService *authSvc.LoginService
	jwtService   *authSvc.JWTService
	cookieDomain string
	secure       bool
}

// NewHandler 创建认证处理器
func NewHandler(loginService *authSvc.LoginService, jwtService *authSvc.JWTService) *Handler {
	return &Handler{
		loginService: loginService,
		jwtService:   jwtService,
		secure:       config.IsProduction(),
	}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"full_name"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type tokenResponse struct {
	AccessToken       string `json:"access_token"`
	AccessTokenExpiry int64  `json:"access_token_expiry"`
	DisplayName       string `json:"display_name,omitempty"`
}

type sessionResponse struct {
	Authenticated bool   `json:"authenticated"`
	Redirect      string `json:"redirect"`
}

// Session 落地页会话探测：令牌有效则跳转仪表盘
func (h *Handler) Session(c *gin.Context) {
	token := middleware.BearerToken(c)
	if token != "" {
		if _, err := h.jwtService.ValidateAccessToken(token); err == nil {
			common.RespondSuccess(c, sessionResponse{Authenticated: true, Redirect: RedirectDashboard})
			return
		}
	}
	common.RespondSuccess(c, sessionResponse{Authenticated: false, Redirect: RedirectLanding})
}

// Register 注册账户
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.loginService.Register(req.Email, req.Password, req.FullName)
	if err != nil {
		switch {
		case errors.Is(err, authSvc.ErrInvalidEmail), errors.Is(err, authSvc.ErrWeakPassword):
			common.RespondError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, accounts.ErrEmailTaken):
			common.RespondError(c, http.StatusConflict, err.Error())
		default:
			log.Printf("[Auth] Failed to register user: %v", err)
			common.RespondError(c, http.StatusInternalServerError, common.T(c, i18n.MsgInternalError))
		}
		return
	}

	common.RespondCreated(c, common.T(c, i18n.MsgRegisterSuccess), gin.H{
		"id":           user.ID,
		"email":        user.Email,
		"display_name": user.DisplayName(),
	})
}

// Login 登录并下发刷新令牌 cookie
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.loginService.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, authSvc.ErrInvalidCredentials) {
			common.RespondError(c, http.StatusUnauthorized, common.T(c, i18n.MsgInvalidCredentials))
			return
		}
		log.Printf("[Auth] Login failed: %v", err)
		common.RespondError(c, http.StatusInternalServerError, common.T(c, i18n.MsgInternalError))
		return
	}

	h.setAuthCookies(c, result.RefreshToken, result.DeviceID, int(time.Until(result.RefreshTokenExpiry).Seconds()))

	common.RespondSuccessMessage(c, common.T(c, i18n.MsgWelcome, result.User.DisplayName()), tokenResponse{
		AccessToken:       result.AccessToken,
		AccessTokenExpiry: result.AccessTokenExpiry.Unix(),
		DisplayName:       result.User.DisplayName(),
	})
}

// Refresh 轮换刷新令牌
func (h *Handler) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie(refreshTokenCookie)
	if err != nil {
		common.RespondError(c, http.StatusUnauthorized, common.T(c, i18n.MsgInvalidToken))
		return
	}
	deviceID, err := c.Cookie(deviceIDCookie)
	if err != nil {
		common.RespondError(c, http.StatusUnauthorized, common.T(c, i18n.MsgInvalidToken))
		return
	}

	result, err := h.loginService.RefreshToken(refreshToken, deviceID)
	if err != nil {
		if !errors.Is(err, authSvc.ErrInvalidRefresh) {
			log.Printf("[Auth] Refresh failed: %v", err)
		}
		h.clearAuthCookies(c)
		common.RespondError(c, http.StatusUnauthorized, common.T(c, i18n.MsgInvalidToken))
		return
	}

	h.setAuthCookies(c, result.RefreshToken, result.DeviceID, int(time.Until(result.RefreshTokenExpiry).Seconds()))

	common.RespondSuccess(c, tokenResponse{
		AccessToken:       result.AccessToken,
		AccessTokenExpiry: result.AccessTokenExpiry.Unix(),
	})
}

// Logout 删除设备会话并清除 cookie
func (h *Handler) Logout(c *gin.Context) {
	if deviceID, err := c.Cookie(deviceIDCookie); err == nil {
		if err := h.loginService.Logout(deviceID); err != nil {
			log.Printf("[Auth] Failed to delete device session: %v", err)
		}
	}

	h.clearAuthCookies(c)
	common.RespondSuccessMessage(c, common.T(c, i18n.MsgLogoutSuccess), nil)
}

func (h *Handler) setAuthCookies(c *gin.Context, refreshToken, deviceID string, maxAge int) {
	for name, value := range map[string]string{refreshTokenCookie: refreshToken, deviceIDCookie: deviceID} {
		http.SetCookie(c.Writer, &http.Cookie{
			Name:     name,
			Value:    value,
			MaxAge:   maxAge,
			Path:     cookiePath,
			Domain:   h.cookieDomain,
			Secure:   h.secure,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
}

// clearAuthCookies MaxAge 为 -1 让浏览器删除 cookie
func (h *Handler) clearAuthCookies(c *gin.Context) {
	c.SetCookie(refreshTokenCookie, "", -1, cookiePath, h.cookieDomain, h.secure, true)
	c.SetCookie(deviceIDCookie, "", -1, cookiePath, h.cookieDomain, h.secure, true)
}
