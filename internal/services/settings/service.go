// Package settings 用户偏好设置，值以字符串存储
package settings

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strconv"

	"github.com/anoixa/fish-bed/cache"
	"github.com/anoixa/fish-bed/database/repo/settings"
	"github.com/anoixa/fish-bed/internal/i18n"
	"github.com/mitchellh/mapstructure"
)

// 设置键
const (
	KeyTheme         = "app-theme"
	KeyLanguage      = "app-language"
	KeyNotifications = "app-notifications"
	KeyAutoAnalyze   = "app-auto-analyze"
	KeyExpandOnClick = "app-expand-on-click"
)

// 主题取值
const (
	ThemeLight  = "light"
	ThemeDark   = "dark"
	ThemeSystem = "system"
)

var (
	ErrUnknownKey     = errors.New("unknown setting")
	ErrInvalidSetting = errors.New("invalid setting value")
)

// Defaults 未存储时的默认值
var Defaults = map[string]string{
	KeyTheme:         ThemeSystem,
	KeyLanguage:      i18n.DefaultLanguage,
	KeyNotifications: "false",
	KeyAutoAnalyze:   "false",
	KeyExpandOnClick: "true",
}

// Keys 返回全部设置键（有序）
func Keys() []string {
	keys := make([]string, 0, len(Defaults))
	for k := range Defaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Normalize 校验并归一化单个设置值
func Normalize(key, value string) (string, error) {
	switch key {
	case KeyTheme:
		switch value {
		case ThemeLight, ThemeDark, ThemeSystem:
			return value, nil
		}
		return "", fmt.Errorf("%w: %s must be light, dark or system", ErrInvalidSetting, key)
	case KeyLanguage:
		code, ok := i18n.Normalize(value)
		if !ok {
			return "", fmt.Errorf("%w: unsupported language %q", ErrInvalidSetting, value)
		}
		return code, nil
	case KeyNotifications, KeyAutoAnalyze, KeyExpandOnClick:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return "", fmt.Errorf("%w: %s must be a boolean", ErrInvalidSetting, key)
		}
		return strconv.FormatBool(b), nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
}

// IsClientError 判断是否应返回 400
func IsClientError(err error) bool {
	return errors.Is(err, ErrUnknownKey) || errors.Is(err, ErrInvalidSetting)
}

// Patch 批量更新的请求体，缺省字段不修改
type Patch struct {
	Theme         *string `mapstructure:"theme"`
	Language      *string `mapstructure:"language"`
	Notifications *bool   `mapstructure:"notifications"`
	AutoAnalyze   *bool   `mapstructure:"auto_analyze"`
	ExpandOnClick *bool   `mapstructure:"expand_on_click"`
}

// DecodePatch 解码请求体，未知字段视为无效
func DecodePatch(input map[string]interface{}) (*Patch, error) {
	var patch Patch
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &patch,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(input); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSetting, err)
	}
	return &patch, nil
}

// values 转换为按键存储的字符串
func (p *Patch) values() map[string]string {
	values := make(map[string]string)
	if p.Theme != nil {
		values[KeyTheme] = *p.Theme
	}
	if p.Language != nil {
		values[KeyLanguage] = *p.Language
	}
	if p.Notifications != nil {
		values[KeyNotifications] = strconv.FormatBool(*p.Notifications)
	}
	if p.AutoAnalyze != nil {
		values[KeyAutoAnalyze] = strconv.FormatBool(*p.AutoAnalyze)
	}
	if p.ExpandOnClick != nil {
		values[KeyExpandOnClick] = strconv.FormatBool(*p.ExpandOnClick)
	}
	return values
}

// Preferences 设置的类型化视图
type Preferences struct {
	Theme         string `json:"theme"`
	Language      string `json:"language"`
	Notifications bool   `json:"notifications"`
	AutoAnalyze   bool   `json:"auto_analyze"`
	ExpandOnClick bool   `json:"expand_on_click"`
}

// PreferencesFrom 从字符串设置构建，expand-on-click 仅在存储为 "false" 时关闭
func PreferencesFrom(values map[string]string) Preferences {
	return Preferences{
		Theme:         values[KeyTheme],
		Language:      values[KeyLanguage],
		Notifications: values[KeyNotifications] == "true",
		AutoAnalyze:   values[KeyAutoAnalyze] == "true",
		ExpandOnClick: values[KeyExpandOnClick] != "false",
	}
}

// Service 设置服务
type Service struct {
	repo        *settings.Repository
	cacheHelper *cache.Helper
}

// NewService 创建设置服务
func NewService(repo *settings.Repository, cacheHelper *cache.Helper) *Service {
	return &Service{repo: repo, cacheHelper: cacheHelper}
}

// GetAll 返回合并默认值后的全部设置
func (s *Service) GetAll(ctx context.Context, userID uint) (map[string]string, error) {
	if cached, err := s.cacheHelper.GetCachedSettings(ctx, userID); err == nil && cached != nil {
		return cached, nil
	}

	stored, err := s.repo.WithContext(ctx).GetAll(userID)
	if err != nil {
		return nil, err
	}

	values := make(map[string]string, len(Defaults))
	for k, v := range Defaults {
		values[k] = v
	}
	for k, v := range stored {
		if _, known := Defaults[k]; known {
			values[k] = v
		}
	}

	if err := s.cacheHelper.CacheSettings(ctx, userID, values); err != nil {
		log.Printf("[Settings] Failed to cache settings for user %d: %v", userID, err)
	}
	return values, nil
}

// Get 返回单个设置
func (s *Service) Get(ctx context.Context, userID uint, key string) (string, error) {
	if _, ok := Defaults[key]; !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	values, err := s.GetAll(ctx, userID)
	if err != nil {
		return "", err
	}
	return values[key], nil
}

// Preferences 返回类型化的设置
func (s *Service) Preferences(ctx context.Context, userID uint) (Preferences, error) {
	values, err := s.GetAll(ctx, userID)
	if err != nil {
		return Preferences{}, err
	}
	return PreferencesFrom(values), nil
}

// Language 返回用户界面语言，读取失败时为空
func (s *Service) Language(ctx context.Context, userID uint) string {
	values, err := s.GetAll(ctx, userID)
	if err != nil {
		return ""
	}
	return values[KeyLanguage]
}

// Set 写入单个设置
func (s *Service) Set(ctx context.Context, userID uint, key, value string) (map[string]string, error) {
	return s.save(ctx, userID, map[string]string{key: value})
}

// Update 批量写入 Patch 中出现的字段
func (s *Service) Update(ctx context.Context, userID uint, patch *Patch) (map[string]string, error) {
	return s.save(ctx, userID, patch.values())
}

func (s *Service) save(ctx context.Context, userID uint, values map[string]string) (map[string]string, error) {
	normalized := make(map[string]string, len(values))
	for key, value := range values {
		v, err := Normalize(key, value)
		if err != nil {
			return nil, err
		}
		normalized[key] = v
	}

	if err := s.repo.WithContext(ctx).Upsert(userID, normalized); err != nil {
		return nil, err
	}
	if err := s.cacheHelper.DeleteCachedSettings(ctx, userID); err != nil {
		log.Printf("[Settings] Failed to invalidate settings cache for user %d: %v", userID, err)
	}

	return s.GetAll(ctx, userID)
}
