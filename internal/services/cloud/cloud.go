// Package cloud 从 Google Drive 与 Dropbox 选择器导入图片
package cloud

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/anoixa/fish-bed/database/models"
	"github.com/anoixa/fish-bed/utils"
	"golang.org/x/oauth2"
)

const (
	ProviderGoogle  = "google"
	ProviderDropbox = "dropbox"

	// GoogleDriveScope 选择器申请的只读权限
	GoogleDriveScope = "https://www.googleapis.com/auth/drive.readonly"

	defaultGoogleAPIBase = "https://www.googleapis.com"
	defaultFetchTimeout  = 60 * time.Second
)

// ErrProviderNotConfigured 缺少云盘密钥
var ErrProviderNotConfigured = errors.New("provider not configured")

// ErrUnknownProvider 不支持的云盘
var ErrUnknownProvider = errors.New("unknown cloud provider")

// ErrInvalidLink 不是 Dropbox 直链
var ErrInvalidLink = errors.New("invalid Dropbox link")

// ErrDownloadFailed 下载失败，底层网络错误只写日志
var ErrDownloadFailed = errors.New("failed to download file")

// dropboxHostSuffixes Chooser 直链与其跳转目标所在的域
var dropboxHostSuffixes = []string{"dropbox.com", "dropboxusercontent.com"}

// Recorder 上传并登记一张图片
type Recorder interface {
	Record(ctx context.Context, userID uint, fileName string, src io.Reader, uploadType string) (*models.FishImage, error)
}

// Config 云盘选择器密钥
type Config struct {
	GoogleAPIKey   string
	GoogleClientID string
	DropboxAppKey  string
}

// GoogleConfigured Google 选择器需要 API key 与 client id
func (c Config) GoogleConfigured() bool {
	return c.GoogleAPIKey != "" && c.GoogleClientID != ""
}

// DropboxConfigured Dropbox Chooser 需要 app key
func (c Config) DropboxConfigured() bool {
	return c.DropboxAppKey != ""
}

// PickerConfig 前端加载选择器 SDK 所需的公开配置
type PickerConfig struct {
	Google struct {
		Configured bool   `json:"configured"`
		APIKey     string `json:"api_key,omitempty"`
		ClientID   string `json:"client_id,omitempty"`
		Scope      string `json:"scope"`
	} `json:"google"`
	Dropbox struct {
		Configured bool   `json:"configured"`
		AppKey     string `json:"app_key,omitempty"`
	} `json:"dropbox"`
}

// GoogleFile Google Picker 返回的文件
type GoogleFile struct {
	ID       string `json:"id" binding:"required"`
	Name     string `json:"name" binding:"required"`
	MimeType string `json:"mime_type"`
}

// GoogleImportRequest Google Drive 导入请求
type GoogleImportRequest struct {
	AccessToken string       `json:"access_token" binding:"required"`
	Files       []GoogleFile `json:"files" binding:"required,min=1,dive"`
}

// DropboxFile Dropbox Chooser 返回的直链文件
type DropboxFile struct {
	Link string `json:"link" binding:"required"`
	Name string `json:"name" binding:"required"`
}

// DropboxImportRequest Dropbox 导入请求
type DropboxImportRequest struct {
	Files []DropboxFile `json:"files" binding:"required,min=1,dive"`
}

// ImportResult 导入结果，失败时 Imported 为中止前已完成的记录
type ImportResult struct {
	Provider string              `json:"provider"`
	Imported []*models.FishImage `json:"imported"`
}

// Service 云盘导入服务
type Service struct {
	cfg           Config
	recorder      Recorder
	httpClient    *http.Client
	googleAPIBase string
}

// NewService 创建云盘导入服务
func NewService(cfg Config, recorder Recorder) *Service {
	return &Service{
		cfg:           cfg,
		recorder:      recorder,
		httpClient:    &http.Client{Timeout: defaultFetchTimeout},
		googleAPIBase: defaultGoogleAPIBase,
	}
}

// WithHTTPClient 替换下载使用的客户端
func (s *Service) WithHTTPClient(client *http.Client) *Service {
	s.httpClient = client
	return s
}

// WithGoogleAPIBase 替换 Google API 地址
func (s *Service) WithGoogleAPIBase(base string) *Service {
	s.googleAPIBase = strings.TrimRight(base, "/")
	return s
}

// PickerConfig 返回选择器配置，未配置的云盘不下发密钥
func (s *Service) PickerConfig() *PickerConfig {
	pc := &PickerConfig{}
	pc.Google.Scope = GoogleDriveScope
	if s.cfg.GoogleConfigured() {
		pc.Google.Configured = true
		pc.Google.APIKey = s.cfg.GoogleAPIKey
		pc.Google.ClientID = s.cfg.GoogleClientID
	}
	if s.cfg.DropboxConfigured() {
		pc.Dropbox.Configured = true
		pc.Dropbox.AppKey = s.cfg.DropboxAppKey
	}
	return pc
}

// CheckConfigured 在使用时检查密钥
func (s *Service) CheckConfigured(provider string) error {
	switch provider {
	case ProviderGoogle:
		if !s.cfg.GoogleConfigured() {
			return fmt.Errorf("%w: Google Drive not configured, add GOOGLE_API_KEY and GOOGLE_CLIENT_ID to your environment", ErrProviderNotConfigured)
		}
	case ProviderDropbox:
		if !s.cfg.DropboxConfigured() {
			return fmt.Errorf("%w: Dropbox not configured, add DROPBOX_APP_KEY to your environment", ErrProviderNotConfigured)
		}
	default:
		return fmt.Errorf("%w: %s", ErrUnknownProvider, provider)
	}
	return nil
}

// ImportGoogle 以 OAuth 令牌逐个下载并登记，遇错即停
func (s *Service) ImportGoogle(ctx context.Context, userID uint, req *GoogleImportRequest) (*ImportResult, error) {
	if err := s.CheckConfigured(ProviderGoogle); err != nil {
		return nil, err
	}

	base := context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)
	client := oauth2.NewClient(base, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: req.AccessToken,
		TokenType:   "Bearer",
	}))

	result := &ImportResult{Provider: ProviderGoogle, Imported: []*models.FishImage{}}
	for _, f := range req.Files {
		downloadURL := fmt.Sprintf("%s/drive/v3/files/%s?alt=media", s.googleAPIBase, url.PathEscape(f.ID))

		img, err := s.fetchAndRecord(ctx, client, userID, downloadURL, f.Name, models.UploadTypeGoogleDrive)
		if err != nil {
			return result, err
		}
		result.Imported = append(result.Imported, img)
	}
	return result, nil
}

// ImportDropbox 下载 Chooser 直链并登记，遇错即停
func (s *Service) ImportDropbox(ctx context.Context, userID uint, req *DropboxImportRequest) (*ImportResult, error) {
	if err := s.CheckConfigured(ProviderDropbox); err != nil {
		return nil, err
	}

	client := *s.httpClient
	client.CheckRedirect = checkDropboxRedirect

	result := &ImportResult{Provider: ProviderDropbox, Imported: []*models.FishImage{}}
	for _, f := range req.Files {
		u, err := ParseDropboxLink(f.Link)
		if err != nil {
			return result, fmt.Errorf("%w for %s", err, f.Name)
		}

		img, err := s.fetchAndRecord(ctx, &client, userID, u.String(), f.Name, models.UploadTypeDropbox)
		if err != nil {
			return result, err
		}
		result.Imported = append(result.Imported, img)
	}
	return result, nil
}

// ParseDropboxLink 只接受 https 且主机属于 Dropbox 的链接
func ParseDropboxLink(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, ErrInvalidLink
	}
	if u.Scheme != "https" || u.User != nil || !isDropboxHost(u.Hostname()) {
		return nil, ErrInvalidLink
	}
	if port := u.Port(); port != "" && port != "443" {
		return nil, ErrInvalidLink
	}
	return u, nil
}

func isDropboxHost(host string) bool {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	for _, suffix := range dropboxHostSuffixes {
		if host == suffix || strings.HasSuffix(host, "."+suffix) {
			return true
		}
	}
	return false
}

// checkDropboxRedirect 跳转目标同样必须是 Dropbox 主机
func checkDropboxRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= 10 {
		return errors.New("stopped after 10 redirects")
	}
	if _, err := ParseDropboxLink(req.URL.String()); err != nil {
		return err
	}
	return nil
}

func (s *Service) fetchAndRecord(ctx context.Context, client *http.Client, userID uint, rawURL, name, uploadType string) (*models.FishImage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build download request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		log.Printf("[Cloud] Download of %s via %s failed: %v", utils.SanitizeLogMessage(name), uploadType, err)
		return nil, fmt.Errorf("%w: %s", ErrDownloadFailed, name)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s (status %d)", ErrDownloadFailed, name, resp.StatusCode)
	}

	utils.LogIfDevf("[Cloud] Downloaded %s via %s", utils.SanitizeLogMessage(name), uploadType)
	return s.recorder.Record(ctx, userID, name, resp.Body, uploadType)
}
