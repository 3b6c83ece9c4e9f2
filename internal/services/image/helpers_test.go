package image

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/anoixa/fish-bed/cache"
	"github.com/anoixa/fish-bed/database/dbtest"
	"github.com/anoixa/fish-bed/database/repo/images"
	"github.com/anoixa/fish-bed/storage"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// spyStorage 记录调用次数，可注入删除失败
type spyStorage struct {
	storage.Provider

	mu         sync.Mutex
	saves      int
	deletes    int
	failDelete bool
	onDelete   func(p string)
}

func (s *spyStorage) SaveWithContext(ctx context.Context, p string, r io.Reader) error {
	s.mu.Lock()
	s.saves++
	s.mu.Unlock()
	return s.Provider.SaveWithContext(ctx, p, r)
}

func (s *spyStorage) DeleteWithContext(ctx context.Context, p string) error {
	s.mu.Lock()
	s.deletes++
	fail := s.failDelete
	hook := s.onDelete
	s.mu.Unlock()
	if fail {
		return errors.New("storage unavailable")
	}
	if err := s.Provider.DeleteWithContext(ctx, p); err != nil {
		return err
	}
	if hook != nil {
		hook(p)
	}
	return nil
}

type fixture struct {
	db      *gorm.DB
	repo    *images.Repository
	store   *spyStorage
	helper  *cache.Helper
	uploads *UploadService
	query   *QueryService
	deletes *DeleteService
	camera  *CameraService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := dbtest.NewDB(t)
	local, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	mem, err := cache.NewMemoryCache(cache.MemoryConfig{NumCounters: 1000, MaxCost: 1 << 20})
	require.NoError(t, err)
	t.Cleanup(func() { _ = mem.Close() })

	f := &fixture{
		db:     db,
		repo:   images.NewRepository(db),
		store:  &spyStorage{Provider: local},
		helper: cache.NewHelper(mem),
	}
	f.uploads = NewUploadService(f.repo, f.store, f.helper, nil, UploadOptions{
		MaxFileSize:   1 << 20,
		MaxBatchFiles: 10,
		MaxBatchTotal: 4 << 20,
		TempDir:       t.TempDir(),
	})
	f.query = NewQueryService(f.repo, f.helper, "http://fish.test")
	f.deletes = NewDeleteService(f.repo, f.store, f.helper)
	f.camera = NewCameraService(f.uploads, 64)
	return f
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: 10, G: uint8(40 * x), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

type namedFile struct {
	name string
	data []byte
}

// multipartFiles 通过真实的 multipart 解析得到 FileHeader
func multipartFiles(t *testing.T, files ...namedFile) []*multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for _, f := range files {
		part, err := w.CreateFormFile("files", f.name)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))
	return req.MultipartForm.File["files"]
}
