package image

import (
	"bytes"
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/anoixa/fish-bed/database/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_Unauthenticated_NeverTouchesStorage(t *testing.T) {
	f := newFixture(t)

	_, err := f.uploads.Record(context.Background(), 0, "fish.png", bytes.NewReader(pngBytes(t)), models.UploadTypeUpload)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = f.camera.Capture(context.Background(), 0, bytes.NewReader(pngBytes(t)))
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = f.uploads.UploadBatch(context.Background(), 0, multipartFiles(t, namedFile{"a.png", pngBytes(t)}))
	assert.ErrorIs(t, err, ErrUnauthenticated)

	assert.Equal(t, 0, f.store.saves)
}

func TestRecord_StoresBlobAndRow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	data := pngBytes(t)

	img, err := f.uploads.Record(ctx, 3, "Reef Shark.PNG", bytes.NewReader(data), models.UploadTypeUpload)
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^3/\d+-[0-9a-f]{16}\.png$`), img.FilePath)
	assert.Equal(t, "Reef Shark.PNG", img.FileName)
	assert.Equal(t, int64(len(data)), img.FileSize)
	assert.Equal(t, models.UploadTypeUpload, img.UploadType)

	exists, err := f.store.Exists(ctx, img.FilePath)
	require.NoError(t, err)
	assert.True(t, exists)

	row, err := f.repo.GetByIDAndUser(img.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, img.FilePath, row.FilePath)
}

func TestRecord_RejectsNonImageAndOversized(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uploads.Record(ctx, 1, "notes.txt", strings.NewReader("just some text"), models.UploadTypeUpload)
	assert.ErrorIs(t, err, ErrUnsupportedType)

	big := append(pngBytes(t), bytes.Repeat([]byte{0}, 1<<20)...)
	_, err = f.uploads.Record(ctx, 1, "big.png", bytes.NewReader(big), models.UploadTypeUpload)
	assert.ErrorIs(t, err, ErrFileTooLarge)

	_, err = f.uploads.Record(ctx, 1, "fish.png", bytes.NewReader(pngBytes(t)), "onedrive")
	assert.Error(t, err)

	assert.Equal(t, 0, f.store.saves)
}

func TestRecord_RowFailureRemovesBlob(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sqlDB, err := f.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = f.uploads.Record(ctx, 1, "fish.png", bytes.NewReader(pngBytes(t)), models.UploadTypeUpload)
	require.Error(t, err)
	assert.Equal(t, 1, f.store.saves)
	assert.Equal(t, 1, f.store.deletes)
}

func TestUploadBatch_AllSucceed(t *testing.T) {
	f := newFixture(t)
	files := multipartFiles(t,
		namedFile{"a.png", pngBytes(t)},
		namedFile{"b.png", pngBytes(t)},
		namedFile{"c.png", pngBytes(t)},
	)

	results, err := f.uploads.UploadBatch(context.Background(), 1, files)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, 3, SuccessCount(results))

	for i, name := range []string{"a.png", "b.png", "c.png"} {
		assert.Equal(t, name, results[i].FileName)
		assert.NotNil(t, results[i].Image)
	}
}

func TestUploadBatch_OneFailureKeepsOthers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	files := multipartFiles(t,
		namedFile{"a.png", pngBytes(t)},
		namedFile{"broken.png", []byte("definitely not an image")},
		namedFile{"c.png", pngBytes(t)},
	)

	results, err := f.uploads.UploadBatch(ctx, 1, files)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedType)

	require.Len(t, results, 3)
	assert.Equal(t, 2, SuccessCount(results))
	assert.NotEmpty(t, results[1].Error)

	// 已成功的文件不回滚
	list, err := f.query.List(ctx, 1, ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), list.Total)
	for _, item := range list.Items {
		exists, err := f.store.Exists(ctx, item.FilePath)
		require.NoError(t, err)
		assert.True(t, exists)
	}
}

func TestCheckBatch_Limits(t *testing.T) {
	f := newFixture(t)

	assert.ErrorIs(t, f.uploads.CheckBatch(nil), ErrNoFiles)

	many := make([]namedFile, 11)
	for i := range many {
		many[i] = namedFile{"f.png", []byte("x")}
	}
	assert.ErrorIs(t, f.uploads.CheckBatch(multipartFiles(t, many...)), ErrTooManyFiles)

	f.uploads.opts.MaxBatchTotal = 10
	err := f.uploads.CheckBatch(multipartFiles(t, namedFile{"a.png", pngBytes(t)}))
	assert.ErrorIs(t, err, ErrBatchTooLarge)
}

func TestIsClientError(t *testing.T) {
	assert.True(t, IsClientError(ErrUnsupportedType))
	assert.True(t, IsClientError(ErrTooManyFiles))
	assert.False(t, IsClientError(ErrUnauthenticated))
	assert.False(t, IsClientError(context.Canceled))
}
