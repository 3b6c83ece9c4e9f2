package storage

import (
	"errors"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
)

func TestNewMinioStorage_Validation(t *testing.T) {
	_, err := NewMinioStorage(MinioConfig{BucketName: "fish-images"})
	assert.Error(t, err)

	_, err = NewMinioStorage(MinioConfig{Endpoint: "localhost:9000"})
	assert.Error(t, err)
}

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, "image/jpeg", contentTypeFor("1/a.jpg"))
	assert.Equal(t, "image/png", contentTypeFor("1/a.png"))
	assert.Equal(t, "application/octet-stream", contentTypeFor("1/a.unknownext"))
}

func TestIsNoSuchKey(t *testing.T) {
	assert.False(t, isNoSuchKey(nil))
	assert.True(t, isNoSuchKey(minio.ErrorResponse{Code: "NoSuchKey"}))
	assert.False(t, isNoSuchKey(minio.ErrorResponse{Code: "AccessDenied"}))
	assert.False(t, isNoSuchKey(errors.New("dial tcp: refused")))
}
