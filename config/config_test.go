package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Addr(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"defaults", Config{}, "0.0.0.0:8080"},
		{"explicit", Config{ServerHost: "127.0.0.1", ServerPort: 9000}, "127.0.0.1:9000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.Addr())
		})
	}
}

func TestConfig_BaseURL(t *testing.T) {
	assert.Equal(t, "https://fish.example.com", (&Config{ServerDomain: "https://fish.example.com/"}).BaseURL())
	assert.Equal(t, "http://localhost:8080", (&Config{ServerHost: "0.0.0.0", ServerPort: 8080}).BaseURL())
	assert.Equal(t, "http://127.0.0.1:3000", (&Config{ServerHost: "127.0.0.1", ServerPort: 3000}).BaseURL())
}

func TestConfig_UploadLimits(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, int64(20<<20), cfg.UploadMaxSize())
	assert.Equal(t, int64(200<<20), cfg.UploadMaxBatchTotal())

	cfg.UploadMaxSizeMB = 5
	cfg.UploadMaxBatchTotalMB = 10
	assert.Equal(t, int64(5<<20), cfg.UploadMaxSize())
	assert.Equal(t, int64(10<<20), cfg.UploadMaxBatchTotal())
}

func TestConfig_RequestBodyLimit(t *testing.T) {
	assert.Equal(t, int64(400<<20), (&Config{}).RequestBodyLimit())
	assert.Equal(t, int64(100<<20), (&Config{UploadMaxBatchTotalMB: 10}).RequestBodyLimit())
	assert.Equal(t, int64(1000<<20), (&Config{UploadMaxBatchTotalMB: 500}).RequestBodyLimit())
}

func TestConfig_MaxFrameDimension(t *testing.T) {
	assert.Equal(t, 4096, (&Config{}).MaxFrameDimension())
	assert.Equal(t, 1920, (&Config{UploadMaxDimension: 1920}).MaxFrameDimension())
}

func TestDefaults_CoverCloudKeys(t *testing.T) {
	defaults := Defaults()
	for _, key := range []string{"google_api_key", "google_client_id", "dropbox_app_key"} {
		v, ok := defaults[key]
		assert.True(t, ok, key)
		assert.Equal(t, "", v)
	}
	assert.Equal(t, "en", defaults["default_language"])
}
