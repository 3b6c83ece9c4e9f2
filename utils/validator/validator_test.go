package validator

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	jpegHeader = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}
	pngHeader  = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}
	gifHeader  = []byte("GIF89a")
	webpHeader = []byte("RIFF\x00\x00\x00\x00WEBPVP8 ")
	bmpHeader  = []byte("BM")
)

func TestIsImageBytes(t *testing.T) {
	tests := []struct {
		name   string
		header []byte
		ok     bool
		mime   string
	}{
		{"jpeg", jpegHeader, true, "image/jpeg"},
		{"png", pngHeader, true, "image/png"},
		{"gif", gifHeader, true, "image/gif"},
		{"webp", webpHeader, true, "image/webp"},
		{"bmp", bmpHeader, true, "image/bmp"},
		{"text", []byte("hello fish"), false, "text/plain; charset=utf-8"},
		{"pdf", []byte("%PDF-1.4"), false, "application/pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, mime := IsImageBytes(tt.header)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.mime, mime)
		})
	}

	ok, mime := IsImageBytes(nil)
	assert.False(t, ok)
	assert.Empty(t, mime)
}

func TestIsImage_ResetsOffset(t *testing.T) {
	data := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 1024)...)
	r := bytes.NewReader(data)

	ok, mime, err := IsImage(r)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "image/png", mime)

	all, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, data, all)
}
