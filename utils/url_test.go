package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildFileURL(t *testing.T) {
	tests := []struct {
		base, path, want string
	}{
		{"http://localhost:8080", "7/1700000000000-ab12.jpg", "http://localhost:8080/files/7/1700000000000-ab12.jpg"},
		{"https://fish.example.com/", "/7/x.png", "https://fish.example.com/files/7/x.png"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, BuildFileURL(tt.base, tt.path))
	}
}
