package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatFromContentType(t *testing.T) {
	tests := []struct {
		contentType string
		want        Format
	}{
		{"image/png", PNG},
		{"IMAGE/PNG", PNG},
		{"image/png; charset=binary", PNG},
		{"image/jpeg", JPEG},
		{"image/jpg", JPEG},
		{"", JPEG},
		{"application/octet-stream", JPEG},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatFromContentType(tt.contentType), "content type %q", tt.contentType)
	}
}

func TestFormatExtensions(t *testing.T) {
	assert.Equal(t, ".png", PNG.Ext())
	assert.Equal(t, ".pgw", PNG.WorldExt())
	assert.Equal(t, ".jpeg", JPEG.Ext())
	assert.Equal(t, ".jgw", JPEG.WorldExt())
}
