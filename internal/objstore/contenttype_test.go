package objstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveContentType(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		mimetype string
		want     string
	}{
		{"mp4 extension", "clip.mp4", "", "video/mp4"},
		{"mp4 extension uppercase", "CLIP.MP4", "", "video/mp4"},
		{"video mime without extension", "clip", "video/quicktime", "video/mp4"},
		{"jpg extension", "photo.jpg", "", "image/jpeg"},
		{"jpeg extension", "photo.jpeg", "", "image/jpeg"},
		{"jpeg mime without extension", "photo", "image/jpeg", "image/jpeg"},
		{"png extension", "pic.png", "", "image/png"},
		{"png mime wins over unknown extension", "pic.data", "image/png", "image/png"},
		{"gif extension", "anim.gif", "", "image/gif"},
		{"unknown extension with mime", "doc.pdf", "application/pdf", "application/pdf"},
		{"nothing recognized", "blob.bin", "", "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveContentType(tt.filename, tt.mimetype))
		})
	}
}

func TestExtOf(t *testing.T) {
	assert.Equal(t, ".mp4", extOf("a/b/clip.MP4"))
	assert.Equal(t, "", extOf("noext"))
}
