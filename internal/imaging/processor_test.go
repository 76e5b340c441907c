// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// createTestImage creates a simple test image with the given dimensions.
func createTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding png: %v", err)
	}
	return buf.Bytes()
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	p := NewProcessor(dir)

	res, err := p.Save(KindCycle, bytes.NewReader(encodePNG(t, createTestImage(2000, 1000))))
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	if res.Width != MaxDimension || res.Height != MaxDimension/2 {
		t.Errorf("dimensions = %dx%d, want %dx%d", res.Width, res.Height, MaxDimension, MaxDimension/2)
	}
	if res.MimeType != "image/png" {
		t.Errorf("MimeType = %q, want image/png", res.MimeType)
	}
	if !strings.HasPrefix(res.URL, "/uploads/cycles/") || !strings.HasSuffix(res.URL, "/image.png") {
		t.Errorf("URL = %q", res.URL)
	}
	if res.ThumbURL != ThumbURL(res.URL) {
		t.Errorf("ThumbURL = %q, want %q", res.ThumbURL, ThumbURL(res.URL))
	}

	thumbPath := filepath.Join(dir, filepath.FromSlash(strings.TrimPrefix(res.ThumbURL, URLPrefix)))
	f, err := os.Open(thumbPath)
	if err != nil {
		t.Fatalf("thumbnail not written: %v", err)
	}
	defer func() { _ = f.Close() }()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decoding thumbnail: %v", err)
	}
	if cfg.Width != ThumbSize || cfg.Height != ThumbSize {
		t.Errorf("thumbnail = %dx%d, want %dx%d", cfg.Width, cfg.Height, ThumbSize, ThumbSize)
	}
}

func TestSave_SmallImageKeepsSize(t *testing.T) {
	p := NewProcessor(t.TempDir())
	res, err := p.Save(KindBlog, bytes.NewReader(encodePNG(t, createTestImage(120, 80))))
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	if res.Width != 120 || res.Height != 80 {
		t.Errorf("dimensions = %dx%d, want 120x80", res.Width, res.Height)
	}
}

func TestSave_Errors(t *testing.T) {
	p := NewProcessor(t.TempDir())
	valid := encodePNG(t, createTestImage(10, 10))

	tests := []struct {
		name string
		kind string
		data []byte
		want error
	}{
		{"bad kind", "secrets", valid, ErrInvalidKind},
		{"text file", KindBlog, []byte("hello, this is not an image"), ErrUnsupportedFormat},
		{"tiff", KindBlog, []byte("II*\x00\x08\x00\x00\x00"), ErrUnsupportedFormat},
		{"too large", KindBlog, make([]byte, MaxUploadSize+1), ErrTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Save(tt.kind, bytes.NewReader(tt.data))
			if !errors.Is(err, tt.want) {
				t.Errorf("Save() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDelete(t *testing.T) {
	dir := t.TempDir()
	p := NewProcessor(dir)
	res, err := p.Save(KindProfessor, bytes.NewReader(encodePNG(t, createTestImage(10, 10))))
	if err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	if err := p.Delete(res.URL); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	uploadDir := filepath.Dir(filepath.Join(dir, filepath.FromSlash(strings.TrimPrefix(res.URL, URLPrefix))))
	if _, err := os.Stat(uploadDir); !os.IsNotExist(err) {
		t.Errorf("upload directory still exists: %v", err)
	}

	// Foreign and malformed URLs are ignored.
	for _, u := range []string{"https://cdn.example/x.jpg", "/uploads/../etc/passwd", "/uploads/blogs/not-a-uuid/image.jpg"} {
		if err := p.Delete(u); err != nil {
			t.Errorf("Delete(%q) error: %v", u, err)
		}
	}
}

func TestApplyOrientation(t *testing.T) {
	img := createTestImage(40, 20)
	tests := []struct {
		orientation int
		w, h        int
	}{
		{1, 40, 20},
		{3, 40, 20},
		{6, 20, 40},
		{8, 20, 40},
	}
	for _, tt := range tests {
		b := applyOrientation(img, tt.orientation).Bounds()
		if b.Dx() != tt.w || b.Dy() != tt.h {
			t.Errorf("orientation %d: %dx%d, want %dx%d", tt.orientation, b.Dx(), b.Dy(), tt.w, tt.h)
		}
	}
}

func TestThumbURL(t *testing.T) {
	tests := []struct{ in, want string }{
		{"/uploads/blogs/abc/image.jpg", "/uploads/blogs/abc/thumb.jpg"},
		{"https://example.com/a.jpg", "https://example.com/a.jpg"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ThumbURL(tt.in); got != tt.want {
			t.Errorf("ThumbURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
