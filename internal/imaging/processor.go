// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imaging stores uploaded photos: orientation is corrected from EXIF,
// the image is bounded to MaxDimension and a square thumbnail is produced.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp" // WebP decoder
)

// Limits
const (
	MaxUploadSize = 10 << 20
	MaxDimension  = 1600
	ThumbSize     = 400
	jpegQuality   = 88
)

// Upload kinds, each stored in its own directory under the uploads root.
const (
	KindBlog      = "blogs"
	KindCycle     = "cycles"
	KindProfessor = "professors"
)

// URLPrefix is where the uploads directory is served.
const URLPrefix = "/uploads/"

// Errors returned by Save.
var (
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrTooLarge          = errors.New("image exceeds upload size limit")
	ErrInvalidKind       = errors.New("invalid upload kind")
)

// Result describes a stored upload.
type Result struct {
	URL      string
	ThumbURL string
	Width    int
	Height   int
	MimeType string
	Size     int64
}

// Processor writes processed images below uploadDir.
type Processor struct {
	uploadDir string
}

// NewProcessor creates a new image processor.
func NewProcessor(uploadDir string) *Processor {
	return &Processor{uploadDir: uploadDir}
}

// Dir returns the uploads root.
func (p *Processor) Dir() string {
	return p.uploadDir
}

func validKind(kind string) bool {
	switch kind {
	case KindBlog, KindCycle, KindProfessor:
		return true
	}
	return false
}

// Save decodes r, normalizes it and stores the image and its thumbnail at
// <kind>/<uuid>/. WebP input is re-encoded as JPEG.
func (p *Processor) Save(kind string, r io.Reader) (*Result, error) {
	if !validKind(kind) {
		return nil, ErrInvalidKind
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading image data: %w", err)
	}
	if len(data) > MaxUploadSize {
		return nil, ErrTooLarge
	}

	format := detectFormat(data)
	if format == "" {
		return nil, ErrUnsupportedFormat
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	img = applyOrientation(img, readExifOrientation(bytes.NewReader(data)))

	b := img.Bounds()
	if b.Dx() > MaxDimension || b.Dy() > MaxDimension {
		img = imaging.Fit(img, MaxDimension, MaxDimension, imaging.Lanczos)
	}
	thumb := imaging.Fill(img, ThumbSize, ThumbSize, imaging.Center, imaging.Lanczos)

	if format == "webp" {
		format = "jpeg"
	}
	ext := "." + format
	if format == "jpeg" {
		ext = ".jpg"
	}

	main, err := encodeImage(img, format)
	if err != nil {
		return nil, fmt.Errorf("encoding image: %w", err)
	}
	small, err := encodeImage(thumb, format)
	if err != nil {
		return nil, fmt.Errorf("encoding thumbnail: %w", err)
	}

	id := uuid.NewString()
	dir := filepath.Join(p.uploadDir, kind, id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "image"+ext), main, 0o644); err != nil {
		return nil, fmt.Errorf("saving image: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "thumb"+ext), small, 0o644); err != nil {
		return nil, fmt.Errorf("saving thumbnail: %w", err)
	}

	base := URLPrefix + path.Join(kind, id)
	fb := img.Bounds()
	return &Result{
		URL:      base + "/image" + ext,
		ThumbURL: base + "/thumb" + ext,
		Width:    fb.Dx(),
		Height:   fb.Dy(),
		MimeType: "image/" + format,
		Size:     int64(len(main)),
	}, nil
}

// Delete removes the directory holding the upload at url. URLs outside the
// uploads tree are ignored.
func (p *Processor) Delete(url string) error {
	rest, ok := strings.CutPrefix(url, URLPrefix)
	if !ok {
		return nil
	}
	parts := strings.Split(rest, "/")
	if len(parts) != 3 || !validKind(parts[0]) {
		return nil
	}
	if _, err := uuid.Parse(parts[1]); err != nil {
		return nil
	}
	if err := os.RemoveAll(filepath.Join(p.uploadDir, parts[0], parts[1])); err != nil {
		return fmt.Errorf("deleting upload: %w", err)
	}
	return nil
}

// ThumbURL returns the thumbnail URL for an upload URL, or url itself when it
// is not a processed upload.
func ThumbURL(url string) string {
	if !strings.HasPrefix(url, URLPrefix) {
		return url
	}
	dir, file := path.Split(url)
	if !strings.HasPrefix(file, "image.") {
		return url
	}
	return dir + "thumb." + strings.TrimPrefix(file, "image.")
}

// readExifOrientation reads the EXIF orientation tag from image data.
// Returns 1 (normal) if orientation cannot be determined.
func readExifOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	orientation, err := tag.Int(0)
	if err != nil {
		return 1
	}
	return orientation
}

// applyOrientation maps EXIF orientation values 2-8 to flips and rotations.
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.FlipH(imaging.Rotate270(img))
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.FlipH(imaging.Rotate90(img))
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

func encodeImage(img image.Image, format string) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch format {
	case "png":
		err = png.Encode(&buf, img)
	case "gif":
		err = gif.Encode(&buf, img, nil)
	default:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality})
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// detectFormat sniffs the image format from raw bytes.
func detectFormat(data []byte) string {
	contentType := http.DetectContentType(data)
	// TIFF is rejected (CVE-2023-36308 in disintegration/imaging)
	switch {
	case strings.Contains(contentType, "tiff"):
		return ""
	case strings.Contains(contentType, "jpeg"):
		return "jpeg"
	case strings.Contains(contentType, "png"):
		return "png"
	case strings.Contains(contentType, "gif"):
		return "gif"
	case strings.Contains(contentType, "webp"):
		return "webp"
	default:
		return ""
	}
}
